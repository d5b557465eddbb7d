/*
Package core resolves request credentials into a Principal without depending
on any transport.

An Authenticator receives the raw Credentials a caller presented (an opaque
API key and an optional signed access token) and decides who the caller is:

	rb := &core.ResponseBuilder{}
	outcome, err := auth.Authenticate(ctx, creds, rb)
	if err != nil {
	    // *core.ServiceError values carry a "<status>-<n>" result code
	}
	for _, u := range rb.Updates() {
	    // write u.Value back to the caller (cookie, header, gRPC metadata)
	}

A valid access token is trusted without a member lookup. When it is missing or
stale the API key is looked up instead, and a stale token is reissued through
the ResponseBuilder so the caller picks it up on the same response.

Transport adapters live in the root authfilter package and under framework/.
*/
package core
