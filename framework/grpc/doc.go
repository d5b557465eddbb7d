/*
Package authgrpc provides gRPC server interceptors that authenticate calls
with the same API key and access token scheme as the HTTP filter.

Credentials are read from the "authorization" metadata entry
("Bearer <apiKey> <accessToken>"), or from the "apikey" and "accesstoken"
entries when it is absent:

	interceptor, err := authgrpc.New(
	    authgrpc.WithCredentialService(memberService),
	    authgrpc.WithExcludedMethods("/grpc.health.v1.Health/Check"),
	)
	if err != nil {
	    log.Fatal(err)
	}

	server := grpc.NewServer(
	    grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
	    grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
	)

A refreshed access token is sent back as the "accesstoken" response header.
Handlers read the principal with GetPrincipal.
*/
package authgrpc
