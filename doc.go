/*
Package authfilter provides HTTP middleware that authenticates API requests
with a long-lived API key and a short-lived signed access token.

The package follows the Core-Adapter pattern: package core holds the
transport-independent authentication logic and this package is the net/http
adapter. Gin, Echo and gRPC adapters live under framework/.

# Quick Start

	import (
	    "github.com/back-devcourse/authfilter"
	    "github.com/back-devcourse/authfilter/member"
	    "github.com/back-devcourse/authfilter/token"
	)

	func main() {
	    issuer, err := token.New([]byte(os.Getenv("AUTH_JWT_SECRET")))
	    if err != nil {
	        log.Fatal(err)
	    }

	    members, err := member.NewService(member.NewMemoryStore(), issuer)
	    if err != nil {
	        log.Fatal(err)
	    }

	    filter, err := authfilter.New(
	        authfilter.WithCredentialService(members),
	    )
	    if err != nil {
	        log.Fatal(err)
	    }

	    http.ListenAndServe(":8080", filter.Handler(router))
	}

# Credentials

Callers send either

	Authorization: Bearer <apiKey> <accessToken>

where either value may be empty, or the cookies "apiKey" and "accessToken".
A non-blank Authorization header always wins over cookies and must use the
Bearer scheme.

Only paths under "/api/" are authenticated; "/api/v1/members/join" and
"/api/v1/members/login" are public. Requests without credentials continue
anonymously, so handlers decide whether a principal is required:

	func meHandler(w http.ResponseWriter, r *http.Request) {
	    principal, err := authfilter.GetPrincipal(r.Context())
	    if err != nil {
	        // anonymous
	    }
	    fmt.Fprintln(w, principal.Username)
	}

# Silent Refresh

A valid access token is trusted as is. When it has expired the API key is
looked up instead and a new access token is written back as the
"accessToken" cookie and response header on the same response.

# Errors

Rejections are answered by the ErrorHandler. DefaultErrorHandler writes

	{"resultCode":"401-3","msg":"API key is invalid."}

with the HTTP status taken from the code prefix. Unexpected collaborator
errors produce a bare 500.

# Observability

WithLogger accepts any log/slog compatible logger; NewLogrusLogger adapts
logrus. WithMetrics and WithTracer plug in Prometheus and OpenTelemetry.
*/
package authfilter
