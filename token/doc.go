/*
Package token issues and decodes the short-lived access tokens accepted by
the authentication filter.

Access tokens are HS256 signed JWTs carrying the member id, username and
nickname, so a request bearing a fresh token is authenticated without a
storage round trip. Expired or tampered tokens simply fail to decode; the
filter then falls back to the long-lived API key and mints a replacement.

	issuer, err := token.New(
	    []byte(os.Getenv("AUTH_JWT_SECRET")),
	    token.WithIssuerName("my-api"),
	    token.WithTTL(20*time.Minute),
	)
	if err != nil {
	    log.Fatal(err)
	}

	signed, err := issuer.Issue(token.Claims{ID: 7, Username: "alice", Nickname: "Al"})
	claims, err := issuer.Decode(signed)
*/
package token
