package authfilter

import (
	"errors"
	"net/http"

	"github.com/back-devcourse/authfilter/core"
)

// CredentialsExtractor reads the credentials a request presents. An error
// should only be returned if credentials were present but malformed; absent
// credentials are returned as empty values.
type CredentialsExtractor func(r *http.Request) (core.Credentials, error)

// AuthHeaderCredentialsExtractor reads "Authorization: Bearer <apiKey>
// <accessToken>". A non-Bearer header fails with core.ErrMalformedCredential.
func AuthHeaderCredentialsExtractor(r *http.Request) (core.Credentials, error) {
	creds, _, err := core.ParseAuthorization(r.Header.Get("Authorization"))
	return creds, err
}

// CookieCredentialsExtractor builds a CredentialsExtractor that reads the
// named cookies.
func CookieCredentialsExtractor(apiKeyName, accessTokenName string) CredentialsExtractor {
	return func(r *http.Request) (core.Credentials, error) {
		return core.Credentials{
			APIKey:      cookieValue(r, apiKeyName),
			AccessToken: cookieValue(r, accessTokenName),
		}, nil
	}
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return ""
	}
	return cookie.Value
}

// HeaderOrCookieCredentialsExtractor uses the Authorization header whenever
// it is non-blank, even if it carries empty values, and reads the named
// cookies otherwise.
func HeaderOrCookieCredentialsExtractor(apiKeyName, accessTokenName string) CredentialsExtractor {
	cookies := CookieCredentialsExtractor(apiKeyName, accessTokenName)
	return func(r *http.Request) (core.Credentials, error) {
		creds, ok, err := core.ParseAuthorization(r.Header.Get("Authorization"))
		if err != nil {
			return core.Credentials{}, err
		}
		if ok {
			return creds, nil
		}
		return cookies(r)
	}
}

// DefaultCredentialsExtractor reads the Authorization header and falls back
// to the "apiKey" and "accessToken" cookies when it is blank.
var DefaultCredentialsExtractor = HeaderOrCookieCredentialsExtractor(core.APIKeyName, core.AccessTokenName)

// MultiCredentialsExtractor returns a CredentialsExtractor that runs each
// extractor in turn and takes the first non-empty result. If an extractor
// returns an error that error is immediately returned.
func MultiCredentialsExtractor(extractors ...CredentialsExtractor) CredentialsExtractor {
	return func(r *http.Request) (core.Credentials, error) {
		for _, ex := range extractors {
			creds, err := ex(r)
			if err != nil {
				return core.Credentials{}, err
			}

			if !creds.IsEmpty() {
				return creds, nil
			}
		}
		return core.Credentials{}, nil
	}
}
