package core

import "strings"

const bearerPrefix = "Bearer "

// Default names of the credential cookies and of the refresh header.
const (
	APIKeyName      = "apiKey"
	AccessTokenName = "accessToken"
)

// Credentials are the raw values a caller presented. Either may be empty.
type Credentials struct {
	APIKey      string
	AccessToken string
}

// HasAPIKey reports whether a non-blank API key was presented.
func (c Credentials) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// HasAccessToken reports whether a non-blank access token was presented.
func (c Credentials) HasAccessToken() bool {
	return strings.TrimSpace(c.AccessToken) != ""
}

// IsEmpty reports whether no credential was presented.
func (c Credentials) IsEmpty() bool {
	return !c.HasAPIKey() && !c.HasAccessToken()
}

// ParseAuthorization parses "Bearer <apiKey> <accessToken>". Either value may
// be missing, so "Bearer <apiKey>" and "Bearer  <accessToken>" are accepted.
// A blank header yields empty credentials and ok == false so callers can fall
// back to other sources; any other scheme is ErrMalformedCredential.
func ParseAuthorization(header string) (creds Credentials, ok bool, err error) {
	if strings.TrimSpace(header) == "" {
		return Credentials{}, false, nil
	}

	if !strings.HasPrefix(header, bearerPrefix) {
		return Credentials{}, true, ErrMalformedCredential
	}

	parts := strings.SplitN(header, " ", 3)
	if len(parts) > 1 {
		creds.APIKey = parts[1]
	}
	if len(parts) > 2 {
		creds.AccessToken = parts[2]
	}

	return creds, true, nil
}
