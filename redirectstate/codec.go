// Package redirectstate carries a post-login redirect target through an
// OAuth2 authorization round trip.
//
// Providers echo the state parameter back untouched but drop any other
// application data, so the target is appended to the anti-forgery state:
//
//	base64url(csrfState + "#" + redirectURL)
//
// The CSRF half never contains "#", which makes the first "#" the boundary.
// The redirect half may contain anything, including further "#" characters.
package redirectstate

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultRedirect is used whenever no usable target is available.
	DefaultRedirect = "/"

	separator      = "#"
	baseStateBytes = 32
)

// ErrDecode is returned by Split when the state is not valid URL-safe
// base64 of UTF-8 text.
var ErrDecode = errors.New("state is not a valid encoded redirect state")

// Encode appends redirectURL to baseState and encodes the result. A nil
// redirectURL is treated as DefaultRedirect.
func Encode(baseState string, redirectURL *string) string {
	target := DefaultRedirect
	if redirectURL != nil {
		target = *redirectURL
	}

	return base64.URLEncoding.EncodeToString([]byte(baseState + separator + target))
}

// EncodeURL is Encode for values read from a query string, where an absent
// parameter arrives as "".
func EncodeURL(baseState, redirectURL string) string {
	if redirectURL == "" {
		return Encode(baseState, nil)
	}
	return Encode(baseState, &redirectURL)
}

// Split decodes state into its CSRF and redirect halves. The redirect half is
// empty when the state carries none.
func Split(state string) (csrfState, redirectURL string, err error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(state, "="))
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if !utf8.Valid(raw) {
		return "", "", fmt.Errorf("%w: not UTF-8", ErrDecode)
	}

	csrfState, redirectURL, _ = strings.Cut(string(raw), separator)
	return csrfState, redirectURL, nil
}

// Decode returns the redirect target carried by state. Decoding problems only
// degrade the target to DefaultRedirect; they never fail the login.
func Decode(state string) string {
	if strings.TrimSpace(state) == "" {
		return DefaultRedirect
	}

	_, redirectURL, err := Split(state)
	if err != nil || strings.TrimSpace(redirectURL) == "" {
		return DefaultRedirect
	}

	return redirectURL
}

// NewBaseState returns a random anti-forgery state. The alphabet is URL-safe
// base64, which never produces the separator.
func NewBaseState() (string, error) {
	buf := make([]byte, baseStateBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
