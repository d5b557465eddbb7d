package authfilter

import (
	"net/http"
	"time"
)

// CookieConfig holds the attributes of credential cookies.
type CookieConfig struct {
	Domain   string
	Path     string
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
	// MaxAge in seconds; zero writes a session cookie.
	MaxAge int
}

// DefaultCookieConfig returns HttpOnly, SameSite=Lax cookies scoped to "/"
// that live for a year.
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		Path:     "/",
		HTTPOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
	}
}

// Cookie builds a cookie carrying value.
func (c CookieConfig) Cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   c.Domain,
		Path:     c.Path,
		Secure:   c.Secure,
		HttpOnly: c.HTTPOnly,
		SameSite: c.SameSite,
		MaxAge:   c.MaxAge,
	}
}

// Write adds a Set-Cookie header for name to w.
func (c CookieConfig) Write(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, c.Cookie(name, value))
}
