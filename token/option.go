package token

import (
	"errors"
	"time"
)

// Option is how options for the Issuer are set up.
type Option func(*Issuer) error

// WithTTL sets the lifetime of issued tokens.
//
// Default: 20 minutes
func WithTTL(ttl time.Duration) Option {
	return func(i *Issuer) error {
		if ttl <= 0 {
			return errors.New("ttl must be positive")
		}
		i.ttl = ttl
		return nil
	}
}

// WithIssuerName sets the iss claim written and expected by the Issuer.
func WithIssuerName(name string) Option {
	return func(i *Issuer) error {
		if name == "" {
			return errors.New("issuer name cannot be empty")
		}
		i.issuer = name
		return nil
	}
}

// WithAllowedClockSkew is an option which sets up the allowed clock skew
// when checking exp, nbf and iat. If this option is not used clock skew is
// not allowed.
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(i *Issuer) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		i.allowedClockSkew = skew
		return nil
	}
}

// WithClock replaces the time source, mostly useful in tests.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		i.now = now
		return nil
	}
}
