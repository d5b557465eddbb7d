package oauthlogin

import (
	"errors"
	"time"

	"github.com/back-devcourse/authfilter"
)

// Option configures a Login.
type Option func(*Login) error

// WithProvider registers p under p.RegistrationID.
func WithProvider(p *Provider) Option {
	return func(l *Login) error {
		if p == nil {
			return errors.New("provider cannot be nil")
		}
		if err := p.Validate(); err != nil {
			return err
		}
		l.providers[p.RegistrationID] = p
		return nil
	}
}

// WithMapper sets the profile mapper.
func WithMapper(m Mapper) Option {
	return func(l *Login) error {
		if m == nil {
			return errors.New("mapper cannot be nil")
		}
		l.mapper = m
		return nil
	}
}

// WithTokenIssuer sets the access token issuer used on success.
func WithTokenIssuer(t TokenIssuer) Option {
	return func(l *Login) error {
		if t == nil {
			return errors.New("token issuer cannot be nil")
		}
		l.tokens = t
		return nil
	}
}

// WithCookieConfig sets the attributes of the credential cookies.
//
// Default: authfilter.DefaultCookieConfig()
func WithCookieConfig(c authfilter.CookieConfig) Option {
	return func(l *Login) error {
		if c.Path == "" {
			c.Path = "/"
		}
		l.cookies = c
		return nil
	}
}

// WithErrorHandler sets the handler for rejected logins.
//
// Default: authfilter.DefaultErrorHandler
func WithErrorHandler(h authfilter.ErrorHandler) Option {
	return func(l *Login) error {
		if h == nil {
			return errors.New("error handler cannot be nil")
		}
		l.errorHandler = h
		return nil
	}
}

// WithStateTTL sets how long a started login may take.
//
// Default: 10 minutes
func WithStateTTL(ttl time.Duration) Option {
	return func(l *Login) error {
		if ttl < time.Second {
			return errors.New("state ttl must be at least one second")
		}
		l.stateTTL = ttl
		return nil
	}
}

// WithLogger sets an optional logger.
func WithLogger(logger Logger) Option {
	return func(l *Login) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		l.logger = logger
		return nil
	}
}
