package core

import "errors"

// Option is a function that configures the Authenticator.
// Options return errors to enable validation during construction.
type Option func(*Authenticator) error

// New creates an Authenticator.
//
// WithCredentialService is required. Example:
//
//	auth, err := core.New(
//	    core.WithCredentialService(memberService),
//	    core.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(opts ...Option) (*Authenticator, error) {
	a := &Authenticator{
		accessTokenName: AccessTokenName,
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if a.service == nil {
		return nil, ErrCredentialServiceNil
	}

	return a, nil
}

// WithCredentialService sets the service used to decode, look up and
// reissue credentials.
func WithCredentialService(service CredentialService) Option {
	return func(a *Authenticator) error {
		if service == nil {
			return ErrCredentialServiceNil
		}
		a.service = service
		return nil
	}
}

// WithLogger sets an optional logger. Without one the Authenticator is silent.
func WithLogger(logger Logger) Option {
	return func(a *Authenticator) error {
		if logger == nil {
			return ErrLoggerNil
		}
		a.logger = logger
		return nil
	}
}

// WithAccessTokenName sets the name under which a refreshed access token is
// recorded on the ResponseBuilder. Defaults to AccessTokenName.
func WithAccessTokenName(name string) Option {
	return func(a *Authenticator) error {
		if name == "" {
			return errors.New("access token name cannot be empty")
		}
		a.accessTokenName = name
		return nil
	}
}
