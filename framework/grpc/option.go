package authgrpc

import (
	"errors"

	"github.com/back-devcourse/authfilter/core"
)

// Option configures the interceptor.
type Option func(*Interceptor) error

// Logger defines an optional logging interface compatible with log/slog.
// This is the same interface used by core for consistent logging across the stack.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// WithCredentialService sets the service that resolves credentials (REQUIRED).
func WithCredentialService(service core.CredentialService) Option {
	return func(i *Interceptor) error {
		if service == nil {
			return core.ErrCredentialServiceNil
		}
		i.service = service
		return nil
	}
}

// WithLogger sets an optional logger for the interceptor and its
// authenticator.
func WithLogger(logger Logger) Option {
	return func(i *Interceptor) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		i.logger = logger
		return nil
	}
}

// WithCredentialsExtractor sets a custom credentials extractor.
// Default is MetadataCredentialsExtractor.
func WithCredentialsExtractor(extractor CredentialsExtractor) Option {
	return func(i *Interceptor) error {
		if extractor == nil {
			return errors.New("credentials extractor cannot be nil")
		}
		i.extractor = extractor
		return nil
	}
}

// WithErrorHandler sets a custom error handler function.
// Default is DefaultErrorHandler which maps errors to gRPC status codes.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *Interceptor) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		i.errorHandler = handler
		return nil
	}
}

// WithExcludedMethods excludes specific gRPC methods from authentication.
// Methods should be provided in the format: "/package.Service/Method"
// Example: "/myapp.MyService/PublicMethod", "/grpc.health.v1.Health/Check"
func WithExcludedMethods(methods ...string) Option {
	return func(i *Interceptor) error {
		if i.excludedMethods == nil {
			i.excludedMethods = make(map[string]bool)
		}
		for _, method := range methods {
			i.excludedMethods[method] = true
		}
		return nil
	}
}
