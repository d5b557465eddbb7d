package authfilter

import (
	"errors"
	"net/http"
	"strings"

	"github.com/back-devcourse/authfilter/core"
)

// Option configures the Filter.
// Returns error for validation failures.
type Option func(*Filter) error

// WithCredentialService sets the service that resolves credentials (REQUIRED).
// *member.Service satisfies it.
func WithCredentialService(service core.CredentialService) Option {
	return func(f *Filter) error {
		if service == nil {
			return ErrCredentialServiceNil
		}
		f.service = service
		return nil
	}
}

// WithErrorHandler sets the handler called when authentication fails.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(f *Filter) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		f.errorHandler = h
		return nil
	}
}

// WithCredentialsExtractor sets the function that reads credentials from
// the request.
//
// Default: the Authorization header, else the credential cookies
func WithCredentialsExtractor(e CredentialsExtractor) Option {
	return func(f *Filter) error {
		if e == nil {
			return ErrCredentialsExtractorNil
		}
		f.extractor = e
		return nil
	}
}

// WithCookieNames renames the credential cookies. The access token name is
// also used for the refresh response header.
//
// Default: "apiKey" and "accessToken"
func WithCookieNames(apiKeyName, accessTokenName string) Option {
	return func(f *Filter) error {
		if apiKeyName == "" || accessTokenName == "" {
			return ErrCookieNameEmpty
		}
		f.apiKeyName = apiKeyName
		f.accessTokenName = accessTokenName
		return nil
	}
}

// WithCookieConfig sets the attributes of written credential cookies.
//
// Default: DefaultCookieConfig()
func WithCookieConfig(c CookieConfig) Option {
	return func(f *Filter) error {
		if c.Path == "" {
			c.Path = "/"
		}
		f.cookies = c
		return nil
	}
}

// WithProtectedPrefix sets the path prefix requests must carry to be
// authenticated.
//
// Default: "/api/"
func WithProtectedPrefix(prefix string) Option {
	return func(f *Filter) error {
		if !strings.HasPrefix(prefix, "/") {
			return ErrProtectedPrefixInvalid
		}
		f.protectedPrefix = prefix
		return nil
	}
}

// WithPublicPaths replaces the exact paths under the protected prefix that
// bypass authentication. An empty list makes every protected path
// authenticate.
//
// Default: DefaultPublicPaths
func WithPublicPaths(paths ...string) Option {
	return func(f *Filter) error {
		f.publicPaths = paths
		return nil
	}
}

// WithExclusionURLs configures URL patterns that skip authentication.
// URLs can be full URLs or just paths.
func WithExclusionURLs(exclusions []string) Option {
	return func(f *Filter) error {
		if len(exclusions) == 0 {
			return ErrExclusionURLsEmpty
		}
		f.exclusionURLHandler = func(r *http.Request) bool {
			requestFullURL := r.URL.String()
			requestPath := r.URL.Path

			for _, exclusion := range exclusions {
				if requestFullURL == exclusion || requestPath == exclusion {
					return true
				}
			}
			return false
		}
		return nil
	}
}

// WithExclusionURLHandler sets a custom bypass predicate.
func WithExclusionURLHandler(h ExclusionURLHandler) Option {
	return func(f *Filter) error {
		if h == nil {
			return ErrExclusionURLHandlerNil
		}
		f.exclusionURLHandler = h
		return nil
	}
}

// WithLogger sets an optional logger for the filter and its authenticator.
//
// The logger interface is compatible with log/slog.Logger and similar loggers.
func WithLogger(logger Logger) Option {
	return func(f *Filter) error {
		if logger == nil {
			return ErrLoggerNil
		}
		f.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink.
//
// Default: NoopMetrics
func WithMetrics(m Metrics) Option {
	return func(f *Filter) error {
		if m == nil {
			return ErrMetricsNil
		}
		f.metrics = m
		return nil
	}
}

// WithTracer sets the tracer used for authentication spans.
//
// Default: NoopTracer
func WithTracer(t Tracer) Option {
	return func(f *Filter) error {
		if t == nil {
			return ErrTracerNil
		}
		f.tracer = t
		return nil
	}
}

// Sentinel errors for configuration validation
var (
	ErrCredentialServiceNil    = errors.New("credential service cannot be nil (use WithCredentialService)")
	ErrErrorHandlerNil         = errors.New("errorHandler cannot be nil")
	ErrCredentialsExtractorNil = errors.New("credentialsExtractor cannot be nil")
	ErrCookieNameEmpty         = errors.New("cookie names cannot be empty")
	ErrProtectedPrefixInvalid  = errors.New("protected prefix must start with /")
	ErrExclusionURLsEmpty      = errors.New("exclusion URLs list cannot be empty")
	ErrExclusionURLHandlerNil  = errors.New("exclusion URL handler cannot be nil")
	ErrLoggerNil               = errors.New("logger cannot be nil")
	ErrMetricsNil              = errors.New("metrics cannot be nil")
	ErrTracerNil               = errors.New("tracer cannot be nil")
)
