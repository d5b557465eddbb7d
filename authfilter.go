package authfilter

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/back-devcourse/authfilter/core"
)

// Default request scoping.
const (
	DefaultProtectedPrefix = "/api/"
)

// DefaultPublicPaths are protected-prefix paths that never authenticate.
var DefaultPublicPaths = []string{
	"/api/v1/members/join",
	"/api/v1/members/login",
}

// Filter authenticates requests under the protected prefix and publishes the
// resolved principal into the request context.
type Filter struct {
	auth                *core.Authenticator
	errorHandler        ErrorHandler
	extractor           CredentialsExtractor
	exclusionURLHandler ExclusionURLHandler
	protectedPrefix     string
	publicPaths         []string
	cookies             CookieConfig
	logger              Logger
	metrics             Metrics
	tracer              Tracer

	// Temporary fields used during construction
	service         core.CredentialService
	apiKeyName      string
	accessTokenName string
}

// ExclusionURLHandler reports whether r should skip authentication even
// though it is under the protected prefix.
type ExclusionURLHandler func(r *http.Request) bool

// New constructs a Filter with the supplied options.
//
// Example:
//
//	filter, err := authfilter.New(
//	    authfilter.WithCredentialService(memberService),
//	    authfilter.WithLogger(authfilter.NewLogrusLogger(log)),
//	)
//	if err != nil {
//	    log.Fatalf("failed to create filter: %v", err)
//	}
//	http.ListenAndServe(":8080", filter.Handler(router))
func New(opts ...Option) (*Filter, error) {
	f := &Filter{
		protectedPrefix: DefaultProtectedPrefix,
		publicPaths:     slices.Clone(DefaultPublicPaths),
		cookies:         DefaultCookieConfig(),
		apiKeyName:      core.APIKeyName,
		accessTokenName: core.AccessTokenName,
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if f.service == nil {
		return nil, fmt.Errorf("invalid filter configuration: %w", ErrCredentialServiceNil)
	}

	f.applyDefaults()

	if err := f.createAuthenticator(); err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	return f, nil
}

func (f *Filter) createAuthenticator() error {
	coreOpts := []core.Option{
		core.WithCredentialService(f.service),
		core.WithAccessTokenName(f.accessTokenName),
	}
	if f.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger(f.logger))
	}

	auth, err := core.New(coreOpts...)
	if err != nil {
		return err
	}
	f.auth = auth
	return nil
}

func (f *Filter) applyDefaults() {
	if f.errorHandler == nil {
		f.errorHandler = DefaultErrorHandler
	}
	if f.extractor == nil {
		f.extractor = HeaderOrCookieCredentialsExtractor(f.apiKeyName, f.accessTokenName)
	}
	if f.metrics == nil {
		f.metrics = &NoopMetrics{}
	}
	if f.tracer == nil {
		f.tracer = &NoopTracer{}
	}
}

// GetPrincipal retrieves the principal published by the Filter.
//
// Example:
//
//	principal, err := authfilter.GetPrincipal(r.Context())
//	if err != nil {
//	    // anonymous request
//	}
func GetPrincipal(ctx context.Context) (*core.Principal, error) {
	return core.GetPrincipal(ctx)
}

// MustGetPrincipal retrieves the principal or panics. Use it only behind
// handlers that reject anonymous requests.
func MustGetPrincipal(ctx context.Context) *core.Principal {
	p, err := core.GetPrincipal(ctx)
	if err != nil {
		panic(err)
	}
	return p
}

// HasPrincipal checks if a principal exists in the context.
func HasPrincipal(ctx context.Context) bool {
	return core.HasPrincipal(ctx)
}

// Authenticate resolves the credentials presented on r. Refreshed
// credentials are written to w. It is the building block of Handler and of
// the framework adapters.
func (f *Filter) Authenticate(w http.ResponseWriter, r *http.Request) (*core.Principal, error) {
	ctx, span := f.tracer.StartSpan(r.Context(), "authfilter.Authenticate")
	defer span.Finish()
	span.SetTag("http.path", r.URL.Path)

	start := time.Now()

	creds, err := f.extractor(r)
	if err != nil {
		f.observe(outcomeError, start)
		span.RecordError(err)
		return nil, err
	}

	rb := &core.ResponseBuilder{}
	outcome, err := f.auth.Authenticate(ctx, creds, rb)
	if err != nil {
		f.observe(outcomeError, start)
		span.RecordError(err)
		return nil, err
	}

	f.applyUpdates(w, rb)

	result := outcomeFor(outcome.Method)
	f.observe(result, start)
	span.SetTag("auth.outcome", result)
	if outcome.Principal != nil {
		span.SetTag("auth.member_id", outcome.Principal.ID)
	}

	return outcome.Principal, nil
}

// Handler wraps next with authentication. Errors are answered through the
// ErrorHandler and next is not called.
func (f *Filter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !f.shouldAuthenticate(r) {
			if f.logger != nil {
				f.logger.Debug("skipping authentication for unprotected path",
					"method", r.Method,
					"path", r.URL.Path)
			}
			f.metrics.IncCounter(metricRequests, map[string]string{"outcome": outcomeBypass})
			next.ServeHTTP(w, r)
			return
		}

		principal, err := f.Authenticate(w, r)
		if err != nil {
			if f.logger != nil {
				f.logger.Warn("authentication failed",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path)
			}
			f.errorHandler(w, r, err)
			return
		}

		if principal == nil {
			next.ServeHTTP(w, r)
			return
		}

		if f.logger != nil {
			f.logger.Debug("authentication successful, setting principal in context",
				"member_id", principal.ID)
		}
		next.ServeHTTP(w, r.WithContext(core.SetPrincipal(r.Context(), principal)))
	})
}

func (f *Filter) shouldAuthenticate(r *http.Request) bool {
	path := r.URL.Path
	if !strings.HasPrefix(path, f.protectedPrefix) {
		return false
	}
	if slices.Contains(f.publicPaths, path) {
		return false
	}
	if f.exclusionURLHandler != nil && f.exclusionURLHandler(r) {
		return false
	}
	return true
}

// applyUpdates must run before anything writes the response status.
func (f *Filter) applyUpdates(w http.ResponseWriter, rb *core.ResponseBuilder) {
	for _, u := range rb.Updates() {
		f.cookies.Write(w, u.Name, u.Value)
		if u.Expose {
			w.Header().Set(u.Name, u.Value)
		}
	}
}

// Cookies returns the attributes used for credential cookies.
func (f *Filter) Cookies() CookieConfig {
	return f.cookies
}
