package oauthlogin

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/back-devcourse/authfilter"
	"github.com/back-devcourse/authfilter/core"
	"github.com/back-devcourse/authfilter/identity"
	"github.com/back-devcourse/authfilter/member"
	"github.com/back-devcourse/authfilter/redirectstate"
)

// StateCookieName holds the anti-forgery half of the state between the
// authorization redirect and the callback.
const StateCookieName = "oauth2_state"

// Query parameters.
const (
	RedirectURLParam = "redirectUrl"
	StateParam       = "state"
	CodeParam        = "code"
	ErrorParam       = "error"
)

// Mapper turns provider attributes into a local member.
// *identity.Mapper satisfies it.
type Mapper interface {
	Map(ctx context.Context, registrationID string, attrs map[string]any) (*member.Member, *core.Principal, error)
}

// TokenIssuer mints access tokens. *member.Service satisfies it.
type TokenIssuer interface {
	IssueAccessToken(ctx context.Context, m *member.Member) (string, error)
}

// Logger defines an optional logging interface compatible with log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Login serves the federated-login endpoints for a set of providers.
type Login struct {
	providers    map[string]*Provider
	mapper       Mapper
	tokens       TokenIssuer
	cookies      authfilter.CookieConfig
	errorHandler authfilter.ErrorHandler
	logger       Logger
	stateTTL     time.Duration
}

// New creates a Login. WithProvider, WithMapper and WithTokenIssuer are
// required.
func New(opts ...Option) (*Login, error) {
	l := &Login{
		providers:    make(map[string]*Provider),
		cookies:      authfilter.DefaultCookieConfig(),
		errorHandler: authfilter.DefaultErrorHandler,
		stateTTL:     10 * time.Minute,
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	switch {
	case len(l.providers) == 0:
		return nil, errors.New("at least one provider is required")
	case l.mapper == nil:
		return nil, errors.New("mapper is required")
	case l.tokens == nil:
		return nil, errors.New("token issuer is required")
	}

	return l, nil
}

// Providers returns the registration ids served by l.
func (l *Login) Providers() []string {
	ids := make([]string, 0, len(l.providers))
	for id := range l.providers {
		ids = append(ids, id)
	}
	return ids
}

// LoginHandler starts the authorization flow for registrationID. The
// optional redirectUrl query parameter is carried through the provider in
// the state and honoured by SuccessHandler.
func (l *Login) LoginHandler(registrationID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provider, ok := l.providers[registrationID]
		if !ok {
			http.NotFound(w, r)
			return
		}

		baseState, err := redirectstate.NewBaseState()
		if err != nil {
			l.errorHandler(w, r, err)
			return
		}

		http.SetCookie(w, l.stateCookie(baseState, int(l.stateTTL.Seconds())))

		state := redirectstate.EncodeURL(baseState, r.URL.Query().Get(RedirectURLParam))
		http.Redirect(w, r, provider.OAuth2.AuthCodeURL(state), http.StatusFound)
	})
}

// CallbackHandler completes the flow for registrationID: it verifies the
// state, exchanges the code, maps the profile and passes the request to
// SuccessHandler with the member in its context.
func (l *Login) CallbackHandler(registrationID string) http.Handler {
	success := l.SuccessHandler()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provider, ok := l.providers[registrationID]
		if !ok {
			http.NotFound(w, r)
			return
		}

		query := r.URL.Query()
		if err := l.verifyState(r, query.Get(StateParam)); err != nil {
			l.warn("login state rejected", "provider", registrationID, "error", err)
			l.errorHandler(w, r, err)
			return
		}
		http.SetCookie(w, l.stateCookie("", -1))

		if reason := query.Get(ErrorParam); reason != "" {
			l.warn("provider denied login", "provider", registrationID, "reason", reason)
			l.errorHandler(w, r, core.ErrProviderExchange)
			return
		}

		attrs, err := provider.FetchAttributes(r.Context(), query.Get(CodeParam))
		if err != nil {
			l.warn("provider login failed", "provider", registrationID, "error", err)
			l.errorHandler(w, r, fmt.Errorf("%w: %v", core.ErrProviderExchange, err))
			return
		}

		m, principal, err := l.mapper.Map(r.Context(), registrationID, attrs)
		if errors.Is(err, identity.ErrMissingSubject) {
			l.warn("provider profile rejected", "provider", registrationID, "error", err)
			l.errorHandler(w, r, fmt.Errorf("%w: %v", core.ErrProviderExchange, err))
			return
		}
		if err != nil {
			l.errorHandler(w, r, err)
			return
		}

		if l.logger != nil {
			l.logger.Info("federated login completed", "provider", registrationID, "member_id", m.ID)
		}

		ctx := WithMember(core.SetPrincipal(r.Context(), principal), m)
		success.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SuccessHandler writes the accessToken and apiKey cookies for the member in
// the request context and redirects to the target carried in the state.
// A request without a member is answered with 500.
func (l *Login) SuccessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m, ok := MemberFromContext(r.Context())
		if !ok {
			l.errorHandler(w, r, errors.New("login success reached without a member"))
			return
		}

		accessToken, err := l.tokens.IssueAccessToken(r.Context(), m)
		if err != nil {
			l.errorHandler(w, r, err)
			return
		}

		l.cookies.Write(w, core.AccessTokenName, accessToken)
		l.cookies.Write(w, core.APIKeyName, m.APIKey)

		http.Redirect(w, r, redirectstate.Decode(r.URL.Query().Get(StateParam)), http.StatusFound)
	})
}

func (l *Login) verifyState(r *http.Request, state string) error {
	csrfState, _, err := redirectstate.Split(state)
	if err != nil || csrfState == "" {
		return core.ErrStateMismatch
	}

	cookie, err := r.Cookie(StateCookieName)
	if err != nil || cookie.Value == "" {
		return core.ErrStateMismatch
	}

	if subtle.ConstantTimeCompare([]byte(csrfState), []byte(cookie.Value)) != 1 {
		return core.ErrStateMismatch
	}
	return nil
}

// stateCookie is always SameSite=Lax so it survives the provider's
// top-level redirect back.
func (l *Login) stateCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     StateCookieName,
		Value:    value,
		Domain:   l.cookies.Domain,
		Path:     "/",
		Secure:   l.cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

func (l *Login) warn(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Warn(msg, args...)
	}
}
