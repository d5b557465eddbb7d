// Package core provides the framework-agnostic request authentication logic
// shared by the HTTP filter and the gin, echo and gRPC adapters.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/back-devcourse/authfilter/member"
)

// CredentialService is the member service the Authenticator delegates to.
// Implementations must be safe for concurrent use.
type CredentialService interface {
	// FindByAPIKey returns member.ErrNotFound for unknown keys.
	FindByAPIKey(ctx context.Context, apiKey string) (*member.Member, error)
	// DecodeAccessToken reports false for invalid, expired or malformed tokens.
	DecodeAccessToken(ctx context.Context, accessToken string) (member.AccessTokenPayload, bool)
	IssueAccessToken(ctx context.Context, m *member.Member) (string, error)
}

// Logger defines an optional logging interface compatible with log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Method tells how a principal was resolved.
type Method string

const (
	MethodAnonymous   Method = "anonymous"
	MethodAccessToken Method = "access_token"
	MethodAPIKey      Method = "api_key"
	MethodRefreshed   Method = "refreshed"
)

// Outcome is the result of Authenticate.
type Outcome struct {
	// Principal is nil for anonymous requests.
	Principal *Principal
	Method    Method
}

// Authenticator resolves credentials into a principal.
type Authenticator struct {
	service         CredentialService
	logger          Logger
	accessTokenName string
}

// Authenticate runs the credential state machine for one request:
//
//  1. no credentials: anonymous
//  2. a decodable access token builds the member without a lookup
//  3. otherwise the API key must resolve, or ErrInvalidAPIKey
//  4. a presented but unusable access token is replaced through rb
//
// Errors other than *ServiceError come from the credential service and are
// returned unchanged.
func (a *Authenticator) Authenticate(ctx context.Context, creds Credentials, rb *ResponseBuilder) (Outcome, error) {
	if creds.IsEmpty() {
		a.debug("no credentials presented, continuing anonymously")
		return Outcome{Method: MethodAnonymous}, nil
	}

	var (
		m                *member.Member
		accessTokenValid bool
	)

	if creds.HasAccessToken() {
		start := time.Now()
		payload, ok := a.service.DecodeAccessToken(ctx, creds.AccessToken)
		if ok && payload.ID != 0 && payload.Username != "" {
			m = &member.Member{
				ID:       payload.ID,
				Username: payload.Username,
				Nickname: payload.Nickname,
			}
			accessTokenValid = true
		}
		a.debug("access token checked", "valid", accessTokenValid, "duration", time.Since(start))
	}

	if m == nil {
		found, err := a.service.FindByAPIKey(ctx, creds.APIKey)
		if errors.Is(err, member.ErrNotFound) {
			a.warn("api key did not resolve to a member")
			return Outcome{}, ErrInvalidAPIKey
		}
		if err != nil {
			return Outcome{}, err
		}
		m = found
	}

	method := MethodAccessToken
	if !accessTokenValid {
		method = MethodAPIKey
	}

	if creds.HasAccessToken() && !accessTokenValid {
		refreshed, err := a.service.IssueAccessToken(ctx, m)
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to refresh access token: %w", err)
		}
		rb.SetCredential(a.accessTokenName, refreshed, true)
		method = MethodRefreshed
		a.debug("stale access token replaced", "member_id", m.ID)
	}

	return Outcome{Principal: PrincipalFromMember(m), Method: method}, nil
}

// PrincipalFromMember builds a fresh principal for m.
func PrincipalFromMember(m *member.Member) *Principal {
	return &Principal{
		ID:          m.ID,
		Username:    m.Username,
		Nickname:    m.Nickname,
		Authorities: m.Authorities(),
	}
}

func (a *Authenticator) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}

func (a *Authenticator) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
