package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/back-devcourse/authfilter/token"
)

// Logger defines an optional logging interface compatible with log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Service implements the credential operations used by the authentication
// filter and the login handlers.
type Service struct {
	store     Store
	tokens    *token.Issuer
	newAPIKey func() string
	logger    Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithAPIKeyGenerator replaces the UUID based API key generator.
func WithAPIKeyGenerator(gen func() string) ServiceOption {
	return func(s *Service) {
		s.newAPIKey = gen
	}
}

// WithLogger sets an optional logger for the service.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService builds a Service on top of store and tokens.
func NewService(store Store, tokens *token.Issuer, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required but was nil")
	}
	if tokens == nil {
		return nil, errors.New("token issuer is required but was nil")
	}

	s := &Service{
		store:     store,
		tokens:    tokens,
		newAPIKey: uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// FindByAPIKey resolves a member by API key. It returns ErrNotFound when the
// key is unknown.
func (s *Service) FindByAPIKey(ctx context.Context, apiKey string) (*Member, error) {
	if apiKey == "" {
		return nil, ErrNotFound
	}
	return s.store.FindByAPIKey(ctx, apiKey)
}

// FindByUsername resolves a member by username.
func (s *Service) FindByUsername(ctx context.Context, username string) (*Member, error) {
	return s.store.FindByUsername(ctx, username)
}

// DecodeAccessToken returns the payload of a valid access token. Invalid,
// expired and malformed tokens all report false.
func (s *Service) DecodeAccessToken(_ context.Context, accessToken string) (AccessTokenPayload, bool) {
	claims, err := s.tokens.Decode(accessToken)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("access token rejected", "error", err)
		}
		return AccessTokenPayload{}, false
	}

	return AccessTokenPayload{
		ID:       claims.ID,
		Username: claims.Username,
		Nickname: claims.Nickname,
	}, true
}

// IssueAccessToken mints a fresh access token for m.
func (s *Service) IssueAccessToken(_ context.Context, m *Member) (string, error) {
	signed, err := s.tokens.Issue(token.Claims{
		ID:       m.ID,
		Username: m.Username,
		Nickname: m.Nickname,
	})
	if err != nil {
		return "", fmt.Errorf("failed to issue access token for member %d: %w", m.ID, err)
	}
	return signed, nil
}

// ModifyOrJoin updates the profile of an existing member or registers a new
// one with a freshly generated API key.
func (s *Service) ModifyOrJoin(ctx context.Context, username, password, nickname, profileImageURL string) (*Member, error) {
	existing, err := s.store.FindByUsername(ctx, username)
	switch {
	case err == nil:
		existing.Nickname = nickname
		existing.ProfileImageURL = profileImageURL
		if err := s.store.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to modify member %q: %w", username, err)
		}
		if s.logger != nil {
			s.logger.Debug("member profile modified", "username", username)
		}
		return existing, nil
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("failed to look up member %q: %w", username, err)
	}

	m := &Member{
		Username:        username,
		Password:        password,
		Nickname:        nickname,
		APIKey:          s.newAPIKey(),
		ProfileImageURL: profileImageURL,
	}
	if err := s.store.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to join member %q: %w", username, err)
	}
	if s.logger != nil {
		s.logger.Info("member joined", "username", username, "id", m.ID)
	}

	return m, nil
}
