package core

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/back-devcourse/authfilter/member"
)

// mockService is a mock implementation of CredentialService for testing.
type mockService struct {
	members map[string]*member.Member
	tokens  map[string]member.AccessTokenPayload

	findErr  error
	issueErr error

	findCalls  []string
	issueCalls []int64
}

func (m *mockService) FindByAPIKey(_ context.Context, apiKey string) (*member.Member, error) {
	m.findCalls = append(m.findCalls, apiKey)
	if m.findErr != nil {
		return nil, m.findErr
	}
	if found, ok := m.members[apiKey]; ok {
		return found, nil
	}
	return nil, member.ErrNotFound
}

func (m *mockService) DecodeAccessToken(_ context.Context, accessToken string) (member.AccessTokenPayload, bool) {
	payload, ok := m.tokens[accessToken]
	return payload, ok
}

func (m *mockService) IssueAccessToken(_ context.Context, mem *member.Member) (string, error) {
	m.issueCalls = append(m.issueCalls, mem.ID)
	if m.issueErr != nil {
		return "", m.issueErr
	}
	return "fresh-token", nil
}

// mockLogger is a mock implementation of Logger for testing.
type mockLogger struct {
	debugCalls []logCall
	infoCalls  []logCall
	warnCalls  []logCall
	errorCalls []logCall
}

type logCall struct {
	msg  string
	args []any
}

func (m *mockLogger) Debug(msg string, args ...any) {
	m.debugCalls = append(m.debugCalls, logCall{msg, args})
}

func (m *mockLogger) Info(msg string, args ...any) {
	m.infoCalls = append(m.infoCalls, logCall{msg, args})
}

func (m *mockLogger) Warn(msg string, args ...any) {
	m.warnCalls = append(m.warnCalls, logCall{msg, args})
}

func (m *mockLogger) Error(msg string, args ...any) {
	m.errorCalls = append(m.errorCalls, logCall{msg, args})
}

func newMockService() *mockService {
	return &mockService{
		members: map[string]*member.Member{
			"key-user":  {ID: 1, Username: "user1", Nickname: "User One", APIKey: "key-user"},
			"key-admin": {ID: 2, Username: "admin", Nickname: "Admin", APIKey: "key-admin"},
		},
		tokens: map[string]member.AccessTokenPayload{
			"valid-user-token": {ID: 1, Username: "user1", Nickname: "User One"},
			// decodes, but carries no usable identity
			"empty-payload": {},
		},
	}
}

func TestNew(t *testing.T) {
	t.Run("successful creation with required options", func(t *testing.T) {
		auth, err := New(WithCredentialService(newMockService()))
		require.NoError(t, err)
		assert.Equal(t, AccessTokenName, auth.accessTokenName)
		assert.Nil(t, auth.logger)
	})

	t.Run("successful creation with all options", func(t *testing.T) {
		auth, err := New(
			WithCredentialService(newMockService()),
			WithLogger(&mockLogger{}),
			WithAccessTokenName("token"),
		)
		require.NoError(t, err)
		assert.Equal(t, "token", auth.accessTokenName)
		assert.NotNil(t, auth.logger)
	})

	t.Run("error when credential service is missing", func(t *testing.T) {
		_, err := New()
		assert.ErrorIs(t, err, ErrCredentialServiceNil)
	})

	t.Run("error on nil options", func(t *testing.T) {
		_, err := New(WithCredentialService(nil))
		assert.ErrorIs(t, err, ErrCredentialServiceNil)

		_, err = New(WithCredentialService(newMockService()), WithLogger(nil))
		assert.ErrorIs(t, err, ErrLoggerNil)

		_, err = New(WithCredentialService(newMockService()), WithAccessTokenName(""))
		assert.EqualError(t, err, "access token name cannot be empty")
	})
}

func TestAuthenticator_Authenticate(t *testing.T) {
	tests := []struct {
		name          string
		creds         Credentials
		wantPrincipal *Principal
		wantMethod    Method
		wantErr       error
		wantUpdates   []CredentialUpdate
		wantFind      []string
		wantIssue     []int64
	}{
		{
			name:       "no credentials is anonymous",
			creds:      Credentials{},
			wantMethod: MethodAnonymous,
		},
		{
			name:       "blank credentials are anonymous",
			creds:      Credentials{APIKey: "  ", AccessToken: " "},
			wantMethod: MethodAnonymous,
		},
		{
			name:  "valid access token skips the lookup",
			creds: Credentials{APIKey: "key-user", AccessToken: "valid-user-token"},
			wantPrincipal: &Principal{
				ID: 1, Username: "user1", Nickname: "User One", Authorities: []string{},
			},
			wantMethod: MethodAccessToken,
		},
		{
			name:  "valid access token without api key",
			creds: Credentials{AccessToken: "valid-user-token"},
			wantPrincipal: &Principal{
				ID: 1, Username: "user1", Nickname: "User One", Authorities: []string{},
			},
			wantMethod: MethodAccessToken,
		},
		{
			name:  "api key only resolves without refresh",
			creds: Credentials{APIKey: "key-admin"},
			wantPrincipal: &Principal{
				ID: 2, Username: "admin", Nickname: "Admin", Authorities: []string{member.RoleAdmin},
			},
			wantMethod: MethodAPIKey,
			wantFind:   []string{"key-admin"},
		},
		{
			name:  "stale access token is refreshed from the api key",
			creds: Credentials{APIKey: "key-user", AccessToken: "expired"},
			wantPrincipal: &Principal{
				ID: 1, Username: "user1", Nickname: "User One", Authorities: []string{},
			},
			wantMethod:  MethodRefreshed,
			wantUpdates: []CredentialUpdate{{Name: AccessTokenName, Value: "fresh-token", Expose: true}},
			wantFind:    []string{"key-user"},
			wantIssue:   []int64{1},
		},
		{
			name:  "token without identity is treated as stale",
			creds: Credentials{APIKey: "key-user", AccessToken: "empty-payload"},
			wantPrincipal: &Principal{
				ID: 1, Username: "user1", Nickname: "User One", Authorities: []string{},
			},
			wantMethod:  MethodRefreshed,
			wantUpdates: []CredentialUpdate{{Name: AccessTokenName, Value: "fresh-token", Expose: true}},
			wantFind:    []string{"key-user"},
			wantIssue:   []int64{1},
		},
		{
			name:     "unknown api key is rejected",
			creds:    Credentials{APIKey: "nope"},
			wantErr:  ErrInvalidAPIKey,
			wantFind: []string{"nope"},
		},
		{
			name:     "stale token without api key is rejected",
			creds:    Credentials{AccessToken: "expired"},
			wantErr:  ErrInvalidAPIKey,
			wantFind: []string{""},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newMockService()
			auth, err := New(WithCredentialService(svc))
			require.NoError(t, err)

			rb := &ResponseBuilder{}
			outcome, err := auth.Authenticate(context.Background(), tc.creds, rb)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, outcome.Principal)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.wantMethod, outcome.Method)
				if diff := cmp.Diff(tc.wantPrincipal, outcome.Principal); diff != "" {
					t.Errorf("principal mismatch (-want +got):\n%s", diff)
				}
			}

			assert.Equal(t, tc.wantUpdates, rb.Updates())
			assert.Equal(t, tc.wantFind, svc.findCalls)
			assert.Equal(t, tc.wantIssue, svc.issueCalls)
		})
	}
}

func TestAuthenticator_Authenticate_ServiceFailures(t *testing.T) {
	t.Run("lookup failure is returned unchanged", func(t *testing.T) {
		svc := newMockService()
		svc.findErr = errors.New("connection refused")
		auth, err := New(WithCredentialService(svc))
		require.NoError(t, err)

		_, err = auth.Authenticate(context.Background(), Credentials{APIKey: "key-user"}, &ResponseBuilder{})
		require.Error(t, err)
		assert.ErrorIs(t, err, svc.findErr)
		assert.NotErrorIs(t, err, ErrService)
	})

	t.Run("refresh failure aborts and records nothing", func(t *testing.T) {
		svc := newMockService()
		svc.issueErr = errors.New("signing failed")
		auth, err := New(WithCredentialService(svc))
		require.NoError(t, err)

		rb := &ResponseBuilder{}
		_, err = auth.Authenticate(context.Background(), Credentials{APIKey: "key-user", AccessToken: "expired"}, rb)
		assert.ErrorIs(t, err, svc.issueErr)
		assert.Empty(t, rb.Updates())
	})
}

func TestAuthenticator_CustomAccessTokenName(t *testing.T) {
	auth, err := New(WithCredentialService(newMockService()), WithAccessTokenName("token"))
	require.NoError(t, err)

	rb := &ResponseBuilder{}
	_, err = auth.Authenticate(context.Background(), Credentials{APIKey: "key-user", AccessToken: "expired"}, rb)
	require.NoError(t, err)
	assert.Equal(t, []CredentialUpdate{{Name: "token", Value: "fresh-token", Expose: true}}, rb.Updates())
}

func TestAuthenticator_Logging(t *testing.T) {
	logger := &mockLogger{}
	auth, err := New(WithCredentialService(newMockService()), WithLogger(logger))
	require.NoError(t, err)

	_, _ = auth.Authenticate(context.Background(), Credentials{}, &ResponseBuilder{})
	_, _ = auth.Authenticate(context.Background(), Credentials{APIKey: "nope"}, &ResponseBuilder{})

	assert.NotEmpty(t, logger.debugCalls)
	require.Len(t, logger.warnCalls, 1)
	assert.Equal(t, "api key did not resolve to a member", logger.warnCalls[0].msg)
}

func TestPrincipalFromMember(t *testing.T) {
	m := &member.Member{ID: 7, Username: "system", Nickname: "System", APIKey: "secret"}

	p := PrincipalFromMember(m)

	assert.Equal(t, &Principal{
		ID:          7,
		Username:    "system",
		Nickname:    "System",
		Authorities: []string{member.RoleAdmin},
	}, p)
	assert.True(t, p.HasAuthority(member.RoleAdmin))
}
