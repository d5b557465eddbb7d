package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/back-devcourse/authfilter/member"
	"github.com/back-devcourse/authfilter/token"
)

func newService(t *testing.T) *member.Service {
	t.Helper()

	issuer, err := token.New([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	svc, err := member.NewService(member.NewMemoryStore(), issuer, member.WithAPIKeyGenerator(func() string {
		return "generated-key"
	}))
	require.NoError(t, err)
	return svc
}

func kakaoAttrs(nickname string) map[string]any {
	return map[string]any{
		"id": float64(4123456789),
		"properties": map[string]any{
			"nickname":      nickname,
			"profile_image": "https://img/" + nickname,
		},
	}
}

func TestMapper_Map(t *testing.T) {
	svc := newService(t)
	mapper, err := NewMapper(svc)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("first login joins", func(t *testing.T) {
		m, p, err := mapper.Map(ctx, "kakao", kakaoAttrs("Neo"))
		require.NoError(t, err)

		assert.Equal(t, "KAKAO__4123456789", m.Username)
		assert.Equal(t, "Neo", m.Nickname)
		assert.Equal(t, "https://img/Neo", m.ProfileImageURL)
		assert.Equal(t, "generated-key", m.APIKey)
		assert.Empty(t, m.Password)

		assert.Equal(t, m.ID, p.ID)
		assert.Equal(t, m.Username, p.Username)
		assert.Empty(t, p.Authorities)
	})

	t.Run("next login modifies the profile", func(t *testing.T) {
		first, err := svc.FindByUsername(ctx, "KAKAO__4123456789")
		require.NoError(t, err)

		m, _, err := mapper.Map(ctx, "kakao", kakaoAttrs("Mr. Anderson"))
		require.NoError(t, err)

		assert.Equal(t, first.ID, m.ID)
		assert.Equal(t, "Mr. Anderson", m.Nickname)
		assert.Equal(t, "generated-key", m.APIKey)
	})

	t.Run("missing subject", func(t *testing.T) {
		_, _, err := mapper.Map(ctx, "kakao", map[string]any{})
		assert.ErrorIs(t, err, ErrMissingSubject)
	})
}

type failingJoiner struct{}

func (failingJoiner) ModifyOrJoin(context.Context, string, string, string, string) (*member.Member, error) {
	return nil, errors.New("store unavailable")
}

func TestMapper_Map_JoinFailure(t *testing.T) {
	mapper, err := NewMapper(failingJoiner{})
	require.NoError(t, err)

	_, _, err = mapper.Map(context.Background(), "google", map[string]any{"sub": "1"})
	assert.ErrorContains(t, err, "store unavailable")
}

func TestNewMapper_Nil(t *testing.T) {
	_, err := NewMapper(nil)
	assert.Error(t, err)
}
