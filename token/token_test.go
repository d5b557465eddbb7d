package token

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("abcdefghijklmnopqrstuvwxyz0123456789")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNew(t *testing.T) {
	t.Run("it rejects a short secret", func(t *testing.T) {
		_, err := New([]byte("short"))
		assert.ErrorIs(t, err, ErrSecretTooShort)
	})

	t.Run("it rejects invalid options", func(t *testing.T) {
		_, err := New(testSecret, WithTTL(0))
		assert.EqualError(t, err, "invalid option: ttl must be positive")
	})

	t.Run("it applies defaults", func(t *testing.T) {
		issuer, err := New(testSecret)
		require.NoError(t, err)
		assert.Equal(t, 20*time.Minute, issuer.TTL())
	})
}

func TestIssuer_IssueAndDecode(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	want := Claims{ID: 7, Username: "alice", Nickname: "Al"}

	issuer, err := New(testSecret, WithClock(fixedClock(now)), WithTTL(time.Minute))
	require.NoError(t, err)

	signed, err := issuer.Issue(want)
	require.NoError(t, err)

	got, err := issuer.Decode(signed)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("claims mismatch (-want +got):\n%s", diff)
	}
}

func TestIssuer_Decode(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	issuer, err := New(testSecret, WithClock(fixedClock(now)), WithTTL(time.Minute))
	require.NoError(t, err)

	signed, err := issuer.Issue(Claims{ID: 1, Username: "bob", Nickname: "B"})
	require.NoError(t, err)

	t.Run("it fails on an expired token", func(t *testing.T) {
		later, err := New(testSecret, WithClock(fixedClock(now.Add(2*time.Minute))))
		require.NoError(t, err)

		_, err = later.Decode(signed)
		assert.Error(t, err)
	})

	t.Run("it accepts an expired token within the clock skew", func(t *testing.T) {
		later, err := New(testSecret,
			WithClock(fixedClock(now.Add(90*time.Second))),
			WithAllowedClockSkew(time.Minute),
		)
		require.NoError(t, err)

		_, err = later.Decode(signed)
		assert.NoError(t, err)
	})

	t.Run("it fails with a different secret", func(t *testing.T) {
		other, err := New([]byte("0123456789abcdefghijklmnopqrstuvwxyz"), WithClock(fixedClock(now)))
		require.NoError(t, err)

		_, err = other.Decode(signed)
		assert.Error(t, err)
	})

	t.Run("it fails with a different issuer", func(t *testing.T) {
		other, err := New(testSecret, WithClock(fixedClock(now)), WithIssuerName("someone-else"))
		require.NoError(t, err)

		_, err = other.Decode(signed)
		assert.Error(t, err)
	})

	t.Run("it fails on garbage", func(t *testing.T) {
		_, err := issuer.Decode("not.a.token")
		assert.Error(t, err)
	})

	t.Run("it fails when an identity claim is missing", func(t *testing.T) {
		tok, err := jwt.NewBuilder().
			Issuer(defaultIssuer).
			Expiration(now.Add(time.Minute)).
			Claim(claimID, 3).
			Claim(claimUsername, "carol").
			Build()
		require.NoError(t, err)
		raw, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, testSecret))
		require.NoError(t, err)

		_, err = issuer.Decode(string(raw))
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("it fails when the id is not a number", func(t *testing.T) {
		tok, err := jwt.NewBuilder().
			Issuer(defaultIssuer).
			Expiration(now.Add(time.Minute)).
			Claim(claimID, "seven").
			Claim(claimUsername, "carol").
			Claim(claimNickname, "C").
			Build()
		require.NoError(t, err)
		raw, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, testSecret))
		require.NoError(t, err)

		_, err = issuer.Decode(string(raw))
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}
