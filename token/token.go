package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	claimID       = "id"
	claimUsername = "username"
	claimNickname = "nickname"

	// MinSecretLength is the shortest HS256 secret accepted by New.
	MinSecretLength = 32

	defaultTTL    = 20 * time.Minute
	defaultIssuer = "authfilter"
)

var (
	ErrSecretTooShort = fmt.Errorf("signing secret must be at least %d bytes", MinSecretLength)
	ErrInvalidClaims  = errors.New("token claims are missing or have the wrong type")
)

// Claims is the identity carried by an access token.
type Claims struct {
	ID       int64
	Username string
	Nickname string
}

// Issuer signs and decodes access tokens with a single shared secret.
// It is safe for concurrent use.
type Issuer struct {
	secret           []byte
	issuer           string
	ttl              time.Duration
	allowedClockSkew time.Duration
	now              func() time.Time
}

// New sets up an Issuer with the required secret and custom options.
func New(secret []byte, opts ...Option) (*Issuer, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}

	i := &Issuer{
		secret: secret,
		issuer: defaultIssuer,
		ttl:    defaultTTL,
		now:    time.Now,
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return i, nil
}

// TTL returns the lifetime of issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a new token for claims.
func (i *Issuer) Issue(claims Claims) (string, error) {
	now := i.now()

	tok, err := jwt.NewBuilder().
		Issuer(i.issuer).
		IssuedAt(now).
		Expiration(now.Add(i.ttl)).
		Claim(claimID, claims.ID).
		Claim(claimUsername, claims.Username).
		Claim(claimNickname, claims.Nickname).
		Build()
	if err != nil {
		return "", fmt.Errorf("could not build the token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, i.secret))
	if err != nil {
		return "", fmt.Errorf("could not sign the token: %w", err)
	}

	return string(signed), nil
}

// Decode verifies tokenString and returns its claims. Signature, issuer and
// expiry are checked and all three identity claims must be present.
func (i *Issuer) Decode(tokenString string) (Claims, error) {
	tok, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256, i.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(i.issuer),
		jwt.WithRequiredClaim(jwt.ExpirationKey),
		jwt.WithAcceptableSkew(i.allowedClockSkew),
		jwt.WithClock(jwt.ClockFunc(i.now)),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("could not parse the token: %w", err)
	}

	return claimsFromToken(tok)
}

func claimsFromToken(tok jwt.Token) (Claims, error) {
	rawID, ok := tok.Get(claimID)
	if !ok {
		return Claims{}, fmt.Errorf("%w: %s", ErrInvalidClaims, claimID)
	}
	id, ok := toInt64(rawID)
	if !ok {
		return Claims{}, fmt.Errorf("%w: %s", ErrInvalidClaims, claimID)
	}

	username, ok := stringClaim(tok, claimUsername)
	if !ok {
		return Claims{}, fmt.Errorf("%w: %s", ErrInvalidClaims, claimUsername)
	}

	nickname, ok := stringClaim(tok, claimNickname)
	if !ok {
		return Claims{}, fmt.Errorf("%w: %s", ErrInvalidClaims, claimNickname)
	}

	return Claims{ID: id, Username: username, Nickname: nickname}, nil
}

func stringClaim(tok jwt.Token, name string) (string, bool) {
	raw, ok := tok.Get(name)
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		id, err := n.Int64()
		return id, err == nil
	default:
		return 0, false
	}
}
