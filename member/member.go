// Package member owns the accounts the filter authenticates and the
// credential operations performed on them: API-key lookup, access-token
// decoding and minting, and upsert on federated login.
package member

import (
	"context"
	"errors"
	"slices"
	"time"
)

// RoleAdmin is granted to members whose username is administrative.
const RoleAdmin = "ROLE_ADMIN"

var adminUsernames = []string{"system", "admin"}

var (
	// ErrNotFound is returned by stores when no member matches.
	ErrNotFound = errors.New("member not found")

	// ErrDuplicate is returned by stores when a unique field already exists.
	ErrDuplicate = errors.New("member already exists")
)

// Member is a registered account.
type Member struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Nickname        string    `json:"nickname"`
	Password        string    `json:"-"`
	APIKey          string    `json:"apiKey"`
	ProfileImageURL string    `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	ModifiedAt      time.Time `json:"modifiedAt"`
}

// Authorities returns the roles held by the member. They depend only on the
// username so a member rebuilt from an access token gets the same set.
func (m *Member) Authorities() []string {
	if slices.Contains(adminUsernames, m.Username) {
		return []string{RoleAdmin}
	}
	return []string{}
}

// AccessTokenPayload is the identity decoded from an access token.
type AccessTokenPayload struct {
	ID       int64
	Username string
	Nickname string
}

// Store persists members. Implementations must be safe for concurrent use.
type Store interface {
	FindByAPIKey(ctx context.Context, apiKey string) (*Member, error)
	FindByUsername(ctx context.Context, username string) (*Member, error)
	// Create stores m and sets its ID and timestamps.
	Create(ctx context.Context, m *Member) error
	// Update writes the mutable profile fields of m.
	Update(ctx context.Context, m *Member) error
}
