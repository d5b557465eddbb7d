package core

import (
	"context"
	"errors"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	principalKey contextKey = iota
)

// ErrPrincipalNotFound is returned when the request is not authenticated.
var ErrPrincipalNotFound = errors.New("principal not found in context")

// Principal is the identity resolved for one request.
type Principal struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Nickname    string   `json:"nickname"`
	Authorities []string `json:"authorities"`
}

// HasAuthority reports whether p holds authority.
func (p *Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// SetPrincipal stores p in the context.
func SetPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal retrieves the principal stored by SetPrincipal.
//
// Example usage:
//
//	principal, err := core.GetPrincipal(r.Context())
//	if err != nil {
//	    // anonymous request
//	}
func GetPrincipal(ctx context.Context) (*Principal, error) {
	p, ok := ctx.Value(principalKey).(*Principal)
	if !ok || p == nil {
		return nil, ErrPrincipalNotFound
	}
	return p, nil
}

// HasPrincipal checks if a principal exists in the context.
func HasPrincipal(ctx context.Context) bool {
	_, err := GetPrincipal(ctx)
	return err == nil
}
