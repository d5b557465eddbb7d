package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/back-devcourse/authfilter/core"
	"github.com/back-devcourse/authfilter/member"
)

// MemberJoiner updates or registers the member behind a federated profile.
// *member.Service satisfies it.
type MemberJoiner interface {
	ModifyOrJoin(ctx context.Context, username, password, nickname, profileImageURL string) (*member.Member, error)
}

// Mapper turns provider attributes into a local member and principal.
type Mapper struct {
	members MemberJoiner
}

// NewMapper creates a Mapper backed by members.
func NewMapper(members MemberJoiner) (*Mapper, error) {
	if members == nil {
		return nil, errors.New("member joiner cannot be nil")
	}
	return &Mapper{members: members}, nil
}

// Map parses attrs for registrationID and upserts the member with an empty
// password. Federated members never log in with a password.
func (m *Mapper) Map(ctx context.Context, registrationID string, attrs map[string]any) (*member.Member, *core.Principal, error) {
	profile, err := ParseProfile(registrationID, attrs)
	if err != nil {
		return nil, nil, err
	}

	mem, err := m.members.ModifyOrJoin(ctx, profile.Username(), "", profile.Nickname, profile.ProfileImageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to map %s profile: %w", profile.Provider, err)
	}

	return mem, core.PrincipalFromMember(mem), nil
}
