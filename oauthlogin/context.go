package oauthlogin

import (
	"context"

	"github.com/back-devcourse/authfilter/member"
)

type contextKey int

const memberKey contextKey = iota

// WithMember stores the member who just logged in.
func WithMember(ctx context.Context, m *member.Member) context.Context {
	return context.WithValue(ctx, memberKey, m)
}

// MemberFromContext returns the member stored by WithMember.
func MemberFromContext(ctx context.Context) (*member.Member, bool) {
	m, ok := ctx.Value(memberKey).(*member.Member)
	return m, ok && m != nil
}
