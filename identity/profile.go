// Package identity maps federated-login user attributes onto local members.
package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Supported providers. Any other registration id is parsed with the Kakao
// shape.
const (
	ProviderKakao  = "KAKAO"
	ProviderNaver  = "NAVER"
	ProviderGoogle = "GOOGLE"
)

// ErrMissingSubject is returned when the provider attributes carry no user id.
var ErrMissingSubject = errors.New("provider attributes have no subject")

// Profile is the provider-neutral view of a federated user.
type Profile struct {
	// Provider is the upper-cased registration id.
	Provider        string
	Subject         string
	Nickname        string
	ProfileImageURL string
}

// Username is the local username of the profile, "<PROVIDER>__<subject>".
func (p Profile) Username() string {
	return p.Provider + "__" + p.Subject
}

type profileFields struct {
	Nickname     string `mapstructure:"nickname"`
	ProfileImage string `mapstructure:"profile_image"`
}

type kakaoAttributes struct {
	ID         any           `mapstructure:"id"`
	Properties profileFields `mapstructure:"properties"`
}

type naverAttributes struct {
	Response struct {
		ID           any    `mapstructure:"id"`
		Nickname     string `mapstructure:"nickname"`
		ProfileImage string `mapstructure:"profile_image"`
	} `mapstructure:"response"`
}

type googleAttributes struct {
	Sub     any    `mapstructure:"sub"`
	Name    string `mapstructure:"name"`
	Picture string `mapstructure:"picture"`
}

// ParseProfile decodes the user-info attributes of registrationID. Absent or
// mistyped nickname and image fall back to empty strings.
func ParseProfile(registrationID string, attrs map[string]any) (Profile, error) {
	provider := strings.ToUpper(strings.TrimSpace(registrationID))
	p := Profile{Provider: provider}

	var subject any
	switch provider {
	case ProviderNaver:
		var a naverAttributes
		decode(attrs, &a)
		subject, p.Nickname, p.ProfileImageURL = a.Response.ID, a.Response.Nickname, a.Response.ProfileImage
	case ProviderGoogle:
		var a googleAttributes
		decode(attrs, &a)
		subject, p.Nickname, p.ProfileImageURL = a.Sub, a.Name, a.Picture
	default:
		var a kakaoAttributes
		decode(attrs, &a)
		subject, p.Nickname, p.ProfileImageURL = a.ID, a.Properties.Nickname, a.Properties.ProfileImage
	}

	p.Subject = subjectString(subject)
	if p.Subject == "" {
		return Profile{}, fmt.Errorf("%w (provider %s)", ErrMissingSubject, provider)
	}
	return p, nil
}

// decode ignores errors; mapstructure keeps decoding past mistyped fields
// and leaves them zero.
func decode(attrs map[string]any, out any) {
	_ = mapstructure.Decode(attrs, out)
}

func subjectString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}
