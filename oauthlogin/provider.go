// Package oauthlogin implements federated login: the authorization redirect,
// the provider callback and the completion handler that hands the caller its
// credentials.
package oauthlogin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// Kakao endpoints.
const (
	KakaoAuthURL     = "https://kauth.kakao.com/oauth/authorize"
	KakaoTokenURL    = "https://kauth.kakao.com/oauth/token"
	KakaoUserInfoURL = "https://kapi.kakao.com/v2/user/me"
)

// Provider is one registered identity provider.
type Provider struct {
	// RegistrationID names the provider in routes and usernames, e.g. "kakao".
	RegistrationID string
	OAuth2         *oauth2.Config
	UserInfoURL    string
}

// NewKakaoProvider returns a Provider for Kakao login.
func NewKakaoProvider(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{
		RegistrationID: "kakao",
		OAuth2: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   KakaoAuthURL,
				TokenURL:  KakaoTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: redirectURL,
			Scopes:      []string{"profile_nickname", "profile_image"},
		},
		UserInfoURL: KakaoUserInfoURL,
	}
}

// Validate reports missing configuration.
func (p *Provider) Validate() error {
	switch {
	case p.RegistrationID == "":
		return errors.New("registration id is required")
	case p.OAuth2 == nil:
		return errors.New("oauth2 config is required")
	case p.OAuth2.ClientID == "":
		return errors.New("client_id is required")
	case p.OAuth2.Endpoint.AuthURL == "" || p.OAuth2.Endpoint.TokenURL == "":
		return errors.New("auth and token urls are required")
	case p.UserInfoURL == "":
		return errors.New("user_info_url is required")
	}
	return nil
}

// FetchAttributes exchanges code and returns the user-info document.
// Numbers are kept as json.Number so large ids stay exact.
func (p *Provider) FetchAttributes(ctx context.Context, code string) (map[string]any, error) {
	if code == "" {
		return nil, errors.New("missing authorization code")
	}

	tok, err := p.OAuth2.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build user info request: %w", err)
	}

	resp, err := p.OAuth2.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("user info request failed with status %d: %s", resp.StatusCode, string(body))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var attrs map[string]any
	if err := dec.Decode(&attrs); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return attrs, nil
}
