package authgrpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/metadata"

	"github.com/back-devcourse/authfilter/core"
)

// Metadata keys. gRPC normalizes incoming keys to lowercase.
const (
	authorizationKey = "authorization"
	apiKeyKey        = "apikey"
	accessTokenKey   = "accesstoken"

	// refreshHeader is the response header carrying a refreshed access token.
	refreshHeader = accessTokenKey
)

// CredentialsExtractor extracts credentials from incoming gRPC metadata.
type CredentialsExtractor func(ctx context.Context) (core.Credentials, error)

// ErrMultipleAuthHeaders indicates multiple authorization metadata entries were provided.
var ErrMultipleAuthHeaders = errors.New("multiple authorization metadata entries are not allowed")

// MetadataCredentialsExtractor reads "authorization: Bearer <apiKey>
// <accessToken>" and falls back to the "apikey" and "accesstoken" entries
// when authorization is blank.
func MetadataCredentialsExtractor(ctx context.Context) (core.Credentials, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return core.Credentials{}, nil // No metadata, no credentials (not an error)
	}

	authHeaders := md.Get(authorizationKey)
	if len(authHeaders) > 1 {
		return core.Credentials{}, ErrMultipleAuthHeaders
	}

	if len(authHeaders) == 1 {
		creds, present, err := core.ParseAuthorization(authHeaders[0])
		if err != nil {
			return core.Credentials{}, err
		}
		if present {
			return creds, nil
		}
	}

	return core.Credentials{
		APIKey:      first(md, apiKeyKey),
		AccessToken: first(md, accessTokenKey),
	}, nil
}

func first(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
