package authgrpc

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/back-devcourse/authfilter/core"
)

// Interceptor authenticates gRPC calls.
type Interceptor struct {
	auth            *core.Authenticator
	extractor       CredentialsExtractor
	errorHandler    ErrorHandler
	excludedMethods map[string]bool
	logger          Logger

	// Temporary fields used during construction
	service core.CredentialService
}

// New creates a gRPC interceptor with the provided options.
// WithCredentialService is required.
func New(opts ...Option) (*Interceptor, error) {
	i := &Interceptor{
		extractor:       MetadataCredentialsExtractor,
		errorHandler:    DefaultErrorHandler,
		excludedMethods: make(map[string]bool),
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}

	if i.service == nil {
		return nil, errors.New("credential service is required, use WithCredentialService option")
	}

	coreOpts := []core.Option{
		core.WithCredentialService(i.service),
		core.WithAccessTokenName(refreshHeader),
	}
	if i.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger(i.logger))
	}

	auth, err := core.New(coreOpts...)
	if err != nil {
		return nil, err
	}
	i.auth = auth

	return i, nil
}

// GetPrincipal retrieves the principal of an authenticated call.
func GetPrincipal(ctx context.Context) (*core.Principal, error) {
	return core.GetPrincipal(ctx)
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that
// authenticates calls and publishes the principal in the handler context.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if i.excludedMethods[info.FullMethod] {
			if i.logger != nil {
				i.logger.Debug("skipping authentication for excluded method",
					"method", info.FullMethod)
			}
			return handler(ctx, req)
		}

		authCtx, err := i.authenticate(ctx, info.FullMethod, func(md metadata.MD) error {
			return grpc.SetHeader(ctx, md)
		})
		if err != nil {
			return nil, err
		}

		return handler(authCtx, req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that
// authenticates streams and publishes the principal in the stream context.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if i.excludedMethods[info.FullMethod] {
			if i.logger != nil {
				i.logger.Debug("skipping authentication for excluded method",
					"method", info.FullMethod)
			}
			return handler(srv, ss)
		}

		authCtx, err := i.authenticate(ss.Context(), info.FullMethod, ss.SetHeader)
		if err != nil {
			return err
		}

		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: authCtx})
	}
}

func (i *Interceptor) authenticate(ctx context.Context, method string, setHeader func(metadata.MD) error) (context.Context, error) {
	creds, err := i.extractor(ctx)
	if err != nil {
		if i.logger != nil {
			i.logger.Warn("failed to extract credentials from gRPC metadata",
				"error", err,
				"method", method)
		}
		return ctx, i.errorHandler(err)
	}

	rb := &core.ResponseBuilder{}
	outcome, err := i.auth.Authenticate(ctx, creds, rb)
	if err != nil {
		if i.logger != nil {
			i.logger.Warn("authentication failed",
				"error", err,
				"method", method)
		}
		return ctx, i.errorHandler(err)
	}

	if updates := rb.Updates(); len(updates) > 0 {
		md := metadata.MD{}
		for _, u := range updates {
			md.Set(strings.ToLower(u.Name), u.Value)
		}
		if err := setHeader(md); err != nil {
			return ctx, i.errorHandler(err)
		}
	}

	if outcome.Principal == nil {
		if i.logger != nil {
			i.logger.Debug("no credentials provided, continuing anonymously",
				"method", method)
		}
		return ctx, nil
	}

	return core.SetPrincipal(ctx, outcome.Principal), nil
}

// wrappedServerStream wraps grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context carrying the principal.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
