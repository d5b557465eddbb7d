// Command authserver runs the authentication filter in front of a small
// member API with optional Kakao login.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/back-devcourse/authfilter"
	"github.com/back-devcourse/authfilter/identity"
	"github.com/back-devcourse/authfilter/internal/config"
	"github.com/back-devcourse/authfilter/member"
	"github.com/back-devcourse/authfilter/oauthlogin"
	"github.com/back-devcourse/authfilter/token"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	log.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server error")
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	logger := authfilter.NewLogrusLogger(log)

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	tokens, err := token.New([]byte(cfg.Token.Secret),
		token.WithTTL(cfg.Token.TTL),
		token.WithIssuerName(cfg.Token.Issuer),
	)
	if err != nil {
		return err
	}

	members, err := member.NewService(store, tokens, member.WithLogger(logger))
	if err != nil {
		return err
	}

	cookies := authfilter.DefaultCookieConfig()
	cookies.Domain = cfg.Cookie.Domain
	cookies.Secure = cfg.Cookie.Secure

	filter, err := authfilter.New(
		authfilter.WithCredentialService(members),
		authfilter.WithCookieConfig(cookies),
		authfilter.WithLogger(logger),
		authfilter.WithMetrics(authfilter.NewPrometheusMetrics(nil)),
		authfilter.WithTracer(authfilter.NewOpenTelemetryTracer(otel.Tracer("authfilter"))),
	)
	if err != nil {
		return err
	}

	var login *oauthlogin.Login
	if cfg.Kakao.Enabled() {
		login, err = newLogin(cfg, members, cookies, logger)
		if err != nil {
			return err
		}
		log.WithField("providers", login.Providers()).Info("federated login enabled")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      newRouter(filter, login),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("authserver listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// openStore picks postgres when a database URL is configured and the memory
// store otherwise, optionally fronted by the redis API key cache.
func openStore(ctx context.Context, cfg *config.Config, logger authfilter.Logger) (member.Store, func(), error) {
	var (
		store   member.Store = member.NewMemoryStore()
		closers []func()
	)

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Database.URL != "" {
		db, err := member.OpenPostgres(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { db.Close() })
		store = member.NewPostgresStore(db)
	} else {
		logger.Warn("no database configured, members are kept in memory")
	}

	if cfg.Cache.RedisURL != "" {
		client, err := member.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { client.Close() })
		store = member.NewCachedStore(store, client, cfg.Cache.APIKeyTTL, logger)
	}

	return store, closeAll, nil
}

func newLogin(cfg *config.Config, members *member.Service, cookies authfilter.CookieConfig, logger authfilter.Logger) (*oauthlogin.Login, error) {
	mapper, err := identity.NewMapper(members)
	if err != nil {
		return nil, err
	}

	return oauthlogin.New(
		oauthlogin.WithProvider(oauthlogin.NewKakaoProvider(cfg.Kakao.ClientID, cfg.Kakao.ClientSecret, cfg.Kakao.RedirectURL)),
		oauthlogin.WithMapper(mapper),
		oauthlogin.WithTokenIssuer(members),
		oauthlogin.WithCookieConfig(cookies),
		oauthlogin.WithLogger(logger),
	)
}
