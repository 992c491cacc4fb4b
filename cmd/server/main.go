package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/glowdesk/glowdesk/internal/auth"
	"github.com/glowdesk/glowdesk/internal/note"
	"github.com/glowdesk/glowdesk/internal/salon"
	"github.com/glowdesk/glowdesk/internal/storage"
	"github.com/glowdesk/glowdesk/pkg/config"
	"github.com/glowdesk/glowdesk/pkg/cookie"
	"github.com/glowdesk/glowdesk/pkg/httpserver"
	"github.com/glowdesk/glowdesk/pkg/jwt"
	"github.com/glowdesk/glowdesk/pkg/logger"
	"github.com/glowdesk/glowdesk/pkg/pg"
	"github.com/glowdesk/glowdesk/pkg/redis"
)

type appConfig struct {
	Logger logger.Config
	Server httpserver.Config
	PG     pg.Config
	Redis  redis.Config
	Auth   auth.Config

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
}

// Validate satisfies the config loader's validation hook.
func (c *appConfig) Validate() error {
	return c.Auth.Validate()
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewFromConfig(cfg.Logger, logger.WithAttr(logger.Component("server")))
	logger.SetAsDefault(log)

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := storage.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	codec, err := jwt.NewFromString(cfg.Auth.Secret)
	if err != nil {
		return fmt.Errorf("failed to create token codec: %w", err)
	}

	tokens, err := auth.NewTokenService(
		codec,
		auth.NewRedisRefreshTokenStore(redisClient),
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	sameSite, err := cfg.Auth.SameSite()
	if err != nil {
		return err
	}
	cookies := cookie.New(
		cookie.WithPath(cfg.Auth.CookiePath),
		cookie.WithDomain(cfg.Auth.CookieDomain),
		cookie.WithSecure(cfg.Auth.CookieSecure),
		cookie.WithSameSite(sameSite),
	)
	transport := auth.NewCookieTransport(
		cookies,
		cfg.Auth.AccessCookieName, cfg.Auth.RefreshCookieName,
		int(cfg.Auth.AccessTokenTTL.Seconds()), int(cfg.Auth.RefreshTokenTTL.Seconds()),
	)

	authService := auth.NewService(storage.NewUserRepository(pool), auth.WithLogger(log))
	authHandler := auth.NewHandler(
		authService, tokens, transport,
		auth.NewProviderRegistry(cfg.Auth),
		cookies, cfg.Auth.FrontendBaseURL, log,
	)
	noteHandler := note.NewHandler(note.NewService(storage.NewNoteRepository(pool)), log)
	salonHandler := salon.NewHandler(salon.NewService(storage.NewSalonRepository(pool)), log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpserver.CORS(cfg.CORSAllowedOrigins))
	r.Use(auth.Authenticate(tokens, transport))

	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, log,
		pg.Healthcheck(pool),
		redis.Healthcheck(redisClient),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes())
		r.Mount("/notes", noteHandler.Routes())
		r.Mount("/salons", salonHandler.Routes())
	})

	srv := httpserver.NewFromConfig(cfg.Server, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}
