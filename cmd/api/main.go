package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mrb1sh0p/email-mass-api/internal/config"
	"github.com/mrb1sh0p/email-mass-api/internal/logger"
	"github.com/mrb1sh0p/email-mass-api/internal/metrics"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/docstore"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/identity"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/ratelimit"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/validation"

	_ "github.com/mrb1sh0p/email-mass-api/docs" // side-effect import of generated docs
	auth "github.com/mrb1sh0p/email-mass-api/internal/auth"
	authmw "github.com/mrb1sh0p/email-mass-api/internal/auth/middleware"
	evsvc "github.com/mrb1sh0p/email-mass-api/internal/events/service"
	mailer "github.com/mrb1sh0p/email-mass-api/internal/mailer"
	models "github.com/mrb1sh0p/email-mass-api/internal/models"
	orgs "github.com/mrb1sh0p/email-mass-api/internal/orgs"
	orepo "github.com/mrb1sh0p/email-mass-api/internal/orgs/repository"
	users "github.com/mrb1sh0p/email-mass-api/internal/users"
	udomain "github.com/mrb1sh0p/email-mass-api/internal/users/domain"
	urepo "github.com/mrb1sh0p/email-mass-api/internal/users/repository"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// @title           Email Mass API
// @version         1.0
// @description     Multi-tenant bulk email dispatch service.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.AppEnv)
	log.Info().Str("addr", cfg.AppAddr).Msg("starting api server")

	// Init Redis/Valkey (shared rate-limit counters)
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	defer redisClient.Close()

	// Document store and identity provider. The in-memory implementations
	// back development and tests; a hosted deployment substitutes its own
	// docstore.Store and identity.Provider here.
	store := docstore.NewMemory()
	idp := identity.NewMemory()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middlewares
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(metrics.HTTPMiddleware())

	// Validator
	e.Validator = validation.New()

	// Rate limits: shared counters in Redis, keyed by client IP.
	limitStore := ratelimit.NewRedisStore(redisClient)
	authLimit := ratelimit.MiddlewareWithStore(ratelimit.Policy{
		Name:   "auth",
		Window: cfg.RateLimitWindow,
		Limit:  cfg.RateLimitRequests,
		Key:    ratelimit.KeyByIP("auth"),
	}, limitStore)
	sendLimit := ratelimit.MiddlewareWithStore(ratelimit.Policy{
		Name:   "send",
		Window: cfg.RateLimitWindow,
		Limit:  cfg.RateLimitRequests,
		Key:    ratelimit.KeyByIP("send"),
	}, limitStore)

	jwtRequired := authmw.RequireJWT(cfg)

	// Repositories shared across slices.
	usersRepo := urepo.New(store)
	orgsRepo := orepo.New(store)
	pub := evsvc.NewLogger()

	// Register domain routes via factories
	auth.Register(e, cfg, idp, usersRepo, pub, log, authLimit)
	users.Register(e, usersRepo, idp, orgsRepo, log, jwtRequired)
	orgs.Register(e, orgsRepo, usersRepo, log, jwtRequired)
	models.Register(e, store, jwtRequired)
	mailer.Register(e, store, pub, log, jwtRequired, sendLimit)

	if cfg.BootstrapEmail != "" {
		bootstrapSuperAdmin(cfg, idp, usersRepo, log)
	}

	// Health endpoint pings the cache
	e.GET("/healthz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 500*time.Millisecond)
		defer cancel()

		cacheStatus := "ok"
		if _, err := redisClient.Ping(ctx).Result(); err != nil {
			cacheStatus = "down"
		}

		return c.JSON(http.StatusOK, map[string]any{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
			"cache":  cacheStatus,
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Start server
	go func() {
		if err := e.Start(cfg.AppAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("server stopped")
}

// bootstrapSuperAdmin seeds the initial super-admin account so a fresh
// deployment has a session to create organizations with.
func bootstrapSuperAdmin(cfg config.Config, idp identity.Provider, repo udomain.Repository, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	uid, err := idp.CreateUser(ctx, cfg.BootstrapEmail, cfg.BootstrapPassword)
	if err != nil {
		if errors.Is(err, identity.ErrEmailInUse) {
			return
		}
		log.Error().Err(err).Msg("bootstrap account creation failed")
		return
	}
	if err := repo.Put(ctx, udomain.User{
		UID:   uid,
		Name:  "Super Admin",
		Email: cfg.BootstrapEmail,
		Role:  udomain.RoleSuperAdmin,
	}); err != nil {
		log.Error().Err(err).Msg("bootstrap profile write failed")
		return
	}
	log.Info().Str("email", cfg.BootstrapEmail).Msg("bootstrap super-admin ready")
}
