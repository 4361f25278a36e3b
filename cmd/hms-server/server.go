package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/hms/hms/internal/config"
	"github.com/hms/hms/internal/domain/admin"
	"github.com/hms/hms/internal/domain/catalog"
	"github.com/hms/hms/internal/domain/clinical"
	"github.com/hms/hms/internal/domain/patient"
	"github.com/hms/hms/internal/domain/review"
	"github.com/hms/hms/internal/domain/scheduling"
	"github.com/hms/hms/internal/domain/staff"
	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/idp"
	"github.com/hms/hms/internal/platform/middleware"
	"github.com/hms/hms/internal/platform/telemetry"
	"github.com/hms/hms/internal/platform/validation"
)

const poolStatsInterval = 15 * time.Second

// services holds every domain service of the API.
type services struct {
	scheduling *scheduling.Service
	clinical   *clinical.Service
	staff      *staff.Service
	patients   *patient.Service
	catalog    *catalog.Service
	reviews    *review.Service
	admin      *admin.Service
}

func newServices(pool *pgxpool.Pool, provider idp.Provider, tel *telemetry.Provider) *services {
	tx := db.NewTransactor(pool)

	schedulingSvc := scheduling.NewService(scheduling.NewAppointmentRepoPG(pool))
	schedulingSvc.SetMetrics(tel)

	clinicalSvc := clinical.NewService(
		clinical.NewRecordRepoPG(pool),
		clinical.NewVitalSignsRepoPG(pool),
		clinical.NewDiagnosisRepoPG(pool),
		schedulingSvc,
		tx,
	)
	clinicalSvc.SetMetrics(tel)

	staffSvc := staff.NewService(staff.NewDoctorRepoPG(pool), staff.NewStaffRepoPG(pool), provider, tx)
	staffSvc.SetMetrics(tel)

	patientSvc := patient.NewService(patient.NewRepoPG(pool))
	catalogSvc := catalog.NewService(catalog.NewRepoPG(pool))

	return &services{
		scheduling: schedulingSvc,
		clinical:   clinicalSvc,
		staff:      staffSvc,
		patients:   patientSvc,
		catalog:    catalogSvc,
		reviews:    review.NewService(review.NewRepoPG(pool)),
		admin:      admin.NewService(staffSvc, patientSvc, catalogSvc),
	}
}

func (s *services) registerRoutes(api *echo.Group, perms *auth.Permissions) {
	scheduling.NewHandler(s.scheduling, perms).RegisterRoutes(api)
	clinical.NewHandler(s.clinical, perms).RegisterRoutes(api)
	staff.NewHandler(s.staff, perms).RegisterRoutes(api)
	patient.NewHandler(s.patients, perms).RegisterRoutes(api)
	catalog.NewHandler(s.catalog, perms).RegisterRoutes(api)
	review.NewHandler(s.reviews, perms).RegisterRoutes(api)
	admin.NewHandler(s.admin, perms).RegisterRoutes(api)
}

// newIdentityProvider picks WorkOS when an API key is configured and the
// in-process provider otherwise.
func newIdentityProvider(cfg *config.Config, logger zerolog.Logger) idp.Provider {
	if cfg.WorkOSAPIKey != "" {
		return idp.NewWorkOS(cfg.WorkOSAPIKey, cfg.WorkOSOrganizationID, logger)
	}
	logger.Warn().Msg("WORKOS_API_KEY not set, using the in-process identity provider")
	return idp.NewLocal()
}

func authMiddleware(cfg *config.Config) echo.MiddlewareFunc {
	var verify echo.MiddlewareFunc
	if cfg.AuthSigningKey != "" || cfg.AuthIssuer != "" || cfg.AuthJWKSURL != "" {
		verify = auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.AuthSigningKey),
		})
	}
	if cfg.IsDev() {
		return auth.DevAuthMiddleware(verify)
	}
	return verify
}

// newEcho builds the server with the global middleware chain and the ops
// routes. Domain routes are registered on the returned /api/v1 group.
func newEcho(cfg *config.Config, logger zerolog.Logger, tel *telemetry.Provider) (*echo.Echo, *echo.Group) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.NewEchoValidator()
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(tel.MetricsMiddleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(echomw.BodyLimit("1M"))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/metrics", tel.PrometheusHandler())

	api := e.Group("/api/v1")
	if cfg.RateLimitRPS > 0 {
		api.Use(echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
			Store: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimitRPS),
				Burst:     cfg.RateLimitBurst,
				ExpiresIn: 3 * time.Minute,
			}),
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
		}))
	}
	if mw := authMiddleware(cfg); mw != nil {
		api.Use(mw)
	}
	api.Use(middleware.Audit(logger))
	return e, api
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	tel := telemetry.NewProvider(telemetry.Config{
		ServiceName:    "hms-server",
		ServiceVersion: version,
		Environment:    cfg.Env,
	})
	go watchPool(ctx, pool, tel, poolStatsInterval)

	perms, err := auth.NewPermissions()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load permissions")
	}

	e, api := newEcho(cfg, logger, tel)
	e.GET("/health/db", db.HealthHandler(pool))
	api.Use(db.ConnMiddleware(pool))
	newServices(pool, newIdentityProvider(cfg, logger), tel).registerRoutes(api, perms)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// watchPool publishes connection pool gauges until ctx is done.
func watchPool(ctx context.Context, pool *pgxpool.Pool, tel *telemetry.Provider, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		stat := pool.Stat()
		tel.SetPoolConns(stat.TotalConns(), stat.IdleConns(), stat.AcquiredConns())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
