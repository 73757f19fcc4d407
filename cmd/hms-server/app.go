package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/ehr/hms/internal/config"
	"github.com/ehr/hms/internal/domain/appointment"
	"github.com/ehr/hms/internal/domain/billing"
	"github.com/ehr/hms/internal/domain/doctor"
	"github.com/ehr/hms/internal/domain/inventory"
	"github.com/ehr/hms/internal/domain/patient"
	"github.com/ehr/hms/internal/platform/auth"
	"github.com/ehr/hms/internal/platform/db"
	"github.com/ehr/hms/internal/platform/logging"
	"github.com/ehr/hms/internal/platform/middleware"
	"github.com/ehr/hms/internal/platform/reporting"
	"github.com/ehr/hms/internal/platform/store"
	"github.com/ehr/hms/internal/platform/telemetry"
)

// app holds everything a command needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	store  *store.Store
	pool   *pgxpool.Pool

	patients     *patient.Service
	doctors      *doctor.Service
	appointments *appointment.Service
	inventory    *inventory.Service
	bills        *billing.Service

	closers []io.Closer
}

// newApp loads configuration, builds the logger writing to logOut and
// opens the record store.
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, logCloser := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		Env:        cfg.Env,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	}, logOut)

	a := &app{cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}
	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}
	a.wireServices()
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, a.cfg.DatabaseURL, a.cfg.DBMaxConns, a.cfg.DBMinConns, a.logger)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		a.pool = pool
		pg := store.NewPGStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		a.store = store.New(pg, a.logger)
	default:
		fs, err := store.NewFileStore(a.cfg.DataDir)
		if err != nil {
			return fmt.Errorf("open data dir: %w", err)
		}
		a.store = store.New(fs, a.logger)
	}
	a.logger.Info().Str("backend", a.cfg.StoreBackend).Msg("record store ready")
	return nil
}

func (a *app) wireServices() {
	a.patients = patient.NewService(patient.NewStoreRepo(a.store))
	a.doctors = doctor.NewService(doctor.NewStoreRepo(a.store))
	a.appointments = appointment.NewService(appointment.NewStoreRepo(a.store), a.patients, a.doctors)
	a.inventory = inventory.NewService(inventory.NewStoreRepo(a.store))
	a.bills = billing.NewService(billing.NewBillStoreRepo(a.store), a.patients)
}

func (a *app) loader() *reporting.ServiceLoader {
	return &reporting.ServiceLoader{
		Patients:     a.patients,
		Doctors:      a.doctors,
		Appointments: a.appointments,
		Inventory:    a.inventory,
		Bills:        a.bills,
	}
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	for _, c := range a.closers {
		_ = c.Close()
	}
}

// newServer builds the echo instance with every route registered.
func (a *app) newServer() (*echo.Echo, error) {
	cfg := a.cfg

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(a.logger))
	e.Use(middleware.Recovery(a.logger))
	if cfg.MetricsEnabled {
		metrics := telemetry.New()
		metrics.RegisterStore(a.store)
		if a.pool != nil {
			metrics.RegisterPool(a.pool)
		}
		e.Use(metrics.Middleware())
		e.GET("/metrics", metrics.Handler())
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", auth.HeaderPage, auth.HeaderTab},
	}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	// Login gate
	var login *auth.LoginHandler
	if cfg.AuthDisabled {
		a.logger.Warn().Msg("login gate disabled, every request runs as admin")
		e.Use(auth.DevSessionMiddleware())
	} else {
		users, err := auth.ParseUsers(cfg.AuthUsers)
		if err != nil {
			return nil, fmt.Errorf("AUTH_USERS: %w", err)
		}
		jwtCfg := cfg.JWTConfig()
		e.Use(auth.SessionMiddleware(jwtCfg))
		login = auth.NewLoginHandler(users, jwtCfg, a.logger)
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/store", db.HealthHandler(a.store, cfg.StoreBackend, a.pool))

	apiV1 := e.Group("/api/v1")
	rateLimit := middleware.DefaultRateLimitConfig()
	rateLimit.RequestsPerSecond = cfg.RateLimitRPS
	rateLimit.BurstSize = cfg.RateLimitBurst
	rateLimit.Skipper = auth.AuthSkipper
	apiV1.Use(middleware.RateLimit(rateLimit))

	if login != nil {
		login.RegisterRoutes(apiV1)
	} else {
		apiV1.GET("/session", currentSession)
	}

	patient.NewHandler(a.patients).RegisterRoutes(apiV1)
	doctor.NewHandler(a.doctors).RegisterRoutes(apiV1)
	appointment.NewHandler(a.appointments).RegisterRoutes(apiV1)
	inventory.NewHandler(a.inventory).RegisterRoutes(apiV1)
	billing.NewHandler(a.bills).RegisterRoutes(apiV1)
	reporting.NewHandler(a.loader(), a.logger).RegisterRoutes(apiV1)

	return e, nil
}

func currentSession(c echo.Context) error {
	s := auth.SessionFromContext(c.Request().Context())
	if s == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	return c.JSON(http.StatusOK, s)
}
