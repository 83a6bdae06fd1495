package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/backend"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/carry"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/gateway"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/guard"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/handoff"
	httpapi "github.com/aussiebroadwan/tenantboard/internal/onboarding/http"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/reconcile"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/sandbox"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store/drivers/redis"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store/drivers/sqlite"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/verification"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/wizard"
	"github.com/aussiebroadwan/tenantboard/pkg/backendsdk"
	"github.com/aussiebroadwan/tenantboard/pkg/cryptox"
	"github.com/aussiebroadwan/tenantboard/pkg/httpx"
	"github.com/aussiebroadwan/tenantboard/pkg/jwtx"
	"github.com/aussiebroadwan/tenantboard/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
var BuildVersion = "v0.1.0"

const (
	sessionIssuer = "tenantboard"
	sessionKeyID  = "onboarding-session"
)

// Application is the onboarding service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    *sqlite.Store
	redis *redis.CarryRecords

	backend    backend.Backend
	sandbox    *sandbox.Service
	carry      *carry.Store
	handoff    *handoff.Handoff
	reconciler *reconcile.Reconciler
	wizards    *wizard.Manager
	sessions   *httpapi.Sessions

	housekeeping *Housekeeping

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with every dependency initialised.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "onboarding-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initBackend(); err != nil {
		app.closeStores()
		return nil, err
	}
	if err := app.initPayment(); err != nil {
		app.closeStores()
		return nil, err
	}
	if err := app.initSessions(); err != nil {
		app.closeStores()
		return nil, err
	}

	app.initWizard()
	app.initHousekeeping()
	app.initHTTP()

	return app, nil
}

// Handler is the root HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeeping.Start()

	app.logger.Info("onboarding service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"origin", app.cfg.AppOrigin,
		"sandbox", app.sandbox != nil,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeeping.Stop()
			app.closeStores()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains requests, stops housekeeping, ends the live wizard
// sessions and closes the stores.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down onboarding service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeeping.Stop()
	app.wizards.Close()

	if err := app.closeStores(); err != nil {
		return err
	}

	app.logger.Info("onboarding service stopped")
	return nil
}

func (app *Application) closeStores() error {
	var errs []error
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
			errs = append(errs, err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// initDatabase opens the SQLite store and applies migrations. It holds the
// carry slots and, without a BACKEND_URL, the sandbox backend tables.
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		app.db = nil
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initBackend() error {
	if app.cfg.BackendURL != "" {
		client := backendsdk.NewClient(app.cfg.BackendURL)
		if app.cfg.BackendTimeout > 0 {
			client.HTTPClient.Timeout = app.cfg.BackendTimeout
		}
		app.backend = backend.NewRemote(client)
		app.logger.Info("using remote backend", "url", app.cfg.BackendURL)
		return nil
	}

	pepper, err := cryptox.LoadPepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	app.sandbox = &sandbox.Service{
		Store:   app.db,
		Hasher:  cryptox.PasswordHasher{Pepper: pepper},
		Mailer:  sandbox.LogMailer{Logger: app.logger},
		CodeTTL: app.cfg.EmailCodeTTL,
		Logger:  app.logger,
	}
	app.backend = app.sandbox
	app.logger.Warn("BACKEND_URL not set, serving the sandbox backend under /sandbox")
	return nil
}

func (app *Application) initPayment() error {
	sealer, err := cryptox.LoadSealer(app.cfg.MasterKeyPath)
	if err != nil {
		return fmt.Errorf("failed to load carry key: %w", err)
	}
	if sealer.Ephemeral() {
		app.logger.Warn("no master key configured, carry slots will not survive a restart")
	}

	var records store.CarryRecords = app.db.CarryRecords()
	if app.cfg.CarryDriver == CarryDriverRedis {
		app.redis = redis.New(redis.Options{
			Addr:     app.cfg.RedisAddr,
			Password: app.cfg.RedisPassword,
			DB:       app.cfg.RedisDB,
		})
		records = app.redis
		app.logger.Info("carry slots stored in redis", "addr", app.cfg.RedisAddr)
	}
	app.carry = carry.New(records, sealer, carry.Options{TTL: app.cfg.CarryTTL, Logger: app.logger})

	provider := gateway.Tag(app.cfg.PGProvider)
	registry := gateway.NewRegistry(gateway.RegistryConfig{
		Default:         provider,
		TossClientKey:   app.cfg.TossClientKey,
		StripeSecretKey: app.cfg.StripeSecretKey,
		TestMode:        app.cfg.PaymentTestMode,
		Logger:          app.logger,
	})

	app.handoff = handoff.New(app.carry, registry, handoff.Config{
		AppOrigin: app.cfg.AppOrigin,
		Logger:    app.logger,
	})
	app.reconciler = reconcile.New(app.backend, app.carry, reconcile.Config{
		RiskLevel:       app.cfg.DefaultRiskLevel,
		DefaultProvider: provider,
		AutoSubscribe:   app.cfg.AutoSubscribe,
		RedirectDelay:   app.cfg.RedirectDelay,
		Logger:          app.logger,
	})
	return nil
}

func (app *Application) initSessions() error {
	pemKey, err := cryptox.LoadOrGenerateEd25519Key(app.cfg.SessionKeyPath)
	if err != nil {
		return fmt.Errorf("failed to load session key: %w", err)
	}
	key, err := jwtx.NewEdDSAKey(sessionKeyID, pemKey, sessionIssuer, []string{httpapi.SessionAudience})
	if err != nil {
		return fmt.Errorf("failed to initialize session key: %w", err)
	}
	app.sessions = &httpapi.Sessions{
		Signer:   key,
		Verifier: key,
		Issuer:   sessionIssuer,
		TTL:      app.cfg.SessionTTL,
		Secure:   app.cfg.Secure(),
	}
	return nil
}

func (app *Application) initWizard() {
	app.wizards = wizard.NewManager(wizard.Deps{
		Backend: app.backend,
		Handoff: app.handoff,
		Guards:  guard.Options{UnlockDelay: app.cfg.GuardUnlockDelay, Logger: app.logger},
		Verification: verification.Config{
			CodeTTL:        int(app.cfg.EmailCodeTTL / time.Second),
			ResendCooldown: int(app.cfg.EmailResendCooldown / time.Second),
			TickInterval:   time.Second,
			Logger:         app.logger,
		},
		RiskLevel: app.cfg.DefaultRiskLevel,
		Logger:    app.logger,
	}, wizard.ManagerOptions{IdleTTL: app.cfg.SessionIdleTTL})
}

func (app *Application) initHousekeeping() {
	tasks := []Task{
		{Name: "carry_slots", Run: app.carry.Sweep},
		{Name: "wizard_sessions", Run: func(ctx context.Context) (int64, error) {
			return int64(app.wizards.Sweep(ctx)), nil
		}},
	}
	if app.sandbox != nil {
		tasks = append(tasks, Task{Name: "email_challenges", Run: app.sandbox.Sweep})
	}
	app.housekeeping = NewHousekeeping(app.logger, app.cfg.HousekeepingInterval, tasks...)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.sessions,
		httpx.RateLimitProfilesFromEnv(os.Getenv),
		BuildVersion,
		app.logger,
	)

	router.Wizards = app.wizards
	router.Handoff = app.handoff
	router.Reconciler = app.reconciler
	router.Backend = app.backend
	router.Checks = map[string]httpapi.Check{"database": app.db.Ping}
	if app.redis != nil {
		router.Checks["carry"] = app.redis.Ping
	}
	if app.sandbox != nil {
		router.Sandbox = sandbox.NewHandler(app.sandbox)
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
