// Package server initializes and runs the application: it opens the
// database, runs migrations, wires services and the HTTP surface, starts
// the revocation-ledger purge job, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"

	"github.com/dkrasnov/skyportal/internal/auth"
	"github.com/dkrasnov/skyportal/internal/config"
	"github.com/dkrasnov/skyportal/internal/httpserver"
	"github.com/dkrasnov/skyportal/internal/logging"
	"github.com/dkrasnov/skyportal/internal/repositories/repomanager"
	"github.com/dkrasnov/skyportal/internal/services"
	"github.com/dkrasnov/skyportal/internal/weather"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	httpServer  *httpserver.Server
	cron        *cron.Cron
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	codec := auth.NewCodec([]byte(cfg.SecretKey))
	issuer := auth.NewIssuer(codec, rm.RevokedTokens(db),
		cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)

	authSvc := services.NewAuthService(db, rm, issuer)
	weatherClient := weather.NewClient(cfg.WeatherBaseEndpoint, cfg.WeatherAPIKey)
	weatherSvc := services.NewWeatherService(db, rm, weatherClient, cfg.WeatherCacheTTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	router := httpserver.NewRouter(
		httpserver.NewAuthenticator(codec, rm.Users(db), logger),
		httpserver.NewMetrics(reg),
		httpserver.NewAuthHandlers(authSvc, logger),
		httpserver.NewWeatherHandlers(weatherSvc, logger),
		httpserver.NewMiscHandlers(authSvc, weatherSvc),
		reg,
	)

	app := &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		repomanager: rm,
		httpServer:  httpserver.NewServer(cfg.EndpointAddrHTTP, router, logger),
		cron:        cron.New(),
	}

	if err := app.scheduleLedgerPurge(); err != nil {
		return nil, fmt.Errorf("scheduling ledger purge: %w", err)
	}
	return app, nil
}

// scheduleLedgerPurge registers the periodic cleanup of revocation entries
// older than the refresh-token lifetime. Such entries can never match a
// live token, so deleting them only reclaims space.
func (app *App) scheduleLedgerPurge() error {
	_, err := app.cron.AddFunc(app.config.LedgerPurgeSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cutoff := time.Now().Add(-app.config.RefreshTokenValidityDuration)
		n, err := app.repomanager.RevokedTokens(app.db).PurgeOlderThan(ctx, cutoff)
		if err != nil {
			app.logger.Error(ctx, "ledger purge failed", "error", err.Error())
			return
		}
		app.logger.Info(ctx, "ledger purge completed", "deleted", n)
	})
	return err
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)
	app.cron.Start()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()
	wg.Wait()

	cronCtx := app.cron.Stop()
	<-cronCtx.Done()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err.Error())
	}
	app.logger.Info(ctx, "app stopped")
}
