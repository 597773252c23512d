// Package server initializes and runs the tracker server: it opens the
// single-file database, runs migrations, starts the write queue and the
// HTTP endpoint, and drains the queue on shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dmitrijs2005/carcare/internal/logging"
	"github.com/dmitrijs2005/carcare/internal/server/config"
	"github.com/dmitrijs2005/carcare/internal/server/guard"
	"github.com/dmitrijs2005/carcare/internal/server/httpapi"
	"github.com/dmitrijs2005/carcare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/carcare/internal/server/services"
	"github.com/dmitrijs2005/carcare/internal/server/writequeue"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	zap     *zap.Logger
	queue   *writequeue.Queue
	handler http.Handler
}

func NewApp(cfg *config.Config) (*App, error) {
	zl, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	logger := logging.NewZapLogger(zl)

	db, err := repomanager.OpenDatabase(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewSQLiteRepositoryManager()
	if err := repos.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	g := guard.New(db, repos)
	queue := writequeue.New(logger, cfg.QueueErrorLogSize)

	userService := services.NewUserService(db, repos, cfg)
	vehicleService := services.NewVehicleService(db, repos, g, queue)
	fuelService := services.NewFuelService(db, repos, g, queue)
	eventService := services.NewServiceEventService(db, repos, g, queue)
	reportService := services.NewReportService(db, repos, g)
	receiptService := services.NewReceiptService(db, repos, g, queue, cfg)

	handler := httpapi.NewRouter(
		&httpapi.AuthHandler{Auth: userService},
		&httpapi.VehicleHandler{Vehicles: vehicleService},
		&httpapi.FuelHandler{Fuel: fuelService, Receipts: receiptService},
		&httpapi.EventHandler{Events: eventService},
		&httpapi.ReportHandler{Reports: reportService},
		&httpapi.QueueHandler{Queue: queue},
		[]byte(cfg.SecretKey),
		zl,
	)

	return &App{config: cfg, logger: logger, zap: zl, queue: queue, handler: handler}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until the context is cancelled or a signal arrives, then
// shuts down the HTTP server and drains the write queue so no accepted
// job is lost.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	app.queue.Start(ctx)

	srv := &http.Server{Addr: app.config.EndpointAddr, Handler: app.handler}

	go func() {
		app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "http server error", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "http shutdown error", "error", err)
	}

	app.logger.Info(shutdownCtx, "draining write queue")
	app.queue.Drain()

	_ = app.zap.Sync()
	app.logger.Info(shutdownCtx, "server stopped")
}
