package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/stockroom/internal/api"
	"github.com/erazemk/stockroom/internal/db"
	"github.com/erazemk/stockroom/internal/metrics"
	"github.com/erazemk/stockroom/internal/store"
	"github.com/erazemk/stockroom/internal/web"
)

func cmdServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	envFile := fs.String("env", ".env", "dotenv file to load if present")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	cfg, logg, closeLog, ok := loadConfig(*envFile)
	if !ok {
		return 1
	}
	defer closeLog()

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.AppEnv,
		"port": cfg.Port,
	})

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logg.Error(ctx, "data_dir.create_failed", err)
		return 1
	}

	database, err := db.Open(cfg.DBPath())
	if err != nil {
		logg.Error(ctx, "database.open_failed", err)
		return 1
	}

	if err := db.Migrate(ctx, database, logg); err != nil {
		logg.Error(ctx, "database.migrate_failed", err)
		database.Close()
		return 1
	}
	logg.Info(logg.WithField(ctx, "path", cfg.DBPath()), "database.ready")

	clientFS, err := web.ClientFS(cfg.StaticDir)
	if err != nil {
		logg.Error(ctx, "client.load_failed", err)
		database.Close()
		return 1
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	router := api.NewRouter(api.Options{
		Items:              store.NewItems(database, m),
		DB:                 database,
		Logger:             logg,
		Metrics:            m,
		Gatherer:           reg,
		JWTSecret:          cfg.JWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Client:             web.NewHandler(clientFS),
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		logg.Info(logg.WithField(ctx, "auth", cfg.AuthEnabled()), "server.started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening on %s: %w", cfg.Addr(), err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info(ctx, "server.shutting_down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return multierr.Append(fmt.Errorf("draining connections: %w", err), server.Close())
		}
		return nil
	})

	serveErr := g.Wait()

	// The server has stopped; no handler can reach the database anymore.
	if err := database.Close(); err != nil {
		logg.Error(ctx, "database.close_failed", err)
	}

	if serveErr != nil {
		logg.Error(ctx, "server.stopped", serveErr)
		return 1
	}
	logg.Info(ctx, "server.stopped")
	return 0
}
