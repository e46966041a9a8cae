package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ovaphlow/pitchfork/service-adboard/internal/config"
	"github.com/ovaphlow/pitchfork/service-adboard/internal/router"
	"github.com/ovaphlow/pitchfork/service-adboard/internal/user"
	"github.com/ovaphlow/pitchfork/service-adboard/pkg/database"
	"github.com/ovaphlow/pitchfork/service-adboard/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	// init logger
	lg, err := utilities.Init(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Infow("starting service-adboard", "addr", cfg.HTTPAddr, "driver", cfg.Database.Driver)

	// init db
	db, err := database.Connect(cfg.Database)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DropAllTables {
		sugar.Warn("DROP_ALL_TABLES is set; rolling back all migrations")
	}
	version, err := database.Migrate(ctx, db, database.MigrateOptions{Reset: cfg.DropAllTables})
	if err != nil {
		sugar.Fatalf("migrate: %v", err)
	}
	sugar.Infow("schema ready", "version", version)

	// mount http server
	handler := router.RegisterRoutes(sugar, db, user.BcryptHasher{Cost: cfg.BcryptCost})
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}

	// run server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	sugar.Info("service is running; press Ctrl+C to stop")
	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for in-flight requests
	doneCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
