package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-pipeline/internal/bootstrap"
	"resume-pipeline/internal/quota"
	"resume-pipeline/internal/shared/config"
	"resume-pipeline/internal/shared/server"
	"resume-pipeline/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg, bootstrap.Options{})
	if err != nil {
		telemetry.Error("api.bootstrap.failed", map[string]any{"err": err})
		os.Exit(1)
	}
	defer app.Close()

	go quota.RunSweeper(ctx, app.Gate, cfg.QuotaSweepInterval)

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			telemetry.Error("api.shutdown.failed", map[string]any{"err": err})
		}
	}()

	telemetry.Info("api.start", map[string]any{
		"addr":         srv.Addr,
		"env":          cfg.Env,
		"quota_store":  cfg.QuotaStore,
		"object_store": cfg.ObjectStoreType,
		"llm":          cfg.LLMProvider,
	})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		telemetry.Error("api.server.failed", map[string]any{"err": err})
		os.Exit(1)
	}
}
