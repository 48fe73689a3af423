package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/phonica/phonica/internal/bootstrap"
	"github.com/phonica/phonica/internal/config"
	"github.com/phonica/phonica/internal/infra/cache"
	"github.com/phonica/phonica/internal/infra/db"
	"github.com/phonica/phonica/internal/modules/handler"
	"github.com/phonica/phonica/internal/router"
	"github.com/phonica/phonica/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

//	@title			Phonica API
//	@version		1.0
//	@description	Field-recording catalogue: materials, tags, equipment and projects.
//	@BasePath		/api/v1

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inj := bootstrap.BuildContainer()

	cfg, err := do.Invoke[*config.Config](inj)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := do.MustInvoke[*zap.Logger](inj)
	defer logger.Sync()

	if cfg.Telemetry.Enabled && cfg.Telemetry.OtlpEndpoint != "" {
		if _, err := telemetry.SetupTracing(cfg); err != nil {
			logger.Warn("tracing setup failed", zap.Error(err))
		}
		if _, err := telemetry.SetupMetrics(cfg); err != nil {
			logger.Warn("metrics setup failed", zap.Error(err))
		}
		if err := telemetry.InitIngestMetrics(); err != nil {
			logger.Warn("ingest metrics init failed", zap.Error(err))
		}
		if err := db.RegisterOpenTelemetryPlugin(do.MustInvoke[*gorm.DB](inj)); err != nil {
			logger.Warn("gorm tracing plugin failed", zap.Error(err))
		}
		if err := cache.RegisterOpenTelemetryPlugin(do.MustInvoke[*redis.Client](inj)); err != nil {
			logger.Warn("redis tracing plugin failed", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = telemetry.Shutdown(shutdownCtx)
			_ = telemetry.ShutdownMetrics(shutdownCtx)
		}()
	}

	r := router.NewRouter(router.RouterDeps{
		Config:           cfg,
		Log:              logger,
		MaterialHandler:  do.MustInvoke[*handler.MaterialHandler](inj),
		UploadHandler:    do.MustInvoke[*handler.UploadHandler](inj),
		TagHandler:       do.MustInvoke[*handler.TagHandler](inj),
		EquipmentHandler: do.MustInvoke[*handler.EquipmentHandler](inj),
		ProjectHandler:   do.MustInvoke[*handler.ProjectHandler](inj),
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited", zap.Error(err))
	}
	_ = inj.Shutdown()
}
