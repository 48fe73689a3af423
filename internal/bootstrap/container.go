package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/phonica/phonica/internal/config"
	"github.com/phonica/phonica/internal/infra/cache"
	"github.com/phonica/phonica/internal/infra/db"
	"github.com/phonica/phonica/internal/infra/logger"
	mq "github.com/phonica/phonica/internal/infra/queue"
	"github.com/phonica/phonica/internal/infra/storage"
	"github.com/phonica/phonica/internal/modules/handler"
	"github.com/phonica/phonica/internal/modules/model"
	"github.com/phonica/phonica/internal/modules/repo"
	"github.com/phonica/phonica/internal/modules/service"
	"github.com/phonica/phonica/internal/pkg/audioprobe"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			_ = d.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto")

			_ = d.AutoMigrate(
				&model.Material{},
				&model.Tag{},
				&model.Equipment{},
				&model.Project{},
			)
		}
		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg)
	})

	// RabbitMQ DialFunc for connection and reconnection
	do.Provide(inj, func(i *do.Injector) (mq.DialFunc, error) {
		cfg := do.MustInvoke[*config.Config](i)

		dialFn := func() (*amqp.Connection, error) {
			useTLS := cfg.RabbitMQ.EnableTLS || strings.HasPrefix(cfg.RabbitMQ.URL, "amqps://")

			if useTLS {
				tlsConfig := &tls.Config{
					MinVersion: tls.VersionTLS12,
				}
				url := cfg.RabbitMQ.URL
				if strings.HasPrefix(url, "amqp://") {
					url = strings.Replace(url, "amqp://", "amqps://", 1)
				}
				return amqp.DialTLS(url, tlsConfig)
			}

			return amqp.Dial(cfg.RabbitMQ.URL)
		}

		return dialFn, nil
	})

	// RabbitMQ Connection
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		dialFn := do.MustInvoke[mq.DialFunc](i)
		return dialFn()
	})

	// RabbitMQ Publisher
	do.Provide(inj, func(i *do.Injector) (*mq.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		conn := do.MustInvoke[*amqp.Connection](i)
		log := do.MustInvoke[*zap.Logger](i)
		dialFn := do.MustInvoke[mq.DialFunc](i)
		return mq.NewPublisher(conn, log, cfg, dialFn)
	})

	// Asset store, local disk by default
	do.Provide(inj, func(i *do.Injector) (storage.AssetStore, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.Storage.Backend == "s3" {
			return storage.NewS3Store(context.Background(), cfg)
		}
		return storage.NewLocalStore(cfg.Storage.MaterialsDir, cfg.Storage.TempDir)
	})

	// ffprobe
	do.Provide(inj, func(i *do.Injector) (audioprobe.Prober, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return audioprobe.NewFFProbe(cfg.Probe.FFprobePath, cfg.Probe.Timeout), nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.MaterialRepo, error) {
		return repo.NewMaterialRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.TagRepo, error) {
		return repo.NewTagRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.EquipmentRepo, error) {
		return repo.NewEquipmentRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		return repo.NewProjectRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.UploadService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewUploadService(
			do.MustInvoke[storage.AssetStore](i),
			do.MustInvoke[*redis.Client](i),
			do.MustInvoke[audioprobe.Prober](i),
			do.MustInvoke[*zap.Logger](i),
			cfg.Storage.TempTTL,
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.AssetCleanup, error) {
		return service.NewAssetCleanup(
			do.MustInvoke[*mq.Publisher](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.MaterialService, error) {
		return service.NewMaterialService(
			do.MustInvoke[repo.MaterialRepo](i),
			do.MustInvoke[repo.TagRepo](i),
			do.MustInvoke[repo.EquipmentRepo](i),
			do.MustInvoke[service.UploadService](i),
			do.MustInvoke[service.AssetCleanup](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.TagService, error) {
		return service.NewTagService(do.MustInvoke[repo.TagRepo](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.EquipmentService, error) {
		return service.NewEquipmentService(do.MustInvoke[repo.EquipmentRepo](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.MaterialRepo](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.MaterialHandler, error) {
		return handler.NewMaterialHandler(do.MustInvoke[service.MaterialService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.UploadHandler, error) {
		return handler.NewUploadHandler(do.MustInvoke[service.UploadService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.TagHandler, error) {
		return handler.NewTagHandler(do.MustInvoke[service.TagService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.EquipmentHandler, error) {
		return handler.NewEquipmentHandler(do.MustInvoke[service.EquipmentService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(do.MustInvoke[service.ProjectService](i)), nil
	})

	return inj
}
