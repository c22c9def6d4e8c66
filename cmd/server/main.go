package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/lesson-booking/internal/config"
	"github.com/iliyamo/lesson-booking/internal/database"
	"github.com/iliyamo/lesson-booking/internal/handler"
	"github.com/iliyamo/lesson-booking/internal/logging"
	"github.com/iliyamo/lesson-booking/internal/middleware"
	"github.com/iliyamo/lesson-booking/internal/model"
	"github.com/iliyamo/lesson-booking/internal/queue"
	"github.com/iliyamo/lesson-booking/internal/repository"
	"github.com/iliyamo/lesson-booking/internal/repository/memory"
	"github.com/iliyamo/lesson-booking/internal/router"
	"github.com/iliyamo/lesson-booking/internal/service"
	"github.com/iliyamo/lesson-booking/internal/service/ports"
	"github.com/iliyamo/lesson-booking/internal/storage"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		logrus.WithError(err).Fatal("loading .env")
	}
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("loading config")
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		logrus.WithError(err).Fatal("configuring logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
	log.Info("shutdown complete")
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	lessons, orders, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, catalog cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	imgCfg, err := config.LoadImageConfig()
	if err != nil {
		return fmt.Errorf("loading image config: %w", err)
	}
	images, err := openImages(ctx, imgCfg)
	if err != nil {
		return err
	}

	opts := []service.Option{service.WithLogger(log), service.WithCacheInvalidator(cache)}
	var consumer *queue.Consumer
	if cfg.AMQPURL != "" {
		opts = append(opts, service.WithPublisher(queue.NewPublisher(cfg.AMQPURL)))
		consumer = queue.NewConsumer(cfg.AMQPURL, cfg.OrderLogPath, log)
	} else {
		log.Info("RABBITMQ_URL not set, order events disabled")
	}

	e := router.New(router.Deps{
		Lessons:     handler.NewLessonHandler(service.NewCatalogService(lessons, opts...)),
		Orders:      handler.NewOrderHandler(service.NewOrderService(orders, opts...)),
		Images:      handler.NewImageHandler(images),
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
		Cache:       cache,
		Redis:       rdb,
		RateLimit:   config.LoadRateLimitConfig(),
	})
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	g, runCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := ":" + cfg.Port
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "store": cfg.StoreDriver}).Info("starting HTTP server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("starting http server: %w", err)
		}
		return nil
	})

	if consumer != nil {
		g.Go(func() error {
			if err := consumer.Run(runCtx); err != nil {
				return fmt.Errorf("running order consumer: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-runCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down HTTP server")
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Config, log *logrus.Logger) (ports.LessonStore, ports.OrderStore, func(), error) {
	if cfg.StoreDriver == config.DriverMemory {
		store := memory.New(model.SeedLessons())
		return store, store, func() {}, nil
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, nil, fmt.Errorf("migrating database: %w", err)
		}
	}
	return repository.NewLessonRepo(db, log), repository.NewOrderRepo(db), func() { _ = db.Close() }, nil
}

func openImages(ctx context.Context, cfg config.ImageConfig) (storage.ImageStore, error) {
	if cfg.Backend == config.ImageBackendS3 {
		s3, err := storage.NewS3Images(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("configuring s3 images: %w", err)
		}
		return s3, nil
	}
	return storage.NewLocalImages(cfg.Dir), nil
}
