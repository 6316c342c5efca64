package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	config "github.com/rkhn-textiles/pos-backend/internal/cfg"
	v1Http "github.com/rkhn-textiles/pos-backend/internal/delivery/v1/http"
	"github.com/rkhn-textiles/pos-backend/internal/infrastructure/export"
	"github.com/rkhn-textiles/pos-backend/internal/infrastructure/kafka"
	"github.com/rkhn-textiles/pos-backend/internal/infrastructure/refresh"
	s3Repo "github.com/rkhn-textiles/pos-backend/internal/repository/minio"
	"github.com/rkhn-textiles/pos-backend/internal/repository/pgdb"
	pgdbConv "github.com/rkhn-textiles/pos-backend/internal/repository/pgdb/converter"
	"github.com/rkhn-textiles/pos-backend/internal/repository/redis"
	redisConv "github.com/rkhn-textiles/pos-backend/internal/repository/redis/converter"
	"github.com/rkhn-textiles/pos-backend/internal/usecase"
	"github.com/rkhn-textiles/pos-backend/pkg/clients"
	"github.com/rkhn-textiles/pos-backend/pkg/closer"
	"github.com/rkhn-textiles/pos-backend/pkg/e"
	"github.com/rkhn-textiles/pos-backend/pkg/logger"
	"github.com/rkhn-textiles/pos-backend/pkg/postgres"
)

func Run() {
	logger := logger.NewSlogLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	cl := closer.NewCloser(2 * time.Second)

	db, err := initPGDB(logger, cfg)
	if err != nil {
		logger.Errorf(err, "failed to initialize database")
		os.Exit(1)
	}
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(redisCtx); err != nil {
		redisCancel()
		logger.Errorf(err, "failed to connect to redis")
		os.Exit(1)
	}
	redisCancel()
	cl.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	minioClient, err := clients.NewMinIOClient(cfg)
	if err != nil {
		logger.Errorf(err, "failed to initialize minio client")
		os.Exit(1)
	}
	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		logger.Errorf(err, "failed to initialize MinIO bucket")
		os.Exit(1)
	}
	minioCancel()

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConverterImpl{})
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.CategoryConverterImpl{})
	subcategoryRepo := pgdb.NewSubcategoryRepo(db.Pool, pgdbConv.SubcategoryConverterImpl{})
	saleRepo := pgdb.NewSaleRepo(db.Pool, pgdbConv.SaleConverterImpl{})
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.OutboxEventConverterImpl{})

	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.DashboardConverterImpl{}, cfg.Redis, logger)
	reportRepo := s3Repo.NewReportRepo(minioClient, cfg.Minio)

	producer, err := kafka.NewProducer(logger, cfg.Kafka)
	if err != nil {
		logger.Errorf(err, "failed to initialize kafka producer")
		os.Exit(1)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		logger.Errorf(err, "failed to ensure kafka topic")
		os.Exit(1)
	}
	cl.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	outboxWorker := kafka.NewOutboxWorker(outboxRepo, logger, producer, db.Dsn)
	outboxWorker.Start(appCtx)
	cl.Add(func(ctx context.Context) error {
		outboxWorker.Stop()
		return nil
	})

	watcher := pgdb.NewCollectionWatcher(db.Dsn, logger)
	watcher.Start(appCtx)
	cl.Add(func(ctx context.Context) error {
		watcher.Stop()
		return nil
	})

	exporter := export.NewCsvExporter(reportRepo, logger)

	inventoryUC := usecase.NewInventoryUC(productRepo, categoryRepo, subcategoryRepo, logger)
	saleUC := usecase.NewSaleUC(productRepo, saleRepo, outboxRepo, cacheRepo, db.Pool, logger)
	reportUC := usecase.NewReportUC(saleRepo, cacheRepo, exporter, logger)

	refresher := refresh.NewRefresher(saleRepo, cacheRepo, watcher, logger)
	refresher.Start(appCtx)
	cl.Add(func(ctx context.Context) error {
		refresher.Stop()
		return nil
	})

	auth := v1Http.NewAuthMiddleware(cfg.Auth, logger)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger)
	router.Init(inventoryUC, saleUC, reportUC, auth)

	httpSrv := v1Http.NewServer(r, cfg.Http)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(err, "HTTP server failed: %v", err)
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Stop(shutdownCtx); err != nil {
		logger.Errorf(err, "HTTP server shutdown error")
	} else {
		logger.Infof("HTTP server stopped")
	}

	appCancel()

	if err := cl.Close(shutdownCtx); err != nil {
		logger.Warnf("Resource shutdown error: %v", err)
	}

	logger.Infof("Application shutdown complete")
	if appErr != nil {
		os.Exit(1)
	}
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
