package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/K-AMeus/PartynApp/internal/api"
	"github.com/K-AMeus/PartynApp/internal/api/handler"
	apimiddleware "github.com/K-AMeus/PartynApp/internal/api/middleware"
	"github.com/K-AMeus/PartynApp/internal/application"
	"github.com/K-AMeus/PartynApp/internal/config"
	miniostore "github.com/K-AMeus/PartynApp/internal/infrastructure/minio"
	"github.com/K-AMeus/PartynApp/internal/infrastructure/postgres"
	redisinfra "github.com/K-AMeus/PartynApp/internal/infrastructure/redis"
	"github.com/K-AMeus/PartynApp/internal/pkg/logger"
	"github.com/K-AMeus/PartynApp/internal/pkg/metrics"
	"github.com/K-AMeus/PartynApp/internal/worker"
)

const cacheTTL = 5 * time.Minute

func main() {
	cfg := config.Load()

	log := logger.NewLogger(os.Getenv("APP_ENV"))
	logger.Set(log)
	defer logger.Sync()

	// DB接続とマイグレーション
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続に失敗しました", zap.Error(err))
	}
	defer db.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		logger.Fatal("マイグレーションに失敗しました", zap.Error(err))
	}

	// Redis接続（任意: 接続できない場合はキャッシュとロックなしで起動する）
	var (
		eventCache  *redisinfra.EventCache
		lockManager *redisinfra.LockManager
	)
	redisClient, err := redisinfra.NewClient(&redisinfra.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Warn("Redis接続に失敗したため、キャッシュとロックを無効化します", zap.Error(err))
	} else {
		defer redisClient.Close()
		eventCache = redisinfra.NewEventCache(redisClient, cacheTTL)
		lockManager = redisinfra.NewLockManager(redisClient)
	}

	// 画像ストレージ接続（任意: 接続できない場合は画像なしで起動する）
	var imageStore *miniostore.ImageStore
	storeCtx, storeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := miniostore.NewImageStore(storeCtx, &miniostore.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	storeCancel()
	if err != nil {
		logger.Warn("画像ストレージ接続に失敗したため、画像アップロードを無効化します", zap.Error(err))
	} else {
		imageStore = store
	}

	// メトリクス初期化
	m := metrics.Init()

	// サービスとハンドラーの初期化
	eventRepo := postgres.NewEventRepository(db)
	var eventService *application.EventService
	if imageStore != nil {
		eventService = application.NewEventService(eventRepo, imageStore, eventCache, lockManager, m)
	} else {
		eventService = application.NewEventService(eventRepo, nil, eventCache, lockManager, m)
	}

	eventHandler := handler.NewEventHandler(eventService)
	healthHandler := handler.NewHealthHandler()

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	apimiddleware.SetupMiddleware(e)
	e.Use(apimiddleware.PrometheusMiddleware(m))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), apimiddleware.MetricsBasicAuth())

	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)

	v1.GET("/events", eventHandler.List)
	v1.GET("/events/:id", eventHandler.GetByID)
	v1.POST("/events/:id/like", eventHandler.Like)

	// 変更系エンドポイントはJWT認証必須
	admin := v1.Group("", apimiddleware.JWT(cfg.Auth.JWTSecret))
	admin.POST("/events", eventHandler.Create)
	admin.PUT("/events/:id", eventHandler.Update)
	admin.DELETE("/events/:id", eventHandler.Delete)

	// 孤立画像クリーナー起動
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	cleaner := worker.NewOrphanImageCleaner(eventService, cfg.Cleaner.Interval, cfg.Cleaner.OlderThan)
	go cleaner.Start(workerCtx)

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	workerCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
