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

	"github.com/sanosuguru/go-flight-seat-reservation/internal/api"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/api/handler"
	custommw "github.com/sanosuguru/go-flight-seat-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/application"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/config"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-flight-seat-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/worker"
)

func main() {
	cfg := config.Load()

	logger.Set(logger.NewLogger(os.Getenv("APP_ENV")))
	defer logger.Sync()

	m := metrics.Init()

	// PostgreSQL
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

	// Redis（接続できない場合はロック・キャッシュなしで起動する）
	var (
		lockManager redisinfra.LockManagerInterface
		cache       redisinfra.AvailabilityCacheInterface
	)
	redisClient := redisinfra.NewClient(&cfg.Redis)
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisinfra.Ping(pingCtx, redisClient); err != nil {
		logger.Warn("Redis接続に失敗したため分散ロックとキャッシュを無効化します", zap.Error(err))
	} else {
		lockManager = redisinfra.NewLockManager(redisClient)
		cache = redisinfra.NewAvailabilityCache(redisClient)
		defer redisClient.Close()
	}
	pingCancel()

	// リポジトリ
	flightRepo := postgres.NewFlightRepository(db)
	seatRepo := postgres.NewSeatRepository(db)
	holdRepo := postgres.NewHoldRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	txManager := postgres.NewTxManager(db)

	// アプリケーションサービス
	flightService := application.NewFlightService(txManager, flightRepo, seatRepo)
	seatService := application.NewSeatService(seatRepo, cache)
	orderService := application.NewOrderService(orderRepo, seatRepo, flightRepo)
	holdService := application.NewHoldService(
		txManager, holdRepo, seatRepo, flightRepo,
		orderService, lockManager, cache,
		cfg.Reservation.HoldTTL,
	)

	// 期限切れホールド回収ワーカー
	cleaner := worker.NewExpiredHoldCleaner(holdService, cfg.Reservation.CleanerInterval)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	go cleaner.Start(workerCtx)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	custommw.SetupMiddleware(e)
	e.Use(custommw.PrometheusMiddleware(m))

	// ハンドラー
	flightHandler := handler.NewFlightHandler(flightService)
	seatHandler := handler.NewSeatHandler(seatService)
	holdHandler := handler.NewHoldHandler(holdService)
	orderHandler := handler.NewOrderHandler(orderService)
	healthHandler := handler.NewHealthHandler()

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommw.MetricsBasicAuth())

	v1 := e.Group("/api/v1")
	v1.POST("/flights", flightHandler.Create)
	v1.GET("/flights", flightHandler.List)
	v1.GET("/flights/:flight_id", flightHandler.GetByID)
	v1.GET("/flights/:flight_id/seats", seatHandler.GetByFlight)
	v1.GET("/flights/:flight_id/seats/available/count", seatHandler.GetAvailableCount)
	v1.GET("/seats/:id", seatHandler.GetByID)
	v1.POST("/holds", holdHandler.Create)
	v1.GET("/holds", holdHandler.GetUserHolds)
	v1.GET("/holds/:id", holdHandler.GetByID)
	v1.POST("/holds/:id/confirm", holdHandler.Confirm)
	v1.POST("/holds/:id/cancel", holdHandler.Cancel)
	v1.GET("/orders", orderHandler.GetUserOrders)
	v1.GET("/orders/:id", orderHandler.GetByID)
	v1.POST("/orders/:id/pay", orderHandler.Pay)
	v1.POST("/orders/:id/cancel", orderHandler.Cancel)

	// サーバー起動
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("サーバーを起動します", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	// ワーカー停止後にHTTPを閉じる
	workerCancel()
	cleaner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
