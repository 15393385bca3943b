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

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	cartapp "github.com/wyfcoding/pharmadelivery/internal/cart/application"
	cartdomain "github.com/wyfcoding/pharmadelivery/internal/cart/domain"
	cartmessaging "github.com/wyfcoding/pharmadelivery/internal/cart/infrastructure/messaging"
	cartmysql "github.com/wyfcoding/pharmadelivery/internal/cart/infrastructure/persistence/mysql"
	cartredis "github.com/wyfcoding/pharmadelivery/internal/cart/infrastructure/persistence/redis"
	carthttp "github.com/wyfcoding/pharmadelivery/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/pharmadelivery/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/pharmadelivery/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/pharmadelivery/internal/catalog/infrastructure/persistence/mysql"
	catalogredis "github.com/wyfcoding/pharmadelivery/internal/catalog/infrastructure/persistence/redis"
	cataloghttp "github.com/wyfcoding/pharmadelivery/internal/catalog/interfaces/http"
	checkoutapp "github.com/wyfcoding/pharmadelivery/internal/checkout/application"
	checkouthttp "github.com/wyfcoding/pharmadelivery/internal/checkout/interfaces/http"
	notificationapp "github.com/wyfcoding/pharmadelivery/internal/notification/application"
	notificationdomain "github.com/wyfcoding/pharmadelivery/internal/notification/domain"
	notificationmysql "github.com/wyfcoding/pharmadelivery/internal/notification/infrastructure/persistence/mysql"
	"github.com/wyfcoding/pharmadelivery/internal/notification/infrastructure/sender"
	notificationhttp "github.com/wyfcoding/pharmadelivery/internal/notification/interfaces/http"
	orderapp "github.com/wyfcoding/pharmadelivery/internal/order/application"
	orderdomain "github.com/wyfcoding/pharmadelivery/internal/order/domain"
	ordermessaging "github.com/wyfcoding/pharmadelivery/internal/order/infrastructure/messaging"
	ordermysql "github.com/wyfcoding/pharmadelivery/internal/order/infrastructure/persistence/mysql"
	orderredis "github.com/wyfcoding/pharmadelivery/internal/order/infrastructure/persistence/redis"
	orderhttp "github.com/wyfcoding/pharmadelivery/internal/order/interfaces/http"
	prescriptionapp "github.com/wyfcoding/pharmadelivery/internal/prescription/application"
	prescriptiondomain "github.com/wyfcoding/pharmadelivery/internal/prescription/domain"
	prescriptionmessaging "github.com/wyfcoding/pharmadelivery/internal/prescription/infrastructure/messaging"
	prescriptionmysql "github.com/wyfcoding/pharmadelivery/internal/prescription/infrastructure/persistence/mysql"
	prescriptionhttp "github.com/wyfcoding/pharmadelivery/internal/prescription/interfaces/http"
	userapp "github.com/wyfcoding/pharmadelivery/internal/user/application"
	userdomain "github.com/wyfcoding/pharmadelivery/internal/user/domain"
	usermysql "github.com/wyfcoding/pharmadelivery/internal/user/infrastructure/persistence/mysql"
	userredis "github.com/wyfcoding/pharmadelivery/internal/user/infrastructure/persistence/redis"
	userhttp "github.com/wyfcoding/pharmadelivery/internal/user/interfaces/http"
	"github.com/wyfcoding/pharmadelivery/pkg/cache"
	"github.com/wyfcoding/pharmadelivery/pkg/config"
	"github.com/wyfcoding/pharmadelivery/pkg/db"
	"github.com/wyfcoding/pharmadelivery/pkg/logger"
	"github.com/wyfcoding/pharmadelivery/pkg/metrics"
	"github.com/wyfcoding/pharmadelivery/pkg/middleware"
	"github.com/wyfcoding/pharmadelivery/pkg/mq"
	"github.com/wyfcoding/pharmadelivery/pkg/utils"
)

var configPath = flag.String("config", "configs/storefront/config.toml", "config file path")

func main() {
	flag.Parse()
	ctx := context.Background()

	// 1. 配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 3. 指标
	m := metrics.New(cfg.ServiceName)
	if err := m.Register(); err != nil {
		logger.Fatal(ctx, "failed to register metrics", "error", err)
	}

	// 4. 数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to connect database", "error", err)
	}
	defer database.Close()

	if cfg.Environment == "dev" {
		if err := database.AutoMigrate(
			&cartdomain.Cart{}, &cartdomain.LineItem{},
			&orderdomain.Order{}, &orderdomain.OrderItem{},
			&ordermessaging.OutboxMessage{},
			&catalogdomain.Medicine{},
			&userdomain.User{}, &userdomain.Address{},
			&prescriptiondomain.Prescription{},
			&notificationdomain.Notification{},
		); err != nil {
			logger.Error(ctx, "failed to migrate database", "error", err)
		}
	}

	// 5. Redis
	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to connect redis", "error", err)
	}
	defer redisCache.Close()

	// 6. Kafka & Outbox
	producer, err := mq.NewProducer(mq.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to create kafka producer", "error", err)
	}
	defer producer.Close()

	outbox := ordermessaging.NewOutbox(database.DB)

	// 7. 仓储与应用服务
	cartRepo := cartmysql.NewCartRepository(database.DB)
	cartSnapshots := cartredis.NewCartSnapshotStore(redisCache)
	cartPublisher := cartmessaging.NewKafkaPublisher(producer)
	cartSvc := cartapp.NewCartApplicationService(cartRepo, cartSnapshots, cartPublisher)

	orderRepo := ordermysql.NewOrderRepository(database.DB)
	orderCache := orderredis.NewOrderCache(redisCache.GetClient())
	orderSvc := orderapp.NewOrderApplicationService(database, orderRepo, outbox, orderCache, utils.NewSnowflakeID(1))

	checkoutSvc := checkoutapp.NewCheckoutService(cartSvc, orderSvc, m)

	catalogRepo := catalogmysql.NewMedicineRepository(database.DB)
	catalogCache := catalogredis.NewMedicineCache(redisCache)
	catalogSvc := catalogapp.NewCatalogService(catalogRepo, catalogCache)

	userRepo := usermysql.NewUserRepository(database.DB)
	sessionRepo := userredis.NewSessionRepository(redisCache.GetClient())
	userSvc := userapp.NewUserService(userRepo, sessionRepo)

	prescriptionRepo := prescriptionmysql.NewPrescriptionRepository(database.DB)
	prescriptionPublisher := prescriptionmessaging.NewKafkaPublisher(producer)
	prescriptionSvc := prescriptionapp.NewPrescriptionService(prescriptionRepo, prescriptionPublisher, cfg.Uploads.Dir)

	notificationRepo := notificationmysql.NewNotificationRepository(database.DB)
	notificationSvc := notificationapp.NewNotificationService(notificationRepo, sender.NewMockEmailSender(), sender.NewMockSMSSender())

	// 8. HTTP 接口
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.GinLoggingMiddleware(),
		middleware.GinRecoveryMiddleware(),
		middleware.GinMetricsMiddleware(m),
		middleware.GinCORSMiddleware(),
		middleware.GinRateLimitMiddleware(middleware.NewRateLimiter(200, 100)),
	)
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	userHandler := userhttp.NewHandler(userSvc)
	catalogHandler := cataloghttp.NewHandler(catalogSvc)

	api := r.Group("/api")
	userHandler.RegisterRoutes(api)
	catalogHandler.RegisterRoutes(api)

	protected := r.Group("/api")
	protected.Use(userHandler.AuthMiddleware())
	userHandler.RegisterProtectedRoutes(protected)
	carthttp.NewHandler(cartSvc).RegisterRoutes(protected)
	checkouthttp.NewHandler(checkoutSvc).RegisterRoutes(protected)
	orderhttp.NewHandler(orderSvc).RegisterRoutes(protected)
	prescriptionHandler := prescriptionhttp.NewHandler(prescriptionSvc, cfg.Uploads.MaxSizeMB)
	prescriptionHandler.RegisterRoutes(protected)
	prescriptionHandler.RegisterAdminRoutes(protected)
	catalogHandler.RegisterAdminRoutes(protected)
	notificationhttp.NewHandler(notificationSvc).RegisterRoutes(protected)

	// 9. 启动
	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	g.Go(func() error {
		logger.Info(gctx, "HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := outbox.RunRelay(gctx, producer, 2*time.Second, 100)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "server exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "server stopped")
}
