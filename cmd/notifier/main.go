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

	"golang.org/x/sync/errgroup"

	notificationapp "github.com/wyfcoding/pharmadelivery/internal/notification/application"
	notificationdomain "github.com/wyfcoding/pharmadelivery/internal/notification/domain"
	notificationmysql "github.com/wyfcoding/pharmadelivery/internal/notification/infrastructure/persistence/mysql"
	"github.com/wyfcoding/pharmadelivery/internal/notification/infrastructure/sender"
	"github.com/wyfcoding/pharmadelivery/internal/notification/interfaces/consumer"
	orderdomain "github.com/wyfcoding/pharmadelivery/internal/order/domain"
	"github.com/wyfcoding/pharmadelivery/pkg/config"
	"github.com/wyfcoding/pharmadelivery/pkg/db"
	"github.com/wyfcoding/pharmadelivery/pkg/logger"
	"github.com/wyfcoding/pharmadelivery/pkg/metrics"
	"github.com/wyfcoding/pharmadelivery/pkg/mq"
)

var configPath = flag.String("config", "configs/notifier/config.toml", "config file path")

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

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

	m := metrics.New(cfg.ServiceName)
	if err := m.Register(); err != nil {
		logger.Fatal(ctx, "failed to register metrics", "error", err)
	}

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
		if err := database.AutoMigrate(&notificationdomain.Notification{}); err != nil {
			logger.Error(ctx, "failed to migrate database", "error", err)
		}
	}

	notificationRepo := notificationmysql.NewNotificationRepository(database.DB)
	notificationSvc := notificationapp.NewNotificationService(
		notificationRepo,
		sender.NewMockEmailSender(),
		sender.NewMockSMSSender(),
	)
	handler := consumer.NewOrderEventHandler(notificationSvc)

	kafkaCfg := mq.KafkaConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.GroupID,
		SessionTimeout: cfg.Kafka.SessionTimeout,
		MaxRetries:     cfg.Kafka.MaxRetries,
		RetryBackoff:   cfg.Kafka.RetryBackoff,
	}

	subscriptions := []struct {
		topic  string
		handle func(context.Context, *mq.Message) error
	}{
		{orderdomain.OrderPlacedTopic, handler.HandleOrderPlaced},
		{orderdomain.OrderStatusChangedTopic, handler.HandleOrderStatusChanged},
		{orderdomain.OrderCancelledTopic, handler.HandleOrderCancelled},
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)

	for _, sub := range subscriptions {
		kafkaConsumer, err := mq.NewConsumer(kafkaCfg, sub.topic)
		if err != nil {
			logger.Fatal(ctx, "failed to create kafka consumer", "topic", sub.topic, "error", err)
		}
		defer kafkaConsumer.Close()

		handle := sub.handle
		topic := sub.topic
		g.Go(func() error {
			for {
				msg, err := kafkaConsumer.ReadMessage(gctx)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					logger.Error(gctx, "failed to read message", "topic", topic, "error", err)
					continue
				}
				if err := handle(gctx, msg); err != nil {
					logger.Error(gctx, "failed to handle message",
						"topic", topic,
						"offset", msg.Offset,
						"error", err,
					)
				}
			}
		})
	}

	// 指标端点
	if cfg.Metrics.Enabled {
		srv := &http.Server{
			Addr:        fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
			Handler:     metrics.Handler(),
			ReadTimeout: time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		}
		g.Go(func() error {
			logger.Info(gctx, "metrics server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "notifier exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "notifier stopped")
}
