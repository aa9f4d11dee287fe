package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-foresthr/internal/leave"
	"go-foresthr/internal/messaging/kafka"
	"go-foresthr/internal/messaging/kafka/producer"
	"go-foresthr/internal/shared/clock"
	"go-foresthr/internal/shared/connection"
	"go-foresthr/internal/shared/locker"
	"go-foresthr/internal/sweeper"
	"go-foresthr/internal/tracking"

	"go.uber.org/zap"
)

// RunWorker hosts the two background loops: the outbox relay that pushes
// committed events to Kafka, and the deadline sweeper.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	leaveRepo := leave.NewRepository(gormDB)
	trackingRepo := tracking.NewRepository(gormDB)
	sweeperService := sweeper.NewService(sqlDB, leaveRepo, trackingRepo, outboxRepo, locker.New())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	sweepInterval := time.Minute
	if raw := os.Getenv("SWEEP_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			sweepInterval = parsed
		}
	}
	go sweeper.Run(ctx, sweeperService, clock.System(), logger, sweepInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
