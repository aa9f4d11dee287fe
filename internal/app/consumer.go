package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-foresthr/internal/events"
	"go-foresthr/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer hosts the notification sink: it tails the status-change and
// payroll-deduction topics and logs every event.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	statusReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.LeaveStatusTopic,
		GroupID:        "go-foresthr-notifications",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer statusReader.Close()

	shortfallReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.CompensationShortfallTopic,
		GroupID:        "go-foresthr-payroll-deductions",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer shortfallReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeStatusChanges(ctx, statusReader, logger)
	go consumer.ConsumeCompensationShortfalls(ctx, shortfallReader, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
