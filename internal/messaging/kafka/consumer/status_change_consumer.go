package consumer

import (
	"context"
	"encoding/json"

	"go-foresthr/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeStatusChanges is the notification sink: it reads state-change
// events and logs them. Downstream systems (payroll, reporting) attach
// their own consumers to the same topics.
func ConsumeStatusChanges(
	ctx context.Context,
	reader *kafkago.Reader,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.status_change")
	log.Info("status change consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("status change consumer stopped")
				return
			}
			log.Error("fetch status change message failed", zap.Error(err))
			continue
		}

		var event events.LeaveStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode status change event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		log.Info("status change received",
			zap.String("event_type", event.EventType),
			zap.String("leave_id", event.LeaveID),
			zap.String("employee_id", event.EmployeeID),
			zap.String("previous_status", event.PreviousStatus),
			zap.String("new_status", event.NewStatus),
		)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit status change message failed", zap.Error(err))
		}
	}
}

// ConsumeCompensationShortfalls records shortfall notifications for the
// payroll deduction pipeline.
func ConsumeCompensationShortfalls(
	ctx context.Context,
	reader *kafkago.Reader,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.compensation_shortfall")
	log.Info("compensation shortfall consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("compensation shortfall consumer stopped")
				return
			}
			log.Error("fetch compensation shortfall message failed", zap.Error(err))
			continue
		}

		var event events.CompensationShortfallEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode compensation shortfall event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		log.Info("compensation shortfall flagged for payroll",
			zap.String("leave_id", event.LeaveID),
			zap.String("employee_id", event.EmployeeID),
			zap.Int("hours_owed", event.HoursOwed),
			zap.Int("hours_completed", event.HoursCompleted),
			zap.Int("shortfall_hours", event.ShortfallHours),
		)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit compensation shortfall message failed", zap.Error(err))
		}
	}
}
