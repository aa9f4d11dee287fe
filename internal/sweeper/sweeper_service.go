package sweeper

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-foresthr/internal/events"
	"go-foresthr/internal/identity"
	"go-foresthr/internal/leave"
	"go-foresthr/internal/messaging/kafka"
	"go-foresthr/internal/shared/apperror"
	"go-foresthr/internal/shared/locker"
	"go-foresthr/internal/tracking"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Report summarizes one sweep pass.
type Report struct {
	DocumentExpired     int
	CompensationExpired int
	Skipped             int
	Failed              int
}

//go:generate mockgen -source=sweeper_service.go -destination=mock/sweeper_service_mock.go -package=mock
type Service interface {
	Sweep(ctx context.Context, now time.Time) (Report, error)
}

type service struct {
	db      *sql.DB
	leaves  leave.Repository
	tracker tracking.Repository
	outbox  kafka.OutboxRepository
	locks   *locker.Registry
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	leaves leave.Repository,
	tracker tracking.Repository,
	outbox kafka.OutboxRepository,
	locks *locker.Registry,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("sweeper.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("sweeper.service")
	}
	if locks == nil {
		locks = locker.New()
	}
	return &service{
		db:      db,
		leaves:  leaves,
		tracker: tracker,
		outbox:  outbox,
		locks:   locks,
		logger:  l,
	}
}

// Sweep expires overdue document and compensation obligations. Expired
// records are flagged, never auto-cancelled; a human decides what happens
// next. Repeat sweeps over the same record write nothing new.
func (s *service) Sweep(ctx context.Context, now time.Time) (Report, error) {
	var report Report

	docOverdue, err := s.leaves.FindDocumentOverdue(ctx, now)
	if err != nil {
		return report, apperror.Storage(err)
	}
	for _, l := range docOverdue {
		switch err := s.expireOne(ctx, l.ID.String(), now, tracking.ActionDocumentExpired); {
		case err == nil:
			report.DocumentExpired++
		case errors.Is(err, errAlreadyExpired):
			report.Skipped++
		default:
			report.Failed++
			s.logger.Error("document expiry failed",
				zap.String("leave_id", l.ID.String()),
				zap.Error(err),
			)
		}
	}

	compOverdue, err := s.leaves.FindCompensationOverdue(ctx, now)
	if err != nil {
		return report, apperror.Storage(err)
	}
	for _, l := range compOverdue {
		switch err := s.expireOne(ctx, l.ID.String(), now, tracking.ActionCompensationExpired); {
		case err == nil:
			report.CompensationExpired++
		case errors.Is(err, errAlreadyExpired):
			report.Skipped++
		default:
			report.Failed++
			s.logger.Error("compensation expiry failed",
				zap.String("leave_id", l.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("sweep finished",
		zap.Time("now", now),
		zap.Int("document_expired", report.DocumentExpired),
		zap.Int("compensation_expired", report.CompensationExpired),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

var errAlreadyExpired = errors.New("expiry already recorded")

// expireOne takes the same per-record lock the engines take, plus a row
// lock on the re-read so a delivery committing in another process cannot
// interleave. The Overdue flag makes repeated sweeps idempotent.
func (s *service) expireOne(ctx context.Context, leaveID string, now time.Time, action string) error {
	release := s.locks.Acquire("leave:" + leaveID)
	defer release()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.Storage(err)
	}
	defer tx.Rollback()

	qtx := s.leaves.WithTx(tx)
	l, err := qtx.FindByIDForUpdate(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errAlreadyExpired
		}
		return apperror.Storage(err)
	}

	// The flag is the durable once-marker: later ledger entries (a
	// resolution change, an observation) must not let a second sweep log
	// the same expiry again.
	if l.Overdue {
		return errAlreadyExpired
	}

	// Re-check under the lock: a concurrent delivery or final hours
	// registration may have completed the leave since the query.
	switch action {
	case tracking.ActionDocumentExpired:
		if l.Status != leave.StatusApprovedPendingDocument || l.DocumentDeadline == nil || !l.DocumentDeadline.Before(now) {
			return errAlreadyExpired
		}
	case tracking.ActionCompensationExpired:
		owed := 0
		if l.CompensationHoursOwed != nil {
			owed = *l.CompensationHoursOwed
		}
		if l.Status != leave.StatusApprovedInCompensation || l.CompensationDeadline == nil ||
			!l.CompensationDeadline.Before(now) || l.CompensationHoursCompleted >= owed {
			return errAlreadyExpired
		}
	}

	qtracker := s.tracker.WithTx(tx)
	last, err := qtracker.LastActionFor(ctx, tracking.ParentLeave, leaveID)
	if err != nil {
		return apperror.Storage(err)
	}
	if last == action {
		return errAlreadyExpired
	}

	l.Overdue = true
	if err := qtx.Update(ctx, l); err != nil {
		return apperror.Storage(err)
	}

	actorID, _ := uuid.Parse(identity.SystemActor.ID)
	if err := qtracker.Append(ctx, &tracking.Entry{
		ID:            uuid.New(),
		ParentType:    tracking.ParentLeave,
		ParentID:      l.ID,
		ActionType:    action,
		ActorID:       actorID,
		ActorRole:     string(identity.SystemActor.Role),
		Timestamp:     now,
		Note:          "deadline passed without action",
		PreviousState: l.Status,
		NewState:      l.Status,
	}); err != nil {
		return apperror.Storage(err)
	}

	if action == tracking.ActionCompensationExpired {
		if err := s.enqueueShortfall(ctx, tx, l, now); err != nil {
			return apperror.Storage(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperror.Storage(err)
	}

	s.logger.Warn("deadline expired",
		zap.String("leave_id", leaveID),
		zap.String("action", action),
	)
	return nil
}

func (s *service) enqueueShortfall(ctx context.Context, tx *sql.Tx, l *leave.Leave, now time.Time) error {
	if s.outbox == nil {
		return nil
	}

	owed := 0
	if l.CompensationHoursOwed != nil {
		owed = *l.CompensationHoursOwed
	}
	event := events.CompensationShortfallEvent{
		EventType:      "compensation_shortfall",
		LeaveID:        l.ID.String(),
		EmployeeID:     l.EmployeeID.String(),
		HoursOwed:      owed,
		HoursCompleted: l.CompensationHoursCompleted,
		ShortfallHours: owed - l.CompensationHoursCompleted,
		OccurredAt:     now,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		AggregateType: "leave",
		AggregateID:   event.LeaveID,
		EventType:     event.EventType,
		Topic:         events.CompensationShortfallTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}
