package sickleave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-foresthr/internal/events"
	"go-foresthr/internal/identity"
	"go-foresthr/internal/leave"
	"go-foresthr/internal/messaging/kafka"
	"go-foresthr/internal/shared/apperror"
	"go-foresthr/internal/shared/clock"
	"go-foresthr/internal/shared/contextutil"
	"go-foresthr/internal/shared/locker"
	sickleaveerrors "go-foresthr/internal/sickleave/errors"
	"go-foresthr/internal/tracking"
	"go-foresthr/internal/transition"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmployeeGateway mirrors the slice of the employee service this lifecycle
// needs for the status coupling.
type EmployeeGateway interface {
	Exists(ctx context.Context, id string) (bool, error)
	EnterAbsence(ctx context.Context, tx *sql.Tx, actor identity.Actor, employeeID string, target transition.EmployeeState) error
	ExitAbsence(ctx context.Context, tx *sql.Tx, actor identity.Actor, employeeID string, excludeLeaveID, excludeSickLeaveID *string, now time.Time) error
}

//go:generate mockgen -source=sickleave_service.go -destination=mock/sickleave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor identity.Actor, req CreateSickLeaveRequest) (SickLeaveResponse, error)
	GetAll(ctx context.Context) ([]SickLeaveResponse, error)
	GetByID(ctx context.Context, id string) (SickLeaveResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]SickLeaveResponse, error)

	Finish(ctx context.Context, actor identity.Actor, id string) (SickLeaveResponse, error)
	Transcribe(ctx context.Context, actor identity.Actor, id string) (SickLeaveResponse, error)
	File(ctx context.Context, actor identity.Actor, id string) (SickLeaveResponse, error)
	Cancel(ctx context.Context, actor identity.Actor, id string, reason string) (SickLeaveResponse, error)
	Extend(ctx context.Context, actor identity.Actor, id string, days int) (SickLeaveResponse, error)
	AddObservation(ctx context.Context, actor identity.Actor, id string, note string) error
	AddDocument(ctx context.Context, actor identity.Actor, id string, documentRef string) error

	// CreateFromLeave satisfies the leave engine's conversion gateway.
	CreateFromLeave(ctx context.Context, tx *sql.Tx, actor identity.Actor, conv leave.SickLeaveConversion) (string, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	tracker   tracking.Repository
	employees EmployeeGateway
	outbox    kafka.OutboxRepository
	locks     *locker.Registry
	clk       clock.Clock
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	tracker tracking.Repository,
	employees EmployeeGateway,
	outbox kafka.OutboxRepository,
	locks *locker.Registry,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("sickleave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("sickleave.service")
	}
	if clk == nil {
		clk = clock.System()
	}
	if locks == nil {
		locks = locker.New()
	}
	return &service{
		db:        db,
		repo:      repo,
		tracker:   tracker,
		employees: employees,
		outbox:    outbox,
		locks:     locks,
		clk:       clk,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, actor identity.Actor, req CreateSickLeaveRequest) (SickLeaveResponse, error) {
	s.logger.Debug("sick leave registration requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("employee_id", req.EmployeeID),
		zap.String("type", req.Type),
	)

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return SickLeaveResponse{}, sickleaveerrors.ErrInvalidEmployeeID
	}
	actorID, err := uuid.Parse(actor.ID)
	if err != nil {
		return SickLeaveResponse{}, sickleaveerrors.ErrInvalidActorID
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return SickLeaveResponse{}, sickleaveerrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return SickLeaveResponse{}, sickleaveerrors.ErrInvalidDateFormat
	}
	if endDate.Before(startDate) {
		return SickLeaveResponse{}, sickleaveerrors.ErrInvalidDateRange
	}

	exists, err := s.employees.Exists(ctx, req.EmployeeID)
	if err != nil {
		return SickLeaveResponse{}, err
	}
	if !exists {
		return SickLeaveResponse{}, sickleaveerrors.ErrEmployeeNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("sick leave create begin tx failed", zap.Error(err))
		return SickLeaveResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	now := s.clk.Now()
	sl := &SickLeave{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Type:       req.Type,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalDays:  int(endDate.Sub(startDate).Hours()/24) + 1,
		Status:     StatusActive,
		CreatedBy:  actorID,
	}
	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, sl); err != nil {
		s.logger.Error("sick leave persist failed", zap.Error(err))
		return SickLeaveResponse{}, apperror.Storage(err)
	}

	if err := s.appendEntry(ctx, tx, sl, actor, tracking.ActionRegistration, req.Type, "", StatusActive); err != nil {
		return SickLeaveResponse{}, apperror.Storage(err)
	}
	if dateCovers(sl.StartDate, sl.EndDate, now) {
		if err := s.employees.EnterAbsence(ctx, tx, actor, req.EmployeeID, transition.EmployeeOnSickLeave); err != nil {
			return SickLeaveResponse{}, err
		}
	}
	if err := s.enqueueStatusEvent(ctx, tx, sl, "", actor); err != nil {
		return SickLeaveResponse{}, apperror.Storage(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("sick leave create commit failed", zap.Error(err))
		return SickLeaveResponse{}, apperror.Storage(err)
	}

	s.logger.Info("sick leave registered",
		zap.String("sick_leave_id", sl.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("total_days", sl.TotalDays),
	)
	return mapToResponse(*sl), nil
}

func (s *service) GetAll(ctx context.Context) ([]SickLeaveResponse, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(records), nil
}

func (s *service) GetByID(ctx context.Context, id string) (SickLeaveResponse, error) {
	sl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SickLeaveResponse{}, sickleaveerrors.ErrSickLeaveNotFound
		}
		return SickLeaveResponse{}, apperror.Storage(err)
	}
	return mapToResponse(*sl), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]SickLeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, sickleaveerrors.ErrInvalidEmployeeID
	}
	records, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(records), nil
}

// Finish closes the incapacity itself; the record then continues through
// the insurer paperwork states.
func (s *service) Finish(ctx context.Context, actor identity.Actor, id string) (SickLeaveResponse, error) {
	var out SickLeave
	err := s.mutate(ctx, actor, id, func(tx *sql.Tx, qtx Repository, sl *SickLeave) error {
		if sl.Status != StatusActive {
			return sickleaveerrors.ErrInvalidStatusTransition
		}

		previous := sl.Status
		sl.Status = StatusFinished
		if err := qtx.Update(ctx, sl); err != nil {
			return apperror.Storage(err)
		}
		if err := s.appendEntry(ctx, tx, sl, actor, tracking.ActionCompletion, "", previous, sl.Status); err != nil {
			return apperror.Storage(err)
		}

		sickID := sl.ID.String()
		if err := s.employees.ExitAbsence(ctx, tx, actor, sl.EmployeeID.String(), nil, &sickID, s.clk.Now()); err != nil {
			return err
		}
		if err := s.enqueueStatusEvent(ctx, tx, sl, previous, actor); err != nil {
			return err
		}
		out = *sl
		return nil
	})
	if err != nil {
		return SickLeaveResponse{}, err
	}

	s.logger.Info("sick leave finished", zap.String("sick_leave_id", id))
	return mapToResponse(out), nil
}

func (s *service) Transcribe(ctx context.Context, actor identity.Actor, id string) (SickLeaveResponse, error) {
	var out SickLeave
	err := s.mutate(ctx, actor, id, func(tx *sql.Tx, qtx Repository, sl *SickLeave) error {
		if sl.Status != StatusFinished {
			return sickleaveerrors.ErrInvalidStatusTransition
		}

		previous := sl.Status
		sl.Status = StatusTranscribed
		if err := qtx.Update(ctx, sl); err != nil {
			return apperror.Storage(err)
		}
		if err := s.appendEntry(ctx, tx, sl, actor, tracking.ActionTranscription, "", previous, sl.Status); err != nil {
			return apperror.Storage(err)
		}
		if err := s.enqueueStatusEvent(ctx, tx, sl, previous, actor); err != nil {
			return err
		}
		out = *sl
		return nil
	})
	if err != nil {
		return SickLeaveResponse{}, err
	}

	s.logger.Info("sick leave transcribed", zap.String("sick_leave_id", id))
	return mapToResponse(out), nil
}

// File submits the transcribed record for collection from the insurer.
func (s *service) File(ctx context.Context, actor identity.Actor, id string) (SickLeaveResponse, error) {
	var out SickLeave
	err := s.mutate(ctx, actor, id, func(tx *sql.Tx, qtx Repository, sl *SickLeave) error {
		if sl.Status != StatusTranscribed {
			return sickleaveerrors.ErrInvalidStatusTransition
		}

		previous := sl.Status
		sl.Status = StatusCollected
		if err := qtx.Update(ctx, sl); err != nil {
			return apperror.Storage(err)
		}
		if err := s.appendEntry(ctx, tx, sl, actor, tracking.ActionFiled, "", previous, sl.Status); err != nil {
			return apperror.Storage(err)
		}
		if err := s.enqueueStatusEvent(ctx, tx, sl, previous, actor); err != nil {
			return err
		}
		out = *sl
		return nil
	})
	if err != nil {
		return SickLeaveResponse{}, err
	}

	s.logger.Info("sick leave filed for collection", zap.String("sick_leave_id", id))
	return mapToResponse(out), nil
}

func (s *service) Cancel(ctx context.Context, actor identity.Actor, id string, reason string) (SickLeaveResponse, error) {
	if actor.Role != transition.RoleAdministrator {
		s.logger.Warn("sick leave cancel denied for role",
			zap.String("sick_leave_id", id),
			zap.String("actor_role", string(actor.Role)),
		)
		return SickLeaveResponse{}, sickleaveerrors.ErrCancelNotPermitted
	}

	var out SickLeave
	err := s.mutate(ctx, actor, id, func(tx *sql.Tx, qtx Repository, sl *SickLeave) error {
		if IsTerminalStatus(sl.Status) {
			return sickleaveerrors.ErrInvalidStatusTransition
		}

		previous := sl.Status
		sl.Status = StatusCancelled
		if err := qtx.Update(ctx, sl); err != nil {
			return apperror.Storage(err)
		}
		if err := s.appendEntry(ctx, tx, sl, actor, tracking.ActionCancelled, reason, previous, sl.Status); err != nil {
			return apperror.Storage(err)
		}

		sickID := sl.ID.String()
		if err := s.employees.ExitAbsence(ctx, tx, actor, sl.EmployeeID.String(), nil, &sickID, s.clk.Now()); err != nil {
			return err
		}
		if err := s.enqueueStatusEvent(ctx, tx, sl, previous, actor); err != nil {
			return err
		}
		out = *sl
		return nil
	})
	if err != nil {
		return SickLeaveResponse{}, err
	}

	s.logger.Info("sick leave cancelled", zap.String("sick_leave_id", id))
	return mapToResponse(out), nil
}

// Extend pushes the end date out without changing status.
func (s *service) Extend(ctx context.Context, actor identity.Actor, id string, days int) (SickLeaveResponse, error) {
	if days <= 0 {
		return SickLeaveResponse{}, sickleaveerrors.ErrNonPositiveDays
	}

	var out SickLeave
	err := s.mutate(ctx, actor, id, func(tx *sql.Tx, qtx Repository, sl *SickLeave) error {
		if sl.Status != StatusActive {
			return sickleaveerrors.ErrInvalidStatusTransition
		}

		sl.EndDate = sl.EndDate.AddDate(0, 0, days)
		sl.TotalDays += days
		if err := qtx.Update(ctx, sl); err != nil {
			return apperror.Storage(err)
		}
		note := fmt.Sprintf("extended %d days, new end %s", days, sl.EndDate.Format("2006-01-02"))
		if err := s.appendEntry(ctx, tx, sl, actor, tracking.ActionExtension, note, sl.Status, sl.Status); err != nil {
			return apperror.Storage(err)
		}
		out = *sl
		return nil
	})
	if err != nil {
		return SickLeaveResponse{}, err
	}

	s.logger.Info("sick leave extended",
		zap.String("sick_leave_id", id),
		zap.Int("days", days),
	)
	return mapToResponse(out), nil
}

func (s *service) AddObservation(ctx context.Context, actor identity.Actor, id string, note string) error {
	if note == "" {
		return sickleaveerrors.ErrNoteRequired
	}
	return s.mutate(ctx, actor, id, func(tx *sql.Tx, qtx Repository, sl *SickLeave) error {
		if IsTerminalStatus(sl.Status) {
			return sickleaveerrors.ErrInvalidStatusTransition
		}
		return s.appendEntry(ctx, tx, sl, actor, tracking.ActionObservation, note, sl.Status, sl.Status)
	})
}

func (s *service) AddDocument(ctx context.Context, actor identity.Actor, id string, documentRef string) error {
	return s.mutate(ctx, actor, id, func(tx *sql.Tx, qtx Repository, sl *SickLeave) error {
		if IsTerminalStatus(sl.Status) {
			return sickleaveerrors.ErrInvalidStatusTransition
		}
		return s.appendEntry(ctx, tx, sl, actor, tracking.ActionDocumentAdded, documentRef, sl.Status, sl.Status)
	})
}

// CreateFromLeave opens a sick leave inside the leave engine's transaction
// while the source leave is being closed.
func (s *service) CreateFromLeave(ctx context.Context, tx *sql.Tx, actor identity.Actor, conv leave.SickLeaveConversion) (string, error) {
	employeeID, err := uuid.Parse(conv.EmployeeID)
	if err != nil {
		return "", sickleaveerrors.ErrInvalidEmployeeID
	}
	sourceID, err := uuid.Parse(conv.SourceLeaveID)
	if err != nil {
		return "", sickleaveerrors.ErrSickLeaveNotFound
	}
	actorID, err := uuid.Parse(actor.ID)
	if err != nil {
		return "", sickleaveerrors.ErrInvalidActorID
	}
	if conv.SickType == "" {
		return "", sickleaveerrors.ErrTypeRequired
	}

	now := s.clk.Now()
	sl := &SickLeave{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		Type:          conv.SickType,
		StartDate:     conv.StartDate,
		EndDate:       conv.EndDate,
		TotalDays:     int(conv.EndDate.Sub(conv.StartDate).Hours()/24) + 1,
		Status:        StatusActive,
		SourceLeaveID: &sourceID,
		CreatedBy:     actorID,
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, sl); err != nil {
		s.logger.Error("converted sick leave persist failed", zap.Error(err))
		return "", apperror.Storage(err)
	}

	if err := s.appendEntry(ctx, tx, sl, actor, tracking.ActionRegistration, conv.SickType, "", StatusActive); err != nil {
		return "", apperror.Storage(err)
	}
	if err := s.appendEntry(ctx, tx, sl, actor, tracking.ActionConvertedFromLeave, "from leave "+conv.SourceLeaveID, StatusActive, StatusActive); err != nil {
		return "", apperror.Storage(err)
	}

	if dateCovers(sl.StartDate, sl.EndDate, now) {
		if err := s.employees.EnterAbsence(ctx, tx, actor, conv.EmployeeID, transition.EmployeeOnSickLeave); err != nil {
			return "", err
		}
	}
	if err := s.enqueueStatusEvent(ctx, tx, sl, "", actor); err != nil {
		return "", apperror.Storage(err)
	}

	s.logger.Info("sick leave created from leave",
		zap.String("sick_leave_id", sl.ID.String()),
		zap.String("source_leave_id", conv.SourceLeaveID),
	)
	return sl.ID.String(), nil
}

func (s *service) mutate(ctx context.Context, actor identity.Actor, id string, fn func(tx *sql.Tx, qtx Repository, sl *SickLeave) error) error {
	if _, err := uuid.Parse(id); err != nil {
		return sickleaveerrors.ErrSickLeaveNotFound
	}
	if _, err := uuid.Parse(actor.ID); err != nil {
		return sickleaveerrors.ErrInvalidActorID
	}

	release := s.locks.Acquire("sickleave:" + id)
	defer release()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("sick leave mutation begin tx failed", zap.Error(err))
		return apperror.Storage(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	sl, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sickleaveerrors.ErrSickLeaveNotFound
		}
		return apperror.Storage(err)
	}

	if err := fn(tx, qtx, sl); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("sick leave mutation commit failed", zap.Error(err))
		return apperror.Storage(err)
	}
	return nil
}

func (s *service) appendEntry(ctx context.Context, tx *sql.Tx, sl *SickLeave, actor identity.Actor, action, note, previous, next string) error {
	actorID, err := uuid.Parse(actor.ID)
	if err != nil {
		return sickleaveerrors.ErrInvalidActorID
	}
	return s.tracker.WithTx(tx).Append(ctx, &tracking.Entry{
		ID:            uuid.New(),
		ParentType:    tracking.ParentSickLeave,
		ParentID:      sl.ID,
		ActionType:    action,
		ActorID:       actorID,
		ActorRole:     string(actor.Role),
		Timestamp:     s.clk.Now(),
		Note:          note,
		PreviousState: previous,
		NewState:      next,
	})
}

func (s *service) enqueueStatusEvent(ctx context.Context, tx *sql.Tx, sl *SickLeave, previous string, actor identity.Actor) error {
	if s.outbox == nil {
		return nil
	}

	event := events.SickLeaveStatusChangedEvent{
		EventType:      "sick_leave_status_changed",
		RequestID:      contextutil.GetRequestID(ctx),
		SickLeaveID:    sl.ID.String(),
		EmployeeID:     sl.EmployeeID.String(),
		PreviousStatus: previous,
		NewStatus:      sl.Status,
		ActorID:        actor.ID,
		ActorRole:      string(actor.Role),
		OccurredAt:     s.clk.Now(),
	}
	if sl.SourceLeaveID != nil {
		event.SourceLeaveID = sl.SourceLeaveID.String()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "sick_leave",
		AggregateID:   event.SickLeaveID,
		EventType:     event.EventType,
		Topic:         events.SickLeaveStatusTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func dateCovers(startDate, endDate, now time.Time) bool {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !day.Before(startDate) && !day.After(endDate)
}
