package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-foresthr/internal/events"
	"go-foresthr/internal/identity"
	leaveerrors "go-foresthr/internal/leave/errors"
	"go-foresthr/internal/leavetype"
	leavetypeerrors "go-foresthr/internal/leavetype/errors"
	"go-foresthr/internal/messaging/kafka"
	"go-foresthr/internal/shared/apperror"
	"go-foresthr/internal/shared/clock"
	"go-foresthr/internal/shared/contextutil"
	"go-foresthr/internal/shared/locker"
	"go-foresthr/internal/tracking"
	"go-foresthr/internal/transition"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmployeeGateway is the slice of the employee service the leave engine
// needs. EnterAbsence and ExitAbsence run inside the engine's transaction
// so a leave transition and its employee-status change commit together.
type EmployeeGateway interface {
	Exists(ctx context.Context, id string) (bool, error)
	EnterAbsence(ctx context.Context, tx *sql.Tx, actor identity.Actor, employeeID string, target transition.EmployeeState) error
	ExitAbsence(ctx context.Context, tx *sql.Tx, actor identity.Actor, employeeID string, excludeLeaveID, excludeSickLeaveID *string, now time.Time) error
}

// SickLeaveConversion carries everything the sick-leave lifecycle needs to
// open a record from a cancelled leave.
type SickLeaveConversion struct {
	SourceLeaveID string
	EmployeeID    string
	SickType      string
	StartDate     time.Time
	EndDate       time.Time
}

// SickLeaveGateway creates a sick leave inside the caller's transaction and
// returns the new record's id.
type SickLeaveGateway interface {
	CreateFromLeave(ctx context.Context, tx *sql.Tx, actor identity.Actor, conv SickLeaveConversion) (string, error)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actor identity.Actor, req SubmitLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error)

	Approve(ctx context.Context, actor identity.Actor, id string, overrideResolution *string) (LeaveResponse, error)
	Reject(ctx context.Context, actor identity.Actor, id string, reason string) (LeaveResponse, error)
	Cancel(ctx context.Context, actor identity.Actor, id string, reason string) (LeaveResponse, error)
	DeliverDocument(ctx context.Context, actor identity.Actor, id string, documentRef string) (LeaveResponse, error)
	RegisterCompensationHours(ctx context.Context, actor identity.Actor, id string, hours int) (LeaveResponse, error)
	ChangeResolution(ctx context.Context, actor identity.Actor, id string, newResolution string) (LeaveResponse, error)
	ConvertToSickLeave(ctx context.Context, actor identity.Actor, id string, sickType string) (ConversionResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	types     leavetype.Repository
	tracker   tracking.Repository
	employees EmployeeGateway
	sick      SickLeaveGateway
	outbox    kafka.OutboxRepository
	locks     *locker.Registry
	clk       clock.Clock
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	types leavetype.Repository,
	tracker tracking.Repository,
	employees EmployeeGateway,
	sick SickLeaveGateway,
	outbox kafka.OutboxRepository,
	locks *locker.Registry,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
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
		types:     types,
		tracker:   tracker,
		employees: employees,
		sick:      sick,
		outbox:    outbox,
		locks:     locks,
		clk:       clk,
		logger:    l,
	}
}

func (s *service) Submit(ctx context.Context, actor identity.Actor, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("leave submit requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.String("actor_id", actor.ID),
	)

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	leaveTypeID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveTypeID
	}
	actorID, err := uuid.Parse(actor.ID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	if endDate.Before(startDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	exists, err := s.employees.Exists(ctx, req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !exists {
		return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
	}

	lt, err := s.types.FindByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveResponse{}, apperror.Storage(err)
	}

	// One submit per employee at a time, so two overlapping requests cannot
	// both pass the overlap check.
	release := s.locks.Acquire("employee-leaves:" + req.EmployeeID)
	defer release()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave submit begin tx failed", zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlaps, err := qtx.HasOverlappingPeriod(ctx, req.EmployeeID, startDate, endDate, nil)
	if err != nil {
		return LeaveResponse{}, apperror.Storage(err)
	}
	if overlaps {
		s.logger.Warn("leave submit overlaps existing period",
			zap.String("employee_id", req.EmployeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	l := &Leave{
		ID:             uuid.New(),
		EmployeeID:     employeeID,
		LeaveTypeID:    leaveTypeID,
		StartDate:      startDate,
		EndDate:        endDate,
		TotalDays:      inclusiveDays(startDate, endDate),
		Reason:         req.Reason,
		Status:         StatusPending,
		ResolutionType: leavetype.ResolutionPendingDefinition,
		CreatedBy:      actorID,
	}
	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("leave submit persist failed", zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}

	if err := s.appendEntry(ctx, tx, l, actor, tracking.ActionSubmitted, req.Reason, "", StatusPending); err != nil {
		return LeaveResponse{}, apperror.Storage(err)
	}
	if err := s.enqueueStatusEvent(ctx, tx, l, "", actor); err != nil {
		return LeaveResponse{}, apperror.Storage(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave submit commit failed", zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}

	s.logger.Info("leave submitted",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", lt.Code),
		zap.Int("total_days", l.TotalDays),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, apperror.Storage(err)
	}
	return mapToResponse(*l), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	leaves, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(leaves), nil
}

func (s *service) Approve(ctx context.Context, actor identity.Actor, id string, overrideResolution *string) (LeaveResponse, error) {
	s.logger.Debug("leave approve requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actor.ID),
		zap.String("actor_role", string(actor.Role)),
	)

	if !actor.Role.CanApprove() {
		s.logger.Warn("leave approve denied for role",
			zap.String("leave_id", id),
			zap.String("actor_role", string(actor.Role)),
		)
		return LeaveResponse{}, leaveerrors.ErrApprovalNotPermitted
	}
	if overrideResolution != nil && !leavetype.ValidResolution(*overrideResolution) {
		return LeaveResponse{}, leaveerrors.ErrInvalidResolutionType
	}

	var out Leave
	err := s.mutate(ctx, actor, id, func(tx *sql.Tx, qtx Repository, l *Leave) error {
		if l.Status != StatusPending {
			return leaveerrors.ErrInvalidStatusTransition
		}

		lt, err := s.types.FindByID(ctx, l.LeaveTypeID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leavetypeerrors.ErrLeaveTypeNotFound
			}
			return apperror.Storage(err)
		}

		now := s.clk.Now()
		resolution := lt.DefaultResolutionType
		if overrideResolution != nil {
			resolution = *overrideResolution
		}

		previous := l.Status
		actorID, err := uuid.Parse(actor.ID)
		if err != nil {
			return leaveerrors.ErrInvalidActorID
		}
		l.ApprovedBy = &actorID
		l.ApprovedAt = &now
		s.deriveOutcome(l, lt, resolution, now)

		if err := qtx.Update(ctx, l); err != nil {
			return apperror.Storage(err)
		}
		if err := s.appendEntry(ctx, tx, l, actor, tracking.ActionApproved, "", previous, l.Status); err != nil {
			return apperror.Storage(err)
		}
		if err := s.applyCoupling(ctx, tx, actor, l, lt, now); err != nil {
			return err
		}
		if err := s.enqueueStatusEvent(ctx, tx, l, previous, actor); err != nil {
			return err
		}
		out = *l
		return nil
	})
	if err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave approved",
		zap.String("leave_id", id),
		zap.String("status", out.Status),
		zap.String("resolution_type", out.ResolutionType),
	)
	return mapToResponse(out), nil
}

func (s *service) Reject(ctx context.Context, actor identity.Actor, id string, reason string) (LeaveResponse, error) {
	if !actor.Role.CanApprove() {
		return LeaveResponse{}, leaveerrors.ErrApprovalNotPermitted
	}
	if reason == "" {
		return LeaveResponse{}, leaveerrors.ErrReasonRequired
	}

	var out Leave
	err := s.mutate(ctx, actor, id, func(tx *sql.Tx, qtx Repository, l *Leave) error {
		if l.Status != StatusPending {
			return leaveerrors.ErrInvalidStatusTransition
		}

		previous := l.Status
		l.Status = StatusRejected
		l.RejectionReason = &reason
		if err := qtx.Update(ctx, l); err != nil {
			return apperror.Storage(err)
		}
		if err := s.appendEntry(ctx, tx, l, actor, tracking.ActionRejected, reason, previous, l.Status); err != nil {
			return apperror.Storage(err)
		}
		if err := s.enqueueStatusEvent(ctx, tx, l, previous, actor); err != nil {
			return err
		}
		out = *l
		return nil
	})
	if err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave rejected", zap.String("leave_id", id))
	return mapToResponse(out), nil
}

// Cancel closes any still-open leave. A pending request is withdrawn; an
// approved one is revoked, returning the employee to Active when no other
// open record covers today.
func (s *service) Cancel(ctx context.Context, actor identity.Actor, id string, reason string) (LeaveResponse, error) {
	var out Leave
	err := s.mutate(ctx, actor, id, func(tx *sql.Tx, qtx Repository, l *Leave) error {
		if IsTerminalStatus(l.Status) {
			return leaveerrors.ErrInvalidStatusTransition
		}

		previous := l.Status
		l.Status = StatusCancelled
		if err := qtx.Update(ctx, l); err != nil {
			return apperror.Storage(err)
		}
		if err := s.appendEntry(ctx, tx, l, actor, tracking.ActionCancelled, reason, previous, l.Status); err != nil {
			return apperror.Storage(err)
		}

		leaveID := l.ID.String()
		if err := s.employees.ExitAbsence(ctx, tx, actor, l.EmployeeID.String(), &leaveID, nil, s.clk.Now()); err != nil {
			return err
		}
		if err := s.enqueueStatusEvent(ctx, tx, l, previous, actor); err != nil {
			return err
		}
		out = *l
		return nil
	})
	if err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave cancelled", zap.String("leave_id", id))
	return mapToResponse(out), nil
}

func (s *service) DeliverDocument(ctx context.Context, actor identity.Actor, id string, documentRef string) (LeaveResponse, error) {
	var out Leave
	err := s.mutate(ctx, actor, id, func(tx *sql.Tx, qtx Repository, l *Leave) error {
		if l.Status != StatusApprovedPendingDocument {
			return leaveerrors.ErrInvalidStatusTransition
		}

		now := s.clk.Now()
		if l.DocumentDeadline != nil && now.After(*l.DocumentDeadline) {
			s.logger.Warn("document delivered after deadline",
				zap.String("leave_id", id),
				zap.Time("deadline", *l.DocumentDeadline),
			)
			return leaveerrors.ErrDocumentDeadlinePassed
		}

		previous := l.Status
		l.Status = StatusCompleted
		l.DocumentDeliveredAt = &now
		l.DocumentRef = &documentRef
		if err := qtx.Update(ctx, l); err != nil {
			return apperror.Storage(err)
		}
		if err := s.appendEntry(ctx, tx, l, actor, tracking.ActionDocumentDelivered, documentRef, previous, l.Status); err != nil {
			return apperror.Storage(err)
		}

		leaveID := l.ID.String()
		if err := s.employees.ExitAbsence(ctx, tx, actor, l.EmployeeID.String(), &leaveID, nil, now); err != nil {
			return err
		}
		if err := s.enqueueStatusEvent(ctx, tx, l, previous, actor); err != nil {
			return err
		}
		out = *l
		return nil
	})
	if err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave document delivered", zap.String("leave_id", id))
	return mapToResponse(out), nil
}

func (s *service) RegisterCompensationHours(ctx context.Context, actor identity.Actor, id string, hours int) (LeaveResponse, error) {
	if hours <= 0 {
		return LeaveResponse{}, leaveerrors.ErrNonPositiveHours
	}

	var out Leave
	err := s.mutate(ctx, actor, id, func(tx *sql.Tx, qtx Repository, l *Leave) error {
		if l.Status != StatusApprovedInCompensation {
			return leaveerrors.ErrInvalidStatusTransition
		}

		previous := l.Status
		l.CompensationHoursCompleted += hours

		owed := 0
		if l.CompensationHoursOwed != nil {
			owed = *l.CompensationHoursOwed
		}
		completed := l.CompensationHoursCompleted >= owed
		if completed {
			l.Status = StatusCompleted
		}

		if err := qtx.Update(ctx, l); err != nil {
			return apperror.Storage(err)
		}
		note := fmt.Sprintf("%d hours registered (%d/%d)", hours, l.CompensationHoursCompleted, owed)
		if err := s.appendEntry(ctx, tx, l, actor, tracking.ActionCompensationRegistered, note, previous, l.Status); err != nil {
			return apperror.Storage(err)
		}

		if completed {
			leaveID := l.ID.String()
			if err := s.employees.ExitAbsence(ctx, tx, actor, l.EmployeeID.String(), &leaveID, nil, s.clk.Now()); err != nil {
				return err
			}
			if err := s.enqueueStatusEvent(ctx, tx, l, previous, actor); err != nil {
				return err
			}
		}
		out = *l
		return nil
	})
	if err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("compensation hours registered",
		zap.String("leave_id", id),
		zap.Int("hours", hours),
		zap.String("status", out.Status),
	)
	return mapToResponse(out), nil
}

// ChangeResolution re-settles an approved leave under a different pay
// outcome, re-deriving the compensation obligation the same way Approve
// does. A leave still owing its document keeps waiting for it.
func (s *service) ChangeResolution(ctx context.Context, actor identity.Actor, id string, newResolution string) (LeaveResponse, error) {
	if !actor.Role.CanApprove() {
		return LeaveResponse{}, leaveerrors.ErrApprovalNotPermitted
	}
	if !leavetype.ValidResolution(newResolution) {
		return LeaveResponse{}, leaveerrors.ErrInvalidResolutionType
	}

	var out Leave
	err := s.mutate(ctx, actor, id, func(tx *sql.Tx, qtx Repository, l *Leave) error {
		switch l.Status {
		case StatusApproved, StatusApprovedPendingDocument, StatusApprovedInCompensation:
		default:
			return leaveerrors.ErrInvalidStatusTransition
		}

		lt, err := s.types.FindByID(ctx, l.LeaveTypeID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leavetypeerrors.ErrLeaveTypeNotFound
			}
			return apperror.Storage(err)
		}

		now := s.clk.Now()
		previous := l.Status
		previousResolution := l.ResolutionType

		if l.Status == StatusApprovedPendingDocument {
			// The document is still owed regardless of pay outcome.
			l.ResolutionType = newResolution
			s.applyDiscount(l, lt)
		} else {
			s.deriveOutcome(l, lt, newResolution, now)
		}

		if err := qtx.Update(ctx, l); err != nil {
			return apperror.Storage(err)
		}
		note := fmt.Sprintf("resolution %s -> %s", previousResolution, newResolution)
		if err := s.appendEntry(ctx, tx, l, actor, tracking.ActionResolutionChange, note, previous, l.Status); err != nil {
			return apperror.Storage(err)
		}

		if l.Status == StatusCompleted {
			leaveID := l.ID.String()
			if err := s.employees.ExitAbsence(ctx, tx, actor, l.EmployeeID.String(), &leaveID, nil, now); err != nil {
				return err
			}
		}
		if l.Status != previous {
			if err := s.enqueueStatusEvent(ctx, tx, l, previous, actor); err != nil {
				return err
			}
		}
		out = *l
		return nil
	})
	if err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave resolution changed",
		zap.String("leave_id", id),
		zap.String("resolution_type", out.ResolutionType),
		zap.String("status", out.Status),
	)
	return mapToResponse(out), nil
}

// ConvertToSickLeave closes the leave and opens a sick-leave record over
// the same period, all in one transaction. Valid from any non-terminal
// status.
func (s *service) ConvertToSickLeave(ctx context.Context, actor identity.Actor, id string, sickType string) (ConversionResponse, error) {
	var resp ConversionResponse
	err := s.mutate(ctx, actor, id, func(tx *sql.Tx, qtx Repository, l *Leave) error {
		if IsTerminalStatus(l.Status) {
			return leaveerrors.ErrInvalidStatusTransition
		}

		now := s.clk.Now()
		previous := l.Status
		l.Status = StatusCancelled
		if err := qtx.Update(ctx, l); err != nil {
			return apperror.Storage(err)
		}
		if err := s.appendEntry(ctx, tx, l, actor, tracking.ActionCancelled, "converted to sick leave", previous, l.Status); err != nil {
			return apperror.Storage(err)
		}

		// Release the leave's hold on the employee status before the
		// sick-leave record takes it over.
		leaveID := l.ID.String()
		if err := s.employees.ExitAbsence(ctx, tx, actor, l.EmployeeID.String(), &leaveID, nil, now); err != nil {
			return err
		}

		sickLeaveID, err := s.sick.CreateFromLeave(ctx, tx, actor, SickLeaveConversion{
			SourceLeaveID: leaveID,
			EmployeeID:    l.EmployeeID.String(),
			SickType:      sickType,
			StartDate:     l.StartDate,
			EndDate:       l.EndDate,
		})
		if err != nil {
			return err
		}

		if err := s.enqueueStatusEvent(ctx, tx, l, previous, actor); err != nil {
			return err
		}
		resp = ConversionResponse{
			LeaveID:     leaveID,
			LeaveStatus: l.Status,
			SickLeaveID: sickLeaveID,
		}
		return nil
	})
	if err != nil {
		return ConversionResponse{}, err
	}

	s.logger.Info("leave converted to sick leave",
		zap.String("leave_id", resp.LeaveID),
		zap.String("sick_leave_id", resp.SickLeaveID),
	)
	return resp, nil
}

// mutate wraps the per-record discipline every state change shares: acquire
// the record's lock, open a transaction, re-read holding a row lock and run
// fn. A concurrent loser, in this process or another, re-reads the winner's
// state and fails its own status check instead of overwriting.
func (s *service) mutate(ctx context.Context, actor identity.Actor, id string, fn func(tx *sql.Tx, qtx Repository, l *Leave) error) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrLeaveNotFound
	}
	if _, err := uuid.Parse(actor.ID); err != nil {
		return leaveerrors.ErrInvalidActorID
	}

	release := s.locks.Acquire("leave:" + id)
	defer release()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave mutation begin tx failed", zap.Error(err))
		return apperror.Storage(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return apperror.Storage(err)
	}

	if err := fn(tx, qtx, l); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave mutation commit failed", zap.Error(err))
		return apperror.Storage(err)
	}
	return nil
}

// deriveOutcome applies the approval outcome for a resolution: a type
// requiring a document waits for it, a compensated leave owes makeup hours,
// anything else settles immediately.
func (s *service) deriveOutcome(l *Leave, lt *leavetype.LeaveType, resolution string, now time.Time) {
	l.ResolutionType = resolution
	s.applyDiscount(l, lt)

	switch {
	case lt.RequiresDocument:
		deadline := now.AddDate(0, 0, lt.DocumentDeadlineDays)
		l.Status = StatusApprovedPendingDocument
		l.DocumentDeadline = &deadline
		l.CompensationHoursOwed = nil
		l.CompensationDeadline = nil
	case resolution == leavetype.ResolutionCompensated:
		owed := l.TotalDays * lt.HoursToCompensatePerDay
		deadline := now.AddDate(0, 0, lt.CompensationDeadlineDays)
		l.Status = StatusApprovedInCompensation
		l.CompensationHoursOwed = &owed
		l.CompensationDeadline = &deadline
	default:
		l.Status = StatusCompleted
		l.CompensationHoursOwed = nil
		l.CompensationDeadline = nil
	}
}

// applyDiscount records the pay-deduction basis for a deducted leave and
// clears it when the resolution moves away from DEDUCTED.
func (s *service) applyDiscount(l *Leave, lt *leavetype.LeaveType) {
	if lt.GeneratesDiscount && l.ResolutionType == leavetype.ResolutionDeducted {
		pct := lt.DiscountPercentage
		amount := float64(l.TotalDays) * pct / 100
		period := l.StartDate.Format("2006-01")
		l.DiscountPercentage = &pct
		l.DiscountAmount = &amount
		l.DiscountPeriod = &period
		return
	}
	l.DiscountPercentage = nil
	l.DiscountAmount = nil
	l.DiscountPeriod = nil
}

// applyCoupling keeps the employee status in step with an approval. The
// employee only moves while the leave actually covers today; an
// immediately-settled leave enters and exits in the same transaction so
// both transitions hit the ledger of events.
func (s *service) applyCoupling(ctx context.Context, tx *sql.Tx, actor identity.Actor, l *Leave, lt *leavetype.LeaveType, now time.Time) error {
	if !dateCovers(l.StartDate, l.EndDate, now) {
		return nil
	}

	if err := s.employees.EnterAbsence(ctx, tx, actor, l.EmployeeID.String(), lt.AbsenceStatus); err != nil {
		return err
	}
	if l.Status == StatusCompleted {
		leaveID := l.ID.String()
		return s.employees.ExitAbsence(ctx, tx, actor, l.EmployeeID.String(), &leaveID, nil, now)
	}
	return nil
}

func (s *service) appendEntry(ctx context.Context, tx *sql.Tx, l *Leave, actor identity.Actor, action, note, previous, next string) error {
	actorID, err := uuid.Parse(actor.ID)
	if err != nil {
		return leaveerrors.ErrInvalidActorID
	}
	return s.tracker.WithTx(tx).Append(ctx, &tracking.Entry{
		ID:            uuid.New(),
		ParentType:    tracking.ParentLeave,
		ParentID:      l.ID,
		ActionType:    action,
		ActorID:       actorID,
		ActorRole:     string(actor.Role),
		Timestamp:     s.clk.Now(),
		Note:          note,
		PreviousState: previous,
		NewState:      next,
	})
}

func (s *service) enqueueStatusEvent(ctx context.Context, tx *sql.Tx, l *Leave, previous string, actor identity.Actor) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveStatusChangedEvent{
		EventType:      "leave_status_changed",
		RequestID:      contextutil.GetRequestID(ctx),
		LeaveID:        l.ID.String(),
		EmployeeID:     l.EmployeeID.String(),
		PreviousStatus: previous,
		NewStatus:      l.Status,
		ResolutionType: l.ResolutionType,
		ActorID:        actor.ID,
		ActorRole:      string(actor.Role),
		OccurredAt:     s.clk.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "leave",
		AggregateID:   event.LeaveID,
		EventType:     event.EventType,
		Topic:         events.LeaveStatusTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func inclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// dateCovers treats the range as whole days: now is covered from the start
// of startDate through the end of endDate.
func dateCovers(startDate, endDate, now time.Time) bool {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !day.Before(startDate) && !day.After(endDate)
}
