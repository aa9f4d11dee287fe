package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	employeeerrors "go-foresthr/internal/employee/errors"
	"go-foresthr/internal/events"
	"go-foresthr/internal/identity"
	"go-foresthr/internal/messaging/kafka"
	"go-foresthr/internal/shared/apperror"
	"go-foresthr/internal/shared/clock"
	"go-foresthr/internal/shared/contextutil"
	"go-foresthr/internal/shared/locker"
	"go-foresthr/internal/transition"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const statusCacheKeyPrefix = "employees:status:"

func statusCacheKey(employeeID string) string {
	return statusCacheKeyPrefix + employeeID
}

const statusCacheTTL = 30 * time.Second

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor identity.Actor, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetCurrentState(ctx context.Context, id string) (transition.EmployeeState, error)
	Exists(ctx context.Context, id string) (bool, error)
	RequestTransition(ctx context.Context, actor identity.Actor, employeeID string, target transition.EmployeeState, reason string) (StatusResponse, error)

	// Coupling hooks, executed inside the calling engine's transaction so
	// an employee-status change and its leave/sick-leave transition are one
	// atomic unit.
	EnterAbsence(ctx context.Context, tx *sql.Tx, actor identity.Actor, employeeID string, target transition.EmployeeState) error
	ExitAbsence(ctx context.Context, tx *sql.Tx, actor identity.Actor, employeeID string, excludeLeaveID, excludeSickLeaveID *string, now time.Time) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	sf     *singleflight.Group
	locks  *locker.Registry
	clk    clock.Clock
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	locks *locker.Registry,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if clk == nil {
		clk = clock.System()
	}
	if locks == nil {
		locks = locker.New()
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outbox,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		locks:  locks,
		clk:    clk,
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, actor identity.Actor, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("actor_id", actor.ID),
	)

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
	}

	e := &Employee{
		ID:       uuid.New(),
		FullName: req.FullName,
		Email:    req.Email,
		Zone:     req.Zone,
		Status:   transition.EmployeePendingApproval,
		HireDate: hireDate,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return EmployeeResponse{}, employeeerrors.ErrDuplicateEmail
		}
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, apperror.Storage(err)
	}

	s.logger.Info("employee created pending approval",
		zap.String("employee_id", e.ID.String()),
		zap.String("email", e.Email),
	)
	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(employees), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, apperror.Storage(err)
	}
	return mapToResponse(*e), nil
}

func (s *service) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, apperror.Storage(err)
	}
	return ok, nil
}

// GetCurrentState serves the status from a short-lived cache; singleflight
// keeps a burst of callers from stampeding the database.
func (s *service) GetCurrentState(ctx context.Context, id string) (transition.EmployeeState, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, statusCacheKey(id)).Result(); err == nil && cached != "" {
			return transition.EmployeeState(cached), nil
		}
	}

	v, err, _ := s.sf.Do(statusCacheKey(id), func() (interface{}, error) {
		e, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, employeeerrors.ErrEmployeeNotFound
			}
			return nil, apperror.Storage(err)
		}
		if s.rdb != nil {
			if err := s.rdb.Set(ctx, statusCacheKey(id), string(e.Status), statusCacheTTL).Err(); err != nil {
				s.logger.Warn("status cache set failed", zap.String("employee_id", id), zap.Error(err))
			}
		}
		return e.Status, nil
	})
	if err != nil {
		return "", err
	}
	return v.(transition.EmployeeState), nil
}

func (s *service) RequestTransition(ctx context.Context, actor identity.Actor, employeeID string, target transition.EmployeeState, reason string) (StatusResponse, error) {
	s.logger.Debug("employee transition requested",
		zap.String("employee_id", employeeID),
		zap.String("target", string(target)),
		zap.String("actor_id", actor.ID),
		zap.String("actor_role", string(actor.Role)),
	)

	if _, err := uuid.Parse(employeeID); err != nil {
		return StatusResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if _, err := uuid.Parse(actor.ID); err != nil {
		return StatusResponse{}, employeeerrors.ErrInvalidActorID
	}
	if !knownState(target) {
		return StatusResponse{}, employeeerrors.ErrInvalidTargetStatus
	}

	release := s.locks.Acquire("employee:" + employeeID)
	defer release()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("employee transition begin tx failed", zap.Error(err))
		return StatusResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Re-read under the lock: a concurrent winner already moved the state.
	e, err := qtx.FindByIDForUpdate(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StatusResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return StatusResponse{}, apperror.Storage(err)
	}

	switch transition.Check(e.Status, target, actor.Role) {
	case transition.OutcomeAllowed:
	case transition.OutcomeDeniedForRole:
		s.logger.Warn("employee transition denied for role",
			zap.String("employee_id", employeeID),
			zap.String("from", string(e.Status)),
			zap.String("target", string(target)),
			zap.String("actor_role", string(actor.Role)),
		)
		return StatusResponse{}, employeeerrors.ErrTransitionNotPermitted
	default:
		s.logger.Warn("employee transition invalid",
			zap.String("employee_id", employeeID),
			zap.String("from", string(e.Status)),
			zap.String("target", string(target)),
		)
		return StatusResponse{}, employeeerrors.ErrInvalidStatusTransition
	}

	// An absence status is only valid while a covering record exists.
	if transition.IsAbsence(target) {
		covered, err := qtx.HasOpenAbsence(ctx, employeeID, s.clk.Now(), nil, nil)
		if err != nil {
			return StatusResponse{}, apperror.Storage(err)
		}
		if !covered {
			return StatusResponse{}, employeeerrors.ErrNoCoveringAbsence
		}
	}

	previous := e.Status
	if err := qtx.UpdateStatus(ctx, employeeID, target); err != nil {
		return StatusResponse{}, apperror.Storage(err)
	}

	if err := s.enqueueStatusEvent(ctx, tx, employeeID, previous, target, actor, reason); err != nil {
		return StatusResponse{}, apperror.Storage(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("employee transition commit failed", zap.Error(err))
		return StatusResponse{}, apperror.Storage(err)
	}

	s.invalidateStatusCache(ctx, employeeID)
	s.logger.Info("employee transition applied",
		zap.String("employee_id", employeeID),
		zap.String("from", string(previous)),
		zap.String("to", string(target)),
	)

	return StatusResponse{EmployeeID: employeeID, Status: string(target)}, nil
}

func (s *service) EnterAbsence(ctx context.Context, tx *sql.Tx, actor identity.Actor, employeeID string, target transition.EmployeeState) error {
	if !transition.IsAbsence(target) {
		return employeeerrors.ErrInvalidTargetStatus
	}

	qtx := s.repo.WithTx(tx)
	e, err := qtx.FindByIDForUpdate(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return employeeerrors.ErrEmployeeNotFound
		}
		return apperror.Storage(err)
	}
	if e.Status != transition.EmployeeActive {
		return employeeerrors.ErrInvalidStatusTransition
	}

	if err := qtx.UpdateStatus(ctx, employeeID, target); err != nil {
		return apperror.Storage(err)
	}
	if err := s.enqueueStatusEvent(ctx, tx, employeeID, e.Status, target, actor, ""); err != nil {
		return apperror.Storage(err)
	}

	s.invalidateStatusCache(ctx, employeeID)
	return nil
}

func (s *service) ExitAbsence(ctx context.Context, tx *sql.Tx, actor identity.Actor, employeeID string, excludeLeaveID, excludeSickLeaveID *string, now time.Time) error {
	qtx := s.repo.WithTx(tx)
	e, err := qtx.FindByIDForUpdate(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return employeeerrors.ErrEmployeeNotFound
		}
		return apperror.Storage(err)
	}
	if !transition.IsAbsence(e.Status) {
		// Nothing to exit; the leave never moved the employee.
		return nil
	}

	covered, err := qtx.HasOpenAbsence(ctx, employeeID, now, excludeLeaveID, excludeSickLeaveID)
	if err != nil {
		return apperror.Storage(err)
	}
	if covered {
		// Another open record still applies; the status stays.
		return nil
	}

	if err := qtx.UpdateStatus(ctx, employeeID, transition.EmployeeActive); err != nil {
		return apperror.Storage(err)
	}
	if err := s.enqueueStatusEvent(ctx, tx, employeeID, e.Status, transition.EmployeeActive, actor, ""); err != nil {
		return apperror.Storage(err)
	}

	s.invalidateStatusCache(ctx, employeeID)
	return nil
}

func (s *service) enqueueStatusEvent(
	ctx context.Context,
	tx *sql.Tx,
	employeeID string,
	previous, next transition.EmployeeState,
	actor identity.Actor,
	reason string,
) error {
	if s.outbox == nil {
		return nil
	}

	event := events.EmployeeStatusChangedEvent{
		EventType:      "employee_status_changed",
		RequestID:      contextutil.GetRequestID(ctx),
		EmployeeID:     employeeID,
		PreviousStatus: string(previous),
		NewStatus:      string(next),
		ActorID:        actor.ID,
		ActorRole:      string(actor.Role),
		Reason:         reason,
		OccurredAt:     s.clk.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "employee",
		AggregateID:   employeeID,
		EventType:     event.EventType,
		Topic:         events.EmployeeStatusTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) invalidateStatusCache(ctx context.Context, employeeID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, statusCacheKey(employeeID)).Err(); err != nil {
		s.logger.Warn("status cache invalidation failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	}
}

func knownState(s transition.EmployeeState) bool {
	switch s {
	case transition.EmployeePendingApproval,
		transition.EmployeeActive,
		transition.EmployeeOnVacation,
		transition.EmployeeOnLeave,
		transition.EmployeeOnSickLeave,
		transition.EmployeeSuspended,
		transition.EmployeeRetired,
		transition.EmployeeRejected:
		return true
	}
	return false
}
