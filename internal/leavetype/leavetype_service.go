package leavetype

import (
	"context"
	"errors"

	leavetypeerrors "go-foresthr/internal/leavetype/errors"
	"go-foresthr/internal/transition"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, id string) (LeaveTypeResponse, error)
	Seed(ctx context.Context) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	if !ValidResolution(req.DefaultResolutionType) {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidResolutionType
	}
	absence := transition.EmployeeState(req.AbsenceStatus)
	if absence != transition.EmployeeOnVacation && absence != transition.EmployeeOnLeave {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidAbsenceStatus
	}

	lt := &LeaveType{
		ID:                       uuid.New(),
		Code:                     req.Code,
		Name:                     req.Name,
		DefaultResolutionType:    req.DefaultResolutionType,
		RequiresDocument:         req.RequiresDocument,
		DocumentDeadlineDays:     req.DocumentDeadlineDays,
		CompensationDeadlineDays: req.CompensationDeadlineDays,
		HoursToCompensatePerDay:  req.HoursToCompensatePerDay,
		GeneratesDiscount:        req.GeneratesDiscount,
		DiscountPercentage:       req.DiscountPercentage,
		AbsenceStatus:            absence,
	}

	if err := s.repo.Create(ctx, lt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return LeaveTypeResponse{}, leavetypeerrors.ErrDuplicateCode
		}
		s.logger.Error("create leave type persist failed", zap.String("code", req.Code), zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.logger.Info("leave type created", zap.String("id", lt.ID.String()), zap.String("code", lt.Code))
	return mapToResponse(*lt), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveTypeResponse, error) {
	types, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(types), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveTypeResponse, error) {
	lt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}
	return mapToResponse(*lt), nil
}

// Seed installs the default forestry catalog on an empty table.
func (s *service) Seed(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []LeaveType{
		{
			ID: uuid.New(), Code: "ANNUAL_VACATION", Name: "Annual vacation",
			DefaultResolutionType:   ResolutionPaid,
			HoursToCompensatePerDay: 8,
			AbsenceStatus:           transition.EmployeeOnVacation,
		},
		{
			ID: uuid.New(), Code: "PERSONAL_PERMIT", Name: "Personal permission",
			DefaultResolutionType:    ResolutionCompensated,
			CompensationDeadlineDays: 30,
			HoursToCompensatePerDay:  8,
			AbsenceStatus:            transition.EmployeeOnLeave,
		},
		{
			ID: uuid.New(), Code: "MEDICAL_APPOINTMENT", Name: "Medical appointment",
			DefaultResolutionType:   ResolutionPaid,
			RequiresDocument:        true,
			DocumentDeadlineDays:    5,
			HoursToCompensatePerDay: 8,
			AbsenceStatus:           transition.EmployeeOnLeave,
		},
		{
			ID: uuid.New(), Code: "UNPAID_PERMIT", Name: "Unpaid permission",
			DefaultResolutionType:   ResolutionDeducted,
			GeneratesDiscount:       true,
			DiscountPercentage:      100,
			HoursToCompensatePerDay: 8,
			AbsenceStatus:           transition.EmployeeOnLeave,
		},
	}

	for i := range defaults {
		if err := s.repo.Create(ctx, &defaults[i]); err != nil {
			return err
		}
	}

	s.logger.Info("leave type catalog seeded", zap.Int("count", len(defaults)))
	return nil
}
