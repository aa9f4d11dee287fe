package tracking

import (
	"context"

	trackingerrors "go-foresthr/internal/tracking/errors"

	"go.uber.org/zap"
)

//go:generate mockgen -source=tracking_service.go -destination=mock/tracking_service_mock.go -package=mock
type Service interface {
	QueryLedger(ctx context.Context, parentType, parentID string) ([]EntryResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("tracking.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("tracking.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) QueryLedger(ctx context.Context, parentType, parentID string) ([]EntryResponse, error) {
	if parentType != ParentLeave && parentType != ParentSickLeave {
		return nil, trackingerrors.ErrInvalidParentType
	}

	entries, err := s.repo.FindByParent(ctx, parentType, parentID)
	if err != nil {
		s.logger.Error("query ledger failed",
			zap.String("parent_type", parentType),
			zap.String("parent_id", parentID),
			zap.Error(err),
		)
		return nil, err
	}

	return mapToListResponse(entries), nil
}
