package tracking

import (
	"net/http"
	"strings"

	"go-foresthr/internal/shared/apperror"
	"go-foresthr/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("tracking.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("tracking.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) QueryLedger(c *gin.Context) {
	parentType := strings.ToUpper(c.Param("parentType"))
	parentID := c.Param("parentId")

	resp, err := h.service.QueryLedger(c.Request.Context(), parentType, parentID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("query ledger failed",
			zap.String("parent_type", parentType),
			zap.String("parent_id", parentID),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
