package bootstrap

import (
	"context"
	"time"

	"go-foresthr/internal/shared/contextutil"

	"go.uber.org/zap"
)

// StdoutAuditLogger writes operational audit records to the process log.
// Domain history belongs to the tracking ledger; this stream only carries
// server lifecycle events.
type StdoutAuditLogger struct {
	service string
	logger  *zap.Logger
}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{
		service: "go-foresthr",
		logger:  zap.L().Named("audit"),
	}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	l.logger.Info("audit event",
		zap.String("service", l.service),
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
