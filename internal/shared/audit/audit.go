package audit

import (
	"context"
	"time"

	"go-payroll/internal/shared/contextutil"

	"go.uber.org/zap"
)

const (
	ActionServerShutdown       = "SERVER_SHUTDOWN"
	ActionPrincipalCompensated = "PRINCIPAL_COMPENSATED"
	ActionCompanyCompensated   = "COMPANY_COMPENSATED"
	ActionCompensationFailed   = "COMPENSATION_FAILED"
	ActionPrincipalOrphaned    = "PRINCIPAL_ORPHANED"
	ActionPayslipGenerated     = "PAYSLIP_GENERATED"
)

type Entry struct {
	Action  string
	Message string
	Meta    map[string]any
}

type Logger interface {
	Log(ctx context.Context, entry Entry)
}

// StdoutLogger writes audit entries through the "audit" zap logger.
type StdoutLogger struct {
	logger *zap.Logger
}

func NewStdoutLogger(logger ...*zap.Logger) *StdoutLogger {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &StdoutLogger{logger: l}
}

func (l *StdoutLogger) Log(ctx context.Context, entry Entry) {
	fields := append(contextutil.ExtractMetadata(ctx).Fields(),
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
	l.logger.Info("audit event", fields...)
}

type nopLogger struct{}

func (nopLogger) Log(context.Context, Entry) {}

// Nop discards entries.
var Nop Logger = nopLogger{}
