package consumer

import (
	"context"
	"encoding/json"

	"go-payroll/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EmployeeNameProjector keeps denormalized employee names in sync.
type EmployeeNameProjector interface {
	SyncEmployeeName(ctx context.Context, companyID, employeeID, name string) (int64, error)
}

// EmployeeLifecycleHandler dispatches employee lifecycle events by the
// event_type header, falling back to the payload field.
func EmployeeLifecycleHandler(projector EmployeeNameProjector, logger *zap.Logger) HandlerFunc {
	log := logger.Named("kafka.consumer.employee_lifecycle")

	return func(ctx context.Context, msg kafkago.Message) error {
		eventType := header(msg, "event_type")
		if eventType == "" {
			var probe struct {
				EventType string `json:"event_type"`
			}
			_ = json.Unmarshal(msg.Value, &probe)
			eventType = probe.EventType
		}

		switch eventType {
		case events.EmployeeRenamedType:
			var event events.EmployeeRenamedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Error("decode employee_renamed event failed", zap.Error(err))
				return nil
			}

			updated, err := projector.SyncEmployeeName(ctx, event.CompanyID, event.EmployeeID, event.NewName)
			if err != nil {
				return err
			}
			log.Info("employee name synced to transactions",
				zap.String("employee_id", event.EmployeeID),
				zap.String("company_id", event.CompanyID),
				zap.Int64("rows", updated),
			)

		case events.EmployeeCreatedType, events.EmployeeDeletedType:
			log.Info("employee lifecycle event",
				zap.String("event_type", eventType),
				zap.ByteString("key", msg.Key),
			)

		default:
			log.Warn("unknown employee lifecycle event", zap.String("event_type", eventType))
		}
		return nil
	}
}
