package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/events"
)

// NotificationService turns domain events into operator-facing log
// lines. It subscribes to the dispatcher and is fire-and-forget.
type NotificationService struct {
	logger *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{logger: logger}
}

// Register attaches handlers for the event types worth surfacing.
func (s *NotificationService) Register(dispatcher events.Dispatcher) {
	notable := []events.EventType{
		events.EventTicketCreated,
		events.EventTicketReferred,
		events.EventTicketReopened,
		events.EventEditWindowExtended,
		events.EventBulkTicketsCompleted,
		events.EventIntroductionReferred,
		events.EventIntroductionConverted,
	}
	for _, eventType := range notable {
		dispatcher.Subscribe(eventType, s.handle)
	}
}

func (s *NotificationService) handle(_ context.Context, event events.Event) error {
	s.logger.Info("domain event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("table", event.Table),
		zap.Int64("record_id", event.RecordID),
		zap.String("actor", event.Actor),
	)
	return nil
}
