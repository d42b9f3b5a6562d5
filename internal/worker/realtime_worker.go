package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/realtime"
)

// RealtimeWorker bridges the in-process dispatcher onto the realtime
// change feed: every entity event becomes a ChangeEvent on the
// entity's table channel.
type RealtimeWorker struct {
	feed   realtime.Feed
	logger *zap.Logger
}

// NewRealtimeWorker constructs the worker.
func NewRealtimeWorker(feed realtime.Feed, logger *zap.Logger) *RealtimeWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RealtimeWorker{feed: feed, logger: logger}
}

// Register subscribes the worker to every event type that carries an
// entity change.
func (w *RealtimeWorker) Register(dispatcher events.Dispatcher) {
	forwarded := []events.EventType{
		events.EventTicketCreated,
		events.EventTicketUpdated,
		events.EventTicketStatusChanged,
		events.EventTicketReferred,
		events.EventTicketReopened,
		events.EventTicketDeleted,
		events.EventReferralCreated,
		events.EventIntroductionCreated,
		events.EventIntroductionUpdated,
		events.EventIntroductionReferred,
		events.EventIntroductionConverted,
		events.EventCustomerChanged,
		events.EventEditWindowExtended,
		events.EventWorkSessionToggled,
	}
	for _, eventType := range forwarded {
		dispatcher.Subscribe(eventType, w.forward)
	}
}

func (w *RealtimeWorker) forward(ctx context.Context, event events.Event) error {
	if w.feed == nil || !w.feed.Enabled() {
		return nil
	}
	change := realtime.ChangeEvent{
		Table:  event.Table,
		Change: event.Change,
	}
	if event.Record != nil {
		change.Record = realtime.RecordOf(event.Record)
	}
	if err := w.feed.Publish(ctx, change); err != nil {
		w.logger.Warn("realtime forward failed",
			zap.String("table", event.Table),
			zap.Error(err),
		)
	}
	return nil
}
