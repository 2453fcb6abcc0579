package metrics

import (
	"context"

	"github.com/osse101/InventoryHUD_Go/internal/event"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every host push event and craft completions
func (e *EventMetricsCollector) Register(ctx context.Context, bus event.Bus) {
	for _, eventType := range event.HostEventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
	bus.Subscribe(event.CraftCompleted, e.HandleEvent)

	logger.FromContext(ctx).Debug(LogMsgEventMetricsRegistered, "types", len(event.HostEventTypes)+1)
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	if evt.Type != event.CraftCompleted {
		EventsReceived.WithLabelValues(string(evt.Type)).Inc()
		return nil
	}

	payload, err := event.DecodePayload[event.CraftCompletedPayload](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Debug(LogMsgEventPayloadUnreadable, "type", evt.Type, "error", err)
		return nil
	}

	result := ResultSuccess
	if !payload.Success {
		result = ResultFailure
	}
	CraftsTotal.WithLabelValues(result).Inc()
	return nil
}
