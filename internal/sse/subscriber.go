package sse

import (
	"context"

	"github.com/osse101/InventoryHUD_Go/internal/event"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe registers the forwarding handlers
func (s *Subscriber) Subscribe(ctx context.Context) {
	s.bus.Subscribe(event.StateChanged, forward[event.StateChangedPayload](s.hub, EventTypeStateChanged))
	s.bus.Subscribe(event.CraftCompleted, forward[event.CraftCompletedPayload](s.hub, EventTypeCraftCompleted))
	s.bus.Subscribe(event.CraftProgress, forward[event.CraftProgressPayload](s.hub, EventTypeCraftProgress))

	logger.FromContext(ctx).Info(LogMsgSubscriberReady,
		"types", []string{EventTypeStateChanged, EventTypeCraftCompleted, EventTypeCraftProgress})
}

// forward decodes the bus payload as T and broadcasts it under sseType.
// Unreadable payloads are logged and skipped.
func forward[T any](hub *Hub, sseType string) event.Handler {
	return func(ctx context.Context, evt event.Event) error {
		payload, err := event.DecodePayload[T](evt.Payload)
		if err != nil {
			logger.FromContext(ctx).Warn(LogMsgPayloadUnreadable, "type", evt.Type, "error", err)
			return nil
		}
		hub.Broadcast(sseType, payload)
		if sseType != EventTypeCraftProgress {
			logger.FromContext(ctx).Debug(LogMsgEventBroadcast, "event_type", sseType)
		}
		return nil
	}
}
