package bootstrap

import (
	"context"

	"github.com/osse101/InventoryHUD_Go/internal/event"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
	"github.com/osse101/InventoryHUD_Go/internal/metrics"
	"github.com/osse101/InventoryHUD_Go/internal/session"
	"github.com/osse101/InventoryHUD_Go/internal/sse"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus event.Bus
	Session  *session.Session
	Hub      *sse.Hub
}

// RegisterEventHandlers subscribes everything that listens on the bus:
// - the session, which applies host pushes to the mirror
// - the metrics collector
// - the SSE subscriber, which relays notifications to renderers
func RegisterEventHandlers(ctx context.Context, deps EventHandlerDependencies) {
	log := logger.FromContext(ctx)

	metrics.NewEventMetricsCollector().Register(ctx, deps.EventBus)
	log.Info(LogMsgMetricsCollectorRegistered)

	deps.Session.Register(ctx)
	log.Info(LogMsgSessionRegistered)

	sse.NewSubscriber(deps.Hub, deps.EventBus).Subscribe(ctx)
	log.Info(LogMsgStreamSubscriberRegistered)
}
