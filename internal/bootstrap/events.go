package bootstrap

import (
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/InventoryHUD_Go/internal/event"
	"github.com/osse101/InventoryHUD_Go/internal/sse"
)

// InitializeEventSystem creates the in-process bus and the SSE hub that
// relays it to renderers. The hub is started; stop it on shutdown.
func InitializeEventSystem(clock clockwork.Clock) (event.Bus, *sse.Hub) {
	bus := event.NewMemoryBus()
	hub := sse.NewHub(clock)
	hub.Start()

	slog.Info(LogMsgEventSystemInitialized)
	return bus, hub
}
