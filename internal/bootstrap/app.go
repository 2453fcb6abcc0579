package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/InventoryHUD_Go/internal/bridge"
	"github.com/osse101/InventoryHUD_Go/internal/catalog"
	"github.com/osse101/InventoryHUD_Go/internal/config"
	"github.com/osse101/InventoryHUD_Go/internal/crafting"
	"github.com/osse101/InventoryHUD_Go/internal/dispatch"
	"github.com/osse101/InventoryHUD_Go/internal/economy"
	"github.com/osse101/InventoryHUD_Go/internal/event"
	"github.com/osse101/InventoryHUD_Go/internal/handler"
	"github.com/osse101/InventoryHUD_Go/internal/server"
	"github.com/osse101/InventoryHUD_Go/internal/session"
	"github.com/osse101/InventoryHUD_Go/internal/sse"
	"github.com/osse101/InventoryHUD_Go/internal/state"
	"github.com/osse101/InventoryHUD_Go/internal/transfer"
	"github.com/osse101/InventoryHUD_Go/internal/validation"
	"github.com/osse101/InventoryHUD_Go/internal/worker"
)

// HostBridge is a host transport that can also report its own health
type HostBridge interface {
	bridge.Host
	handler.HealthChecker
}

// App is the wired HUD
type App struct {
	Config *config.Config
	Clock  clockwork.Clock

	Bus       event.Bus
	Hub       *sse.Hub
	Host      HostBridge
	Pool      *worker.Pool
	Scheduler *worker.Scheduler

	Store        *state.Store
	Catalog      *catalog.Cache
	Restrictions *transfer.Restrictions
	Queue        *crafting.Queue
	Shop         economy.Service
	Dispatcher   *dispatch.Dispatcher
	Session      *session.Session
	Server       *server.Server

	ws *bridge.WSClient
}

// Build wires every component from cfg. Nothing runs until Start.
func Build(cfg *config.Config, clock clockwork.Clock) (*App, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	app := &App{Config: cfg, Clock: clock}

	// the websocket delivers pushes to the session, which is built after it
	var sess *session.Session
	push := func(ctx context.Context, action string, data json.RawMessage) {
		sess.HandlePush(ctx, action, data)
	}

	switch cfg.BridgeMode {
	case config.BridgeModeWS:
		app.ws = bridge.NewWSClient(cfg.BridgeURL, cfg.BridgeRequestTimeout, push)
		app.Host = app.ws
	case config.BridgeModeStub:
		app.Host = bridge.NewStub()
	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownBridgeMode, cfg.BridgeMode)
	}
	slog.Info(LogMsgBridgeSelected, "mode", cfg.BridgeMode, "url", cfg.BridgeURL)

	app.Bus, app.Hub = InitializeEventSystem(clock)
	app.Pool = worker.NewPool(cfg.WorkerPoolSize, cfg.WorkerQueueSize)
	app.Scheduler = worker.NewScheduler(clock)

	schema := validation.NewSchemaValidator()
	app.Store = state.NewStore(clock)
	app.Catalog = catalog.New(app.Host, catalog.Config{
		MissingCacheSize: cfg.CatalogMissingCacheSize,
		MissingCacheTTL:  cfg.CatalogMissingCacheTTL,
		FetchTimeout:     cfg.BridgeRequestTimeout,
	})
	app.Restrictions = transfer.NewRestrictions(schema)
	app.Queue = crafting.NewQueue(clock, app.Host, app.Bus, app.Store, crafting.Config{
		TickInterval:       cfg.CraftTickInterval,
		DefaultDuration:    cfg.CraftDefaultDuration,
		MinHandoffDuration: cfg.CraftMinHandoffDuration,
	})
	app.Shop = economy.NewService(app.Host, app.Store, app.Catalog, cfg.ImagePath)

	planner := transfer.NewPlanner(app.Catalog, app.Restrictions)
	app.Dispatcher = dispatch.NewDispatcher(app.Store, planner, app.Host, app.Shop, app.Queue)

	sess = session.New(session.Deps{
		Store:          app.Store,
		Catalog:        app.Catalog,
		Restrictions:   app.Restrictions,
		Queue:          app.Queue,
		Shop:           app.Shop,
		Host:           app.Host,
		Async:          bridge.NewAsync(app.Host, app.Pool),
		Scheduler:      app.Scheduler,
		Bus:            app.Bus,
		Schema:         schema,
		ImagePath:      cfg.ImagePath,
		HotbarAutoHide: cfg.HotbarAutoHide,
	})
	app.Session = sess

	app.Server = server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		RateLimit:      cfg.RateLimit,
		RateWindow:     cfg.RateWindow,
		BridgeMode:     cfg.BridgeMode,
		Clock:          clock,
	}, server.Deps{
		Store:    app.Store,
		Dropper:  app.Dispatcher,
		Crafting: app.Queue,
		Shop:     app.Shop,
		Session:  app.Session,
		Health:   app.Host,
		Events:   sse.Handler(app.Hub),
	})

	return app, nil
}

// Start subscribes the bus listeners and starts the background workers and
// the host connection. The HTTP server is started separately.
func (a *App) Start(ctx context.Context) {
	handler.InitValidator()
	RegisterEventHandlers(ctx, EventHandlerDependencies{
		EventBus: a.Bus,
		Session:  a.Session,
		Hub:      a.Hub,
	})
	a.Pool.Start()
	if a.ws != nil {
		a.ws.Start(ctx)
	}
}
