package bootstrap

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/InventoryHUD_Go/internal/config"
	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/event"
	"github.com/osse101/InventoryHUD_Go/internal/testing/leaktest"
	"github.com/osse101/InventoryHUD_Go/internal/transfer"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:                    0,
		BridgeMode:              config.BridgeModeStub,
		BridgeRequestTimeout:    time.Second,
		CraftTickInterval:       config.DefaultCraftTickInterval,
		CraftDefaultDuration:    config.DefaultCraftDuration,
		CraftMinHandoffDuration: config.DefaultCraftMinHandoff,
		CatalogMissingCacheSize: 16,
		WorkerPoolSize:          1,
		WorkerQueueSize:         8,
		RateLimit:               config.DefaultRateLimit,
		RateWindow:              config.DefaultRateWindow,
		ImagePath:               "nui://hud/images",
		HotbarAutoHide:          config.DefaultHotbarAutoHide,
	}
}

func TestBuild_RejectsUnknownBridge(t *testing.T) {
	cfg := testConfig()
	cfg.BridgeMode = "serial"

	_, err := Build(cfg, nil)
	assert.Error(t, err)
}

func TestApp_StubLifecycle(t *testing.T) {
	defer leaktest.Check(t)()

	ctx := context.Background()
	app, err := Build(testConfig(), clockwork.NewFakeClock())
	require.NoError(t, err)
	app.Start(ctx)

	var changes int
	app.Bus.Subscribe(event.StateChanged, func(context.Context, event.Event) error {
		changes++
		return nil
	})

	setup := json.RawMessage(`{
		"leftInventory": {"id": 1, "type": "player", "slots": 5, "maxWeight": 1000,
			"items": [{"slot": 1, "name": "water", "count": 3, "weight": 10}]}
	}`)
	require.NoError(t, app.Session.Inject(ctx, "setupInventory", setup, event.SourceHTTP))

	snap := app.Store.Snapshot()
	require.Len(t, snap.Left.Items, 5+domain.UtilitySlotCount)
	assert.Equal(t, "water", snap.Left.Items[0].Name)
	assert.Positive(t, changes)

	// the stub accepts every move
	pending, err := app.Dispatcher.Drop(ctx,
		transfer.Ref{Inventory: domain.InventoryPlayer, Slot: 1},
		&transfer.Ref{Inventory: domain.InventoryPlayer, Slot: 4})
	require.NoError(t, err)
	wctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, pending.Wait(wctx))
	inv := app.Store.Inventories()
	assert.Equal(t, "water", inv.Left.SlotAt(4).Name)

	assert.NoError(t, app.Host.CheckHealth(ctx))

	shutdownCtx, stop := context.WithTimeout(ctx, 2*time.Second)
	defer stop()
	GracefulShutdown(shutdownCtx, app)

	assert.Equal(t, 0, app.Hub.ClientCount())
}
