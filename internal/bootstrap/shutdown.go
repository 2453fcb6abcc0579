package bootstrap

import (
	"context"
	"log/slog"
)

// GracefulShutdown stops the app in dependency order:
// 1. HTTP server (stop accepting new intents)
// 2. Session teardown, which hands any crafting queue back to the host
// 3. In-flight confirmations, crafting timers and scheduled tasks
// 4. Worker pool, host connection, event hub and catalog fetches
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, app *App) {
	slog.Info(LogMsgShuttingDownServer)

	if app.Server != nil {
		if err := app.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	app.Session.Teardown(ctx)
	app.Session.Close()
	stopped(ComponentSession)

	waitOrCancel(ctx, ComponentDispatcher, app.Dispatcher.Wait)

	app.Queue.Stop()
	stopped(ComponentQueue)

	if err := app.Scheduler.Shutdown(ctx); err != nil {
		slog.Error(LogMsgSchedulerShutdown, "error", err)
	}
	stopped(ComponentScheduler)

	app.Pool.Stop()
	stopped(ComponentPool)

	if app.ws != nil {
		app.ws.Stop()
		stopped(ComponentBridge)
	}

	app.Hub.Stop()
	stopped(ComponentHub)

	app.Catalog.Close()
	stopped(ComponentCatalog)

	slog.Info(LogMsgServerStopped)
}

// waitOrCancel runs wait until it returns or ctx ends
func waitOrCancel(ctx context.Context, name string, wait func()) {
	done := make(chan struct{})
	go func() {
		wait()
		close(done)
	}()
	select {
	case <-done:
		stopped(name)
	case <-ctx.Done():
		slog.Warn(LogMsgComponentStopped, "component", name, "error", ctx.Err())
	}
}

func stopped(name string) {
	slog.Debug(LogMsgComponentStopped, "component", name)
}
