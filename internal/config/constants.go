package config

import "time"

// Bridge modes
const (
	BridgeModeWS   = "ws"
	BridgeModeStub = "stub"
)

// Defaults
const (
	DefaultPort        = "8080"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultServiceName = "inventory-hud"
	DefaultVersion     = "dev"
	DefaultEnvironment = "dev"
	DefaultImagePath   = "nui://inventory/web/images"

	DefaultBridgeRequestTimeout = 5 * time.Second

	DefaultCraftTickInterval = 16 * time.Millisecond
	DefaultCraftDuration     = 3000 * time.Millisecond
	DefaultCraftMinHandoff   = 100 * time.Millisecond

	DefaultMissingCacheSize = 512
	DefaultWorkerPoolSize   = 2
	DefaultWorkerQueueSize  = 64
	DefaultHotbarAutoHide   = 3 * time.Second
	DefaultShutdownTimeout  = 10 * time.Second

	DefaultRateLimit  = 600
	DefaultRateWindow = time.Minute
)
