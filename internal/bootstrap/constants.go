package bootstrap

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingHUD         = "Starting inventory HUD"
	LogMsgConfigurationLoaded = "Configuration loaded"
)

// Log messages for wiring
const (
	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgSessionRegistered          = "Session handlers registered"
	LogMsgStreamSubscriberRegistered = "Event stream subscriber registered"
	LogMsgBridgeSelected             = "Host bridge selected"
	ErrMsgUnknownBridgeMode          = "unknown bridge mode"
)

// Shutdown messages
const (
	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgServerStopped        = "Server stopped"
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgSchedulerShutdown    = "Scheduler shutdown failed"
	LogMsgComponentStopped     = "Component stopped"
)

// Component names for shutdown logging
const (
	ComponentSession    = "session"
	ComponentDispatcher = "dispatcher"
	ComponentQueue      = "crafting queue"
	ComponentScheduler  = "scheduler"
	ComponentPool       = "worker pool"
	ComponentBridge     = "bridge"
	ComponentHub        = "event hub"
	ComponentCatalog    = "catalog"
)

// Log file rotation defaults
const (
	LogMaxSizeMB  = 20
	LogMaxBackups = 9
	LogMaxAgeDays = 14
)
