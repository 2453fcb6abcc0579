package session

import "time"

// DefaultHotbarAutoHide is how long the hotbar stays up after being toggled on
const DefaultHotbarAutoHide = 3 * time.Second

const hotbarTaskKey = "hotbar.autohide"

// Async request names not covered by the host contract
const (
	callPrefetch = "prefetchItems"
)

// Log messages
const (
	LogMsgPushReceived        = "Host push event received"
	LogMsgPushRejected        = "Host push event rejected"
	LogMsgPublishFailed       = "Failed to publish event"
	LogMsgInitialized         = "HUD initialized"
	LogMsgInventorySetup      = "Inventory setup applied"
	LogMsgInventoryClosed     = "Inventory closed"
	LogMsgHandoffFailed       = "Crafting hand-off on close failed"
	LogMsgRestrictionsFailed  = "Failed to load slot restrictions"
	LogMsgPhoneKeyFallback    = "Phone key unavailable, using default"
	LogMsgHotbarShown         = "Hotbar shown"
	LogMsgTeardown            = "Session torn down"
	LogMsgContextActionDenied = "Context action dropped"
)

// Error formats
const (
	ErrMsgUnknownEventFmt = "%q: %w"
	ErrMsgDecodeEventFmt  = "%s: %w"
	ErrMsgSchemaFmt       = "%s: %w: %v"
)
