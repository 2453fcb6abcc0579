package bridge

import "time"

// Default configuration values
const (
	// DefaultRequestTimeout bounds a single host round trip
	DefaultRequestTimeout = 5 * time.Second

	// DefaultReconnectDelay is the initial delay before attempting to reconnect
	DefaultReconnectDelay = 1 * time.Second

	// MaxReconnectDelay is the maximum delay between reconnection attempts
	MaxReconnectDelay = 30 * time.Second

	// ReconnectMultiplier is the multiplier for exponential backoff
	ReconnectMultiplier = 2.0

	// MaxConsecutiveFailures is the number of failed dials before going dormant
	MaxConsecutiveFailures = 10

	// WriteTimeout is the timeout for writing messages
	WriteTimeout = 10 * time.Second

	// ReadBufferSize is the WebSocket read buffer size
	ReadBufferSize = 4096

	// WriteBufferSize is the WebSocket write buffer size
	WriteBufferSize = 4096

	// DefaultPhoneKey is used when the host cannot report the phone key
	DefaultPhoneKey = "M"
)

// Host callback names
const (
	CallUILoaded                   = "uiLoaded"
	CallFetchSlotRestrictions      = "fetchSlotRestrictions"
	CallGetItemData                = "getItemData"
	CallGetSettings                = "getSettings"
	CallRemoveComponent            = "removeComponent"
	CallRemoveAmmo                 = "removeAmmo"
	CallUseButton                  = "useButton"
	CallBuyItems                   = "buyItems"
	CallCraftFromCraftingInventory = "craftFromCraftingInventory"
	CallStartCraftQueue            = "startCraftQueue"
	CallSwapItems                  = "swapItems"
	CallGetPhoneKey                = "getPhoneKey"
)

// Response status values
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Log messages
const (
	LogMsgConnecting         = "Connecting to host bridge"
	LogMsgConnected          = "Connected to host bridge"
	LogMsgReconnecting       = "Reconnecting to host bridge"
	LogMsgConnectionRestored = "Host bridge connection restored"
	LogMsgReadError          = "Error reading from host bridge"
	LogMsgClientStopped      = "Host bridge client stopped"
	LogMsgGivingUp           = "Host bridge connection failed too many times, entering dormant mode"
	LogMsgWakingUp           = "Host bridge waking from dormant mode"
	LogMsgDormantRetry       = "Host bridge dormant, retrying connection due to outgoing request"
	LogMsgSendingRequest     = "Sending host request"
	LogMsgRequestFailed      = "Host request failed"
	LogMsgUnroutedResponse   = "Dropping host response with no waiting caller"
	LogMsgFrameUnparseable   = "Ignoring unparseable host frame"
	LogMsgAsyncCallFailed    = "Fire-and-forget host call failed"
	LogMsgAsyncQueueFull     = "Fire-and-forget host call dropped"
	LogMsgStubCall           = "Stub host call"
)
