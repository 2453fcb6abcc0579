package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 256

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 64

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10
)

// KeepaliveInterval is how often idle streams get a ping
const KeepaliveInterval = 30 * time.Second

// Event types sent to the renderer
const (
	// EventTypeStateChanged carries the reducer that ran; clients refetch /state
	EventTypeStateChanged = "state.changed"

	// EventTypeCraftCompleted reports a finished crafting job
	EventTypeCraftCompleted = "craft.completed"

	// EventTypeCraftProgress samples the running crafting job
	EventTypeCraftProgress = "craft.progress"

	// EventTypeConnected is the first event on every stream
	EventTypeConnected = "connected"

	// EventTypeKeepalive is the keepalive ping event type
	EventTypeKeepalive = "keepalive"
)

// QueryParamTypes filters a stream to a comma separated list of event types
const QueryParamTypes = "types"

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Broadcasting SSE event"
	LogMsgEventDropped       = "SSE broadcast buffer full, event dropped"
	LogMsgClientLagging      = "SSE client buffer full, event skipped"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgStreamUnsupported  = "Response writer cannot stream"
	LogMsgSubscriberReady    = "SSE subscriber registered"
	LogMsgPayloadUnreadable  = "Unreadable event payload"
)
