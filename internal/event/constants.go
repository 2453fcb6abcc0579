package event

// EventSchemaVersion is the current event schema version
const EventSchemaVersion = "1.0"

// Metadata keys
const (
	MetaSource = "source"
)

// Event sources
const (
	SourceBridge = "bridge"
	SourceHTTP   = "http"
	SourceLocal  = "local"
)

// Log message constants
const (
	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
	LogMsgPayloadInvalid     = "Event payload failed validation"
)
