package state

// Change reasons passed to subscribers
const (
	ReasonSetup              = "setup"
	ReasonRefresh            = "refresh"
	ReasonTransfer           = "transfer"
	ReasonFulfilled          = "fulfilled"
	ReasonRejected           = "rejected"
	ReasonAdditionalMetadata = "additional_metadata"
	ReasonItemAmount         = "item_amount"
	ReasonShiftPressed       = "shift_pressed"
	ReasonContainerWeight    = "container_weight"
	ReasonVisibility         = "visibility"
	ReasonHotbar             = "hotbar"
	ReasonClose              = "close"
	ReasonReset              = "reset"
)

// Log messages
const (
	LogMsgRolledBack           = "Optimistic change rolled back"
	LogMsgStaleSettlement      = "Ignoring settlement of a transfer that is no longer pending"
	LogMsgRefreshUnknownTarget = "Refresh references an inventory that is not open"
	LogMsgContainerNotFound    = "No player item links to the open container"
)
