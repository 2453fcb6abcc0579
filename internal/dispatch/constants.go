package dispatch

// Log messages
const (
	LogMsgDropRejected    = "Drop rejected"
	LogMsgTransferApplied = "Transfer applied, awaiting host"
	LogMsgMoveConfirmed   = "Host confirmed move"
	LogMsgMoveRejected    = "Host rejected move, rolling back"
	LogMsgSettingsFailed  = "Host settings unavailable, keeping audio on"
	LogMsgSplitNoTarget   = "No free or matching slot to split into"
	LogMsgRoutedToCart    = "Shop drop routed to cart"
	LogMsgRoutedToCraft   = "Recipe drop routed to crafting queue"
)

// Rejection reasons reported in metrics
const (
	ReasonBusy                  = "busy"
	ReasonDropNotAllowed        = "drop_not_allowed"
	ReasonSourceUndefined       = "source_undefined"
	ReasonTargetUndefined       = "target_undefined"
	ReasonSameSlot              = "same_slot"
	ReasonUtilitySlot           = "utility_slot"
	ReasonContainer             = "container"
	ReasonInventoryGone         = "inventory_gone"
	ReasonInsufficientMaterials = "insufficient_materials"
	ReasonOther                 = "other"
)
