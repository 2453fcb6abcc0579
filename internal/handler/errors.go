package handler

// User-facing error messages. They never carry internal error details.
const (
	ErrMsgGenericServerError    = "Something went wrong"
	ErrMsgUnknownError          = "Unknown error"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestError   = "Invalid request. Please check your inputs."
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgUnavailableError      = "Host is unavailable. Please try again later."
	ErrMsgHostTimeoutError      = "Host did not answer in time"
	ErrMsgHostFailedError       = "Host refused the request"
	ErrMsgUnknownEventError     = "Unknown event"
	ErrMsgInvalidQueueIndex     = "Invalid queue index"
	ErrMsgMissingCartKey        = "Cart key is required"
	ErrMsgMissingComponent      = "Component is required"

	// Transfers
	ErrMsgBusyError           = "Another change is still waiting for the host"
	ErrMsgMoveRejectedError   = "The host rejected the move"
	ErrMsgDropNotAllowedError = "Items cannot be dropped there"
	ErrMsgUtilitySlotError    = "That item does not fit in this slot"
	ErrMsgContainerError      = "Containers cannot hold that"
	ErrMsgSameSlotError       = "Source and target are the same slot"
	ErrMsgSlotNotFoundError   = "Slot not found"
	ErrMsgInventoryGoneError  = "Inventory is not open"

	// Crafting
	ErrMsgInsufficientMaterialsErr = "Not enough materials"
	ErrMsgRecipeNotFoundError      = "Recipe not found"
	ErrMsgQueueIndexError          = "No such queue entry"
	ErrMsgNotCraftingBenchError    = "No crafting bench is open"

	// Shop
	ErrMsgCartEmptyError        = "Cart is empty"
	ErrMsgNotPurchasableError   = "You cannot buy that item"
	ErrMsgInvalidPayMethodError = "Invalid payment method"
	ErrMsgCartItemNotFoundError = "Item is not in the cart"
)

// Success messages
const (
	MsgEventAccepted   = "Event accepted"
	MsgCraftQueued     = "Recipe queued"
	MsgCraftCancelled  = "Craft cancelled"
	MsgCartUpdated     = "Cart updated"
	MsgCheckoutSuccess = "Purchase complete"
	MsgActionQueued    = "Action sent"
)

// Log messages
const (
	LogMsgEncodeFailed    = "Failed to encode JSON response"
	LogMsgWriteFailed     = "Failed to write response buffer"
	LogMsgDecodeFailedFmt = "Failed to decode %s request"
	LogMsgDecodedFmt      = "%s request decoded"
	LogMsgReadinessFailed = "Readiness check failed"
	LogMsgBodyReadFailed  = "Failed to read request body"
	LogMsgDropSettled     = "Drop settled"
)
