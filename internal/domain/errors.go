package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Slot errors
	ErrMsgSourceSlotUndefined = "source slot item data undefined"
	ErrMsgTargetSlotUndefined = "target slot undefined"
	ErrMsgSameSlot            = "source and target are the same slot"

	// Transfer rule errors
	ErrMsgUtilitySlot          = "item cannot be placed in utility slot"
	ErrMsgContainerInContainer = "cannot store container inside another container"
	ErrMsgContainerOpen        = "container is currently open"
	ErrMsgDropNotAllowed       = "drop not allowed on target inventory"

	// Request lifecycle errors
	ErrMsgBusy          = "a request is already in flight"
	ErrMsgMoveRejected  = "move rejected by host"
	ErrMsgNoSnapshot    = "no snapshot to restore"
	ErrMsgTxCompleted   = "transaction already completed"
	ErrMsgInventoryGone = "inventory not open"

	// Crafting errors
	ErrMsgInsufficientMaterials = "not enough materials"
	ErrMsgRecipeNotFound        = "recipe not found"
	ErrMsgQueueIndex            = "queue index out of range"
	ErrMsgNotCraftingBench      = "right inventory is not a crafting bench"

	// Economy errors
	ErrMsgCartEmpty        = "cart is empty"
	ErrMsgNotPurchasable   = "item is not purchasable"
	ErrMsgInvalidPayMethod = "invalid payment method"
	ErrMsgCartItemNotFound = "cart item not found"

	// Bridge errors
	ErrMsgBridgeNotConnected = "not connected to host"
	ErrMsgBridgeDormant      = "host bridge is dormant, reconnection triggered"
	ErrMsgBridgeTimeout      = "host request timed out"
	ErrMsgHostError          = "host returned an error"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
	ErrMsgUnknownEvent = "unknown push event"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Slot errors
	ErrSourceSlotUndefined = errors.New(ErrMsgSourceSlotUndefined)
	ErrTargetSlotUndefined = errors.New(ErrMsgTargetSlotUndefined)
	ErrSameSlot            = errors.New(ErrMsgSameSlot)

	// Transfer rule errors
	ErrUtilitySlot          = errors.New(ErrMsgUtilitySlot)
	ErrContainerInContainer = errors.New(ErrMsgContainerInContainer)
	ErrContainerOpen        = errors.New(ErrMsgContainerOpen)
	ErrDropNotAllowed       = errors.New(ErrMsgDropNotAllowed)

	// Request lifecycle errors
	ErrBusy          = errors.New(ErrMsgBusy)
	ErrMoveRejected  = errors.New(ErrMsgMoveRejected)
	ErrNoSnapshot    = errors.New(ErrMsgNoSnapshot)
	ErrTxCompleted   = errors.New(ErrMsgTxCompleted)
	ErrInventoryGone = errors.New(ErrMsgInventoryGone)

	// Crafting errors
	ErrInsufficientMaterials = errors.New(ErrMsgInsufficientMaterials)
	ErrRecipeNotFound        = errors.New(ErrMsgRecipeNotFound)
	ErrQueueIndex            = errors.New(ErrMsgQueueIndex)
	ErrNotCraftingBench      = errors.New(ErrMsgNotCraftingBench)

	// Economy errors
	ErrCartEmpty        = errors.New(ErrMsgCartEmpty)
	ErrNotPurchasable   = errors.New(ErrMsgNotPurchasable)
	ErrInvalidPayMethod = errors.New(ErrMsgInvalidPayMethod)
	ErrCartItemNotFound = errors.New(ErrMsgCartItemNotFound)

	// Bridge errors
	ErrBridgeNotConnected = errors.New(ErrMsgBridgeNotConnected)
	ErrBridgeDormant      = errors.New(ErrMsgBridgeDormant)
	ErrBridgeTimeout      = errors.New(ErrMsgBridgeTimeout)
	ErrHostError          = errors.New(ErrMsgHostError)

	// Input errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
	ErrUnknownEvent = errors.New(ErrMsgUnknownEvent)
)
