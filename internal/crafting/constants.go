package crafting

import "time"

// Queue timing defaults
const (
	// DefaultTickInterval is how often the running job's progress is sampled
	DefaultTickInterval = 16 * time.Millisecond

	// DefaultDuration applies to recipes that report no duration
	DefaultDuration = 3 * time.Second

	// DefaultMinHandoffDuration is the shortest remaining time handed to the host
	DefaultMinHandoffDuration = 100 * time.Millisecond

	// durabilityUnit converts a fractional ingredient into a durability amount
	durabilityUnit = 100
)

// Log messages
const (
	LogMsgInsufficientMaterials = "Not enough materials to craft this item"
	LogMsgRecipeNotFound        = "Recipe not found on bench, dropping queue entry"
	LogMsgCraftStarted          = "Crafting job started"
	LogMsgCraftCancelled        = "Crafting job cancelled"
	LogMsgCraftSucceeded        = "Craft successful"
	LogMsgCraftFailed           = "Craft failed"
	LogMsgCraftRequestFailed    = "Craft request failed"
	LogMsgQueueHandedOff        = "Crafting queue handed to host"
	LogMsgQueueHandoffFailed    = "Failed to start craft queue"
	LogMsgPublishFailed         = "Failed to publish crafting event"
)
