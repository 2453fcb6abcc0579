package catalog

import "time"

// Defaults
const (
	DefaultMissingCacheSize = 512
	DefaultFetchTimeout     = 5 * time.Second
	DefaultPrefetchLimit    = 8
)

// Log messages
const (
	LogMsgItemDataMissing   = "Item data missing, falling back to slot data"
	LogMsgItemFetchFailed   = "Failed to fetch item data"
	LogMsgItemFetched       = "Item data fetched"
	LogMsgItemCountUnknown  = "Item count update for unknown item"
	LogMsgCatalogLoaded     = "Item catalog loaded"
	LogMsgCatalogReset      = "Item catalog reset"
	LogMsgPrefetchCompleted = "Item prefetch completed"
)
