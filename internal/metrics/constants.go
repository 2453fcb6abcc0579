package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsReceived     = "hud_events_received_total"
	MetricNameEventHandlerErrors = "hud_event_handler_errors_total"
)

// Transfer metric names
const (
	MetricNameTransfersTotal     = "hud_transfers_total"
	MetricNameTransferRejections = "hud_transfer_rejections_total"
	MetricNameRollbacksTotal     = "hud_rollbacks_total"
)

// Crafting metric names
const (
	MetricNameCraftsTotal      = "hud_crafts_total"
	MetricNameCraftQueueLength = "hud_craft_queue_length"
	MetricNameCraftHandoffs    = "hud_craft_handoffs_total"
)

// Bridge and catalog metric names
const (
	MetricNameBridgeRequestDuration = "hud_bridge_request_duration_seconds"
	MetricNameBridgeRequestErrors   = "hud_bridge_request_errors_total"
	MetricNameCatalogMisses         = "hud_catalog_misses_total"
	MetricNamePurchasesTotal        = "hud_purchases_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsReceived     = "Total number of push events received from the host"
	HelpTextEventHandlerErrors = "Total number of push event handler errors"
)

// Transfer metric help text
const (
	HelpTextTransfersTotal     = "Total number of optimistic transfers applied"
	HelpTextTransferRejections = "Total number of transfers rejected before any mutation"
	HelpTextRollbacksTotal     = "Total number of transfers rolled back after host rejection"
)

// Crafting metric help text
const (
	HelpTextCraftsTotal      = "Total number of completed crafting jobs by result"
	HelpTextCraftQueueLength = "Current number of jobs in the crafting queue"
	HelpTextCraftHandoffs    = "Total number of crafting queues handed to the host on close"
)

// Bridge and catalog metric help text
const (
	HelpTextBridgeRequestDuration = "Host bridge request latency in seconds"
	HelpTextBridgeRequestErrors   = "Total number of failed host bridge requests"
	HelpTextCatalogMisses         = "Total number of item lookups that fell back to slot data"
	HelpTextPurchasesTotal        = "Total number of shop checkouts by payment method"
)

// ============================================================================
// Label Names
// ============================================================================

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelKind      = "kind"
	LabelReason    = "reason"
	LabelResult    = "result"
	LabelOperation = "operation"
)

// Label values
const (
	ResultSuccess   = "success"
	ResultFailure   = "failure"
	ResultCancelled = "cancelled"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// BridgeLatencyBuckets covers host round trips from sub-millisecond to the request timeout.
var BridgeLatencyBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 5}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgEventMetricsRegistered = "Event metrics collector registered"
	LogMsgEventPayloadUnreadable = "Event payload could not be read for metrics"
)
