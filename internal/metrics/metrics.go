package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsReceived,
			Help: HelpTextEventsReceived,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Transfer Metrics
var (
	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTransfersTotal,
			Help: HelpTextTransfersTotal,
		},
		[]string{LabelKind},
	)

	TransferRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTransferRejections,
			Help: HelpTextTransferRejections,
		},
		[]string{LabelReason},
	)

	RollbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRollbacksTotal,
			Help: HelpTextRollbacksTotal,
		},
	)
)

// Crafting Metrics
var (
	CraftsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCraftsTotal,
			Help: HelpTextCraftsTotal,
		},
		[]string{LabelResult},
	)

	CraftQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameCraftQueueLength,
			Help: HelpTextCraftQueueLength,
		},
	)

	CraftHandoffs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCraftHandoffs,
			Help: HelpTextCraftHandoffs,
		},
	)
)

// Bridge, Catalog and Shop Metrics
var (
	BridgeRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameBridgeRequestDuration,
			Help:    HelpTextBridgeRequestDuration,
			Buckets: BridgeLatencyBuckets,
		},
		[]string{LabelOperation},
	)

	BridgeRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBridgeRequestErrors,
			Help: HelpTextBridgeRequestErrors,
		},
		[]string{LabelOperation},
	)

	CatalogMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCatalogMisses,
			Help: HelpTextCatalogMisses,
		},
	)

	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePurchasesTotal,
			Help: HelpTextPurchasesTotal,
		},
		[]string{LabelMethod},
	)
)
