package metrics

import "github.com/prometheus/client_golang/prometheus"

// Extraction and search pipeline Prometheus metrics.
var (
	ExtractionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcing",
			Name:      "extraction_requests_total",
			Help:      "Total number of criteria extraction requests",
		},
		[]string{"model", "mode", "status"}, // mode: "text" / "image"
	)

	ExtractionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sourcing",
			Name:      "extraction_request_duration_seconds",
			Help:      "Criteria extraction request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"model", "mode"},
	)

	ExtractionTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcing",
			Name:      "extraction_tokens_total",
			Help:      "Total extraction model tokens consumed",
		},
		[]string{"model", "type"}, // type: "prompt" / "completion" / "total"
	)

	TaxonomyRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcing",
			Name:      "taxonomy_rejections_total",
			Help:      "Extracted values dropped for not being taxonomy members",
		},
		[]string{"category"},
	)

	WebhookDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcing",
			Name:      "webhook_deliveries_total",
			Help:      "Marketing webhook delivery attempts",
		},
		[]string{"status"}, // "success" / "error"
	)

	SearchResultsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sourcing",
			Name:      "search_results_returned",
			Help:      "Number of ranked results returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers extraction and search metrics.
// Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(ExtractionRequestsTotal)
	prometheus.MustRegister(ExtractionRequestDuration)
	prometheus.MustRegister(ExtractionTokensTotal)
	prometheus.MustRegister(TaxonomyRejectionsTotal)
	prometheus.MustRegister(WebhookDeliveriesTotal)
	prometheus.MustRegister(SearchResultsReturned)
	pipelineMetricsRegistered = true
}
