package olx

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for one crawl. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	Registry           *prometheus.Registry
	PagesCrawled       prometheus.Counter
	LinksDiscovered    prometheus.Counter
	DetailsScraped     prometheus.Counter
	DetailErrors       *prometheus.CounterVec
	ChallengesDetected prometheus.Counter
	FetchDuration      prometheus.Histogram
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "olx_pages_crawled_total",
		Help: "Result pages fetched during the crawl phase.",
	})
	links := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "olx_links_discovered_total",
		Help: "Unique listing links discovered across result pages.",
	})
	details := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "olx_details_scraped_total",
		Help: "Ad detail pages fetched and parsed successfully.",
	})
	detailErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "olx_detail_errors_total",
			Help: "Detail fetches degraded to link-only records, by error type.",
		},
		[]string{"error_type"},
	)
	challenges := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "olx_challenges_detected_total",
		Help: "Anti-bot verification pages encountered.",
	})
	fetchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "olx_detail_fetch_duration_seconds",
		Help:    "Wall time of each detail fetch, retries included.",
		Buckets: prometheus.DefBuckets,
	})

	registry.MustRegister(pages, links, details, detailErrors, challenges, fetchDuration)

	return &Metrics{
		Registry:           registry,
		PagesCrawled:       pages,
		LinksDiscovered:    links,
		DetailsScraped:     details,
		DetailErrors:       detailErrors,
		ChallengesDetected: challenges,
		FetchDuration:      fetchDuration,
	}
}

func (m *Metrics) IncPage() {
	if m == nil {
		return
	}
	m.PagesCrawled.Inc()
}

func (m *Metrics) AddLinks(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.LinksDiscovered.Add(float64(n))
}

func (m *Metrics) IncDetail() {
	if m == nil {
		return
	}
	m.DetailsScraped.Inc()
}

func (m *Metrics) IncDetailError(errorType string) {
	if m == nil {
		return
	}
	m.DetailErrors.WithLabelValues(errorType).Inc()
}

func (m *Metrics) IncChallenge() {
	if m == nil {
		return
	}
	m.ChallengesDetected.Inc()
}

func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}
