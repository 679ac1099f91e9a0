package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "academy_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"route", "status"})
	HTTPRequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "academy_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000},
	}, []string{"route"})
	SearchCandidatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academy_search_candidates_total",
		Help: "Total candidates fetched by geohash range queries",
	})
	SearchResultsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academy_search_results_total",
		Help: "Total items returned after filtering and grouping",
	})
	GeocodeRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academy_geocode_requests_total",
		Help: "Total geocoder REST requests",
	})
	GeocodeSuccessTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academy_geocode_success_total",
		Help: "Total geocoder requests that resolved an address",
	})
	GeocodeNotFoundTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academy_geocode_not_found_total",
		Help: "Total geocoder requests with no matching address",
	})
	GeocodeFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academy_geocode_fail_total",
		Help: "Total geocoder request failures",
	})
	GeocodeDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "academy_geocode_duration_ms",
		Help:    "Geocoder REST call duration in milliseconds",
		Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000, 2000},
	})
	GeocodeCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academy_geocode_cache_hits_total",
		Help: "Total geocode cache hits",
	})
	GeocodeCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academy_geocode_cache_misses_total",
		Help: "Total geocode cache misses",
	})
	RegistryPagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academy_registry_pages_total",
		Help: "Total registry pages fetched",
	})
	BatchCommitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academy_batch_commits_total",
		Help: "Total successful batch commits",
	})
	BatchMutationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academy_batch_mutations_total",
		Help: "Total mutations written by batch commits",
	})
	BatchFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academy_batch_failures_total",
		Help: "Total failed batch commits",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationMs,
		SearchCandidatesTotal,
		SearchResultsTotal,
		GeocodeRequestsTotal,
		GeocodeSuccessTotal,
		GeocodeNotFoundTotal,
		GeocodeFailTotal,
		GeocodeDurationMs,
		GeocodeCacheHitsTotal,
		GeocodeCacheMissesTotal,
		RegistryPagesTotal,
		BatchCommitsTotal,
		BatchMutationsTotal,
		BatchFailuresTotal,
	)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
