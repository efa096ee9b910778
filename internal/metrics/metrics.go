package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_dashboard_provider_calls_total",
			Help: "Total WeatherAPI forecast calls",
		},
		[]string{"status"},
	)

	ProviderCallLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weather_dashboard_provider_call_latency_seconds",
			Help:    "WeatherAPI forecast call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_dashboard_cache_hits_total",
			Help: "Forecast cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_dashboard_cache_misses_total",
			Help: "Forecast cache misses, including expired entries",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_dashboard_cache_evictions_total",
			Help: "Forecast cache entries evicted at the size bound",
		},
	)

	HistoryRowsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_dashboard_history_rows_recorded_total",
			Help: "Daily history rows written after a successful fetch",
		},
	)
)
