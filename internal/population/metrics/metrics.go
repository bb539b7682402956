package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	QueriesTotal  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	RecordsLoaded prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		QueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "refugeflow_population_queries_total",
			Help: "Total number of population aggregation queries by shape",
		}, []string{"shape"}),
		QueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "refugeflow_population_query_duration_seconds",
			Help:    "Duration of population aggregation queries by shape",
			Buckets: prometheus.DefBuckets,
		}, []string{"shape"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "refugeflow_population_cache_hits_total",
			Help: "Total number of aggregation results served from cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "refugeflow_population_cache_misses_total",
			Help: "Total number of aggregation cache lookups that missed",
		}),
		RecordsLoaded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "refugeflow_population_records_loaded_total",
			Help: "Total number of population fact rows written by the importer",
		}),
	}
}

func (m *Metrics) ObserveQuery(shape string, start time.Time) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(shape).Inc()
	m.QueryDuration.WithLabelValues(shape).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementCacheHits() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

func (m *Metrics) IncrementCacheMisses() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

func (m *Metrics) AddRecordsLoaded(n int) {
	if m == nil {
		return
	}
	m.RecordsLoaded.Add(float64(n))
}
