package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusEngine exports observations through a prometheus registry,
// served on the admin mux.
type PrometheusEngine struct {
	Registry *prometheus.Registry

	cacheResults      *prometheus.CounterVec
	sheetFetches      *prometheus.CounterVec
	geocodeLookups    *prometheus.CounterVec
	reconcilerPass    *prometheus.CounterVec
	reconcilerRows    prometheus.Counter
	connectionsOpened prometheus.Counter
	connectionsClosed prometheus.Counter
}

func NewPrometheusEngine(namespace string) *PrometheusEngine {
	registry := prometheus.NewRegistry()

	eng := &PrometheusEngine{
		Registry: registry,
		cacheResults: newCounterVec(registry, namespace, "table_cache_results",
			"Count of table cache lookups by hit/miss.", []string{"result"}),
		sheetFetches: newCounterVec(registry, namespace, "sheet_fetches",
			"Count of spreadsheet network reads by sheet and success.", []string{"sheet", "success"}),
		geocodeLookups: newCounterVec(registry, namespace, "geocode_lookups",
			"Count of geocoder calls by outcome.", []string{"result"}),
		reconcilerPass: newCounterVec(registry, namespace, "reconciler_passes",
			"Count of coordinate reconciliation passes by success.", []string{"success"}),
	}
	eng.reconcilerRows = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconciler_rows_written",
		Help:      "Total row updates submitted by reconciliation passes.",
	})
	registry.MustRegister(eng.reconcilerRows)
	eng.connectionsOpened = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connections_opened",
		Help:      "Count of TCP connections accepted by the main server.",
	})
	registry.MustRegister(eng.connectionsOpened)
	eng.connectionsClosed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connections_closed",
		Help:      "Count of TCP connections closed by the main server.",
	})
	registry.MustRegister(eng.connectionsClosed)

	// Pre-populate the low-cardinality label values so dashboards see zeroes.
	for _, result := range CacheResults() {
		eng.cacheResults.WithLabelValues(string(result))
	}
	for _, result := range GeocodeResults() {
		eng.geocodeLookups.WithLabelValues(string(result))
	}

	return eng
}

func newCounterVec(registry *prometheus.Registry, namespace, name, help string, labels []string) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, labels)
	registry.MustRegister(counter)
	return counter
}

func (m *PrometheusEngine) RecordCacheResult(result CacheResult) {
	m.cacheResults.WithLabelValues(string(result)).Inc()
}

func (m *PrometheusEngine) RecordSheetFetch(sheet string, success bool) {
	m.sheetFetches.WithLabelValues(sheet, strconv.FormatBool(success)).Inc()
}

func (m *PrometheusEngine) RecordGeocodeLookup(result GeocodeResult) {
	m.geocodeLookups.WithLabelValues(string(result)).Inc()
}

func (m *PrometheusEngine) RecordReconcilerPass(success bool, rowsWritten int) {
	m.reconcilerPass.WithLabelValues(strconv.FormatBool(success)).Inc()
	m.reconcilerRows.Add(float64(rowsWritten))
}

func (m *PrometheusEngine) RecordNewConnection() {
	m.connectionsOpened.Inc()
}

func (m *PrometheusEngine) RecordClosedConnection() {
	m.connectionsClosed.Inc()
}
