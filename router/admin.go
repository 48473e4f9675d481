package router

import (
	"net/http"
	"net/http/pprof"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vipmap/inventory-server/endpoints"
	"github.com/vipmap/inventory-server/metrics"
)

// Admin builds the mux served on the admin port: version info, pprof, and
// the prometheus scrape endpoint when metrics are enabled.
func Admin(version, revision string, metricsEngine metrics.Engine) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/version", endpoints.NewVersionEndpoint(version, revision))

	if prom, ok := metricsEngine.(*metrics.PrometheusEngine); ok {
		mux.Handle("/metrics", promhttp.HandlerFor(prom.Registry, promhttp.HandlerOpts{}))
	}

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}
