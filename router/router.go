package router

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/vipmap/inventory-server/analytics"
	"github.com/vipmap/inventory-server/cache"
	"github.com/vipmap/inventory-server/config"
	"github.com/vipmap/inventory-server/endpoints"
	"github.com/vipmap/inventory-server/geocoding"
	"github.com/vipmap/inventory-server/identity"
	"github.com/vipmap/inventory-server/metrics"
	"github.com/vipmap/inventory-server/sheets"
	"github.com/vipmap/inventory-server/util/timeutil"
)

// Router owns the HTTP mux plus the long-lived collaborators the rest of
// the process needs: the table cache for the periodic sweep, the reconciler
// for its schedule, and the analytics modules for shutdown.
type Router struct {
	*httprouter.Router
	Cache         *cache.Cache
	Fetcher       *sheets.CachedFetcher
	Reconciler    *geocoding.Reconciler
	Analytics     analytics.Module
	MetricsEngine metrics.Engine
	Shutdown      func()
}

func getTransport() *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 10
	return transport
}

// New wires the full request path: sheets client, table cache, identity
// resolver, geocoder, reconciler, analytics, and every endpoint.
func New(cfg *config.Configuration, shutdownCtx context.Context) (*Router, error) {
	clock := &timeutil.RealTime{}

	var metricsEngine metrics.Engine = metrics.NewNilEngine()
	if cfg.Metrics.Enabled {
		metricsEngine = metrics.NewPrometheusEngine(cfg.Metrics.Namespace)
	}

	sheetsClient, err := sheets.NewClient(shutdownCtx, cfg.Sheets)
	if err != nil {
		return nil, err
	}

	tableCache := cache.NewWithConfig(cfg.Cache.TTL(), cfg.Cache.Capacity, clock)
	fetcher := sheets.WithCache(sheetsClient, tableCache, metricsEngine)

	generalHTTPClient := &http.Client{
		Transport: getTransport(),
		Timeout:   10 * time.Second,
	}

	geocoder := geocoding.NewKakaoClient(generalHTTPClient, cfg.Geocoder, metricsEngine)
	reconciler := geocoding.NewReconciler(geocoding.Options{
		Fetcher:       fetcher,
		Writer:        sheetsClient,
		Geocoder:      geocoder,
		Invalidator:   fetcher,
		StoreSheet:    cfg.Sheets.StoreSheet,
		RowDelay:      cfg.Geocoder.RowDelay(),
		MetricsEngine: metricsEngine,
		ShutdownCtx:   shutdownCtx,
	})

	analyticsModule := analytics.New(&cfg.Analytics, generalHTTPClient)
	resolver := identity.NewResolver(fetcher, cfg)

	r := &Router{
		Router:        httprouter.New(),
		Cache:         tableCache,
		Fetcher:       fetcher,
		Reconciler:    reconciler,
		Analytics:     analyticsModule,
		MetricsEngine: metricsEngine,
		Shutdown:      analyticsModule.Shutdown,
	}

	r.HandlerFunc(http.MethodGet, "/", endpoints.NewStatusEndpoint(cfg, tableCache, clock))
	r.HandlerFunc(http.MethodGet, "/api/stores", endpoints.NewStoresEndpoint(fetcher, tableCache, cfg.Sheets, clock))
	r.HandlerFunc(http.MethodGet, "/api/models", endpoints.NewModelsEndpoint(fetcher, tableCache, cfg.Sheets))
	r.HandlerFunc(http.MethodGet, "/api/agents", endpoints.NewAgentsEndpoint(fetcher, tableCache, cfg.Sheets))
	r.HandlerFunc(http.MethodPost, "/api/login", endpoints.NewLoginEndpoint(resolver, analyticsModule, clock))
	r.HandlerFunc(http.MethodPost, "/api/log-activity", endpoints.NewLogActivityEndpoint(analyticsModule, clock))
	r.HandlerFunc(http.MethodPost, "/api/update-coordinates", endpoints.NewUpdateCoordinatesEndpoint(reconciler))
	r.HandlerFunc(http.MethodGet, "/api/cache-status", endpoints.NewCacheStatusEndpoint(tableCache, clock))
	r.HandlerFunc(http.MethodPost, "/api/cache-refresh", endpoints.NewCacheRefreshEndpoint(tableCache, clock))

	return r, nil
}

type NoCache struct {
	Handler http.Handler
}

func (m NoCache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Add("Pragma", "no-cache")
	w.Header().Add("Expires", "0")
	m.Handler.ServeHTTP(w, r)
}

// SupportCORS wraps the router with a permissive CORS policy. Credentialed
// requests are allowed from any origin, matching the map frontend which is
// served from a separate host.
func SupportCORS(handler http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowCredentials: true,
		AllowOriginFunc: func(string) bool {
			return true
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept"}})
	return c.Handler(handler)
}
