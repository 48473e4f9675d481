package endpoints

import (
	"net/http"

	"github.com/golang/glog"

	"github.com/vipmap/inventory-server/cache"
	"github.com/vipmap/inventory-server/config"
	"github.com/vipmap/inventory-server/inventory"
	"github.com/vipmap/inventory-server/sheets"
	"github.com/vipmap/inventory-server/util/timeutil"
)

const (
	storesCacheKeyPrefix = "processed_stores_data_"
	modelsCacheKey       = "processed_models_data"
	agentsCacheKey       = "processed_agents_data"
)

// NewStoresEndpoint serves the active store list with per-store inventory
// trees. The includeShipped query parameter (default "true") controls
// whether recently shipped units count as stock; each flag value caches its
// own processed result.
func NewStoresEndpoint(fetcher sheets.Fetcher, store *cache.Cache, cfg config.Sheets, clock timeutil.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeShipped := r.URL.Query().Get("includeShipped")
		if includeShipped == "" {
			includeShipped = "true"
		}
		cacheKey := storesCacheKeyPrefix + includeShipped

		if cached, ok := store.Get(cacheKey); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}

		ctx := r.Context()
		inventoryRows, err := fetcher.FetchTable(ctx, cfg.InventorySheet)
		if err != nil {
			glog.Errorf("endpoints: fetching inventory table: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch store data", err)
			return
		}
		storeRows, err := fetcher.FetchTable(ctx, cfg.StoreSheet)
		if err != nil {
			glog.Errorf("endpoints: fetching store table: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch store data", err)
			return
		}

		stores := inventory.Aggregate(inventoryRows, storeRows, inventory.Options{
			ExcludeRecentlyShipped: includeShipped == "false",
			Now:                    clock.Now(),
		})

		store.Set(cacheKey, stores)
		writeJSON(w, http.StatusOK, stores)
	}
}

// NewModelsEndpoint serves the model-to-colors map built from units in
// normal condition.
func NewModelsEndpoint(fetcher sheets.Fetcher, store *cache.Cache, cfg config.Sheets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cached, ok := store.Get(modelsCacheKey); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}

		inventoryRows, err := fetcher.FetchTable(r.Context(), cfg.InventorySheet)
		if err != nil {
			glog.Errorf("endpoints: fetching inventory table: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch model and color data", err)
			return
		}

		models := inventory.ModelColors(inventoryRows)
		store.Set(modelsCacheKey, models)
		writeJSON(w, http.StatusOK, models)
	}
}

// NewAgentsEndpoint serves the agent id list.
func NewAgentsEndpoint(fetcher sheets.Fetcher, store *cache.Cache, cfg config.Sheets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cached, ok := store.Get(agentsCacheKey); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}

		agentRows, err := fetcher.FetchTable(r.Context(), cfg.AgentSheet)
		if err != nil {
			glog.Errorf("endpoints: fetching agent table: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch agent data", err)
			return
		}

		agents := inventory.Agents(agentRows)
		store.Set(agentsCacheKey, agents)
		writeJSON(w, http.StatusOK, agents)
	}
}
