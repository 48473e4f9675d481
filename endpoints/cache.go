package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vipmap/inventory-server/cache"
	"github.com/vipmap/inventory-server/sheets"
	"github.com/vipmap/inventory-server/util/timeutil"
)

type cacheStatusResponse struct {
	Status    string       `json:"status"`
	Cache     cache.Status `json:"cache"`
	Timestamp string       `json:"timestamp"`
}

// NewCacheStatusEndpoint reports entry counts of the table cache.
func NewCacheStatusEndpoint(store *cache.Cache, clock timeutil.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cacheStatusResponse{
			Status:    "success",
			Cache:     store.Status(),
			Timestamp: timestamp(clock.Now()),
		})
	}
}

type cacheRefreshRequest struct {
	Sheet string `json:"sheet"`
}

type cacheRefreshResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewCacheRefreshEndpoint drops one sheet's cached snapshot, or sweeps every
// expired entry when no sheet is named.
func NewCacheRefreshEndpoint(store *cache.Cache, clock timeutil.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cacheRefreshRequest
		// An empty or absent body means a full sweep.
		_ = json.NewDecoder(r.Body).Decode(&req)

		message := "전체 캐시 새로고침 완료"
		if req.Sheet != "" {
			store.Delete(sheets.CacheKey(req.Sheet))
			message = fmt.Sprintf("캐시 새로고침 완료: %s", req.Sheet)
		} else {
			store.Cleanup()
		}

		writeJSON(w, http.StatusOK, cacheRefreshResponse{
			Status:    "success",
			Message:   message,
			Timestamp: timestamp(clock.Now()),
		})
	}
}
