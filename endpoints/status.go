package endpoints

import (
	"net/http"

	"github.com/vipmap/inventory-server/cache"
	"github.com/vipmap/inventory-server/config"
	"github.com/vipmap/inventory-server/util/timeutil"
)

type statusResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Cache     cache.Status      `json:"cache"`
	Env       map[string]string `json:"env"`
}

func setOrNot(value string) string {
	if value == "" {
		return "NOT SET"
	}
	return "SET"
}

// NewStatusEndpoint reports liveness plus a redacted view of the critical
// configuration, enough to spot a missing credential without leaking one.
func NewStatusEndpoint(cfg *config.Configuration, store *cache.Cache, clock timeutil.Time) http.HandlerFunc {
	env := map[string]string{
		"SHEET_ID":              setOrNot(cfg.Sheets.SpreadsheetID),
		"SERVICE_ACCOUNT_EMAIL": setOrNot(cfg.Sheets.ServiceAccountEmail),
		"PRIVATE_KEY":           setOrNot(cfg.Sheets.PrivateKey),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse{
			Status:    "Server is running",
			Timestamp: timestamp(clock.Now()),
			Cache:     store.Status(),
			Env:       env,
		})
	}
}
