package endpoints

import (
	"context"
	"fmt"
	"net/http"

	"github.com/golang/glog"
)

type passRunner interface {
	RunPass(ctx context.Context) (int, error)
}

type coordinatesResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewUpdateCoordinatesEndpoint triggers a reconciliation pass on demand. The
// pass runs synchronously; a trigger issued while a scheduled pass is in
// flight waits its turn.
func NewUpdateCoordinatesEndpoint(runner passRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		written, err := runner.RunPass(r.Context())
		if err != nil {
			glog.Errorf("endpoints: coordinate update failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
				Message string `json:"message"`
			}{false, "Failed to update coordinates", err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, coordinatesResponse{
			Success: true,
			Message: fmt.Sprintf("Updated coordinates for %d addresses", written),
		})
	}
}
