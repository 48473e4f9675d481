// Package endpoints contains the HTTP handlers of the lookup server. Each
// handler is built by a New*Endpoint constructor taking its collaborators.
package endpoints

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang/glog"
)

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		glog.Errorf("endpoints: writing response: %v", err)
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, statusCode int, errName string, err error) {
	resp := errorResponse{Error: errName}
	if err != nil {
		resp.Message = err.Error()
	}
	writeJSON(w, statusCode, resp)
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
