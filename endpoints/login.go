package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/golang/glog"

	"github.com/vipmap/inventory-server/analytics"
	"github.com/vipmap/inventory-server/errortypes"
	"github.com/vipmap/inventory-server/identity"
	"github.com/vipmap/inventory-server/inventory"
	"github.com/vipmap/inventory-server/util/timeutil"
)

type loginRequest struct {
	StoreID    string `json:"storeId"`
	DeviceInfo string `json:"deviceInfo"`
	IPAddress  string `json:"ipAddress"`
	Location   string `json:"location"`
}

type loginStoreInfo struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Manager   string  `json:"manager"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Phone     string  `json:"phone"`
}

type loginResponse struct {
	Success     bool             `json:"success"`
	IsAgent     bool             `json:"isAgent"`
	IsInventory bool             `json:"isInventory,omitempty"`
	StoreInfo   *loginStoreInfo  `json:"storeInfo,omitempty"`
	AgentInfo   *inventory.Agent `json:"agentInfo,omitempty"`
}

type loginFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewLoginEndpoint resolves a login identifier against the reserved
// inventory ids, the agent table, and the store table, in that order.
func NewLoginEndpoint(resolver *identity.Resolver, analyticsModule analytics.Module, clock timeutil.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, loginFailure{Error: "Store ID is required"})
			return
		}

		resolved, err := resolver.Resolve(r.Context(), req.StoreID)
		if err != nil {
			switch errortypes.ReadCode(err) {
			case errortypes.BadInputErrorCode:
				writeJSON(w, http.StatusBadRequest, loginFailure{Error: "Store ID is required"})
				return
			case errortypes.NotFoundErrorCode:
				writeJSON(w, http.StatusNotFound, loginFailure{Error: "Store not found"})
				return
			}
			glog.Errorf("endpoints: login for %q failed: %v", req.StoreID, err)
			writeJSON(w, http.StatusInternalServerError, loginFailure{Error: "Login failed", Message: err.Error()})
			return
		}

		go analyticsModule.LogLoginObject(loginObject(&req, resolved, clock))

		switch resolved.Kind {
		case identity.KindAgent:
			writeJSON(w, http.StatusOK, loginResponse{
				Success:   true,
				IsAgent:   true,
				AgentInfo: resolved.Agent,
			})
		case identity.KindInventory:
			writeJSON(w, http.StatusOK, loginResponse{
				Success:     true,
				IsInventory: true,
				StoreInfo:   storeInfo(resolved.Store),
			})
		default:
			writeJSON(w, http.StatusOK, loginResponse{
				Success:   true,
				StoreInfo: storeInfo(resolved.Store),
			})
		}
	}
}

func storeInfo(s *inventory.Store) *loginStoreInfo {
	return &loginStoreInfo{
		ID:        s.ID,
		Name:      s.Name,
		Manager:   s.Manager,
		Address:   s.Address,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		Phone:     s.Phone,
	}
}

func loginObject(req *loginRequest, resolved *identity.Identity, clock timeutil.Time) *analytics.LoginObject {
	lo := &analytics.LoginObject{
		UserID:     req.StoreID,
		UserKind:   string(resolved.Kind),
		IPAddress:  req.IPAddress,
		Location:   req.Location,
		DeviceInfo: req.DeviceInfo,
		Success:    true,
		Time:       clock.Now(),
	}
	switch resolved.Kind {
	case identity.KindAgent:
		lo.TargetName = resolved.Agent.Target
		lo.Qualification = resolved.Agent.Qualification
	case identity.KindStore:
		lo.TargetName = resolved.Store.Name
		lo.Manager = resolved.Store.Manager
	}
	return lo
}
