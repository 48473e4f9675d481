package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/golang/glog"

	"github.com/vipmap/inventory-server/analytics"
	"github.com/vipmap/inventory-server/util/timeutil"
)

type activityRequest struct {
	UserID      string `json:"userId"`
	UserType    string `json:"userType"`
	TargetName  string `json:"targetName"`
	IPAddress   string `json:"ipAddress"`
	Location    string `json:"location"`
	DeviceInfo  string `json:"deviceInfo"`
	Activity    string `json:"activity"`
	Model       string `json:"model"`
	ColorName   string `json:"colorName"`
	CallButton  string `json:"callButton"`
	KakaoButton bool   `json:"kakaoButton"`
}

// NewLogActivityEndpoint accepts client activity reports. The response is
// written immediately; delivery to the analytics modules happens in the
// background and its failures never reach the client.
func NewLogActivityEndpoint(analyticsModule analytics.Module, clock timeutil.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req activityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			glog.Warningf("endpoints: discarding malformed activity report: %v", err)
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

		userKind := req.UserType
		if userKind == "" {
			userKind = analytics.UserKindStore
		}
		go analyticsModule.LogActivityObject(&analytics.ActivityObject{
			UserID:      req.UserID,
			UserKind:    userKind,
			TargetName:  req.TargetName,
			IPAddress:   req.IPAddress,
			Location:    req.Location,
			DeviceInfo:  req.DeviceInfo,
			Activity:    req.Activity,
			Model:       req.Model,
			ColorName:   req.ColorName,
			CallButton:  req.CallButton,
			KakaoButton: req.KakaoButton,
			Time:        clock.Now(),
		})
	}
}
