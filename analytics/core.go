package analytics

import (
	"encoding/json"
	"time"

	"github.com/golang/glog"
)

// Module must be implemented by analytics modules. A module receives every
// loggable object; delivery failures stay inside the module and never
// surface to the request path.
type Module interface {
	LogLoginObject(*LoginObject)
	LogActivityObject(*ActivityObject)
	Shutdown()
}

// User kinds carried on loggable objects. They match the identity resolver's
// tiers and select the delivery channel for channel-aware modules.
const (
	UserKindInventory = "inventory"
	UserKindAgent     = "agent"
	UserKindStore     = "store"
)

// Activity names accepted by the activity log endpoint.
const (
	ActivityLogin       = "login"
	ActivitySearch      = "search"
	ActivityCallButton  = "call_button"
	ActivityKakaoButton = "kakao_button"
)

// Loggable object of a transaction at /api/login
type LoginObject struct {
	UserID        string    `json:"userId"`
	UserKind      string    `json:"userType"`
	TargetName    string    `json:"targetName,omitempty"`
	Qualification string    `json:"qualification,omitempty"`
	Manager       string    `json:"manager,omitempty"`
	IPAddress     string    `json:"ipAddress,omitempty"`
	Location      string    `json:"location,omitempty"`
	DeviceInfo    string    `json:"deviceInfo,omitempty"`
	Success       bool      `json:"success"`
	Time          time.Time `json:"time"`
}

// Loggable object of a transaction at /api/log-activity
type ActivityObject struct {
	UserID      string    `json:"userId"`
	UserKind    string    `json:"userType"`
	TargetName  string    `json:"targetName,omitempty"`
	IPAddress   string    `json:"ipAddress,omitempty"`
	Location    string    `json:"location,omitempty"`
	DeviceInfo  string    `json:"deviceInfo,omitempty"`
	Activity    string    `json:"activity"`
	Model       string    `json:"model,omitempty"`
	ColorName   string    `json:"colorName,omitempty"`
	CallButton  string    `json:"callButton,omitempty"`
	KakaoButton bool      `json:"kakaoButton,omitempty"`
	Time        time.Time `json:"time"`
}

func (l *LoginObject) ToJson() string {
	return toJSON(l, "LoginObject")
}

func (a *ActivityObject) ToJson() string {
	return toJSON(a, "ActivityObject")
}

func toJSON(v interface{}, name string) string {
	content, err := json.Marshal(v)
	if err != nil {
		glog.Errorf("Transactional logs error: %s couldn't marshal to JSON", name)
		return ""
	}
	return string(content)
}
