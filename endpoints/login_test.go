package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vipmap/inventory-server/analytics"
	"github.com/vipmap/inventory-server/config"
	"github.com/vipmap/inventory-server/identity"
	"github.com/vipmap/inventory-server/util/timeutil"
)

type recordingAnalytics struct {
	mu         sync.Mutex
	logins     []*analytics.LoginObject
	activities []*analytics.ActivityObject
	received   chan struct{}
}

func newRecordingAnalytics() *recordingAnalytics {
	return &recordingAnalytics{received: make(chan struct{}, 16)}
}

func (r *recordingAnalytics) LogLoginObject(lo *analytics.LoginObject) {
	r.mu.Lock()
	r.logins = append(r.logins, lo)
	r.mu.Unlock()
	r.received <- struct{}{}
}

func (r *recordingAnalytics) LogActivityObject(ao *analytics.ActivityObject) {
	r.mu.Lock()
	r.activities = append(r.activities, ao)
	r.mu.Unlock()
	r.received <- struct{}{}
}

func (r *recordingAnalytics) Shutdown() {}

func (r *recordingAnalytics) waitForLog(t *testing.T) {
	t.Helper()
	select {
	case <-r.received:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for analytics delivery")
	}
}

func loginConfig() *config.Configuration {
	return &config.Configuration{
		Sheets: config.Sheets{
			InventorySheet: "inv",
			StoreSheet:     "stores",
			AgentSheet:     "agents",
		},
		Login: config.Login{
			InventoryIDs:     []string{"JEGO306891"},
			DefaultLatitude:  37.5665,
			DefaultLongitude: 126.9780,
		},
	}
}

func postLogin(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body)))
	return recorder
}

func TestLoginMissingID(t *testing.T) {
	fetcher := newStubFetcher()
	resolver := identity.NewResolver(fetcher, loginConfig())
	handler := NewLoginEndpoint(resolver, newRecordingAnalytics(), timeutil.NewMockClock())

	recorder := postLogin(handler, `{}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Store ID is required")
}

func TestLoginInventoryMode(t *testing.T) {
	fetcher := newStubFetcher()
	resolver := identity.NewResolver(fetcher, loginConfig())
	recording := newRecordingAnalytics()
	handler := NewLoginEndpoint(resolver, recording, timeutil.NewMockClock())

	recorder := postLogin(handler, `{"storeId":"JEGO306891"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.IsInventory)
	assert.False(t, resp.IsAgent)
	require.NotNil(t, resp.StoreInfo)
	assert.Equal(t, "재고관리 모드", resp.StoreInfo.Name)
	assert.Equal(t, 37.5665, resp.StoreInfo.Latitude)

	recording.waitForLog(t)
	assert.Equal(t, analytics.UserKindInventory, recording.logins[0].UserKind)
}

func TestLoginAgent(t *testing.T) {
	fetcher := newStubFetcher()
	seedTables(fetcher)
	resolver := identity.NewResolver(fetcher, loginConfig())
	recording := newRecordingAnalytics()
	handler := NewLoginEndpoint(resolver, recording, timeutil.NewMockClock())

	recorder := postLogin(handler, `{"storeId":"agent01","ipAddress":"10.0.0.1"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.IsAgent)
	require.NotNil(t, resp.AgentInfo)
	assert.Equal(t, "전체", resp.AgentInfo.Target)
	assert.Equal(t, "본사", resp.AgentInfo.Qualification)

	recording.waitForLog(t)
	assert.Equal(t, "10.0.0.1", recording.logins[0].IPAddress)
	assert.Equal(t, "본사", recording.logins[0].Qualification)
}

func TestLoginStore(t *testing.T) {
	fetcher := newStubFetcher()
	seedTables(fetcher)
	resolver := identity.NewResolver(fetcher, loginConfig())
	recording := newRecordingAnalytics()
	handler := NewLoginEndpoint(resolver, recording, timeutil.NewMockClock())

	recorder := postLogin(handler, `{"storeId":"S100"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.False(t, resp.IsAgent)
	require.NotNil(t, resp.StoreInfo)
	assert.Equal(t, "강남점", resp.StoreInfo.Name)
	assert.Equal(t, 37.5, resp.StoreInfo.Latitude)

	recording.waitForLog(t)
	assert.Equal(t, "강남점", recording.logins[0].TargetName)
}

func TestLoginNotFound(t *testing.T) {
	fetcher := newStubFetcher()
	seedTables(fetcher)
	resolver := identity.NewResolver(fetcher, loginConfig())
	recording := newRecordingAnalytics()
	handler := NewLoginEndpoint(resolver, recording, timeutil.NewMockClock())

	recorder := postLogin(handler, `{"storeId":"NOPE"}`)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Store not found")
	assert.Empty(t, recording.logins)
}
