package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vipmap/inventory-server/cache"
	"github.com/vipmap/inventory-server/config"
	"github.com/vipmap/inventory-server/inventory"
	"github.com/vipmap/inventory-server/util/timeutil"
)

type stubFetcher struct {
	tables map[string][][]string
	errs   map[string]error
	calls  map[string]int
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		tables: map[string][][]string{},
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

func (f *stubFetcher) FetchTable(ctx context.Context, name string) ([][]string, error) {
	f.calls[name]++
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	return f.tables[name], nil
}

func inventoryRow(typ, model, color, status, store, shipDate string) []string {
	row := make([]string, 15)
	row[4] = typ
	row[5] = model
	row[6] = color
	row[7] = status
	row[13] = store
	row[14] = shipDate
	return row
}

func storeRow(lat, lon, address, status, name, id string) []string {
	row := make([]string, 14)
	row[0] = lat
	row[1] = lon
	row[3] = address
	row[4] = status
	row[6] = name
	row[7] = id
	return row
}

var testSheets = config.Sheets{
	InventorySheet: "inv",
	StoreSheet:     "stores",
	AgentSheet:     "agents",
}

func seedTables(f *stubFetcher) {
	f.tables["inv"] = [][]string{
		{"h"}, {"h"}, {"h"},
		inventoryRow("단말기", "SM-S928N", "블랙", "정상", "강남점", ""),
		inventoryRow("유심", "USIM-4FF", "화이트", "정상", "강남점", ""),
	}
	f.tables["stores"] = [][]string{
		{"h"},
		storeRow("37.5", "127.0", "서울 강남구", "사용", "강남점", "S100"),
		storeRow("", "", "", "미사용", "폐점", "S200"),
	}
	f.tables["agents"] = [][]string{
		{"h"},
		{"전체", "본사", "agent01"},
	}
}

func TestStoresEndpoint(t *testing.T) {
	fetcher := newStubFetcher()
	seedTables(fetcher)
	store := cache.New()
	handler := NewStoresEndpoint(fetcher, store, testSheets, timeutil.NewMockClock())

	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(http.MethodGet, "/api/stores", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var stores []inventory.Store
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &stores))
	require.Len(t, stores, 1)
	assert.Equal(t, "S100", stores[0].ID)
	assert.Equal(t, "S100_강남점", stores[0].UniqueID)
	assert.Equal(t, 1, stores[0].Inventory.Count("phones", "SM-S928N", "정상", "블랙"))
	assert.Equal(t, 1, stores[0].Inventory.Count("sims", "USIM-4FF", "정상", "화이트"))
}

func TestStoresEndpointCachesProcessedResult(t *testing.T) {
	fetcher := newStubFetcher()
	seedTables(fetcher)
	store := cache.New()
	handler := NewStoresEndpoint(fetcher, store, testSheets, timeutil.NewMockClock())

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/stores", nil))
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/stores", nil))

	assert.Equal(t, 1, fetcher.calls["inv"], "second request must hit the processed cache")

	// A different includeShipped flag is a different cache entry.
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/stores?includeShipped=false", nil))
	assert.Equal(t, 2, fetcher.calls["inv"])
}

func TestStoresEndpointExcludesRecentlyShipped(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	fetcher := newStubFetcher()
	fetcher.tables["inv"] = [][]string{
		{"h"}, {"h"}, {"h"},
		inventoryRow("단말기", "SM-S928N", "블랙", "정상", "강남점", "2024-03-09"),
	}
	fetcher.tables["stores"] = [][]string{
		{"h"},
		storeRow("37.5", "127.0", "서울", "사용", "강남점", "S100"),
	}
	store := cache.New()
	handler := NewStoresEndpoint(fetcher, store, testSheets, timeutil.NewMockClockAt(now))

	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(http.MethodGet, "/api/stores?includeShipped=false", nil))

	var stores []inventory.Store
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &stores))
	require.Len(t, stores, 1)
	assert.Zero(t, stores[0].Inventory.Count("phones", "SM-S928N", "정상", "블랙"))
}

func TestStoresEndpointFetchError(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.errs["inv"] = errors.New("sheet unavailable")
	handler := NewStoresEndpoint(fetcher, cache.New(), testSheets, timeutil.NewMockClock())

	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(http.MethodGet, "/api/stores", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Failed to fetch store data")
}

func TestModelsEndpoint(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.tables["inv"] = [][]string{
		{"h"}, {"h"}, {"h"},
		inventoryRow("단말기", "SM-S928N", "블랙", "정상", "강남점", ""),
		inventoryRow("단말기", "SM-S928N", "화이트", "정상", "서초점", ""),
		inventoryRow("단말기", "SM-S928N", "레드", "불량", "서초점", ""),
	}
	store := cache.New()
	handler := NewModelsEndpoint(fetcher, store, testSheets)

	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(http.MethodGet, "/api/models", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var models map[string][]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &models))
	assert.Equal(t, []string{"블랙", "화이트"}, models["SM-S928N"], "defective units stay out of the model list")

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/models", nil))
	assert.Equal(t, 1, fetcher.calls["inv"])
}

func TestAgentsEndpoint(t *testing.T) {
	fetcher := newStubFetcher()
	seedTables(fetcher)
	store := cache.New()
	handler := NewAgentsEndpoint(fetcher, store, testSheets)

	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(http.MethodGet, "/api/agents", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var agents []inventory.Agent
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &agents))
	require.Len(t, agents, 1)
	assert.Equal(t, "agent01", agents[0].ContactID)
}
