package geocoding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vipmap/inventory-server/sheets"
)

type fakeFetcher struct {
	rows [][]string
	err  error
}

func (f *fakeFetcher) FetchTable(ctx context.Context, name string) ([][]string, error) {
	return f.rows, f.err
}

type fakeWriter struct {
	calls   int
	updates []sheets.RowUpdate
	err     error
}

func (w *fakeWriter) BatchUpdate(ctx context.Context, updates []sheets.RowUpdate) error {
	w.calls++
	w.updates = updates
	return w.err
}

type fakeGeocoder struct {
	results map[string]Result
	errs    map[string]error
	lookups int
}

func (g *fakeGeocoder) Lookup(ctx context.Context, address string) (Result, error) {
	g.lookups++
	if err, ok := g.errs[address]; ok {
		return Result{}, err
	}
	return g.results[address], nil
}

type fakeInvalidator struct {
	invalidated []string
}

func (f *fakeInvalidator) Invalidate(name string) {
	f.invalidated = append(f.invalidated, name)
}

// storeRow builds a store table row with address and status in their
// expected columns.
func storeRow(address, status string) []string {
	return []string{"", "", "", address, status, "", "name", "id"}
}

func TestRunPassMixedRows(t *testing.T) {
	fetcher := &fakeFetcher{rows: [][]string{
		{"header"},
		storeRow("서울시청", "사용"),
		storeRow("", "사용"),
		storeRow("어디든", "미사용"),
	}}
	writer := &fakeWriter{}
	geocoder := &fakeGeocoder{results: map[string]Result{
		"서울시청": {Found: true, Latitude: 37.5, Longitude: 127.0},
	}}
	invalidator := &fakeInvalidator{}

	r := NewReconciler(Options{
		Fetcher:     fetcher,
		Writer:      writer,
		Geocoder:    geocoder,
		Invalidator: invalidator,
		StoreSheet:  "stores",
	})
	written, err := r.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	require.Equal(t, 1, writer.calls, "all updates go out in one batched call")
	require.Len(t, writer.updates, 3)
	assert.Equal(t, sheets.RowUpdate{Range: "stores!A2:B2", Values: []interface{}{37.5, 127.0}}, writer.updates[0])
	assert.Equal(t, sheets.RowUpdate{Range: "stores!A3:B3", Values: []interface{}{"", ""}}, writer.updates[1])
	assert.Equal(t, sheets.RowUpdate{Range: "stores!A4:B4", Values: []interface{}{"", ""}}, writer.updates[2])
	assert.Equal(t, 1, geocoder.lookups, "only the addressed active row is geocoded")
	assert.Equal(t, []string{"stores"}, invalidator.invalidated)
}

func TestRunPassGeocodeFailureClearsAndContinues(t *testing.T) {
	fetcher := &fakeFetcher{rows: [][]string{
		{"header"},
		storeRow("깨진주소", "사용"),
		storeRow("서울시청", "사용"),
	}}
	writer := &fakeWriter{}
	geocoder := &fakeGeocoder{
		results: map[string]Result{"서울시청": {Found: true, Latitude: 37.5, Longitude: 127.0}},
		errs:    map[string]error{"깨진주소": errors.New("boom")},
	}

	r := NewReconciler(Options{Fetcher: fetcher, Writer: writer, Geocoder: geocoder, StoreSheet: "stores"})
	_, err := r.RunPass(context.Background())
	require.NoError(t, err)

	require.Len(t, writer.updates, 2)
	assert.Equal(t, []interface{}{"", ""}, writer.updates[0].Values, "failed lookup degrades to a clear")
	assert.Equal(t, []interface{}{37.5, 127.0}, writer.updates[1].Values)
}

func TestRunPassNoResultClears(t *testing.T) {
	fetcher := &fakeFetcher{rows: [][]string{
		{"header"},
		storeRow("존재하지않는주소", "사용"),
	}}
	writer := &fakeWriter{}
	geocoder := &fakeGeocoder{} // every lookup comes back not found

	r := NewReconciler(Options{Fetcher: fetcher, Writer: writer, Geocoder: geocoder, StoreSheet: "stores"})
	_, err := r.RunPass(context.Background())
	require.NoError(t, err)

	require.Len(t, writer.updates, 1)
	assert.Equal(t, []interface{}{"", ""}, writer.updates[0].Values)
}

func TestRunPassWhitespaceAddressTreatedAsBlank(t *testing.T) {
	fetcher := &fakeFetcher{rows: [][]string{
		{"header"},
		storeRow("   ", "사용"),
	}}
	writer := &fakeWriter{}
	geocoder := &fakeGeocoder{}

	r := NewReconciler(Options{Fetcher: fetcher, Writer: writer, Geocoder: geocoder, StoreSheet: "stores"})
	_, err := r.RunPass(context.Background())
	require.NoError(t, err)

	assert.Zero(t, geocoder.lookups)
	require.Len(t, writer.updates, 1)
	assert.Equal(t, []interface{}{"", ""}, writer.updates[0].Values)
}

func TestRunPassBatchFailureAborts(t *testing.T) {
	fetcher := &fakeFetcher{rows: [][]string{
		{"header"},
		storeRow("서울시청", "사용"),
	}}
	writer := &fakeWriter{err: errors.New("write failed")}
	geocoder := &fakeGeocoder{results: map[string]Result{"서울시청": {Found: true, Latitude: 37.5, Longitude: 127.0}}}
	invalidator := &fakeInvalidator{}

	r := NewReconciler(Options{Fetcher: fetcher, Writer: writer, Geocoder: geocoder, Invalidator: invalidator, StoreSheet: "stores"})
	_, err := r.RunPass(context.Background())
	require.Error(t, err)

	assert.Empty(t, invalidator.invalidated, "a failed batch must not invalidate the cached snapshot")
}

func TestRunPassFetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("fetch failed")}
	writer := &fakeWriter{}

	r := NewReconciler(Options{Fetcher: fetcher, Writer: writer, Geocoder: &fakeGeocoder{}, StoreSheet: "stores"})
	_, err := r.RunPass(context.Background())
	require.Error(t, err)
	assert.Zero(t, writer.calls)
}

func TestRunPassCancellation(t *testing.T) {
	fetcher := &fakeFetcher{rows: [][]string{
		{"header"},
		storeRow("서울시청", "사용"),
		storeRow("강남역", "사용"),
	}}
	writer := &fakeWriter{}
	geocoder := &fakeGeocoder{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewReconciler(Options{
		Fetcher:    fetcher,
		Writer:     writer,
		Geocoder:   geocoder,
		StoreSheet: "stores",
		RowDelay:   time.Hour,
	})
	_, err := r.RunPass(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, writer.calls, "a cancelled pass writes nothing")
}

func TestRunUsesShutdownContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{rows: [][]string{
		{"header"},
		storeRow("서울시청", "사용"),
	}}
	r := NewReconciler(Options{
		Fetcher:     fetcher,
		Writer:      &fakeWriter{},
		Geocoder:    &fakeGeocoder{},
		StoreSheet:  "stores",
		RowDelay:    time.Hour,
		ShutdownCtx: ctx,
	})
	require.ErrorIs(t, r.Run(), context.Canceled)
}
