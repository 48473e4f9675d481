package metrics

// This file provides a no-op implementation of Engine.
// The server code can use this if it doesn't want to export metrics anywhere.

func NewNilEngine() Engine {
	return &nilEngine{}
}

type nilEngine struct{}

func (m *nilEngine) RecordCacheResult(result CacheResult) {}

func (m *nilEngine) RecordSheetFetch(sheet string, success bool) {}

func (m *nilEngine) RecordGeocodeLookup(result GeocodeResult) {}

func (m *nilEngine) RecordReconcilerPass(success bool, rowsWritten int) {}

func (m *nilEngine) RecordNewConnection() {}

func (m *nilEngine) RecordClosedConnection() {}
