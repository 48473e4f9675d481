package metrics

// Engine is the interface the rest of the server records observations
// through. Implementations must be safe for concurrent use.
type Engine interface {
	// RecordCacheResult counts a table-cache hit or miss.
	RecordCacheResult(result CacheResult)

	// RecordSheetFetch counts one network read of the named sheet.
	RecordSheetFetch(sheet string, success bool)

	// RecordGeocodeLookup counts one geocoder call by outcome.
	RecordGeocodeLookup(result GeocodeResult)

	// RecordReconcilerPass counts one full reconciliation pass and the number
	// of row updates it submitted.
	RecordReconcilerPass(success bool, rowsWritten int)

	// RecordNewConnection counts an accepted TCP connection.
	RecordNewConnection()

	// RecordClosedConnection counts a closed TCP connection.
	RecordClosedConnection()
}

// CacheResult is the outcome of a table-cache lookup.
type CacheResult string

const (
	// CacheHit represents a cache hit i.e the key was found in cache
	CacheHit CacheResult = "hit"
	// CacheMiss represents a cache miss i.e that key wasn't found in cache
	// and had to be fetched from the backend
	CacheMiss CacheResult = "miss"
)

// CacheResults returns possible cache results i.e. cache hit or miss
func CacheResults() []CacheResult {
	return []CacheResult{
		CacheHit,
		CacheMiss,
	}
}

// GeocodeResult is the outcome of one geocoder call.
type GeocodeResult string

const (
	GeocodeFound    GeocodeResult = "found"
	GeocodeNotFound GeocodeResult = "not_found"
	GeocodeError    GeocodeResult = "error"
)

// GeocodeResults returns the possible geocoder call outcomes.
func GeocodeResults() []GeocodeResult {
	return []GeocodeResult{
		GeocodeFound,
		GeocodeNotFound,
		GeocodeError,
	}
}
