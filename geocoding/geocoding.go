package geocoding

import (
	"context"
)

// Result is the explicit two-case outcome of a geocoder lookup. A lookup that
// completes but matches no location returns Found=false with a nil error;
// callers must branch on Found rather than on sentinel coordinates.
type Result struct {
	Found     bool
	Latitude  float64
	Longitude float64
}

// Geocoder resolves free-text addresses to decimal-degree coordinates.
//
// Implementations must be safe for concurrent access by multiple goroutines.
type Geocoder interface {
	// Lookup returns the coordinates of address, Result{Found: false} when
	// the geocoder has no match, or an error for request/network failures.
	Lookup(ctx context.Context, address string) (Result, error)
}
