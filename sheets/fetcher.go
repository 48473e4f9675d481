package sheets

import (
	"context"
)

// Fetcher knows how to fetch all rows of a named table from the external
// spreadsheet.
//
// Implementations must be safe for concurrent access by multiple goroutines.
// Callers are expected to share a single instance as much as possible.
type Fetcher interface {
	// FetchTable returns every row of the named table as string cells. The
	// returned snapshot is immutable: callers may only read from it.
	//
	// A failed network read surfaces as *errortypes.ExternalService with no
	// internal retry.
	FetchTable(ctx context.Context, name string) ([][]string, error)
}

// RowUpdate addresses one row range of the spreadsheet and the cell values to
// write there.
type RowUpdate struct {
	Range  string
	Values []interface{}
}

// BatchWriter submits a set of row updates to the spreadsheet in one call.
// The write is all-or-nothing at the call boundary; partial application by
// the source system is not assumed.
type BatchWriter interface {
	BatchUpdate(ctx context.Context, updates []RowUpdate) error
}
