package geocoding

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/vipmap/inventory-server/errortypes"
	"github.com/vipmap/inventory-server/inventory"
	"github.com/vipmap/inventory-server/metrics"
	"github.com/vipmap/inventory-server/sheets"
)

// cacheInvalidator drops the cached snapshot of one table after its backing
// data has been rewritten.
type cacheInvalidator interface {
	Invalidate(name string)
}

// Reconciler keeps store coordinates consistent with address text. One pass
// reads the full store table, geocodes every active row, and submits all row
// changes as a single batched write.
//
// Row updates are addressed by position in the just-read snapshot. If the
// underlying table is reordered between the read and the write, updates can
// land on the wrong row; the source system offers no stable row identifiers,
// so this is a known limitation.
type Reconciler struct {
	fetcher       sheets.Fetcher
	writer        sheets.BatchWriter
	geocoder      Geocoder
	invalidator   cacheInvalidator
	storeSheet    string
	rowDelay      time.Duration
	metricsEngine metrics.Engine

	// passMu serializes passes: an on-demand trigger issued while a pass is
	// already running waits for it to finish, then runs its own.
	passMu sync.Mutex

	// shutdownCtx cancels an in-flight pass on process shutdown so no batch
	// write is abandoned mid-call.
	shutdownCtx context.Context
}

// Options collects the Reconciler's collaborators and tuning.
type Options struct {
	Fetcher       sheets.Fetcher
	Writer        sheets.BatchWriter
	Geocoder      Geocoder
	Invalidator   cacheInvalidator
	StoreSheet    string
	RowDelay      time.Duration
	MetricsEngine metrics.Engine
	ShutdownCtx   context.Context
}

func NewReconciler(opt Options) *Reconciler {
	shutdownCtx := opt.ShutdownCtx
	if shutdownCtx == nil {
		shutdownCtx = context.Background()
	}
	metricsEngine := opt.MetricsEngine
	if metricsEngine == nil {
		metricsEngine = metrics.NewNilEngine()
	}
	return &Reconciler{
		fetcher:       opt.Fetcher,
		writer:        opt.Writer,
		geocoder:      opt.Geocoder,
		invalidator:   opt.Invalidator,
		storeSheet:    opt.StoreSheet,
		rowDelay:      opt.RowDelay,
		metricsEngine: metricsEngine,
		shutdownCtx:   shutdownCtx,
	}
}

// Run implements task.Runner for the periodic schedule.
func (r *Reconciler) Run() error {
	_, err := r.RunPass(r.shutdownCtx)
	return err
}

// RunPass executes one full reconciliation pass.
//
// Per row: inactive stores and active stores without an address get their
// coordinates cleared; active stores with an address are geocoded, with "no
// result" and per-row geocoder failures both degrading to a clear so stale
// coordinates never outlive a lost address. A fixed delay follows every
// active row to respect the geocoder's rate limit.
//
// All row changes are submitted as one batched write at the end. A batch
// failure aborts the pass with every coordinate unchanged; there is no
// partial-commit state. Returns the number of row updates written.
func (r *Reconciler) RunPass(ctx context.Context) (int, error) {
	r.passMu.Lock()
	defer r.passMu.Unlock()

	glog.Info("geocoding: starting reconciliation pass")

	rows, err := r.fetcher.FetchTable(ctx, r.storeSheet)
	if err != nil {
		r.metricsEngine.RecordReconcilerPass(false, 0)
		return 0, err
	}

	var updates []sheets.RowUpdate
	for i := inventory.StoreHeaderRows; i < len(rows); i++ {
		row := rows[i]
		rowNumber := i + 1 // 1-based sheet row of this snapshot position

		if cellAt(row, storeStatusColumn) != inventory.ActiveMarker {
			updates = append(updates, r.coordinateClear(rowNumber))
			continue
		}

		address := strings.TrimSpace(cellAt(row, storeAddressColumn))
		if address == "" {
			updates = append(updates, r.coordinateClear(rowNumber))
		} else {
			updates = append(updates, r.reconcileAddress(ctx, rowNumber, address))
		}

		// Rate-limit pause after each active row; inactive rows cost nothing.
		select {
		case <-ctx.Done():
			r.metricsEngine.RecordReconcilerPass(false, 0)
			return 0, ctx.Err()
		case <-time.After(r.rowDelay):
		}
	}

	if err := r.writer.BatchUpdate(ctx, updates); err != nil {
		glog.Errorf("geocoding: batched coordinate write failed, pass aborted: %v", err)
		r.metricsEngine.RecordReconcilerPass(false, 0)
		return 0, &errortypes.BatchWrite{
			Message: fmt.Sprintf("batched coordinate write of %d rows failed: %v", len(updates), err),
		}
	}

	if r.invalidator != nil {
		r.invalidator.Invalidate(r.storeSheet)
	}
	r.metricsEngine.RecordReconcilerPass(true, len(updates))
	glog.Infof("geocoding: reconciliation pass wrote %d row updates", len(updates))
	return len(updates), nil
}

func (r *Reconciler) reconcileAddress(ctx context.Context, rowNumber int, address string) sheets.RowUpdate {
	result, err := r.geocoder.Lookup(ctx, address)
	if err != nil {
		// A per-row failure never aborts the pass: degrade to a clear.
		glog.Warningf("geocoding: lookup failed for row %d (%q), clearing coordinates: %v", rowNumber, address, err)
		return r.coordinateClear(rowNumber)
	}
	if !result.Found {
		glog.Infof("geocoding: no result for row %d (%q), clearing coordinates", rowNumber, address)
		return r.coordinateClear(rowNumber)
	}
	return sheets.RowUpdate{
		Range:  r.coordinateRange(rowNumber),
		Values: []interface{}{result.Latitude, result.Longitude},
	}
}

// coordinateClear blanks a row's coordinate pair. Clearing an already-empty
// pair is a no-op write, so clears are idempotent.
func (r *Reconciler) coordinateClear(rowNumber int) sheets.RowUpdate {
	return sheets.RowUpdate{
		Range:  r.coordinateRange(rowNumber),
		Values: []interface{}{"", ""},
	}
}

func (r *Reconciler) coordinateRange(rowNumber int) string {
	return fmt.Sprintf("%s!A%d:B%d", r.storeSheet, rowNumber, rowNumber)
}

// Store sheet columns the reconciler reads. Kept in sync with the inventory
// package's store row layout.
const (
	storeAddressColumn = 3
	storeStatusColumn  = 4
)

func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return row[col]
}
