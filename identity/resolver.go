package identity

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/vipmap/inventory-server/config"
	"github.com/vipmap/inventory-server/errortypes"
	"github.com/vipmap/inventory-server/inventory"
	"github.com/vipmap/inventory-server/sheets"
)

// inventoryModeStoreName labels the synthetic store attached to
// inventory-mode sessions.
const (
	inventoryModeStoreName = "재고관리 모드"
	inventoryModeManager   = "재고관리자"
)

// Resolver maps a submitted login identifier to a session role with an
// ordered, short-circuiting lookup: the reserved allow-list first, then the
// agent table, then the store table.
//
// Table reads go through the shared Fetcher, so results reflect the current
// cache state rather than necessarily the freshest spreadsheet write.
type Resolver struct {
	fetcher    sheets.Fetcher
	agentSheet string
	storeSheet string

	reservedIDs map[string]struct{}
	defaultLat  float64
	defaultLon  float64
}

func NewResolver(fetcher sheets.Fetcher, cfg *config.Configuration) *Resolver {
	reserved := make(map[string]struct{}, len(cfg.Login.InventoryIDs))
	for _, id := range cfg.Login.InventoryIDs {
		reserved[id] = struct{}{}
	}
	return &Resolver{
		fetcher:     fetcher,
		agentSheet:  cfg.Sheets.AgentSheet,
		storeSheet:  cfg.Sheets.StoreSheet,
		reservedIDs: reserved,
		defaultLat:  cfg.Login.DefaultLatitude,
		defaultLon:  cfg.Login.DefaultLongitude,
	}
}

// Resolve looks the identifier up tier by tier. Matching is an exact string
// comparison against the identifier column; within a table, the first
// matching row wins by row order. Duplicate identifiers within or across
// tables are not reconciled.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (*Identity, error) {
	if identifier == "" {
		return nil, &errortypes.BadInput{Message: "identifier is empty"}
	}

	if _, ok := r.reservedIDs[identifier]; ok {
		glog.Infof("identity: reserved inventory-mode identifier %q", identifier)
		return &Identity{
			Kind: KindInventory,
			Store: &inventory.Store{
				ID:        identifier,
				Name:      inventoryModeStoreName,
				Manager:   inventoryModeManager,
				Latitude:  r.defaultLat,
				Longitude: r.defaultLon,
			},
		}, nil
	}

	agentRows, err := r.fetcher.FetchTable(ctx, r.agentSheet)
	if err != nil {
		return nil, err
	}
	for i := inventory.AgentHeaderRows; i < len(agentRows); i++ {
		if inventory.AgentRowContactID(agentRows[i]) == identifier {
			agent := inventory.AgentFromRow(agentRows[i])
			glog.Infof("identity: %q resolved to agent %q", identifier, agent.Target)
			return &Identity{Kind: KindAgent, Agent: &agent}, nil
		}
	}

	storeRows, err := r.fetcher.FetchTable(ctx, r.storeSheet)
	if err != nil {
		return nil, err
	}
	for i := inventory.StoreHeaderRows; i < len(storeRows); i++ {
		if inventory.StoreRowID(storeRows[i]) == identifier {
			store := inventory.StoreFromRow(storeRows[i])
			glog.Infof("identity: %q resolved to store %q", identifier, store.Name)
			return &Identity{Kind: KindStore, Store: &store}, nil
		}
	}

	return nil, &errortypes.NotFound{
		Message: fmt.Sprintf("identifier %q not found in agent or store tables", identifier),
	}
}
