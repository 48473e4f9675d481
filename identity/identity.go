package identity

import (
	"github.com/vipmap/inventory-server/inventory"
)

// Kind names the session role an identifier resolved to.
type Kind string

const (
	// KindInventory is the inventory-management-only role granted to the
	// reserved identifier allow-list.
	KindInventory Kind = "inventory"

	// KindAgent is an agency manager matched in the agent table.
	KindAgent Kind = "agent"

	// KindStore is a regular store matched in the store table.
	KindStore Kind = "store"
)

// Identity is the result of resolving a login identifier. Exactly one of
// Agent and Store is set, depending on Kind; inventory identities carry a
// synthetic Store pinned to the configured default coordinates.
type Identity struct {
	Kind  Kind
	Agent *inventory.Agent
	Store *inventory.Store
}
