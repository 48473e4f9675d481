package inventory

import (
	"sort"
	"time"
)

// Options tune one aggregation run.
type Options struct {
	// ExcludeRecentlyShipped drops inventory rows whose shipping date falls
	// within the last 3 calendar days, modeling units shipped but not yet
	// confirmed removed from physical stock.
	ExcludeRecentlyShipped bool

	// Now anchors the recently-shipped window. Zero means time.Now().
	Now time.Time
}

const recentlyShippedWindowDays = 3

// Aggregate is a pure transform from raw inventory and store table snapshots
// to the list of active stores with their nested inventory trees.
//
// Inventory rows with a blank store name, model or color are skipped, as are
// rows shorter than the minimum column count. Store rows are kept only when
// their status equals ActiveMarker and their id cell is non-blank; every
// other row is dropped from the result entirely.
func Aggregate(inventoryRows, storeRows [][]string, opts Options) []Store {
	trees := buildTrees(inventoryRows, opts)

	if len(storeRows) <= StoreHeaderRows {
		return []Store{}
	}

	stores := make([]Store, 0, len(storeRows)-StoreHeaderRows)
	for _, row := range storeRows[StoreHeaderRows:] {
		name := cell(row, storeColName)
		id := cell(row, storeColID)
		if name == "" || cell(row, storeColStatus) != ActiveMarker || id == "" {
			continue
		}

		store := StoreFromRow(row)
		if tree, ok := trees[name]; ok {
			store.Inventory = tree
		} else {
			store.Inventory = NewTree()
		}
		stores = append(stores, store)
	}
	return stores
}

// StoreFromRow builds a Store from one store-sheet row. No inventory tree is
// attached; callers that want one set it themselves.
func StoreFromRow(row []string) Store {
	id := cell(row, storeColID)
	name := cell(row, storeColName)
	lat, lon := parseCoordinates(cell(row, storeColLatitude), cell(row, storeColLongitude))

	return Store{
		ID:        id,
		Name:      name,
		Address:   cell(row, storeColAddress),
		Phone:     cell(row, storeColPhone),
		Manager:   cell(row, storeColManager),
		Latitude:  lat,
		Longitude: lon,
		UniqueID:  id + "_" + name,
	}
}

func buildTrees(inventoryRows [][]string, opts Options) map[string]Tree {
	trees := map[string]Tree{}
	if len(inventoryRows) <= InventoryHeaderRows {
		return trees
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	shippedCutoff := now.AddDate(0, 0, -recentlyShippedWindowDays)

	for _, row := range inventoryRows[InventoryHeaderRows:] {
		if len(row) < invMinColumns {
			continue
		}

		storeName := cell(row, invColStore)
		model := cell(row, invColModel)
		color := cell(row, invColColor)
		if storeName == "" || model == "" || color == "" {
			continue
		}

		if opts.ExcludeRecentlyShipped {
			if shipped, ok := parseShippingDate(cell(row, invColShipDate)); ok && !shipped.Before(shippedCutoff) {
				continue
			}
		}

		tree, ok := trees[storeName]
		if !ok {
			tree = NewTree()
			trees[storeName] = tree
		}
		tree.Add(categoryFor(cell(row, invColType)), model, cell(row, invColStatus), color)
	}
	return trees
}

// ModelColors extracts the distinct colors per model from an inventory
// snapshot, considering only rows in normal status. Colors are sorted.
func ModelColors(inventoryRows [][]string) map[string][]string {
	colorSets := map[string]map[string]struct{}{}

	if len(inventoryRows) > InventoryHeaderRows {
		for _, row := range inventoryRows[InventoryHeaderRows:] {
			model := cell(row, invColModel)
			color := cell(row, invColColor)
			if model == "" || color == "" || cell(row, invColStatus) != "정상" {
				continue
			}
			set, ok := colorSets[model]
			if !ok {
				set = map[string]struct{}{}
				colorSets[model] = set
			}
			set[color] = struct{}{}
		}
	}

	result := make(map[string][]string, len(colorSets))
	for model, set := range colorSets {
		colors := make([]string, 0, len(set))
		for color := range set {
			colors = append(colors, color)
		}
		sort.Strings(colors)
		result[model] = colors
	}
	return result
}

// AgentFromRow builds an Agent from one agent-sheet row.
func AgentFromRow(row []string) Agent {
	return Agent{
		Target:        cell(row, agentColTarget),
		Qualification: cell(row, agentColQualification),
		ContactID:     cell(row, agentColContactID),
	}
}

// StoreRowID returns the raw id cell of a store-sheet row.
func StoreRowID(row []string) string {
	if storeColID >= len(row) {
		return ""
	}
	return row[storeColID]
}

// AgentRowContactID returns the raw contact-id cell of an agent-sheet row.
func AgentRowContactID(row []string) string {
	if agentColContactID >= len(row) {
		return ""
	}
	return row[agentColContactID]
}

// Agents extracts the agent records from an agent sheet snapshot, keeping
// only rows with a contact id.
func Agents(agentRows [][]string) []Agent {
	if len(agentRows) <= AgentHeaderRows {
		return []Agent{}
	}

	agents := make([]Agent, 0, len(agentRows)-AgentHeaderRows)
	for _, row := range agentRows[AgentHeaderRows:] {
		agent := AgentFromRow(row)
		if agent.ContactID == "" {
			continue
		}
		agents = append(agents, agent)
	}
	return agents
}
