package inventory

import (
	"strconv"
	"strings"
	"time"
)

// ActiveMarker is the store status value meaning "currently in service".
// Only active stores are listed and reconciled.
const ActiveMarker = "사용"

// Inventory categories. The set is closed: every counted row lands in
// exactly one of these four buckets.
const (
	CategoryPhones       = "phones"
	CategorySims         = "sims"
	CategoryWearables    = "wearables"
	CategorySmartDevices = "smartDevices"
)

// Fixed header sizes of the source tables.
const (
	InventoryHeaderRows = 3
	StoreHeaderRows     = 1
	AgentHeaderRows     = 1
)

// Column positions in the inventory sheet.
const (
	invColType     = 4  // E: 종류
	invColModel    = 5  // F: 모델
	invColColor    = 6  // G: 색상
	invColStatus   = 7  // H: 상태
	invColStore    = 13 // N: 매장명
	invColShipDate = 14 // O: 출고일

	invMinColumns = 15
)

// Column positions in the store sheet.
const (
	storeColLatitude  = 0  // A: 위도
	storeColLongitude = 1  // B: 경도
	storeColAddress   = 3  // 주소
	storeColStatus    = 4  // D: 거래상태
	storeColName      = 6  // F: 업체명
	storeColID        = 7  // G: 매장 ID
	storeColPhone     = 9  // I: 연락처
	storeColManager   = 13 // M: 담당자
)

// Column positions in the agent sheet.
const (
	agentColTarget        = 0 // A: 대상
	agentColQualification = 1 // B: 자격
	agentColContactID     = 2 // C: 연락처(아이디)
)

// Tree is a per-store inventory: category → model → status → color → count.
// Counts are event counts (one per source row), never parsed quantities.
type Tree map[string]map[string]map[string]map[string]int

// NewTree returns a Tree with all four category buckets present but empty.
func NewTree() Tree {
	return Tree{
		CategoryPhones:       {},
		CategorySims:         {},
		CategoryWearables:    {},
		CategorySmartDevices: {},
	}
}

// Add increments the count for one counted inventory row.
func (t Tree) Add(category, model, status, color string) {
	models, ok := t[category]
	if !ok {
		models = map[string]map[string]map[string]int{}
		t[category] = models
	}
	statuses, ok := models[model]
	if !ok {
		statuses = map[string]map[string]int{}
		models[model] = statuses
	}
	colors, ok := statuses[status]
	if !ok {
		colors = map[string]int{}
		statuses[status] = colors
	}
	colors[color]++
}

// Count returns the counter at the given path, or 0.
func (t Tree) Count(category, model, status, color string) int {
	return t[category][model][status][color]
}

// Store is one active store with its attached inventory tree.
type Store struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Phone     string  `json:"phone"`
	Manager   string  `json:"manager"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	UniqueID  string  `json:"uniqueId"`
	Inventory Tree    `json:"inventory,omitempty"`
}

// Agent is one row of the agent id sheet.
type Agent struct {
	Target        string `json:"target"`
	Qualification string `json:"qualification"`
	ContactID     string `json:"contactId"`
}

func categoryFor(typeCell string) string {
	switch typeCell {
	case "유심":
		return CategorySims
	case "웨어러블":
		return CategoryWearables
	case "스마트기기":
		return CategorySmartDevices
	default:
		return CategoryPhones
	}
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// parseCoordinates parses a latitude/longitude cell pair. The pair is kept
// consistent: unless both cells parse as floats, both come back zero.
func parseCoordinates(latCell, lonCell string) (float64, float64) {
	lat, latErr := strconv.ParseFloat(latCell, 64)
	lon, lonErr := strconv.ParseFloat(lonCell, 64)
	if latErr != nil || lonErr != nil {
		return 0, 0
	}
	return lat, lon
}

var shippingDateLayouts = []string{
	"2006-01-02",
	"2006. 1. 2",
	"2006.01.02",
	"1/2/2006",
	time.RFC3339,
}

// parseShippingDate parses the optional shipping-date cell. An empty or
// unparseable cell means "no shipping date".
func parseShippingDate(dateCell string) (time.Time, bool) {
	if dateCell == "" {
		return time.Time{}, false
	}
	for _, layout := range shippingDateLayouts {
		if date, err := time.Parse(layout, dateCell); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}
