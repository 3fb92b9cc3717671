package game

import (
	"fmt"
	"sort"

	"github.com/dnextcom/overcooked-clone/pkg/game/types"
)

// Station types that can appear in a level.
const (
	StationTypeCrateTomato    = "crate_tomato"
	StationTypeCrateLettuce   = "crate_lettuce"
	StationTypeCrateMeat      = "crate_meat"
	StationTypeChoppingBoard  = "chopping_board"
	StationTypeStove          = "stove"
	StationTypePlateDispenser = "plate_dispenser"
	StationTypeCounter        = "counter"
	StationTypeDelivery       = "delivery"
)

// StationDef places one station on the level grid.
type StationDef struct {
	Type string
	X    int
	Z    int
}

// StationID derives the deterministic station id from type and coordinates.
// Ids are assigned at level load and stable for the whole session.
func StationID(stationType string, x, z int) string {
	return fmt.Sprintf("%s_%d_%d", stationType, x, z)
}

// DefaultLevel is the kitchen layout used when no level file is given.
func DefaultLevel() []StationDef {
	return []StationDef{
		{Type: StationTypeCrateTomato, X: -4, Z: -4},
		{Type: StationTypeCrateLettuce, X: -2, Z: -4},
		{Type: StationTypeCrateMeat, X: 0, Z: -4},
		{Type: StationTypeChoppingBoard, X: 2, Z: -4},
		{Type: StationTypeChoppingBoard, X: 4, Z: -4},
		{Type: StationTypeStove, X: 4, Z: -2},
		{Type: StationTypePlateDispenser, X: -4, Z: 4},
		{Type: StationTypeCounter, X: -2, Z: 4},
		{Type: StationTypeCounter, X: 0, Z: 4},
		{Type: StationTypeCounter, X: 2, Z: 4},
		{Type: StationTypeDelivery, X: 4, Z: 4},
	}
}

// LoadLevel registers the level's stations in the session state with empty
// content and returns their ids in a stable order.
func LoadLevel(state *types.SessionState, defs []StationDef) []string {
	ids := make([]string, 0, len(defs))
	for _, def := range defs {
		id := StationID(def.Type, def.X, def.Z)
		state.Stations[id] = &types.StationState{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
