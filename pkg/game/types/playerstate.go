package types

// Position is a point in world space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PlayerState is the authoritative record for one connected participant.
// Position and held item are reported by that participant's own action
// messages; colors are set once by the playerInfo message near connect.
type PlayerState struct {
	Position Position          `json:"position"`
	HeldItem *Item             `json:"heldItem"`
	Colors   map[string]uint32 `json:"colors,omitempty"`
}

// NewPlayerState creates a player state with the default spawn position
// and no held item.
func NewPlayerState() *PlayerState {
	return &PlayerState{
		Position: Position{X: 0, Y: 0, Z: 0},
	}
}

func (p *PlayerState) Copy() *PlayerState {
	copy := &PlayerState{
		Position: p.Position,
		HeldItem: p.HeldItem.Copy(),
	}
	if p.Colors != nil {
		copy.Colors = make(map[string]uint32, len(p.Colors))
		for k, v := range p.Colors {
			copy.Colors[k] = v
		}
	}
	return copy
}
