package types

// StationState is the shared content of one station. A station holds at most
// one item descriptor at a time. The physical representation is local to each
// client; the content converges by last-write-wins station-content messages.
type StationState struct {
	HeldItem *Item   `json:"heldItem"`
	Progress float64 `json:"progress"`
}

func (s *StationState) Copy() *StationState {
	return &StationState{
		HeldItem: s.HeldItem.Copy(),
		Progress: s.Progress,
	}
}
