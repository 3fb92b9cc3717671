package types

// SessionPhase describes where the session is in its lifecycle. The phase is
// derived from participant count and the timer, not stored.
type SessionPhase int

const (
	SessionPhaseWaiting SessionPhase = iota
	SessionPhaseRunning
	SessionPhaseEnded
)

func (p SessionPhase) String() string {
	switch p {
	case SessionPhaseWaiting:
		return "waiting"
	case SessionPhaseRunning:
		return "running"
	case SessionPhaseEnded:
		return "ended"
	}
	return "unknown"
}

// SessionState is the single authoritative record for one session. The server
// is the only writer; snapshots sent to clients are deep copies.
type SessionState struct {
	// Timestamp is the time at which the snapshot was generated
	Timestamp int64 `json:"timestamp"`
	// Players maps connection ids to player states
	Players map[string]*PlayerState `json:"players"`
	// Stations maps station ids to their shared content
	Stations map[string]*StationState `json:"stations"`
	// Orders is the authoritative order queue
	Orders []*Order `json:"orders"`
	// Score is the shared session score
	Score int `json:"score"`
	// GameTime is the remaining session time in seconds
	GameTime float64 `json:"gameTime"`
}

func NewSessionState(gameTime float64) *SessionState {
	return &SessionState{
		Players:  make(map[string]*PlayerState),
		Stations: make(map[string]*StationState),
		GameTime: gameTime,
	}
}

func (s *SessionState) Copy() *SessionState {
	newState := &SessionState{
		Timestamp: s.Timestamp,
		Players:   make(map[string]*PlayerState),
		Stations:  make(map[string]*StationState),
		Orders:    make([]*Order, 0, len(s.Orders)),
		Score:     s.Score,
		GameTime:  s.GameTime,
	}
	for id, player := range s.Players {
		newState.Players[id] = player.Copy()
	}
	for id, station := range s.Stations {
		newState.Stations[id] = station.Copy()
	}
	for _, order := range s.Orders {
		newState.Orders = append(newState.Orders, order.Copy())
	}
	return newState
}

func (s *SessionState) AddPlayer(id string, state *PlayerState) {
	s.Players[id] = state
}

func (s *SessionState) RemovePlayer(id string) {
	delete(s.Players, id)
}

// FindOrder returns the order with the given id, or nil.
func (s *SessionState) FindOrder(id string) *Order {
	for _, order := range s.Orders {
		if order.ID == id {
			return order
		}
	}
	return nil
}

// RemoveOrder removes the order with the given id and reports whether it
// was present.
func (s *SessionState) RemoveOrder(id string) bool {
	for i, order := range s.Orders {
		if order.ID == id {
			s.Orders = append(s.Orders[:i], s.Orders[i+1:]...)
			return true
		}
	}
	return false
}

// Phase derives the session phase. The tick guard checks participant count
// and the timer directly; there is no stored phase to transition back to
// waiting once the last participant leaves.
func (s *SessionState) Phase() SessionPhase {
	if s.GameTime <= 0 {
		return SessionPhaseEnded
	}
	if len(s.Players) == 0 {
		return SessionPhaseWaiting
	}
	return SessionPhaseRunning
}
