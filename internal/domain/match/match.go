// Package match holds the per-run match state that is not owned by a more
// specific component: whose turn it is, the turn counter, and the winner.
package match

// Player identifies one of the two players. PlayerNone is used before the
// first turn event and when no winner has been recorded.
type Player int

const (
	PlayerNone Player = iota
	Player1
	Player2
)

// String names the player for logs and metrics labels.
func (p Player) String() string {
	switch p {
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	default:
		return "none"
	}
}

// Other returns the opposing player, or PlayerNone for PlayerNone.
func (p Player) Other() Player {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return PlayerNone
	}
}

// Setup seeds a render run from the annotation file's header rows.
type Setup struct {
	Hero1 string
	Hero2 string

	Life1 int
	Life2 int

	// FirstTurn is the player whose life row appeared first; they take
	// the first turn.
	FirstTurn Player
}

// PanelState classifies how a hero panel should be framed.
type PanelState int

const (
	PanelNeutral PanelState = iota
	PanelActiveTurn
	PanelWinner
)

// State tracks turn order and victory across the render.
type State struct {
	firstTurn Player
	active    Player
	turn      uint32
	winner    Player
}

// NewState creates match state where nobody is active until the first
// turn event arrives.
func NewState(firstTurn Player) *State {
	return &State{firstTurn: firstTurn}
}

// NextTurn advances the turn counter and flips the active player. The
// first turn goes to the seeded first player.
func (s *State) NextTurn() {
	s.turn++
	if s.active == PlayerNone {
		s.active = s.firstTurn
		return
	}
	s.active = s.active.Other()
}

// SetWinner records the winning player for the remainder of the render.
func (s *State) SetWinner(p Player) {
	s.winner = p
}

// Turn returns the current turn number; zero before the first turn event.
func (s *State) Turn() uint32 { return s.turn }

// Active returns the player whose turn it is.
func (s *State) Active() Player { return s.active }

// Winner returns the recorded winner, or PlayerNone.
func (s *State) Winner() Player { return s.winner }

// Panel classifies the given player's hero panel: winner beats active
// turn beats neutral.
func (s *State) Panel(p Player) PanelState {
	switch {
	case s.winner == p:
		return PanelWinner
	case s.active == p:
		return PanelActiveTurn
	default:
		return PanelNeutral
	}
}
