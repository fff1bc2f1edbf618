package game

import (
	"github.com/samber/lo"
	"golang.org/x/exp/rand"
)

// Any game that aims to be searchable implements State and Move; the search
// packages never look behind these interfaces.

// Move identifies one action of one player. Implementations must be
// comparable with == so equal moves from different views can be merged.
type Move interface {
	Player() PlayerToken
	IsDeterministic() bool
}

type StateHash uint64

// State should be immutable - operations on State always return a new copy
type State interface {
	Players() []PlayerToken
	AvailableMoves() []Move
	// Winners is empty while the game is running or when it ended drawn
	Winners() []PlayerToken
	// Play applies a deterministic move
	Play(Move) State
	// Outcomes lists the weighted results of a move. Deterministic moves
	// yield a single entry of weight 1 equal to Play(move).
	Outcomes(Move) []Weighted[State]
	// View samples determinizations of hidden information from one player's
	// perspective. Full information games return themselves.
	View(player PlayerToken, samples int, rnd *rand.Rand) []State
	Hash() StateHash
	// Compare is a total order; 0 means the states are interchangeable for
	// scoring and may share a transposition entry.
	Compare(other State) int
}

// PlayerState is the unit a scoring metric scores: one position seen by one
// player.
type PlayerState struct {
	Player PlayerToken
	State  State
}

// Outcomes resolves a move to its weighted results regardless of whether the
// game declares it deterministic.
func Outcomes(state State, move Move) []Weighted[State] {
	if move.IsDeterministic() {
		return []Weighted[State]{{Value: state.Play(move), Weight: 1}}
	}
	return state.Outcomes(move)
}

// Movers returns the players that have at least one available move, in the
// order given by Players().
func Movers(state State, moves []Move) []PlayerToken {
	seen := make(map[PlayerToken]bool, len(moves))
	for _, m := range moves {
		seen[m.Player()] = true
	}
	return lo.Filter(state.Players(), func(p PlayerToken, _ int) bool {
		return seen[p]
	})
}
