// Package pig is the two-player dice game Pig: roll to grow the turn total,
// hold to bank it, and lose the turn total on a one.
package pig

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/exp/rand"

	"gametheory/game"
)

const (
	DefaultTarget = 20
	Sides         = 6
)

type Action int

const (
	Roll Action = iota
	Hold
)

func (a Action) String() string {
	if a == Roll {
		return "roll"
	}
	return "hold"
}

type Move struct {
	player game.PlayerToken
	Action Action
}

func (m Move) Player() game.PlayerToken {
	return m.player
}

// IsDeterministic is false for a roll; the die decides the next state.
func (m Move) IsDeterministic() bool {
	return m.Action == Hold
}

func (m Move) String() string {
	return fmt.Sprintf("%v %s", m.player, m.Action)
}

type State struct {
	players [2]game.PlayerToken
	scores  [2]int
	pending int
	turn    int
	target  int
}

func New(first, second game.PlayerToken, target int) State {
	if target <= 0 {
		target = DefaultTarget
	}
	return State{players: [2]game.PlayerToken{first, second}, target: target}
}

// Scores returns the banked scores in seat order, plus the turn total of the
// player to move.
func (s State) Scores() (banked [2]int, pending int) {
	return s.scores, s.pending
}

func (s State) Players() []game.PlayerToken {
	return slices.Clone(s.players[:])
}

func (s State) over() bool {
	return s.scores[0] >= s.target || s.scores[1] >= s.target
}

func (s State) AvailableMoves() []game.Move {
	if s.over() {
		return nil
	}
	moves := []game.Move{Move{player: s.players[s.turn], Action: Roll}}
	if s.pending > 0 {
		moves = append(moves, Move{player: s.players[s.turn], Action: Hold})
	}
	return moves
}

func (s State) Winners() []game.PlayerToken {
	for i, score := range s.scores {
		if score >= s.target {
			return []game.PlayerToken{s.players[i]}
		}
	}
	return nil
}

func (s State) check(move game.Move) Move {
	m, ok := move.(Move)
	if !ok {
		panic(fmt.Sprintf("unexpected move type %T", move))
	}
	if s.over() || m.player != s.players[s.turn] || (m.Action == Hold && s.pending == 0) {
		panic(fmt.Sprintf("move %v is not legal in %v", m, s))
	}
	return m
}

// roll applies one die face. Reaching the target banks immediately.
func (s State) roll(face int) State {
	if face == 1 {
		s.pending = 0
		s.turn = 1 - s.turn
		return s
	}
	s.pending += face
	if s.scores[s.turn]+s.pending >= s.target {
		s.scores[s.turn] += s.pending
		s.pending = 0
	}
	return s
}

func (s State) hold() State {
	s.scores[s.turn] += s.pending
	s.pending = 0
	if !s.over() {
		s.turn = 1 - s.turn
	}
	return s
}

// Play resolves a roll with a fair die drawn from the global source. Searchers
// use Outcomes instead.
func (s State) Play(move game.Move) game.State {
	if s.check(move).Action == Hold {
		return s.hold()
	}
	return s.roll(rand.Intn(Sides) + 1)
}

func (s State) Outcomes(move game.Move) []game.Weighted[game.State] {
	if s.check(move).Action == Hold {
		return []game.Weighted[game.State]{{Value: s.hold(), Weight: 1}}
	}
	outcomes := make([]game.Weighted[game.State], 0, Sides)
	for face := 1; face <= Sides; face++ {
		outcomes = append(outcomes, game.Weighted[game.State]{Value: s.roll(face), Weight: 1})
	}
	return outcomes
}

func (s State) View(game.PlayerToken, int, *rand.Rand) []game.State {
	return []game.State{s}
}

func (s State) Hash() game.StateHash {
	h := game.StateHash(s.target)
	for _, v := range []int{s.scores[0], s.scores[1], s.pending, s.turn} {
		h = h*131 + game.StateHash(v)
	}
	return h
}

func (s State) Compare(other game.State) int {
	o, ok := other.(State)
	if !ok {
		panic(fmt.Sprintf("cannot compare with %T", other))
	}
	return cmp.Or(
		cmp.Compare(s.target, o.target),
		slices.Compare(s.scores[:], o.scores[:]),
		cmp.Compare(s.pending, o.pending),
		cmp.Compare(s.turn, o.turn),
		s.players[0].Compare(o.players[0]),
		s.players[1].Compare(o.players[1]),
	)
}

func (s State) String() string {
	return fmt.Sprintf("%v %d : %d %v (+%d for %v)",
		s.players[0], s.scores[0], s.scores[1], s.players[1], s.pending, s.players[s.turn])
}
