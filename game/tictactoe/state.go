// Package tictactoe is a small deterministic two-player game used to exercise
// the searchers.
package tictactoe

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"gametheory/game"
)

const (
	empty int8 = iota
	first
	second
)

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

type Move struct {
	player game.PlayerToken
	Cell   int
}

func (m Move) Player() game.PlayerToken {
	return m.player
}

func (m Move) IsDeterministic() bool {
	return true
}

func (m Move) String() string {
	return fmt.Sprintf("%v@%d", m.player, m.Cell)
}

// State is an immutable board. The first player marks X and moves first.
type State struct {
	players [2]game.PlayerToken
	board   [9]int8
	turn    int8
}

func New(x, o game.PlayerToken) State {
	return State{players: [2]game.PlayerToken{x, o}}
}

// Parse reads a board written row by row with 'X', 'O' and '.' for empty
// cells; whitespace is ignored. The side to move follows from the mark count.
func Parse(board string, x, o game.PlayerToken) (State, error) {
	s := New(x, o)
	cells := strings.Join(strings.Fields(board), "")
	if len(cells) != len(s.board) {
		return State{}, errors.Errorf("board has %d cells, want %d", len(cells), len(s.board))
	}
	count := [3]int{}
	for i, c := range cells {
		switch c {
		case 'X', 'x':
			s.board[i] = first
		case 'O', 'o':
			s.board[i] = second
		case '.', '-':
			s.board[i] = empty
		default:
			return State{}, errors.Errorf("unexpected cell %q", c)
		}
		count[s.board[i]]++
	}
	switch count[first] - count[second] {
	case 0:
		s.turn = 0
	case 1:
		s.turn = 1
	default:
		return State{}, errors.Errorf("impossible mark count X=%d O=%d", count[first], count[second])
	}
	return s, nil
}

func (s State) Players() []game.PlayerToken {
	return slices.Clone(s.players[:])
}

func (s State) winner() int8 {
	for _, line := range lines {
		mark := s.board[line[0]]
		if mark != empty && mark == s.board[line[1]] && mark == s.board[line[2]] {
			return mark
		}
	}
	return empty
}

func (s State) AvailableMoves() []game.Move {
	if s.winner() != empty {
		return nil
	}
	var moves []game.Move
	for cell, mark := range s.board {
		if mark == empty {
			moves = append(moves, Move{player: s.players[s.turn], Cell: cell})
		}
	}
	return moves
}

func (s State) Winners() []game.PlayerToken {
	if w := s.winner(); w != empty {
		return []game.PlayerToken{s.players[w-1]}
	}
	return nil
}

func (s State) Play(move game.Move) game.State {
	m, ok := move.(Move)
	if !ok {
		panic(fmt.Sprintf("unexpected move type %T", move))
	}
	if m.player != s.players[s.turn] || m.Cell < 0 || m.Cell >= len(s.board) || s.board[m.Cell] != empty || s.winner() != empty {
		panic(fmt.Sprintf("move %v is not legal in\n%v", m, s))
	}
	next := s
	next.board[m.Cell] = first + s.turn
	next.turn = 1 - s.turn
	return next
}

func (s State) Outcomes(move game.Move) []game.Weighted[game.State] {
	return []game.Weighted[game.State]{{Value: s.Play(move), Weight: 1}}
}

func (s State) View(game.PlayerToken, int, *rand.Rand) []game.State {
	return []game.State{s}
}

func (s State) Hash() game.StateHash {
	h := game.StateHash(s.turn)
	for _, mark := range s.board {
		h = h*3 + game.StateHash(mark)
	}
	return h
}

func (s State) Compare(other game.State) int {
	o, ok := other.(State)
	if !ok {
		panic(fmt.Sprintf("cannot compare with %T", other))
	}
	if c := slices.Compare(s.board[:], o.board[:]); c != 0 {
		return c
	}
	if c := cmp.Compare(s.turn, o.turn); c != 0 {
		return c
	}
	if c := s.players[0].Compare(o.players[0]); c != 0 {
		return c
	}
	return s.players[1].Compare(o.players[1])
}

func (s State) String() string {
	var b strings.Builder
	for i, mark := range s.board {
		b.WriteByte(".XO"[mark])
		if i%3 == 2 && i < len(s.board)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
