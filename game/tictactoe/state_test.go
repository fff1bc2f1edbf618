package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gametheory/game"
)

func TestParse(t *testing.T) {
	x := game.NewPlayerToken("x")
	o := game.NewPlayerToken("o")

	t.Run("reads marks and the side to move", func(t *testing.T) {
		s, err := Parse(`
			X O .
			. X .
			. . .`, x, o)
		require.NoError(t, err)

		require.Equal(t, "XO.\n.X.\n...", s.String())
		require.Len(t, s.AvailableMoves(), 6)
		require.Equal(t, o, s.AvailableMoves()[0].Player())
	})

	t.Run("rejects malformed boards", func(t *testing.T) {
		_, err := Parse("XO", x, o)
		require.ErrorContains(t, err, "cells")

		_, err = Parse("XX. ... ...", x, o)
		require.ErrorContains(t, err, "mark count")

		_, err = Parse("XO? ... ...", x, o)
		require.ErrorContains(t, err, "unexpected cell")
	})
}

func TestPlay(t *testing.T) {
	x := game.NewPlayerToken("x")
	o := game.NewPlayerToken("o")

	t.Run("alternates players", func(t *testing.T) {
		s := New(x, o).Play(Move{player: x, Cell: 4})

		require.Equal(t, "...\n.X.\n...", s.(State).String())
		require.Equal(t, o, s.AvailableMoves()[0].Player())
	})

	t.Run("a completed line wins and ends the game", func(t *testing.T) {
		s, err := Parse("XX. OO. ...", x, o)
		require.NoError(t, err)

		won := s.Play(Move{player: x, Cell: 2})
		require.Equal(t, []game.PlayerToken{x}, won.Winners())
		require.Empty(t, won.AvailableMoves())
	})

	t.Run("a full board without a line is drawn", func(t *testing.T) {
		s, err := Parse("XOX XOO OXX", x, o)
		require.NoError(t, err)

		require.Empty(t, s.Winners())
		require.Empty(t, s.AvailableMoves())
	})

	t.Run("illegal moves panic", func(t *testing.T) {
		s := New(x, o).Play(Move{player: x, Cell: 0})

		require.Panics(t, func() { s.Play(Move{player: o, Cell: 0}) })
		require.Panics(t, func() { s.Play(Move{player: x, Cell: 1}) })
	})

	t.Run("outcomes are the played position", func(t *testing.T) {
		s := New(x, o)
		m := Move{player: x, Cell: 8}

		require.Equal(t, []game.Weighted[game.State]{{Value: s.Play(m), Weight: 1}}, s.Outcomes(m))
	})
}

func TestIdentity(t *testing.T) {
	x := game.NewPlayerToken("x")
	o := game.NewPlayerToken("o")

	t.Run("transpositions are the same position", func(t *testing.T) {
		a := New(x, o).Play(Move{player: x, Cell: 0}).Play(Move{player: o, Cell: 4}).Play(Move{player: x, Cell: 8})
		b := New(x, o).Play(Move{player: x, Cell: 8}).Play(Move{player: o, Cell: 4}).Play(Move{player: x, Cell: 0})

		require.Equal(t, 0, a.Compare(b))
		require.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("different boards differ", func(t *testing.T) {
		a := New(x, o).Play(Move{player: x, Cell: 0})
		b := New(x, o).Play(Move{player: x, Cell: 1})

		require.NotEqual(t, a.Hash(), b.Hash())
		require.Equal(t, -b.Compare(a), a.Compare(b))
		require.NotEqual(t, 0, a.Compare(b))
	})
}

func TestOpenLines(t *testing.T) {
	x := game.NewPlayerToken("x")
	o := game.NewPlayerToken("o")

	t.Run("empty board is even", func(t *testing.T) {
		require.Zero(t, OpenLines(game.PlayerState{Player: x, State: New(x, o)}))
	})

	t.Run("the center is worth four lines", func(t *testing.T) {
		s := New(x, o).Play(Move{player: x, Cell: 4})

		require.Equal(t, 4.0, OpenLines(game.PlayerState{Player: x, State: s}))
		require.Equal(t, -4.0, OpenLines(game.PlayerState{Player: o, State: s}))
	})

	t.Run("blocked lines count for nobody", func(t *testing.T) {
		s, err := Parse("XO. ... ...", x, o)
		require.NoError(t, err)

		// X keeps the column and the diagonal, O the middle column.
		require.Equal(t, 1.0, OpenLines(game.PlayerState{Player: x, State: s}))
	})
}
