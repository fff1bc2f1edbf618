package pig

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"gametheory/game"
)

func TestMoves(t *testing.T) {
	a := game.NewPlayerToken("a")
	b := game.NewPlayerToken("b")

	t.Run("hold needs a turn total", func(t *testing.T) {
		s := New(a, b, 0)

		require.Equal(t, DefaultTarget, s.target)
		require.Equal(t, []game.Move{Move{player: a, Action: Roll}}, s.AvailableMoves())

		s.pending = 4
		require.Equal(t, []game.Move{Move{player: a, Action: Roll}, Move{player: a, Action: Hold}}, s.AvailableMoves())
	})

	t.Run("only a roll depends on chance", func(t *testing.T) {
		require.False(t, Move{player: a, Action: Roll}.IsDeterministic())
		require.True(t, Move{player: a, Action: Hold}.IsDeterministic())
	})

	t.Run("illegal moves panic", func(t *testing.T) {
		s := New(a, b, 10)

		require.Panics(t, func() { s.Play(Move{player: b, Action: Roll}) })
		require.Panics(t, func() { s.Play(Move{player: a, Action: Hold}) })
	})
}

func TestRoll(t *testing.T) {
	a := game.NewPlayerToken("a")
	b := game.NewPlayerToken("b")
	roll := Move{player: a, Action: Roll}

	t.Run("every face is equally likely", func(t *testing.T) {
		outcomes := New(a, b, 10).Outcomes(roll)

		require.Len(t, outcomes, Sides)
		require.True(t, lo.EveryBy(outcomes, func(w game.Weighted[game.State]) bool { return w.Weight == 1 }))
	})

	t.Run("a one loses the turn total", func(t *testing.T) {
		s := New(a, b, 10)
		s.pending = 5

		lost := s.Outcomes(roll)[0].Value.(State)
		banked, pending := lost.Scores()
		require.Equal(t, [2]int{0, 0}, banked)
		require.Zero(t, pending)
		require.Equal(t, b, lost.AvailableMoves()[0].Player())
	})

	t.Run("other faces grow the turn total", func(t *testing.T) {
		grown := New(a, b, 10).Outcomes(roll)[3].Value.(State)

		_, pending := grown.Scores()
		require.Equal(t, 4, pending)
		require.Equal(t, a, grown.AvailableMoves()[0].Player())
	})

	t.Run("reaching the target banks and wins", func(t *testing.T) {
		s := New(a, b, 10)
		s.scores[0] = 6

		won := s.Outcomes(roll)[5].Value.(State)
		banked, _ := won.Scores()
		require.Equal(t, 12, banked[0])
		require.Equal(t, []game.PlayerToken{a}, won.Winners())
		require.Empty(t, won.AvailableMoves())
	})

	t.Run("a played roll is one of the outcomes", func(t *testing.T) {
		s := New(a, b, 10)
		played := s.Play(roll)

		require.True(t, lo.SomeBy(s.Outcomes(roll), func(w game.Weighted[game.State]) bool {
			return w.Value.Compare(played) == 0
		}))
	})
}

func TestHold(t *testing.T) {
	a := game.NewPlayerToken("a")
	b := game.NewPlayerToken("b")

	t.Run("banks the turn total and passes", func(t *testing.T) {
		s := New(a, b, 10)
		s.pending = 3

		held := s.Play(Move{player: a, Action: Hold}).(State)
		banked, pending := held.Scores()
		require.Equal(t, [2]int{3, 0}, banked)
		require.Zero(t, pending)
		require.Equal(t, b, held.AvailableMoves()[0].Player())
		require.Empty(t, held.Winners())
	})
}

func TestIdentity(t *testing.T) {
	a := game.NewPlayerToken("a")
	b := game.NewPlayerToken("b")

	t.Run("equal positions hash and compare equal", func(t *testing.T) {
		x := New(a, b, 10).Outcomes(Move{player: a, Action: Roll})[2].Value
		y := New(a, b, 10).Outcomes(Move{player: a, Action: Roll})[2].Value

		require.Equal(t, 0, x.Compare(y))
		require.Equal(t, x.Hash(), y.Hash())
	})

	t.Run("turn totals tell positions apart", func(t *testing.T) {
		outcomes := New(a, b, 10).Outcomes(Move{player: a, Action: Roll})

		require.NotEqual(t, 0, outcomes[2].Value.Compare(outcomes[3].Value))
		require.NotEqual(t, outcomes[2].Value.Hash(), outcomes[3].Value.Hash())
	})
}

func TestProgress(t *testing.T) {
	a := game.NewPlayerToken("a")
	b := game.NewPlayerToken("b")
	s := New(a, b, 10)
	s.scores = [2]int{4, 2}
	s.pending = 3

	t.Run("counts the turn total for the player to move", func(t *testing.T) {
		require.InDelta(t, 0.5, Progress(game.PlayerState{Player: a, State: s}), 1e-12)
		require.InDelta(t, -0.5, Progress(game.PlayerState{Player: b, State: s}), 1e-12)
	})
}
