package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gametheory/game"
)

func TestFindMax(t *testing.T) {
	alice := game.NewPlayerToken("alice")

	t.Run("picks the heaviest move", func(t *testing.T) {
		policy := []game.Weighted[game.Move]{
			{Value: move(alice, "a"), Weight: 1},
			{Value: move(alice, "b"), Weight: 3},
			{Value: move(alice, "c"), Weight: 2},
		}
		require.Equal(t, move(alice, "b"), findMax(policy))
	})

	t.Run("keeps the first of equal weights", func(t *testing.T) {
		policy := []game.Weighted[game.Move]{
			{Value: move(alice, "a"), Weight: 1},
			{Value: move(alice, "b"), Weight: 1},
		}
		require.Equal(t, move(alice, "a"), findMax(policy))
	})
}

func TestAdjustTemperature(t *testing.T) {
	alice := game.NewPlayerToken("alice")
	policy := []game.Weighted[game.Move]{
		{Value: move(alice, "a"), Weight: 1},
		{Value: move(alice, "b"), Weight: 3},
	}

	t.Run("temperature one leaves the policy alone", func(t *testing.T) {
		require.Equal(t, policy, adjustTemperature(policy, 1))
	})

	t.Run("low temperature sharpens the policy", func(t *testing.T) {
		adjusted := adjustTemperature(policy, 0.5)

		require.InDelta(t, 0.1, adjusted[0].Weight, 1e-9)
		require.InDelta(t, 0.9, adjusted[1].Weight, 1e-9)
	})

	t.Run("high temperature flattens the policy", func(t *testing.T) {
		adjusted := adjustTemperature(policy, 1e9)

		require.InDelta(t, 0.5, adjusted[0].Weight, 1e-6)
		require.InDelta(t, 0.5, adjusted[1].Weight, 1e-6)
	})
}

func TestPolicy(t *testing.T) {
	alice := game.NewPlayerToken("alice")
	bob := game.NewPlayerToken("bob")
	p := newMaximizer(t, alice, newSpyMetric(), 1)

	t.Run("merges views and drops moves of other players", func(t *testing.T) {
		lines := []*Mainline[float64]{
			{Strategies: [][]game.Weighted[game.Move]{{
				{Value: move(alice, "a"), Weight: 1},
				{Value: move(bob, "b"), Weight: 1},
			}}},
			{Strategies: [][]game.Weighted[game.Move]{{
				{Value: move(alice, "a"), Weight: 2},
				{Value: move(alice, "c"), Weight: 1},
			}}},
		}

		require.Equal(t, []game.Weighted[game.Move]{
			{Value: move(alice, "a"), Weight: 3},
			{Value: move(alice, "c"), Weight: 1},
		}, p.policy(lines))
		require.Equal(t, move(alice, "a"), p.pick(lines))
	})

	t.Run("no strategy means no move", func(t *testing.T) {
		require.Nil(t, p.pick([]*Mainline[float64]{{}}))
	})
}
