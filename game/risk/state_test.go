package risk

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"gametheory/game"
)

// line is A - B - C with a region holding A and B.
func line() *Map {
	m := &Map{}
	a := m.AddCanton("A", "Alpha")
	b := m.AddCanton("B", "Beta")
	c := m.AddCanton("C", "Gamma")
	m.AddBorder(a, b)
	m.AddBorder(b, c)
	m.AddRegion("AB", 2, a, b)
	return m
}

func position(board *Map, players []game.PlayerToken, phase Phase, current int, owners []int8, troops []int) State {
	s := State{board: board, players: players, owners: owners, troops: troops, current: current, phase: phase}
	if phase == ReinforcementPhase {
		s.toPlace = s.reinforcements(current)
	}
	return s
}

func moves(s State) []Move {
	return lo.Map(s.AvailableMoves(), func(m game.Move, _ int) Move { return m.(Move) })
}

func TestCreateMap(t *testing.T) {
	m := CreateMap()

	t.Run("has every canton once", func(t *testing.T) {
		require.Len(t, m.Cantons, 26)
		for id, c := range m.Cantons {
			require.Equal(t, id, c.ID)
		}
	})

	t.Run("borders are symmetric", func(t *testing.T) {
		for _, c := range m.Cantons {
			require.NotEmpty(t, c.AdjacentIDs, c.Abbreviation)
			for _, adj := range c.AdjacentIDs {
				require.True(t, m.AreAdjacent(adj, c.ID), "%s-%s", c.Abbreviation, m.Cantons[adj].Abbreviation)
			}
		}
	})

	t.Run("regions partition the cantons", func(t *testing.T) {
		seen := map[int]int{}
		for _, r := range m.Regions {
			for _, id := range r.CantonIDs {
				seen[id]++
			}
		}
		require.Len(t, seen, len(m.Cantons))
		for id, n := range seen {
			require.Equal(t, 1, n, m.Cantons[id].Abbreviation)
		}
	})
}

func TestDice(t *testing.T) {
	t.Run("defender wins ties", func(t *testing.T) {
		require.Equal(t, Losses{Attacker: 1, Defender: 1}, DetermineAttackOutcome([]int{3, 5}, []int{2, 5}))
		require.Equal(t, Losses{Attacker: 1}, DetermineAttackOutcome([]int{4, 4, 1}, []int{4}))
	})

	t.Run("single dice odds", func(t *testing.T) {
		odds := Odds(1, 1)
		require.Len(t, odds, 2)
		require.Equal(t, Losses{Defender: 1}, odds[0].Value)
		require.InDelta(t, 15.0/36, odds[0].Weight, 1e-12)
		require.InDelta(t, 1.0, game.TotalWeight(odds), 1e-12)
	})

	t.Run("three against two", func(t *testing.T) {
		odds := Odds(3, 2)
		require.Equal(t, []Losses{{Defender: 2}, {Attacker: 1, Defender: 1}, {Attacker: 2}},
			lo.Map(odds, func(w game.Weighted[Losses], _ int) Losses { return w.Value }))
		require.InDelta(t, 2890.0/7776, odds[0].Weight, 1e-12)
		require.InDelta(t, 2611.0/7776, odds[1].Weight, 1e-12)
		require.InDelta(t, 2275.0/7776, odds[2].Weight, 1e-12)
	})

	t.Run("rejects impossible dice counts", func(t *testing.T) {
		require.Panics(t, func() { Odds(4, 1) })
		require.Panics(t, func() { Odds(1, 0) })
	})
}

func TestNew(t *testing.T) {
	alice := game.NewPlayerToken("alice")
	bob := game.NewPlayerToken("bob")

	t.Run("deals round robin and starts reinforcing", func(t *testing.T) {
		s := New(line(), alice, bob)

		require.Equal(t, alice, s.Owner(0))
		require.Equal(t, bob, s.Owner(1))
		require.Equal(t, alice, s.Owner(2))
		require.Equal(t, StartingTroops, s.Troops(1))
		require.Equal(t, ReinforcementPhase, s.Phase())
		require.Equal(t, MinReinforce, s.TroopsToPlace())
		require.Empty(t, s.Winners())
	})

	t.Run("needs two players", func(t *testing.T) {
		require.Panics(t, func() { New(line(), alice) })
	})

	t.Run("full map game is running", func(t *testing.T) {
		s := New(CreateMap(), alice, bob, game.NewPlayerToken("carol"))

		require.NotEmpty(t, s.AvailableMoves())
		require.Len(t, s.Players(), 3)
	})
}

func TestTurn(t *testing.T) {
	alice := game.NewPlayerToken("alice")
	bob := game.NewPlayerToken("bob")
	players := []game.PlayerToken{alice, bob}

	t.Run("reinforces the front with one, half or all", func(t *testing.T) {
		s := New(line(), alice, bob)

		require.Equal(t, []Move{
			{player: alice, Action: ReinforceAction, To: 0, Troops: 1},
			{player: alice, Action: ReinforceAction, To: 0, Troops: 3},
			{player: alice, Action: ReinforceAction, To: 2, Troops: 1},
			{player: alice, Action: ReinforceAction, To: 2, Troops: 3},
		}, moves(s))
	})

	t.Run("placing every troop opens the attack", func(t *testing.T) {
		s := New(line(), alice, bob).Play(Move{player: alice, Action: ReinforceAction, To: 0, Troops: 3}).(State)

		require.Equal(t, AttackPhase, s.Phase())
		require.Equal(t, 5, s.Troops(0))
		require.Equal(t, []Move{
			{player: alice, Action: AttackAction, From: 0, To: 1, Troops: 3},
			{player: alice, Action: AttackAction, From: 2, To: 1, Troops: 1},
			{player: alice, Action: PassAction},
		}, moves(s))
	})

	t.Run("attack outcomes follow the dice odds", func(t *testing.T) {
		s := position(line(), players, AttackPhase, 0, []int8{0, 1, 0}, []int{5, 2, 2})
		attack := Move{player: alice, Action: AttackAction, From: 0, To: 1, Troops: 3}
		require.False(t, attack.IsDeterministic())

		outcomes := s.Outcomes(attack)
		require.Len(t, outcomes, 3)
		require.InDelta(t, 1.0, game.TotalWeight(outcomes), 1e-12)

		conquered := outcomes[0].Value.(State)
		require.Equal(t, alice, conquered.Owner(1))
		require.Equal(t, 4, conquered.Troops(1))
		require.Equal(t, 1, conquered.Troops(0))
		require.Equal(t, []game.PlayerToken{alice}, conquered.Winners())
		require.Empty(t, conquered.AvailableMoves())

		repelled := outcomes[2].Value.(State)
		require.Equal(t, bob, repelled.Owner(1))
		require.Equal(t, 3, repelled.Troops(0))
		require.Equal(t, AttackPhase, repelled.Phase())

		require.Equal(t, []int{5, 2, 2}, s.troops, "Outcomes must not modify the state")
	})

	t.Run("played attack lands on one of the outcomes", func(t *testing.T) {
		s := position(line(), players, AttackPhase, 0, []int8{0, 1, 0}, []int{5, 2, 2})
		attack := Move{player: alice, Action: AttackAction, From: 0, To: 1, Troops: 3}

		played := s.Play(attack)
		require.True(t, lo.SomeBy(s.Outcomes(attack), func(w game.Weighted[game.State]) bool {
			return w.Value.Compare(played) == 0
		}))
	})

	t.Run("maneuvers only through own cantons", func(t *testing.T) {
		split := position(line(), players, ManeuverPhase, 0, []int8{0, 1, 0}, []int{5, 2, 2})
		require.Equal(t, []Move{{player: alice, Action: PassAction}}, moves(split))
		require.False(t, split.AreConnected(0, 2))

		joined := position(line(), players, ManeuverPhase, 0, []int8{0, 0, 1}, []int{4, 2, 3})
		require.True(t, joined.AreConnected(0, 1))
		require.Equal(t, []Move{
			{player: alice, Action: ManeuverAction, From: 0, To: 1, Troops: 1},
			{player: alice, Action: ManeuverAction, From: 0, To: 1, Troops: 3},
			{player: alice, Action: ManeuverAction, From: 1, To: 0, Troops: 1},
			{player: alice, Action: PassAction},
		}, moves(joined))
	})

	t.Run("a maneuver ends the turn", func(t *testing.T) {
		s := position(line(), players, ManeuverPhase, 0, []int8{0, 0, 1}, []int{4, 2, 3})

		next := s.Play(Move{player: alice, Action: ManeuverAction, From: 0, To: 1, Troops: 3}).(State)
		require.Equal(t, []int{1, 5, 3}, next.troops)
		require.Equal(t, bob, next.Current())
		require.Equal(t, ReinforcementPhase, next.Phase())
		require.Equal(t, MinReinforce, next.TroopsToPlace())
	})

	t.Run("holding a region earns its bonus", func(t *testing.T) {
		s := position(line(), players, ReinforcementPhase, 0, []int8{0, 0, 1}, []int{1, 1, 1})

		require.Equal(t, MinReinforce+2, s.TroopsToPlace())
	})

	t.Run("passing twice hands over the turn", func(t *testing.T) {
		s := position(line(), players, AttackPhase, 0, []int8{0, 1, 0}, []int{5, 2, 2})
		pass := Move{player: alice, Action: PassAction}

		next := s.Play(pass).(State)
		require.Equal(t, ManeuverPhase, next.Phase())
		next = next.Play(pass).(State)
		require.Equal(t, bob, next.Current())
	})

	t.Run("eliminated players are skipped", func(t *testing.T) {
		carol := game.NewPlayerToken("carol")
		s := position(line(), []game.PlayerToken{alice, bob, carol}, ManeuverPhase, 0, []int8{0, 0, 2}, []int{2, 2, 2})

		next := s.Play(Move{player: alice, Action: PassAction}).(State)
		require.Equal(t, carol, next.Current())
	})

	t.Run("illegal moves panic", func(t *testing.T) {
		s := New(line(), alice, bob)

		require.Panics(t, func() { s.Play(Move{player: bob, Action: PassAction}) })
		require.Panics(t, func() { s.Play(Move{player: alice, Action: ReinforceAction, To: 1, Troops: 1}) })
	})
}

func TestIdentity(t *testing.T) {
	alice := game.NewPlayerToken("alice")
	bob := game.NewPlayerToken("bob")
	reinforce := Move{player: alice, Action: ReinforceAction, To: 0, Troops: 1}

	t.Run("equal positions hash and compare equal", func(t *testing.T) {
		board := CreateMap()
		x := New(board, alice, bob).Play(reinforce)
		y := New(board, alice, bob).Play(reinforce)

		require.Equal(t, 0, x.Compare(y))
		require.Equal(t, x.Hash(), y.Hash())
	})

	t.Run("different positions differ", func(t *testing.T) {
		s := New(CreateMap(), alice, bob)
		next := s.Play(reinforce)

		require.NotEqual(t, 0, s.Compare(next))
		require.Equal(t, -next.Compare(s), s.Compare(next))
		require.NotEqual(t, s.Hash(), next.Hash())
	})
}

func TestEval(t *testing.T) {
	alice := game.NewPlayerToken("alice")
	bob := game.NewPlayerToken("bob")
	s := position(line(), []game.PlayerToken{alice, bob}, AttackPhase, 0, []int8{0, 0, 1}, []int{4, 2, 3})

	t.Run("resources count cantons troops and bonuses", func(t *testing.T) {
		require.InDelta(t, 5.0/9, Resources(game.PlayerState{Player: alice, State: s}), 1e-12)
		require.InDelta(t, -5.0/9, Resources(game.PlayerState{Player: bob, State: s}), 1e-12)
	})

	t.Run("scores stay within bounds", func(t *testing.T) {
		for _, scorer := range []func(game.PlayerState) float64{Resources, BorderStrength, Connectivity} {
			for _, p := range []game.PlayerToken{alice, bob} {
				v := scorer(game.PlayerState{Player: p, State: s})
				require.GreaterOrEqual(t, v, -1.0)
				require.LessOrEqual(t, v, 1.0)
			}
		}
	})

	t.Run("an even deal is balanced", func(t *testing.T) {
		even := position(line(), []game.PlayerToken{alice, bob}, AttackPhase, 0, []int8{0, 1, 1}, []int{2, 2, 2})

		require.Less(t, Connectivity(game.PlayerState{Player: alice, State: even}), 0.0)
		require.Greater(t, Connectivity(game.PlayerState{Player: bob, State: even}), 0.0)
	})

	t.Run("unseated players panic", func(t *testing.T) {
		require.Panics(t, func() { Metric().Score(game.PlayerState{Player: game.NewPlayerToken("x"), State: s}) })
	})
}
