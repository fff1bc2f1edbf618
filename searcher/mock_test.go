package searcher

import (
	"hash/fnv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"gametheory/game"
	"gametheory/scoring"
)

type mockMove struct {
	player game.PlayerToken
	name   string
	chance bool
}

func (m mockMove) Player() game.PlayerToken { return m.player }
func (m mockMove) IsDeterministic() bool    { return !m.chance }
func (m mockMove) String() string           { return m.name }

type mockEdge struct {
	move     mockMove
	outcomes []game.Weighted[string]
}

type mockNode struct {
	edges   []mockEdge
	winners []game.PlayerToken
	values  map[game.PlayerToken]float64
}

// mockGame is an explicit graph of named positions. Positions without edges
// are terminal.
type mockGame struct {
	players []game.PlayerToken
	nodes   map[string]*mockNode
}

func newMockGame(players ...game.PlayerToken) *mockGame {
	return &mockGame{players: players, nodes: map[string]*mockNode{}}
}

func (g *mockGame) node(id string) *mockNode {
	n, ok := g.nodes[id]
	if !ok {
		n = &mockNode{values: map[game.PlayerToken]float64{}}
		g.nodes[id] = n
	}
	return n
}

func (g *mockGame) edge(from string, player game.PlayerToken, name, to string) *mockGame {
	n := g.node(from)
	g.node(to)
	n.edges = append(n.edges, mockEdge{
		move:     mockMove{player: player, name: name},
		outcomes: []game.Weighted[string]{{Value: to, Weight: 1}},
	})
	return g
}

func (g *mockGame) chance(from string, player game.PlayerToken, name string, outcomes ...game.Weighted[string]) *mockGame {
	n := g.node(from)
	for _, o := range outcomes {
		g.node(o.Value)
	}
	n.edges = append(n.edges, mockEdge{
		move:     mockMove{player: player, name: name, chance: true},
		outcomes: outcomes,
	})
	return g
}

func (g *mockGame) win(id string, winners ...game.PlayerToken) *mockGame {
	g.node(id).winners = winners
	return g
}

// value sets the heuristic of every player at id, in player order.
func (g *mockGame) value(id string, values ...float64) *mockGame {
	n := g.node(id)
	for i, v := range values {
		n.values[g.players[i]] = v
	}
	return g
}

// hold gives id a self loop per player so that it is not terminal.
func (g *mockGame) hold(id string) *mockGame {
	for _, p := range g.players {
		g.edge(id, p, "hold-"+p.Name(), id)
	}
	return g
}

func (g *mockGame) state(id string) mockState {
	g.node(id)
	return mockState{game: g, id: id}
}

type mockState struct {
	game *mockGame
	id   string
}

func (s mockState) Players() []game.PlayerToken { return s.game.players }

func (s mockState) AvailableMoves() []game.Move {
	n := s.game.nodes[s.id]
	moves := make([]game.Move, len(n.edges))
	for i, e := range n.edges {
		moves[i] = e.move
	}
	return moves
}

func (s mockState) Winners() []game.PlayerToken { return s.game.nodes[s.id].winners }

func (s mockState) Play(move game.Move) game.State {
	return s.Outcomes(move)[0].Value
}

func (s mockState) Outcomes(move game.Move) []game.Weighted[game.State] {
	for _, e := range s.game.nodes[s.id].edges {
		if e.move != move {
			continue
		}
		outcomes := make([]game.Weighted[game.State], len(e.outcomes))
		for i, o := range e.outcomes {
			outcomes[i] = game.Weighted[game.State]{Value: s.game.state(o.Value), Weight: o.Weight}
		}
		return outcomes
	}
	panic("unknown move " + move.(mockMove).name + " in " + s.id)
}

func (s mockState) View(game.PlayerToken, int, *rand.Rand) []game.State {
	return []game.State{s}
}

func (s mockState) Hash() game.StateHash {
	h := fnv.New64a()
	h.Write([]byte(s.id))
	return game.StateHash(h.Sum64())
}

func (s mockState) Compare(other game.State) int {
	return strings.Compare(s.id, other.(mockState).id)
}

func (s mockState) String() string { return s.id }

// spyMetric scores the heuristic values of a mockGame and counts every
// evaluation per position.
type spyMetric struct {
	scoring.Scalar
	calls map[string]int
}

func newSpyMetric() *spyMetric {
	spy := &spyMetric{calls: map[string]int{}}
	spy.Scalar = scoring.NewScalar(func(ps game.PlayerState) float64 {
		s := ps.State.(mockState)
		spy.calls[s.id]++
		return s.game.nodes[s.id].values[ps.Player]
	})
	return spy
}

func (s *spyMetric) total() int {
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

func newMaximizer(t *testing.T, player game.PlayerToken, metric scoring.Metric[float64], ply int, options ...Option) *MaximizingPlayer[float64] {
	t.Helper()
	options = append([]Option{WithSeed(1), WithTemperature(0)}, options...)
	p, err := NewMaximizingPlayer(player, metric, ply, options...)
	require.NoError(t, err)
	return p
}

func move(player game.PlayerToken, name string) game.Move {
	return mockMove{player: player, name: name}
}

func strategyMoves(strategy []game.Weighted[game.Move]) []game.Move {
	moves := make([]game.Move, len(strategy))
	for i, w := range strategy {
		moves[i] = w.Value
	}
	return moves
}
