package searcher

import (
	"fmt"

	"github.com/samber/lo"

	"gametheory/game"
)

// MoveNode is one move out of a StateNode. Deterministic moves have a single
// outcome of weight 1; chance moves have one per possible result.
type MoveNode[S any] struct {
	parent   *StateNode[S]
	move     game.Move
	outcomes []game.Weighted[game.State]
}

func newMoveNode[S any](parent *StateNode[S], move game.Move) *MoveNode[S] {
	return &MoveNode[S]{parent: parent, move: move}
}

func (m *MoveNode[S]) Move() game.Move {
	return m.move
}

func (m *MoveNode[S]) Outcomes() []game.Weighted[game.State] {
	if m.outcomes == nil {
		outcomes := game.Outcomes(m.parent.state, m.move)
		if len(outcomes) == 0 || game.TotalWeight(outcomes) <= 0 {
			panic(fmt.Sprintf("move %v by %v has no weighted outcome in state %v", m.move, m.move.Player(), m.parent.state))
		}
		m.outcomes = outcomes
	}
	return m.outcomes
}

// Children resolves the outcomes through the tree on every call, so a node
// evicted by a trim is rebuilt rather than kept alive here.
func (m *MoveNode[S]) Children() []game.Weighted[*StateNode[S]] {
	return lo.Map(m.Outcomes(), func(o game.Weighted[game.State], _ int) game.Weighted[*StateNode[S]] {
		return game.Weighted[*StateNode[S]]{Value: m.parent.tree.Node(o.Value), Weight: o.Weight}
	})
}
