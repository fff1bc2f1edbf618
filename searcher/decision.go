package searcher

import (
	"github.com/samber/lo"

	"gametheory/game"
)

// StateNode is a position in the tree. Its legal moves and move nodes are
// computed on first use.
type StateNode[S any] struct {
	tree     *GameTree[S]
	state    game.State
	moves    []game.Move
	children []*MoveNode[S]
	expanded bool
	mainline *Mainline[S]
}

func newStateNode[S any](tree *GameTree[S], state game.State) *StateNode[S] {
	return &StateNode[S]{tree: tree, state: state}
}

func (n *StateNode[S]) State() game.State {
	return n.state
}

// Mainline is the last result computed for this node, or nil.
func (n *StateNode[S]) Mainline() *Mainline[S] {
	return n.mainline
}

func (n *StateNode[S]) Moves() []game.Move {
	if !n.expanded {
		n.moves = n.state.AvailableMoves()
		n.children = make([]*MoveNode[S], len(n.moves))
		n.expanded = true
	}
	return n.moves
}

// Move returns the node of the i-th available move.
func (n *StateNode[S]) Move(i int) *MoveNode[S] {
	n.Moves()
	if n.children[i] == nil {
		n.children[i] = newMoveNode(n, n.moves[i])
	}
	return n.children[i]
}

// Child returns the node of move, or nil if move is not available here.
func (n *StateNode[S]) Child(move game.Move) *MoveNode[S] {
	i := lo.IndexOf(n.Moves(), move)
	if i < 0 {
		return nil
	}
	return n.Move(i)
}
