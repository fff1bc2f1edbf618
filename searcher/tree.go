package searcher

import (
	"gametheory/cache"
	"gametheory/game"
)

// GameTree maps every distinct state to exactly one StateNode, however many
// parents reach it. Transpositions therefore share all work done below them.
type GameTree[S any] struct {
	cache cache.Cache[*StateNode[S]]
	// counters for the metrics collector
	created int
	hits    int
}

func NewGameTree[S any](c cache.Cache[*StateNode[S]]) *GameTree[S] {
	if c == nil {
		c = cache.Null[*StateNode[S]]{}
	}
	return &GameTree[S]{cache: c}
}

// Node returns the node for state, building and caching it on first visit.
func (t *GameTree[S]) Node(state game.State) *StateNode[S] {
	if node, ok := t.cache.TryGet(state); ok {
		t.hits++
		return node
	}
	node := newStateNode(t, state)
	t.cache.Set(state, node)
	t.created++
	return node
}

// remember stores a finished result. Writes replace the whole entry, so an
// aborted search never leaves a half-updated node behind.
func (t *GameTree[S]) remember(node *StateNode[S], line *Mainline[S]) {
	node.mainline = line
	t.cache.Set(node.state, node)
}

// Trim bounds the memory kept between moves. See cache.Cache.
func (t *GameTree[S]) Trim(depth int) {
	t.cache.Trim(depth)
}

func (t *GameTree[S]) Len() int {
	return t.cache.Len()
}
