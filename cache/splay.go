package cache

import "gametheory/game"

type splayNode[V any] struct {
	state  game.State
	value  V
	parent *splayNode[V]
	left   *splayNode[V]
	right  *splayNode[V]
}

// Splay is a self-adjusting binary search tree ordered by State.Compare. Every
// lookup or insert rotates the accessed node to the root, so recently played
// positions stay cheap to find and Trim keeps exactly that region.
type Splay[V any] struct {
	root *splayNode[V]
	size int
}

func NewSplay[V any]() *Splay[V] {
	return &Splay[V]{}
}

func (s *Splay[V]) Set(state game.State, value V) {
	n, c := s.find(state)
	if n != nil && c == 0 {
		n.value = value
		s.splay(n)
		return
	}

	x := &splayNode[V]{state: state, value: value, parent: n}
	switch {
	case n == nil:
		s.root = x
	case c < 0:
		n.left = x
	default:
		n.right = x
	}
	s.size++
	s.splay(x)
}

func (s *Splay[V]) TryGet(state game.State) (V, bool) {
	n, c := s.find(state)
	if n == nil {
		var zero V
		return zero, false
	}
	// Splay the closest node on a miss too, as the search is about to insert
	// the state next to it.
	s.splay(n)
	if c != 0 {
		var zero V
		return zero, false
	}
	return n.value, true
}

// Trim discards every node more than depth edges below the root. A negative
// depth empties the tree.
func (s *Splay[V]) Trim(depth int) {
	if depth < 0 || s.root == nil {
		s.root = nil
		s.size = 0
		return
	}
	s.size = prune(s.root, depth)
}

func (s *Splay[V]) Len() int {
	return s.size
}

func prune[V any](n *splayNode[V], depth int) int {
	if n == nil {
		return 0
	}
	if depth == 0 {
		n.left = nil
		n.right = nil
		return 1
	}
	return 1 + prune(n.left, depth-1) + prune(n.right, depth-1)
}

// find returns the node equal to state, or the last node visited together with
// the side state falls on.
func (s *Splay[V]) find(state game.State) (*splayNode[V], int) {
	var last *splayNode[V]
	c := 0
	n := s.root
	for n != nil {
		last = n
		c = state.Compare(n.state)
		switch {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n, 0
		}
	}
	return last, c
}

func (s *Splay[V]) splay(x *splayNode[V]) {
	for x.parent != nil {
		p := x.parent
		g := p.parent
		switch {
		case g == nil: // zig
			s.rotate(x)
		case (g.left == p) == (p.left == x): // zig-zig
			s.rotate(p)
			s.rotate(x)
		default: // zig-zag
			s.rotate(x)
			s.rotate(x)
		}
	}
}

// rotate lifts x above its parent.
func (s *Splay[V]) rotate(x *splayNode[V]) {
	p := x.parent
	g := p.parent
	if p.left == x {
		p.left = x.right
		if x.right != nil {
			x.right.parent = p
		}
		x.right = p
	} else {
		p.right = x.left
		if x.left != nil {
			x.left.parent = p
		}
		x.left = p
	}
	p.parent = x
	x.parent = g

	switch {
	case g == nil:
		s.root = x
	case g.left == p:
		g.left = x
	default:
		g.right = x
	}
}
