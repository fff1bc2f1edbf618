// Package cache holds transposition tables: maps from a canonical game state
// to whatever a searcher memoized for it.
//
// None of the caches are safe for concurrent use. A cache belongs to exactly
// one searcher.
package cache

import "gametheory/game"

type Cache[V any] interface {
	Set(state game.State, value V)
	TryGet(state game.State) (V, bool)
	// Trim bounds memory between searches. What survives depends on the
	// policy.
	Trim(depth int)
	Len() int
}

type Policy string

const (
	NullPolicy       Policy = "null"
	DictionaryPolicy Policy = "dictionary"
	SplayPolicy      Policy = "splay"
)

// New builds an empty cache for the policy, or nil for an unknown one.
func New[V any](policy Policy) Cache[V] {
	switch policy {
	case NullPolicy:
		return Null[V]{}
	case DictionaryPolicy:
		return NewDictionary[V]()
	case SplayPolicy:
		return NewSplay[V]()
	}
	return nil
}

// Null never remembers anything. Use it when states never transpose and memory
// matters more than reuse.
type Null[V any] struct{}

func (Null[V]) Set(game.State, V) {}

func (Null[V]) TryGet(game.State) (V, bool) {
	var zero V
	return zero, false
}

func (Null[V]) Trim(int) {}

func (Null[V]) Len() int { return 0 }
