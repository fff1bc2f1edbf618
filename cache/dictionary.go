package cache

import "gametheory/game"

type entry[V any] struct {
	state game.State
	value V
}

// Dictionary is an unbounded hash table. Colliding hashes are told apart with
// State.Compare.
type Dictionary[V any] struct {
	buckets map[game.StateHash][]entry[V]
	size    int
}

func NewDictionary[V any]() *Dictionary[V] {
	return &Dictionary[V]{buckets: make(map[game.StateHash][]entry[V])}
}

func (d *Dictionary[V]) Set(state game.State, value V) {
	hash := state.Hash()
	bucket := d.buckets[hash]
	for i := range bucket {
		if bucket[i].state.Compare(state) == 0 {
			bucket[i].value = value
			return
		}
	}
	d.buckets[hash] = append(bucket, entry[V]{state: state, value: value})
	d.size++
}

func (d *Dictionary[V]) TryGet(state game.State) (V, bool) {
	for _, e := range d.buckets[state.Hash()] {
		if e.state.Compare(state) == 0 {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// Trim drops every entry regardless of depth.
func (d *Dictionary[V]) Trim(int) {
	clear(d.buckets)
	d.size = 0
}

func (d *Dictionary[V]) Len() int {
	return d.size
}
