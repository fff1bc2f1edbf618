package game

import "golang.org/x/exp/rand"

// Weighted pairs a value with a non-negative weight. It is used both for
// chance outcomes and for mixed strategies.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

func NewWeighted[T any](value T, weight float64) Weighted[T] {
	if weight < 0 {
		panic("weight must be non-negative")
	}
	return Weighted[T]{Value: value, Weight: weight}
}

// TotalWeight sums the weights of all items.
func TotalWeight[T any](items []Weighted[T]) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Weight
	}
	return total
}

// Normalize rescales the weights to sum to 1. Items with a zero total weight
// are returned unchanged.
func Normalize[T any](items []Weighted[T]) []Weighted[T] {
	total := TotalWeight(items)
	if total == 0 {
		return items
	}
	normalized := make([]Weighted[T], len(items))
	for i, item := range items {
		normalized[i] = Weighted[T]{Value: item.Value, Weight: item.Weight / total}
	}
	return normalized
}

// Pick samples one item proportionally to its weight.
func Pick[T any](rnd *rand.Rand, items []Weighted[T]) T {
	if len(items) == 0 {
		panic("cannot pick from an empty list")
	}
	total := TotalWeight(items)
	if total <= 0 {
		return items[rnd.Intn(len(items))].Value
	}
	sampled := rnd.Float64() * total
	cumulative := 0.0
	for _, item := range items {
		cumulative += item.Weight
		if sampled < cumulative {
			return item.Value
		}
	}
	return items[len(items)-1].Value // Fallback in case of rounding errors
}
