// Package scoring defines how positions are valued. A Metric is injected into
// the searchers as a capability; they never branch on which game is played.
package scoring

import (
	"cmp"

	"gametheory/game"
)

// Metric scores positions for one observing player and combines, orders and
// subtracts those scores.
//
// Combine must return a single weight-1 score unchanged, and repeated pairwise
// combination with renormalized weights must equal one combination of the
// whole set. Compare must be a strict weak ordering.
type Metric[S any] interface {
	Score(state game.PlayerState) S
	Combine(scores ...game.Weighted[S]) S
	Compare(a, b S) int
	// Difference is the lead of a over b
	Difference(a, b S) S
}

// Scorer evaluates a position from a player's perspective.
type Scorer func(state game.PlayerState) float64

// Scalar is the zero-sum float metric: expectation for chance, a - b for leads.
type Scalar struct {
	scorer Scorer
}

func NewScalar(scorer Scorer) Scalar {
	if scorer == nil {
		panic("scalar metric needs a scorer")
	}
	return Scalar{scorer: scorer}
}

func (s Scalar) Score(state game.PlayerState) float64 {
	return s.scorer(state)
}

func (s Scalar) Combine(scores ...game.Weighted[float64]) float64 {
	total, sum := 0.0, 0.0
	for _, score := range scores {
		total += score.Weight
		sum += score.Value * score.Weight
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

func (s Scalar) Compare(a, b float64) int {
	return cmp.Compare(a, b)
}

func (s Scalar) Difference(a, b float64) float64 {
	return a - b
}
