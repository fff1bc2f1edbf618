package searcher

import (
	"math"

	"github.com/samber/lo"

	"gametheory/game"
)

// policy merges the searching player's moves from the strategies of every
// sampled view.
func (c *core[S]) policy(lines []*Mainline[S]) []game.Weighted[game.Move] {
	var policy []game.Weighted[game.Move]
	for _, line := range lines {
		for _, w := range line.Strategy() {
			if w.Value.Player() != c.player {
				continue
			}
			_, i, found := lo.FindIndexOf(policy, func(p game.Weighted[game.Move]) bool { return p.Value == w.Value })
			if found {
				policy[i].Weight += w.Weight
				continue
			}
			policy = append(policy, w)
		}
	}
	return policy
}

// pick chooses the move to play, or nil when no line recommends a move for the
// searching player.
func (c *core[S]) pick(lines []*Mainline[S]) game.Move {
	policy := c.policy(lines)
	if len(policy) == 0 {
		return nil
	}
	if c.temperature == 0 {
		return findMax(policy)
	}
	return game.Pick(c.rnd, adjustTemperature(policy, c.temperature))
}

func findMax(policy []game.Weighted[game.Move]) game.Move {
	return lo.MaxBy(policy, func(a, b game.Weighted[game.Move]) bool {
		return a.Weight > b.Weight
	}).Value
}

func adjustTemperature(policy []game.Weighted[game.Move], temperature float64) []game.Weighted[game.Move] {
	if temperature == 1 {
		return policy
	}
	exponent := 1.0 / temperature
	adjusted := make([]game.Weighted[game.Move], len(policy))
	for i, w := range policy {
		adjusted[i] = game.Weighted[game.Move]{Value: w.Value, Weight: math.Pow(w.Weight, exponent)}
	}
	return game.Normalize(adjusted)
}
