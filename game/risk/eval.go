package risk

import (
	"math"

	"github.com/samber/lo"

	"gametheory/game"
	"gametheory/scoring"
)

// The scorers tally a quantity per seat and compare the observer against its
// strongest rival, yielding a score in [-1, 1].

// Resources weighs cantons, troops and region bonuses.
func Resources(ps game.PlayerState) float64 {
	s, seat := view(ps)
	territories, troops := s.resourceTallies()
	return (s.relative(seat, territories) + s.relative(seat, troops) + s.relative(seat, s.bonusTallies())) / 3
}

// BorderStrength adds the troop difference along every front line.
func BorderStrength(ps game.PlayerState) float64 {
	s, seat := view(ps)
	territories, troops := s.resourceTallies()
	return (s.relative(seat, territories) + s.relative(seat, troops) +
		s.relative(seat, s.bonusTallies()) + s.relative(seat, s.borderTallies())) / 4
}

// Connectivity adds the size of the largest connected group of cantons.
func Connectivity(ps game.PlayerState) float64 {
	s, seat := view(ps)
	territories, troops := s.resourceTallies()
	return (s.relative(seat, territories) + s.relative(seat, troops) +
		s.relative(seat, s.bonusTallies()) + s.relative(seat, s.connectivityTallies())) / 4
}

func Metric() scoring.Scalar {
	return scoring.NewScalar(BorderStrength)
}

func view(ps game.PlayerState) (State, int) {
	s, ok := ps.State.(State)
	if !ok {
		panic("unexpected state type")
	}
	seat := s.seat(ps.Player)
	if seat < 0 {
		panic("player is not seated")
	}
	return s, seat
}

// relative compares the seat's tally with the best rival tally.
func (s State) relative(seat int, tallies []float64) float64 {
	rival := math.Inf(-1)
	for i, v := range tallies {
		if i != seat {
			rival = max(rival, v)
		}
	}
	return normalize(tallies[seat], rival)
}

// normalize maps the difference of two values to [-1, 1].
func normalize(value, other float64) float64 {
	total := math.Abs(value) + math.Abs(other)
	if total == 0 {
		return 0
	}
	return (value - other) / total
}

func (s State) resourceTallies() (territories, troops []float64) {
	territories = make([]float64, len(s.players))
	troops = make([]float64, len(s.players))
	for id, owner := range s.owners {
		if owner != unowned {
			territories[owner]++
			troops[owner] += float64(s.troops[id])
		}
	}
	return territories, troops
}

func (s State) bonusTallies() []float64 {
	bonus := make([]float64, len(s.players))
	for _, region := range s.board.Regions {
		owner := s.owners[region.CantonIDs[0]]
		if owner != unowned && lo.EveryBy(region.CantonIDs, func(id int) bool { return s.owners[id] == owner }) {
			bonus[owner] += float64(region.Bonus)
		}
	}
	return bonus
}

// borderTallies sums, per canton, the troop difference with every hostile
// neighbor, scaled down by the square root of the number of fronts.
func (s State) borderTallies() []float64 {
	strength := make([]float64, len(s.players))
	for id, owner := range s.owners {
		if owner == unowned {
			continue
		}
		fronts := 0
		diff := 0.0
		for _, adj := range s.board.Cantons[id].AdjacentIDs {
			if s.owners[adj] != owner {
				fronts++
				diff += float64(s.troops[id] - s.troops[adj])
			}
		}
		if fronts > 0 {
			strength[owner] += diff / math.Sqrt(float64(fronts))
		}
	}
	return strength
}

func (s State) connectivityTallies() []float64 {
	largest := make([]float64, len(s.players))
	visited := make([]bool, len(s.owners))
	for id, owner := range s.owners {
		if owner == unowned || visited[id] {
			continue
		}
		visited[id] = true
		group := s.reachable(id)
		for _, c := range group {
			visited[c] = true
		}
		largest[owner] = max(largest[owner], float64(len(group)+1))
	}
	return largest
}
