package pig

import (
	"gametheory/game"
	"gametheory/scoring"
)

// Progress is the share of the target the player has secured, less the
// share secured by the opponent. The turn total counts for the player to move.
func Progress(ps game.PlayerState) float64 {
	s, ok := ps.State.(State)
	if !ok {
		panic("unexpected state type")
	}
	seat := 0
	if ps.Player == s.players[1] {
		seat = 1
	}
	own := float64(s.scores[seat])
	other := float64(s.scores[1-seat])
	if s.turn == seat {
		own += float64(s.pending)
	} else {
		other += float64(s.pending)
	}
	return (own - other) / float64(s.target)
}

func Metric() scoring.Scalar {
	return scoring.NewScalar(Progress)
}
