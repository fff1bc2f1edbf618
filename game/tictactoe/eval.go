package tictactoe

import (
	"gametheory/game"
	"gametheory/scoring"
)

// OpenLines counts the lines still winnable by the player minus those still
// winnable by the opponent, weighting lines by how many marks they hold.
func OpenLines(ps game.PlayerState) float64 {
	s, ok := ps.State.(State)
	if !ok {
		panic("unexpected state type")
	}
	mine := first
	if ps.Player == s.players[1] {
		mine = second
	}

	score := 0.0
	for _, line := range lines {
		own, other := 0, 0
		for _, cell := range line {
			switch s.board[cell] {
			case empty:
			case mine:
				own++
			default:
				other++
			}
		}
		switch {
		case other == 0 && own > 0:
			score += float64(own)
		case own == 0 && other > 0:
			score -= float64(other)
		}
	}
	return score
}

func Metric() scoring.Scalar {
	return scoring.NewScalar(OpenLines)
}
