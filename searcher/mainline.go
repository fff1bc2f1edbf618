package searcher

import (
	"fmt"
	"slices"
	"strings"

	"gametheory/game"
	"gametheory/scoring"
)

// Mainline is the result of searching a node: every player's score, the
// strategies along the principal variation and how far the search looked.
// It is never modified after construction.
type Mainline[S any] struct {
	Scores map[game.PlayerToken]scoring.ResultScore[S]
	// State is the position at the end of the principal variation
	State game.State
	// Player acts first on the principal variation; zero when nobody moves
	Player game.PlayerToken
	// Strategies holds one weighted move list per ply, starting at the node
	Strategies [][]game.Weighted[game.Move]
	Depth      int
	// FullyDetermined is set when the result was expanded down to terminal
	// states and no budget cut it short.
	FullyDetermined bool
}

// Strategy is the weighted move list at the node itself.
func (m *Mainline[S]) Strategy() []game.Weighted[game.Move] {
	if len(m.Strategies) == 0 {
		return nil
	}
	return m.Strategies[0]
}

// Covers reports whether the result can stand in for a search of ply.
func (m *Mainline[S]) Covers(ply int) bool {
	return m.FullyDetermined || m.Depth >= ply
}

// Score returns the player's score and whether the player was scored.
func (m *Mainline[S]) Score(player game.PlayerToken) (scoring.ResultScore[S], bool) {
	s, ok := m.Scores[player]
	return s, ok
}

// players lists the scored players in token order.
func (m *Mainline[S]) players() []game.PlayerToken {
	players := make([]game.PlayerToken, 0, len(m.Scores))
	for p := range m.Scores {
		players = append(players, p)
	}
	slices.SortFunc(players, game.PlayerToken.Compare)
	return players
}

// extend pushes every score n ply further away and adds n to the depth.
func (m *Mainline[S]) extend(n int) *Mainline[S] {
	scores := make(map[game.PlayerToken]scoring.ResultScore[S], len(m.Scores))
	for p, s := range m.Scores {
		scores[p] = s.AddPly(float64(n))
	}
	extended := *m
	extended.Scores = scores
	extended.Depth += n
	return &extended
}

func (m *Mainline[S]) String() string {
	var b strings.Builder
	for i, strategy := range m.Strategies {
		if i > 0 {
			b.WriteString(" ")
		}
		for j, w := range strategy {
			if j > 0 {
				b.WriteString("|")
			}
			fmt.Fprintf(&b, "%v", w.Value)
		}
	}
	if len(m.Strategies) > 0 {
		b.WriteString(" ")
	}
	b.WriteString("{")
	for i, p := range m.players() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v: %v", p, m.Scores[p])
	}
	b.WriteString("}")
	if m.FullyDetermined {
		b.WriteString(" determined")
	}
	return b.String()
}
