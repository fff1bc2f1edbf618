package metrics

import (
	"strings"
	"time"

	"gametheory/searcher"
)

// AgentConfig names one player configuration of an experiment. Config is a
// player factory string such as "maximizing:ply=3".
type AgentConfig struct {
	ID     int
	Config string
}

type MoveMetric struct {
	Turn     int
	Player   string
	Move     string // Empty when the player passed
	Elapsed  time.Duration
	TimedOut bool
	searcher.SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winners        []string
	Stalled        bool // Nobody moved while moves were available
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalTurns     int
}

// Winner joins shared winners with "+"; empty for a draw or unfinished game.
func (m GameMetric) Winner() string {
	return strings.Join(m.Winners, "+")
}
