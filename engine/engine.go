// Package engine drives a game between searchers, asking every player to move
// within a deadline and resolving chance with its own random source.
package engine

import (
	"context"
	"time"

	"gametheory/experiments/metrics"
	"gametheory/game"
)

const (
	MaxTurns        = 300
	DefaultMoveTime = time.Second
)

type Engine interface {
	// Run plays until the game ends, stalls or MaxTurns is reached
	Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error)
}

// Update describes one completed turn.
type Update struct {
	Turn  int
	Moves []game.Move
	State game.State
}

type Observer func(Update)

type Option func(e *LocalEngine)

// WithMoveTime bounds how long every player may think per turn. Zero means no
// bound beyond the context passed to Run.
func WithMoveTime(d time.Duration) Option {
	return func(e *LocalEngine) {
		e.moveTime = d
	}
}

func WithMaxTurns(turns int) Option {
	return func(e *LocalEngine) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

// WithSeed fixes how chance moves are resolved.
func WithSeed(seed uint64) Option {
	return func(e *LocalEngine) {
		e.seed = seed
	}
}

func WithObserver(observer Observer) Option {
	return func(e *LocalEngine) {
		e.observer = observer
	}
}
