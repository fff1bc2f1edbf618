// Package searcher turns a stream of (state -> moves -> outcomes) into a chosen
// move. MaximizingPlayer expands the tree to a fixed ply budget;
// MonteCarloTreeSearchPlayer samples it until a time budget runs out. Both
// share the memoized GameTree, the result score algebra and the move policy.
//
// A searcher owns its transposition cache and is not safe for concurrent use.
// Run independent instances to search in parallel.
package searcher

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"gametheory/game"
)

// Player chooses moves for one seat. A nil move with a nil error means the
// player has nothing to do this ply.
type Player interface {
	ChooseMove(ctx context.Context, state game.State) (game.Move, error)
}

var (
	ErrCancelled   = errors.New("search cancelled")
	ErrNoPlayer    = errors.New("searching player is not set")
	ErrNoBudget    = errors.New("must specify search playouts or duration")
	ErrNegativePly = errors.New("ply budget must not be negative")
)

// CancelledError reports where a search observed its context being done. It
// matches both ErrCancelled and the context's own error.
type CancelledError struct {
	Cause error
	Ply   int
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("search cancelled with %d ply remaining: %v", e.Ply, e.Cause)
}

func (e *CancelledError) Is(target error) bool {
	return target == ErrCancelled
}

func (e *CancelledError) Unwrap() error {
	return e.Cause
}

func checkCancelled(ctx context.Context, ply int) error {
	if err := ctx.Err(); err != nil {
		return &CancelledError{Cause: err, Ply: ply}
	}
	return nil
}
