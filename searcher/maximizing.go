package searcher

import (
	"context"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"gametheory/game"
	"gametheory/scoring"
)

// MaximizingPlayer searches every line to a fixed number of ply and plays the
// move with the best lead over the strongest rival. Chance is resolved by the
// result metric's pessimistic combination, ties by a mixed strategy.
type MaximizingPlayer[S any] struct {
	core[S]
	minPly int
	maxPly int
}

// NewMaximizingPlayer searches at least minPly ply for player. WithMaxPly lets
// it deepen while the context has time left.
func NewMaximizingPlayer[S any](player game.PlayerToken, metric scoring.Metric[S], minPly int, options ...Option) (*MaximizingPlayer[S], error) {
	if minPly < 0 {
		return nil, errors.Wrapf(ErrNegativePly, "min ply %d", minPly)
	}
	cfg := defaultConfig()
	for _, option := range options {
		option(&cfg)
	}
	c, err := newCore(player, metric, cfg)
	if err != nil {
		return nil, err
	}
	return &MaximizingPlayer[S]{
		core:   c,
		minPly: minPly,
		maxPly: max(minPly, cfg.maxPly),
	}, nil
}

func (p *MaximizingPlayer[S]) ChooseMove(ctx context.Context, state game.State) (game.Move, error) {
	// Yield before the heavy lifting so the caller may cancel or interleave.
	runtime.Gosched()
	if !p.canMove(state) {
		return nil, nil
	}

	p.metrics.Start()
	lines, err := p.deepen(ctx, state)
	p.finish(lines)
	if err != nil {
		return nil, err
	}
	return p.pick(lines), nil
}

// Mainlines searches every sampled view of state and returns the deepest
// results completed before the context ended.
func (p *MaximizingPlayer[S]) Mainlines(ctx context.Context, state game.State) ([]*Mainline[S], error) {
	p.metrics.Start()
	lines, err := p.deepen(ctx, state)
	p.finish(lines)
	return lines, err
}

func (p *MaximizingPlayer[S]) deepen(ctx context.Context, state game.State) ([]*Mainline[S], error) {
	start := time.Now()
	views := state.View(p.player, p.samples, p.rnd)
	if len(views) == 0 {
		panic("state view returned no determinization")
	}

	var lines []*Mainline[S]
	for ply := p.minPly; ply <= p.maxPly; ply++ {
		next := make([]*Mainline[S], 0, len(views))
		for _, view := range views {
			line, err := p.Search(ctx, view, ply)
			if err != nil {
				if lines != nil && errors.Is(err, ErrCancelled) {
					p.report("ply %d interrupted, keeping ply %d", ply, ply-1)
					return lines, nil
				}
				return nil, err
			}
			next = append(next, line)
		}
		lines = next
		p.metrics.SetPly(ply)
		p.report("ply %d after %s: %v", ply, time.Since(start).Round(time.Microsecond), lines[0])

		if lo.EveryBy(lines, func(l *Mainline[S]) bool { return l.FullyDetermined }) {
			break
		}
	}
	return lines, nil
}

// Search computes the mainline of state with ply remaining, reusing and
// updating the transposition cache.
func (p *MaximizingPlayer[S]) Search(ctx context.Context, state game.State, ply int) (*Mainline[S], error) {
	if ply < 0 {
		return nil, errors.Wrapf(ErrNegativePly, "ply %d", ply)
	}
	return p.search(ctx, p.tree.Node(state), ply)
}

func (p *MaximizingPlayer[S]) search(ctx context.Context, node *StateNode[S], ply int) (*Mainline[S], error) {
	// A shallower result is a miss: the key is the state alone, not the ply.
	if line := node.mainline; line != nil && line.Covers(ply) {
		p.metrics.AddCacheHit()
		return line, nil
	}

	moves := node.Moves()
	if ply == 0 || len(moves) == 0 {
		line := p.leaf(node.state, ply, len(moves) == 0)
		p.tree.remember(node, line)
		return line, nil
	}

	if err := checkCancelled(ctx, ply); err != nil {
		return nil, err
	}

	candidates := make([]candidate[S], 0, len(moves))
	for i, move := range moves {
		children := node.Move(i).Children()
		outcomes := make([]game.Weighted[*Mainline[S]], len(children))
		for j, child := range children {
			line, err := p.search(ctx, child.Value, ply-1)
			if err != nil {
				return nil, err
			}
			outcomes[j] = game.Weighted[*Mainline[S]]{Value: line, Weight: child.Weight}
		}
		candidates = append(candidates, p.candidate(move, p.follow(outcomes)))
	}

	determined := lo.EveryBy(candidates, func(cand candidate[S]) bool { return cand.line.FullyDetermined })
	line := p.resolve(node, candidates, ply, determined)
	p.tree.remember(node, line)
	return line, nil
}
