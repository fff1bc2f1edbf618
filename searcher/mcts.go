package searcher

import (
	"context"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"gametheory/cache"
	"gametheory/game"
	"gametheory/scoring"
)

// MonteCarloTreeSearchPlayer grows the same memoized tree as the maximizing
// search, but one random playout at a time, so it can stop at any moment with
// a usable answer.
type MonteCarloTreeSearchPlayer[S any] struct {
	core[S]
	duration time.Duration
	playouts int
	cutoff   int
	exploit  float64
}

// NewMonteCarloTreeSearchPlayer needs WithDuration, WithPlayouts or both.
func NewMonteCarloTreeSearchPlayer[S any](player game.PlayerToken, metric scoring.Metric[S], options ...Option) (*MonteCarloTreeSearchPlayer[S], error) {
	cfg := defaultConfig()
	for _, option := range options {
		option(&cfg)
	}
	if cfg.duration <= 0 && cfg.playouts <= 0 {
		return nil, errors.WithStack(ErrNoBudget)
	}
	if cfg.cachePolicy == cache.NullPolicy {
		return nil, errors.New("monte-carlo search needs a memoizing cache")
	}
	c, err := newCore(player, metric, cfg)
	if err != nil {
		return nil, err
	}
	return &MonteCarloTreeSearchPlayer[S]{
		core:     c,
		duration: cfg.duration,
		playouts: cfg.playouts,
		cutoff:   cfg.cutoff,
		exploit:  cfg.exploit,
	}, nil
}

func (m *MonteCarloTreeSearchPlayer[S]) ChooseMove(ctx context.Context, state game.State) (game.Move, error) {
	runtime.Gosched()
	if !m.canMove(state) {
		return nil, nil
	}

	lines, err := m.Simulate(ctx, state)
	if err != nil {
		return nil, err
	}
	if move := m.pick(lines); move != nil {
		return move, nil
	}

	// Too few playouts to rank the moves yet.
	mine := lo.Filter(state.AvailableMoves(), func(move game.Move, _ int) bool { return move.Player() == m.player })
	return mine[m.rnd.Intn(len(mine))], nil
}

// Simulate runs playouts from every sampled view of state until the budget is
// spent, the context is done, or every view is fully determined.
func (m *MonteCarloTreeSearchPlayer[S]) Simulate(ctx context.Context, state game.State) ([]*Mainline[S], error) {
	m.metrics.Start()
	views := state.View(m.player, m.samples, m.rnd)
	if len(views) == 0 {
		panic("state view returned no determinization")
	}
	roots := lo.Map(views, func(view game.State, _ int) *StateNode[S] { return m.tree.Node(view) })

	budget := ctx
	if m.duration > 0 {
		var cancel context.CancelFunc
		budget, cancel = context.WithTimeout(ctx, m.duration)
		defer cancel()
	}

	start := time.Now()
	episodes := 0
	for ; m.playouts <= 0 || episodes < m.playouts; episodes++ {
		if budget.Err() != nil {
			break
		}
		open := lo.Filter(roots, func(root *StateNode[S], _ int) bool {
			return root.mainline == nil || !root.mainline.FullyDetermined
		})
		if len(open) == 0 {
			break
		}
		m.playout(budget, open[episodes%len(open)], map[*StateNode[S]]bool{})
		m.metrics.AddEpisode()
	}

	lines := lo.FilterMap(roots, func(root *StateNode[S], _ int) (*Mainline[S], bool) {
		return root.mainline, root.mainline != nil
	})
	m.finish(lines)
	if len(lines) == 0 {
		return nil, checkCancelled(ctx, 0)
	}
	m.report("%d playouts in %s: %v", episodes, time.Since(start).Round(time.Microsecond), lines[0])
	return lines, nil
}

// playout either rolls out an unexpanded node or walks one step further down
// and backs the result up by maximizing this node over its children.
func (m *MonteCarloTreeSearchPlayer[S]) playout(budget context.Context, node *StateNode[S], path map[*StateNode[S]]bool) {
	line := node.mainline
	if line == nil {
		m.tree.remember(node, m.rollout(budget, node.state))
		return
	}
	if line.FullyDetermined {
		return
	}

	path[node] = true
	// A transposition back onto the path would loop; stop and back up.
	if child := m.walk(node); child != nil && !path[child] {
		m.playout(budget, child, path)
	}
	delete(path, node)
	m.maximize(node)
}

// walk picks the child to descend into: usually along the best known
// strategy, otherwise an untried move. Determined children are skipped in
// favor of undetermined siblings; nil means every child is determined.
func (m *MonteCarloTreeSearchPlayer[S]) walk(node *StateNode[S]) *StateNode[S] {
	moves := node.Moves()
	i := -1
	if strategy := node.mainline.Strategy(); len(strategy) > 0 && m.rnd.Float64() < m.exploit {
		i = lo.IndexOf(moves, game.Pick(m.rnd, strategy))
	}
	if i < 0 {
		untried := lo.Filter(lo.Range(len(moves)), func(j int, _ int) bool {
			return lo.SomeBy(node.Move(j).Children(), func(c game.Weighted[*StateNode[S]]) bool {
				return c.Value.mainline == nil
			})
		})
		if len(untried) > 0 {
			i = untried[m.rnd.Intn(len(untried))]
		} else {
			i = m.rnd.Intn(len(moves))
		}
	}

	child := game.Pick(m.rnd, node.Move(i).Children())
	if child.mainline == nil || !child.mainline.FullyDetermined {
		return child
	}

	var open []*StateNode[S]
	for j := range moves {
		for _, c := range node.Move(j).Children() {
			if c.Value.mainline == nil || !c.Value.mainline.FullyDetermined {
				open = append(open, c.Value)
			}
		}
	}
	if len(open) == 0 {
		return nil
	}
	return open[m.rnd.Intn(len(open))]
}

// maximize recomputes a node's mainline from whatever its children know.
func (m *MonteCarloTreeSearchPlayer[S]) maximize(node *StateNode[S]) {
	moves := node.Moves()
	candidates := make([]candidate[S], 0, len(moves))
	explored := true
	for i, move := range moves {
		children := node.Move(i).Children()
		outcomes := lo.FilterMap(children, func(c game.Weighted[*StateNode[S]], _ int) (game.Weighted[*Mainline[S]], bool) {
			return game.Weighted[*Mainline[S]]{Value: c.Value.mainline, Weight: c.Weight}, c.Value.mainline != nil
		})
		if len(outcomes) < len(children) {
			explored = false
		}
		if len(outcomes) == 0 {
			continue
		}
		candidates = append(candidates, m.candidate(move, m.follow(outcomes)))
	}
	if len(candidates) == 0 {
		return
	}

	determined := explored && lo.EveryBy(candidates, func(cand candidate[S]) bool { return cand.line.FullyDetermined })
	depth := lo.Max(lo.Map(candidates, func(cand candidate[S], _ int) int { return cand.line.Depth }))
	m.tree.remember(node, m.resolve(node, candidates, depth, determined))
}

// rollout plays uniformly random moves to the end of the game, the cutoff or
// the end of the budget, whichever comes first, and scores the position
// reached. Only a position that is already over counts as determined.
func (m *MonteCarloTreeSearchPlayer[S]) rollout(budget context.Context, state game.State) *Mainline[S] {
	steps := 0
	moves := state.AvailableMoves()
	for len(moves) > 0 && (m.cutoff <= 0 || steps < m.cutoff) && budget.Err() == nil {
		move := moves[m.rnd.Intn(len(moves))]
		state = game.Pick(m.rnd, game.Outcomes(state, move))
		moves = state.AvailableMoves()
		steps++
	}
	if len(moves) == 0 {
		m.metrics.AddFullPlayout()
	}

	line := m.leaf(state, 0, steps == 0 && len(moves) == 0).extend(steps)
	line.Depth = 0
	return line
}
