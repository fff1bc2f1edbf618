package searcher

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"

	"gametheory/cache"
	"gametheory/game"
	"gametheory/scoring"
)

// core is what both searchers share: the seat they play, the lifted metric,
// the tree and the random source of the current instance.
type core[S any] struct {
	player      game.PlayerToken
	metric      *scoring.ResultMetric[S]
	tree        *GameTree[S]
	rnd         *rand.Rand
	logger      zerolog.Logger
	listener    Listener
	metrics     Collector
	samples     int
	temperature float64
	trim        bool
	trimDepth   int
	last        SearchMetric

	warnedChance bool
}

func newCore[S any](player game.PlayerToken, metric scoring.Metric[S], cfg config) (core[S], error) {
	if player.IsZero() {
		return core[S]{}, errors.WithStack(ErrNoPlayer)
	}
	rm, err := scoring.NewResultMetric(metric, cfg.misere)
	if err != nil {
		return core[S]{}, errors.WithMessage(err, "invalid scoring metric")
	}
	c := cache.New[*StateNode[S]](cfg.cachePolicy)
	if c == nil {
		return core[S]{}, errors.Errorf("unknown cache policy %q", cfg.cachePolicy)
	}

	collector := NewDummyCollector()
	if cfg.metrics {
		collector = NewCollector()
	}

	return core[S]{
		player:      player,
		metric:      rm,
		tree:        NewGameTree(c),
		rnd:         rand.New(rand.NewSource(cfg.seed)),
		logger:      cfg.logger.With().Stringer("player", player).Logger(),
		listener:    cfg.listener,
		metrics:     collector,
		samples:     cfg.samples,
		temperature: cfg.temperature,
		trim:        cfg.trim,
		trimDepth:   cfg.trimDepth,
	}, nil
}

func (c *core[S]) Token() game.PlayerToken {
	return c.player
}

func (c *core[S]) Tree() *GameTree[S] {
	return c.tree
}

// LastMetric describes the previous ChooseMove call. It is empty unless the
// searcher was built WithMetrics.
func (c *core[S]) LastMetric() SearchMetric {
	return c.last
}

func (c *core[S]) report(format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	c.logger.Debug().Msg(message)
	if c.listener != nil {
		c.listener(message)
	}
}

func (c *core[S]) canMove(state game.State) bool {
	return lo.ContainsBy(state.AvailableMoves(), func(m game.Move) bool {
		return m.Player() == c.player
	})
}

// finish closes the metrics of one ChooseMove call and trims the cache.
func (c *core[S]) finish(lines []*Mainline[S]) {
	determined := len(lines) > 0 && lo.EveryBy(lines, func(l *Mainline[S]) bool { return l.FullyDetermined })
	c.last = c.metrics.Complete(c.tree.created, determined)
	if c.trim {
		c.tree.Trim(c.trimDepth)
	}
}

// leaf scores a position for every player without looking further.
func (c *core[S]) leaf(state game.State, depth int, determined bool) *Mainline[S] {
	players := state.Players()
	scores := make(map[game.PlayerToken]scoring.ResultScore[S], len(players))
	for _, p := range players {
		scores[p] = c.metric.Score(game.PlayerState{Player: p, State: state})
		c.metrics.AddEvaluation()
	}
	return &Mainline[S]{
		Scores:          scores,
		State:           state,
		Depth:           depth,
		FullyDetermined: determined,
	}
}

// lead is the player's score minus the best rival score. With two players it
// is exactly "maximize mine, minimize yours".
func (c *core[S]) lead(line *Mainline[S], player game.PlayerToken) scoring.ResultScore[S] {
	own, ok := line.Scores[player]
	if !ok {
		panic(fmt.Sprintf("player %v is not scored in state %v", player, line.State))
	}
	var best scoring.ResultScore[S]
	found := false
	for _, p := range line.players() {
		if p == player {
			continue
		}
		if s := line.Scores[p]; !found || c.metric.Compare(s, best) > 0 {
			best, found = s, true
		}
	}
	if !found {
		return own
	}
	return c.metric.Difference(own, best)
}

// combine merges weighted mainlines the way chance or a mixed strategy would.
// The heaviest line provides the principal variation.
//
// Every player's score is combined on its own, so with more than two players
// the combined scores of a chance node need not come from any single outcome.
// This is a known limitation of resolving chance for three or more players.
func (c *core[S]) combine(lines []game.Weighted[*Mainline[S]]) *Mainline[S] {
	if len(lines) == 1 {
		return lines[0].Value
	}

	principal := lo.MaxBy(lines, func(a, b game.Weighted[*Mainline[S]]) bool {
		return a.Weight > b.Weight
	}).Value

	scores := make(map[game.PlayerToken]scoring.ResultScore[S], len(principal.Scores))
	for _, p := range principal.players() {
		scores[p] = c.metric.Combine(lo.Map(lines, func(l game.Weighted[*Mainline[S]], _ int) game.Weighted[scoring.ResultScore[S]] {
			s, ok := l.Value.Scores[p]
			if !ok {
				panic(fmt.Sprintf("player %v is not scored in state %v", p, l.Value.State))
			}
			return game.Weighted[scoring.ResultScore[S]]{Value: s, Weight: l.Weight}
		})...)
	}

	depth := lo.Min(lo.Map(lines, func(l game.Weighted[*Mainline[S]], _ int) int { return l.Value.Depth }))
	return &Mainline[S]{
		Scores:          scores,
		State:           principal.State,
		Player:          principal.Player,
		Strategies:      principal.Strategies,
		Depth:           depth,
		FullyDetermined: lo.EveryBy(lines, func(l game.Weighted[*Mainline[S]]) bool { return l.Value.FullyDetermined }),
	}
}

// follow is the mainline of a move: its outcomes combined, one ply further.
func (c *core[S]) follow(outcomes []game.Weighted[*Mainline[S]]) *Mainline[S] {
	if n := len(outcomes[0].Value.Scores); len(outcomes) > 1 && n > 2 && !c.warnedChance {
		c.warnedChance = true
		c.logger.Warn().Int("players", n).Msg("chance outcomes are combined per player; results with more than two players are approximate")
	}
	return c.combine(outcomes).extend(1)
}

type candidate[S any] struct {
	move game.Move
	line *Mainline[S]
	lead scoring.ResultScore[S]
}

func (c *core[S]) candidate(move game.Move, line *Mainline[S]) candidate[S] {
	return candidate[S]{move: move, line: line, lead: c.lead(line, move.Player())}
}

// best keeps every candidate whose lead is maximal.
func (c *core[S]) best(candidates []candidate[S]) []candidate[S] {
	var best []candidate[S]
	for _, cand := range candidates {
		if len(best) == 0 {
			best = append(best, cand)
			continue
		}
		switch cmp := c.metric.Compare(cand.lead, best[0].lead); {
		case cmp > 0:
			best = append(best[:0], cand)
		case cmp == 0:
			best = append(best, cand)
		}
	}
	return best
}

// strategy builds the node's mainline from the retained candidates. Tied
// moves are all kept, weighted by how many lines agreed on them.
func (c *core[S]) strategy(retained []candidate[S], depth int, determined bool) *Mainline[S] {
	moves := make([]game.Weighted[game.Move], 0, len(retained))
	for _, cand := range retained {
		i := lo.IndexOf(lo.Map(moves, func(w game.Weighted[game.Move], _ int) game.Move { return w.Value }), cand.move)
		if i >= 0 {
			moves[i].Weight++
			continue
		}
		moves = append(moves, game.Weighted[game.Move]{Value: cand.move, Weight: 1})
	}

	combined := c.combine(lo.Map(retained, func(cand candidate[S], _ int) game.Weighted[*Mainline[S]] {
		return game.Weighted[*Mainline[S]]{Value: cand.line, Weight: 1}
	}))
	principal := retained[0].line

	strategies := make([][]game.Weighted[game.Move], 0, len(principal.Strategies)+1)
	strategies = append(strategies, moves)
	strategies = append(strategies, principal.Strategies...)

	return &Mainline[S]{
		Scores:          combined.Scores,
		State:           principal.State,
		Player:          retained[0].move.Player(),
		Strategies:      strategies,
		Depth:           depth,
		FullyDetermined: determined,
	}
}

// resolve picks the node's mainline among the evaluated moves.
func (c *core[S]) resolve(node *StateNode[S], candidates []candidate[S], depth int, determined bool) *Mainline[S] {
	if len(candidates) == 0 {
		panic(fmt.Sprintf("no evaluated move to resolve in state %v", node.state))
	}
	movers := game.Movers(node.state, lo.Map(candidates, func(cand candidate[S], _ int) game.Move { return cand.move }))
	if len(movers) == 1 {
		return c.strategy(c.best(candidates), depth, determined)
	}
	return c.simultaneous(node, movers, candidates, depth, determined)
}

// simultaneous resolves a ply where several players may move. It is a
// heuristic, not an equilibrium: players keep moves that improve on standing
// still, else moves that do not worsen it, else nobody moves. Players left
// without a move then join if they can preempt a threat made by a retained
// move of a rival.
//
// TODO: coalitions in cooperative games are not modelled; a rival's threat is
// always assumed hostile.
func (c *core[S]) simultaneous(node *StateNode[S], movers []game.PlayerToken, candidates []candidate[S], depth int, determined bool) *Mainline[S] {
	baseline := c.leaf(node.state, 0, false)
	standing := make(map[game.PlayerToken]scoring.ResultScore[S], len(movers))
	for _, p := range movers {
		standing[p] = c.lead(baseline, p)
	}

	retained := lo.Filter(candidates, func(cand candidate[S], _ int) bool {
		return c.metric.Compare(cand.lead, standing[cand.move.Player()]) > 0
	})
	if len(retained) == 0 {
		retained = lo.Filter(candidates, func(cand candidate[S], _ int) bool {
			return c.metric.Compare(cand.lead, standing[cand.move.Player()]) >= 0
		})
	}
	if len(retained) == 0 {
		// Stalemate: nobody gains by moving.
		stalemate := *baseline
		stalemate.Depth = depth
		stalemate.FullyDetermined = determined
		return &stalemate
	}

	byPlayer := lo.GroupBy(retained, func(cand candidate[S]) game.PlayerToken { return cand.move.Player() })
	for p, cands := range byPlayer {
		byPlayer[p] = c.best(cands)
	}

	for changed := true; changed; {
		changed = false
		for _, p := range movers {
			if len(byPlayer[p]) > 0 {
				continue
			}
			threat, threatened := c.threat(byPlayer, p)
			if !threatened {
				continue
			}
			preempting := lo.Filter(candidates, func(cand candidate[S], _ int) bool {
				return cand.move.Player() == p && c.metric.Compare(cand.lead, threat) > 0
			})
			if len(preempting) > 0 {
				byPlayer[p] = c.best(preempting)
				changed = true
			}
		}
	}

	var final []candidate[S]
	for _, p := range movers {
		final = append(final, byPlayer[p]...)
	}
	if len(final) == 0 {
		panic(fmt.Sprintf("simultaneous resolution kept no move with %d ply in state %v", depth, node.state))
	}
	return c.strategy(final, depth, determined)
}

// threat is the worst lead p faces if a rival's retained move is played.
func (c *core[S]) threat(byPlayer map[game.PlayerToken][]candidate[S], p game.PlayerToken) (scoring.ResultScore[S], bool) {
	var worst scoring.ResultScore[S]
	found := false
	for rival, cands := range byPlayer {
		if rival == p {
			continue
		}
		for _, cand := range cands {
			if _, ok := cand.line.Scores[p]; !ok {
				continue
			}
			if l := c.lead(cand.line, p); !found || c.metric.Compare(l, worst) < 0 {
				worst, found = l, true
			}
		}
	}
	return worst, found
}
