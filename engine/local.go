package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"gametheory/experiments/metrics"
	"gametheory/game"
	"gametheory/searcher"
)

// LocalEngine runs a game in process. Players that may move in the same turn
// think concurrently; each must therefore be a separate instance.
type LocalEngine struct {
	state    game.State
	players  map[game.PlayerToken]searcher.Player
	moveTime time.Duration
	maxTurns int
	seed     uint64
	rnd      *rand.Rand
	observer Observer
}

func NewLocalEngine(state game.State, players map[game.PlayerToken]searcher.Player, options ...Option) (*LocalEngine, error) {
	tokens := state.Players()
	if len(tokens) == 0 {
		return nil, errors.New("game has no players")
	}
	for _, token := range tokens {
		if players[token] == nil {
			return nil, errors.Errorf("no player for seat %v", token)
		}
	}

	e := &LocalEngine{
		state:    state,
		players:  players,
		moveTime: DefaultMoveTime,
		maxTurns: MaxTurns,
		seed:     frand.Uint64n(math.MaxUint64),
	}
	for _, option := range options {
		option(e)
	}
	e.rnd = rand.New(rand.NewSource(e.seed))
	return e, nil
}

// State is the current position.
func (e *LocalEngine) State() game.State {
	return e.state
}

type choice struct {
	move     game.Move
	elapsed  time.Duration
	timedOut bool
}

// Run executes the entire game loop until the game ends.
func (e *LocalEngine) Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{StartTime: time.Now()}
	var moveMetrics []metrics.MoveMetric

	turn := 1
	for ; turn <= e.maxTurns; turn++ {
		moves := e.state.AvailableMoves()
		if len(moves) == 0 {
			break
		}
		movers := game.Movers(e.state, moves)
		if turn == 1 {
			gameMetric.StartingPlayer = movers[0].String()
			log.Info().Msgf("%v is starting", movers[0])
		}

		choices, err := e.ask(ctx, turn, movers, moves)
		if err != nil {
			return gameMetric, moveMetrics, err
		}

		played := make([]game.Move, 0, len(choices))
		for i, p := range movers {
			c := choices[i]
			moveMetric := metrics.MoveMetric{
				Turn:     turn,
				Player:   p.String(),
				Elapsed:  c.elapsed,
				TimedOut: c.timedOut,
			}
			if measured, ok := e.players[p].(interface{ LastMetric() searcher.SearchMetric }); ok {
				moveMetric.SearchMetric = measured.LastMetric()
			}
			if c.move != nil {
				moveMetric.Move = fmt.Sprint(c.move)
				played = append(played, c.move)
			}
			moveMetrics = append(moveMetrics, moveMetric)
		}

		if len(played) == 0 {
			log.Warn().Msgf("turn %d: every player passed, stopping", turn)
			gameMetric.Stalled = true
			break
		}

		// Simultaneous moves are applied in seat order. Each was chosen against
		// the position before the turn, so an earlier move may have ruled out a
		// later one.
		for i, m := range played {
			if i > 0 && !lo.Contains(e.state.AvailableMoves(), m) {
				return gameMetric, moveMetrics, errors.Errorf("turn %d: move %v of %v is no longer legal after the earlier moves of the turn", turn, m, m.Player())
			}
			e.state = game.Pick(e.rnd, game.Outcomes(e.state, m))
		}
		log.Debug().Msgf("turn %d: %v", turn, played)
		if e.observer != nil {
			e.observer(Update{Turn: turn, Moves: played, State: e.state})
		}
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalTurns = turn - 1
	gameMetric.Winners = lo.Map(e.state.Winners(), func(p game.PlayerToken, _ int) string { return p.String() })

	if len(gameMetric.Winners) > 0 {
		log.Info().Msgf("game ended after %d turns, won by %s", gameMetric.TotalTurns, gameMetric.Winner())
	} else {
		log.Info().Msgf("game ended after %d turns without a winner", gameMetric.TotalTurns)
	}
	return gameMetric, moveMetrics, nil
}

// ask collects one move from every mover. A player still thinking at the
// deadline is cancelled and passes.
func (e *LocalEngine) ask(ctx context.Context, turn int, movers []game.PlayerToken, legal []game.Move) ([]choice, error) {
	turnCtx := ctx
	if e.moveTime > 0 {
		var cancel context.CancelFunc
		turnCtx, cancel = context.WithTimeout(ctx, e.moveTime)
		defer cancel()
	}

	choices := make([]choice, len(movers))
	g, gctx := errgroup.WithContext(turnCtx)
	for i, p := range movers {
		g.Go(func() error {
			start := time.Now()
			m, err := e.players[p].ChooseMove(gctx, e.state)
			choices[i].elapsed = time.Since(start)

			if errors.Is(err, searcher.ErrCancelled) && ctx.Err() == nil {
				log.Warn().Msgf("turn %d: %v ran out of time and passes", turn, p)
				choices[i].timedOut = true
				return nil
			}
			if err != nil {
				return errors.Wrapf(err, "turn %d: %v failed to move", turn, p)
			}
			if m == nil {
				return nil
			}
			if m.Player() != p || !lo.Contains(legal, m) {
				return errors.Errorf("turn %d: %v chose illegal move %v", turn, p, m)
			}
			choices[i].move = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return choices, nil
}
