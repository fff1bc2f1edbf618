package player

import (
	"context"
	"math"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"

	"gametheory/game"
	"gametheory/scoring"
	"gametheory/searcher"
)

// Random plays a uniformly random move among its own. It is the baseline
// every searcher should beat.
type Random struct {
	token game.PlayerToken
	rnd   *rand.Rand
}

func NewRandom(token game.PlayerToken, seed uint64) *Random {
	return &Random{token: token, rnd: rand.New(rand.NewSource(seed))}
}

func (r *Random) ChooseMove(ctx context.Context, state game.State) (game.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, &searcher.CancelledError{Cause: err}
	}
	moves := lo.Filter(state.AvailableMoves(), func(m game.Move, _ int) bool {
		return m.Player() == r.token
	})
	if len(moves) == 0 {
		return nil, nil
	}
	return moves[r.rnd.Intn(len(moves))], nil
}

func newRandom(token game.PlayerToken, _ scoring.Metric[float64], params map[string]string, _ []searcher.Option) (searcher.Player, error) {
	seed, err := PopParamOr(params, "seed", frand.Uint64n(math.MaxUint64))
	if err != nil {
		return nil, err
	}
	return NewRandom(token, seed), nil
}
