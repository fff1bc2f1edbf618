package scoring

import (
	"cmp"
	"fmt"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"gametheory/game"
)

// Result is the categorical outcome of a position for one player.
type Result int

const (
	None Result = iota
	Win
	SharedWin
	Loss
	Impasse
)

var resultNames = map[Result]string{
	None:      "none",
	Win:       "win",
	SharedWin: "shared-win",
	Loss:      "loss",
	Impasse:   "impasse",
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("result(%d)", int(r))
}

// rank orders categories: Win > SharedWin > None > Impasse > Loss
func (r Result) rank() int {
	switch r {
	case Win:
		return 2
	case SharedWin:
		return 1
	case None:
		return 0
	case Impasse:
		return -1
	case Loss:
		return -2
	}
	panic(fmt.Sprintf("unknown result %d", int(r)))
}

// Results lists every category from best to worst under normal rules.
var Results = []Result{Win, SharedWin, None, Impasse, Loss}

// ResultScore pairs a categorical outcome with a game specific score.
//
// InPly is the distance in ply to the outcome and Likelihood the probability
// that the outcome is realized when chance is involved.
type ResultScore[S any] struct {
	Result     Result
	InPly      float64
	Likelihood float64
	Rest       S
}

// AddPly moves the score n ply further away from the position it describes.
func (s ResultScore[S]) AddPly(n float64) ResultScore[S] {
	s.InPly += n
	return s
}

func (s ResultScore[S]) String() string {
	if s.Result == None {
		return fmt.Sprintf("%v", s.Rest)
	}
	if s.Likelihood < 1 {
		return fmt.Sprintf("%s in %g ply (p=%.3f) %v", s.Result, s.InPly, s.Likelihood, s.Rest)
	}
	return fmt.Sprintf("%s in %g ply %v", s.Result, s.InPly, s.Rest)
}

// ResultMetric lifts any metric so that terminal outcomes take priority over
// the heuristic value.
type ResultMetric[S any] struct {
	inner  Metric[S]
	misere bool
}

var ErrNilMetric = errors.New("scoring metric is nil")

// NewResultMetric wraps inner. A misère metric reverses the category order.
func NewResultMetric[S any](inner Metric[S], misere bool) (*ResultMetric[S], error) {
	if inner == nil {
		return nil, errors.WithStack(ErrNilMetric)
	}
	return &ResultMetric[S]{inner: inner, misere: misere}, nil
}

func (m *ResultMetric[S]) Inner() Metric[S] {
	return m.inner
}

func (m *ResultMetric[S]) rank(r Result) int {
	if m.misere {
		return -r.rank()
	}
	return r.rank()
}

// favorable reports whether the category is better than an undecided game.
func (m *ResultMetric[S]) favorable(r Result) bool {
	return m.rank(r) > m.rank(None)
}

// Classify names the outcome of a position for the observing player.
func Classify(ps game.PlayerState) Result {
	winners := ps.State.Winners()
	if len(winners) > 0 {
		if !lo.Contains(winners, ps.Player) {
			return Loss
		}
		if len(winners) == 1 {
			return Win
		}
		return SharedWin
	}
	if len(ps.State.Players()) > 1 && len(ps.State.AvailableMoves()) == 0 {
		return Impasse
	}
	return None
}

func (m *ResultMetric[S]) Score(ps game.PlayerState) ResultScore[S] {
	return ResultScore[S]{
		Result:     Classify(ps),
		InPly:      0,
		Likelihood: 1,
		Rest:       m.inner.Score(ps),
	}
}

type tally struct {
	weight     float64
	likelihood float64
	inPly      float64
}

// Combine takes the worst category that occurs with positive weight. The
// heuristic part is combined across every branch by the inner metric.
func (m *ResultMetric[S]) Combine(scores ...game.Weighted[ResultScore[S]]) ResultScore[S] {
	if len(scores) == 0 {
		panic("cannot combine an empty set of scores")
	}
	if game.TotalWeight(scores) <= 0 {
		scores = lo.Map(scores, func(s game.Weighted[ResultScore[S]], _ int) game.Weighted[ResultScore[S]] {
			return game.Weighted[ResultScore[S]]{Value: s.Value, Weight: 1}
		})
	}

	total := 0.0
	tallies := make(map[Result]*tally, len(Results))
	for _, s := range scores {
		total += s.Weight
		if s.Weight <= 0 {
			continue
		}
		t, ok := tallies[s.Value.Result]
		if !ok {
			t = &tally{inPly: s.Value.InPly}
			tallies[s.Value.Result] = t
		}
		t.weight += s.Weight
		t.likelihood += s.Value.Likelihood * s.Weight
		t.inPly = min(t.inPly, s.Value.InPly)
	}

	var worst Result
	found := false
	for r := range tallies {
		if !found || m.rank(r) < m.rank(worst) {
			worst, found = r, true
		}
	}
	t := tallies[worst]

	rest := m.inner.Combine(lo.Map(scores, func(s game.Weighted[ResultScore[S]], _ int) game.Weighted[S] {
		return game.Weighted[S]{Value: s.Value.Rest, Weight: s.Weight}
	})...)

	return ResultScore[S]{
		Result:     worst,
		InPly:      t.inPly,
		Likelihood: t.likelihood / total,
		Rest:       rest,
	}
}

// Compare orders by category, then likelihood, then distance, then the inner
// score. Favorable outcomes are preferred sooner and unfavorable ones later.
// Likelihood is preferred higher for favorable outcomes and None, but lower
// for Loss and Impasse (the unfavorable categories, reversed under misère).
func (m *ResultMetric[S]) Compare(x, y ResultScore[S]) int {
	if c := cmp.Compare(m.rank(x.Result), m.rank(y.Result)); c != 0 {
		return c
	}

	switch {
	case m.favorable(x.Result):
		if c := cmp.Compare(x.Likelihood, y.Likelihood); c != 0 {
			return c
		}
		if c := cmp.Compare(y.InPly, x.InPly); c != 0 {
			return c
		}
	case x.Result == None:
		if c := cmp.Compare(x.Likelihood, y.Likelihood); c != 0 {
			return c
		}
	default:
		// A likely loss is worse than an unlikely one.
		if c := cmp.Compare(y.Likelihood, x.Likelihood); c != 0 {
			return c
		}
		if c := cmp.Compare(x.InPly, y.InPly); c != 0 {
			return c
		}
	}

	return m.inner.Compare(x.Rest, y.Rest)
}

// Difference is a's lead over b. A differing category dominates any heuristic
// delta, so a is returned unchanged in that case.
func (m *ResultMetric[S]) Difference(a, b ResultScore[S]) ResultScore[S] {
	if a.Result != b.Result {
		return a
	}
	return ResultScore[S]{
		Result:     a.Result,
		InPly:      a.InPly - b.InPly,
		Likelihood: a.Likelihood,
		Rest:       m.inner.Difference(a.Rest, b.Rest),
	}
}
