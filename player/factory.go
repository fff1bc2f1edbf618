// Package player builds searchers from configuration strings such as
// "maximizing:ply=4,cache=splay" or "mcts:duration=100ms,cutoff=30".
package player

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"gametheory/cache"
	"gametheory/game"
	"gametheory/scoring"
	"gametheory/searcher"
)

// DefaultConfig is used when a player is configured with an empty string.
var DefaultConfig = "maximizing:ply=2"

// Module builds one kind of player from its parsed parameters. It must pop
// every parameter it understands; leftovers are reported as unknown.
type Module func(token game.PlayerToken, metric scoring.Metric[float64], params map[string]string, options []searcher.Option) (searcher.Player, error)

var modules = map[string]Module{
	"maximizing": newMaximizing,
	"mcts":       newMonteCarlo,
	"random":     newRandom,
}

// RegisterModule makes a player kind available to New.
func RegisterModule(name string, module Module) {
	modules[name] = module
}

// Modules lists the registered player kinds.
func Modules() []string {
	names := lo.Keys(modules)
	slices.Sort(names)
	return names
}

// New creates the player seated as token from config: the module name,
// optionally followed by a colon and comma separated key=value parameters.
// Extra searcher options are applied before the parsed ones.
func New(token game.PlayerToken, config string, metric scoring.Metric[float64], options ...searcher.Option) (searcher.Player, error) {
	if config == "" {
		config = DefaultConfig
	}
	name, rest, _ := strings.Cut(config, ":")
	module, ok := modules[name]
	if !ok {
		return nil, errors.Errorf("unknown player %q, known players are %v", name, Modules())
	}

	params := splitConfigString(rest)
	p, err := module(token, metric, params, options)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create player %q", name)
	}
	if len(params) > 0 {
		unknown := lo.Keys(params)
		slices.Sort(unknown)
		return nil, errors.Errorf("unknown parameters %v for player %q", unknown, name)
	}
	return p, nil
}

// searchOptions pops the parameters both searchers understand.
func searchOptions(params map[string]string) ([]searcher.Option, error) {
	var options []searcher.Option

	policy, err := PopParamOr(params, "cache", string(cache.DictionaryPolicy))
	if err != nil {
		return nil, err
	}
	options = append(options, searcher.WithCache(cache.Policy(policy)))

	if _, ok := params["seed"]; ok {
		seed, err := PopParamOr(params, "seed", uint64(0))
		if err != nil {
			return nil, err
		}
		options = append(options, searcher.WithSeed(seed))
	}

	samples, err := PopParamOr(params, "samples", 1)
	if err != nil {
		return nil, err
	}
	options = append(options, searcher.WithSamples(samples))

	temperature, err := PopParamOr(params, "temperature", searcher.DefaultTemperature)
	if err != nil {
		return nil, err
	}
	options = append(options, searcher.WithTemperature(temperature))

	misere, err := PopParamOr(params, "misere", false)
	if err != nil {
		return nil, err
	}
	if misere {
		options = append(options, searcher.WithMisere())
	}

	if _, ok := params["trim"]; ok {
		depth, err := PopParamOr(params, "trim", -1)
		if err != nil {
			return nil, err
		}
		options = append(options, searcher.WithTrim(depth))
	}

	metrics, err := PopParamOr(params, "metrics", true)
	if err != nil {
		return nil, err
	}
	if metrics {
		options = append(options, searcher.WithMetrics())
	}
	return options, nil
}

func newMaximizing(token game.PlayerToken, metric scoring.Metric[float64], params map[string]string, options []searcher.Option) (searcher.Player, error) {
	ply, err := PopParamOr(params, "ply", 2)
	if err != nil {
		return nil, err
	}
	maxPly, err := PopParamOr(params, "maxply", 0)
	if err != nil {
		return nil, err
	}
	parsed, err := searchOptions(params)
	if err != nil {
		return nil, err
	}
	options = append(options, parsed...)
	options = append(options, searcher.WithMaxPly(maxPly))
	return searcher.NewMaximizingPlayer(token, metric, ply, options...)
}

func newMonteCarlo(token game.PlayerToken, metric scoring.Metric[float64], params map[string]string, options []searcher.Option) (searcher.Player, error) {
	duration, err := PopParamOr(params, "duration", searcher.DefaultDuration)
	if err != nil {
		return nil, err
	}
	playouts, err := PopParamOr(params, "playouts", 0)
	if err != nil {
		return nil, err
	}
	cutoff, err := PopParamOr(params, "cutoff", 0)
	if err != nil {
		return nil, err
	}
	exploit, err := PopParamOr(params, "exploit", searcher.DefaultExploitation)
	if err != nil {
		return nil, err
	}
	parsed, err := searchOptions(params)
	if err != nil {
		return nil, err
	}
	options = append(options, parsed...)
	options = append(options,
		searcher.WithDuration(duration),
		searcher.WithPlayouts(playouts),
		searcher.WithCutoff(cutoff),
		searcher.WithExploitation(exploit),
	)
	return searcher.NewMonteCarloTreeSearchPlayer(token, metric, options...)
}
