package searcher

import (
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"gametheory/cache"
)

// Hyperparameters

const DefaultExploitation = 0.9 // Probability of following the best known strategy during a walk
const DefaultTemperature = 1.0  // Sample tied moves proportionally to their weight
const DefaultDuration = 100 * time.Millisecond

type Option func(c *config)

// Listener receives human readable progress messages. They are advisory only.
type Listener func(message string)

type config struct {
	logger      zerolog.Logger
	listener    Listener
	cachePolicy cache.Policy
	seed        uint64
	samples     int
	maxPly      int
	duration    time.Duration
	playouts    int
	cutoff      int
	exploit     float64
	temperature float64
	misere      bool
	metrics     bool
	trim        bool
	trimDepth   int
}

func defaultConfig() config {
	return config{
		logger:      log.Logger,
		cachePolicy: cache.DictionaryPolicy,
		seed:        frand.Uint64n(math.MaxUint64),
		samples:     1,
		exploit:     DefaultExploitation,
		temperature: DefaultTemperature,
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func WithListener(listener Listener) Option {
	return func(c *config) {
		c.listener = listener
	}
}

func WithCache(policy cache.Policy) Option {
	return func(c *config) {
		c.cachePolicy = policy
	}
}

// WithSeed fixes the random source so a search can be replayed.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithSamples sets how many determinizations of hidden information to search.
func WithSamples(samples int) Option {
	return func(c *config) {
		if samples > 0 {
			c.samples = samples
		}
	}
}

// WithMaxPly lets the maximizing search deepen past its minimum ply while the
// context allows.
func WithMaxPly(ply int) Option {
	return func(c *config) {
		if ply > 0 {
			c.maxPly = ply
		}
	}
}

func WithDuration(duration time.Duration) Option {
	return func(c *config) {
		if duration > 0 {
			c.duration = duration
		}
	}
}

func WithPlayouts(playouts int) Option {
	return func(c *config) {
		if playouts > 0 {
			c.playouts = playouts
		}
	}
}

// WithCutoff stops random rollouts after depth moves and scores the position
// reached with the heuristic.
func WithCutoff(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.cutoff = depth
		}
	}
}

func WithExploitation(probability float64) Option {
	return func(c *config) {
		if probability >= 0 && probability <= 1 {
			c.exploit = probability
		}
	}
}

// WithTemperature reshapes the move policy before sampling. Zero always plays
// the heaviest move.
func WithTemperature(temperature float64) Option {
	return func(c *config) {
		if temperature >= 0 {
			c.temperature = temperature
		}
	}
}

func WithMisere() Option {
	return func(c *config) {
		c.misere = true
	}
}

func WithMetrics() Option {
	return func(c *config) {
		c.metrics = true
	}
}

// WithTrim trims the transposition cache to depth after every move.
func WithTrim(depth int) Option {
	return func(c *config) {
		c.trim = true
		c.trimDepth = depth
	}
}
