package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gametheory/engine"
	"gametheory/experiments"
	"gametheory/experiments/metrics"
	"gametheory/game"
	"gametheory/player"
	"gametheory/searcher"
)

type playerConfigs []string

func (p *playerConfigs) String() string {
	return strings.Join(*p, " ")
}

func (p *playerConfigs) Set(value string) error {
	*p = append(*p, value)
	return nil
}

type config struct {
	game       string
	players    playerConfigs
	experiment string
	games      int
	parallel   int
	moveTime   time.Duration
	seed       uint64
	out        string
	verbosity  string
}

func main() {
	var cfg config
	flag.StringVar(&cfg.game, "game", "tictactoe", "Game to play: tictactoe, pig, risk or risk3")
	flag.Var(&cfg.players, "player", "Player config, once per seat, e.g. maximizing:ply=4 or mcts:duration=50ms")
	flag.StringVar(&cfg.experiment, "experiment", "", "Run a predefined experiment instead of a single match: depth, cutoff or searchers")
	flag.IntVar(&cfg.games, "games", experiments.NumGames, "Games per match up in an experiment")
	flag.IntVar(&cfg.parallel, "parallel", 1, "Experiment games played at once")
	flag.DurationVar(&cfg.moveTime, "movetime", engine.DefaultMoveTime, "Time budget per move")
	flag.Uint64Var(&cfg.seed, "seed", 0, "Seed for chance moves, 0 for a random seed")
	flag.StringVar(&cfg.out, "out", "results", "Directory experiment records are written to")
	flag.StringVar(&cfg.verbosity, "v", "info", "Log level: debug, info, warn or error")
	flag.Parse()

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed")
	}
}

func run(cfg config) error {
	level, err := zerolog.ParseLevel(cfg.verbosity)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.experiment != "" {
		return runExperiment(ctx, cfg)
	}
	return runMatch(ctx, cfg)
}

func runExperiment(ctx context.Context, cfg config) error {
	build, ok := experiments.Experiments[cfg.experiment]
	if !ok {
		return errors.Errorf("unknown experiment %q", cfg.experiment)
	}
	exp := build(cfg.game)
	exp.Games = cfg.games
	exp.Parallel = cfg.parallel
	exp.MoveTime = cfg.moveTime

	writer, err := metrics.NewWriter(cfg.out, exp.Name)
	if err != nil {
		return err
	}
	_, err = experiments.Run(ctx, exp, writer)
	return err
}

func runMatch(ctx context.Context, cfg config) error {
	g, err := player.LookupGame(cfg.game)
	if err != nil {
		return err
	}
	configs := cfg.players
	for len(configs) < g.Seats {
		configs = append(configs, player.DefaultConfig)
	}
	if len(configs) > g.Seats {
		return errors.Errorf("%s has %d seats, got %d players", g.Name, g.Seats, len(configs))
	}

	tokens := make([]game.PlayerToken, g.Seats)
	players := make(map[game.PlayerToken]searcher.Player, g.Seats)
	for i, c := range configs {
		tokens[i] = game.NewPlayerToken(fmt.Sprintf("%d:%s", i+1, c))
		p, err := player.New(tokens[i], c, g.Metric, searcher.WithListener(func(message string) {
			log.Debug().Str("player", tokens[i].String()).Msg(message)
		}))
		if err != nil {
			return err
		}
		players[tokens[i]] = p
	}

	options := []engine.Option{
		engine.WithMoveTime(cfg.moveTime),
		engine.WithObserver(func(u engine.Update) {
			log.Info().Msgf("turn %d: %v\n%v", u.Turn, u.Moves, u.State)
		}),
	}
	if cfg.seed != 0 {
		options = append(options, engine.WithSeed(cfg.seed))
	}
	e, err := engine.NewLocalEngine(g.New(tokens), players, options...)
	if err != nil {
		return err
	}

	gameMetric, _, err := e.Run(ctx)
	if err != nil {
		return err
	}
	if winner := gameMetric.Winner(); winner != "" {
		fmt.Printf("%s wins after %d turns\n", winner, gameMetric.TotalTurns)
	} else {
		fmt.Printf("no winner after %d turns\n", gameMetric.TotalTurns)
	}
	return nil
}
