// Package experiments pits player configurations against each other over many
// games and records the outcome of every game and move.
package experiments

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"gametheory/engine"
	"gametheory/experiments/metrics"
	"gametheory/game"
	"gametheory/player"
	"gametheory/searcher"
)

const (
	NumGames   = 20 // Per match up
	TimeBudget = 100 * time.Millisecond
)

type Experiment struct {
	Name     string
	Game     string
	Configs  []metrics.AgentConfig
	MatchUps [][2]int // AgentConfig IDs, first seat first
	Games    int      // Per match up; seats alternate between games
	MoveTime time.Duration
	Parallel int // Games played at once
}

// Depth pairs maximizing searchers of increasing depth against the random
// baseline.
func Depth(gameName string) Experiment {
	baseline := metrics.AgentConfig{ID: 0, Config: "random"}
	configs := []metrics.AgentConfig{baseline}
	for ply := 1; ply <= 4; ply++ {
		configs = append(configs, metrics.AgentConfig{ID: ply, Config: fmt.Sprintf("maximizing:ply=%d", ply)})
	}
	return withBaseline("depth", gameName, baseline, configs)
}

// Cutoff compares Monte-Carlo rollouts truncated at various depths with full
// rollouts under the same time budget.
func Cutoff(gameName string) Experiment {
	baseline := metrics.AgentConfig{ID: 0, Config: fmt.Sprintf("mcts:duration=%s", TimeBudget/2)}
	configs := []metrics.AgentConfig{baseline}
	for i, cutoff := range []int{2, 5, 10, 20} {
		configs = append(configs, metrics.AgentConfig{
			ID:     i + 1,
			Config: fmt.Sprintf("mcts:duration=%s,cutoff=%d", TimeBudget/2, cutoff),
		})
	}
	return withBaseline("cutoff", gameName, baseline, configs)
}

// Searchers plays the exhaustive searcher against the sampling one.
func Searchers(gameName string) Experiment {
	configs := []metrics.AgentConfig{
		{ID: 1, Config: "maximizing:ply=3,maxply=9"},
		{ID: 2, Config: fmt.Sprintf("mcts:duration=%s", TimeBudget/2)},
	}
	return Experiment{
		Name:     "searchers",
		Game:     gameName,
		Configs:  configs,
		MatchUps: [][2]int{{1, 2}},
		Games:    NumGames,
		MoveTime: TimeBudget,
		Parallel: 1,
	}
}

var Experiments = map[string]func(gameName string) Experiment{
	"depth":     Depth,
	"cutoff":    Cutoff,
	"searchers": Searchers,
}

func withBaseline(name, gameName string, baseline metrics.AgentConfig, configs []metrics.AgentConfig) Experiment {
	var matchUps [][2]int
	for _, config := range configs[1:] {
		matchUps = append(matchUps, [2]int{baseline.ID, config.ID})
	}
	return Experiment{
		Name:     name,
		Game:     gameName,
		Configs:  configs,
		MatchUps: matchUps,
		Games:    NumGames,
		MoveTime: TimeBudget,
		Parallel: 1,
	}
}

type Results struct {
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
	Wins  map[int]int // Wins per AgentConfig.ID
}

// Run plays every match up and, if writer is set, stores the configs and
// records there.
func Run(ctx context.Context, exp Experiment, writer *metrics.Writer) (Results, error) {
	g, err := player.LookupGame(exp.Game)
	if err != nil {
		return Results{}, err
	}
	if g.Seats != 2 {
		return Results{}, errors.Errorf("experiments need a two player game, %s has %d seats", g.Name, g.Seats)
	}
	configs := lo.KeyBy(exp.Configs, func(c metrics.AgentConfig) int { return c.ID })

	type job struct {
		id     int
		agents [2]metrics.AgentConfig
	}
	var jobs []job
	for _, matchUp := range exp.MatchUps {
		for _, id := range matchUp {
			if _, ok := configs[id]; !ok {
				return Results{}, errors.Errorf("match up %v refers to unknown agent %d", matchUp, id)
			}
		}
		for i := 0; i < exp.Games; i++ {
			agents := [2]metrics.AgentConfig{configs[matchUp[0]], configs[matchUp[1]]}
			if i%2 == 1 {
				agents[0], agents[1] = agents[1], agents[0]
			}
			jobs = append(jobs, job{id: len(jobs) + 1, agents: agents})
		}
	}

	log.Info().Msgf("starting %s experiment on %s: %d games", exp.Name, exp.Game, len(jobs))

	results := Results{Wins: map[int]int{}}
	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, exp.Parallel))
	for _, j := range jobs {
		eg.Go(func() error {
			gameMetric, moveMetrics, winners, err := runGame(ctx, g, j.agents, exp.MoveTime)
			if err != nil {
				return errors.WithMessagef(err, "game %d between agent %d and agent %d", j.id, j.agents[0].ID, j.agents[1].ID)
			}

			mu.Lock()
			defer mu.Unlock()
			results.Games = append(results.Games, metrics.GameRecord{
				ID:         j.id,
				Agent1:     j.agents[0].ID,
				Agent2:     j.agents[1].ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				results.Moves = append(results.Moves, metrics.MoveRecord{Game: j.id, MoveMetric: mm})
			}
			for _, id := range winners {
				results.Wins[id]++
			}
			log.Info().Msgf("completed game %d of %d with winner: %q", j.id, len(jobs), gameMetric.Winner())
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Results{}, err
	}

	slices.SortFunc(results.Games, func(a, b metrics.GameRecord) int { return a.ID - b.ID })
	slices.SortStableFunc(results.Moves, func(a, b metrics.MoveRecord) int { return a.Game - b.Game })
	log.Info().Msgf("completed %s experiment, wins per agent: %v", exp.Name, results.Wins)

	if writer == nil {
		return results, nil
	}
	if err := writer.WriteAgentConfigs(exp.Configs); err != nil {
		return results, err
	}
	log.Info().Msg("stored agent configs")
	if err := writer.WriteGameRecords(results.Games); err != nil {
		return results, err
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(results.Moves); err != nil {
		return results, err
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())
	return results, nil
}

// runGame plays one game and returns the AgentConfig IDs of the winners.
func runGame(ctx context.Context, g player.Game, agents [2]metrics.AgentConfig, moveTime time.Duration) (metrics.GameMetric, []metrics.MoveMetric, []int, error) {
	tokens := make([]game.PlayerToken, len(agents))
	players := make(map[game.PlayerToken]searcher.Player, len(agents))
	seats := make(map[string]int, len(agents))
	for i, agent := range agents {
		tokens[i] = game.NewPlayerToken(fmt.Sprintf("agent%d-seat%d", agent.ID, i+1))
		p, err := player.New(tokens[i], agent.Config, g.Metric)
		if err != nil {
			return metrics.GameMetric{}, nil, nil, err
		}
		players[tokens[i]] = p
		seats[tokens[i].String()] = agent.ID
	}

	e, err := engine.NewLocalEngine(g.New(tokens), players, engine.WithMoveTime(moveTime))
	if err != nil {
		return metrics.GameMetric{}, nil, nil, err
	}
	gameMetric, moveMetrics, err := e.Run(ctx)
	if err != nil {
		return gameMetric, moveMetrics, nil, err
	}
	winners := lo.Map(gameMetric.Winners, func(w string, _ int) int { return seats[w] })
	return gameMetric, moveMetrics, winners, nil
}
