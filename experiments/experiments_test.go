package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gametheory/experiments/metrics"
)

func TestRun(t *testing.T) {
	exp := Experiment{
		Name: "smoke",
		Game: "tictactoe",
		Configs: []metrics.AgentConfig{
			{ID: 0, Config: "random:seed=1"},
			{ID: 1, Config: "maximizing:ply=9,temperature=0"},
		},
		MatchUps: [][2]int{{0, 1}},
		Games:    4,
		Parallel: 2,
	}

	t.Run("plays every game and alternates seats", func(t *testing.T) {
		results, err := Run(context.Background(), exp, nil)
		require.NoError(t, err)
		require.Len(t, results.Games, 4)
		for i, record := range results.Games {
			require.Equal(t, i+1, record.ID)
			if i%2 == 0 {
				require.Equal(t, [2]int{0, 1}, [2]int{record.Agent1, record.Agent2})
			} else {
				require.Equal(t, [2]int{1, 0}, [2]int{record.Agent1, record.Agent2})
			}
		}
		require.Zero(t, results.Wins[0], "Random play never beats a perfect player")
		require.NotEmpty(t, results.Moves)
	})

	t.Run("stores the records", func(t *testing.T) {
		w, err := metrics.NewWriter(t.TempDir(), exp.Name)
		require.NoError(t, err)

		_, err = Run(context.Background(), exp, w)
		require.NoError(t, err)
		for _, file := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv"} {
			_, err := os.Stat(filepath.Join(w.Dir(), file))
			require.NoError(t, err)
		}
	})

	t.Run("rejects unknown agents and games", func(t *testing.T) {
		broken := exp
		broken.MatchUps = [][2]int{{0, 7}}
		_, err := Run(context.Background(), broken, nil)
		require.ErrorContains(t, err, "unknown agent 7")

		broken = exp
		broken.Game = "go"
		_, err = Run(context.Background(), broken, nil)
		require.Error(t, err)
	})
}

func TestExperiments(t *testing.T) {
	t.Run("every predefined match up refers to a config", func(t *testing.T) {
		for name, build := range Experiments {
			exp := build("pig")
			ids := map[int]bool{}
			for _, c := range exp.Configs {
				ids[c.ID] = true
			}
			for _, matchUp := range exp.MatchUps {
				require.True(t, ids[matchUp[0]] && ids[matchUp[1]], "experiment %s", name)
			}
		}
	})
}
