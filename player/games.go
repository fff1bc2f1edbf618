package player

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"gametheory/game"
	"gametheory/game/pig"
	"gametheory/game/risk"
	"gametheory/game/tictactoe"
	"gametheory/scoring"
)

// Game bundles a starting position with the heuristic searchers score it by.
type Game struct {
	Name   string
	Seats  int
	New    func(players []game.PlayerToken) game.State
	Metric scoring.Metric[float64]
}

var games = map[string]Game{
	"tictactoe": {
		Name:  "tictactoe",
		Seats: 2,
		New: func(players []game.PlayerToken) game.State {
			return tictactoe.New(players[0], players[1])
		},
		Metric: tictactoe.Metric(),
	},
	"pig": {
		Name:  "pig",
		Seats: 2,
		New: func(players []game.PlayerToken) game.State {
			return pig.New(players[0], players[1], pig.DefaultTarget)
		},
		Metric: pig.Metric(),
	},
	"risk": {
		Name:  "risk",
		Seats: 2,
		New: func(players []game.PlayerToken) game.State {
			return risk.New(swissCantons, players...)
		},
		Metric: risk.Metric(),
	},
	"risk3": {
		Name:  "risk3",
		Seats: 3,
		New: func(players []game.PlayerToken) game.State {
			return risk.New(swissCantons, players...)
		},
		Metric: risk.Metric(),
	},
}

// The board is read only, so every game shares one.
var swissCantons = risk.CreateMap()

func LookupGame(name string) (Game, error) {
	g, ok := games[name]
	if !ok {
		names := lo.Keys(games)
		slices.Sort(names)
		return Game{}, errors.Errorf("unknown game %q, known games are %v", name, names)
	}
	return g, nil
}
