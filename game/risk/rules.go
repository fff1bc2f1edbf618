package risk

import (
	"slices"

	"golang.org/x/exp/rand"

	"gametheory/game"
)

const (
	MaxAttackDice = 3
	MaxDefendDice = 2
	MinReinforce  = 3
	dieSides      = 6
)

// Losses is what one round of dice costs each side.
type Losses struct {
	Attacker int
	Defender int
}

// Standard Risk: the highest dice are paired, the defender wins ties.
func DetermineAttackOutcome(attackerRolls, defenderRolls []int) Losses {
	attacker := slices.Clone(attackerRolls)
	defender := slices.Clone(defenderRolls)
	slices.Sort(attacker)
	slices.Reverse(attacker)
	slices.Sort(defender)
	slices.Reverse(defender)

	var losses Losses
	for i := range min(len(attacker), len(defender)) {
		if attacker[i] > defender[i] {
			losses.Defender++
		} else {
			losses.Attacker++
		}
	}
	return losses
}

// odds[a][d] holds the exact loss distribution of a round with a attacking
// and d defending dice.
var odds = func() [MaxAttackDice + 1][MaxDefendDice + 1][]game.Weighted[Losses] {
	var table [MaxAttackDice + 1][MaxDefendDice + 1][]game.Weighted[Losses]
	for a := 1; a <= MaxAttackDice; a++ {
		for d := 1; d <= MaxDefendDice; d++ {
			table[a][d] = enumerate(a, d)
		}
	}
	return table
}()

func enumerate(attackDice, defendDice int) []game.Weighted[Losses] {
	counts := map[Losses]int{}
	total := 0
	rolls := make([]int, attackDice+defendDice)
	var walk func(i int)
	walk = func(i int) {
		if i == len(rolls) {
			counts[DetermineAttackOutcome(rolls[:attackDice], rolls[attackDice:])]++
			total++
			return
		}
		for face := 1; face <= dieSides; face++ {
			rolls[i] = face
			walk(i + 1)
		}
	}
	walk(0)

	outcomes := make([]game.Weighted[Losses], 0, len(counts))
	for losses, n := range counts {
		outcomes = append(outcomes, game.Weighted[Losses]{Value: losses, Weight: float64(n) / float64(total)})
	}
	// Outcome order feeds the search tree; keep it stable.
	slices.SortFunc(outcomes, func(x, y game.Weighted[Losses]) int {
		if x.Value.Attacker != y.Value.Attacker {
			return x.Value.Attacker - y.Value.Attacker
		}
		return x.Value.Defender - y.Value.Defender
	})
	return outcomes
}

// Odds returns the loss distribution of one round of dice.
func Odds(attackDice, defendDice int) []game.Weighted[Losses] {
	if attackDice < 1 || attackDice > MaxAttackDice || defendDice < 1 || defendDice > MaxDefendDice {
		panic("dice count out of range")
	}
	return odds[attackDice][defendDice]
}

func rollDice(n int) []int {
	rolls := make([]int, n)
	for i := range rolls {
		rolls[i] = rand.Intn(dieSides) + 1
	}
	return rolls
}
