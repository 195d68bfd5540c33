package risk

import (
	"math/rand/v2"
	"sort"
)

// MaxAttackerDice and MaxDefenderDice bound the dice each side may roll.
const (
	MaxAttackerDice = 3
	MaxDefenderDice = 2
)

// Roller produces dice rolls. Implementations must return n values,
// each uniformly drawn from 1..6, sorted descending.
type Roller interface {
	Roll(n int) []int
}

// RollerFunc adapts a function to the Roller interface.
type RollerFunc func(n int) []int

// Roll implements Roller.
func (f RollerFunc) Roll(n int) []int { return f(n) }

// DefaultRoller rolls fair six-sided dice.
func DefaultRoller() Roller {
	return RollerFunc(func(n int) []int {
		dice := make([]int, n)
		for i := range dice {
			dice[i] = rand.IntN(6) + 1
		}
		sort.Sort(sort.Reverse(sort.IntSlice(dice)))
		return dice
	})
}

// CombatResult is the outcome of a single attack roll.
type CombatResult struct {
	From         TerritoryName `json:"from"`
	To           TerritoryName `json:"to"`
	AttackerDice []int         `json:"attacker_dice"`
	DefenderDice []int         `json:"defender_dice"`
	AttackerLoss int           `json:"attacker_loss"`
	DefenderLoss int           `json:"defender_loss"`
	Conquered    bool          `json:"conquered"`
}

// ResolveCombat pairs the top dice of each side positionally and counts
// losses: the higher value wins a pair, ties go to the defender. Inputs
// are not mutated; they are sorted descending on copies.
func ResolveCombat(attackerDice, defenderDice []int) (attackerLoss, defenderLoss int) {
	att := sortedDesc(attackerDice)
	def := sortedDesc(defenderDice)

	pairs := min(len(att), len(def))
	for i := 0; i < pairs; i++ {
		if att[i] > def[i] {
			defenderLoss++
		} else {
			attackerLoss++
		}
	}
	return attackerLoss, defenderLoss
}

func sortedDesc(dice []int) []int {
	out := make([]int, len(dice))
	copy(out, dice)
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
