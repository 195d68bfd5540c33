package risk

import "github.com/google/uuid"

// DeckSize is the number of cards in a fresh deck: one card per
// territory plus two wildcards.
const DeckSize = TerritoryCount + 2

// NewDeck builds the full 44-card deck for a board: the three card
// types interleaved across its territories, plus two wildcards.
// The deck is returned unshuffled.
func NewDeck(board *Board) []Card {
	types := []CardType{Infantry, Cavalry, Artillery}
	cards := make([]Card, 0, DeckSize)
	for i, t := range board.Territories() {
		cards = append(cards, Card{
			ID:        uuid.NewString(),
			Type:      types[i%len(types)],
			Territory: t,
		})
	}
	cards = append(cards,
		Card{ID: uuid.NewString(), Type: Wildcard},
		Card{ID: uuid.NewString(), Type: Wildcard},
	)
	return cards
}

// ValidTrade reports whether three cards form a legal trade: any set
// containing a wildcard, three of a kind, or one of each regular type.
func ValidTrade(cards []Card) bool {
	if len(cards) != 3 {
		return false
	}

	distinct := make(map[CardType]bool, 3)
	for _, c := range cards {
		if c.Type == Wildcard {
			return true
		}
		distinct[c.Type] = true
	}

	return len(distinct) == 1 || len(distinct) == 3
}

// ArmiesForTrade returns the army reward for the nth trade of the match
// (1-based): 4, 6, 8, 10, 12, 15, then +5 for each trade after the sixth.
func ArmiesForTrade(tradeNumber int) int {
	schedule := []int{4, 6, 8, 10, 12, 15}
	if tradeNumber >= 1 && tradeNumber <= len(schedule) {
		return schedule[tradeNumber-1]
	}
	return 15 + (tradeNumber-6)*5
}

// TradeTerritoryBonus is the extra armies placed on a traded card's
// territory when the trading player owns it.
const TradeTerritoryBonus = 2
