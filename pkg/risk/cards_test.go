package risk

import "testing"

func TestArmiesForTrade(t *testing.T) {
	tests := []struct {
		trade int
		want  int
	}{
		{1, 4}, {2, 6}, {3, 8}, {4, 10}, {5, 12}, {6, 15}, {7, 20}, {8, 25}, {10, 35},
	}
	for _, tt := range tests {
		if got := ArmiesForTrade(tt.trade); got != tt.want {
			t.Errorf("ArmiesForTrade(%d) = %d, want %d", tt.trade, got, tt.want)
		}
	}
}

func TestValidTrade(t *testing.T) {
	card := func(typ CardType) Card { return Card{Type: typ} }
	tests := []struct {
		name  string
		cards []Card
		want  bool
	}{
		{"three of a kind", []Card{card(Infantry), card(Infantry), card(Infantry)}, true},
		{"one of each", []Card{card(Infantry), card(Cavalry), card(Artillery)}, true},
		{"wildcard plus pair", []Card{card(Wildcard), card(Infantry), card(Infantry)}, true},
		{"two wildcards", []Card{card(Wildcard), card(Wildcard), card(Artillery)}, true},
		{"two and one", []Card{card(Infantry), card(Infantry), card(Cavalry)}, false},
		{"two cards only", []Card{card(Infantry), card(Infantry)}, false},
		{"four cards", []Card{card(Infantry), card(Infantry), card(Infantry), card(Infantry)}, false},
	}
	for _, tt := range tests {
		if got := ValidTrade(tt.cards); got != tt.want {
			t.Errorf("%s: ValidTrade = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewDeck(t *testing.T) {
	deck := NewDeck(StandardBoard())
	if len(deck) != DeckSize {
		t.Fatalf("expected %d cards, got %d", DeckSize, len(deck))
	}

	byType := make(map[CardType]int)
	territories := make(map[TerritoryName]bool)
	ids := make(map[string]bool)
	for _, c := range deck {
		byType[c.Type]++
		if ids[c.ID] {
			t.Errorf("duplicate card id %s", c.ID)
		}
		ids[c.ID] = true
		if c.Type == Wildcard {
			if c.Territory != "" {
				t.Errorf("wildcard carries territory %s", c.Territory)
			}
			continue
		}
		if territories[c.Territory] {
			t.Errorf("duplicate territory card %s", c.Territory)
		}
		territories[c.Territory] = true
	}

	if byType[Infantry] != 14 || byType[Cavalry] != 14 || byType[Artillery] != 14 {
		t.Errorf("expected 14 of each regular type, got %v", byType)
	}
	if byType[Wildcard] != 2 {
		t.Errorf("expected 2 wildcards, got %d", byType[Wildcard])
	}
	if len(territories) != TerritoryCount {
		t.Errorf("expected every territory on a card, got %d", len(territories))
	}
}
