package risk

import "testing"

func TestResolveCombat(t *testing.T) {
	tests := []struct {
		name               string
		attacker, defender []int
		wantAtt, wantDef   int
	}{
		{"attacker wins both pairs", []int{6, 4}, []int{5, 3}, 0, 2},
		{"tie goes to defender", []int{3}, []int{3}, 1, 0},
		{"split pairs", []int{6, 2}, []int{5, 4}, 1, 1},
		{"all ties", []int{6, 6, 6}, []int{6, 6}, 2, 0},
		{"single die each", []int{5}, []int{2}, 0, 1},
		{"one against two", []int{5}, []int{6, 2}, 1, 0},
		{"unsorted input", []int{4, 6}, []int{3, 5}, 0, 2},
	}
	for _, tt := range tests {
		att, def := ResolveCombat(tt.attacker, tt.defender)
		if att != tt.wantAtt || def != tt.wantDef {
			t.Errorf("%s: ResolveCombat(%v, %v) = (%d, %d), want (%d, %d)",
				tt.name, tt.attacker, tt.defender, att, def, tt.wantAtt, tt.wantDef)
		}
	}
}

func TestResolveCombatDoesNotMutateInput(t *testing.T) {
	attacker := []int{2, 6, 4}
	defender := []int{1, 5}
	ResolveCombat(attacker, defender)
	if attacker[0] != 2 || attacker[1] != 6 || attacker[2] != 4 {
		t.Errorf("attacker dice mutated: %v", attacker)
	}
	if defender[0] != 1 || defender[1] != 5 {
		t.Errorf("defender dice mutated: %v", defender)
	}
}

func TestDefaultRoller(t *testing.T) {
	roller := DefaultRoller()
	for trial := 0; trial < 100; trial++ {
		dice := roller.Roll(3)
		if len(dice) != 3 {
			t.Fatalf("expected 3 dice, got %d", len(dice))
		}
		for i, d := range dice {
			if d < 1 || d > 6 {
				t.Fatalf("die out of range: %d", d)
			}
			if i > 0 && dice[i-1] < d {
				t.Fatalf("dice not sorted descending: %v", dice)
			}
		}
	}
}
