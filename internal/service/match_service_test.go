package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jvera71/MiniRisk/internal/coordinator"
	"github.com/jvera71/MiniRisk/pkg/risk"
)

func newTestService(roller risk.Roller) (*MatchService, *coordinator.Coordinator, *mockCache, *mockArchive) {
	coord := coordinator.New(time.Second)
	cache := newMockCache()
	archive := newMockArchive()
	engine := risk.NewEngine(nil, roller, risk.Options{})
	return NewMatchService(coord, engine, cache, archive), coord, cache, archive
}

func TestCreateMatchRegistersAndSnapshots(t *testing.T) {
	svc, coord, cache, _ := newTestService(nil)
	ctx := context.Background()

	view, creatorID, err := svc.CreateMatch(ctx, "friday night", "Alice")
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if creatorID == "" {
		t.Fatal("no creator player id returned")
	}
	if view.CreatorID != creatorID {
		t.Errorf("view creator = %s, want %s", view.CreatorID, creatorID)
	}
	if len(view.Players) != 1 || view.Players[0].Name != "Alice" {
		t.Errorf("players = %+v, want Alice only", view.Players)
	}
	if coord.Len() != 1 {
		t.Errorf("registry size = %d, want 1", coord.Len())
	}
	if state, _ := cache.GetMatchState(ctx, view.ID); state == nil {
		t.Error("no snapshot written on create")
	}

	open, err := svc.ListOpenMatches(ctx)
	if err != nil {
		t.Fatalf("ListOpenMatches: %v", err)
	}
	if len(open) != 1 || open[0].ID != view.ID || open[0].PlayerCount != 1 {
		t.Errorf("open matches = %+v", open)
	}
}

func TestJoinMatchValidations(t *testing.T) {
	svc, _, _, _ := newTestService(nil)
	ctx := context.Background()

	view, _, _ := svc.CreateMatch(ctx, "crowded", "Alice")

	if _, _, err := svc.JoinMatch(ctx, "no-such-id", "Bob"); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("unknown match: err = %v, want ErrMatchNotFound", err)
	}
	if _, _, err := svc.JoinMatch(ctx, view.ID, "Alice"); !errors.Is(err, ErrNameTaken) {
		t.Errorf("duplicate name: err = %v, want ErrNameTaken", err)
	}

	for i := 2; i <= 6; i++ {
		if _, _, err := svc.JoinMatch(ctx, view.ID, fmt.Sprintf("Player%d", i)); err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
	}
	if _, _, err := svc.JoinMatch(ctx, view.ID, "Late"); !errors.Is(err, ErrMatchFull) {
		t.Errorf("seventh join: err = %v, want ErrMatchFull", err)
	}
}

func TestJoinMatchAssignsDistinctColors(t *testing.T) {
	svc, _, _, _ := newTestService(nil)
	ctx := context.Background()

	view, _, _ := svc.CreateMatch(ctx, "colorful", "Alice")
	svc.JoinMatch(ctx, view.ID, "Bob")
	view, _, err := svc.JoinMatch(ctx, view.ID, "Cara")
	if err != nil {
		t.Fatalf("JoinMatch: %v", err)
	}

	seen := make(map[risk.PlayerColor]bool)
	for _, p := range view.Players {
		if seen[p.Color] {
			t.Fatalf("color %s assigned twice", p.Color)
		}
		seen[p.Color] = true
	}
}

func TestStartMatchValidations(t *testing.T) {
	svc, _, _, _ := newTestService(nil)
	ctx := context.Background()

	view, creatorID, _ := svc.CreateMatch(ctx, "duel", "Alice")

	if _, err := svc.StartMatch(ctx, view.ID, creatorID); !errors.Is(err, ErrNotEnough) {
		t.Errorf("solo start: err = %v, want ErrNotEnough", err)
	}

	_, bobID, _ := svc.JoinMatch(ctx, view.ID, "Bob")
	if _, err := svc.StartMatch(ctx, view.ID, bobID); !errors.Is(err, ErrNotCreator) {
		t.Errorf("non-creator start: err = %v, want ErrNotCreator", err)
	}

	started, err := svc.StartMatch(ctx, view.ID, creatorID)
	if err != nil {
		t.Fatalf("StartMatch: %v", err)
	}
	if started.Status != risk.StatusPlaying || started.Phase != risk.PhaseSetup {
		t.Errorf("status/phase = %s/%s", started.Status, started.Phase)
	}
	if len(started.Territories) != risk.TerritoryCount {
		t.Errorf("territories = %d, want %d", len(started.Territories), risk.TerritoryCount)
	}
	// A two-player match gets the neutral third power.
	if len(started.Players) != 3 {
		t.Errorf("players = %d, want 3 including neutral", len(started.Players))
	}

	if _, err := svc.StartMatch(ctx, view.ID, creatorID); !errors.Is(err, ErrMatchStarted) {
		t.Errorf("double start: err = %v, want ErrMatchStarted", err)
	}
	if _, _, err := svc.JoinMatch(ctx, view.ID, "Late"); !errors.Is(err, ErrMatchStarted) {
		t.Errorf("join after start: err = %v, want ErrMatchStarted", err)
	}
}

func TestSetupPlacementsReachReinforcement(t *testing.T) {
	svc, _, cache, _ := newTestService(nil)
	ctx := context.Background()

	view, creatorID, _ := svc.CreateMatch(ctx, "setup", "Alice")
	svc.JoinMatch(ctx, view.ID, "Bob")
	svc.JoinMatch(ctx, view.ID, "Cara")
	view, err := svc.StartMatch(ctx, view.ID, creatorID)
	if err != nil {
		t.Fatalf("StartMatch: %v", err)
	}

	for i := 0; view.Phase == risk.PhaseSetup; i++ {
		if i > 20 {
			t.Fatal("setup did not converge")
		}
		current := view.CurrentPlayerID
		var pool int
		for _, p := range view.Players {
			if p.ID == current {
				pool = p.InitialArmies
			}
		}
		var target risk.TerritoryName
		for _, terr := range view.Territories {
			if terr.Owner == current {
				target = terr.Name
				break
			}
		}
		res, err := svc.PlaceInitialArmies(ctx, view.ID, current, target, pool)
		if err != nil {
			t.Fatalf("PlaceInitialArmies: %v", err)
		}
		view = res.View
	}

	if view.Phase != risk.PhaseReinforcement {
		t.Fatalf("phase = %s, want %s", view.Phase, risk.PhaseReinforcement)
	}
	if view.Turn != 1 {
		t.Errorf("turn = %d, want 1", view.Turn)
	}
	if view.Reinforcements < 3 {
		t.Errorf("grant = %d, want at least 3", view.Reinforcements)
	}
	if state, _ := cache.GetMatchState(ctx, view.ID); state == nil {
		t.Error("no snapshot after setup")
	}
}

func TestRuleViolationLeavesNoSnapshot(t *testing.T) {
	svc, _, cache, _ := newTestService(nil)
	ctx := context.Background()

	view, creatorID, _ := svc.CreateMatch(ctx, "strict", "Alice")
	svc.JoinMatch(ctx, view.ID, "Bob")
	svc.StartMatch(ctx, view.ID, creatorID)

	cache.mu.Lock()
	before := cache.sets
	cache.mu.Unlock()

	// Acting during setup with a bogus player id is a rule violation.
	_, err := svc.ConfirmReinforcements(ctx, view.ID, "intruder")
	var re *risk.RuleError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want a rule error", err)
	}

	cache.mu.Lock()
	after := cache.sets
	cache.mu.Unlock()
	if after != before {
		t.Error("failed action wrote a snapshot")
	}
}

func TestLeaveAndRejoin(t *testing.T) {
	svc, coord, cache, _ := newTestService(nil)
	ctx := context.Background()

	view, creatorID, _ := svc.CreateMatch(ctx, "fickle", "Alice")
	_, bobID, _ := svc.JoinMatch(ctx, view.ID, "Bob")

	// Leaving a waiting lobby removes the player entirely.
	left, err := svc.LeaveMatch(ctx, view.ID, bobID)
	if err != nil {
		t.Fatalf("LeaveMatch: %v", err)
	}
	if len(left.Players) != 1 {
		t.Errorf("players = %d after lobby leave, want 1", len(left.Players))
	}

	// Leaving mid-match only marks the player disconnected.
	svc.JoinMatch(ctx, view.ID, "Bob2")
	started, err := svc.StartMatch(ctx, view.ID, creatorID)
	if err != nil {
		t.Fatalf("StartMatch: %v", err)
	}
	left, err = svc.LeaveMatch(ctx, view.ID, creatorID)
	if err != nil {
		t.Fatalf("LeaveMatch during play: %v", err)
	}
	if len(left.Players) != len(started.Players) {
		t.Error("in-play leave removed the player")
	}
	for _, p := range left.Players {
		if p.ID == creatorID && p.Connected {
			t.Error("leaver still marked connected")
		}
	}

	back, err := svc.RejoinMatch(ctx, view.ID, creatorID)
	if err != nil {
		t.Fatalf("RejoinMatch: %v", err)
	}
	for _, p := range back.Players {
		if p.ID == creatorID && !p.Connected {
			t.Error("rejoiner not marked connected")
		}
	}

	if _, err := svc.RejoinMatch(ctx, view.ID, "stranger"); !errors.Is(err, ErrNotInMatch) {
		t.Errorf("stranger rejoin: err = %v, want ErrNotInMatch", err)
	}

	// The last player leaving a lobby drops the match entirely.
	solo, soloID, _ := svc.CreateMatch(ctx, "ghost town", "Only")
	if _, err := svc.LeaveMatch(ctx, solo.ID, soloID); err != nil {
		t.Fatalf("LeaveMatch: %v", err)
	}
	if _, ok := coord.Get(solo.ID); ok {
		t.Error("emptied lobby still registered")
	}
	if state, _ := cache.GetMatchState(ctx, solo.ID); state != nil {
		t.Error("emptied lobby kept its snapshot")
	}
}

func TestHandIsPrivatePerPlayer(t *testing.T) {
	svc, coord, _, _ := newTestService(nil)
	ctx := context.Background()

	g := risk.NewGame("hands", "p1")
	g.Players = []*risk.Player{
		{ID: "p1", Name: "Alice", Cards: []risk.Card{{ID: "c1", Type: risk.Infantry}}},
		{ID: "p2", Name: "Bob"},
	}
	g.Status = risk.StatusPlaying
	coord.Add(g)

	hand, err := svc.Hand(ctx, g.ID, "p1")
	if err != nil {
		t.Fatalf("Hand: %v", err)
	}
	if len(hand) != 1 || hand[0].ID != "c1" {
		t.Errorf("hand = %v", hand)
	}

	if _, err := svc.Hand(ctx, g.ID, "stranger"); !errors.Is(err, ErrNotInMatch) {
		t.Errorf("stranger hand: err = %v, want ErrNotInMatch", err)
	}

	view, err := svc.MatchState(ctx, g.ID)
	if err != nil {
		t.Fatalf("MatchState: %v", err)
	}
	if view.Players[0].CardCount != 1 {
		t.Errorf("card count = %d, want 1", view.Players[0].CardCount)
	}
}

func TestVictoryArchivesAndUnregisters(t *testing.T) {
	rolls := [][]int{{6, 6}, {1}}
	roller := risk.RollerFunc(func(n int) []int {
		next := rolls[0]
		rolls = rolls[1:]
		return next
	})
	svc, coord, cache, archive := newTestService(roller)
	ctx := context.Background()

	// A two-player endgame: Bob's last territory is about to fall.
	board := risk.StandardBoard()
	g := risk.NewGame("endgame", "p1")
	g.Players = []*risk.Player{
		{ID: "p1", Name: "Alice", Color: risk.Red, Connected: true},
		{ID: "p2", Name: "Bob", Color: risk.Blue, Connected: true},
	}
	g.Status = risk.StatusPlaying
	g.Phase = risk.PhaseAttack
	g.Turn = 9
	for _, name := range board.Territories() {
		continent, _ := board.ContinentOf(name)
		owner := "p1"
		if name == risk.Venezuela {
			owner = "p2"
		}
		g.Territories[name] = &risk.Territory{Name: name, Continent: continent, Owner: owner, Armies: 1}
	}
	g.Territories[risk.CentralAmerica].Armies = 3
	coord.Add(g)
	svc.snapshot(ctx, g)

	res, err := svc.Attack(ctx, g.ID, "p1", risk.CentralAmerica, risk.Venezuela, 2)
	if err != nil {
		t.Fatalf("Attack: %v", err)
	}
	if res.Attack == nil || !res.Attack.GameOver || res.Attack.WinnerID != "p1" {
		t.Fatalf("attack outcome = %+v, want victory for p1", res.Attack)
	}

	// The winning conquest still owes its mandatory move; the match stays
	// registered until it resolves.
	if _, ok := coord.Get(g.ID); !ok {
		t.Fatal("match unregistered before the pending move resolved")
	}
	res, err = svc.MoveArmiesAfterConquest(ctx, g.ID, "p1", risk.CentralAmerica, risk.Venezuela, 2)
	if err != nil {
		t.Fatalf("MoveArmiesAfterConquest: %v", err)
	}
	if res.View.Status != risk.StatusFinished {
		t.Errorf("status = %s, want %s", res.View.Status, risk.StatusFinished)
	}

	rec, _ := archive.FindByID(ctx, g.ID)
	if rec == nil {
		t.Fatal("finished match not archived")
	}
	if rec.WinnerID != "p1" || rec.Players != 2 {
		t.Errorf("record = %+v", rec)
	}
	if state, _ := cache.GetMatchState(ctx, g.ID); state != nil {
		t.Error("finished match kept its snapshot")
	}
	if _, ok := coord.Get(g.ID); ok {
		t.Error("finished match still registered")
	}
	if _, err := svc.EndTurn(ctx, g.ID, "p1"); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("action on finished match: err = %v, want ErrMatchNotFound", err)
	}
}
