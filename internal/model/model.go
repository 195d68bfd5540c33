package model

import (
	"encoding/json"
	"time"

	"github.com/jvera71/MiniRisk/pkg/risk"
)

// MatchSummary is the lobby listing entry for a match.
type MatchSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CreatorID   string    `json:"creator_id"`
	Status      string    `json:"status"`
	PlayerCount int       `json:"player_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// MatchRecord is the archived row of a finished match.
type MatchRecord struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	CreatorID  string          `json:"creator_id"`
	WinnerID   string          `json:"winner_id,omitempty"`
	Players    int             `json:"players"`
	Turns      int             `json:"turns"`
	FinalState json.RawMessage `json:"final_state"`
	CreatedAt  time.Time       `json:"created_at"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt time.Time       `json:"finished_at"`
}

// PlayerView is a player as seen by other players: the hand is reduced
// to its size.
type PlayerView struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Color         risk.PlayerColor `json:"color"`
	CardCount     int              `json:"card_count"`
	TerritoryCnt  int              `json:"territory_count"`
	Eliminated    bool             `json:"eliminated"`
	Connected     bool             `json:"connected"`
	InitialArmies int              `json:"initial_armies,omitempty"`
}

// TerritoryView is one board region's public state.
type TerritoryView struct {
	Name      risk.TerritoryName `json:"name"`
	Continent risk.ContinentName `json:"continent"`
	Owner     string             `json:"owner"`
	Armies    int                `json:"armies"`
}

// PendingView marks a conquest awaiting its mandatory army move.
type PendingView struct {
	From risk.TerritoryName `json:"from"`
	To   risk.TerritoryName `json:"to"`
}

// MatchView is the full match state broadcast to players. Hands are
// never included; each player fetches their own through Hand.
type MatchView struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	CreatorID       string          `json:"creator_id"`
	Status          risk.GameStatus `json:"status"`
	Phase           risk.GamePhase  `json:"phase"`
	Turn            int             `json:"turn"`
	CurrentPlayerID string          `json:"current_player_id,omitempty"`
	Reinforcements  int             `json:"reinforcements"`
	TradeCount      int             `json:"trade_count"`
	Players         []PlayerView    `json:"players"`
	Territories     []TerritoryView `json:"territories"`
	Pending         *PendingView    `json:"pending_conquest,omitempty"`
	DeckSize        int             `json:"deck_size"`
	Events          []risk.Event    `json:"events,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	StartedAt       *time.Time      `json:"started_at,omitempty"`
	FinishedAt      *time.Time      `json:"finished_at,omitempty"`
}

// recentEvents caps how much of the log a view carries.
const recentEvents = 50

// FromGame projects a match onto its public view, in board order for
// territories and join order for players.
func FromGame(g *risk.Game, board *risk.Board) *MatchView {
	v := &MatchView{
		ID:             g.ID,
		Name:           g.Name,
		CreatorID:      g.CreatorID,
		Status:         g.Status,
		Phase:          g.Phase,
		Turn:           g.Turn,
		Reinforcements: g.Reinforcements,
		TradeCount:     g.TradeCount,
		DeckSize:       len(g.Deck),
		CreatedAt:      g.CreatedAt,
		StartedAt:      g.StartedAt,
		FinishedAt:     g.FinishedAt,
	}
	if g.Status != risk.StatusWaiting && len(g.Players) > 0 {
		v.CurrentPlayerID = g.CurrentPlayer().ID
	}
	if g.Pending != nil {
		v.Pending = &PendingView{From: g.Pending.From, To: g.Pending.To}
	}

	v.Players = make([]PlayerView, 0, len(g.Players))
	for _, p := range g.Players {
		v.Players = append(v.Players, PlayerView{
			ID:            p.ID,
			Name:          p.Name,
			Color:         p.Color,
			CardCount:     len(p.Cards),
			TerritoryCnt:  g.TerritoryCountOf(p.ID),
			Eliminated:    p.Eliminated,
			Connected:     p.Connected,
			InitialArmies: p.InitialArmies,
		})
	}

	v.Territories = make([]TerritoryView, 0, len(g.Territories))
	for _, name := range board.Territories() {
		t, ok := g.Territories[name]
		if !ok {
			continue
		}
		v.Territories = append(v.Territories, TerritoryView{
			Name:      t.Name,
			Continent: t.Continent,
			Owner:     t.Owner,
			Armies:    t.Armies,
		})
	}

	if n := len(g.Events); n > recentEvents {
		v.Events = g.Events[n-recentEvents:]
	} else {
		v.Events = g.Events
	}
	return v
}

// RecordFromGame builds the archive row for a finished match.
func RecordFromGame(g *risk.Game, winnerID string) (*MatchRecord, error) {
	state, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	finished := time.Now().UTC()
	if g.FinishedAt != nil {
		finished = *g.FinishedAt
	}
	humans := 0
	for _, p := range g.Players {
		if !p.Neutral() {
			humans++
		}
	}
	return &MatchRecord{
		ID:         g.ID,
		Name:       g.Name,
		CreatorID:  g.CreatorID,
		WinnerID:   winnerID,
		Players:    humans,
		Turns:      g.Turn,
		FinalState: state,
		CreatedAt:  g.CreatedAt,
		StartedAt:  g.StartedAt,
		FinishedAt: finished,
	}, nil
}
