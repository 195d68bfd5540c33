package risk

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// GameStatus represents the overall match status.
type GameStatus string

const (
	StatusWaiting  GameStatus = "waiting"
	StatusPlaying  GameStatus = "playing"
	StatusFinished GameStatus = "finished"
)

// GamePhase represents the sub-stage of the active player's turn.
type GamePhase string

const (
	PhaseSetup         GamePhase = "setup"
	PhaseReinforcement GamePhase = "reinforcement"
	PhaseAttack        GamePhase = "attack"
	PhaseFortification GamePhase = "fortification"
)

// CardType classifies a territory card.
type CardType string

const (
	Infantry  CardType = "infantry"
	Cavalry   CardType = "cavalry"
	Artillery CardType = "artillery"
	Wildcard  CardType = "wildcard"
)

// PlayerColor is the board color assigned to a player.
type PlayerColor string

const (
	Red     PlayerColor = "red"
	Blue    PlayerColor = "blue"
	Green   PlayerColor = "green"
	Yellow  PlayerColor = "yellow"
	Purple  PlayerColor = "purple"
	Orange  PlayerColor = "orange"
	Neutral PlayerColor = "neutral"
)

// PlayerColors lists the assignable colors in join order.
var PlayerColors = []PlayerColor{Red, Blue, Green, Yellow, Purple, Orange}

// NeutralPlayerID is the reserved id of the non-acting neutral player
// injected into 2-player matches.
const NeutralPlayerID = "neutral"

// Card is a tradeable territory card. Territory is empty for wildcards.
type Card struct {
	ID        string        `json:"id"`
	Type      CardType      `json:"type"`
	Territory TerritoryName `json:"territory,omitempty"`
}

// Player is a participant in a match, owned by its Game.
type Player struct {
	ID            string
	Name          string
	Color         PlayerColor
	Cards         []Card
	Eliminated    bool
	Connected     bool
	InitialArmies int // armies left to place during setup
}

// Neutral reports whether this is the injected neutral player.
func (p *Player) Neutral() bool { return p.ID == NeutralPlayerID }

// AddCard appends a card to the player's hand.
func (p *Player) AddCard(c Card) { p.Cards = append(p.Cards, c) }

// RemoveCards removes the given cards (by id) from the player's hand.
func (p *Player) RemoveCards(cards []Card) {
	for _, c := range cards {
		for i, h := range p.Cards {
			if h.ID == c.ID {
				p.Cards = append(p.Cards[:i], p.Cards[i+1:]...)
				break
			}
		}
	}
}

// SurrenderCards empties the player's hand and returns it.
func (p *Player) SurrenderCards() []Card {
	surrendered := p.Cards
	p.Cards = nil
	return surrendered
}

// Territory is an ownable map region. Adjacency lives on the Board.
type Territory struct {
	Name      TerritoryName
	Continent ContinentName
	Owner     string
	Armies    int
}

// EventType classifies a match event.
type EventType string

const (
	EventGameStarted          EventType = "game_started"
	EventTurnStarted          EventType = "turn_started"
	EventReinforcementsPlaced EventType = "reinforcements_placed"
	EventDiceRolled           EventType = "dice_rolled"
	EventTerritoryConquered   EventType = "territory_conquered"
	EventPlayerEliminated     EventType = "player_eliminated"
	EventCardsTraded          EventType = "cards_traded"
	EventFortified            EventType = "fortified"
	EventTurnEnded            EventType = "turn_ended"
	EventGameOver             EventType = "game_over"
	EventPlayerJoined         EventType = "player_joined"
	EventPlayerLeft           EventType = "player_left"
	EventPlayerReconnected    EventType = "player_reconnected"
)

// Event is one entry in a match's chronological log.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Message   string    `json:"message"`
	PlayerID  string    `json:"player_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PendingConquest marks a conquered territory awaiting its mandatory
// army movement. While set, no other action is accepted for the match.
type PendingConquest struct {
	From TerritoryName
	To   TerritoryName
}

// Game is the aggregate root for one match. All mutation goes through
// the Engine while the match's exclusive section is held.
type Game struct {
	ID        string
	Name      string
	CreatorID string

	Status GameStatus
	Phase  GamePhase

	Players        []*Player // turn order once playing
	Current        int       // index of the active player
	Turn           int
	TradeCount     int
	Reinforcements int // remaining grant for the active player
	Conquered      bool
	Pending        *PendingConquest

	Territories map[TerritoryName]*Territory

	Deck    []Card // draw pile, front at index 0
	Discard []Card

	Events []Event

	CreatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
}

func nowUTC() time.Time { return time.Now().UTC() }

// NewGame creates an empty match in waiting status.
func NewGame(name, creatorID string) *Game {
	return &Game{
		ID:          uuid.NewString(),
		Name:        name,
		CreatorID:   creatorID,
		Status:      StatusWaiting,
		Phase:       PhaseSetup,
		Territories: make(map[TerritoryName]*Territory, TerritoryCount),
		CreatedAt:   time.Now().UTC(),
	}
}

// CurrentPlayer returns the active player.
func (g *Game) CurrentPlayer() *Player { return g.Players[g.Current] }

// PlayerByID returns the player with the given id, or nil.
func (g *Game) PlayerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ActivePlayers returns the non-eliminated, non-neutral players.
func (g *Game) ActivePlayers() []*Player {
	var active []*Player
	for _, p := range g.Players {
		if !p.Eliminated && !p.Neutral() {
			active = append(active, p)
		}
	}
	return active
}

// OwnedTerritories returns the territories owned by a player.
func (g *Game) OwnedTerritories(playerID string) []*Territory {
	var owned []*Territory
	for _, t := range g.Territories {
		if t.Owner == playerID {
			owned = append(owned, t)
		}
	}
	return owned
}

// TerritoryCountOf returns how many territories a player owns.
func (g *Game) TerritoryCountOf(playerID string) int {
	count := 0
	for _, t := range g.Territories {
		if t.Owner == playerID {
			count++
		}
	}
	return count
}

// AdvanceTurn moves play to the next non-eliminated, non-neutral player,
// increments the turn number, and resets per-turn state.
func (g *Game) AdvanceTurn() {
	for {
		g.Current = (g.Current + 1) % len(g.Players)
		p := g.Players[g.Current]
		if !p.Eliminated && !p.Neutral() {
			break
		}
	}
	g.Turn++
	g.Conquered = false
	g.Phase = PhaseReinforcement
}

// DrawCard removes and returns the top card of the draw pile. If the
// pile is empty, the discard pile is reshuffled into it first. Returns
// false only when both piles are empty.
func (g *Game) DrawCard() (Card, bool) {
	if len(g.Deck) == 0 && len(g.Discard) > 0 {
		g.Deck = g.Discard
		g.Discard = nil
		rand.Shuffle(len(g.Deck), func(i, j int) {
			g.Deck[i], g.Deck[j] = g.Deck[j], g.Deck[i]
		})
	}
	if len(g.Deck) == 0 {
		return Card{}, false
	}
	card := g.Deck[0]
	g.Deck = g.Deck[1:]
	return card, true
}

// AddEvent appends an entry to the match's event log.
func (g *Game) AddEvent(typ EventType, playerID, message string) {
	g.Events = append(g.Events, Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Message:   message,
		PlayerID:  playerID,
		Timestamp: time.Now().UTC(),
	})
}
