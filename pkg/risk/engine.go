package risk

import (
	"fmt"
	"math/rand/v2"
)

// RuleError describes why an action is illegal. Actions failing with a
// RuleError leave the match unmodified; any other error from the engine
// indicates misuse by the calling layer.
type RuleError struct {
	Action  string
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Action, e.Message)
}

func ruleErr(action, format string, args ...any) *RuleError {
	return &RuleError{Action: action, Message: fmt.Sprintf(format, args...)}
}

// Options configures rules that the classic rulebook leaves open.
type Options struct {
	// NeutralInitialArmies is the number of armies spread evenly across
	// the neutral player's territories in a 2-player match, on top of the
	// one-army garrisons from distribution. The default of 0 leaves the
	// neutral player with garrisons only.
	NeutralInitialArmies int
}

// Engine validates and applies every player action against a match
// aggregate. It holds no per-match state; one Engine serves all matches.
type Engine struct {
	board  *Board
	roller Roller
	opts   Options
}

// NewEngine creates an Engine. A nil board selects the standard board;
// a nil roller selects fair dice.
func NewEngine(board *Board, roller Roller, opts Options) *Engine {
	if board == nil {
		board = StandardBoard()
	}
	if roller == nil {
		roller = DefaultRoller()
	}
	return &Engine{board: board, roller: roller, opts: opts}
}

// Board returns the board this engine plays on.
func (e *Engine) Board() *Board { return e.board }

// initialArmyPool maps player count to each player's starting army pool.
var initialArmyPool = map[int]int{2: 40, 3: 35, 4: 30, 5: 25, 6: 20}

// Initialize starts a waiting match: assigns army pools, shuffles the
// deck and the turn order, injects the neutral player for 2-player
// matches, and distributes territories round-robin in random order with
// one army each. The match enters the Setup phase.
func (e *Engine) Initialize(g *Game) error {
	if g.Status != StatusWaiting {
		return fmt.Errorf("initialize: match %s already started", g.ID)
	}

	pool, ok := initialArmyPool[len(g.Players)]
	if !ok {
		return fmt.Errorf("initialize: invalid player count: %d", len(g.Players))
	}
	for _, p := range g.Players {
		p.InitialArmies = pool
	}

	rand.Shuffle(len(g.Players), func(i, j int) {
		g.Players[i], g.Players[j] = g.Players[j], g.Players[i]
	})

	// The neutral player keeps the classic 3-way tension in 2-player
	// matches. It never acts and is skipped on every turn advance.
	if len(g.Players) == 2 {
		g.Players = append(g.Players, &Player{
			ID:    NeutralPlayerID,
			Name:  "Neutral",
			Color: Neutral,
		})
	}

	deck := NewDeck(e.board)
	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	g.Deck = deck

	g.Status = StatusPlaying
	g.Phase = PhaseSetup
	g.Current = 0
	g.Turn = 0
	now := nowUTC()
	g.StartedAt = &now
	g.AddEvent(EventGameStarted, "", fmt.Sprintf("Match %q started with %d players.", g.Name, len(g.Players)))

	e.distributeTerritories(g)
	e.placeNeutralSurplus(g)
	return nil
}

// distributeTerritories assigns every territory round-robin over the
// players in a random territory order, one army each, drawing the army
// from the recipient's initial pool.
func (e *Engine) distributeTerritories(g *Game) {
	names := make([]TerritoryName, len(e.board.Territories()))
	copy(names, e.board.Territories())
	rand.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})

	for i, name := range names {
		p := g.Players[i%len(g.Players)]
		continent, _ := e.board.ContinentOf(name)
		g.Territories[name] = &Territory{
			Name:      name,
			Continent: continent,
			Owner:     p.ID,
			Armies:    1,
		}
		if p.InitialArmies > 0 {
			p.InitialArmies--
		}
	}
}

// placeNeutralSurplus spreads the configured neutral army surplus evenly
// across the neutral player's territories.
func (e *Engine) placeNeutralSurplus(g *Game) {
	if e.opts.NeutralInitialArmies <= 0 || g.PlayerByID(NeutralPlayerID) == nil {
		return
	}
	var owned []*Territory
	for _, name := range e.board.Territories() {
		if t := g.Territories[name]; t.Owner == NeutralPlayerID {
			owned = append(owned, t)
		}
	}
	if len(owned) == 0 {
		return
	}
	for i := 0; i < e.opts.NeutralInitialArmies; i++ {
		owned[i%len(owned)].Armies++
	}
}

// PlaceInitialArmies places part of the acting player's initial pool on
// one of their territories during Setup. When the pool is exhausted,
// play advances to the next player with armies left; once every player
// is done, the match enters Reinforcement for the first player in turn
// order.
func (e *Engine) PlaceInitialArmies(g *Game, playerID string, territory TerritoryName, count int) error {
	const action = "placeInitialArmies"
	if g.Status != StatusPlaying {
		return ruleErr(action, "match is not in progress")
	}
	if g.Phase != PhaseSetup {
		return ruleErr(action, "match is not in the setup phase")
	}
	player := g.PlayerByID(playerID)
	if player == nil {
		return fmt.Errorf("%s: unknown player %s", action, playerID)
	}
	if g.CurrentPlayer().ID != playerID {
		return ruleErr(action, "it is not your turn")
	}
	t, err := e.territory(g, territory)
	if err != nil {
		return err
	}
	if t.Owner != playerID {
		return ruleErr(action, "you can only place armies on your own territories")
	}
	if count < 1 || count > player.InitialArmies {
		return ruleErr(action, "invalid count: you have %d armies left to place", player.InitialArmies)
	}

	t.Armies += count
	player.InitialArmies -= count

	if player.InitialArmies == 0 {
		e.advanceSetup(g)
	}
	return nil
}

// advanceSetup moves to the next player who still has initial armies,
// skipping the neutral player. When nobody is left, setup is over.
func (e *Engine) advanceSetup(g *Game) {
	start := g.Current
	for {
		g.Current = (g.Current + 1) % len(g.Players)
		p := g.Players[g.Current]
		if !p.Neutral() && p.InitialArmies > 0 {
			return
		}
		if g.Current == start {
			break
		}
	}
	e.startPlaying(g)
}

// startPlaying transitions from Setup to the first Reinforcement phase.
func (e *Engine) startPlaying(g *Game) {
	g.Phase = PhaseReinforcement
	g.Current = 0
	for g.CurrentPlayer().Neutral() {
		g.Current = (g.Current + 1) % len(g.Players)
	}
	g.Turn = 1

	first := g.CurrentPlayer()
	g.Reinforcements = e.CalculateReinforcements(g, first.ID)
	g.AddEvent(EventTurnStarted, first.ID,
		fmt.Sprintf("Turn 1: %s receives %d reinforcements.", first.Name, g.Reinforcements))
}

// CalculateReinforcements computes a player's reinforcement grant:
// max(3, territories/3) plus the bonus of every fully controlled
// continent.
func (e *Engine) CalculateReinforcements(g *Game, playerID string) int {
	armies := g.TerritoryCountOf(playerID) / 3
	if armies < 3 {
		armies = 3
	}
	for _, c := range e.board.Continents {
		if c.ControlledBy(playerID, g.Territories) {
			armies += c.Bonus
		}
	}
	return armies
}

// PlaceReinforcements places part of the remaining reinforcement grant
// on one of the acting player's territories.
func (e *Engine) PlaceReinforcements(g *Game, playerID string, territory TerritoryName, count int) error {
	const action = "placeReinforcements"
	if g.Status != StatusPlaying {
		return ruleErr(action, "match is not in progress")
	}
	if g.Phase != PhaseReinforcement {
		return ruleErr(action, "match is not in the reinforcement phase")
	}
	if g.CurrentPlayer().ID != playerID {
		return ruleErr(action, "it is not your turn")
	}
	t, err := e.territory(g, territory)
	if err != nil {
		return err
	}
	if t.Owner != playerID {
		return ruleErr(action, "you can only reinforce your own territories")
	}
	if count < 1 || count > g.Reinforcements {
		return ruleErr(action, "invalid count: %d reinforcements left to place", g.Reinforcements)
	}

	t.Armies += count
	g.Reinforcements -= count
	g.AddEvent(EventReinforcementsPlaced, playerID,
		fmt.Sprintf("%s placed %d armies on %s.", g.CurrentPlayer().Name, count, territory))
	return nil
}

// ConfirmReinforcements ends the Reinforcement phase once the grant is
// fully spent and opens the Attack phase.
func (e *Engine) ConfirmReinforcements(g *Game, playerID string) error {
	const action = "confirmReinforcements"
	if g.Status != StatusPlaying {
		return ruleErr(action, "match is not in progress")
	}
	if g.Phase != PhaseReinforcement {
		return ruleErr(action, "match is not in the reinforcement phase")
	}
	if g.CurrentPlayer().ID != playerID {
		return ruleErr(action, "it is not your turn")
	}
	if g.Reinforcements > 0 {
		return ruleErr(action, "you still have %d armies to place", g.Reinforcements)
	}

	g.Phase = PhaseAttack
	return nil
}

// TradeCards exchanges exactly three of the acting player's cards for
// armies on the escalating schedule. The reward is added to the
// remaining reinforcement grant; each traded card whose territory the
// player owns grants that territory two extra armies. Returns the army
// reward.
func (e *Engine) TradeCards(g *Game, playerID string, cardIDs []string) (int, error) {
	const action = "tradeCards"
	if g.Status != StatusPlaying {
		return 0, ruleErr(action, "match is not in progress")
	}
	if g.Phase != PhaseReinforcement {
		return 0, ruleErr(action, "cards can only be traded in the reinforcement phase")
	}
	if g.CurrentPlayer().ID != playerID {
		return 0, ruleErr(action, "it is not your turn")
	}
	player := g.PlayerByID(playerID)
	if len(cardIDs) != 3 {
		return 0, ruleErr(action, "you must select exactly 3 cards")
	}

	selected := make([]Card, 0, 3)
	seen := make(map[string]bool, 3)
	for _, id := range cardIDs {
		if seen[id] {
			return 0, ruleErr(action, "you cannot select the same card twice")
		}
		seen[id] = true
		found := false
		for _, c := range player.Cards {
			if c.ID == id {
				selected = append(selected, c)
				found = true
				break
			}
		}
		if !found {
			return 0, ruleErr(action, "you do not own one of the selected cards")
		}
	}
	if !ValidTrade(selected) {
		return 0, ruleErr(action, "the selected cards are not a valid combination")
	}

	g.TradeCount++
	armies := ArmiesForTrade(g.TradeCount)

	player.RemoveCards(selected)
	g.Discard = append(g.Discard, selected...)
	g.Reinforcements += armies

	for _, c := range selected {
		if c.Territory == "" {
			continue
		}
		if t := g.Territories[c.Territory]; t != nil && t.Owner == playerID {
			t.Armies += TradeTerritoryBonus
			g.AddEvent(EventCardsTraded, playerID,
				fmt.Sprintf("Bonus: +%d armies on %s (owned card territory).", TradeTerritoryBonus, c.Territory))
		}
	}

	g.AddEvent(EventCardsTraded, playerID,
		fmt.Sprintf("%s traded cards (trade #%d) for %d armies.", player.Name, g.TradeCount, armies))
	return armies, nil
}

// AttackOutcome reports everything the transport layer needs to
// broadcast after an attack.
type AttackOutcome struct {
	Combat             CombatResult
	PlayerEliminated   bool
	EliminatedPlayerID string
	GameOver           bool
	WinnerID           string
}

// Attack rolls an attack from one territory onto an adjacent enemy
// territory. Losses are applied to both sides; reducing the defender to
// zero transfers ownership and leaves the territory empty pending the
// mandatory follow-up move. Eliminating the defender's last territory
// hands their cards to the attacker, and the match ends when a single
// active player remains.
func (e *Engine) Attack(g *Game, playerID string, from, to TerritoryName, diceCount int) (*AttackOutcome, error) {
	const action = "attack"
	if g.Status != StatusPlaying {
		return nil, ruleErr(action, "match is not in progress")
	}
	if g.Phase != PhaseAttack {
		return nil, ruleErr(action, "match is not in the attack phase")
	}
	current := g.CurrentPlayer()
	if current.ID != playerID {
		return nil, ruleErr(action, "it is not your turn")
	}
	if g.Pending != nil {
		return nil, ruleErr(action, "you must move armies into %s first", g.Pending.To)
	}
	attacker, err := e.territory(g, from)
	if err != nil {
		return nil, err
	}
	defender, err := e.territory(g, to)
	if err != nil {
		return nil, err
	}
	if attacker.Owner != playerID {
		return nil, ruleErr(action, "the attacking territory is not yours")
	}
	if defender.Owner == playerID {
		return nil, ruleErr(action, "you cannot attack your own territory")
	}
	if !e.board.Adjacent(from, to) {
		return nil, ruleErr(action, "%s is not adjacent to %s", from, to)
	}
	if attacker.Armies < 2 {
		return nil, ruleErr(action, "%s needs at least 2 armies to attack", from)
	}
	maxDice := MaxAttackerDice
	if attacker.Armies-1 < maxDice {
		maxDice = attacker.Armies - 1
	}
	if diceCount < 1 || diceCount > maxDice {
		return nil, ruleErr(action, "you can roll between 1 and %d dice", maxDice)
	}

	defenderDiceCount := MaxDefenderDice
	if defender.Armies < defenderDiceCount {
		defenderDiceCount = defender.Armies
	}

	attackerDice := e.roller.Roll(diceCount)
	defenderDice := e.roller.Roll(defenderDiceCount)
	attackerLoss, defenderLoss := ResolveCombat(attackerDice, defenderDice)

	attacker.Armies -= attackerLoss
	defender.Armies -= defenderLoss

	outcome := &AttackOutcome{Combat: CombatResult{
		From:         from,
		To:           to,
		AttackerDice: sortedDesc(attackerDice),
		DefenderDice: sortedDesc(defenderDice),
		AttackerLoss: attackerLoss,
		DefenderLoss: defenderLoss,
	}}
	g.AddEvent(EventDiceRolled, playerID,
		fmt.Sprintf("%s attacked %s from %s: %v vs %v, attacker -%d, defender -%d.",
			current.Name, to, from, outcome.Combat.AttackerDice, outcome.Combat.DefenderDice,
			attackerLoss, defenderLoss))

	if defender.Armies > 0 {
		return outcome, nil
	}

	// Conquest: ownership flips, armies stay at zero until the mandatory
	// follow-up move restores the garrison.
	outcome.Combat.Conquered = true
	g.Conquered = true
	g.Pending = &PendingConquest{From: from, To: to}

	previousOwner := defender.Owner
	defender.Owner = playerID
	defender.Armies = 0
	g.AddEvent(EventTerritoryConquered, playerID,
		fmt.Sprintf("%s conquered %s.", current.Name, to))

	defeated := g.PlayerByID(previousOwner)
	if defeated == nil || defeated.Neutral() || g.TerritoryCountOf(previousOwner) > 0 {
		return outcome, nil
	}

	defeated.Eliminated = true
	outcome.PlayerEliminated = true
	outcome.EliminatedPlayerID = previousOwner

	surrendered := defeated.SurrenderCards()
	for _, c := range surrendered {
		current.AddCard(c)
	}
	msg := fmt.Sprintf("%s was eliminated by %s.", defeated.Name, current.Name)
	if len(surrendered) > 0 {
		msg += fmt.Sprintf(" %s receives %d cards.", current.Name, len(surrendered))
	}
	g.AddEvent(EventPlayerEliminated, previousOwner, msg)

	if e.IsGameOver(g) {
		outcome.GameOver = true
		outcome.WinnerID = current.ID
		g.Status = StatusFinished
		now := nowUTC()
		g.FinishedAt = &now
		g.AddEvent(EventGameOver, playerID, fmt.Sprintf("%s has won the match!", current.Name))
	}
	return outcome, nil
}

// MoveArmiesAfterConquest performs the mandatory army movement into a
// just-conquered territory. It must leave at least one army behind.
func (e *Engine) MoveArmiesAfterConquest(g *Game, playerID string, from, to TerritoryName, count int) error {
	const action = "moveArmiesAfterConquest"
	// A winning attack can finish the match with its follow-up move still
	// pending, so a finished match is accepted here.
	if g.Status != StatusPlaying && g.Status != StatusFinished {
		return ruleErr(action, "match is not in progress")
	}
	if g.Pending == nil {
		return ruleErr(action, "there is no conquest awaiting an army move")
	}
	if g.Pending.From != from || g.Pending.To != to {
		return ruleErr(action, "you must move armies from %s into %s", g.Pending.From, g.Pending.To)
	}
	source, err := e.territory(g, from)
	if err != nil {
		return err
	}
	target, err := e.territory(g, to)
	if err != nil {
		return err
	}
	if source.Owner != playerID || target.Owner != playerID {
		return ruleErr(action, "both territories must be yours")
	}
	if target.Armies > 0 {
		return ruleErr(action, "armies were already moved into %s", to)
	}
	if count < 1 {
		return ruleErr(action, "you must move at least 1 army")
	}
	if source.Armies-count < 1 {
		return ruleErr(action, "you must leave at least 1 army on %s (maximum: %d)", from, source.Armies-1)
	}

	source.Armies -= count
	target.Armies = count
	g.Pending = nil
	return nil
}

// EndAttackPhase moves the acting player from Attack to Fortification.
func (e *Engine) EndAttackPhase(g *Game, playerID string) error {
	const action = "endAttackPhase"
	if g.Status != StatusPlaying {
		return ruleErr(action, "match is not in progress")
	}
	if g.Phase != PhaseAttack {
		return ruleErr(action, "match is not in the attack phase")
	}
	if g.CurrentPlayer().ID != playerID {
		return ruleErr(action, "it is not your turn")
	}
	if g.Pending != nil {
		return ruleErr(action, "you must move armies into %s first", g.Pending.To)
	}

	g.Phase = PhaseFortification
	return nil
}

// Fortify moves armies between two connected territories of the acting
// player and ends the turn. The path must run entirely through the
// player's own territories.
func (e *Engine) Fortify(g *Game, playerID string, from, to TerritoryName, count int) error {
	const action = "fortify"
	if g.Status != StatusPlaying {
		return ruleErr(action, "match is not in progress")
	}
	if g.Phase != PhaseFortification {
		return ruleErr(action, "match is not in the fortification phase")
	}
	if g.CurrentPlayer().ID != playerID {
		return ruleErr(action, "it is not your turn")
	}
	source, err := e.territory(g, from)
	if err != nil {
		return err
	}
	target, err := e.territory(g, to)
	if err != nil {
		return err
	}
	if source.Owner != playerID || target.Owner != playerID {
		return ruleErr(action, "both territories must be yours")
	}
	if from == to {
		return ruleErr(action, "origin and destination must differ")
	}
	if count < 1 || count >= source.Armies {
		return ruleErr(action, "you can move between 1 and %d armies", source.Armies-1)
	}
	if !e.AreConnected(g, playerID, from, to) {
		return ruleErr(action, "no connected path of your own territories from %s to %s", from, to)
	}

	source.Armies -= count
	target.Armies += count
	g.AddEvent(EventFortified, playerID,
		fmt.Sprintf("%s moved %d armies from %s to %s.", g.CurrentPlayer().Name, count, from, to))
	return e.EndTurn(g, playerID)
}

// SkipFortification ends the turn without moving armies.
func (e *Engine) SkipFortification(g *Game, playerID string) error {
	const action = "skipFortification"
	if g.Status != StatusPlaying {
		return ruleErr(action, "match is not in progress")
	}
	if g.Phase != PhaseFortification {
		return ruleErr(action, "match is not in the fortification phase")
	}
	if g.CurrentPlayer().ID != playerID {
		return ruleErr(action, "it is not your turn")
	}
	return e.EndTurn(g, playerID)
}

// EndTurn concludes the acting player's turn from the attack or
// fortification phase: draws a card if they conquered a territory this
// turn, advances to the next active player, and computes the new
// player's reinforcement grant.
func (e *Engine) EndTurn(g *Game, playerID string) error {
	const action = "endTurn"
	if g.Status != StatusPlaying {
		return ruleErr(action, "match is not in progress")
	}
	if g.Phase != PhaseAttack && g.Phase != PhaseFortification {
		return ruleErr(action, "the turn can only be ended from the attack or fortification phase")
	}
	current := g.CurrentPlayer()
	if current.ID != playerID {
		return ruleErr(action, "it is not your turn")
	}
	if g.Pending != nil {
		return ruleErr(action, "you must move armies into %s first", g.Pending.To)
	}

	if g.Conquered {
		if card, ok := g.DrawCard(); ok {
			current.AddCard(card)
		}
	}
	g.AddEvent(EventTurnEnded, playerID, fmt.Sprintf("%s ended their turn.", current.Name))

	g.AdvanceTurn()

	next := g.CurrentPlayer()
	g.Reinforcements = e.CalculateReinforcements(g, next.ID)
	g.AddEvent(EventTurnStarted, next.ID,
		fmt.Sprintf("Turn %d: %s receives %d reinforcements.", g.Turn, next.Name, g.Reinforcements))
	return nil
}

// AreConnected reports whether a player has a path of their own
// territories between two points on the board.
func (e *Engine) AreConnected(g *Game, playerID string, from, to TerritoryName) bool {
	return e.board.Connected(from, to, func(t TerritoryName) bool {
		terr := g.Territories[t]
		return terr != nil && terr.Owner == playerID
	})
}

// IsGameOver reports whether exactly one active player remains.
func (e *Engine) IsGameOver(g *Game) bool {
	return len(g.ActivePlayers()) == 1
}

// Winner returns the last active player, or nil while the match is
// still contested.
func (e *Engine) Winner(g *Game) *Player {
	if active := g.ActivePlayers(); len(active) == 1 {
		return active[0]
	}
	return nil
}

func (e *Engine) territory(g *Game, name TerritoryName) (*Territory, error) {
	t, ok := g.Territories[name]
	if !ok {
		return nil, fmt.Errorf("unknown territory: %s", name)
	}
	return t, nil
}
