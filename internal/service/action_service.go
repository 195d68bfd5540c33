package service

import (
	"context"

	"github.com/jvera71/MiniRisk/internal/model"
	"github.com/jvera71/MiniRisk/pkg/risk"
)

// ActionResult carries the state broadcast after a successful action,
// plus the attack outcome when the action was an attack.
type ActionResult struct {
	View   *model.MatchView
	Attack *risk.AttackOutcome
}

// PlaceInitialArmies places setup-phase armies for the acting player.
func (s *MatchService) PlaceInitialArmies(ctx context.Context, matchID, playerID string, territory risk.TerritoryName, count int) (*ActionResult, error) {
	return s.action(ctx, matchID, func(g *risk.Game) error {
		return s.engine.PlaceInitialArmies(g, playerID, territory, count)
	})
}

// PlaceReinforcements spends part of the turn's reinforcement grant.
func (s *MatchService) PlaceReinforcements(ctx context.Context, matchID, playerID string, territory risk.TerritoryName, count int) (*ActionResult, error) {
	return s.action(ctx, matchID, func(g *risk.Game) error {
		return s.engine.PlaceReinforcements(g, playerID, territory, count)
	})
}

// ConfirmReinforcements closes the reinforcement phase.
func (s *MatchService) ConfirmReinforcements(ctx context.Context, matchID, playerID string) (*ActionResult, error) {
	return s.action(ctx, matchID, func(g *risk.Game) error {
		return s.engine.ConfirmReinforcements(g, playerID)
	})
}

// TradeCards exchanges three cards for armies.
func (s *MatchService) TradeCards(ctx context.Context, matchID, playerID string, cardIDs []string) (*ActionResult, error) {
	return s.action(ctx, matchID, func(g *risk.Game) error {
		_, err := s.engine.TradeCards(g, playerID, cardIDs)
		return err
	})
}

// Attack resolves one combat roll. The result includes the dice so the
// transport layer can broadcast them.
func (s *MatchService) Attack(ctx context.Context, matchID, playerID string, from, to risk.TerritoryName, diceCount int) (*ActionResult, error) {
	var outcome *risk.AttackOutcome
	res, err := s.action(ctx, matchID, func(g *risk.Game) error {
		var err error
		outcome, err = s.engine.Attack(g, playerID, from, to, diceCount)
		return err
	})
	if err != nil {
		return nil, err
	}
	res.Attack = outcome
	return res, nil
}

// MoveArmiesAfterConquest performs the mandatory post-conquest move.
func (s *MatchService) MoveArmiesAfterConquest(ctx context.Context, matchID, playerID string, from, to risk.TerritoryName, count int) (*ActionResult, error) {
	return s.action(ctx, matchID, func(g *risk.Game) error {
		return s.engine.MoveArmiesAfterConquest(g, playerID, from, to, count)
	})
}

// EndAttackPhase moves the acting player into fortification.
func (s *MatchService) EndAttackPhase(ctx context.Context, matchID, playerID string) (*ActionResult, error) {
	return s.action(ctx, matchID, func(g *risk.Game) error {
		return s.engine.EndAttackPhase(g, playerID)
	})
}

// Fortify moves armies along an owned path and ends the turn.
func (s *MatchService) Fortify(ctx context.Context, matchID, playerID string, from, to risk.TerritoryName, count int) (*ActionResult, error) {
	return s.action(ctx, matchID, func(g *risk.Game) error {
		return s.engine.Fortify(g, playerID, from, to, count)
	})
}

// SkipFortification ends the turn without moving armies.
func (s *MatchService) SkipFortification(ctx context.Context, matchID, playerID string) (*ActionResult, error) {
	return s.action(ctx, matchID, func(g *risk.Game) error {
		return s.engine.SkipFortification(g, playerID)
	})
}

// EndTurn concludes the acting player's turn from the attack phase.
func (s *MatchService) EndTurn(ctx context.Context, matchID, playerID string) (*ActionResult, error) {
	return s.action(ctx, matchID, func(g *risk.Game) error {
		return s.engine.EndTurn(g, playerID)
	})
}

// action runs one engine call inside the match's exclusive section.
// On success it snapshots the new state; a match that just finished is
// archived and dropped from the registry before the section is left.
func (s *MatchService) action(ctx context.Context, matchID string, fn func(*risk.Game) error) (*ActionResult, error) {
	var res *ActionResult
	err := s.withMatch(ctx, matchID, func(g *risk.Game) error {
		if err := fn(g); err != nil {
			return err
		}
		res = &ActionResult{View: model.FromGame(g, s.engine.Board())}
		if g.Status == risk.StatusFinished && g.Pending == nil {
			s.finish(ctx, g)
		} else {
			s.snapshot(ctx, g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
