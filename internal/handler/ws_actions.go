package handler

import (
	"context"
	"time"

	"github.com/jvera71/MiniRisk/internal/service"
	"github.com/jvera71/MiniRisk/pkg/risk"
)

// actionTimeout bounds one client action end to end, including the wait
// for the match's exclusive section.
const actionTimeout = 10 * time.Second

// dispatch routes one client message. Game actions broadcast the new
// match state to the match channel; failures go back to the sender only.
func (h *WSHandler) dispatch(c *WSConn, msg ClientMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	switch msg.Action {
	case "subscribe":
		if msg.MatchID != "" {
			h.hub.Subscribe(c, msg.MatchID)
		}
	case "unsubscribe":
		if msg.MatchID != "" {
			h.hub.Unsubscribe(c, msg.MatchID)
		}

	case "join":
		view, playerID, err := h.matchSvc.JoinMatch(ctx, msg.MatchID, msg.Name)
		if err != nil {
			h.sendError(c, msg, err)
			return
		}
		h.hub.SetPlayer(c, playerID)
		h.hub.Subscribe(c, msg.MatchID)
		h.hub.SendToConn(c, WSEvent{Type: "joined", MatchID: msg.MatchID, Data: map[string]any{"player_id": playerID}})
		h.hub.BroadcastToMatch(msg.MatchID, WSEvent{Type: EventPlayerJoined, MatchID: msg.MatchID, Data: view})

	case "leave":
		view, err := h.matchSvc.LeaveMatch(ctx, msg.MatchID, msg.PlayerID)
		if err != nil {
			h.sendError(c, msg, err)
			return
		}
		h.hub.Unsubscribe(c, msg.MatchID)
		h.hub.BroadcastToMatch(msg.MatchID, WSEvent{Type: EventPlayerLeft, MatchID: msg.MatchID, Data: view})

	case "rejoin":
		view, err := h.matchSvc.RejoinMatch(ctx, msg.MatchID, msg.PlayerID)
		if err != nil {
			h.sendError(c, msg, err)
			return
		}
		h.hub.SetPlayer(c, msg.PlayerID)
		h.hub.Subscribe(c, msg.MatchID)
		h.hub.SendToConn(c, WSEvent{Type: EventMatchState, MatchID: msg.MatchID, Data: view})
		if hand, err := h.matchSvc.Hand(ctx, msg.MatchID, msg.PlayerID); err == nil {
			h.hub.BroadcastToPlayer(msg.PlayerID, WSEvent{Type: EventHand, MatchID: msg.MatchID, Data: hand})
		}
		h.hub.BroadcastToMatch(msg.MatchID, WSEvent{Type: EventPlayerReconnected, MatchID: msg.MatchID, Data: view})

	case "start":
		view, err := h.matchSvc.StartMatch(ctx, msg.MatchID, msg.PlayerID)
		if err != nil {
			h.sendError(c, msg, err)
			return
		}
		h.hub.BroadcastToMatch(msg.MatchID, WSEvent{Type: EventMatchState, MatchID: msg.MatchID, Data: view})

	case "state":
		view, err := h.matchSvc.MatchState(ctx, msg.MatchID)
		if err != nil {
			h.sendError(c, msg, err)
			return
		}
		h.hub.SendToConn(c, WSEvent{Type: EventMatchState, MatchID: msg.MatchID, Data: view})

	case "hand":
		hand, err := h.matchSvc.Hand(ctx, msg.MatchID, msg.PlayerID)
		if err != nil {
			h.sendError(c, msg, err)
			return
		}
		h.hub.SendToConn(c, WSEvent{Type: EventHand, MatchID: msg.MatchID, Data: hand})

	case "chat":
		// Chat is broadcast-only; nothing is stored.
		h.hub.BroadcastToMatch(msg.MatchID, WSEvent{Type: EventChat, MatchID: msg.MatchID, Data: map[string]any{
			"player_id": msg.PlayerID,
			"text":      msg.Text,
			"sent_at":   time.Now().UTC(),
		}})

	case "place_initial_armies":
		h.act(c, msg, func() (*service.ActionResult, error) {
			return h.matchSvc.PlaceInitialArmies(ctx, msg.MatchID, msg.PlayerID, risk.TerritoryName(msg.Territory), msg.Count)
		})
	case "place_reinforcements":
		h.act(c, msg, func() (*service.ActionResult, error) {
			return h.matchSvc.PlaceReinforcements(ctx, msg.MatchID, msg.PlayerID, risk.TerritoryName(msg.Territory), msg.Count)
		})
	case "confirm_reinforcements":
		h.act(c, msg, func() (*service.ActionResult, error) {
			return h.matchSvc.ConfirmReinforcements(ctx, msg.MatchID, msg.PlayerID)
		})
	case "trade_cards":
		h.act(c, msg, func() (*service.ActionResult, error) {
			return h.matchSvc.TradeCards(ctx, msg.MatchID, msg.PlayerID, msg.CardIDs)
		})
	case "attack":
		h.act(c, msg, func() (*service.ActionResult, error) {
			return h.matchSvc.Attack(ctx, msg.MatchID, msg.PlayerID, risk.TerritoryName(msg.From), risk.TerritoryName(msg.To), msg.Dice)
		})
	case "move_armies":
		h.act(c, msg, func() (*service.ActionResult, error) {
			return h.matchSvc.MoveArmiesAfterConquest(ctx, msg.MatchID, msg.PlayerID, risk.TerritoryName(msg.From), risk.TerritoryName(msg.To), msg.Count)
		})
	case "end_attack":
		h.act(c, msg, func() (*service.ActionResult, error) {
			return h.matchSvc.EndAttackPhase(ctx, msg.MatchID, msg.PlayerID)
		})
	case "fortify":
		h.act(c, msg, func() (*service.ActionResult, error) {
			return h.matchSvc.Fortify(ctx, msg.MatchID, msg.PlayerID, risk.TerritoryName(msg.From), risk.TerritoryName(msg.To), msg.Count)
		})
	case "skip_fortify":
		h.act(c, msg, func() (*service.ActionResult, error) {
			return h.matchSvc.SkipFortification(ctx, msg.MatchID, msg.PlayerID)
		})
	case "end_turn":
		h.act(c, msg, func() (*service.ActionResult, error) {
			return h.matchSvc.EndTurn(ctx, msg.MatchID, msg.PlayerID)
		})

	default:
		h.hub.SendToConn(c, WSEvent{Type: EventActionError, MatchID: msg.MatchID, Data: map[string]string{
			"action":  msg.Action,
			"message": "unknown action",
		}})
	}
}

// act runs one game action and broadcasts its results.
func (h *WSHandler) act(c *WSConn, msg ClientMessage, fn func() (*service.ActionResult, error)) {
	res, err := fn()
	if err != nil {
		h.sendError(c, msg, err)
		return
	}

	if msg.Action == "trade_cards" {
		h.hub.BroadcastToMatch(msg.MatchID, WSEvent{Type: EventCardsTraded, MatchID: msg.MatchID, Data: map[string]any{
			"player_id": msg.PlayerID,
		}})
	}
	if res.Attack != nil {
		h.hub.BroadcastToMatch(msg.MatchID, WSEvent{Type: EventDiceRolled, MatchID: msg.MatchID, Data: res.Attack.Combat})
		if res.Attack.PlayerEliminated {
			h.hub.BroadcastToMatch(msg.MatchID, WSEvent{Type: EventPlayerEliminated, MatchID: msg.MatchID, Data: map[string]string{
				"player_id": res.Attack.EliminatedPlayerID,
			}})
		}
	}

	h.hub.BroadcastToMatch(msg.MatchID, WSEvent{Type: EventMatchState, MatchID: msg.MatchID, Data: res.View})

	if res.View.Status == risk.StatusFinished && res.View.Pending == nil {
		winnerID := ""
		if res.Attack != nil {
			winnerID = res.Attack.WinnerID
		} else {
			for _, p := range res.View.Players {
				if !p.Eliminated && p.ID != risk.NeutralPlayerID {
					winnerID = p.ID
					break
				}
			}
		}
		h.hub.BroadcastToMatch(msg.MatchID, WSEvent{Type: EventGameOver, MatchID: msg.MatchID, Data: map[string]string{
			"winner_id": winnerID,
		}})
	}
}

// sendError reports a failed action to the sender only.
func (h *WSHandler) sendError(c *WSConn, msg ClientMessage, err error) {
	h.hub.SendToConn(c, WSEvent{Type: EventActionError, MatchID: msg.MatchID, Data: map[string]string{
		"action":  msg.Action,
		"message": err.Error(),
	}})
}
