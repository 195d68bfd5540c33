package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jvera71/MiniRisk/internal/coordinator"
	"github.com/jvera71/MiniRisk/internal/model"
	"github.com/jvera71/MiniRisk/internal/repository"
	"github.com/jvera71/MiniRisk/pkg/risk"
)

var (
	ErrMatchNotFound   = errors.New("match not found")
	ErrMatchNotWaiting = errors.New("match is not in waiting status")
	ErrMatchStarted    = errors.New("match has already started")
	ErrMatchFull       = errors.New("match already has 6 players")
	ErrNotEnough       = errors.New("need at least 2 players to start")
	ErrNotCreator      = errors.New("only the creator can start the match")
	ErrNotInMatch      = errors.New("you are not in this match")
	ErrNameTaken       = errors.New("a player with that name already joined")
)

// MatchService owns the match lifecycle: lobby, turn actions, snapshots
// to the cache, and archival of finished matches. Every read or write
// of a live match runs inside the coordinator's exclusive section.
type MatchService struct {
	coord   *coordinator.Coordinator
	engine  *risk.Engine
	cache   repository.StateCache
	archive repository.MatchArchive
}

// NewMatchService creates a MatchService. cache and archive may be nil;
// snapshots and archival are then skipped.
func NewMatchService(coord *coordinator.Coordinator, engine *risk.Engine, cache repository.StateCache, archive repository.MatchArchive) *MatchService {
	return &MatchService{coord: coord, engine: engine, cache: cache, archive: archive}
}

// CreateMatch opens a new lobby with the creator as its first player.
// Returns the match view and the creator's player id.
func (s *MatchService) CreateMatch(ctx context.Context, name, playerName string) (*model.MatchView, string, error) {
	playerID := uuid.NewString()
	g := risk.NewGame(name, playerID)
	g.Players = append(g.Players, &risk.Player{
		ID:        playerID,
		Name:      playerName,
		Color:     risk.PlayerColors[0],
		Connected: true,
	})
	g.AddEvent(risk.EventPlayerJoined, playerID, fmt.Sprintf("%s created the match.", playerName))

	s.coord.Add(g)
	view := model.FromGame(g, s.engine.Board())
	s.snapshot(ctx, g)
	return view, playerID, nil
}

// JoinMatch adds a player to a waiting match and returns the new
// player's id alongside the updated view.
func (s *MatchService) JoinMatch(ctx context.Context, matchID, playerName string) (*model.MatchView, string, error) {
	var view *model.MatchView
	playerID := uuid.NewString()
	err := s.withMatch(ctx, matchID, func(g *risk.Game) error {
		if g.Status != risk.StatusWaiting {
			return ErrMatchStarted
		}
		if len(g.Players) >= 6 {
			return ErrMatchFull
		}
		for _, p := range g.Players {
			if p.Name == playerName {
				return ErrNameTaken
			}
		}
		g.Players = append(g.Players, &risk.Player{
			ID:        playerID,
			Name:      playerName,
			Color:     nextColor(g),
			Connected: true,
		})
		g.AddEvent(risk.EventPlayerJoined, playerID, fmt.Sprintf("%s joined the match.", playerName))
		view = model.FromGame(g, s.engine.Board())
		s.snapshot(ctx, g)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return view, playerID, nil
}

// LeaveMatch removes a player from a waiting match, or marks them
// disconnected once play has started. An emptied lobby is dropped.
func (s *MatchService) LeaveMatch(ctx context.Context, matchID, playerID string) (*model.MatchView, error) {
	var view *model.MatchView
	empty := false
	err := s.withMatch(ctx, matchID, func(g *risk.Game) error {
		p := g.PlayerByID(playerID)
		if p == nil {
			return ErrNotInMatch
		}
		if g.Status == risk.StatusWaiting {
			for i, q := range g.Players {
				if q.ID == playerID {
					g.Players = append(g.Players[:i], g.Players[i+1:]...)
					break
				}
			}
			if len(g.Players) == 0 {
				empty = true
			}
		} else {
			p.Connected = false
		}
		g.AddEvent(risk.EventPlayerLeft, playerID, fmt.Sprintf("%s left the match.", p.Name))
		view = model.FromGame(g, s.engine.Board())
		if empty {
			s.coord.Remove(g.ID)
			s.deleteSnapshot(ctx, g.ID)
		} else {
			s.snapshot(ctx, g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// RejoinMatch marks a returning player connected again and hands back
// the current view so the client can catch up.
func (s *MatchService) RejoinMatch(ctx context.Context, matchID, playerID string) (*model.MatchView, error) {
	var view *model.MatchView
	err := s.withMatch(ctx, matchID, func(g *risk.Game) error {
		p := g.PlayerByID(playerID)
		if p == nil {
			return ErrNotInMatch
		}
		p.Connected = true
		g.AddEvent(risk.EventPlayerReconnected, playerID, fmt.Sprintf("%s reconnected.", p.Name))
		view = model.FromGame(g, s.engine.Board())
		s.snapshot(ctx, g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// StartMatch initializes the board and begins setup. Creator-only.
func (s *MatchService) StartMatch(ctx context.Context, matchID, playerID string) (*model.MatchView, error) {
	var view *model.MatchView
	err := s.withMatch(ctx, matchID, func(g *risk.Game) error {
		if g.Status != risk.StatusWaiting {
			return ErrMatchStarted
		}
		if g.CreatorID != playerID {
			return ErrNotCreator
		}
		if len(g.Players) < 2 {
			return ErrNotEnough
		}
		if err := s.engine.Initialize(g); err != nil {
			return err
		}
		view = model.FromGame(g, s.engine.Board())
		s.snapshot(ctx, g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListOpenMatches returns the live matches still waiting for players.
func (s *MatchService) ListOpenMatches(ctx context.Context) ([]model.MatchSummary, error) {
	var open []model.MatchSummary
	for _, id := range s.coord.IDs() {
		err := s.withMatch(ctx, id, func(g *risk.Game) error {
			if g.Status != risk.StatusWaiting {
				return nil
			}
			open = append(open, model.MatchSummary{
				ID:          g.ID,
				Name:        g.Name,
				CreatorID:   g.CreatorID,
				Status:      string(g.Status),
				PlayerCount: len(g.Players),
				CreatedAt:   g.CreatedAt,
			})
			return nil
		})
		if err != nil && !errors.Is(err, coordinator.ErrMatchNotFound) {
			return nil, err
		}
	}
	return open, nil
}

// ListFinishedMatches returns recently archived matches.
func (s *MatchService) ListFinishedMatches(ctx context.Context, limit int) ([]model.MatchRecord, error) {
	if s.archive == nil {
		return nil, nil
	}
	return s.archive.ListRecent(ctx, limit)
}

// MatchState returns the current public view of a live match.
func (s *MatchService) MatchState(ctx context.Context, matchID string) (*model.MatchView, error) {
	var view *model.MatchView
	err := s.withMatch(ctx, matchID, func(g *risk.Game) error {
		view = model.FromGame(g, s.engine.Board())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Hand returns a player's own cards. Other players only ever see the
// count through the view.
func (s *MatchService) Hand(ctx context.Context, matchID, playerID string) ([]risk.Card, error) {
	var hand []risk.Card
	err := s.withMatch(ctx, matchID, func(g *risk.Game) error {
		p := g.PlayerByID(playerID)
		if p == nil {
			return ErrNotInMatch
		}
		hand = append([]risk.Card(nil), p.Cards...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hand, nil
}

// nextColor picks the first color not already taken in the lobby.
func nextColor(g *risk.Game) risk.PlayerColor {
	taken := make(map[risk.PlayerColor]bool, len(g.Players))
	for _, p := range g.Players {
		taken[p.Color] = true
	}
	for _, c := range risk.PlayerColors {
		if !taken[c] {
			return c
		}
	}
	return risk.PlayerColors[0]
}

// withMatch maps the coordinator's not-found onto the service sentinel.
func (s *MatchService) withMatch(ctx context.Context, matchID string, fn func(*risk.Game) error) error {
	err := s.coord.WithMatch(ctx, matchID, fn)
	if errors.Is(err, coordinator.ErrMatchNotFound) {
		return ErrMatchNotFound
	}
	return err
}

// snapshot writes the latest view to the cache. Failures are logged and
// swallowed: the in-memory registry stays authoritative.
func (s *MatchService) snapshot(ctx context.Context, g *risk.Game) {
	if s.cache == nil {
		return
	}
	view := model.FromGame(g, s.engine.Board())
	data, err := json.Marshal(view)
	if err != nil {
		log.Error().Err(err).Str("match_id", g.ID).Msg("marshal match snapshot")
		return
	}
	if err := s.cache.SetMatchState(ctx, g.ID, data); err != nil {
		log.Warn().Err(err).Str("match_id", g.ID).Msg("write match snapshot")
	}
}

func (s *MatchService) deleteSnapshot(ctx context.Context, matchID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteMatchState(ctx, matchID); err != nil {
		log.Warn().Err(err).Str("match_id", matchID).Msg("delete match snapshot")
	}
}

// finish archives a finished match, drops its snapshot, and removes it
// from the registry. Archival failures are logged; the match still
// leaves the registry so the id cannot accept further actions.
func (s *MatchService) finish(ctx context.Context, g *risk.Game) {
	winnerID := ""
	if w := s.engine.Winner(g); w != nil {
		winnerID = w.ID
	}
	if s.archive != nil {
		rec, err := model.RecordFromGame(g, winnerID)
		if err != nil {
			log.Error().Err(err).Str("match_id", g.ID).Msg("build match record")
		} else if err := s.archive.InsertFinished(ctx, rec); err != nil {
			log.Error().Err(err).Str("match_id", g.ID).Msg("archive finished match")
		}
	}
	s.deleteSnapshot(ctx, g.ID)
	s.coord.Remove(g.ID)
	log.Info().Str("match_id", g.ID).Str("winner_id", winnerID).Int("turns", g.Turn).Msg("match finished")
}
