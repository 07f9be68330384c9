// internal/handlers/game_server.go
package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wizard-cards/wizard-service/internal/database"
	"github.com/wizard-cards/wizard-service/internal/game"
	"github.com/wizard-cards/wizard-service/internal/models"
)

// GameServer owns the session registry and the single active game. The
// registry is game-independent: players register on connect, before any
// game exists, and seats are fixed from registration order when all
// registered players are ready.
type GameServer struct {
	Mu     sync.Mutex
	logger *logrus.Logger

	players map[uuid.UUID]*models.Player
	order   []uuid.UUID

	game *game.WizardGame
}

func NewGameServer(logger *logrus.Logger) *GameServer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &GameServer{
		logger:  logger,
		players: make(map[uuid.UUID]*models.Player),
	}
}

// Register adds a connection identity to the registry, creating a fresh
// player. A repeat registration under a live identity just swaps the
// channel; standings are not recreated mid-session.
func (gs *GameServer) Register(p *models.Player) {
	gs.Mu.Lock()
	defer gs.Mu.Unlock()

	if existing, ok := gs.players[p.ID]; ok {
		existing.Conn = p.Conn
		existing.Connected = true
		gs.logger.Infof("player %s re-registered", p.ID)
		gs.broadcastLobbyLocked()
		return
	}
	gs.players[p.ID] = p
	gs.order = append(gs.order, p.ID)
	gs.logger.Infof("player %s registered (%d connected)", p.ID, len(gs.players))
	gs.broadcastLobbyLocked()
}

// Deregister removes a connection identity. A seated player leaving
// discards the active game; the last player leaving always does.
func (gs *GameServer) Deregister(playerID uuid.UUID) {
	gs.Mu.Lock()
	defer gs.Mu.Unlock()

	p, ok := gs.players[playerID]
	if !ok {
		return
	}
	p.Connected = false
	p.Conn = nil
	delete(gs.players, playerID)
	for i, id := range gs.order {
		if id == playerID {
			gs.order = append(gs.order[:i], gs.order[i+1:]...)
			break
		}
	}
	gs.logger.Infof("player %s deregistered (%d remaining)", playerID, len(gs.players))

	if gs.game != nil && gs.gameHasSeatLocked(playerID) {
		gs.logger.Infof("seated player %s left, discarding game %s", playerID, gs.game.ID)
		gs.discardGameLocked()
	}
	if len(gs.players) == 0 {
		gs.game = nil
		return
	}
	gs.broadcastLobbyLocked()
}

// Game returns the active game, or nil while the table is in the lobby.
func (gs *GameServer) Game() *game.WizardGame {
	gs.Mu.Lock()
	defer gs.Mu.Unlock()
	return gs.game
}

// HandleReady marks a player ready and starts a game once every registered
// player is.
func (gs *GameServer) HandleReady(playerID uuid.UUID) error {
	gs.Mu.Lock()
	defer gs.Mu.Unlock()

	if gs.game != nil {
		return game.ErrWrongPhase
	}
	p, ok := gs.players[playerID]
	if !ok {
		return game.ErrNotSeated
	}
	p.Ready = true

	if len(gs.players) < 2 || !gs.allReadyLocked() {
		gs.broadcastLobbyLocked()
		return nil
	}

	seats := make([]*models.Player, 0, len(gs.order))
	for _, id := range gs.order {
		seats = append(seats, gs.players[id])
	}
	g := game.NewWizardGame(gs.logger, seats)
	g.BroadcastToPlayerFn = broadcastToPlayerFunc(g, gs.logger)
	g.OnGameEnd = gs.onGameEnd
	gs.game = g

	gs.logger.Infof("all %d players ready, starting game %s", len(seats), g.ID)

	g.Mu.Lock()
	err := g.Begin()
	g.Mu.Unlock()
	if err != nil {
		gs.game = nil
		return err
	}
	return nil
}

// onGameEnd records final standings and returns the table to the lobby.
// Called with the game lock held, so all follow-up work is asynchronous.
func (gs *GameServer) onGameEnd(gameID uuid.UUID, winner uuid.UUID, scores map[uuid.UUID]int) {
	gs.logger.Infof("game %s ended, winner %s", gameID, winner)

	if database.Enabled() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := database.RecordGameResults(ctx, gameID, winner, scores); err != nil {
				gs.logger.Warnf("game %s: record results: %v", gameID, err)
			}
		}()
	}

	go func() {
		gs.Mu.Lock()
		defer gs.Mu.Unlock()
		if gs.game != nil && gs.game.ID == gameID {
			gs.discardGameLocked()
			gs.broadcastLobbyLocked()
		}
	}()
}

// discardGameLocked drops the active game and clears ready flags so a
// subsequent all-ready starts a fresh one. Assumes gs.Mu is held. The game
// is terminated under its own lock first so stale handles held by read
// loops reject every subsequent action; only then is it safe to reset the
// players here.
func (gs *GameServer) discardGameLocked() {
	if gs.game != nil {
		gs.game.Discard()
	}
	gs.game = nil
	for _, p := range gs.players {
		p.Ready = false
		p.ResetRound()
		p.Score = 0
	}
}

func (gs *GameServer) allReadyLocked() bool {
	for _, p := range gs.players {
		if !p.Ready {
			return false
		}
	}
	return true
}

func (gs *GameServer) gameHasSeatLocked(playerID uuid.UUID) bool {
	for _, p := range gs.game.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// LobbyState is the broadcast pushed while no game is active.
type LobbyState struct {
	Type    string      `json:"type"`
	Players []LobbySeat `json:"players"`
}

type LobbySeat struct {
	PlayerID  uuid.UUID `json:"player_id"`
	Name      string    `json:"name,omitempty"`
	Ready     bool      `json:"ready"`
	Connected bool      `json:"connected"`
}

// lobbyStateLocked builds the current lobby snapshot. Assumes gs.Mu is held.
func (gs *GameServer) lobbyStateLocked() LobbyState {
	state := LobbyState{Type: "lobby_state"}
	for _, id := range gs.order {
		p := gs.players[id]
		state.Players = append(state.Players, LobbySeat{
			PlayerID:  p.ID,
			Name:      p.Name,
			Ready:     p.Ready,
			Connected: p.Connected,
		})
	}
	return state
}

// broadcastLobbyLocked pushes the lobby snapshot to every registered
// connection. Assumes gs.Mu is held; writes happen asynchronously.
func (gs *GameServer) broadcastLobbyLocked() {
	state := gs.lobbyStateLocked()
	for _, id := range gs.order {
		p := gs.players[id]
		if p.Conn == nil {
			continue
		}
		go writeJSON(p.Conn, gs.logger, state)
	}
}
