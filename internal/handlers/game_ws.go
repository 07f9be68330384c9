// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wizard-cards/wizard-service/internal/game"
	"github.com/wizard-cards/wizard-service/internal/models"
)

// GameWSHandler upgrades the connection, establishes the player's identity,
// registers them, and runs the read loop until the channel drops. The read
// loop is the only writer into the engine for this connection, so actions
// from one channel are processed in arrival order, and the game mutex makes
// each mutate-then-broadcast cycle global across channels.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Identity must be settled before the upgrade so the session cookie
		// can still be set on the handshake response.
		playerID, err := EnsureEphemeralPlayer(w, r)
		if err != nil {
			logger.Warnf("ws auth failed: %v", err)
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"wizard"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("ws accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler exit")

		logger.Infof("player %s connected from %s", playerID, r.RemoteAddr)

		player := &models.Player{
			ID:        playerID,
			Name:      r.URL.Query().Get("name"),
			Connected: true,
			Conn:      c,
		}
		gs.Register(player)

		// A player joining while a game they are seated in is running gets
		// an immediate state sync; everyone else just saw the lobby push.
		if g := gs.Game(); g != nil {
			view := g.SyncState(playerID)
			writeJSON(c, logger, view)
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readGameMessages(ctx, c, gs, playerID, logger)

		logger.Infof("player %s read loop exited", playerID)
		gs.Deregister(playerID)
	}
}

// readGameMessages decodes inbound frames and routes them. Malformed or
// illegal messages are rejected with an error frame and never mutate state.
func readGameMessages(ctx context.Context, c *websocket.Conn, gs *GameServer, playerID uuid.UUID, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("ws closed normally for player %s", playerID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("ws context canceled for player %s", playerID)
			} else {
				logger.Warnf("ws read error for player %s: %v", playerID, err)
			}
			return
		}
		if msgType != websocket.MessageText {
			logger.Warnf("ignoring non-text frame from player %s", playerID)
			continue
		}

		var action models.GameAction
		if err := json.Unmarshal(data, &action); err != nil {
			logger.Warnf("invalid JSON from player %s: %v", playerID, err)
			sendWsError(c, logger, "invalid JSON")
			continue
		}

		logger.Debugf("action %q from player %s", action.Action, playerID)

		switch action.Action {
		case "ready":
			if err := gs.HandleReady(playerID); err != nil {
				sendWsError(c, logger, err.Error())
			}

		case "bid", "play_card":
			if action.Action == "play_card" && (action.Card == nil || !action.Card.Valid()) {
				sendWsError(c, logger, "malformed card payload")
				continue
			}
			g := gs.Game()
			if g == nil {
				sendWsError(c, logger, "no game in progress")
				continue
			}
			g.Mu.Lock()
			err := g.HandleAction(playerID, action)
			g.Mu.Unlock()
			if err != nil {
				sendWsError(c, logger, err.Error())
			}

		case "ping":
			writeJSON(c, logger, map[string]string{"type": "pong"})

		default:
			sendWsError(c, logger, fmt.Sprintf("unknown action: %s", action.Action))
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// broadcastToPlayerFunc returns the engine's per-recipient push. It is
// invoked with the game lock held, so it only captures the target channel
// and writes asynchronously.
func broadcastToPlayerFunc(g *game.WizardGame, logger *logrus.Logger) func(playerID uuid.UUID, view game.PlayerView) {
	return func(playerID uuid.UUID, view game.PlayerView) {
		var conn *websocket.Conn
		for _, p := range g.Players {
			if p.ID == playerID {
				if p.Connected {
					conn = p.Conn
				}
				break
			}
		}
		if conn == nil {
			return
		}
		go writeJSON(conn, logger, view)
	}
}

// writeJSON marshals and sends one frame with a write timeout. Write
// failures are left to the read loop to surface as disconnects.
func writeJSON(c *websocket.Conn, logger *logrus.Logger, message interface{}) {
	if c == nil {
		return
	}
	msgBytes, err := json.Marshal(message)
	if err != nil {
		logger.Errorf("marshal ws message: %v", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Write(writeCtx, websocket.MessageText, msgBytes); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway &&
			!errors.Is(err, context.DeadlineExceeded) {
			logger.Warnf("ws write: %v", err)
		}
	}
}

// sendWsError sends a structured rejection for one bad message.
func sendWsError(c *websocket.Conn, logger *logrus.Logger, errorMsg string) {
	writeJSON(c, logger, map[string]interface{}{
		"type":    "error",
		"message": errorMsg,
	})
}
