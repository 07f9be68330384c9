// internal/handlers/game_server_test.go
package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wizard-cards/wizard-service/internal/game"
	"github.com/wizard-cards/wizard-service/internal/models"
)

func registerTestPlayer(gs *GameServer, name string) *models.Player {
	p := &models.Player{
		ID:        uuid.New(),
		Name:      name,
		Connected: true,
	}
	gs.Register(p)
	return p
}

func TestReadyStartsGameWhenAllReady(t *testing.T) {
	gs := NewGameServer(nil)
	p1 := registerTestPlayer(gs, "alice")
	p2 := registerTestPlayer(gs, "bob")

	require.NoError(t, gs.HandleReady(p1.ID))
	assert.Nil(t, gs.Game(), "one ready player of two is not enough")

	require.NoError(t, gs.HandleReady(p2.ID))
	g := gs.Game()
	require.NotNil(t, g)

	g.Mu.Lock()
	defer g.Mu.Unlock()
	assert.Equal(t, game.PhaseBidding, g.Phase)
	assert.Equal(t, 1, g.RoundNumber)
	require.Len(t, g.Players, 2)
	assert.Equal(t, p1.ID, g.Players[0].ID, "seats follow registration order")
	assert.Equal(t, p2.ID, g.Players[1].ID)
}

func TestReadyAloneDoesNotStart(t *testing.T) {
	gs := NewGameServer(nil)
	p1 := registerTestPlayer(gs, "solo")

	require.NoError(t, gs.HandleReady(p1.ID))
	assert.Nil(t, gs.Game())
}

func TestReadyRejectedDuringActiveGame(t *testing.T) {
	gs := NewGameServer(nil)
	p1 := registerTestPlayer(gs, "alice")
	p2 := registerTestPlayer(gs, "bob")
	require.NoError(t, gs.HandleReady(p1.ID))
	require.NoError(t, gs.HandleReady(p2.ID))
	require.NotNil(t, gs.Game())

	err := gs.HandleReady(p1.ID)
	assert.ErrorIs(t, err, game.ErrWrongPhase)
}

func TestReadyUnknownPlayer(t *testing.T) {
	gs := NewGameServer(nil)
	registerTestPlayer(gs, "alice")

	err := gs.HandleReady(uuid.New())
	assert.ErrorIs(t, err, game.ErrNotSeated)
}

func TestSeatedPlayerLeavingDiscardsGame(t *testing.T) {
	gs := NewGameServer(nil)
	p1 := registerTestPlayer(gs, "alice")
	p2 := registerTestPlayer(gs, "bob")
	require.NoError(t, gs.HandleReady(p1.ID))
	require.NoError(t, gs.HandleReady(p2.ID))
	require.NotNil(t, gs.Game())

	gs.Deregister(p1.ID)

	assert.Nil(t, gs.Game(), "a seated player leaving discards the game")
	assert.False(t, p2.Ready, "remaining players must ready up again")
	assert.Zero(t, p2.Score)
	assert.Empty(t, p2.Hand)
}

func TestDiscardedGameRejectsStaleHandle(t *testing.T) {
	gs := NewGameServer(nil)
	p1 := registerTestPlayer(gs, "alice")
	p2 := registerTestPlayer(gs, "bob")
	require.NoError(t, gs.HandleReady(p1.ID))
	require.NoError(t, gs.HandleReady(p2.ID))

	// A read loop holds the game pointer across the discard.
	g := gs.Game()
	require.NotNil(t, g)

	gs.Deregister(p2.ID)
	require.Nil(t, gs.Game())

	bid := 0
	g.Mu.Lock()
	err := g.HandleAction(p1.ID, models.GameAction{Action: "bid", NTricks: &bid})
	g.Mu.Unlock()
	assert.ErrorIs(t, err, game.ErrWrongPhase, "discarded game must reject actions")
	assert.Nil(t, p1.Bid, "lobby player state must not change through a dead game")
	assert.Empty(t, p1.Hand)
	assert.Equal(t, game.PhaseGameEnd, g.Phase)
}

func TestLastPlayerLeavingEmptiesRegistry(t *testing.T) {
	gs := NewGameServer(nil)
	p1 := registerTestPlayer(gs, "alice")
	p2 := registerTestPlayer(gs, "bob")
	require.NoError(t, gs.HandleReady(p1.ID))
	require.NoError(t, gs.HandleReady(p2.ID))

	gs.Deregister(p1.ID)
	gs.Deregister(p2.ID)

	gs.Mu.Lock()
	assert.Empty(t, gs.players)
	assert.Empty(t, gs.order)
	assert.Nil(t, gs.game)
	gs.Mu.Unlock()
}

func TestFreshGameAfterDiscard(t *testing.T) {
	gs := NewGameServer(nil)
	p1 := registerTestPlayer(gs, "alice")
	p2 := registerTestPlayer(gs, "bob")
	require.NoError(t, gs.HandleReady(p1.ID))
	require.NoError(t, gs.HandleReady(p2.ID))
	first := gs.Game()
	require.NotNil(t, first)

	gs.Deregister(p2.ID)
	require.Nil(t, gs.Game())

	p3 := registerTestPlayer(gs, "carol")
	require.NoError(t, gs.HandleReady(p1.ID))
	require.NoError(t, gs.HandleReady(p3.ID))
	second := gs.Game()
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)

	second.Mu.Lock()
	defer second.Mu.Unlock()
	require.Len(t, second.Players, 2)
	assert.Equal(t, p1.ID, second.Players[0].ID)
	assert.Equal(t, p3.ID, second.Players[1].ID)
}

func TestReRegisterKeepsIdentity(t *testing.T) {
	gs := NewGameServer(nil)
	p1 := registerTestPlayer(gs, "alice")
	p1.Score = 40

	gs.Register(&models.Player{ID: p1.ID, Name: "alice", Connected: true})

	gs.Mu.Lock()
	defer gs.Mu.Unlock()
	require.Len(t, gs.players, 1)
	assert.Equal(t, 40, gs.players[p1.ID].Score, "re-registration swaps the channel, not the player")
	assert.Len(t, gs.order, 1)
}

func TestLobbyStateSnapshot(t *testing.T) {
	gs := NewGameServer(nil)
	p1 := registerTestPlayer(gs, "alice")
	p2 := registerTestPlayer(gs, "bob")
	require.NoError(t, gs.HandleReady(p1.ID))

	gs.Mu.Lock()
	state := gs.lobbyStateLocked()
	gs.Mu.Unlock()

	assert.Equal(t, "lobby_state", state.Type)
	require.Len(t, state.Players, 2)
	assert.Equal(t, p1.ID, state.Players[0].PlayerID)
	assert.True(t, state.Players[0].Ready)
	assert.Equal(t, p2.ID, state.Players[1].PlayerID)
	assert.False(t, state.Players[1].Ready)
}
