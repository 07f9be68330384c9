// internal/game/game.go
package game

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wizard-cards/wizard-service/internal/cache"
	"github.com/wizard-cards/wizard-service/internal/models"
)

// Phase is the engine's state-machine position.
type Phase string

const (
	PhaseLobby     Phase = "lobby"
	PhaseBidding   Phase = "bidding"
	PhaseTrickPlay Phase = "trick_play"
	PhaseRoundEnd  Phase = "round_end"
	PhaseGameEnd   Phase = "game_end"
)

// PlayedCard is one card in the current trick, tagged with the seat that
// played it so order and attribution are visible to every recipient.
type PlayedCard struct {
	PlayerID uuid.UUID   `json:"player_id"`
	Card     models.Card `json:"card"`
}

// OnGameEndFunc handles a finished game: broadcasting standings, persisting
// results, and so on.
type OnGameEndFunc func(gameID uuid.UUID, winner uuid.UUID, scores map[uuid.UUID]int)

// WizardGame holds the entire authoritative state for the one active table.
// All mutations are serialized behind Mu; every method below that mutates
// state assumes the caller holds the lock, matching how the WS read loop
// drives the engine one message at a time.
type WizardGame struct {
	ID uuid.UUID

	// Players is the seat order, fixed at game start. Trick-winner offset
	// arithmetic indexes into it.
	Players []*models.Player

	Phase       Phase
	RoundNumber int

	// TrumpCard is the extra card drawn with each deal. When it is a wizard
	// or jester the round has no trump suit.
	TrumpCard *models.Card

	// Played is the current trick in play order; cleared when it resolves.
	Played []PlayedCard

	// leaderIndex is the seat that led the current trick; turnIndex is the
	// seat holding turn.
	leaderIndex int
	turnIndex   int

	actionIndex int
	rnd         *rand.Rand

	Mu sync.Mutex

	// BroadcastToPlayerFn pushes a per-recipient state view. Each recipient
	// only ever sees their own hand.
	BroadcastToPlayerFn func(playerID uuid.UUID, view PlayerView)

	OnGameEnd OnGameEndFunc

	log *logrus.Logger
}

// NewWizardGame builds a game over the given seats, in order. The players
// keep their registry identities and scores start at whatever they carry.
func NewWizardGame(logger *logrus.Logger, players []*models.Player) *WizardGame {
	id, _ := uuid.NewRandom()
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &WizardGame{
		ID:      id,
		Players: players,
		Phase:   PhaseLobby,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		log:     logger,
	}
}

// Begin leaves the lobby and deals round 1. Assumes lock is held.
func (g *WizardGame) Begin() error {
	if g.Phase != PhaseLobby {
		return ErrWrongPhase
	}
	if len(g.Players) < 2 {
		return ErrTooFewPlayers
	}
	g.RoundNumber = 1
	g.logAction(uuid.Nil, "game_start", map[string]interface{}{"players": len(g.Players)})
	g.startRound()
	return nil
}

// startRound samples a fresh deal for the current round number, draws the
// trump card, and opens bidding with the rotating leader. Assumes lock is
// held.
func (g *WizardGame) startRound() {
	n := len(g.Players)
	sample, err := SampleDeck(g.rnd, n*g.RoundNumber+1)
	if err != nil {
		// The deck cannot supply this round; the previous round was the
		// last one.
		g.log.Infof("game %s: deck exhausted at round %d, ending game", g.ID, g.RoundNumber)
		g.endGame()
		return
	}

	for i, p := range g.Players {
		p.ResetRound()
		hand := append([]models.Card(nil), sample[i*g.RoundNumber:(i+1)*g.RoundNumber]...)
		sort.Slice(hand, func(a, b int) bool { return hand[a].Less(hand[b]) })
		p.Hand = hand
	}
	trump := sample[n*g.RoundNumber]
	g.TrumpCard = &trump

	g.Played = nil
	g.leaderIndex = (g.RoundNumber - 1) % n
	g.setTurn(g.leaderIndex)
	g.Phase = PhaseBidding

	g.logAction(uuid.Nil, "round_start", map[string]interface{}{
		"round": g.RoundNumber,
		"trump": trump,
	})
	g.broadcastState()
}

// TrumpSuit resolves the trump suit for the round. A wizard or jester trump
// means no trump suit.
func (g *WizardGame) TrumpSuit() models.Suit {
	if g.TrumpCard == nil || g.TrumpCard.IsWild() {
		return ""
	}
	return g.TrumpCard.Suit
}

// SuitToFollow is the suit established by the first non-jester card of the
// current trick, or empty while no such card has been played.
func (g *WizardGame) SuitToFollow() models.Suit {
	for _, pc := range g.Played {
		if !pc.Card.IsJester() {
			return pc.Card.Suit
		}
	}
	return ""
}

// BiddingDone reports whether every seat has a bid this round.
func (g *WizardGame) BiddingDone() bool {
	for _, p := range g.Players {
		if p.Bid == nil {
			return false
		}
	}
	return true
}

// HandleAction routes one inbound player action into the engine. Assumes
// lock is held. Rule violations come back as errors and leave the state
// untouched; no broadcast happens for a rejected action.
func (g *WizardGame) HandleAction(playerID uuid.UUID, action models.GameAction) error {
	if g.seatOf(playerID) < 0 {
		return ErrNotSeated
	}
	switch action.Action {
	case "bid":
		if action.NTricks == nil {
			return ErrBidOutOfRange
		}
		return g.handleBid(playerID, *action.NTricks)
	case "play_card":
		if action.Card == nil {
			return ErrCardNotInHand
		}
		return g.handlePlayCard(playerID, *action.Card)
	default:
		return ErrWrongPhase
	}
}

// handleBid records one bid and advances the bidding turn. Assumes lock is
// held.
func (g *WizardGame) handleBid(playerID uuid.UUID, nTricks int) error {
	if g.Phase != PhaseBidding {
		return ErrWrongPhase
	}
	seat := g.seatOf(playerID)
	if seat != g.turnIndex {
		return ErrNotYourTurn
	}
	p := g.Players[seat]
	if p.Bid != nil {
		return ErrAlreadyBid
	}
	if nTricks < 0 || nTricks > g.RoundNumber {
		return ErrBidOutOfRange
	}

	bid := nTricks
	p.Bid = &bid
	g.logAction(playerID, "bid", map[string]interface{}{"n_tricks": nTricks})

	if g.BiddingDone() {
		g.Phase = PhaseTrickPlay
		g.setTurn(g.leaderIndex)
	} else {
		g.setTurn((g.turnIndex + 1) % len(g.Players))
	}
	g.broadcastState()
	return nil
}

// handlePlayCard validates and applies one card play, resolving the trick
// and the round when they complete. Assumes lock is held.
func (g *WizardGame) handlePlayCard(playerID uuid.UUID, card models.Card) error {
	if g.Phase != PhaseTrickPlay {
		return ErrWrongPhase
	}
	seat := g.seatOf(playerID)
	if seat != g.turnIndex {
		return ErrNotYourTurn
	}
	p := g.Players[seat]
	if !p.HasCard(card) {
		return ErrCardNotInHand
	}
	if !cardIn(p.LegalMoves(g.SuitToFollow()), card) {
		return ErrCardNotPlayable
	}

	p.RemoveCard(card)
	g.Played = append(g.Played, PlayedCard{PlayerID: playerID, Card: card})
	g.logAction(playerID, "play_card", map[string]interface{}{"card": card})

	if len(g.Played) == len(g.Players) {
		g.resolveTrick()
	} else {
		g.setTurn((g.turnIndex + 1) % len(g.Players))
		g.broadcastState()
	}
	return nil
}

// resolveTrick determines the winner of a completed trick, hands them the
// lead, and closes the round once hands are empty. Assumes lock is held.
func (g *WizardGame) resolveTrick() {
	cards := make([]models.Card, len(g.Played))
	for i, pc := range g.Played {
		cards[i] = pc.Card
	}
	winIdx := WinningIndex(cards, g.TrumpSuit())
	winnerSeat := (g.leaderIndex + winIdx) % len(g.Players)
	winner := g.Players[winnerSeat]
	winner.TricksWon++

	g.logAction(winner.ID, "trick_won", map[string]interface{}{
		"card":  g.Played[winIdx].Card,
		"round": g.RoundNumber,
	})

	g.Played = nil
	g.leaderIndex = winnerSeat
	g.setTurn(winnerSeat)

	if len(winner.Hand) == 0 {
		g.finishRound()
		return
	}
	g.broadcastState()
}

// finishRound scores every seat against its bid and either deals the next
// round or ends the game when the deck cannot supply it. Assumes lock is
// held.
func (g *WizardGame) finishRound() {
	g.Phase = PhaseRoundEnd

	scores := make(map[uuid.UUID]int, len(g.Players))
	for _, p := range g.Players {
		p.Score += RoundScore(*p.Bid, p.TricksWon)
		scores[p.ID] = p.Score
	}
	g.logAction(uuid.Nil, "round_end", map[string]interface{}{
		"round":  g.RoundNumber,
		"scores": scores,
	})

	g.RoundNumber++
	if len(g.Players)*g.RoundNumber+1 > DeckSize {
		g.endGame()
		return
	}
	g.startRound()
}

// endGame computes final standings, broadcasts the terminal state, and
// notifies the owner. Assumes lock is held.
func (g *WizardGame) endGame() {
	if g.Phase == PhaseGameEnd {
		return
	}
	g.Phase = PhaseGameEnd
	g.TrumpCard = nil
	g.Played = nil

	scores := make(map[uuid.UUID]int, len(g.Players))
	winner := uuid.Nil
	best := 0
	for i, p := range g.Players {
		p.ResetRound()
		scores[p.ID] = p.Score
		if i == 0 || p.Score > best {
			best = p.Score
			winner = p.ID
		}
	}

	g.logAction(uuid.Nil, "game_end", map[string]interface{}{
		"winner": winner,
		"scores": scores,
	})
	g.broadcastState()

	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, winner, scores)
	}
}

// Discard terminates the game without standings. It takes the game lock
// itself, so any in-flight action finishes first and every later action
// through a stale handle fails the phase check. The registry resets the
// players afterward.
func (g *WizardGame) Discard() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Phase == PhaseGameEnd {
		return
	}
	g.Phase = PhaseGameEnd
	g.TrumpCard = nil
	g.Played = nil
	g.logAction(uuid.Nil, "game_discarded", nil)
}

// setTurn moves the turn flag so exactly one seat holds it. Assumes lock is
// held.
func (g *WizardGame) setTurn(seat int) {
	for i, p := range g.Players {
		p.HasTurn = i == seat
	}
	g.turnIndex = seat
}

// CurrentPlayerID returns the id of the seat holding turn, or uuid.Nil when
// no game turn is active.
func (g *WizardGame) CurrentPlayerID() uuid.UUID {
	if g.Phase == PhaseLobby || g.Phase == PhaseGameEnd {
		return uuid.Nil
	}
	if g.turnIndex < 0 || g.turnIndex >= len(g.Players) {
		return uuid.Nil
	}
	return g.Players[g.turnIndex].ID
}

func (g *WizardGame) seatOf(playerID uuid.UUID) int {
	for i, p := range g.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func cardIn(cards []models.Card, c models.Card) bool {
	for _, x := range cards {
		if x == c {
			return true
		}
	}
	return false
}

// broadcastState pushes a freshly scoped view to every connected seat.
// Assumes lock is held.
func (g *WizardGame) broadcastState() {
	if g.BroadcastToPlayerFn == nil {
		return
	}
	for _, p := range g.Players {
		if !p.Connected {
			continue
		}
		g.BroadcastToPlayerFn(p.ID, g.buildPlayerView(p.ID))
	}
}

// logAction publishes the action to the historian queue. Assumes lock is
// held; the Redis push happens off the hot path.
func (g *WizardGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if payload == nil {
		payload = map[string]interface{}{}
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorPlayerID: actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	go func(rec cache.GameActionRecord) {
		if cache.Rdb == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			g.log.Warnf("game %s: publish action %d: %v", g.ID, rec.ActionIndex, err)
		}
	}(record)
}
