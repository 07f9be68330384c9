// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"

	"github.com/wizard-cards/wizard-service/internal/models"
)

// HandCard is one card of the recipient's own hand, with its derived
// playability under the current follow-suit constraint. Playable is only
// meaningful while it is the recipient's turn in trick play.
type HandCard struct {
	Value    int         `json:"value"`
	Suit     models.Suit `json:"suit"`
	Playable bool        `json:"playable"`
}

// SeatView is the redacted, public view of one seat. It never carries hand
// contents; only the count.
type SeatView struct {
	PlayerID  uuid.UUID `json:"player_id"`
	Name      string    `json:"name,omitempty"`
	Score     int       `json:"score"`
	Bid       *int      `json:"bid,omitempty"`
	TricksWon int       `json:"tricksWon"`
	HandSize  int       `json:"handSize"`
	Ready     bool      `json:"ready"`
	Connected bool      `json:"connected"`
	HasTurn   bool      `json:"hasTurn"`
}

// TrumpView carries the drawn trump card together with the suit it resolves
// to; the suit is empty when the trump card is a wizard or jester.
type TrumpView struct {
	Card models.Card `json:"card"`
	Suit models.Suit `json:"suit,omitempty"`
}

// PlayerView is the full per-recipient state snapshot pushed after every
// accepted action. The Hand field is the only place card contents appear,
// and it always belongs to the recipient.
type PlayerView struct {
	Type            string       `json:"type"`
	GameID          uuid.UUID    `json:"game_id"`
	Phase           Phase        `json:"phase"`
	RoundNumber     int          `json:"roundNumber"`
	BiddingOpen     bool         `json:"biddingOpen"`
	Trump           *TrumpView   `json:"trump,omitempty"`
	PlayedCards     []PlayedCard `json:"playedCards"`
	CurrentPlayerID uuid.UUID    `json:"currentPlayerId,omitempty"`
	Hand            []HandCard   `json:"hand"`
	Players         []SeatView   `json:"players"`
	Winner          uuid.UUID    `json:"winner,omitempty"`
}

// buildPlayerView assembles the snapshot for one recipient. Assumes lock is
// held.
func (g *WizardGame) buildPlayerView(forPlayer uuid.UUID) PlayerView {
	view := PlayerView{
		Type:            "game_state",
		GameID:          g.ID,
		Phase:           g.Phase,
		RoundNumber:     g.RoundNumber,
		BiddingOpen:     g.Phase == PhaseBidding,
		PlayedCards:     append([]PlayedCard(nil), g.Played...),
		CurrentPlayerID: g.CurrentPlayerID(),
	}
	if g.TrumpCard != nil {
		view.Trump = &TrumpView{Card: *g.TrumpCard, Suit: g.TrumpSuit()}
	}

	suitToFollow := g.SuitToFollow()
	for _, p := range g.Players {
		view.Players = append(view.Players, SeatView{
			PlayerID:  p.ID,
			Name:      p.Name,
			Score:     p.Score,
			Bid:       p.Bid,
			TricksWon: p.TricksWon,
			HandSize:  len(p.Hand),
			Ready:     p.Ready,
			Connected: p.Connected,
			HasTurn:   p.HasTurn,
		})
		if p.ID != forPlayer {
			continue
		}
		legal := p.LegalMoves(suitToFollow)
		playing := g.Phase == PhaseTrickPlay && p.HasTurn
		for _, c := range p.Hand {
			view.Hand = append(view.Hand, HandCard{
				Value:    c.Value,
				Suit:     c.Suit,
				Playable: playing && cardIn(legal, c),
			})
		}
	}

	if g.Phase == PhaseGameEnd {
		best := 0
		for i, p := range g.Players {
			if i == 0 || p.Score > best {
				best = p.Score
				view.Winner = p.ID
			}
		}
	}
	return view
}

// SyncState returns the snapshot for one recipient, for use on the
// connection path where the lock is not yet held.
func (g *WizardGame) SyncState(forPlayer uuid.UUID) PlayerView {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.buildPlayerView(forPlayer)
}
