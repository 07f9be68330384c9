// internal/models/player.go
package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player holds one seat's mutable state for the active game plus the
// identity of its communication channel. All mutation happens under the
// game server's lock.
type Player struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Score int       `json:"score"`

	// Hand is present only after dealing and shrinks card by card as the
	// round is played.
	Hand []Card `json:"hand,omitempty"`

	// Bid is nil until the player has bid this round.
	Bid *int `json:"bid,omitempty"`

	// TricksWon resets each round.
	TricksWon int `json:"tricksWon"`

	// Ready is meaningful only while no game is active.
	Ready bool `json:"ready"`

	// HasTurn is true for exactly one player once a game is active.
	HasTurn bool `json:"hasTurn"`

	Connected bool            `json:"connected"`
	Conn      *websocket.Conn `json:"-"`

	User *User `json:"-"`
}

// HasCard reports whether the hand currently holds the given card.
func (p *Player) HasCard(c Card) bool {
	for _, h := range p.Hand {
		if h == c {
			return true
		}
	}
	return false
}

// RemoveCard removes the first occurrence of c from the hand. It reports
// false, leaving the hand untouched, if the card is not held.
func (p *Player) RemoveCard(c Card) bool {
	for i, h := range p.Hand {
		if h == c {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// CanFollowSuit reports whether the hand can satisfy a follow-suit
// constraint on the given suit. Wizards and jesters never count as
// following, and only ordinary suits can constrain.
func (p *Player) CanFollowSuit(s Suit) bool {
	if s != SuitHeart && s != SuitDiamonds && s != SuitClubs && s != SuitSpades {
		return false
	}
	for _, h := range p.Hand {
		if h.Suit == s {
			return true
		}
	}
	return false
}

// LegalMoves derives the playable subset of the hand given the suit
// established for the current trick (empty when no constraint is active).
// Wilds are always playable; if the player can follow suit, only that suit
// and wilds are; otherwise the whole hand is.
func (p *Player) LegalMoves(suitToFollow Suit) []Card {
	if suitToFollow == "" || !p.CanFollowSuit(suitToFollow) {
		return append([]Card(nil), p.Hand...)
	}
	var legal []Card
	for _, h := range p.Hand {
		if h.IsWild() || h.Suit == suitToFollow {
			legal = append(legal, h)
		}
	}
	return legal
}

// ResetRound clears all per-round fields ahead of a fresh deal.
func (p *Player) ResetRound() {
	p.Hand = nil
	p.Bid = nil
	p.TricksWon = 0
	p.HasTurn = false
}
