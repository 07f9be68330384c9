// internal/game/deck.go
package game

import (
	"errors"
	"math/rand"

	"github.com/wizard-cards/wizard-service/internal/models"
)

// DeckSize is the fixed size of a Wizard deck: 4 suits x ranks 1..13,
// plus 4 jesters and 4 wizards.
const DeckSize = 60

// ErrInsufficientCards is returned when a round would need more cards than
// the deck holds. It must abort round advance; the engine translates it
// into a game-end transition.
var ErrInsufficientCards = errors.New("deck cannot supply the requested deal")

// NewDeck builds the full 60-card multiset in deterministic order.
func NewDeck() []models.Card {
	deck := make([]models.Card, 0, DeckSize)
	for _, suit := range models.OrdinarySuits {
		for value := 1; value <= 13; value++ {
			deck = append(deck, models.Card{Value: value, Suit: suit})
		}
	}
	for i := 0; i < 4; i++ {
		deck = append(deck, models.Card{Value: models.JesterValue, Suit: models.SuitJester})
	}
	for i := 0; i < 4; i++ {
		deck = append(deck, models.Card{Value: models.WizardValue, Suit: models.SuitWizard})
	}
	return deck
}

// SampleDeck draws n cards uniformly without replacement from a fresh deck.
// Each round samples the full deck anew, so cards are distinct within one
// deal but not across rounds.
func SampleDeck(r *rand.Rand, n int) ([]models.Card, error) {
	if n > DeckSize {
		return nil, ErrInsufficientCards
	}
	deck := NewDeck()
	r.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck[:n], nil
}
