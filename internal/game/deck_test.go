// internal/game/deck_test.go
package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wizard-cards/wizard-service/internal/models"
)

func TestNewDeckComposition(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, DeckSize)

	counts := make(map[models.Card]int)
	for _, c := range deck {
		counts[c]++
	}

	for _, suit := range models.OrdinarySuits {
		for value := 1; value <= 13; value++ {
			assert.Equal(t, 1, counts[models.Card{Value: value, Suit: suit}],
				"expected exactly one %d of %s", value, suit)
		}
	}
	assert.Equal(t, 4, counts[models.Card{Value: models.JesterValue, Suit: models.SuitJester}])
	assert.Equal(t, 4, counts[models.Card{Value: models.WizardValue, Suit: models.SuitWizard}])
}

func TestSampleDeckWithoutReplacement(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	sample, err := SampleDeck(r, DeckSize)
	require.NoError(t, err)
	require.Len(t, sample, DeckSize)

	// A full-deck sample must be a permutation of the deck: no card
	// multiset count may exceed the deck's.
	counts := make(map[models.Card]int)
	for _, c := range sample {
		counts[c]++
	}
	assert.Len(t, counts, 54) // 52 distinct ordinary cards + jester + wizard

	partial, err := SampleDeck(r, 7)
	require.NoError(t, err)
	assert.Len(t, partial, 7)

	_, err = SampleDeck(r, DeckSize+1)
	assert.ErrorIs(t, err, ErrInsufficientCards)
}

func TestCardOrdering(t *testing.T) {
	jester := models.Card{Value: models.JesterValue, Suit: models.SuitJester}
	wizard := models.Card{Value: models.WizardValue, Suit: models.SuitWizard}
	lowHeart := models.Card{Value: 2, Suit: models.SuitHeart}
	highHeart := models.Card{Value: 11, Suit: models.SuitHeart}
	spade := models.Card{Value: 1, Suit: models.SuitSpades}

	assert.True(t, jester.Less(lowHeart), "jesters sort lowest")
	assert.True(t, lowHeart.Less(highHeart), "same suit orders by value")
	assert.True(t, highHeart.Less(spade), "suit precedence beats value")
	assert.True(t, spade.Less(wizard), "wizards sort highest")
	assert.False(t, wizard.Less(jester))
}

func TestCardValid(t *testing.T) {
	assert.True(t, models.Card{Value: 7, Suit: models.SuitClubs}.Valid())
	assert.True(t, models.Card{Value: 14, Suit: models.SuitWizard}.Valid())
	assert.True(t, models.Card{Value: 0, Suit: models.SuitJester}.Valid())
	assert.False(t, models.Card{Value: 0, Suit: models.SuitClubs}.Valid())
	assert.False(t, models.Card{Value: 14, Suit: models.SuitJester}.Valid())
	assert.False(t, models.Card{Value: 5, Suit: "stars"}.Valid())
}
