// internal/game/rules_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wizard-cards/wizard-service/internal/models"
)

func card(value int, suit models.Suit) models.Card {
	return models.Card{Value: value, Suit: suit}
}

func TestWinningIndexWizardDominates(t *testing.T) {
	// A wizard wins regardless of trump or values.
	played := []models.Card{
		card(5, models.SuitHeart),
		card(14, models.SuitWizard),
		card(9, models.SuitHeart),
	}
	assert.Equal(t, 1, WinningIndex(played, models.SuitClubs))
	assert.Equal(t, 1, WinningIndex(played, ""))
}

func TestWinningIndexFirstWizardWinsTies(t *testing.T) {
	played := []models.Card{
		card(3, models.SuitSpades),
		card(14, models.SuitWizard),
		card(14, models.SuitWizard),
	}
	assert.Equal(t, 1, WinningIndex(played, models.SuitSpades))
}

func TestWinningIndexTrumpBeatsLeadSuit(t *testing.T) {
	played := []models.Card{
		card(13, models.SuitHeart),
		card(2, models.SuitClubs),
		card(9, models.SuitHeart),
	}
	assert.Equal(t, 1, WinningIndex(played, models.SuitClubs))
}

func TestWinningIndexHighestOfLeadSuit(t *testing.T) {
	played := []models.Card{
		card(5, models.SuitHeart),
		card(12, models.SuitSpades), // off-suit, not trump
		card(9, models.SuitHeart),
	}
	assert.Equal(t, 2, WinningIndex(played, models.SuitDiamonds))
}

func TestWinningIndexJesterLeadDefersSuit(t *testing.T) {
	// The first non-jester establishes the winning suit.
	played := []models.Card{
		card(0, models.SuitJester),
		card(7, models.SuitClubs),
		card(9, models.SuitHeart),
	}
	assert.Equal(t, 1, WinningIndex(played, ""))
}

func TestWinningIndexAllJesters(t *testing.T) {
	played := []models.Card{
		card(0, models.SuitJester),
		card(0, models.SuitJester),
		card(0, models.SuitJester),
	}
	assert.Equal(t, 0, WinningIndex(played, models.SuitHeart))
}

func TestWinningIndexNoTrumpSuit(t *testing.T) {
	// A wild trump card leaves the round with no trump suit: the lead suit
	// decides even though another suit would have been trump.
	played := []models.Card{
		card(5, models.SuitHeart),
		card(13, models.SuitClubs),
		card(9, models.SuitHeart),
	}
	assert.Equal(t, 2, WinningIndex(played, ""))
}

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 50, RoundScore(3, 3), "exact bid of 3")
	assert.Equal(t, -20, RoundScore(3, 1), "missed by two")
	assert.Equal(t, 20, RoundScore(0, 0), "exact zero bid")
	assert.Equal(t, -20, RoundScore(0, 2), "overshot a zero bid")
	assert.Equal(t, 30, RoundScore(1, 1))
	assert.Equal(t, -10, RoundScore(2, 1))
}
