// internal/models/player_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegalMovesFollowSuit(t *testing.T) {
	p := &Player{Hand: []Card{
		{Value: 5, Suit: SuitHeart},
		{Value: 9, Suit: SuitClubs},
		{Value: WizardValue, Suit: SuitWizard},
		{Value: JesterValue, Suit: SuitJester},
	}}

	legal := p.LegalMoves(SuitHeart)
	assert.ElementsMatch(t, []Card{
		{Value: 5, Suit: SuitHeart},
		{Value: WizardValue, Suit: SuitWizard},
		{Value: JesterValue, Suit: SuitJester},
	}, legal, "must follow hearts, wilds always allowed")
}

func TestLegalMovesNoConstraintWhenVoid(t *testing.T) {
	p := &Player{Hand: []Card{
		{Value: 9, Suit: SuitClubs},
		{Value: 2, Suit: SuitSpades},
	}}

	legal := p.LegalMoves(SuitHeart)
	assert.ElementsMatch(t, p.Hand, legal, "void in the led suit frees the whole hand")
}

func TestLegalMovesNoLeadSuit(t *testing.T) {
	p := &Player{Hand: []Card{
		{Value: 5, Suit: SuitHeart},
		{Value: 9, Suit: SuitClubs},
	}}

	legal := p.LegalMoves("")
	assert.ElementsMatch(t, p.Hand, legal, "leading a trick has no constraint")
}

func TestCanFollowSuitIgnoresWilds(t *testing.T) {
	p := &Player{Hand: []Card{
		{Value: WizardValue, Suit: SuitWizard},
		{Value: JesterValue, Suit: SuitJester},
	}}
	assert.False(t, p.CanFollowSuit(SuitHeart))
	assert.False(t, p.CanFollowSuit(SuitWizard), "wizard leads impose no constraint")
}

func TestRemoveCard(t *testing.T) {
	p := &Player{Hand: []Card{
		{Value: 5, Suit: SuitHeart},
		{Value: 9, Suit: SuitClubs},
	}}

	require.True(t, p.RemoveCard(Card{Value: 5, Suit: SuitHeart}))
	assert.Len(t, p.Hand, 1)
	assert.False(t, p.HasCard(Card{Value: 5, Suit: SuitHeart}))
	assert.False(t, p.RemoveCard(Card{Value: 5, Suit: SuitHeart}))
}

func TestResetRoundKeepsScore(t *testing.T) {
	bid := 2
	p := &Player{
		Score:     30,
		Hand:      []Card{{Value: 5, Suit: SuitHeart}},
		Bid:       &bid,
		TricksWon: 1,
		HasTurn:   true,
	}
	p.ResetRound()

	assert.Equal(t, 30, p.Score)
	assert.Empty(t, p.Hand)
	assert.Nil(t, p.Bid)
	assert.Zero(t, p.TricksWon)
	assert.False(t, p.HasTurn)
}
