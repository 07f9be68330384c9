// internal/game/rules.go
package game

import "github.com/wizard-cards/wizard-service/internal/models"

// WinningIndex resolves a completed trick to the play-order index of the
// winning card. Deterministic for given (played order, trump suit):
//
//  1. If any wizard was played, wizards win the trick.
//  2. Otherwise, if the trump suit appears, trump wins.
//  3. Otherwise the suit of the first non-jester card wins; if the trick is
//     all jesters, jesters "win".
//  4. Within the winning suit the highest value wins, earliest play first
//     on ties (only reachable for wizards, which share a rank).
//
// An empty trump suit (wild trump card) simply skips the trump step.
func WinningIndex(played []models.Card, trump models.Suit) int {
	winningSuit := models.SuitJester
	for _, c := range played {
		if c.IsWizard() {
			winningSuit = models.SuitWizard
			break
		}
	}
	if winningSuit != models.SuitWizard && trump != "" {
		for _, c := range played {
			if c.Suit == trump {
				winningSuit = trump
				break
			}
		}
	}
	if winningSuit == models.SuitJester {
		for _, c := range played {
			if !c.IsJester() {
				winningSuit = c.Suit
				break
			}
		}
	}

	winningValue := -1
	for _, c := range played {
		if c.Suit == winningSuit && c.Value > winningValue {
			winningValue = c.Value
		}
	}
	for i, c := range played {
		if c.Suit == winningSuit && c.Value == winningValue {
			return i
		}
	}
	return 0
}

// RoundScore is the bid-accuracy formula: an exact bid earns 20 plus 10 per
// trick taken; a miss costs 10 per trick of error. No other bonuses exist.
func RoundScore(bid, tricksWon int) int {
	diff := tricksWon - bid
	if diff < 0 {
		diff = -diff
	}
	if diff == 0 {
		return 20 + tricksWon*10
	}
	return -diff * 10
}
