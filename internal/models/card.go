// internal/models/card.go
package models

// Suit identifies one of the four ordinary suits or the two wild suits.
type Suit string

const (
	SuitHeart    Suit = "heart"
	SuitDiamonds Suit = "diamonds"
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
	SuitWizard   Suit = "wizard"
	SuitJester   Suit = "jester"
)

// OrdinarySuits is the fixed suit precedence used for hand display ordering.
var OrdinarySuits = []Suit{SuitHeart, SuitDiamonds, SuitClubs, SuitSpades}

// JesterValue and WizardValue bracket the ordinary ranks 1..13 so trick
// evaluation can compare raw values within a suit.
const (
	JesterValue = 0
	WizardValue = 14
)

// Card is an immutable (value, suit) pair. Two cards are equal when both
// fields match; wizards and jesters are therefore indistinguishable among
// themselves.
type Card struct {
	Value int  `json:"value"`
	Suit  Suit `json:"suit"`
}

// IsWizard reports whether the card is one of the four wizard wilds.
func (c Card) IsWizard() bool { return c.Suit == SuitWizard }

// IsJester reports whether the card is one of the four jester wilds.
func (c Card) IsJester() bool { return c.Suit == SuitJester }

// IsWild reports whether the card is exempt from follow-suit constraints.
func (c Card) IsWild() bool { return c.IsWizard() || c.IsJester() }

// IsOrdinary reports whether the card belongs to one of the four colors.
func (c Card) IsOrdinary() bool { return !c.IsWild() }

// Valid reports whether the (value, suit) pair exists in the deck. The WS
// router uses it to reject malformed card payloads before they reach the
// engine.
func (c Card) Valid() bool {
	switch c.Suit {
	case SuitWizard:
		return c.Value == WizardValue
	case SuitJester:
		return c.Value == JesterValue
	case SuitHeart, SuitDiamonds, SuitClubs, SuitSpades:
		return c.Value >= 1 && c.Value <= 13
	default:
		return false
	}
}

// suitOrder ranks suits for display: jester lowest, then the ordinary suits
// in fixed precedence, wizard highest.
func suitOrder(s Suit) int {
	switch s {
	case SuitJester:
		return 0
	case SuitHeart:
		return 1
	case SuitDiamonds:
		return 2
	case SuitClubs:
		return 3
	case SuitSpades:
		return 4
	case SuitWizard:
		return 5
	}
	return -1
}

// Less orders cards for hand display: jesters first, ordinary suits grouped
// by precedence and ascending value, wizards last.
func (c Card) Less(o Card) bool {
	if so, oo := suitOrder(c.Suit), suitOrder(o.Suit); so != oo {
		return so < oo
	}
	return c.Value < o.Value
}
