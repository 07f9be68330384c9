// internal/game/errors.go
package game

import "errors"

// Rule violations are per-message rejections. The WS router translates them
// into error frames for the offending player; they never mutate state and
// never terminate the game instance.
var (
	ErrWrongPhase      = errors.New("action not allowed in the current phase")
	ErrNotYourTurn     = errors.New("it is not your turn")
	ErrNotSeated       = errors.New("player is not seated in this game")
	ErrBidOutOfRange   = errors.New("bid must be between 0 and the round number")
	ErrAlreadyBid      = errors.New("bid already submitted this round")
	ErrCardNotInHand   = errors.New("card is not in your hand")
	ErrCardNotPlayable = errors.New("card is not playable under the follow-suit constraint")
	ErrTooFewPlayers   = errors.New("a game needs at least two players")
)
