// internal/models/game_action.go
package models

// GameAction is the decoded form of one inbound player message.
type GameAction struct {
	// Action is one of "ready", "bid" or "play_card".
	Action string `json:"action"`

	// NTricks carries the bid for "bid" actions.
	NTricks *int `json:"n_tricks,omitempty"`

	// Card carries the played card for "play_card" actions.
	Card *Card `json:"card,omitempty"`
}
