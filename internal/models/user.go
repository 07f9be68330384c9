// internal/models/user.go
package models

import "github.com/google/uuid"

type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Password string    `json:"password,omitempty"`
	Username string    `json:"username"`

	// IsEphemeral marks guest identities minted on first WebSocket connect.
	IsEphemeral bool `json:"is_ephemeral"`
}
