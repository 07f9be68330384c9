// internal/handlers/user.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/wizard-cards/wizard-service/internal/auth"
	"github.com/wizard-cards/wizard-service/internal/database"
	"github.com/wizard-cards/wizard-service/internal/models"
)

const sessionCookie = "wizard_token"

// EnsureEphemeralPlayer resolves the connecting identity from the session
// cookie, minting a guest identity (and cookie) when none is valid. With a
// database attached, guests also get a users row so results can reference
// them.
func EnsureEphemeralPlayer(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	if token := extractTokenFromCookie(r.Header.Get("Cookie")); token != "" {
		if sub, err := auth.VerifyToken(token); err == nil {
			if id, parseErr := uuid.Parse(sub); parseErr == nil {
				return id, nil
			}
		}
		// Fall through to a fresh guest on any stale or bad token.
	}
	return mintGuest(w, r)
}

func mintGuest(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	guest := models.User{
		Username:    "Guest",
		IsEphemeral: true,
	}
	if database.Enabled() {
		if err := database.CreateUser(r.Context(), &guest); err != nil {
			return uuid.Nil, fmt.Errorf("create guest user: %w", err)
		}
	} else {
		id, err := uuid.NewRandom()
		if err != nil {
			return uuid.Nil, err
		}
		guest.ID = id
	}

	token, err := auth.IssueToken(guest.ID.String())
	if err != nil {
		return uuid.Nil, fmt.Errorf("issue guest token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	return guest.ID, nil
}

func extractTokenFromCookie(cookieHeader string) string {
	for _, part := range strings.Split(cookieHeader, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, sessionCookie+"=") {
			return strings.TrimPrefix(part, sessionCookie+"=")
		}
	}
	return ""
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// CreateUserHandler registers a named account. Account endpoints require a
// database; without one the service runs guests only.
func CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !database.Enabled() {
		http.Error(w, "accounts unavailable", http.StatusServiceUnavailable)
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" || req.Username == "" {
		http.Error(w, "email, password and username are required", http.StatusBadRequest)
		return
	}

	user := models.User{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	}
	if err := database.CreateUser(r.Context(), &user); err != nil {
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}

	user.Password = ""
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler authenticates an account and sets the session cookie.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !database.Enabled() {
		http.Error(w, "accounts unavailable", http.StatusServiceUnavailable)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	token, err := database.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusForbidden)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}
