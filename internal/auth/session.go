// internal/auth/session.go
package auth

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session tokens are ed25519-signed JWTs with the player id in "sub".
// The key pair is generated at startup, so tokens do not survive restarts;
// a stale token just produces a fresh guest identity on connect.
var (
	signingKey ed25519.PrivateKey
	verifyKey  ed25519.PublicKey

	tokenTTL time.Duration
)

// Init generates the runtime key pair and reads TOKEN_EXPIRE_TIME
// ("never", empty, or a Go duration; default 72h).
func Init() error {
	var err error
	verifyKey, signingKey, err = ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("generate session key pair: %w", err)
	}

	tokenTTL = 72 * time.Hour
	switch raw := os.Getenv("TOKEN_EXPIRE_TIME"); raw {
	case "", "never", "0":
		if raw == "never" || raw == "0" {
			tokenTTL = 0
		}
	default:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("parse TOKEN_EXPIRE_TIME: %w", err)
		}
		tokenTTL = d
	}
	return nil
}

// IssueToken signs a session token for the given player id.
func IssueToken(playerID string) (string, error) {
	claims := jwt.MapClaims{"sub": playerID}
	if tokenTTL > 0 {
		claims["exp"] = time.Now().Add(tokenTTL).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(signingKey)
}

// VerifyToken checks a session token and returns the player id it carries.
func VerifyToken(tokenString string) (string, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return verifyKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse session token: %w", err)
	}
	if !t.Valid {
		return "", fmt.Errorf("invalid session token")
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid session claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("session token missing sub")
	}
	return sub, nil
}
