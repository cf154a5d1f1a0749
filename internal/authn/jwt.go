// Package authn validates the bearer token a CONNECTION message may carry
// (spec.md §6), resolving it to a stable player id before the game
// singleton mints or reuses a Player container. Tokens are opaque to
// everything outside this package; a connection with no token is resolved
// by name instead (see game.HandleConnection).
package authn

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload signed into a CONNECTION bearer token.
type Claims struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Authenticator issues and validates CONNECTION bearer tokens against a
// single HMAC secret. The zero value is not usable; construct with New or
// NewWithSecret.
type Authenticator struct {
	secret      []byte
	tokenExpiry time.Duration
	issuer      string
}

// New creates an Authenticator with a freshly generated random secret,
// suitable for a single-process run where no other node needs to validate
// the same tokens.
func New() *Authenticator {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("authn: failed to generate random secret: " + err.Error())
	}
	return &Authenticator{secret: secret, tokenExpiry: 24 * time.Hour, issuer: "chaos-core"}
}

// NewWithSecret creates an Authenticator from a base64-encoded secret
// shared across every node that must accept each other's tokens.
// internal/config carries no secret field; cmd/server uses New.
func NewWithSecret(base64Secret string) (*Authenticator, error) {
	decoded, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, errors.New("authn: secret is not valid base64")
	}
	if len(decoded) < 32 {
		return nil, errors.New("authn: secret must be at least 32 bytes")
	}
	return &Authenticator{secret: decoded, tokenExpiry: 24 * time.Hour, issuer: "chaos-core"}, nil
}

// GenerateSecret returns a new base64-encoded 32-byte secret, for operators
// bootstrapping a shared-secret deployment.
func GenerateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// IssueToken signs a bearer token binding playerID to username, valid for
// the authenticator's token expiry.
func (a *Authenticator) IssueToken(playerID, username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		PlayerID: playerID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    a.issuer,
			Subject:   playerID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Validate parses tokenString and, if it is a currently-valid token signed
// by this authenticator, returns the player id it was issued for.
func (a *Authenticator) Validate(tokenString string) (playerID string, err error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("authn: unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("authn: token is not valid")
	}
	if claims.PlayerID == "" {
		return "", errors.New("authn: token carries no player id")
	}
	return claims.PlayerID, nil
}
