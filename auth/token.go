package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const Issuer = "wegetchat"

// CustomClaims defines the structure of the data stored inside the JWT.
type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

var ErrTokenRevoked = errors.New("token revoked")

// TokenIssuer signs and checks the session tokens of the HTTP adapter.
// Revoked token ids are kept in memory until the token would have expired.
type TokenIssuer struct {
	key      []byte
	duration time.Duration
	now      func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewTokenIssuer(secret string, duration time.Duration) *TokenIssuer {
	return &TokenIssuer{key: []byte(secret), duration: duration, now: time.Now, revoked: make(map[string]time.Time)}
}

// Generate creates a signed HS256 token for userID.
func (i *TokenIssuer) Generate(userID string) (string, error) {
	now := i.now()
	claims := &CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    Issuer,
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
}

// Validate parses tokenString and checks its signature, issuer and expiration.
func (i *TokenIssuer) Validate(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserID == "" || claims.ID == "" {
		return nil, errors.New("invalid token claims")
	}
	if i.isRevoked(claims.ID) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke makes a valid token unusable for the rest of its lifetime.
// Invalid or already expired tokens are ignored.
func (i *TokenIssuer) Revoke(tokenString string) {
	claims, err := i.Validate(tokenString)
	if err != nil {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	now := i.now()
	for id, expiresAt := range i.revoked {
		if !expiresAt.After(now) {
			delete(i.revoked, id)
		}
	}
	i.revoked[claims.ID] = claims.ExpiresAt.Time
}

func (i *TokenIssuer) isRevoked(id string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, ok := i.revoked[id]
	return ok
}

// Lifetime is how long a freshly generated token stays valid.
func (i *TokenIssuer) Lifetime() time.Duration { return i.duration }
