// internal/account/token.go
//
// HS256 JWTs carrying the user id and username, stored in the auth cookie.

package account

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that fail verification.
var ErrInvalidToken = errors.New("account: invalid token")

// Claims is what an auth token carries.
type Claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Tokens signs and verifies HS256 auth tokens.
type Tokens struct {
	Secret []byte
	TTL    time.Duration
	now    func() time.Time
}

// NewTokens builds a signer; ttl <= 0 means 14 days.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if secret == "" {
		secret = "dev_secret_change_me"
	}
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &Tokens{Secret: []byte(secret), TTL: ttl, now: time.Now}
}

// Sign creates a token for the user and returns it with its expiry.
func (t *Tokens) Sign(id, username string) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.TTL)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := tok.SignedString(t.Secret)
	return ss, exp, err
}

// Parse verifies a token and returns its claims.
func (t *Tokens) Parse(tokenStr string) (Claims, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(tk *jwt.Token) (interface{}, error) {
		return t.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{ID: id, Username: username}, nil
}
