package model

import "time"

// TokenClaims is the decoded content of a verified bearer token.
type TokenClaims struct {
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
