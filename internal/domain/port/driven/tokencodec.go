package driven

import (
	"errors"

	"github.com/ericfisherdev/memorybox/internal/domain/model"
)

// Verification failures reported by TokenCodec implementations. Callers facing
// clients must not reveal which one occurred.
var (
	// ErrTokenMalformed indicates the token could not be parsed into the expected claims.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenBadSignature indicates the signature does not match the signing secret.
	ErrTokenBadSignature = errors.New("token signature invalid")

	// ErrTokenExpired indicates the token validity window has elapsed.
	ErrTokenExpired = errors.New("token expired")
)

// TokenCodec issues and verifies signed, time-limited bearer tokens.
type TokenCodec interface {
	// Issue returns a signed token embedding username and the issue time.
	// An empty username is refused.
	Issue(username string) (string, error)

	// Verify checks the signature and expiry of token and returns its claims.
	// The returned username is not checked against any credential set.
	Verify(token string) (model.TokenClaims, error)
}
