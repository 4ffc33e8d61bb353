// Package token implements the TokenCodec port with HS256-signed JWTs.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ericfisherdev/memorybox/internal/domain/model"
	"github.com/ericfisherdev/memorybox/internal/domain/port/driven"
)

// DefaultTTL is the validity window of an issued token.
const DefaultTTL = 7 * 24 * time.Hour

// ErrSecretNotSet is returned by NewCodec when the signing secret is empty.
var ErrSecretNotSet = errors.New("token signing secret not configured")

// ErrEmptyUsername is returned by Issue for an empty username, which Verify
// would reject as malformed.
var ErrEmptyUsername = errors.New("token username is empty")

// Compile-time interface satisfaction check.
var _ driven.TokenCodec = (*Codec)(nil)

// claims is the JWT payload. Username travels as a private claim next to the
// registered iat/exp claims.
type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a shared HMAC secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Codec) { c.ttl = ttl }
}

// WithClock replaces time.Now as the source of issue and verification time.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec creates a Codec for the given secret. The secret is copied.
func NewCodec(secret []byte, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrSecretNotSet
	}

	c := &Codec{
		secret: append([]byte(nil), secret...),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", c.ttl)
	}

	return c, nil
}

// Issue returns a signed token for username valid for the codec TTL.
func (c *Codec) Issue(username string) (string, error) {
	if username == "" {
		return "", ErrEmptyUsername
	}

	issuedAt := c.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
		},
	})

	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses token, checks its signature and expiry, and returns the
// embedded claims. Failures wrap driven.ErrTokenMalformed,
// driven.ErrTokenBadSignature or driven.ErrTokenExpired.
func (c *Codec) Verify(token string) (model.TokenClaims, error) {
	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return model.TokenClaims{}, classify(err)
	}

	if parsed.Username == "" || parsed.IssuedAt == nil {
		return model.TokenClaims{}, fmt.Errorf("%w: missing username or iat claim", driven.ErrTokenMalformed)
	}

	return model.TokenClaims{
		Username:  parsed.Username,
		IssuedAt:  parsed.IssuedAt.Time,
		ExpiresAt: parsed.ExpiresAt.Time,
	}, nil
}

func (c *Codec) keyFunc(*jwt.Token) (any, error) {
	return c.secret, nil
}

// classify maps jwt parse errors onto the port's verification failures.
// Signature problems are checked before expiry because jwt validates the
// signature first; an expired token with a bad signature is a bad signature.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", driven.ErrTokenBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", driven.ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", driven.ErrTokenMalformed, err)
	}
}
