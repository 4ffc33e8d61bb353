package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/memorybox/internal/domain/model"
	"github.com/ericfisherdev/memorybox/internal/domain/port/driven"
)

// Sentinel errors returned by AuthService.
var (
	// ErrMissingCredentials indicates a login attempt without a username or password.
	ErrMissingCredentials = errors.New("username and password are required")

	// ErrInvalidCredentials indicates the username/password pair matched no account.
	// Unknown users and wrong passwords both produce this error.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken indicates a token that failed verification for any reason.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrAccessDenied indicates a valid token whose username is not an allowed account.
	ErrAccessDenied = errors.New("access denied")
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token    string
	Username string
}

// AuthService checks credentials against the configured accounts and issues
// and verifies bearer tokens. It holds no mutable state.
type AuthService struct {
	creds  model.CredentialSet
	codec  driven.TokenCodec
	logger *slog.Logger
}

// NewAuthService creates a new AuthService with the required dependencies.
func NewAuthService(creds model.CredentialSet, codec driven.TokenCodec, logger *slog.Logger) *AuthService {
	return &AuthService{
		creds:  creds,
		codec:  codec,
		logger: logger,
	}
}

// Login validates username and password and returns a freshly issued token.
// Returns ErrMissingCredentials when either field is empty, before any lookup,
// and ErrInvalidCredentials when no account matches.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		s.logger.InfoContext(ctx, "login rejected", "username", username, "reason", "missing fields")
		return nil, ErrMissingCredentials
	}

	if !s.creds.Lookup(username, password) {
		s.logger.InfoContext(ctx, "login rejected", "username", username, "reason", "no matching account")
		return nil, ErrInvalidCredentials
	}

	token, err := s.codec.Issue(username)
	if err != nil {
		return nil, fmt.Errorf("issue token for %s: %w", username, err)
	}

	s.logger.InfoContext(ctx, "login succeeded", "username", username)

	return &LoginResult{Token: token, Username: username}, nil
}

// VerifyToken checks the token signature and expiry and returns the embedded
// username. The username is not checked against the configured accounts.
// Every verification failure is reported as ErrInvalidToken.
func (s *AuthService) VerifyToken(token string) (string, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		s.logger.Debug("token verification failed", "error", err)
		return "", ErrInvalidToken
	}
	return claims.Username, nil
}

// Authorize verifies the token and requires its username to belong to a
// configured account. Returns ErrInvalidToken or ErrAccessDenied on failure.
func (s *AuthService) Authorize(token string) (string, error) {
	username, err := s.VerifyToken(token)
	if err != nil {
		return "", err
	}

	if !s.creds.IsAllowed(username) {
		s.logger.Info("token for unknown account", "username", username)
		return "", ErrAccessDenied
	}

	return username, nil
}

// CheckCredentials reports whether username and password match a configured account.
func (s *AuthService) CheckCredentials(username, password string) bool {
	return s.creds.Lookup(username, password)
}
