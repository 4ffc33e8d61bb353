package httphandler

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ericfisherdev/memorybox/internal/application"
)

const basicChallenge = `Basic realm="Restricted"`

// TokenAuthorizer verifies a bearer token and returns the username it was
// issued to. Implementations return application.ErrAccessDenied for a valid
// token naming an account that is not allowed.
type TokenAuthorizer interface {
	Authorize(token string) (string, error)
}

// CredentialChecker reports whether a username/password pair is a configured account.
type CredentialChecker interface {
	CheckCredentials(username, password string) bool
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying the authenticated username.
func WithIdentity(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, identityKey{}, username)
}

// IdentityFromContext returns the authenticated username attached by one of
// the auth gates.
func IdentityFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(identityKey{}).(string)
	return username, ok && username != ""
}

// BearerAuth returns middleware that requires an "Authorization: Bearer"
// header carrying a valid token for an allowed account. Rejections are JSON.
func BearerAuth(auth TokenAuthorizer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			username, err := auth.Authorize(token)
			if errors.Is(err, application.ErrAccessDenied) {
				writeError(w, http.StatusForbidden, "Access denied")
				return
			}
			if err != nil {
				logger.Debug("bearer token rejected", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), username)))
		})
	}
}

// BasicAuth returns middleware that checks an "Authorization: Basic" header
// against the configured accounts on every request. Every rejection is a
// plain-text 401 with a WWW-Authenticate challenge.
func BasicAuth(checker CredentialChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reject := func(message string) {
				w.Header().Set("WWW-Authenticate", basicChallenge)
				writeText(w, http.StatusUnauthorized, message)
			}

			payload, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Basic ")
			if !ok {
				reject("Authentication required")
				return
			}

			encoded, _, _ := strings.Cut(payload, " ")
			decoded, err := decodeBasicPayload(encoded)
			if err != nil {
				reject("Invalid authentication header")
				return
			}

			username, password, found := strings.Cut(string(decoded), ":")
			if !found {
				reject("Invalid authentication token")
				return
			}

			if !checker.CheckCredentials(username, password) {
				logger.Info("basic auth rejected", "path", r.URL.Path, "username", username)
				reject("Invalid credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), username)))
		})
	}
}

// decodeBasicPayload decodes standard base64, accepting input with the
// trailing padding left off.
func decodeBasicPayload(encoded string) ([]byte, error) {
	if len(encoded)%4 != 0 {
		return base64.RawStdEncoding.DecodeString(encoded)
	}
	return base64.StdEncoding.DecodeString(encoded)
}
