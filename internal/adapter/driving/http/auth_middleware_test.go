package httphandler

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/memorybox/internal/application"
)

type stubAuthorizer struct {
	username string
	err      error
	gotToken string
}

func (s *stubAuthorizer) Authorize(token string) (string, error) {
	s.gotToken = token
	return s.username, s.err
}

type stubChecker map[string]string

func (s stubChecker) CheckCredentials(username, password string) bool {
	want, ok := s[username]
	return ok && username != "" && password != "" && want == password
}

// identityRecorder is a terminal handler that records whether it ran and the
// identity it saw.
type identityRecorder struct {
	called   bool
	identity string
}

func (rec *identityRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec.called = true
	rec.identity, _ = IdentityFromContext(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		authorizer *stubAuthorizer
		wantStatus int
		wantError  string
		wantToken  string
	}{
		{
			name:       "no header",
			authorizer: &stubAuthorizer{username: "u1"},
			wantStatus: http.StatusUnauthorized,
			wantError:  `{"error":"Authentication required"}`,
		},
		{
			name:       "header without bearer prefix",
			header:     "Token abc",
			authorizer: &stubAuthorizer{username: "u1"},
			wantStatus: http.StatusUnauthorized,
			wantError:  `{"error":"Authentication required"}`,
		},
		{
			name:       "verification failure",
			header:     "Bearer abc",
			authorizer: &stubAuthorizer{err: application.ErrInvalidToken},
			wantStatus: http.StatusUnauthorized,
			wantError:  `{"error":"Invalid or expired token"}`,
			wantToken:  "abc",
		},
		{
			name:       "unexpected authorizer error",
			header:     "Bearer abc",
			authorizer: &stubAuthorizer{err: errors.New("boom")},
			wantStatus: http.StatusUnauthorized,
			wantError:  `{"error":"Invalid or expired token"}`,
			wantToken:  "abc",
		},
		{
			name:       "access denied",
			header:     "Bearer abc",
			authorizer: &stubAuthorizer{err: application.ErrAccessDenied},
			wantStatus: http.StatusForbidden,
			wantError:  `{"error":"Access denied"}`,
			wantToken:  "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &identityRecorder{}
			handler := BearerAuth(tt.authorizer, discardLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/api/memories", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantError, rec.Body.String())
			assert.Equal(t, tt.wantToken, tt.authorizer.gotToken)
			assert.False(t, next.called, "downstream handler must not run")
		})
	}
}

func TestBearerAuth_AttachesIdentity(t *testing.T) {
	next := &identityRecorder{}
	authorizer := &stubAuthorizer{username: "u1"}
	handler := BearerAuth(authorizer, discardLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/api/memories", nil)
	req.Header.Set("Authorization", "Bearer tok.en.value")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, next.called)
	assert.Equal(t, "u1", next.identity)
	assert.Equal(t, "tok.en.value", authorizer.gotToken)
}

func TestBasicAuth_Rejections(t *testing.T) {
	checker := stubChecker{"alice": "correct"}

	tests := []struct {
		name     string
		header   string
		wantBody string
	}{
		{name: "no header", header: "", wantBody: "Authentication required"},
		{name: "bearer scheme", header: "Bearer abc", wantBody: "Authentication required"},
		{name: "lowercase scheme", header: "basic " + b64("alice:correct"), wantBody: "Authentication required"},
		{name: "undecodable base64", header: "Basic !!!not-base64", wantBody: "Invalid authentication header"},
		{name: "unpadded undecodable base64", header: "Basic YWxp!2U", wantBody: "Invalid authentication header"},
		{name: "unpadded wrong password", header: "Basic " + strings.TrimRight(b64("alice:wrong"), "="), wantBody: "Invalid credentials"},
		{name: "missing separator", header: "Basic " + b64("alicecorrect"), wantBody: "Invalid authentication token"},
		{name: "empty payload", header: "Basic ", wantBody: "Invalid authentication token"},
		{name: "wrong password", header: "Basic " + b64("alice:wrong"), wantBody: "Invalid credentials"},
		{name: "unknown user", header: "Basic " + b64("bob:correct"), wantBody: "Invalid credentials"},
		{name: "empty fields", header: "Basic " + b64(":"), wantBody: "Invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &identityRecorder{}
			handler := BasicAuth(checker, discardLogger())(next)

			req := httptest.NewRequest(http.MethodPost, "/api/legacy/memories/upload", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, `Basic realm="Restricted"`, rec.Header().Get("WWW-Authenticate"))
			assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantBody, rec.Body.String())
			assert.False(t, next.called, "downstream handler must not run")
		})
	}
}

func TestBasicAuth_Success(t *testing.T) {
	tests := []struct {
		name     string
		checker  stubChecker
		payload  string
		unpadded bool
		wantUser string
	}{
		{name: "simple", checker: stubChecker{"alice": "correct"}, payload: "alice:correct", wantUser: "alice"},
		{name: "colon in password", checker: stubChecker{"alice": "pa:ss"}, payload: "alice:pa:ss", wantUser: "alice"},
		{name: "unpadded", checker: stubChecker{"alice": "correct"}, payload: "alice:correct", unpadded: true, wantUser: "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &identityRecorder{}
			handler := BasicAuth(tt.checker, discardLogger())(next)

			req := httptest.NewRequest(http.MethodPost, "/api/legacy/memories/upload", nil)
			encoded := b64(tt.payload)
			if tt.unpadded {
				encoded = strings.TrimRight(encoded, "=")
			}
			req.Header.Set("Authorization", "Basic "+encoded)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
			require.True(t, next.called)
			assert.Equal(t, tt.wantUser, next.identity)
		})
	}
}

func TestIdentityFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := IdentityFromContext(req.Context())
	assert.False(t, ok)

	_, ok = IdentityFromContext(WithIdentity(req.Context(), ""))
	assert.False(t, ok)
}
