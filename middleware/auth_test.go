package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raihanetx/Next-v/auth"
)

func newProtectedRouter(t *testing.T) (*gin.Engine, *auth.TokenIssuer, *auth.MemorySessionStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer := auth.NewTokenIssuer("test-secret")
	sessions := auth.NewMemorySessionStore()

	r := gin.New()
	authed := r.Group("/", RequireAccess(issuer, sessions))
	authed.GET("/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": ClaimsFrom(c).UserID})
	})
	authed.PATCH("/orders", RequireCSRF(sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, issuer, sessions
}

func login(t *testing.T, issuer *auth.TokenIssuer, sessions *auth.MemorySessionStore) (token, sessionID, csrf string) {
	t.Helper()
	sessionID = auth.RandomToken(32)
	csrf = auth.RandomToken(32)
	sessions.Put(sessionID, auth.Session{UserID: "admin", CreatedAt: time.Now(), CSRFToken: csrf})
	token, err := issuer.IssueAccess("admin", sessionID, auth.AccessTokenTTL)
	require.NoError(t, err)
	return token, sessionID, csrf
}

func TestRequireAccessHappyPath(t *testing.T) {
	r, issuer, sessions := newProtectedRouter(t)
	token, _, _ := login(t, issuer, sessions)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin")
}

func TestRequireAccessMissingHeader(t *testing.T) {
	r, _, _ := newProtectedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAccessRejectsDeadSession(t *testing.T) {
	r, issuer, sessions := newProtectedRouter(t)
	token, sessionID, _ := login(t, issuer, sessions)
	sessions.Delete(sessionID)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Session expired")
}

func TestRequireAccessRejectsRefreshToken(t *testing.T) {
	r, issuer, sessions := newProtectedRouter(t)
	_, sessionID, _ := login(t, issuer, sessions)
	refresh, err := issuer.IssueRefresh("admin", sessionID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireCSRF(t *testing.T) {
	r, issuer, sessions := newProtectedRouter(t)
	token, _, csrf := login(t, issuer, sessions)

	// Missing CSRF header.
	req := httptest.NewRequest(http.MethodPatch, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Matching CSRF header.
	req = httptest.NewRequest(http.MethodPatch, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-CSRF-Token", csrf)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
