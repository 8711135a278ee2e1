package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("s3cret", hash))
	assert.False(t, VerifyPassword("wrong", hash))
}

func TestAccessTokenRoundtrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.IssueAccess("admin", "sess-1", AccessTokenTTL)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.UserID)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Empty(t, claims.TokenType)
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	token, err := issuer.IssueAccess("admin", "sess-1", AccessTokenTTL)
	require.NoError(t, err)

	issuer.now = func() time.Time { return time.Now().Add(16 * time.Minute) }
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a").IssueAccess("admin", "sess-1", AccessTokenTTL)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRefreshRequiresRefreshType(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	access, err := issuer.IssueAccess("admin", "sess-1", AccessTokenTTL)
	require.NoError(t, err)
	_, err = issuer.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrNotRefresh)

	refresh, err := issuer.IssueRefresh("admin", "sess-1")
	require.NoError(t, err)
	claims, err := issuer.VerifyRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestSessionAbsoluteCeiling(t *testing.T) {
	store := NewMemorySessionStore()
	created := time.Now()
	store.Put("s1", Session{UserID: "admin", CreatedAt: created})

	_, ok := store.Get("s1")
	assert.True(t, ok)

	// Refresh activity does not extend the absolute ceiling.
	store.Touch("s1", "ua", "1.2.3.4")
	store.now = func() time.Time { return created.Add(SessionAbsoluteTTL + time.Hour) }
	_, ok = store.Get("s1")
	assert.False(t, ok)
}

func TestSessionSweep(t *testing.T) {
	store := NewMemorySessionStore()
	created := time.Now()
	store.Put("old", Session{UserID: "admin", CreatedAt: created.Add(-31 * 24 * time.Hour)})
	store.Put("fresh", Session{UserID: "admin", CreatedAt: created})

	store.Sweep()

	_, ok := store.Get("old")
	assert.False(t, ok)
	_, ok = store.Get("fresh")
	assert.True(t, ok)
}

func TestVerifyCSRF(t *testing.T) {
	store := NewMemorySessionStore()
	token := RandomToken(32)
	store.Put("s1", Session{UserID: "admin", CreatedAt: time.Now(), CSRFToken: token})

	assert.True(t, VerifyCSRF(store, "s1", token))
	assert.False(t, VerifyCSRF(store, "s1", RandomToken(32)))
	assert.False(t, VerifyCSRF(store, "s1", ""))
	assert.False(t, VerifyCSRF(store, "missing", token))
}

func TestLoginLimiterLockout(t *testing.T) {
	limiter := NewLoginLimiter()
	base := time.Now()
	limiter.now = func() time.Time { return base }

	for i := 0; i < RateLimitAttempts; i++ {
		limited, _, _ := limiter.Check("10.0.0.1")
		assert.False(t, limited)
		limiter.RecordFailure("10.0.0.1")
	}

	// Sixth attempt is locked out, correct password or not.
	limited, remaining, lockUntil := limiter.Check("10.0.0.1")
	assert.True(t, limited)
	assert.Zero(t, remaining)
	assert.Equal(t, base.Add(RateLimitLockout), lockUntil)

	// Still locked just before the cooldown elapses.
	limiter.now = func() time.Time { return base.Add(RateLimitLockout - time.Second) }
	limited, _, _ = limiter.Check("10.0.0.1")
	assert.True(t, limited)

	// Unlocked after the cooldown.
	limiter.now = func() time.Time { return base.Add(RateLimitLockout + time.Second) }
	limited, _, _ = limiter.Check("10.0.0.1")
	assert.False(t, limited)
}

func TestLoginLimiterResetOnSuccess(t *testing.T) {
	limiter := NewLoginLimiter()
	limiter.RecordFailure("10.0.0.2")
	limiter.RecordFailure("10.0.0.2")

	limiter.Reset("10.0.0.2")

	_, remaining, _ := limiter.Check("10.0.0.2")
	assert.Equal(t, RateLimitAttempts, remaining)
}

func TestLoginLimiterWindowExpiry(t *testing.T) {
	limiter := NewLoginLimiter()
	base := time.Now()
	limiter.now = func() time.Time { return base }

	limiter.RecordFailure("10.0.0.3")
	limiter.RecordFailure("10.0.0.3")

	// Outside the rolling window the count starts over.
	limiter.now = func() time.Time { return base.Add(RateLimitWindow + time.Minute) }
	_, remaining, _ := limiter.Check("10.0.0.3")
	assert.Equal(t, RateLimitAttempts, remaining)
}
