package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/raihanetx/Next-v/auth"
)

const claimsKey = "auth_claims"

// RequireAccess guards admin endpoints: a valid Bearer access credential
// whose session record still exists and is inside its absolute lifetime.
// An expired access token is a 401; callers are expected to hit the
// refresh endpoint before re-prompting for a password.
func RequireAccess(issuer *auth.TokenIssuer, sessions auth.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := issuer.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if claims.TokenType != "" {
			// Refresh tokens never authorize requests directly.
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		if _, ok := sessions.Get(claims.SessionID); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}
		sessions.Touch(claims.SessionID, c.Request.UserAgent(), c.ClientIP())

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireCSRF guards state-changing admin endpoints: the X-CSRF-Token
// header must match the token bound to the authenticated session.
// Must run after RequireAccess.
func RequireCSRF(sessions auth.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			return
		}
		if !auth.VerifyCSRF(sessions, claims.SessionID, c.GetHeader("X-CSRF-Token")) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid CSRF token"})
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the authenticated claims set by RequireAccess, or
// nil on an unauthenticated request.
func ClaimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
