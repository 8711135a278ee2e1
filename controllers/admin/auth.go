package adminController

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raihanetx/Next-v/auth"
	"github.com/raihanetx/Next-v/config"
	"github.com/raihanetx/Next-v/models"
)

const adminUserID = "admin"

// loadAdminHash reads the stored bcrypt hash; swappable in tests.
var loadAdminHash = func(db *gorm.DB) (string, error) {
	var site models.SiteConfig
	if err := db.First(&site).Error; err != nil {
		return "", err
	}
	return site.AdminPassword, nil
}

// -------- Cookies --------

type cookieWriter struct {
	c      *gin.Context
	secure bool
}

// set writes a cookie with the attributes the admin dashboard expects.
// access_token, session_id and csrf_token stay readable by the frontend
// script; only refresh_token is HttpOnly.
func (w cookieWriter) set(name, value string, maxAge int, httpOnly bool) {
	w.c.SetSameSite(http.SameSiteLaxMode)
	w.c.SetCookie(name, value, maxAge, "/", "", w.secure, httpOnly)
}

func (w cookieWriter) clear(name string) {
	w.c.SetSameSite(http.SameSiteLaxMode)
	w.c.SetCookie(name, "", -1, "/", "", w.secure, true)
}

// -------- Login --------

type loginRequest struct {
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// LoginHandler authenticates the admin against the bcrypt hash stored
// in site configuration and establishes a session with a token pair.
func LoginHandler(db *gorm.DB, cfg *config.Config, issuer *auth.TokenIssuer, sessions auth.SessionStore, limiter *auth.LoginLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if limited, _, lockUntil := limiter.Check(ip); limited {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":     "Too many login attempts, try again later",
				"lockUntil": lockUntil.UTC().Format(time.RFC3339),
			})
			return
		}

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
			return
		}

		storedHash, err := loadAdminHash(db)
		if err != nil {
			slog.Error("site config lookup failed", slog.Any("error", err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Login is temporarily unavailable"})
			return
		}

		if !auth.VerifyPassword(req.Password, storedHash) {
			limiter.RecordFailure(ip)
			_, remaining, _ := limiter.Check(ip)
			slog.Info("failed admin login", slog.String("ip", ip))
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":             "Invalid password",
				"remainingAttempts": remaining,
			})
			return
		}

		limiter.Reset(ip)
		limiter.Sweep()
		sessions.Sweep()

		sessionID := uuid.NewString()
		csrfToken := auth.RandomToken(32)
		now := time.Now()
		sessions.Put(sessionID, auth.Session{
			UserID:     adminUserID,
			CSRFToken:  csrfToken,
			CreatedAt:  now,
			LastAccess: now,
			UserAgent:  c.Request.UserAgent(),
			IP:         ip,
		})

		accessTTL := auth.AccessTokenTTL
		if req.RememberMe {
			accessTTL = auth.RememberMeTTL
		}
		accessToken, err := issuer.IssueAccess(adminUserID, sessionID, accessTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
			return
		}
		refreshToken, err := issuer.IssueRefresh(adminUserID, sessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
			return
		}

		w := cookieWriter{c: c, secure: cfg.Production}
		w.set("access_token", accessToken, int(accessTTL.Seconds()), false)
		w.set("refresh_token", refreshToken, int(auth.RefreshTokenTTL.Seconds()), true)
		w.set("session_id", sessionID, int(auth.SessionAbsoluteTTL.Seconds()), false)
		w.set("csrf_token", csrfToken, int(auth.SessionAbsoluteTTL.Seconds()), false)

		slog.Info("admin login", slog.String("ip", ip), slog.Bool("rememberMe", req.RememberMe))

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"csrfToken": csrfToken,
			"expiresIn": int(accessTTL.Seconds()),
		})
	}
}

// -------- Logout --------

func LogoutHandler(cfg *config.Config, sessions auth.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionID, err := c.Cookie("session_id"); err == nil && sessionID != "" {
			sessions.Delete(sessionID)
		}

		w := cookieWriter{c: c, secure: cfg.Production}
		w.clear("access_token")
		w.clear("refresh_token")
		w.clear("session_id")
		w.clear("csrf_token")

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// -------- Refresh --------

// RefreshHandler rotates the access token off the HttpOnly refresh
// cookie. The session must still exist; revocation wins over any
// not-yet-expired refresh token.
func RefreshHandler(cfg *config.Config, issuer *auth.TokenIssuer, sessions auth.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		refreshToken, err := c.Cookie("refresh_token")
		if err != nil || refreshToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token missing"})
			return
		}

		claims, err := issuer.VerifyRefresh(refreshToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
			return
		}

		if _, ok := sessions.Get(claims.SessionID); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}
		sessions.Touch(claims.SessionID, c.Request.UserAgent(), c.ClientIP())
		sessions.Sweep()

		accessToken, err := issuer.IssueAccess(claims.UserID, claims.SessionID, auth.AccessTokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
			return
		}

		w := cookieWriter{c: c, secure: cfg.Production}
		w.set("access_token", accessToken, int(auth.AccessTokenTTL.Seconds()), false)

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"expiresIn": int(auth.AccessTokenTTL.Seconds()),
		})
	}
}
