package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token lifetimes. Access tokens are short-lived unless the admin asked
// to be remembered; refresh tokens mint new access tokens without a
// password for up to a week.
const (
	AccessTokenTTL   = 15 * time.Minute
	RememberMeTTL    = 30 * 24 * time.Hour
	RefreshTokenTTL  = 7 * 24 * time.Hour
	SessionAbsoluteTTL = 30 * 24 * time.Hour
)

const refreshTokenType = "refresh"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrNotRefresh   = errors.New("token is not a refresh token")
)

// Claims carried by both access and refresh credentials.
type Claims struct {
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	SessionID string `json:"sessionId"`
	TokenType string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 credentials.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), now: time.Now}
}

func (t *TokenIssuer) issue(userID, sessionID, tokenType string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := Claims{
		UserID:    userID,
		Role:      "admin",
		SessionID: sessionID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// IssueAccess mints a short-lived access credential for the session.
func (t *TokenIssuer) IssueAccess(userID, sessionID string, ttl time.Duration) (string, error) {
	return t.issue(userID, sessionID, "", ttl)
}

// IssueRefresh mints the long-lived refresh credential for the session.
func (t *TokenIssuer) IssueRefresh(userID, sessionID string) (string, error) {
	return t.issue(userID, sessionID, refreshTokenType, RefreshTokenTTL)
}

// Verify parses a credential and rejects bad signatures, wrong signing
// methods and expired tokens.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return t.now() }))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyRefresh parses a credential and additionally requires the
// refresh token type.
func (t *TokenIssuer) VerifyRefresh(tokenString string) (*Claims, error) {
	claims, err := t.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != refreshTokenType {
		return nil, ErrNotRefresh
	}
	return claims, nil
}

// RandomToken returns n random bytes hex-encoded, used for session ids
// and CSRF tokens.
func RandomToken(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand failure is not recoverable
	}
	return hex.EncodeToString(buf)
}
