package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"papertrade/internal/clock"
	"papertrade/internal/config"
	apperrors "papertrade/internal/errors"
	"papertrade/internal/models"
)

// SessionCookie is the cookie clients may carry the session token in, as an
// alternative to the Authorization header.
const SessionCookie = "session_token"

// SessionClaims are the claims encoded in a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// AuthGate issues and validates session tokens. It is constructed once at
// startup with the process configuration; the signing key is never read
// ambiently.
type AuthGate struct {
	cfg   *config.Config
	db    *gorm.DB
	clock clock.Clock
}

// NewAuthGate creates an AuthGate.
func NewAuthGate(cfg *config.Config, db *gorm.DB, clk clock.Clock) *AuthGate {
	return &AuthGate{cfg: cfg, db: db, clock: clk}
}

// IssueToken creates a signed, time-limited session token for the given email.
func (g *AuthGate) IssueToken(email string) (string, error) {
	now := g.clock.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(g.cfg.JWTExpirationDur)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "papertrade-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(g.cfg.JWTSecret))
}

// TokenTTL returns the configured token lifetime, used when setting the
// session cookie.
func (g *AuthGate) TokenTTL() time.Duration {
	return g.cfg.JWTExpirationDur
}

// Middleware verifies the session token, confirms its subject still exists in
// the credential store, and sets userID and email in the context. Expiry is
// checked against the gate's own clock, the same one tokens are issued on.
func (g *AuthGate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			abortWith(c, apperrors.ErrMissingToken)
			return
		}

		claims := &SessionClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(g.cfg.JWTSecret), nil
		}, jwt.WithTimeFunc(g.clock.Now))
		if err != nil || !token.Valid || claims.Subject == "" {
			abortWith(c, apperrors.ErrInvalidToken)
			return
		}

		// The subject must still exist in the credential store; tokens for
		// deleted users are dead on arrival.
		var cred models.Credential
		if err := g.db.Where("email = ?", claims.Subject).First(&cred).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortWith(c, apperrors.ErrUnknownSubject)
				return
			}
			abortWith(c, apperrors.ErrInternalServer)
			return
		}

		var user models.User
		if err := g.db.Where("email = ?", claims.Subject).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortWith(c, apperrors.ErrUnknownSubject)
				return
			}
			abortWith(c, apperrors.ErrInternalServer)
			return
		}

		c.Set("userID", user.ID)
		c.Set("email", user.Email)
		c.Next()
	}
}

// extractToken pulls the bearer token from the Authorization header, falling
// back to the session cookie.
func extractToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1], true
		}
		return "", false
	}

	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie == "" {
		return "", false
	}
	return cookie, true
}

func abortWith(c *gin.Context, appErr *apperrors.AppError) {
	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
	c.Abort()
}
