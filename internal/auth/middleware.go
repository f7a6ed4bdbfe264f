package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	"github.com/rafaapcode/waitery-backend-sub000/internal/models"
)

const actorContextKey = "actor"

// Actor is the authenticated identity of a request.
type Actor struct {
	UserID         string
	Role           models.UserRole
	OrganizationID string
	Fingerprint    string
}

// Claims is the JWT payload issued by the external token issuer: subject
// is the user id, plus role, organization and a device-origin
// fingerprint.
type Claims struct {
	Role           string `json:"role"`
	OrganizationID string `json:"org"`
	Fingerprint    string `json:"fgp"`
	jwt.StandardClaims
}

// Middleware parses the bearer token and stores the actor in the
// request context.
func Middleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(actorContextKey, Actor{
			UserID:         claims.Subject,
			Role:           models.UserRole(claims.Role),
			OrganizationID: claims.OrganizationID,
			Fingerprint:    claims.Fingerprint,
		})
		c.Next()
	}
}

// ActorFrom returns the authenticated actor of the request.
func ActorFrom(c *gin.Context) (Actor, bool) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return Actor{}, false
	}
	actor, ok := v.(Actor)
	return actor, ok
}

// SignToken issues a token for the actor, signed with the shared
// secret. Production tokens come from the external issuer; this exists
// for local development and tests.
func SignToken(secret []byte, actor Actor, ttl time.Duration) (string, error) {
	claims := Claims{
		Role:           string(actor.Role),
		OrganizationID: actor.OrganizationID,
		Fingerprint:    actor.Fingerprint,
		StandardClaims: jwt.StandardClaims{
			Subject:   actor.UserID,
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
