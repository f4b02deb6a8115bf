package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const ContextActorID = "actor_id"

// AuthMiddleware validates the Bearer token and stores the acting user's ID
// in the context. The core never authenticates beyond this; it only records
// who acted on every mutating call.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims := jwt.MapClaims{}
		parsedToken, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !parsedToken.Valid {
			abortUnauthorized(c, "invalid token")
			return
		}

		actorIDStr, ok := claims["user_id"].(string)
		if !ok {
			abortUnauthorized(c, "invalid user ID in token")
			return
		}

		actorID, err := uuid.Parse(actorIDStr)
		if err != nil {
			abortUnauthorized(c, "invalid user ID in token")
			return
		}

		c.Set(ContextActorID, actorID)
		c.Next()
	}
}

// ActorID returns the authenticated actor stored by AuthMiddleware.
func ActorID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextActorID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"code": "UNAUTHORIZED", "message": msg},
	})
	c.Abort()
}
