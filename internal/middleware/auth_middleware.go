package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"go-foresthr/internal/identity"
	"go-foresthr/internal/shared/apperror"
	"go-foresthr/internal/shared/contextutil"
	"go-foresthr/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token and resolves the caller into
// an actor. The role claim passes through the identity policy, so the
// everyone-is-administrator legacy mode lives there and nowhere else.
func AuthMiddleware(policy identity.RolePolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			msg := "invalid token"
			if err != nil && strings.Contains(err.Error(), "expired") {
				msg = "token expired"
			}
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, msg, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "invalid token claims", nil)
			c.Abort()
			return
		}

		actorID, ok := claims["actor_id"].(string)
		if !ok || actorID == "" {
			actorID, _ = claims["sub"].(string)
		}
		if actorID == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "actor id not found in token", nil)
			c.Abort()
			return
		}

		rawRole, _ := claims["role"].(string)
		role := policy.Resolve(rawRole)

		c.Set("actor_id", actorID)
		c.Set("actor_role", string(role))

		ctx := c.Request.Context()
		ctx = contextutil.WithActorID(ctx, actorID)
		ctx = contextutil.WithActorRole(ctx, string(role))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
