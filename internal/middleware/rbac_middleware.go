package middleware

import (
	"net/http"

	"go-foresthr/internal/rbac"
	"go-foresthr/internal/shared/apperror"
	"go-foresthr/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACAuthorize gates a route on the actor's role. It runs after
// AuthMiddleware, which has already resolved actor_role.
func RBACAuthorize(service rbac.Service, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("actor_role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(role, resource, action)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "authorization check failed", nil)
			c.Abort()
			return
		}
		if !allowed {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden, "forbidden", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
