package tracking

import (
	"go-foresthr/internal/middleware"
	"go-foresthr/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	authMW gin.HandlerFunc,
) {
	entries := r.Group("/tracking")
	entries.Use(authMW)
	{
		entries.GET("/:parentType/:parentId", middleware.RBACAuthorize(rbacService, "tracking", "read"), handler.QueryLedger)
	}
}
