package employee

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
	employees := r.Group("/employees")
	employees.Use(authMW)
	{
		employees.GET("", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetAll)
		employees.GET("/:id", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetById)
		employees.GET("/:id/status", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetStatus)
		employees.POST("", middleware.RBACAuthorize(rbacService, "employee", "create"), handler.Create)
		employees.POST("/:id/transition", middleware.RBACAuthorize(rbacService, "employee", "transition"), handler.RequestTransition)
	}
}
