package leave

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
	leaves := r.Group("/leaves")
	leaves.Use(authMW)
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetById)
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Submit)
		leaves.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "decide"), handler.Approve)
		leaves.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "decide"), handler.Reject)
		leaves.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "cancel"), handler.Cancel)
		leaves.POST("/:id/document", middleware.RBACAuthorize(rbacService, "leave", "update"), handler.DeliverDocument)
		leaves.POST("/:id/compensation-hours", middleware.RBACAuthorize(rbacService, "leave", "update"), handler.RegisterCompensationHours)
		leaves.POST("/:id/resolution", middleware.RBACAuthorize(rbacService, "leave", "decide"), handler.ChangeResolution)
		leaves.POST("/:id/convert-to-sick-leave", middleware.RBACAuthorize(rbacService, "leave", "convert"), handler.ConvertToSickLeave)
	}
}
