package sickleave

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
	records := r.Group("/sick-leaves")
	records.Use(authMW)
	{
		records.GET("", middleware.RBACAuthorize(rbacService, "sick_leave", "read"), handler.GetAll)
		records.GET("/:id", middleware.RBACAuthorize(rbacService, "sick_leave", "read"), handler.GetById)
		records.POST("", middleware.RBACAuthorize(rbacService, "sick_leave", "create"), handler.Create)
		records.POST("/:id/finish", middleware.RBACAuthorize(rbacService, "sick_leave", "update"), handler.Finish)
		records.POST("/:id/transcribe", middleware.RBACAuthorize(rbacService, "sick_leave", "update"), handler.Transcribe)
		records.POST("/:id/file", middleware.RBACAuthorize(rbacService, "sick_leave", "update"), handler.File)
		records.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "sick_leave", "cancel"), handler.Cancel)
		records.POST("/:id/extend", middleware.RBACAuthorize(rbacService, "sick_leave", "update"), handler.Extend)
		records.POST("/:id/observations", middleware.RBACAuthorize(rbacService, "sick_leave", "update"), handler.AddObservation)
		records.POST("/:id/documents", middleware.RBACAuthorize(rbacService, "sick_leave", "update"), handler.AddDocument)
	}
}
