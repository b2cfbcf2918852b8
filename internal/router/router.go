package router

import (
	"tuitionmap/internal/handlers"
	"tuitionmap/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	centreHandler := handlers.NewCentreHandler()
	commentHandler := handlers.NewCommentHandler()
	redirectHandler := handlers.NewRedirectHandler()
	adminHandler := handlers.NewAdminHandler()

	// Public pages
	r.GET("/", centreHandler.List)      // Landing / search
	r.GET("/c/:id", centreHandler.Detail) // Centre detail

	// Comment API (consumed by the detail page widget)
	api := r.Group("/api")
	{
		api.GET("/centres/:id/comments", commentHandler.List)
		api.POST("/centres/:id/comments", commentHandler.Create)
		api.GET("/comments/:cid/replies", commentHandler.Replies)
		api.POST("/visitor/name", commentHandler.RememberName)

		api.GET("/r", redirectHandler.Redirect) // Tracked outbound redirect
	}

	// Moderation surface
	r.GET("/admin/login", adminHandler.ShowLogin)
	r.POST("/admin/login", adminHandler.Login)
	r.GET("/admin/logout", adminHandler.Logout)

	admin := r.Group("/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/comments", adminHandler.ListComments)
		admin.POST("/comments/:cid/hidden", adminHandler.ToggleHidden)
		admin.DELETE("/comments/:cid", adminHandler.DeleteComment)
	}
}
