package handlers

import (
	"os"

	"tuitionmap/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like the visitor name
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	obj["VisitorName"] = ""
	if visitor, exists := c.Get(middleware.VisitorNameKey); exists {
		obj["VisitorName"] = visitor
	}
	if _, ok := obj["Query"]; !ok {
		obj["Query"] = ""
	}

	// Client-side tracking posts to its own webhook, configured separately
	// from the redirect endpoint's one.
	obj["ClientTrackWebhook"] = os.Getenv("CLIENT_TRACK_WEBHOOK_URL")
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}
