package main

import (
	"fmt"
	"html/template"
	"log"
	"os"
	"time"

	"tuitionmap/internal/db"
	"tuitionmap/internal/middleware"
	"tuitionmap/internal/router"
	"tuitionmap/internal/services"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Start the click-tracking worker
	services.GetTrackingService()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("tuitionmap_session", store))

	// Load Templates using Multitemplate to avoid collision and allow handler names
	r.HTMLRender = loadTemplates("./web/templates")

	// Static Assets
	r.Static("/static", "./web/static")

	// Middleware
	r.Use(middleware.LoadVisitor())

	router.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("TuitionMap server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts := []string{templatesDir + "/layouts/base.html"}

	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+1)
		files = append(files, layouts...)
		files = append(files, view)
		return files
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"timeAgo": func(t interface{}) string {
			timeVal, ok := t.(time.Time)
			if !ok {
				return ""
			}
			return timeAgo(timeVal)
		},
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}

	r.AddFromFilesFuncs("centre/list.html", funcMap, assemble(templatesDir+"/views/centre/list.html")...)
	r.AddFromFilesFuncs("centre/detail.html", funcMap, assemble(templatesDir+"/views/centre/detail.html")...)
	r.AddFromFilesFuncs("admin/login.html", funcMap, assemble(templatesDir+"/views/admin/login.html")...)
	r.AddFromFilesFuncs("admin/comments.html", funcMap, assemble(templatesDir+"/views/admin/comments.html")...)
	r.AddFromFilesFuncs("error.html", funcMap, assemble(templatesDir+"/views/error.html")...)

	return r
}

func timeAgo(t time.Time) string {
	seconds := int(time.Since(t).Seconds())

	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh ago", seconds/3600)
	case seconds < 2592000:
		return fmt.Sprintf("%dd ago", seconds/86400)
	case seconds < 31536000:
		return fmt.Sprintf("%dmo ago", seconds/2592000)
	}
	return fmt.Sprintf("%dy ago", seconds/31536000)
}
