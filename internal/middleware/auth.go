package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const VisitorNameKey = "visitor_name"
const adminSessionKey = "is_admin"

// LoadVisitor copies the remembered visitor name from the session into the
// request context. Commenters are named visitors, not accounts.
func LoadVisitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if name, ok := session.Get(VisitorNameKey).(string); ok && name != "" {
			c.Set(VisitorNameKey, name)
		}
		c.Next()
	}
}

// AdminRequired gates the moderation surface. This is the authorization
// boundary: the comment store itself performs no checks.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if ok, _ := session.Get(adminSessionKey).(bool); !ok {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetAdmin marks or clears the admin flag on the session.
func SetAdmin(c *gin.Context, admin bool) error {
	session := sessions.Default(c)
	if admin {
		session.Set(adminSessionKey, true)
	} else {
		session.Delete(adminSessionKey)
	}
	return session.Save()
}
