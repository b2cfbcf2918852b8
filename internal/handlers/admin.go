package handlers

import (
	"net/http"
	"os"

	"tuitionmap/internal/comments"
	"tuitionmap/internal/middleware"
	"tuitionmap/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AdminHandler is the moderation surface. It is the only caller of the
// store's elevated operations; access is gated by the session middleware,
// and the store performs no further checks.
type AdminHandler struct {
	store *comments.Store
}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{
		store: comments.NewStore(),
	}
}

func (h *AdminHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "admin/login.html", gin.H{"Title": "Admin login"})
}

// Login checks the submitted password against the bcrypt hash from the
// environment. There are no admin accounts, just one operator credential.
func (h *AdminHandler) Login(c *gin.Context) {
	hash := os.Getenv("ADMIN_PASSWORD_HASH")
	if hash == "" {
		Render(c, http.StatusForbidden, "admin/login.html", gin.H{"Error": "Admin access is not configured"})
		return
	}

	password := c.PostForm("password")
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		Render(c, http.StatusUnauthorized, "admin/login.html", gin.H{"Error": "Wrong password"})
		return
	}

	if err := middleware.SetAdmin(c, true); err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not save session")
		return
	}
	c.Redirect(http.StatusFound, "/admin/comments")
}

func (h *AdminHandler) Logout(c *gin.Context) {
	middleware.SetAdmin(c, false)
	c.Redirect(http.StatusFound, "/")
}

// ListComments shows every comment, hidden included, newest first.
func (h *AdminHandler) ListComments(c *gin.Context) {
	centreID := c.Query("centreId")

	limit := utils.StringToInt(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := utils.StringToInt(c.Query("offset"))
	if offset < 0 {
		offset = 0
	}

	rows, err := h.store.AdminFetchAll(centreID, limit, offset)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load comments")
		return
	}

	Render(c, http.StatusOK, "admin/comments.html", gin.H{
		"Title":    "Moderation",
		"Comments": rows,
		"CentreID": centreID,
		"Offset":   offset,
		"Limit":    limit,
		"HasMore":  len(rows) == limit,
	})
}

// ToggleHidden flips the soft-delete flag on one comment.
func (h *AdminHandler) ToggleHidden(c *gin.Context) {
	comment, err := h.store.AdminToggleHidden(c.Param("cid"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	label := "Hide"
	if comment.Hidden {
		label = "Unhide"
	}
	c.String(http.StatusOK, label)
}

// DeleteComment hard-deletes a comment and its replies. Hiding is the
// day-to-day tool; this is for the irrecoverable cases.
func (h *AdminHandler) DeleteComment(c *gin.Context) {
	if err := h.store.AdminDelete(c.Param("cid")); err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusOK)
}
