package handlers

import (
	"errors"
	"net/http"

	"tuitionmap/internal/comments"
	"tuitionmap/internal/middleware"
	"tuitionmap/internal/models"
	"tuitionmap/internal/utils"
	"tuitionmap/internal/view"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	store *comments.Store
}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{
		store: comments.NewStore(),
	}
}

// List returns one page of a centre's top-level comments as JSON.
// Query params: limit (default 20, max 50), offset, level+subject filter.
func (h *CommentHandler) List(c *gin.Context) {
	centreID := c.Param("id")

	limit := utils.StringToInt(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 50 {
		limit = view.PageSize
	}
	offset := utils.StringToInt(c.Query("offset"))
	if offset < 0 {
		offset = 0
	}

	rows, err := h.store.FetchComments(centreID, limit, offset, c.Query("level"), c.Query("subject"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": rows,
		// Full page implies more; heuristic, not an exact total.
		"hasMore": len(rows) == limit,
	})
}

// Replies returns one page of a comment's replies, oldest first.
func (h *CommentHandler) Replies(c *gin.Context) {
	parentID := utils.StringToInt(c.Param("cid"))
	if parentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad comment id"})
		return
	}

	limit := utils.StringToInt(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 50 {
		limit = view.PageSize
	}
	offset := utils.StringToInt(c.Query("offset"))
	if offset < 0 {
		offset = 0
	}

	rows, err := h.store.FetchReplies(uint(parentID), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load replies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"replies": rows,
		"hasMore": len(rows) == limit,
	})
}

type createCommentRequest struct {
	Username string  `json:"username"`
	Content  string  `json:"content"`
	ParentID *uint   `json:"parent_id"`
	Level    *string `json:"level"`
	Subject  *string `json:"subject"`
}

// Create stores a new comment or reply. The visitor name is remembered on
// the session so the composer can skip the prompt next time.
func (h *CommentHandler) Create(c *gin.Context) {
	centreID := c.Param("id")

	var centre models.Centre
	if !centreExists(centreID, &centre) {
		c.JSON(http.StatusNotFound, gin.H{"error": "centre not found"})
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}

	comment, err := h.store.Create(centreID, req.Username, req.Content, req.ParentID, req.Level, req.Subject)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, comments.ErrParentNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.VisitorNameKey, comment.Username)
	// Losing the remembered name is not worth failing the write.
	_ = session.Save()

	c.JSON(http.StatusCreated, comment)
}

// RememberName stores the visitor name for the composer flow without
// requiring a comment first.
func (h *CommentHandler) RememberName(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.VisitorNameKey, req.Username)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save session"})
		return
	}
	c.Status(http.StatusNoContent)
}
