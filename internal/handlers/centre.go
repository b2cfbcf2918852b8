package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"tuitionmap/internal/catalog"
	"tuitionmap/internal/comments"
	"tuitionmap/internal/db"
	"tuitionmap/internal/models"
	"tuitionmap/internal/utils"
	"tuitionmap/internal/view"

	"github.com/gin-gonic/gin"
)

type CentreHandler struct {
	store *comments.Store

	// Builds the comment section for one centre. A field so tests can
	// substitute a stub-backed section.
	newSection func(*models.Centre) *view.Section
}

func NewCentreHandler() *CentreHandler {
	h := &CentreHandler{store: comments.NewStore()}
	h.newSection = h.sectionFor
	return h
}

// sectionFor binds the comment store to the section view model. The same
// state machine drives the client-side widget; on the server it loads the
// first comment page for the initial render.
func (h *CentreHandler) sectionFor(centre *models.Centre) *view.Section {
	id := centre.ID
	load := func(f view.Filter, limit, offset int) ([]models.Comment, error) {
		return h.store.FetchComments(id, limit, offset, f.Level, f.Subject)
	}
	submit := func(username, text string, level, subject *string) error {
		_, err := h.store.Create(id, username, text, nil, level, subject)
		return err
	}
	return view.NewSection(centre.Offerings, load, submit)
}

// List renders the landing page: every centre, optionally narrowed by a
// free-text search over name and address.
func (h *CentreHandler) List(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	cacheKey := fmt.Sprintf("centre:list:%s", query)
	if cachedData := utils.GetCache().Get(cacheKey); cachedData != nil {
		if hData, ok := cachedData.(gin.H); ok {
			Render(c, http.StatusOK, "centre/list.html", hData)
			return
		}
	}

	var centres []models.Centre
	q := db.DB.Preload("Offerings").Order("name ASC")
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("name ILIKE ? OR address ILIKE ?", pattern, pattern)
	}
	if err := q.Find(&centres).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load centres")
		return
	}

	for i := range centres {
		centres[i].Offerings = catalog.DedupeOfferings(centres[i].Offerings)
		catalog.SortOfferings(centres[i].Offerings)
	}

	renderData := gin.H{
		"Centres": centres,
		"Query":   query,
		"Title":   "Tuition centres near you",
	}
	utils.GetCache().Set(cacheKey, renderData, 5*time.Minute)

	Render(c, http.StatusOK, "centre/list.html", renderData)
}

// centreExists checks the centre id against the reference data.
func centreExists(id string, centre *models.Centre) bool {
	return db.DB.Select("id").Where("id = ?", id).First(centre).Error == nil
}

// Detail renders one centre: offering groups, contact actions routed through
// the tracked redirect, and the first comment page. Only the centre data is
// cached; comments are loaded fresh on every render and paginated further
// over the JSON API.
func (h *CentreHandler) Detail(c *gin.Context) {
	id := c.Param("id")

	cacheKey := fmt.Sprintf("centre:detail:%s", id)
	if cachedData := utils.GetCache().Get(cacheKey); cachedData != nil {
		if hData, ok := cachedData.(gin.H); ok {
			h.renderDetail(c, hData)
			return
		}
	}

	var centre models.Centre
	if err := db.DB.Preload("Offerings").Where("id = ?", id).First(&centre).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Centre not found")
		return
	}

	centre.Offerings = catalog.DedupeOfferings(centre.Offerings)
	catalog.SortOfferings(centre.Offerings)
	groups := catalog.GroupOfferings(centre.Offerings)

	contact := utils.ContactDestination(&centre)

	renderData := gin.H{
		"Centre":         centre,
		"Blurb":          utils.RenderBlurb(centre.Blurb),
		"OfferingGroups": groups,
		"ContactURL":     utils.RedirectURL(centre.ID, contact),
		"WebsiteURL":     utils.RedirectURL(centre.ID, centre.WebsiteURL),
		"PageSize":       view.PageSize,
		"Title":          centre.Name,
	}
	utils.GetCache().Set(cacheKey, renderData, 5*time.Minute)

	h.renderDetail(c, renderData)
}

// renderDetail merges the cacheable centre data with a freshly loaded first
// comment page. Comments never enter the cache, so they cannot go stale on
// writes.
func (h *CentreHandler) renderDetail(c *gin.Context, base gin.H) {
	data := gin.H{}
	for k, v := range base {
		data[k] = v
	}

	centre, _ := data["Centre"].(models.Centre)
	section := h.newSection(&centre)
	if err := section.Reload(); err != nil {
		// The page renders without comments; the widget loads them over
		// the JSON API.
		log.Printf("First comment page failed for centre %s: %v", centre.ID, err)
	}
	data["Comments"] = section.Comments()
	data["HasMore"] = section.HasMore()

	Render(c, http.StatusOK, "centre/detail.html", data)
}
