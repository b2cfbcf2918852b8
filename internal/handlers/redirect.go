package handlers

import (
	"net/http"
	"net/url"
	"time"

	"tuitionmap/internal/services"

	"github.com/gin-gonic/gin"
)

type RedirectHandler struct {
	tracking *services.TrackingService
}

func NewRedirectHandler() *RedirectHandler {
	return &RedirectHandler{
		tracking: services.GetTrackingService(),
	}
}

// Redirect handles GET /api/r?centreId=<s>&to=<url>: validate the
// destination, queue the click log, 302 out. The log is best-effort and adds
// no latency; the redirect never waits on it.
func (h *RedirectHandler) Redirect(c *gin.Context) {
	centreID := c.Query("centreId")
	if centreID == "" {
		centreID = "unknown"
	}

	// Only the first `to` counts; extras on a crafted link are ignored.
	dest := c.Query("to")
	if dest == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing destination"})
		return
	}

	// Absolute http/https only. Everything else — relative paths,
	// javascript:, data:, file: — is an open-redirect or injection vector.
	parsed, err := url.Parse(dest)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid destination"})
		return
	}

	h.tracking.Track(services.ClickRecord{
		CentreID:    centreID,
		Destination: dest,
		SourcePage:  c.GetHeader("Referer"),
		UserAgent:   c.GetHeader("User-Agent"),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})

	c.Redirect(http.StatusFound, dest)
}
