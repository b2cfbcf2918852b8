package utils

import (
	"net/url"
	"strings"

	"tuitionmap/internal/models"
)

// ContactDestination resolves the primary contact action for a centre.
// WhatsApp numbers become wa.me links, call numbers tel: links; a number of
// unknown type defaults to tel:. No number means no action ("").
func ContactDestination(centre *models.Centre) string {
	number := strings.Join(strings.Fields(centre.ContactNumber), "")
	if number == "" {
		return ""
	}

	switch centre.ContactType {
	case models.ContactWhatsApp:
		return "https://wa.me/" + strings.TrimPrefix(number, "+")
	case models.ContactCall:
		return "tel:" + number
	default:
		return "tel:" + number
	}
}

// RedirectURL routes a destination through the tracked redirect endpoint so
// every outbound click is logged, whichever button triggered it. The endpoint
// only forwards http/https, so tel: links are returned as-is rather than
// bounced into a guaranteed 400.
func RedirectURL(centreID, destination string) string {
	if destination == "" {
		return ""
	}
	if !strings.HasPrefix(destination, "http://") && !strings.HasPrefix(destination, "https://") {
		return destination
	}
	q := url.Values{}
	q.Set("centreId", centreID)
	q.Set("to", destination)
	return "/api/r?" + q.Encode()
}
