package services

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sync"
	"time"
)

// ClickRecord is the payload shipped to the tracking webhook for every
// outbound redirect.
type ClickRecord struct {
	CentreID    string `json:"centreId"`
	Destination string `json:"destination"`
	SourcePage  string `json:"sourcePage"`
	UserAgent   string `json:"userAgent"`
	Timestamp   string `json:"timestamp"` // ISO-8601
}

// TrackingService delivers click records to a configured webhook,
// best-effort. Delivery is decoupled from the request path: records go onto
// a buffered queue and a worker posts them one attempt each, no retry.
// A missing webhook URL disables the service, which is a valid state.
type TrackingService struct {
	WebhookURL string
	Enabled    bool

	queue  chan ClickRecord
	client *http.Client
}

var (
	trackingService *TrackingService
	trackingOnce    sync.Once
)

// ResetTrackingForTest drops the singleton so tests can re-read the
// environment. Not for production use.
func ResetTrackingForTest() {
	trackingService = nil
	trackingOnce = sync.Once{}
}

// GetTrackingService returns the singleton tracking service.
func GetTrackingService() *TrackingService {
	trackingOnce.Do(func() {
		trackingService = newTrackingService()
		go trackingService.worker()
	})
	return trackingService
}

func newTrackingService() *TrackingService {
	url := os.Getenv("TRACK_WEBHOOK_URL")
	if url == "" {
		log.Println("TrackingService disabled: TRACK_WEBHOOK_URL not set")
	}
	return &TrackingService{
		WebhookURL: url,
		Enabled:    url != "",
		queue:      make(chan ClickRecord, 1000),
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Track enqueues a record without blocking. A full queue drops the record;
// click logging never adds latency to the redirect.
func (s *TrackingService) Track(rec ClickRecord) {
	if !s.Enabled {
		return
	}
	select {
	case s.queue <- rec:
	default:
		log.Printf("Tracking queue full, dropping click for centre %s", rec.CentreID)
	}
}

func (s *TrackingService) worker() {
	for rec := range s.queue {
		s.deliver(rec)
	}
}

// deliver makes the single delivery attempt. Failures are logged locally and
// otherwise swallowed.
func (s *TrackingService) deliver(rec ClickRecord) {
	body, err := json.Marshal(rec)
	if err != nil {
		log.Printf("Failed to encode click record: %v", err)
		return
	}

	resp, err := s.client.Post(s.WebhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("Failed to deliver click record for centre %s: %v", rec.CentreID, err)
		return
	}
	resp.Body.Close() // response content is ignored
}
