package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"tuitionmap/internal/services"

	"github.com/gin-gonic/gin"
)

func newRedirectRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/r", NewRedirectHandler().Redirect)
	return r
}

func resetTracking(t *testing.T, webhookURL string) {
	t.Helper()
	if webhookURL == "" {
		os.Unsetenv("TRACK_WEBHOOK_URL")
	} else {
		os.Setenv("TRACK_WEBHOOK_URL", webhookURL)
	}
	services.ResetTrackingForTest()
}

func TestRedirectValidDestination(t *testing.T) {
	resetTracking(t, "")
	r := newRedirectRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/r?centreId=ace&to="+url.QueryEscape("https://example.com"), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "https://example.com" {
		t.Errorf("Location = %q", loc)
	}
}

func TestRedirectRejectsBadDestinations(t *testing.T) {
	resetTracking(t, "")
	r := newRedirectRouter()

	bad := []string{
		"javascript:alert(1)",
		"data:text/html,hi",
		"file:///etc/passwd",
		"ftp://example.com",
		"/relative/path",
		"example.com", // no scheme
		"https://",    // no host
	}
	for _, dest := range bad {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/r?to="+url.QueryEscape(dest), nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("to=%q: status = %d, want 400", dest, w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] == "" {
			t.Errorf("to=%q: expected error body, got %s", dest, w.Body.String())
		}
	}
}

func TestRedirectMissingDestination(t *testing.T) {
	resetTracking(t, "")
	r := newRedirectRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/r?centreId=ace", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRedirectUsesFirstToValue(t *testing.T) {
	resetTracking(t, "")
	r := newRedirectRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET",
		"/api/r?to="+url.QueryEscape("https://first.example.com")+"&to="+url.QueryEscape("https://second.example.com"), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "https://first.example.com" {
		t.Errorf("Location = %q, want the first to value", loc)
	}
}

func TestRedirectLogsClick(t *testing.T) {
	received := make(chan services.ClickRecord, 1)
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rec services.ClickRecord
		json.NewDecoder(r.Body).Decode(&rec)
		received <- rec
	}))
	defer webhook.Close()

	resetTracking(t, webhook.URL)
	r := newRedirectRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/r?centreId=ace&to="+url.QueryEscape("https://example.com"), nil)
	req.Header.Set("Referer", "/c/ace")
	req.Header.Set("User-Agent", "test-agent")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}

	select {
	case rec := <-received:
		if rec.CentreID != "ace" || rec.Destination != "https://example.com" {
			t.Errorf("record = %+v", rec)
		}
		if rec.SourcePage != "/c/ace" || rec.UserAgent != "test-agent" {
			t.Errorf("source/agent = %q/%q", rec.SourcePage, rec.UserAgent)
		}
		if _, err := time.Parse(time.RFC3339, rec.Timestamp); err != nil {
			t.Errorf("timestamp %q not RFC3339: %v", rec.Timestamp, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("click never logged")
	}
}

func TestRedirectNotBlockedBySlowWebhook(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(3 * time.Second)
	}))
	defer slow.Close()

	resetTracking(t, slow.URL)
	r := newRedirectRouter()

	start := time.Now()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/r?to="+url.QueryEscape("https://example.com"), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("redirect waited on the webhook: %v", elapsed)
	}
}
