package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rishabh-devloper/wealthwise/internal/middleware/ratelimit"
)

func TestMutatingOnlyScopesRateLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerMinute: 1,
		CleanupInterval:   time.Minute,
	})
	t.Cleanup(limiter.Stop)

	handler := mutatingOnly(limiter.Middleware(func(*http.Request) string { return "10.0.0.1" }))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	// Reads never consume the budget.
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("GET %d status = %d, want 200", i+1, rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("first POST status = %d, want 200", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second POST status = %d, want 429", rr.Code)
	}

	// Still readable while writes are throttled.
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("GET after throttle status = %d, want 200", rr.Code)
	}
}
