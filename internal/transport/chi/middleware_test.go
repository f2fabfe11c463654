package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/regalo/internal/usecase/ratelimit"
)

func TestRateLimitMiddleware_NilLimiter(t *testing.T) {
	handler := RateLimitMiddleware(nil)(okHandler())

	for range 20 {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("POST", "/v1/intent", http.NoBody))
		if rr.Code != http.StatusOK {
			t.Fatalf("nil limiter must pass through, got %d", rr.Code)
		}
	}
}

func TestRateLimitMiddleware_SameClientSharesBucket(t *testing.T) {
	handler := RateLimitMiddleware(ratelimit.New(time.Minute, 1))(okHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest("POST", "/v1/intent", http.NoBody))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest("POST", "/v1/intent", http.NoBody))

	if first.Code != http.StatusOK || second.Code != http.StatusTooManyRequests {
		t.Errorf("got %d then %d, want 200 then 429", first.Code, second.Code)
	}
	if got := second.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}
}

func TestRateLimitMiddleware_DirectClientsLimitedSeparately(t *testing.T) {
	handler := RateLimitMiddleware(ratelimit.New(time.Minute, 1))(okHandler())

	for _, addr := range []string{"198.51.100.1:5000", "198.51.100.2:5000"} {
		req := httptest.NewRequest("POST", "/v1/intent", http.NoBody)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("client %s: got %d, want 200", addr, rr.Code)
		}
	}
}

func TestWideEventMiddleware_LogsRequest(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := chiMiddleware.RequestID(wideEventMiddleware(zap.New(core))(okHandler()))

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	req.Header.Set("X-Real-IP", "192.0.2.10")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 canonical log line, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusOK) {
		t.Errorf("status field = %v", fields["status"])
	}
	if fields["client_ip"] != "192.0.2.10" {
		t.Errorf("client_ip field = %v", fields["client_ip"])
	}
	if fields["request_id"] == "" {
		t.Error("expected request_id field")
	}
}

func TestJSONRecoverer(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	handler := jsonRecoverer(zap.NewNop())(panicky)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}
