package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Post("/v1/search", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	r.Post("/v1/intent", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	r.Post("/v1/clicks", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	return r
}

func TestMetricsMiddleware_Outcomes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		method  string
		path    string
		route   string
		status  string
		outcome string
	}{
		{"POST", "/v1/search", "/v1/search", "200", OutcomeOK},
		{"POST", "/v1/intent", "/v1/intent", "429", OutcomeRateLimited},
		{"POST", "/v1/clicks", "/v1/clicks", "400", OutcomeClientError},
		{"GET", "/health", "/health", "503", OutcomeServerError},
		{"GET", "/nope", "unknown", "404", OutcomeClientError},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			counter := httpRequestsTotal.WithLabelValues(tc.method, tc.route, tc.status, tc.outcome)
			before := testutil.ToFloat64(counter)

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tc.method, tc.path, http.NoBody))

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("expected one %s request on %s, got %v", tc.outcome, tc.route, got)
			}
		})
	}

	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds observations")
	}
}

func TestMetricsMiddleware_CountsPreflight(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/v1/intent", http.NoBody)
	req.Header.Set("Origin", "https://regalo.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code >= 400 {
		t.Fatalf("preflight rejected with %d", rr.Code)
	}
	var total float64
	for _, s := range []string{"200", "204"} {
		total += testutil.ToFloat64(httpRequestsTotal.WithLabelValues("OPTIONS", routePreflight, s, OutcomePreflight))
	}
	if total < 1 {
		t.Errorf("expected a preflight sample, got %v", total)
	}
}

func TestOutcome_PlainOptionsIsNotPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/v1/intent", http.NoBody)
	if got := outcome(req, http.StatusMethodNotAllowed); got != OutcomeClientError {
		t.Errorf("outcome = %q, want %q", got, OutcomeClientError)
	}
}

func TestRouteLabel_OutsideChi(t *testing.T) {
	if got := routeLabel(httptest.NewRequest("GET", "/x", http.NoBody)); got != "unknown" {
		t.Errorf("routeLabel = %q, want unknown", got)
	}
}
