package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/regalo/internal/domain"
	domanalytics "github.com/kailas-cloud/regalo/internal/domain/analytics"
	domintent "github.com/kailas-cloud/regalo/internal/domain/intent"
	logpkg "github.com/kailas-cloud/regalo/internal/logger"
	analyticsuc "github.com/kailas-cloud/regalo/internal/usecase/analytics"
	healthuc "github.com/kailas-cloud/regalo/internal/usecase/health"
	searchuc "github.com/kailas-cloud/regalo/internal/usecase/search"
	"github.com/kailas-cloud/regalo/internal/version"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// IntentParser parses free-text queries.
type IntentParser interface {
	Parse(ctx context.Context, query string) (domintent.Intent, error)
}

// Searcher runs the search pipeline.
type Searcher interface {
	Search(ctx context.Context, req searchuc.Request) (searchuc.Response, error)
}

// ClickRecorder stores product clicks.
type ClickRecorder interface {
	RecordClick(ctx context.Context, in analyticsuc.ClickInput) (domanalytics.LeadAttribution, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Pagination bounds applied to search requests.
type Pagination struct {
	DefaultLimit int
	MaxLimit     int
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the regalo HTTP API.
type Server struct {
	intents       IntentParser
	search        Searcher
	clicks        ClickRecorder
	health        HealthChecker
	page          Pagination
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	intents IntentParser,
	search Searcher,
	clicks ClickRecorder,
	health HealthChecker,
	page Pagination,
	logger *zap.Logger,
) *Server {
	if page.DefaultLimit <= 0 {
		page.DefaultLimit = 20
	}
	if page.MaxLimit < page.DefaultLimit {
		page.MaxLimit = page.DefaultLimit
	}
	s := &Server{
		intents: intents,
		search:  search,
		clicks:  clicks,
		health:  health,
		page:    page,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrIntentProviderError, http.StatusBadGateway, CodeIntentProviderError),
	}
	return s
}

// ParseIntent handles POST /v1/intent.
func (s *Server) ParseIntent(w http.ResponseWriter, r *http.Request) {
	var req IntentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	in, err := s.intents.Parse(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, in.Payload())
}

// Search handles POST /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	searchReq, err := s.searchRequestFromAPI(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	resp, err := s.search.Search(r.Context(), searchReq)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseToAPI(&resp))
}

// RecordClick handles POST /v1/clicks.
func (s *Server) RecordClick(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if !decodeBody(w, r, &req) {
		return
	}

	in, err := clickInputFromAPI(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}
	in.UserAgent = r.UserAgent()
	in.Referrer = r.Referer()

	lead, err := s.clicks.RecordClick(r.Context(), in)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, ClickResponse{
		ClickID:     lead.ClickID.String(),
		Attribution: lead,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) searchRequestFromAPI(req SearchRequest) (searchuc.Request, error) {
	limit := s.page.DefaultLimit
	if req.Limit != nil {
		if *req.Limit <= 0 || *req.Limit > s.page.MaxLimit {
			return searchuc.Request{}, fmt.Errorf("limit must be between 1 and %d", s.page.MaxLimit)
		}
		limit = *req.Limit
	}
	offset := 0
	if req.Offset != nil {
		if *req.Offset < 0 {
			return searchuc.Request{}, errors.New("offset must not be negative")
		}
		offset = *req.Offset
	}
	return searchuc.Request{Query: req.Query, Limit: limit, Offset: offset}, nil
}

func searchResponseToAPI(resp *searchuc.Response) SearchResponse {
	hits := make([]SearchHit, len(resp.Hits))
	for i, h := range resp.Hits {
		hits[i] = SearchHit{Product: h.Product, Score: h.Score, Estimate: h.Estimate}
	}

	keywords := resp.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	out := SearchResponse{
		Intent:   resp.Intent.Payload(),
		Keywords: keywords,
		Products: hits,
		Total:    resp.Total,
		Limit:    resp.Limit,
		Offset:   resp.Offset,
	}
	if resp.SessionID != nil {
		id := resp.SessionID.String()
		out.SessionID = &id
	}
	return out
}

func clickInputFromAPI(req ClickRequest) (analyticsuc.ClickInput, error) {
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return analyticsuc.ClickInput{}, errors.New("session_id must be a UUID")
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return analyticsuc.ClickInput{}, errors.New("product_id must be a UUID")
	}
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return analyticsuc.ClickInput{}, errors.New("store_id must be a UUID")
	}
	return analyticsuc.ClickInput{SessionID: sessionID, ProductID: productID, StoreID: storeID}, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrNotFound,
		domain.ErrRateLimited,
		domain.ErrIntentProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
