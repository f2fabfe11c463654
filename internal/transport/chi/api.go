package chi

import (
	domanalytics "github.com/kailas-cloud/regalo/internal/domain/analytics"
	domcat "github.com/kailas-cloud/regalo/internal/domain/catalog"
	domintent "github.com/kailas-cloud/regalo/internal/domain/intent"
)

// ErrorCode is a machine-readable error identifier returned to clients.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest          ErrorCode = "bad_request"
	CodeValidationFailed    ErrorCode = "validation_failed"
	CodeUnauthorized        ErrorCode = "unauthorized"
	CodeNotFound            ErrorCode = "not_found"
	CodeRateLimited         ErrorCode = "rate_limited"
	CodeIntentProviderError ErrorCode = "intent_provider_error"
	CodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// IntentRequest is the body of POST /v1/intent.
type IntentRequest struct {
	Query string `json:"query"`
}

// SearchRequest is the body of POST /v1/search.
type SearchRequest struct {
	Query  string `json:"query"`
	Limit  *int   `json:"limit,omitempty"`
	Offset *int   `json:"offset,omitempty"`
}

// SearchHit is one ranked product.
type SearchHit struct {
	Product  domcat.Product   `json:"product"`
	Score    float64          `json:"score"`
	Estimate *domcat.Estimate `json:"estimated_price,omitempty"`
}

// SearchResponse is the body of a successful POST /v1/search.
type SearchResponse struct {
	Intent    domintent.Payload `json:"intent"`
	Keywords  []string          `json:"keywords"`
	Products  []SearchHit       `json:"products"`
	Total     int               `json:"total"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
	SessionID *string           `json:"session_id"`
}

// ClickRequest is the body of POST /v1/clicks.
type ClickRequest struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
	StoreID   string `json:"store_id"`
}

// ClickResponse is the body of a successful POST /v1/clicks.
type ClickResponse struct {
	ClickID     string                       `json:"click_id"`
	Attribution domanalytics.LeadAttribution `json:"attribution"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}
