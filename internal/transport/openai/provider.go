package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/regalo/internal/domain"
	domintent "github.com/kailas-cloud/regalo/internal/domain/intent"
	"github.com/kailas-cloud/regalo/internal/metrics"
)

// Default endpoints and models of the hosted providers.
const (
	DefaultOpenAIBaseURL   = "https://api.openai.com/v1"
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultDeepSeekBaseURL = "https://api.deepseek.com/v1"
	DefaultDeepSeekModel   = "deepseek-chat"
)

// maxAttempts bounds calls per query: one retry on non-JSON content.
const maxAttempts = 2

const temperature = 0.3

const systemPrompt = `Eres un asistente experto en análisis de intenciones de compra de regalos.
Analiza la consulta del usuario y extrae información estructurada sobre qué tipo de regalo están buscando.

Responde SOLO con un JSON válido en este formato exacto:
{
  "intent": "gift_search",
  "keywords": ["palabra1", "palabra2", ...],
  "categories": ["categoria1", "categoria2", ...],
  "price_range": { "min": número o null, "max": número o null },
  "age_range": { "min": número o null, "max": número o null },
  "notes": "observaciones adicionales"
}

Reglas:
- keywords: mínimo 1, máximo 10 palabras clave relevantes
- categories: categorías de productos (ej: "tecnología", "ropa", "libros", "deportes", "hogar", "juguetes", "belleza", "accesorios")
- price_range: extrae rangos de precio si se mencionan (en USD), null si no se menciona
- age_range: extrae rango de edad si se menciona, null si no se menciona
- notes: cualquier información adicional relevante`

// Provider parses gift queries with an OpenAI-compatible chat completion API.
// OpenAI and DeepSeek differ only by base URL, model and key.
type Provider struct {
	client   *openai.Client
	model    string
	provider string
	logger   *zap.Logger
}

// Config holds the hosted provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

// NewProvider creates a hosted intent provider.
func NewProvider(cfg *Config) *Provider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// Model returns the chat model the provider calls.
func (p *Provider) Model() string { return p.model }

// ParseIntent asks the model for a structured intent.
// Non-JSON content is retried once; shape mismatches are returned immediately.
func (p *Provider) ParseIntent(ctx context.Context, query string) (domintent.Intent, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		in, err := p.attempt(ctx, query)
		if err == nil {
			return in, nil
		}
		lastErr = err
		if !errors.Is(err, domain.ErrMalformedIntent) {
			return domintent.Intent{}, err
		}
		p.logger.Warn("Intent provider returned malformed JSON",
			zap.String("provider", p.provider),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return domintent.Intent{}, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

func (p *Provider) attempt(ctx context.Context, query string) (domintent.Intent, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Analiza esta consulta de búsqueda de regalo: %q", query)},
		},
		Temperature: temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()

	resp, err := p.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.IntentRequestsTotal.WithLabelValues(p.provider, "error").Inc()
		return domintent.Intent{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.IntentRequestsTotal.WithLabelValues(p.provider, "empty").Inc()
		return domintent.Intent{}, fmt.Errorf("empty completion: %w", domain.ErrIntentProviderError)
	}

	metrics.IntentRequestDuration.WithLabelValues(p.provider).Observe(duration.Seconds())

	in, err := domintent.Decode(query, []byte(stripCodeFence(resp.Choices[0].Message.Content)))
	if err != nil {
		metrics.IntentRequestsTotal.WithLabelValues(p.provider, "invalid").Inc()
		return domintent.Intent{}, fmt.Errorf("decode intent: %w", err)
	}

	metrics.IntentRequestsTotal.WithLabelValues(p.provider, "success").Inc()
	return in, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (p *Provider) HealthCheck(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// stripCodeFence removes a markdown code fence some models wrap JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseAPIError extracts a human-readable error from the API response.
// All errors wrap domain.ErrIntentProviderError; the cause stays reachable for timeout checks.
func parseAPIError(err error) error {
	wrap := domain.ErrIntentProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("intent API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("intent API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("intent request failed: %w: %w", wrap, err)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
