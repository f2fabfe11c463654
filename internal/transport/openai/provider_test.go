package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/regalo/internal/domain"
	"github.com/kailas-cloud/regalo/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

// chatServer answers every chat completion with the next content in contents.
func chatServer(t *testing.T, calls *atomic.Int32, contents ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		n := int(calls.Add(1)) - 1
		if n >= len(contents) {
			n = len(contents) - 1
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": contents[n]},
			}},
		})
	}))
}

func newTestProvider(url string) *Provider {
	return NewProvider(&Config{
		APIKey:   "test-key",
		BaseURL:  url,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})
}

const validIntent = `{"intent":"gift_search","keywords":["auriculares","bluetooth"],` +
	`"categories":["tecnología"],"price_range":{"min":null,"max":80},"age_range":{"min":null,"max":null},"notes":""}`

func TestProvider_ParseIntent(t *testing.T) {
	var calls atomic.Int32
	server := chatServer(t, &calls, validIntent)
	defer server.Close()

	in, err := newTestProvider(server.URL).ParseIntent(context.Background(), "auriculares bluetooth")
	if err != nil {
		t.Fatalf("ParseIntent failed: %v", err)
	}
	if len(in.Keywords()) != 2 || in.Categories()[0] != "tecnología" {
		t.Errorf("unexpected intent %+v", in.Payload())
	}
	if in.PriceRange().Min != nil || *in.PriceRange().Max != 80 {
		t.Errorf("unexpected price range %+v", in.PriceRange())
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
}

func TestProvider_RequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model          string  `json:"model"`
			Temperature    float32 `json:"temperature"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if body.Model != "test-model" {
			t.Errorf("unexpected model %q", body.Model)
		}
		if body.Temperature < 0.29 || body.Temperature > 0.31 {
			t.Errorf("unexpected temperature %v", body.Temperature)
		}
		if body.ResponseFormat.Type != "json_object" {
			t.Errorf("unexpected response format %q", body.ResponseFormat.Type)
		}
		if len(body.Messages) != 2 || body.Messages[0].Role != "system" || body.Messages[1].Role != "user" {
			t.Errorf("unexpected messages %+v", body.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": validIntent}}},
		})
	}))
	defer server.Close()

	if _, err := newTestProvider(server.URL).ParseIntent(context.Background(), "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProvider_RetriesOnceOnMalformedJSON(t *testing.T) {
	var calls atomic.Int32
	server := chatServer(t, &calls, "Claro, aquí tienes tu JSON", validIntent)
	defer server.Close()

	in, err := newTestProvider(server.URL).ParseIntent(context.Background(), "q")
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if len(in.Keywords()) != 2 {
		t.Errorf("unexpected keywords %v", in.Keywords())
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestProvider_MalformedTwice(t *testing.T) {
	var calls atomic.Int32
	server := chatServer(t, &calls, "not json")
	defer server.Close()

	_, err := newTestProvider(server.URL).ParseIntent(context.Background(), "q")
	if !errors.Is(err, domain.ErrMalformedIntent) {
		t.Fatalf("expected ErrMalformedIntent, got %v", err)
	}
	if calls.Load() != maxAttempts {
		t.Errorf("expected %d calls, got %d", maxAttempts, calls.Load())
	}
}

func TestProvider_ShapeMismatchNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := chatServer(t, &calls, `{"intent":"gift_search","keywords":[]}`)
	defer server.Close()

	_, err := newTestProvider(server.URL).ParseIntent(context.Background(), "q")
	if !errors.Is(err, domain.ErrInvalidIntent) {
		t.Fatalf("expected ErrInvalidIntent, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
}

func TestProvider_CodeFence(t *testing.T) {
	var calls atomic.Int32
	server := chatServer(t, &calls, "```json\n"+validIntent+"\n```")
	defer server.Close()

	if _, err := newTestProvider(server.URL).ParseIntent(context.Background(), "q"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProvider_EmptyContent(t *testing.T) {
	var calls atomic.Int32
	server := chatServer(t, &calls, "   ")
	defer server.Close()

	_, err := newTestProvider(server.URL).ParseIntent(context.Background(), "q")
	if !errors.Is(err, domain.ErrIntentProviderError) {
		t.Fatalf("expected ErrIntentProviderError, got %v", err)
	}
}

func TestProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "rate limit exceeded",
				"type":    "rate_limit_error",
			},
		})
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL).ParseIntent(context.Background(), "q")
	if !errors.Is(err, domain.ErrIntentProviderError) {
		t.Fatalf("expected ErrIntentProviderError, got %v", err)
	}
}

func TestProvider_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer server.Close()

	if err := newTestProvider(server.URL).HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		"{}":                "{}",
		"```json\n{}\n```":  "{}",
		"```\n{\"a\":1}```": "{\"a\":1}",
		"  {}  ":            "{}",
	}
	for in, want := range tests {
		if got := stripCodeFence(in); got != want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}
