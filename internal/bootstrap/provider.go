// Package bootstrap assembles the intent provider chain and the search pipeline from configuration.
package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/regalo/internal/config"
	"github.com/kailas-cloud/regalo/internal/domain"
	domintent "github.com/kailas-cloud/regalo/internal/domain/intent"
	openaiprov "github.com/kailas-cloud/regalo/internal/transport/openai"
)

// HostedProvider builds the hosted intent provider named in configuration.
// It returns a nil provider for the local heuristic, ErrUnknownProvider for ids outside the
// supported set and ErrMissingCredentials for a hosted provider without an API key.
func HostedProvider(
	name string, providers map[string]config.ProviderConfig, logger *zap.Logger,
) (*openaiprov.Provider, domintent.ProviderID, error) {
	id, err := domintent.ParseProviderID(name)
	if err != nil {
		return nil, "", err
	}
	if !id.IsHosted() {
		return nil, id, nil
	}

	pc := providers[string(id)]
	if pc.APIKey == "" {
		return nil, id, fmt.Errorf("%w: intent.providers.%s.api_key is empty", domain.ErrMissingCredentials, id)
	}

	baseURL, model := pc.BaseURL, pc.Model
	switch id {
	case domintent.ProviderOpenAI:
		baseURL = orDefault(baseURL, openaiprov.DefaultOpenAIBaseURL)
		model = orDefault(model, openaiprov.DefaultOpenAIModel)
	case domintent.ProviderDeepSeek:
		baseURL = orDefault(baseURL, openaiprov.DefaultDeepSeekBaseURL)
		model = orDefault(model, openaiprov.DefaultDeepSeekModel)
	}

	return openaiprov.NewProvider(&openaiprov.Config{
		APIKey:   pc.APIKey,
		BaseURL:  baseURL,
		Model:    model,
		Provider: string(id),
		Logger:   logger,
	}), id, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
