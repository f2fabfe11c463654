package intent

import (
	"fmt"

	"github.com/kailas-cloud/regalo/internal/domain"
)

// ProviderID identifies an intent provider implementation.
type ProviderID string

// Supported providers. Hosted providers differ only by endpoint, model and key.
const (
	ProviderOpenAI   ProviderID = "openai"
	ProviderDeepSeek ProviderID = "deepseek"
	ProviderLocal    ProviderID = "local"
)

// ParseProviderID maps a configuration value to a provider id. It never defaults.
func ParseProviderID(name string) (ProviderID, error) {
	switch id := ProviderID(name); id {
	case ProviderOpenAI, ProviderDeepSeek, ProviderLocal:
		return id, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownProvider, name)
	}
}

// IsHosted reports whether the provider calls a remote language model.
func (p ProviderID) IsHosted() bool {
	return p == ProviderOpenAI || p == ProviderDeepSeek
}
