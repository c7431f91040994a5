// Package modelcatalog ships the built-in model defaults used when the
// model-info table has not been seeded for a provider.
package modelcatalog

import (
	_ "embed"
	"fmt"
	"slices"

	"github.com/usecase-hub/platform/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var modelCatalogYAML []byte

// Model holds the catalog defaults for one provider model
type Model struct {
	ModelID            string  `yaml:"modelId"`
	AllowsStreaming    bool    `yaml:"allowsStreaming"`
	DefaultTemperature float64 `yaml:"defaultTemperature"`
	MinTemperature     float64 `yaml:"minTemperature"`
	MaxTemperature     float64 `yaml:"maxTemperature"`
	MaxPromptSize      int     `yaml:"maxPromptSize"`
	MaxChatMessageSize int     `yaml:"maxChatMessageSize"`
	Prompt             string  `yaml:"prompt"`
}

// Provider groups catalog models under a hosting provider
type Provider struct {
	Name         string   `yaml:"name"`
	UseCaseTypes []string `yaml:"useCaseTypes"`
	Models       []Model  `yaml:"models"`
}

// Catalog is the root of the embedded model defaults
type Catalog struct {
	Providers []Provider `yaml:"providers"`
}

// Load parses the embedded catalog
func Load() (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(modelCatalogYAML, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse embedded model catalog: %w", err)
	}
	return &catalog, nil
}

// MustLoad parses the embedded catalog and panics on error. The catalog is
// compiled in, so a parse failure is a build defect.
func MustLoad() *Catalog {
	catalog, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load model catalog: %v", err))
	}
	return catalog
}

// Provider returns the catalog entry for a provider serving a use case type
func (c *Catalog) Provider(useCaseType, name string) (*Provider, error) {
	for i := range c.Providers {
		p := &c.Providers[i]
		if p.Name == name && slices.Contains(p.UseCaseTypes, useCaseType) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("provider not in catalog: %s/%s", useCaseType, name)
}

// ModelIDs returns the model ids a provider serves for a use case type
func (c *Catalog) ModelIDs(useCaseType, provider string) ([]string, error) {
	p, err := c.Provider(useCaseType, provider)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(p.Models))
	for _, m := range p.Models {
		ids = append(ids, m.ModelID)
	}
	return ids, nil
}

// ModelInfo returns the defaults for one catalog model in the table's shape
func (c *Catalog) ModelInfo(useCaseType, provider, modelID string) (*models.ModelInfo, error) {
	p, err := c.Provider(useCaseType, provider)
	if err != nil {
		return nil, err
	}

	for _, m := range p.Models {
		if m.ModelID != modelID {
			continue
		}
		allowsStreaming := m.AllowsStreaming
		return &models.ModelInfo{
			UseCase:            useCaseType,
			SortKey:            models.ModelInfoSortKey(provider, modelID),
			ModelProviderName:  provider,
			ModelID:            modelID,
			AllowsStreaming:    &allowsStreaming,
			DefaultTemperature: m.DefaultTemperature,
			MinTemperature:     m.MinTemperature,
			MaxTemperature:     m.MaxTemperature,
			MaxPromptSize:      m.MaxPromptSize,
			MaxChatMessageSize: m.MaxChatMessageSize,
			Prompt:             m.Prompt,
		}, nil
	}
	return nil, fmt.Errorf("model not in catalog: %s/%s/%s", useCaseType, provider, modelID)
}
