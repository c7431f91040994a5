package models

import "fmt"

// ModelInfo describes the defaults for one provider model, keyed in the
// model-info table by use case type and a provider#modelId sort key.
type ModelInfo struct {
	// UseCase is the use case type this entry applies to (table hash key)
	UseCase string `json:"UseCase" dynamodbav:"UseCase"`

	// SortKey is "<provider>#<modelId>" (table range key)
	SortKey string `json:"SortKey" dynamodbav:"SortKey"`

	// ModelProviderName is the hosting provider name
	ModelProviderName string `json:"ModelProviderName" dynamodbav:"ModelProviderName"`

	// ModelID is the provider-specific model identifier
	ModelID string `json:"ModelName" dynamodbav:"ModelName"`

	// AllowsStreaming indicates whether the model supports response streaming
	AllowsStreaming *bool `json:"AllowsStreaming,omitempty" dynamodbav:"AllowsStreaming,omitempty"`

	// DefaultTemperature is the recommended sampling temperature
	DefaultTemperature float64 `json:"DefaultTemperature" dynamodbav:"DefaultTemperature"`

	// MinTemperature and MaxTemperature bound the valid temperature range
	MinTemperature float64 `json:"MinTemperature" dynamodbav:"MinTemperature"`
	MaxTemperature float64 `json:"MaxTemperature" dynamodbav:"MaxTemperature"`

	// MaxPromptSize caps the prompt template length for this model
	MaxPromptSize int `json:"MaxPromptSize" dynamodbav:"MaxPromptSize"`

	// MaxChatMessageSize caps a single chat message length
	MaxChatMessageSize int `json:"MaxChatMessageSize" dynamodbav:"MaxChatMessageSize"`

	// Prompt is the default prompt template for this model
	Prompt string `json:"Prompt,omitempty" dynamodbav:"Prompt,omitempty"`
}

// ModelInfoSortKey builds the range key for a provider model entry
func ModelInfoSortKey(provider, modelID string) string {
	return fmt.Sprintf("%s#%s", provider, modelID)
}
