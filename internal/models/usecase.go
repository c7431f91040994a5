package models

// UseCaseType identifies the kind of deployed use case
type UseCaseType string

const (
	// UseCaseTypeText is a text chat use case backed by a hosted LLM
	UseCaseTypeText UseCaseType = "Text"
	// UseCaseTypeAgent is a managed agent use case
	UseCaseTypeAgent UseCaseType = "Agent"
	// UseCaseTypeAgentBuilder is a custom-built agent use case
	UseCaseTypeAgentBuilder UseCaseType = "AgentBuilder"
	// UseCaseTypeMCPServer is an MCP tool-server use case
	UseCaseTypeMCPServer UseCaseType = "MCPServer"
	// UseCaseTypeWorkflow is a multi-step workflow use case
	UseCaseTypeWorkflow UseCaseType = "Workflow"
)

// IsValid checks if the use case type value is valid
func (t UseCaseType) IsValid() bool {
	switch t {
	case UseCaseTypeText, UseCaseTypeAgent, UseCaseTypeAgentBuilder, UseCaseTypeMCPServer, UseCaseTypeWorkflow:
		return true
	default:
		return false
	}
}

// String returns the string representation of the use case type
func (t UseCaseType) String() string {
	return string(t)
}

// ModelProviderAgent is the provider name reported for use cases that have no
// LLM provider of their own (agent and workflow types).
const ModelProviderAgent = "BedrockAgent"

// PromptParams holds prompt configuration for a use case. Every field is
// optional; a nil pointer means the key was absent from the stored record,
// which is not the same thing as a zero value.
type PromptParams struct {
	// PromptTemplate is the editable prompt template text
	PromptTemplate *string `json:"PromptTemplate,omitempty" dynamodbav:"PromptTemplate,omitempty"`

	// UserPromptEditingEnabled controls whether callers may supply their own template
	UserPromptEditingEnabled *bool `json:"UserPromptEditingEnabled,omitempty" dynamodbav:"UserPromptEditingEnabled,omitempty"`

	// MaxInputTextLength caps the user input size in characters
	MaxInputTextLength *int `json:"MaxInputTextLength,omitempty" dynamodbav:"MaxInputTextLength,omitempty"`

	// MaxPromptTemplateLength caps the template size in characters
	MaxPromptTemplateLength *int `json:"MaxPromptTemplateLength,omitempty" dynamodbav:"MaxPromptTemplateLength,omitempty"`
}

// MultimodalParams holds the multimodal feature flag for a use case
type MultimodalParams struct {
	MultimodalEnabled bool `json:"MultimodalEnabled" dynamodbav:"MultimodalEnabled"`
}

// LlmParams holds the model configuration for a use case. ModelID,
// Temperature, Streaming and ModelParams are internal and never appear in
// the public details response.
type LlmParams struct {
	// ModelProvider is the hosting provider name (Bedrock, SageMaker, ...)
	ModelProvider string `json:"ModelProvider,omitempty" dynamodbav:"ModelProvider,omitempty"`

	// ModelID is the provider-specific model identifier
	ModelID string `json:"ModelId,omitempty" dynamodbav:"ModelId,omitempty"`

	// Temperature is the sampling temperature passed to the model
	Temperature *float64 `json:"Temperature,omitempty" dynamodbav:"Temperature,omitempty"`

	// Streaming controls response streaming for the chat runtime
	Streaming *bool `json:"Streaming,omitempty" dynamodbav:"Streaming,omitempty"`

	// ModelParams carries provider-specific tuning values
	ModelParams map[string]interface{} `json:"ModelParams,omitempty" dynamodbav:"ModelParams,omitempty"`

	// PromptParams holds prompt configuration
	PromptParams *PromptParams `json:"PromptParams,omitempty" dynamodbav:"PromptParams,omitempty"`

	// RAGEnabled indicates whether retrieval augmentation is on. Pointer so
	// that an absent key survives unmarshalling as nil.
	RAGEnabled *bool `json:"RAGEnabled,omitempty" dynamodbav:"RAGEnabled,omitempty"`

	// MultimodalParams holds the multimodal feature flag
	MultimodalParams *MultimodalParams `json:"MultimodalParams,omitempty" dynamodbav:"MultimodalParams,omitempty"`
}

// UseCaseConfig is the stored configuration record for a deployed use case.
// It is written by the deployment management process and read-only here.
type UseCaseConfig struct {
	// UseCaseName is the display name of the deployment
	UseCaseName string `json:"UseCaseName" dynamodbav:"UseCaseName"`

	// UseCaseType is the kind of deployment
	UseCaseType UseCaseType `json:"UseCaseType" dynamodbav:"UseCaseType"`

	// LlmParams holds the model configuration, absent for non-LLM types
	LlmParams *LlmParams `json:"LlmParams,omitempty" dynamodbav:"LlmParams,omitempty"`

	// FeedbackParams holds the feedback feature configuration
	FeedbackParams map[string]interface{} `json:"FeedbackParams,omitempty" dynamodbav:"FeedbackParams,omitempty"`

	// AuthenticationParams holds identity-provider wiring. Internal only.
	AuthenticationParams map[string]interface{} `json:"AuthenticationParams,omitempty" dynamodbav:"AuthenticationParams,omitempty"`

	// ConversationMemoryParams holds chat-history storage settings. Internal only.
	ConversationMemoryParams map[string]interface{} `json:"ConversationMemoryParams,omitempty" dynamodbav:"ConversationMemoryParams,omitempty"`
}

// ProjectedPromptParams is the public view of PromptParams. PromptTemplate
// and MaxPromptTemplateLength are only populated when prompt editing is
// enabled for the use case.
type ProjectedPromptParams struct {
	UserPromptEditingEnabled *bool   `json:"UserPromptEditingEnabled,omitempty"`
	MaxInputTextLength       *int    `json:"MaxInputTextLength,omitempty"`
	PromptTemplate           *string `json:"PromptTemplate,omitempty"`
	MaxPromptTemplateLength  *int    `json:"MaxPromptTemplateLength,omitempty"`
}

// ProjectedLlmParams is the public view of LlmParams
type ProjectedLlmParams struct {
	PromptParams     *ProjectedPromptParams `json:"PromptParams,omitempty"`
	RAGEnabled       *bool                  `json:"RAGEnabled,omitempty"`
	MultimodalParams *MultimodalParams      `json:"MultimodalParams,omitempty"`
}

// UseCaseDetailsResponse is the public projection of a UseCaseConfig.
// Fields not listed here never leave the service.
type UseCaseDetailsResponse struct {
	UseCaseName       string                 `json:"UseCaseName"`
	UseCaseType       string                 `json:"UseCaseType"`
	ModelProviderName string                 `json:"ModelProviderName"`
	LlmParams         *ProjectedLlmParams    `json:"LlmParams,omitempty"`
	FeedbackParams    map[string]interface{} `json:"FeedbackParams,omitempty"`
}
