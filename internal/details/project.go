// Package details serves the public view of a deployed use case's
// configuration.
package details

import (
	"github.com/usecase-hub/platform/internal/models"
)

// Project shapes a stored use case config into its public response.
//
// Only whitelisted fields cross this boundary: authentication parameters,
// conversation memory settings, and model identifiers beyond the provider
// name stay internal. The prompt template is withheld unless the use case
// lets callers edit it. Absent keys stay absent rather than becoming zero
// values, so a stored RAGEnabled=false is reported as false while a missing
// key is omitted entirely.
func Project(cfg *models.UseCaseConfig) *models.UseCaseDetailsResponse {
	resp := &models.UseCaseDetailsResponse{
		UseCaseName:       cfg.UseCaseName,
		UseCaseType:       cfg.UseCaseType.String(),
		ModelProviderName: models.ModelProviderAgent,
		FeedbackParams:    cfg.FeedbackParams,
	}

	lp := cfg.LlmParams
	if lp == nil {
		return resp
	}

	if lp.ModelProvider != "" {
		resp.ModelProviderName = lp.ModelProvider
	}

	projected := &models.ProjectedLlmParams{
		RAGEnabled:       lp.RAGEnabled,
		MultimodalParams: lp.MultimodalParams,
	}

	if pp := lp.PromptParams; pp != nil {
		projectedPrompt := &models.ProjectedPromptParams{
			UserPromptEditingEnabled: pp.UserPromptEditingEnabled,
			MaxInputTextLength:       pp.MaxInputTextLength,
		}
		if pp.UserPromptEditingEnabled != nil && *pp.UserPromptEditingEnabled {
			projectedPrompt.PromptTemplate = pp.PromptTemplate
			projectedPrompt.MaxPromptTemplateLength = pp.MaxPromptTemplateLength
		}
		if projectedPrompt.UserPromptEditingEnabled != nil ||
			projectedPrompt.MaxInputTextLength != nil ||
			projectedPrompt.PromptTemplate != nil ||
			projectedPrompt.MaxPromptTemplateLength != nil {
			projected.PromptParams = projectedPrompt
		}
	}

	// LlmParams appears only when at least one sub-field survived.
	if projected.PromptParams != nil || projected.RAGEnabled != nil || projected.MultimodalParams != nil {
		resp.LlmParams = projected
	}

	return resp
}
