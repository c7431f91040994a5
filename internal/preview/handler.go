// Package preview runs a test turn of a use case's prompt template against
// its configured model.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/usecase-hub/platform/internal/apperrors"
	"github.com/usecase-hub/platform/internal/llm"
	"github.com/usecase-hub/platform/internal/metrics"
	"github.com/usecase-hub/platform/internal/models"
	"github.com/usecase-hub/platform/internal/repository"
)

// Placeholders recognized in prompt templates
const (
	placeholderInput   = "{input}"
	placeholderHistory = "{history}"
)

// Request is the inbound preview body. PromptTemplate optionally overrides
// the stored template, which is only honored for editable use cases.
type Request struct {
	Input          string `json:"input"`
	History        string `json:"history,omitempty"`
	PromptTemplate string `json:"promptTemplate,omitempty"`
}

// Validate checks the preview request for required fields
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Input) == "" {
		return errors.New("input is required")
	}
	return nil
}

// Response carries the rendered prompt and the model's reply
type Response struct {
	RenderedPrompt string `json:"renderedPrompt"`
	Completion     string `json:"completion"`
}

// Handler serves POST requests previewing a use case's prompt
type Handler struct {
	store   repository.ConfigStore
	invoker llm.Invoker
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewHandler creates a new preview handler instance
func NewHandler(store repository.ConfigStore, invoker llm.Invoker, recorder metrics.Recorder, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		store:   store,
		invoker: invoker,
		metrics: recorder,
		logger:  logger,
	}
}

func jsonHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type, Authorization",
	}
}

// HandleRequest renders the use case's prompt template and runs one model turn
func (h *Handler) HandleRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	key := request.PathParameters["useCaseConfigKey"]
	if key == "" {
		h.metrics.Count(ctx, metrics.PromptPreviewError)
		return h.errorResponse(http.StatusBadRequest, "useCaseConfigKey path parameter is required"), nil
	}

	var req Request
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		h.metrics.Count(ctx, metrics.PromptPreviewError)
		return h.errorResponse(http.StatusBadRequest, "invalid request body"), nil
	}
	if err := req.Validate(); err != nil {
		h.metrics.Count(ctx, metrics.PromptPreviewError)
		return h.errorResponse(http.StatusBadRequest, err.Error()), nil
	}

	cfg, err := h.store.GetConfig(ctx, key)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to resolve use case for preview",
			slog.String("category", apperrors.Category(err)),
			slog.String("error", err.Error()),
		)
		h.metrics.Count(ctx, metrics.PromptPreviewError)
		if errors.Is(err, apperrors.ErrNotFound) {
			return h.errorResponse(http.StatusNotFound, "use case not found"), nil
		}
		return h.errorResponse(http.StatusInternalServerError, "failed to resolve use case"), nil
	}

	if !promptEditingEnabled(cfg) {
		h.metrics.Count(ctx, metrics.PromptPreviewError)
		return h.errorResponse(http.StatusForbidden, "prompt preview requires prompt editing to be enabled"), nil
	}

	modelID := cfg.LlmParams.ModelID
	if modelID == "" {
		h.metrics.Count(ctx, metrics.PromptPreviewError)
		return h.errorResponse(http.StatusInternalServerError, "use case has no model configured"), nil
	}

	template := storedTemplate(cfg)
	if req.PromptTemplate != "" {
		template = req.PromptTemplate
	}
	if template == "" {
		template = placeholderHistory + "\n\n" + placeholderInput
	}

	rendered := renderTemplate(template, req.History, req.Input)

	completion, err := h.invoker.Complete(ctx, modelID, rendered, cfg.LlmParams.Temperature)
	if err != nil {
		h.logger.ErrorContext(ctx, "model invocation failed", slog.String("error", err.Error()))
		h.metrics.Count(ctx, metrics.PromptPreviewError)
		return h.errorResponse(http.StatusBadGateway, "model invocation failed"), nil
	}

	body, err := json.Marshal(Response{RenderedPrompt: rendered, Completion: completion})
	if err != nil {
		h.metrics.Count(ctx, metrics.PromptPreviewError)
		return h.errorResponse(http.StatusInternalServerError, "failed to marshal response"), err
	}

	h.metrics.Count(ctx, metrics.PromptPreviewCount)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusOK,
		Headers:    jsonHeaders(),
		Body:       string(body),
	}, nil
}

func (h *Handler) errorResponse(statusCode int, message string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(map[string]string{"error": message})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Headers:    jsonHeaders(),
		Body:       string(body),
	}
}

func promptEditingEnabled(cfg *models.UseCaseConfig) bool {
	if cfg.LlmParams == nil || cfg.LlmParams.PromptParams == nil {
		return false
	}
	enabled := cfg.LlmParams.PromptParams.UserPromptEditingEnabled
	return enabled != nil && *enabled
}

func storedTemplate(cfg *models.UseCaseConfig) string {
	if cfg.LlmParams.PromptParams.PromptTemplate == nil {
		return ""
	}
	return *cfg.LlmParams.PromptParams.PromptTemplate
}

func renderTemplate(template, history, input string) string {
	rendered := strings.ReplaceAll(template, placeholderHistory, history)
	return strings.ReplaceAll(rendered, placeholderInput, input)
}
