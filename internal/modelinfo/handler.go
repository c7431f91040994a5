// Package modelinfo serves model defaults per use case type and provider.
package modelinfo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/usecase-hub/platform/internal/apperrors"
	"github.com/usecase-hub/platform/internal/metrics"
	"github.com/usecase-hub/platform/internal/modelcatalog"
	"github.com/usecase-hub/platform/internal/repository"
)

// Handler serves GET requests for model defaults. Lookups hit the model-info
// table first and fall back to the embedded catalog for providers the table
// has not been seeded with.
type Handler struct {
	store   repository.ModelInfoStore
	catalog *modelcatalog.Catalog
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewHandler creates a new model info handler instance
func NewHandler(store repository.ModelInfoStore, catalog *modelcatalog.Catalog, recorder metrics.Recorder, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		store:   store,
		catalog: catalog,
		metrics: recorder,
		logger:  logger,
	}
}

func jsonHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type, Authorization",
	}
}

// HandleRequest routes model info lookups. With a modelId path parameter it
// returns that model's defaults, otherwise the provider's model id list.
func (h *Handler) HandleRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	useCaseType := request.PathParameters["useCaseType"]
	provider := request.PathParameters["providerName"]
	modelID := request.PathParameters["modelId"]

	if useCaseType == "" || provider == "" {
		h.metrics.Count(ctx, metrics.GetModelInfoError)
		return h.errorResponse(http.StatusBadRequest, "useCaseType and providerName are required"), nil
	}

	var payload interface{}
	var err error
	if modelID == "" {
		payload, err = h.listModels(ctx, useCaseType, provider)
	} else {
		payload, err = h.getModelInfo(ctx, useCaseType, provider, modelID)
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "model info lookup failed",
			slog.String("use_case_type", useCaseType),
			slog.String("provider", provider),
			slog.String("category", apperrors.Category(err)),
			slog.String("error", err.Error()),
		)
		h.metrics.Count(ctx, metrics.GetModelInfoError)
		if errors.Is(err, apperrors.ErrNotFound) {
			return h.errorResponse(http.StatusNotFound, "no model information available"), nil
		}
		return h.errorResponse(http.StatusInternalServerError, "failed to retrieve model information"), nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		h.metrics.Count(ctx, metrics.GetModelInfoError)
		return h.errorResponse(http.StatusInternalServerError, "failed to marshal response"), err
	}

	h.metrics.Count(ctx, metrics.GetModelInfoCount)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusOK,
		Headers:    jsonHeaders(),
		Body:       string(body),
	}, nil
}

// listModels returns table entries, falling back to the catalog when the
// provider has no rows at all
func (h *Handler) listModels(ctx context.Context, useCaseType, provider string) (interface{}, error) {
	ids, err := h.store.ListModels(ctx, useCaseType, provider)
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		catalogIDs, catalogErr := h.catalog.ModelIDs(useCaseType, provider)
		if catalogErr != nil {
			return nil, apperrors.ErrNotFound
		}
		ids = catalogIDs
	}

	return map[string]interface{}{"models": ids}, nil
}

func (h *Handler) getModelInfo(ctx context.Context, useCaseType, provider, modelID string) (interface{}, error) {
	info, err := h.store.GetModelInfo(ctx, useCaseType, provider, modelID)
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	catalogInfo, catalogErr := h.catalog.ModelInfo(useCaseType, provider, modelID)
	if catalogErr != nil {
		return nil, apperrors.ErrNotFound
	}
	return catalogInfo, nil
}

func (h *Handler) errorResponse(statusCode int, message string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(map[string]string{"error": message})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Headers:    jsonHeaders(),
		Body:       string(body),
	}
}
