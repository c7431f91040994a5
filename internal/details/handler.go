package details

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/usecase-hub/platform/internal/apperrors"
	"github.com/usecase-hub/platform/internal/config"
	"github.com/usecase-hub/platform/internal/metrics"
	"github.com/usecase-hub/platform/internal/repository"
)

// pathParamConfigKey is the route parameter carrying the config record key
const pathParamConfigKey = "useCaseConfigKey"

// TraceIDHeader carries the per-request support trace id on error responses
const TraceIDHeader = "_X_AMZN_TRACE_ID"

// Support-facing messages. Error bodies never contain internal detail, only
// a trace id operators can correlate with the structured logs.
const (
	notFoundMessage      = "The requested use case could not be found. Please contact your administrator for support and quote the following trace id: %s"
	internalErrorMessage = "An internal error occurred. Please contact your administrator for support and quote the following trace id: %s"
)

// Handler serves GET requests for use case details
type Handler struct {
	cfg     *config.Config
	store   repository.ConfigStore
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewHandler creates a new details handler instance
func NewHandler(cfg *config.Config, store repository.ConfigStore, recorder metrics.Recorder, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		cfg:     cfg,
		store:   store,
		metrics: recorder,
		logger:  logger,
	}
}

// corsHeaders returns the standard response headers for the details API
func corsHeaders(contentType string) map[string]string {
	return map[string]string{
		"Content-Type":                 contentType,
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type, Authorization",
	}
}

// HandleRequest resolves one use case configuration by key and returns its
// public projection. Every failure is mapped here: 404 for a missing record,
// 500 for everything else, including a missing path parameter (a known quirk
// kept for compatibility) and missing table configuration.
func (h *Handler) HandleRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (response events.APIGatewayV2HTTPResponse, _ error) {
	traceID := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			h.logger.ErrorContext(ctx, "panic in details handler",
				slog.String("trace_id", traceID),
				slog.Any("panic", r),
			)
			h.metrics.Count(ctx, metrics.GetUseCaseConfigError)
			response = h.errorResponse(http.StatusInternalServerError, traceID)
		}
	}()

	body, err := h.getUseCaseDetails(ctx, request)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get use case details",
			slog.String("trace_id", traceID),
			slog.String("category", apperrors.Category(err)),
			slog.String("error", err.Error()),
		)
		h.metrics.Count(ctx, metrics.GetUseCaseConfigError)

		if errors.Is(err, apperrors.ErrNotFound) {
			return h.errorResponse(http.StatusNotFound, traceID), nil
		}
		return h.errorResponse(http.StatusInternalServerError, traceID), nil
	}

	h.metrics.Count(ctx, metrics.GetUseCaseConfigCount)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusOK,
		Headers:    corsHeaders("application/json"),
		Body:       string(body),
	}, nil
}

// getUseCaseDetails performs the single lookup-and-project pass
func (h *Handler) getUseCaseDetails(ctx context.Context, request events.APIGatewayV2HTTPRequest) ([]byte, error) {
	key := request.PathParameters[pathParamConfigKey]
	if key == "" {
		return nil, &apperrors.ValidationError{Field: pathParamConfigKey, Reason: "path parameter is required"}
	}

	if h.cfg.LLMConfigTable == "" {
		return nil, &apperrors.ConfigurationError{Setting: "LLM_CONFIG_TABLE"}
	}

	cfg, err := h.store.GetConfig(ctx, key)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(Project(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal details response: %w", err)
	}

	return body, nil
}

// errorResponse builds the plain-text error body with the trace id embedded
// in both the body and the trace header
func (h *Handler) errorResponse(statusCode int, traceID string) events.APIGatewayV2HTTPResponse {
	message := internalErrorMessage
	if statusCode == http.StatusNotFound {
		message = notFoundMessage
	}

	headers := corsHeaders("text/plain")
	headers[TraceIDHeader] = traceID

	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       fmt.Sprintf(message, traceID),
	}
}
