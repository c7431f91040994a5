package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/usecase-hub/platform/internal/apperrors"
	"github.com/usecase-hub/platform/internal/config"
	"github.com/usecase-hub/platform/internal/messaging"
	"github.com/usecase-hub/platform/internal/metrics"
	"github.com/usecase-hub/platform/internal/repository"
)

// feedbackEnabledKey is the FeedbackParams flag gating submissions per use case
const feedbackEnabledKey = "FeedbackEnabled"

// S3PutAPI is the slice of the S3 client the handler needs
type S3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// TokenVerifier validates the caller's bearer token and returns its subject
type TokenVerifier interface {
	Verify(ctx context.Context, tokenString string) (string, error)
}

// Handler serves POST requests submitting use case feedback
type Handler struct {
	cfg       *config.Config
	store     repository.ConfigStore
	s3Client  S3PutAPI
	publisher messaging.EventPublisher
	verifier  TokenVerifier
	metrics   metrics.Recorder
	logger    *slog.Logger
	now       func() time.Time
}

// NewHandler creates a new feedback handler instance
func NewHandler(
	cfg *config.Config,
	store repository.ConfigStore,
	s3Client S3PutAPI,
	publisher messaging.EventPublisher,
	verifier TokenVerifier,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		cfg:       cfg,
		store:     store,
		s3Client:  s3Client,
		publisher: publisher,
		verifier:  verifier,
		metrics:   recorder,
		logger:    logger,
		now:       time.Now,
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

// HandleRequest validates, stores, and announces one feedback submission
func (h *Handler) HandleRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	userID, err := h.authorize(ctx, request)
	if err != nil {
		h.logger.WarnContext(ctx, "feedback authorization failed", slog.String("error", err.Error()))
		h.metrics.Count(ctx, metrics.SubmitFeedbackError)
		return h.errorResponse(http.StatusUnauthorized, "invalid or missing bearer token"), nil
	}

	var req Request
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		h.metrics.Count(ctx, metrics.SubmitFeedbackError)
		return h.errorResponse(http.StatusBadRequest, "invalid request body"), nil
	}

	if err := req.Validate(); err != nil {
		h.metrics.Count(ctx, metrics.SubmitFeedbackError)
		return h.errorResponse(http.StatusBadRequest, err.Error()), nil
	}

	useCaseConfig, err := h.store.GetConfig(ctx, req.UseCaseRecordKey)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to resolve use case for feedback",
			slog.String("category", apperrors.Category(err)),
			slog.String("error", err.Error()),
		)
		h.metrics.Count(ctx, metrics.SubmitFeedbackError)
		if errors.Is(err, apperrors.ErrNotFound) {
			return h.errorResponse(http.StatusNotFound, "use case not found"), nil
		}
		return h.errorResponse(http.StatusInternalServerError, "failed to resolve use case"), nil
	}

	if !feedbackEnabled(useCaseConfig.FeedbackParams) {
		h.metrics.Count(ctx, metrics.SubmitFeedbackError)
		return h.errorResponse(http.StatusForbidden, "feedback is disabled for this use case"), nil
	}

	record := &Record{
		FeedbackID:       uuid.NewString(),
		UseCaseRecordKey: req.UseCaseRecordKey,
		UserID:           userID,
		Rating:           req.Rating,
		Comment:          req.Comment,
		RephrasedQuery:   req.RephrasedQuery,
		SourceMessageID:  req.SourceMessageID,
		SubmittedAt:      h.now().UTC(),
	}

	if err := h.storeRecord(ctx, record); err != nil {
		h.logger.ErrorContext(ctx, "failed to store feedback", slog.String("error", err.Error()))
		h.metrics.Count(ctx, metrics.SubmitFeedbackError)
		return h.errorResponse(http.StatusInternalServerError, "failed to store feedback"), nil
	}

	event := &messaging.FeedbackEvent{
		FeedbackID:       record.FeedbackID,
		UseCaseRecordKey: record.UseCaseRecordKey,
		Rating:           record.Rating,
		SubmittedAt:      record.SubmittedAt,
	}
	if err := h.publisher.PublishFeedbackEvent(ctx, event); err != nil {
		// The submission is durable at this point; a lost event is an
		// operational annoyance, not a caller-visible failure.
		h.logger.ErrorContext(ctx, "failed to publish feedback event", slog.String("error", err.Error()))
	}

	h.metrics.Count(ctx, metrics.SubmitFeedbackCount)

	body, err := json.Marshal(map[string]string{"feedbackId": record.FeedbackID})
	if err != nil {
		return h.errorResponse(http.StatusInternalServerError, "failed to marshal response"), err
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusCreated,
		Headers:    jsonHeaders(),
		Body:       string(body),
	}, nil
}

// authorize extracts and verifies the bearer token, returning the user id
func (h *Handler) authorize(ctx context.Context, request events.APIGatewayV2HTTPRequest) (string, error) {
	header := request.Headers["authorization"]
	if header == "" {
		header = request.Headers["Authorization"]
	}

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", fmt.Errorf("missing bearer token")
	}

	return h.verifier.Verify(ctx, token)
}

// storeRecord writes the submission as a JSON object under the use case's prefix
func (h *Handler) storeRecord(ctx context.Context, record *Record) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback record: %w", err)
	}

	key := fmt.Sprintf("feedback/%s/%s.json", record.UseCaseRecordKey, record.FeedbackID)
	_, err = h.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.cfg.FeedbackBucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to write feedback object: %w", err)
	}

	return nil
}

func (h *Handler) errorResponse(statusCode int, message string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(map[string]string{"error": message})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Headers:    jsonHeaders(),
		Body:       string(body),
	}
}

// feedbackEnabled reads the FeedbackParams flag, defaulting to disabled when
// the use case carries no feedback configuration at all
func feedbackEnabled(params map[string]interface{}) bool {
	if params == nil {
		return false
	}
	enabled, ok := params[feedbackEnabledKey].(bool)
	return ok && enabled
}
