// Package metrics emits the platform's operational counters.
package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Counter names. Exactly one of the Count/Error pair is emitted per
// invocation of the owning handler.
const (
	GetUseCaseConfigCount = "GetUseCaseConfigCount"
	GetUseCaseConfigError = "GetUseCaseConfigError"
	GetModelInfoCount     = "GetModelInfoCount"
	GetModelInfoError     = "GetModelInfoError"
	SubmitFeedbackCount   = "SubmitFeedbackCount"
	SubmitFeedbackError   = "SubmitFeedbackError"
	PromptPreviewCount    = "PromptPreviewCount"
	PromptPreviewError    = "PromptPreviewError"
)

// Recorder defines the interface for emitting named counters
type Recorder interface {
	Count(ctx context.Context, name string)
}

// CloudWatchAPI is the slice of the CloudWatch client the recorder needs
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchRecorder implements Recorder using CloudWatch PutMetricData
type CloudWatchRecorder struct {
	client    CloudWatchAPI
	namespace string
	logger    *slog.Logger
}

// NewCloudWatchRecorder creates a new CloudWatch recorder instance
func NewCloudWatchRecorder(client CloudWatchAPI, namespace string, logger *slog.Logger) *CloudWatchRecorder {
	if logger == nil {
		logger = slog.Default()
	}

	return &CloudWatchRecorder{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// Count emits a single count datum. Metric delivery failures are logged and
// swallowed; a dropped counter must never fail the request it describes.
func (r *CloudWatchRecorder) Count(ctx context.Context, name string) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(r.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(name),
				Timestamp:  aws.Time(time.Now().UTC()),
				Unit:       types.StandardUnitCount,
				Value:      aws.Float64(1),
			},
		},
	}

	if _, err := r.client.PutMetricData(ctx, input); err != nil {
		r.logger.WarnContext(ctx, "failed to emit metric",
			slog.String("metric", name),
			slog.String("error", err.Error()),
		)
	}
}

// Noop discards every counter. Used in tests.
type Noop struct{}

// Count implements Recorder
func (Noop) Count(context.Context, string) {}
