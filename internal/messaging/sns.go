// Package messaging publishes platform events to SNS.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// FeedbackEvent is published whenever a feedback submission lands
type FeedbackEvent struct {
	// FeedbackID is the stored submission's identifier
	FeedbackID string `json:"feedback_id"`

	// UseCaseRecordKey identifies the deployment the feedback is about
	UseCaseRecordKey string `json:"use_case_record_key"`

	// Rating is the submitted rating value
	Rating string `json:"rating"`

	// SubmittedAt is when the platform accepted the submission
	SubmittedAt time.Time `json:"submitted_at"`
}

// EventPublisher defines the interface for publishing feedback events
type EventPublisher interface {
	PublishFeedbackEvent(ctx context.Context, event *FeedbackEvent) error
}

// SNSAPI is the slice of the SNS client the publisher needs
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPublisher implements EventPublisher using AWS SNS
type SNSPublisher struct {
	client   SNSAPI
	topicArn string
	logger   *slog.Logger
}

// NewSNSPublisher creates a new SNS publisher instance
func NewSNSPublisher(client SNSAPI, topicArn string, logger *slog.Logger) *SNSPublisher {
	if logger == nil {
		logger = slog.Default()
	}

	return &SNSPublisher{
		client:   client,
		topicArn: topicArn,
		logger:   logger,
	}
}

// PublishFeedbackEvent publishes a feedback event to the configured topic
func (p *SNSPublisher) PublishFeedbackEvent(ctx context.Context, event *FeedbackEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback event: %w", err)
	}

	input := &sns.PublishInput{
		TopicArn: aws.String(p.topicArn),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"rating": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.Rating),
			},
			"use_case_record_key": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.UseCaseRecordKey),
			},
		},
	}

	result, err := p.client.Publish(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to publish feedback event to SNS: %w", err)
	}

	p.logger.InfoContext(ctx, "feedback event published",
		slog.String("feedback_id", event.FeedbackID),
		slog.String("sns_message_id", aws.ToString(result.MessageId)),
	)

	return nil
}
