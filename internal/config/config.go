package config

import (
	"fmt"
	"os"
)

// Stage represents the deployment environment
type Stage string

const (
	// StageDev represents the development environment
	StageDev Stage = "dev"
	// StageStage represents the staging environment
	StageStage Stage = "stage"
	// StageProd represents the production environment
	StageProd Stage = "prod"
)

// IsValid checks if the stage value is valid
func (s Stage) IsValid() bool {
	switch s {
	case StageDev, StageStage, StageProd:
		return true
	default:
		return false
	}
}

// String returns the string representation of the stage
func (s Stage) String() string {
	return string(s)
}

// Config holds all configuration for the platform Lambdas
type Config struct {
	// Stage is the deployment environment (dev, stage, prod)
	Stage Stage

	// AWS Configuration
	AWSRegion string

	// LLMConfigTable is the DynamoDB table holding use case configuration
	// records. It is deliberately not validated at load time: a missing
	// value surfaces per-request as an internal error, so a broken
	// deployment serves 500s instead of crash-looping.
	LLMConfigTable string

	// ModelInfoTableName is the DynamoDB table holding model defaults
	ModelInfoTableName string

	// Feedback Configuration
	FeedbackBucketName        string // S3 bucket feedback submissions are written to
	FeedbackTopicArn          string // SNS topic feedback-received events are published to
	FeedbackSigningSecretName string // Secrets Manager secret holding the token signing key

	// MetricsNamespace is the CloudWatch namespace operational counters land in
	MetricsNamespace string

	// Retry holds lookup retry settings. Loaded for completeness; the
	// repositories currently run with SDK-default retries only.
	Retry RetrySettings
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	stage := os.Getenv("STAGE")
	if stage == "" {
		stage = "dev"
	}

	stageEnum := Stage(stage)
	if !stageEnum.IsValid() {
		return nil, fmt.Errorf("invalid STAGE value: %s (must be dev, stage, or prod)", stage)
	}

	awsRegion := os.Getenv("AWS_REGION")
	if awsRegion == "" {
		awsRegion = "us-east-1"
	}

	modelInfoTableName := os.Getenv("MODEL_INFO_TABLE_NAME")
	if modelInfoTableName == "" {
		modelInfoTableName = fmt.Sprintf("usecase-hub-model-info-%s", stage)
	}

	feedbackBucketName := os.Getenv("FEEDBACK_BUCKET_NAME")
	if feedbackBucketName == "" {
		feedbackBucketName = fmt.Sprintf("usecase-hub-feedback-%s", stage)
	}

	feedbackSigningSecretName := os.Getenv("FEEDBACK_SIGNING_SECRET_NAME")
	if feedbackSigningSecretName == "" {
		feedbackSigningSecretName = fmt.Sprintf("usecase-hub/feedback/signing-key-%s", stage)
	}

	metricsNamespace := os.Getenv("METRICS_NAMESPACE")
	if metricsNamespace == "" {
		metricsNamespace = fmt.Sprintf("UseCaseHub/%s", stage)
	}

	return &Config{
		Stage:                     stageEnum,
		AWSRegion:                 awsRegion,
		LLMConfigTable:            os.Getenv("LLM_CONFIG_TABLE"),
		ModelInfoTableName:        modelInfoTableName,
		FeedbackBucketName:        feedbackBucketName,
		FeedbackTopicArn:          os.Getenv("FEEDBACK_TOPIC_ARN"),
		FeedbackSigningSecretName: feedbackSigningSecretName,
		MetricsNamespace:          metricsNamespace,
		Retry:                     LoadRetrySettings(),
	}, nil
}

// MustLoad loads configuration and panics if there's an error
// This is useful for Lambda handlers where configuration errors should prevent startup
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if !c.Stage.IsValid() {
		return fmt.Errorf("invalid stage: %s", c.Stage)
	}

	if c.AWSRegion == "" {
		return fmt.Errorf("AWS region is required")
	}

	if c.MetricsNamespace == "" {
		return fmt.Errorf("metrics namespace is required")
	}

	return nil
}

// IsProduction returns true if the stage is production
func (c *Config) IsProduction() bool {
	return c.Stage == StageProd
}
