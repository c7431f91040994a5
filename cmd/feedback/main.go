package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/usecase-hub/platform/internal/auth"
	"github.com/usecase-hub/platform/internal/config"
	"github.com/usecase-hub/platform/internal/feedback"
	"github.com/usecase-hub/platform/internal/logging"
	"github.com/usecase-hub/platform/internal/messaging"
	"github.com/usecase-hub/platform/internal/metrics"
	"github.com/usecase-hub/platform/internal/repository"
	"github.com/usecase-hub/platform/internal/secrets"
)

func main() {
	logger := logging.New()

	cfg := config.MustLoad()

	logger.Info("feedback lambda starting",
		slog.String("stage", cfg.Stage.String()),
		slog.String("bucket", cfg.FeedbackBucketName),
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		logger.Error("failed to load AWS config", slog.String("error", err.Error()))
		panic(fmt.Sprintf("failed to load AWS config: %v", err))
	}

	store := repository.NewDynamoDBConfigStore(dynamodb.NewFromConfig(awsCfg), cfg.LLMConfigTable)
	publisher := messaging.NewSNSPublisher(sns.NewFromConfig(awsCfg), cfg.FeedbackTopicArn, logger)
	verifier := auth.NewVerifier(secrets.NewManager(secretsmanager.NewFromConfig(awsCfg), logger), cfg.FeedbackSigningSecretName)
	recorder := metrics.NewCloudWatchRecorder(cloudwatch.NewFromConfig(awsCfg), cfg.MetricsNamespace, logger)

	handler := feedback.NewHandler(cfg, store, s3.NewFromConfig(awsCfg), publisher, verifier, recorder, logger)

	lambda.Start(handler.HandleRequest)
}
