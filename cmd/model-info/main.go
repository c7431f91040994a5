package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/usecase-hub/platform/internal/config"
	"github.com/usecase-hub/platform/internal/logging"
	"github.com/usecase-hub/platform/internal/metrics"
	"github.com/usecase-hub/platform/internal/modelcatalog"
	"github.com/usecase-hub/platform/internal/modelinfo"
	"github.com/usecase-hub/platform/internal/repository"
)

func main() {
	logger := logging.New()

	cfg := config.MustLoad()

	logger.Info("model info lambda starting",
		slog.String("stage", cfg.Stage.String()),
		slog.String("table", cfg.ModelInfoTableName),
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		logger.Error("failed to load AWS config", slog.String("error", err.Error()))
		panic(fmt.Sprintf("failed to load AWS config: %v", err))
	}

	store := repository.NewDynamoDBModelInfoStore(dynamodb.NewFromConfig(awsCfg), cfg.ModelInfoTableName)
	recorder := metrics.NewCloudWatchRecorder(cloudwatch.NewFromConfig(awsCfg), cfg.MetricsNamespace, logger)

	handler := modelinfo.NewHandler(store, modelcatalog.MustLoad(), recorder, logger)

	lambda.Start(handler.HandleRequest)
}
