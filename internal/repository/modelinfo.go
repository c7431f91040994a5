package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/usecase-hub/platform/internal/apperrors"
	"github.com/usecase-hub/platform/internal/models"
)

// DynamoDBQueryAPI is the slice of the DynamoDB client the model info store needs
type DynamoDBQueryAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// ModelInfoStore defines the interface for model defaults reads
type ModelInfoStore interface {
	ListModels(ctx context.Context, useCaseType, provider string) ([]string, error)
	GetModelInfo(ctx context.Context, useCaseType, provider, modelID string) (*models.ModelInfo, error)
}

// DynamoDBModelInfoStore implements ModelInfoStore against the model info table
type DynamoDBModelInfoStore struct {
	client    DynamoDBQueryAPI
	tableName string
}

// NewDynamoDBModelInfoStore creates a new model info store instance
func NewDynamoDBModelInfoStore(client DynamoDBQueryAPI, tableName string) *DynamoDBModelInfoStore {
	return &DynamoDBModelInfoStore{
		client:    client,
		tableName: tableName,
	}
}

// ListModels returns the model ids registered for a provider under a use case type
func (s *DynamoDBModelInfoStore) ListModels(ctx context.Context, useCaseType, provider string) ([]string, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("#uc = :uc AND begins_with(#sk, :prefix)"),
		ExpressionAttributeNames: map[string]string{
			"#uc": "UseCase",
			"#sk": "SortKey",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uc":     &types.AttributeValueMemberS{Value: useCaseType},
			":prefix": &types.AttributeValueMemberS{Value: provider + "#"},
		},
	}

	result, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query model info from DynamoDB: %w", err)
	}

	modelIDs := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		var info models.ModelInfo
		if err := attributevalue.UnmarshalMap(item, &info); err != nil {
			return nil, fmt.Errorf("failed to unmarshal model info: %w", err)
		}
		modelIDs = append(modelIDs, info.ModelID)
	}

	return modelIDs, nil
}

// GetModelInfo retrieves the defaults for one provider model
func (s *DynamoDBModelInfoStore) GetModelInfo(ctx context.Context, useCaseType, provider, modelID string) (*models.ModelInfo, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"UseCase": &types.AttributeValueMemberS{Value: useCaseType},
			"SortKey": &types.AttributeValueMemberS{Value: models.ModelInfoSortKey(provider, modelID)},
		},
	}

	result, err := s.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get model info from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("model info %s/%s/%s: %w", useCaseType, provider, modelID, apperrors.ErrNotFound)
	}

	var info models.ModelInfo
	if err := attributevalue.UnmarshalMap(result.Item, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model info: %w", err)
	}

	return &info, nil
}
