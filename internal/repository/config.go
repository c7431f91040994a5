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

// configKeyAttribute is the hash key of the use case config table
const configKeyAttribute = "key"

// configValueAttribute is the attribute the nested config document lives under
const configValueAttribute = "config"

// DynamoDBGetAPI is the slice of the DynamoDB client the config store needs.
// Narrowed to an interface so tests can fake lookups.
type DynamoDBGetAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// ConfigStore defines the interface for use case configuration reads
type ConfigStore interface {
	GetConfig(ctx context.Context, key string) (*models.UseCaseConfig, error)
}

// DynamoDBConfigStore implements ConfigStore against the use case config table
type DynamoDBConfigStore struct {
	client    DynamoDBGetAPI
	tableName string
}

// NewDynamoDBConfigStore creates a new config store instance
func NewDynamoDBConfigStore(client DynamoDBGetAPI, tableName string) *DynamoDBConfigStore {
	return &DynamoDBConfigStore{
		client:    client,
		tableName: tableName,
	}
}

// GetConfig retrieves one configuration record by exact key match. There is
// no scan, no index, and no retry beyond the SDK defaults.
func (s *DynamoDBConfigStore) GetConfig(ctx context.Context, key string) (*models.UseCaseConfig, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			configKeyAttribute: &types.AttributeValueMemberS{Value: key},
		},
	}

	result, err := s.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get use case config from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("use case config %s: %w", key, apperrors.ErrNotFound)
	}

	configAttr, ok := result.Item[configValueAttribute]
	if !ok {
		return nil, fmt.Errorf("use case config %s has no %s attribute", key, configValueAttribute)
	}

	var cfg models.UseCaseConfig
	if err := attributevalue.Unmarshal(configAttr, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal use case config: %w", err)
	}

	return &cfg, nil
}
