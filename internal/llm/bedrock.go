// Package llm invokes hosted models for prompt previews.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// BedrockAPI is the slice of the Bedrock runtime client the invoker needs
type BedrockAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// Invoker defines the interface for single-turn model completions
type Invoker interface {
	Complete(ctx context.Context, modelID, prompt string, temperature *float64) (string, error)
}

// BedrockInvoker implements Invoker using the Bedrock Converse API
type BedrockInvoker struct {
	client BedrockAPI
	logger *slog.Logger
}

// NewBedrockInvoker creates a new Bedrock invoker instance
func NewBedrockInvoker(client BedrockAPI, logger *slog.Logger) *BedrockInvoker {
	if logger == nil {
		logger = slog.Default()
	}

	return &BedrockInvoker{
		client: client,
		logger: logger,
	}
}

// Complete runs a single user-turn conversation and returns the reply text
func (b *BedrockInvoker) Complete(ctx context.Context, modelID, prompt string, temperature *float64) (string, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(modelID),
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: prompt},
				},
			},
		},
	}

	if temperature != nil {
		input.InferenceConfig = &types.InferenceConfiguration{
			Temperature: aws.Float32(float32(*temperature)),
		}
	}

	result, err := b.client.Converse(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to converse with model %s: %w", modelID, err)
	}

	message, ok := result.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("unexpected converse output type %T", result.Output)
	}

	var parts []string
	for _, block := range message.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			parts = append(parts, text.Value)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("model %s returned no text content", modelID)
	}

	b.logger.DebugContext(ctx, "model completion received",
		slog.String("model_id", modelID),
		slog.String("stop_reason", string(result.StopReason)),
	)

	return strings.Join(parts, ""), nil
}
