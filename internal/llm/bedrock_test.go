package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

type fakeBedrockClient struct {
	gotInput *bedrockruntime.ConverseInput
	output   *bedrockruntime.ConverseOutput
	err      error
}

func (f *fakeBedrockClient) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.gotInput = params
	return f.output, f.err
}

func textReply(parts ...string) *bedrockruntime.ConverseOutput {
	var blocks []types.ContentBlock
	for _, p := range parts {
		blocks = append(blocks, &types.ContentBlockMemberText{Value: p})
	}
	return &bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{
			Value: types.Message{
				Role:    types.ConversationRoleAssistant,
				Content: blocks,
			},
		},
		StopReason: types.StopReasonEndTurn,
	}
}

func TestComplete_JoinsTextBlocks(t *testing.T) {
	client := &fakeBedrockClient{output: textReply("Hello, ", "world.")}
	invoker := NewBedrockInvoker(client, nil)

	got, err := invoker.Complete(context.Background(), "amazon.titan-text-express-v1", "say hello", nil)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "Hello, world." {
		t.Errorf("Complete() = %q, want %q", got, "Hello, world.")
	}

	if client.gotInput.ModelId == nil || *client.gotInput.ModelId != "amazon.titan-text-express-v1" {
		t.Errorf("model id not passed through: %+v", client.gotInput.ModelId)
	}
	if client.gotInput.InferenceConfig != nil {
		t.Errorf("inference config set without a temperature: %+v", client.gotInput.InferenceConfig)
	}
}

func TestComplete_PassesTemperature(t *testing.T) {
	client := &fakeBedrockClient{output: textReply("ok")}
	invoker := NewBedrockInvoker(client, nil)

	temperature := 0.7
	if _, err := invoker.Complete(context.Background(), "m", "p", &temperature); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	cfg := client.gotInput.InferenceConfig
	if cfg == nil || cfg.Temperature == nil {
		t.Fatal("temperature not set on inference config")
	}
	if *cfg.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", *cfg.Temperature)
	}
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		client  *fakeBedrockClient
		wantSub string
	}{
		{
			name:    "converse call fails",
			client:  &fakeBedrockClient{err: errors.New("throttled")},
			wantSub: "failed to converse",
		},
		{
			name:    "no text content",
			client:  &fakeBedrockClient{output: textReply()},
			wantSub: "no text content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoker := NewBedrockInvoker(tt.client, nil)
			_, err := invoker.Complete(context.Background(), "m", "p", nil)
			if err == nil {
				t.Fatal("Complete() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}
