package modelinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/usecase-hub/platform/internal/apperrors"
	"github.com/usecase-hub/platform/internal/metrics"
	"github.com/usecase-hub/platform/internal/modelcatalog"
	"github.com/usecase-hub/platform/internal/models"
)

type fakeModelInfoStore struct {
	models map[string]*models.ModelInfo // keyed by useCase|sortKey
	lists  map[string][]string          // keyed by useCase|provider
	err    error
}

func (f *fakeModelInfoStore) ListModels(_ context.Context, useCaseType, provider string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.lists[useCaseType+"|"+provider], nil
}

func (f *fakeModelInfoStore) GetModelInfo(_ context.Context, useCaseType, provider, modelID string) (*models.ModelInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	info, ok := f.models[useCaseType+"|"+models.ModelInfoSortKey(provider, modelID)]
	if !ok {
		return nil, fmt.Errorf("model info: %w", apperrors.ErrNotFound)
	}
	return info, nil
}

func request(params map[string]string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{PathParameters: params}
}

func TestHandleRequest_ListFromTable(t *testing.T) {
	store := &fakeModelInfoStore{
		lists: map[string][]string{"Text|Bedrock": {"model-a", "model-b"}},
	}
	handler := NewHandler(store, modelcatalog.MustLoad(), metrics.Noop{}, nil)

	resp, err := handler.HandleRequest(context.Background(), request(map[string]string{
		"useCaseType": "Text", "providerName": "Bedrock",
	}))
	if err != nil {
		t.Fatalf("HandleRequest() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, resp.Body)
	}

	var body map[string][]string
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body["models"]) != 2 || body["models"][0] != "model-a" {
		t.Errorf("models = %v", body["models"])
	}
}

func TestHandleRequest_ListFallsBackToCatalog(t *testing.T) {
	store := &fakeModelInfoStore{lists: map[string][]string{}}
	handler := NewHandler(store, modelcatalog.MustLoad(), metrics.Noop{}, nil)

	resp, err := handler.HandleRequest(context.Background(), request(map[string]string{
		"useCaseType": "Text", "providerName": "Bedrock",
	}))
	if err != nil {
		t.Fatalf("HandleRequest() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, resp.Body)
	}

	var body map[string][]string
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body["models"]) == 0 {
		t.Error("catalog fallback returned no models")
	}
}

func TestHandleRequest_GetModelInfoFallsBackToCatalog(t *testing.T) {
	store := &fakeModelInfoStore{models: map[string]*models.ModelInfo{}}
	handler := NewHandler(store, modelcatalog.MustLoad(), metrics.Noop{}, nil)

	resp, err := handler.HandleRequest(context.Background(), request(map[string]string{
		"useCaseType": "Text", "providerName": "Bedrock", "modelId": "amazon.titan-text-express-v1",
	}))
	if err != nil {
		t.Fatalf("HandleRequest() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, resp.Body)
	}

	var info models.ModelInfo
	if err := json.Unmarshal([]byte(resp.Body), &info); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if info.MaxPromptSize != 7500 {
		t.Errorf("MaxPromptSize = %d", info.MaxPromptSize)
	}
}

func TestHandleRequest_UnknownEverywhereIs404(t *testing.T) {
	store := &fakeModelInfoStore{models: map[string]*models.ModelInfo{}}
	handler := NewHandler(store, modelcatalog.MustLoad(), metrics.Noop{}, nil)

	resp, err := handler.HandleRequest(context.Background(), request(map[string]string{
		"useCaseType": "Text", "providerName": "Bedrock", "modelId": "ghost-model",
	}))
	if err != nil {
		t.Fatalf("HandleRequest() error = %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHandleRequest_MissingParamsIs400(t *testing.T) {
	handler := NewHandler(&fakeModelInfoStore{}, modelcatalog.MustLoad(), metrics.Noop{}, nil)

	resp, err := handler.HandleRequest(context.Background(), request(map[string]string{}))
	if err != nil {
		t.Fatalf("HandleRequest() error = %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleRequest_StorageFaultIs500(t *testing.T) {
	handler := NewHandler(&fakeModelInfoStore{err: fmt.Errorf("throttled")}, modelcatalog.MustLoad(), metrics.Noop{}, nil)

	resp, err := handler.HandleRequest(context.Background(), request(map[string]string{
		"useCaseType": "Text", "providerName": "Bedrock",
	}))
	if err != nil {
		t.Fatalf("HandleRequest() error = %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}
