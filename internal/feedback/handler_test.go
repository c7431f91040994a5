package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/usecase-hub/platform/internal/apperrors"
	"github.com/usecase-hub/platform/internal/config"
	"github.com/usecase-hub/platform/internal/messaging"
	"github.com/usecase-hub/platform/internal/metrics"
	"github.com/usecase-hub/platform/internal/models"
)

type fakeStore struct {
	configs map[string]*models.UseCaseConfig
}

func (f *fakeStore) GetConfig(_ context.Context, key string) (*models.UseCaseConfig, error) {
	cfg, ok := f.configs[key]
	if !ok {
		return nil, fmt.Errorf("use case config %s: %w", key, apperrors.ErrNotFound)
	}
	return cfg, nil
}

type fakeS3 struct {
	puts []*s3.PutObjectInput
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, params)
	return &s3.PutObjectOutput{}, f.err
}

type fakePublisher struct {
	events []*messaging.FeedbackEvent
	err    error
}

func (f *fakePublisher) PublishFeedbackEvent(_ context.Context, event *messaging.FeedbackEvent) error {
	f.events = append(f.events, event)
	return f.err
}

type fakeVerifier struct {
	subject string
	err     error
}

func (f *fakeVerifier) Verify(context.Context, string) (string, error) {
	return f.subject, f.err
}

func feedbackEnabledConfig() *models.UseCaseConfig {
	return &models.UseCaseConfig{
		UseCaseName:    "support-bot",
		UseCaseType:    models.UseCaseTypeText,
		FeedbackParams: map[string]interface{}{"FeedbackEnabled": true},
	}
}

func testHandler(store *fakeStore, s3Client *fakeS3, publisher *fakePublisher, verifier *fakeVerifier) *Handler {
	cfg := &config.Config{
		Stage:              config.StageDev,
		AWSRegion:          "us-east-1",
		FeedbackBucketName: "feedback-bucket",
	}
	h := NewHandler(cfg, store, s3Client, publisher, verifier, metrics.Noop{}, nil)
	h.now = func() time.Time { return time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC) }
	return h
}

func submission(body string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		Headers: map[string]string{"authorization": "Bearer token"},
		Body:    body,
	}
}

func TestHandleRequest_StoresAndPublishes(t *testing.T) {
	store := &fakeStore{configs: map[string]*models.UseCaseConfig{"abc123": feedbackEnabledConfig()}}
	s3Client := &fakeS3{}
	publisher := &fakePublisher{}
	handler := testHandler(store, s3Client, publisher, &fakeVerifier{subject: "user-42"})

	resp, err := handler.HandleRequest(context.Background(), submission(
		`{"useCaseRecordKey":"abc123","rating":"helpful","comment":"great answer"}`,
	))
	if err != nil {
		t.Fatalf("HandleRequest() error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", resp.StatusCode, resp.Body)
	}

	if len(s3Client.puts) != 1 {
		t.Fatalf("PutObject called %d times, want 1", len(s3Client.puts))
	}
	put := s3Client.puts[0]
	if *put.Bucket != "feedback-bucket" {
		t.Errorf("bucket = %q", *put.Bucket)
	}
	if !strings.HasPrefix(*put.Key, "feedback/abc123/") || !strings.HasSuffix(*put.Key, ".json") {
		t.Errorf("object key = %q", *put.Key)
	}

	stored, err := io.ReadAll(put.Body)
	if err != nil {
		t.Fatalf("read stored body: %v", err)
	}
	var record Record
	if err := json.Unmarshal(stored, &record); err != nil {
		t.Fatalf("unmarshal stored record: %v", err)
	}
	if record.UserID != "user-42" || record.Rating != RatingHelpful || record.Comment != "great answer" {
		t.Errorf("stored record = %+v", record)
	}

	if len(publisher.events) != 1 {
		t.Fatalf("published %d events, want 1", len(publisher.events))
	}
	if publisher.events[0].FeedbackID != record.FeedbackID {
		t.Error("event feedback id does not match stored record")
	}

	var respBody map[string]string
	if err := json.Unmarshal([]byte(resp.Body), &respBody); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if respBody["feedbackId"] != record.FeedbackID {
		t.Error("response feedback id does not match stored record")
	}
}

func TestHandleRequest_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{`},
		{"missing key", `{"rating":"helpful"}`},
		{"bad rating", `{"useCaseRecordKey":"abc123","rating":"meh"}`},
		{"oversized comment", fmt.Sprintf(`{"useCaseRecordKey":"abc123","rating":"helpful","comment":%q}`, strings.Repeat("x", 501))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{configs: map[string]*models.UseCaseConfig{"abc123": feedbackEnabledConfig()}}
			s3Client := &fakeS3{}
			handler := testHandler(store, s3Client, &fakePublisher{}, &fakeVerifier{subject: "user-42"})

			resp, err := handler.HandleRequest(context.Background(), submission(tt.body))
			if err != nil {
				t.Fatalf("HandleRequest() error = %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if len(s3Client.puts) != 0 {
				t.Error("rejected submission was stored")
			}
		})
	}
}

func TestHandleRequest_Authorization(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		handler := testHandler(&fakeStore{}, &fakeS3{}, &fakePublisher{}, &fakeVerifier{subject: "user-42"})

		resp, err := handler.HandleRequest(context.Background(), events.APIGatewayV2HTTPRequest{
			Body: `{"useCaseRecordKey":"abc123","rating":"helpful"}`,
		})
		if err != nil {
			t.Fatalf("HandleRequest() error = %v", err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("verifier rejects token", func(t *testing.T) {
		handler := testHandler(&fakeStore{}, &fakeS3{}, &fakePublisher{}, &fakeVerifier{err: fmt.Errorf("bad signature")})

		resp, err := handler.HandleRequest(context.Background(), submission(`{"useCaseRecordKey":"abc123","rating":"helpful"}`))
		if err != nil {
			t.Fatalf("HandleRequest() error = %v", err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})
}

func TestHandleRequest_UseCaseGating(t *testing.T) {
	t.Run("unknown use case", func(t *testing.T) {
		handler := testHandler(&fakeStore{configs: map[string]*models.UseCaseConfig{}}, &fakeS3{}, &fakePublisher{}, &fakeVerifier{subject: "u"})

		resp, _ := handler.HandleRequest(context.Background(), submission(`{"useCaseRecordKey":"ghost","rating":"helpful"}`))
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("feedback disabled", func(t *testing.T) {
		disabled := &models.UseCaseConfig{
			UseCaseName:    "quiet-bot",
			UseCaseType:    models.UseCaseTypeText,
			FeedbackParams: map[string]interface{}{"FeedbackEnabled": false},
		}
		handler := testHandler(&fakeStore{configs: map[string]*models.UseCaseConfig{"abc123": disabled}}, &fakeS3{}, &fakePublisher{}, &fakeVerifier{subject: "u"})

		resp, _ := handler.HandleRequest(context.Background(), submission(`{"useCaseRecordKey":"abc123","rating":"helpful"}`))
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
	})

	t.Run("no feedback params at all", func(t *testing.T) {
		bare := &models.UseCaseConfig{UseCaseName: "bare", UseCaseType: models.UseCaseTypeText}
		handler := testHandler(&fakeStore{configs: map[string]*models.UseCaseConfig{"abc123": bare}}, &fakeS3{}, &fakePublisher{}, &fakeVerifier{subject: "u"})

		resp, _ := handler.HandleRequest(context.Background(), submission(`{"useCaseRecordKey":"abc123","rating":"helpful"}`))
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
	})
}

func TestHandleRequest_PublishFailureDoesNotFailSubmission(t *testing.T) {
	store := &fakeStore{configs: map[string]*models.UseCaseConfig{"abc123": feedbackEnabledConfig()}}
	handler := testHandler(store, &fakeS3{}, &fakePublisher{err: fmt.Errorf("topic gone")}, &fakeVerifier{subject: "u"})

	resp, err := handler.HandleRequest(context.Background(), submission(`{"useCaseRecordKey":"abc123","rating":"not-helpful"}`))
	if err != nil {
		t.Fatalf("HandleRequest() error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201 despite publish failure", resp.StatusCode)
	}
}

func TestHandleRequest_StorageFailureIs500(t *testing.T) {
	store := &fakeStore{configs: map[string]*models.UseCaseConfig{"abc123": feedbackEnabledConfig()}}
	handler := testHandler(store, &fakeS3{err: fmt.Errorf("access denied")}, &fakePublisher{}, &fakeVerifier{subject: "u"})

	resp, err := handler.HandleRequest(context.Background(), submission(`{"useCaseRecordKey":"abc123","rating":"helpful"}`))
	if err != nil {
		t.Fatalf("HandleRequest() error = %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	if strings.Contains(resp.Body, "access denied") {
		t.Errorf("storage error leaked: %s", resp.Body)
	}
}
