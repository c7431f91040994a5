package metrics

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func TestCloudWatchRecorder_Count(t *testing.T) {
	fake := &fakeCloudWatch{}
	recorder := NewCloudWatchRecorder(fake, "UseCaseHub/test", nil)

	recorder.Count(context.Background(), GetUseCaseConfigCount)

	if len(fake.inputs) != 1 {
		t.Fatalf("PutMetricData called %d times, want 1", len(fake.inputs))
	}
	input := fake.inputs[0]
	if *input.Namespace != "UseCaseHub/test" {
		t.Errorf("namespace = %q", *input.Namespace)
	}
	if len(input.MetricData) != 1 {
		t.Fatalf("metric data length = %d, want 1", len(input.MetricData))
	}
	datum := input.MetricData[0]
	if *datum.MetricName != GetUseCaseConfigCount {
		t.Errorf("metric name = %q", *datum.MetricName)
	}
	if *datum.Value != 1 {
		t.Errorf("value = %v, want 1", *datum.Value)
	}
}

func TestCloudWatchRecorder_DeliveryFailureIsSwallowed(t *testing.T) {
	fake := &fakeCloudWatch{err: fmt.Errorf("throttled")}
	recorder := NewCloudWatchRecorder(fake, "UseCaseHub/test", nil)

	// Must not panic or propagate; the request outcome owns the status code.
	recorder.Count(context.Background(), GetUseCaseConfigError)

	if len(fake.inputs) != 1 {
		t.Fatalf("PutMetricData called %d times, want 1", len(fake.inputs))
	}
}

func TestRecorderInterface(t *testing.T) {
	var _ Recorder = (*CloudWatchRecorder)(nil)
	var _ Recorder = Noop{}
}
