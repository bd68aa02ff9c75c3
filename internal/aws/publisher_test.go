package aws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// mockSQS captures sent messages.
type mockSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (m *mockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, params)
	return &sqs.SendMessageOutput{}, nil
}

// mockCloudWatch captures metric puts.
type mockCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.inputs = append(m.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestPublishOrderEvent(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, "https://sqs.example/queue")
	p.nowFunc = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	if err := p.PublishOrderEvent(context.Background(), EventOrderCreated, 42, "req-1"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(mock.inputs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mock.inputs))
	}
	input := mock.inputs[0]
	if *input.QueueUrl != "https://sqs.example/queue" {
		t.Fatalf("unexpected queue url %s", *input.QueueUrl)
	}

	var event OrderEvent
	if err := json.Unmarshal([]byte(*input.MessageBody), &event); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if event.Event != EventOrderCreated || event.OrderID != 42 {
		t.Fatalf("unexpected event: %+v", event)
	}

	if got := *input.MessageAttributes["event_type"].StringValue; got != EventOrderCreated {
		t.Fatalf("event_type attribute = %s", got)
	}
	if got := *input.MessageAttributes["order_id"].StringValue; got != "42" {
		t.Fatalf("order_id attribute = %s", got)
	}
	if got := *input.MessageAttributes["correlation_id"].StringValue; got != "req-1" {
		t.Fatalf("correlation_id attribute = %s", got)
	}
}

func TestPublishOrderEventOmitsEmptyCorrelation(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, "q")

	if err := p.PublishOrderEvent(context.Background(), EventOrderDeleted, 1, ""); err != nil {
		t.Fatal(err)
	}
	if _, ok := mock.inputs[0].MessageAttributes["correlation_id"]; ok {
		t.Fatal("correlation_id should be omitted when empty")
	}
}

func TestPublishOrderEventSendFailure(t *testing.T) {
	mock := &mockSQS{err: errors.New("boom")}
	p := NewPublisher(mock, "q")

	if err := p.PublishOrderEvent(context.Background(), EventOrderCreated, 1, ""); err == nil {
		t.Fatal("expected send error")
	}
}

func TestMetricsCount(t *testing.T) {
	mock := &mockCloudWatch{}
	m := NewMetrics(mock, "Bendito/API")

	if err := m.Count(context.Background(), MetricOrdersCreated); err != nil {
		t.Fatalf("count: %v", err)
	}

	if len(mock.inputs) != 1 {
		t.Fatalf("expected 1 put, got %d", len(mock.inputs))
	}
	input := mock.inputs[0]
	if *input.Namespace != "Bendito/API" {
		t.Fatalf("namespace = %s", *input.Namespace)
	}
	datum := input.MetricData[0]
	if *datum.MetricName != MetricOrdersCreated || *datum.Value != 1 {
		t.Fatalf("unexpected datum: %+v", datum)
	}
}
