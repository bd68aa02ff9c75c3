package aws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/smithy-go"
)

// Order event types carried in the message attributes.
const (
	EventOrderCreated = "order.created"
	EventOrderDeleted = "order.deleted"
)

// OrderEvent is the message body sent to downstream consumers.
type OrderEvent struct {
	Event      string    `json:"event"`
	OrderID    int64     `json:"order_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher wraps an SQS client and a queue URL.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
	nowFunc  func() time.Time
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
		nowFunc:  time.Now,
	}
}

// PublishOrderEvent sends one order lifecycle event. correlationID travels as
// a message attribute so consumers can tie the event back to the API request.
func (p *Publisher) PublishOrderEvent(ctx context.Context, event string, orderID int64, correlationID string) error {
	body, err := json.Marshal(OrderEvent{
		Event:      event,
		OrderID:    orderID,
		OccurredAt: p.nowFunc().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	messageBody := string(body)
	input := &sqs.SendMessageInput{
		QueueUrl:    &p.QueueURL,
		MessageBody: &messageBody,
	}

	attrs := map[string]string{
		"event_type": event,
		"order_id":   strconv.FormatInt(orderID, 10),
	}
	if correlationID != "" {
		attrs["correlation_id"] = correlationID
	}
	msgAttrs := map[string]sqstypes.MessageAttributeValue{}
	for k, v := range attrs {
		v := v
		msgAttrs[k] = sqstypes.MessageAttributeValue{
			DataType:    awsString("String"),
			StringValue: &v,
		}
	}
	input.MessageAttributes = msgAttrs

	if _, err := p.SQS.SendMessage(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("send message (%s): %w", apiErr.ErrorCode(), err)
		}
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
