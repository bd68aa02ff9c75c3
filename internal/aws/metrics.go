package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric names emitted by the API.
const (
	MetricOrdersCreated = "OrdersCreated"
	MetricOrdersDeleted = "OrdersDeleted"
)

// Metrics emits order lifecycle counters to CloudWatch.
type Metrics struct {
	Client    CloudWatchAPI
	Namespace string
	nowFunc   func() time.Time
}

// NewMetrics returns a Metrics emitter bound to a namespace.
func NewMetrics(client CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{
		Client:    client,
		Namespace: namespace,
		nowFunc:   time.Now,
	}
}

// Count adds 1 to the named counter metric.
func (m *Metrics) Count(ctx context.Context, name string) error {
	_, err := m.Client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &m.Namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &name,
				Value:      sdkaws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Timestamp:  sdkaws.Time(m.nowFunc().UTC()),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
