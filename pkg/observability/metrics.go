package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// CloudWatchAPI is the subset of the CloudWatch client the metrics sink uses.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics publishes per-operation latency and error counts. Metric failures
// are logged and swallowed; observability must never fail a request.
type Metrics struct {
	client    CloudWatchAPI
	namespace string
	logger    *zap.Logger
}

// NewMetrics creates a metrics sink under the given namespace.
func NewMetrics(client CloudWatchAPI, namespace string, logger *zap.Logger) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// RecordOperation publishes latency and outcome for one resolver operation.
func (m *Metrics) RecordOperation(ctx context.Context, operation string, duration time.Duration, failed bool) {
	if m == nil || m.client == nil {
		return
	}

	dimensions := []cwtypes.Dimension{{
		Name:  aws.String("Operation"),
		Value: aws.String(operation),
	}}

	errorValue := 0.0
	if failed {
		errorValue = 1.0
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String("OperationLatency"),
				Dimensions: dimensions,
				Unit:       cwtypes.StandardUnitMilliseconds,
				Value:      aws.Float64(float64(duration.Milliseconds())),
			},
			{
				MetricName: aws.String("OperationErrors"),
				Dimensions: dimensions,
				Unit:       cwtypes.StandardUnitCount,
				Value:      aws.Float64(errorValue),
			},
		},
	})
	if err != nil {
		m.logger.Warn("Failed to publish metrics",
			zap.Error(err),
			zap.String("operation", operation),
		)
	}
}
