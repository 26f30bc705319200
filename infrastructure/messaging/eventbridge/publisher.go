package eventbridge

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"github.com/ndlib/mellon-blueprints/application/ports"
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// Source is the EventBridge source field on every published event.
const Source = "mellon.user-content"

// EventBridgeAPI is the subset of the EventBridge client the publisher uses.
type EventBridgeAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Publisher implements ports.EventPublisher on EventBridge. Downstream rules
// fan the content-changed events out to the site build pipelines.
type Publisher struct {
	client       EventBridgeAPI
	eventBusName string
	logger       *zap.Logger
}

// NewPublisher creates an EventBridge publisher.
func NewPublisher(client EventBridgeAPI, eventBusName string, logger *zap.Logger) ports.EventPublisher {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		logger:       logger,
	}
}

// Publish sends one content-changed event.
func (p *Publisher) Publish(ctx context.Context, event ports.ContentEvent) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal content event", err)
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(Source),
			DetailType:   aws.String(event.Action),
			Detail:       aws.String(string(detail)),
		}},
	})
	if err != nil {
		p.logger.Error("Failed to publish content event",
			zap.Error(err),
			zap.String("action", event.Action),
			zap.String("recordKey", event.RecordKey),
		)
		return pkgerrors.NewInternalError("failed to publish content event", err)
	}
	if out.FailedEntryCount > 0 {
		p.logger.Error("EventBridge rejected content event",
			zap.Int32("failedEntries", out.FailedEntryCount),
			zap.String("recordKey", event.RecordKey),
		)
		return pkgerrors.NewInternalError("eventbridge rejected content event", nil)
	}

	p.logger.Debug("Published content event",
		zap.String("action", event.Action),
		zap.String("recordType", event.RecordType),
		zap.String("recordKey", event.RecordKey),
	)
	return nil
}
