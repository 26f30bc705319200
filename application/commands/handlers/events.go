package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ndlib/mellon-blueprints/application/ports"
	"github.com/ndlib/mellon-blueprints/domain/core/valueobjects"
)

const (
	actionSaved   = "saved"
	actionUpdated = "updated"
	actionRemoved = "removed"
)

// RemovedRecord is the result of a delete mutation.
type RemovedRecord struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

// publishEvent emits a content-changed event. Publish failures are logged
// and swallowed: the write has already committed and must not be reported
// as failed.
func publishEvent(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, action string, key valueobjects.RecordKey, userID string) {
	if publisher == nil {
		return
	}
	event := ports.ContentEvent{
		Action:     action,
		RecordType: string(key.Type()),
		RecordKey:  key.String(),
		UserID:     userID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish content event",
			zap.Error(err),
			zap.String("action", action),
			zap.String("recordKey", key.String()),
		)
	}
}
