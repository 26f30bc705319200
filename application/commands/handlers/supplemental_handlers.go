package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndlib/mellon-blueprints/application/commands"
	"github.com/ndlib/mellon-blueprints/application/commands/bus"
	"github.com/ndlib/mellon-blueprints/application/ports"
	"github.com/ndlib/mellon-blueprints/domain/core/entities"
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
	"github.com/ndlib/mellon-blueprints/pkg/utils"
)

// SaveSupplementalDataHandler handles SaveSupplementalDataCommand.
type SaveSupplementalDataHandler struct {
	supplemental ports.SupplementalDataRepository
	publisher    ports.EventPublisher
	logger       *zap.Logger
}

// NewSaveSupplementalDataHandler creates a new SaveSupplementalDataHandler.
func NewSaveSupplementalDataHandler(supplemental ports.SupplementalDataRepository, publisher ports.EventPublisher, logger *zap.Logger) *SaveSupplementalDataHandler {
	return &SaveSupplementalDataHandler{supplemental: supplemental, publisher: publisher, logger: logger}
}

// Handle writes a supplemental data record under its item and returns it.
// A fresh id is assigned when the command carries none.
func (h *SaveSupplementalDataHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.SaveSupplementalDataCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected command type %T", cmd)
	}

	id := c.ID
	if id == "" {
		id = uuid.New().String()
	}

	data, err := entities.NewSupplementalData(id, c.ItemID)
	if err != nil {
		return nil, err
	}
	data.Title = c.Title
	data.Abstract = c.Abstract
	if err := utils.ValidateStruct(data); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	if err := h.supplemental.Save(ctx, data); err != nil {
		return nil, err
	}

	if key, err := data.Key(); err == nil {
		publishEvent(ctx, h.publisher, h.logger, actionSaved, key, "")
	}
	return data, nil
}

// RemoveSupplementalDataHandler handles RemoveSupplementalDataCommand.
type RemoveSupplementalDataHandler struct {
	supplemental ports.SupplementalDataRepository
	publisher    ports.EventPublisher
	logger       *zap.Logger
}

// NewRemoveSupplementalDataHandler creates a new RemoveSupplementalDataHandler.
func NewRemoveSupplementalDataHandler(supplemental ports.SupplementalDataRepository, publisher ports.EventPublisher, logger *zap.Logger) *RemoveSupplementalDataHandler {
	return &RemoveSupplementalDataHandler{supplemental: supplemental, publisher: publisher, logger: logger}
}

// Handle deletes one supplemental data record.
func (h *RemoveSupplementalDataHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.RemoveSupplementalDataCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected command type %T", cmd)
	}

	data, err := entities.NewSupplementalData(c.ID, c.ItemID)
	if err != nil {
		return nil, err
	}

	if err := h.supplemental.Delete(ctx, c.ItemID, c.ID); err != nil {
		return nil, err
	}

	if key, err := data.Key(); err == nil {
		publishEvent(ctx, h.publisher, h.logger, actionRemoved, key, "")
	}
	return &RemovedRecord{ID: c.ID, Removed: true}, nil
}
