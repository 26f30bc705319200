package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ndlib/mellon-blueprints/application/commands"
	"github.com/ndlib/mellon-blueprints/application/commands/bus"
	"github.com/ndlib/mellon-blueprints/application/ports"
	"github.com/ndlib/mellon-blueprints/domain/core/entities"
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
	"github.com/ndlib/mellon-blueprints/pkg/utils"
)

// SaveItemHandler handles SaveItemCommand.
type SaveItemHandler struct {
	items     ports.ItemRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewSaveItemHandler creates a new SaveItemHandler.
func NewSaveItemHandler(items ports.ItemRepository, publisher ports.EventPublisher, logger *zap.Logger) *SaveItemHandler {
	return &SaveItemHandler{items: items, publisher: publisher, logger: logger}
}

// Handle writes the full item record and returns it.
func (h *SaveItemHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.SaveItemCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected command type %T", cmd)
	}

	item, err := entities.NewItem(c.ID, c.Title, entities.ItemLevel(c.Level))
	if err != nil {
		return nil, err
	}
	item.ParentID = c.ParentID
	item.Description = c.Description
	item.WebsiteID = c.WebsiteID
	item.Creator = c.Creator
	item.Copyright = c.Copyright
	item.DefaultFilePath = c.DefaultFilePath
	if c.Metadata != nil {
		item.Metadata = c.Metadata
	}
	if err := utils.ValidateStruct(item); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	if err := h.items.Save(ctx, item); err != nil {
		return nil, err
	}

	if key, err := item.Key(); err == nil {
		publishEvent(ctx, h.publisher, h.logger, actionSaved, key, "")
	}
	return item, nil
}

// UpdateItemHandler handles UpdateItemCommand.
type UpdateItemHandler struct {
	items     ports.ItemRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewUpdateItemHandler creates a new UpdateItemHandler.
func NewUpdateItemHandler(items ports.ItemRepository, publisher ports.EventPublisher, logger *zap.Logger) *UpdateItemHandler {
	return &UpdateItemHandler{items: items, publisher: publisher, logger: logger}
}

// Handle applies a partial update and returns the updated item.
func (h *UpdateItemHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.UpdateItemCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected command type %T", cmd)
	}

	item, err := h.items.Update(ctx, c.ID, c.Patch)
	if err != nil {
		return nil, err
	}

	if key, err := item.Key(); err == nil {
		publishEvent(ctx, h.publisher, h.logger, actionUpdated, key, "")
	}
	return item, nil
}
