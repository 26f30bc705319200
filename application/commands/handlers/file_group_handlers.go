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

// SaveFileGroupHandler handles SaveFileGroupCommand.
type SaveFileGroupHandler struct {
	groups    ports.FileGroupRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewSaveFileGroupHandler creates a new SaveFileGroupHandler.
func NewSaveFileGroupHandler(groups ports.FileGroupRepository, publisher ports.EventPublisher, logger *zap.Logger) *SaveFileGroupHandler {
	return &SaveFileGroupHandler{groups: groups, publisher: publisher, logger: logger}
}

// Handle writes the full file group record, files inline, and returns it.
func (h *SaveFileGroupHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.SaveFileGroupCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected command type %T", cmd)
	}

	group, err := entities.NewFileGroup(c.ID, entities.StorageSystem(c.StorageSystem))
	if err != nil {
		return nil, err
	}
	group.Label = c.Label
	group.TypeOfData = c.TypeOfData
	for _, f := range c.Files {
		group.Files = append(group.Files, entities.File{
			Path:      f.Path,
			Label:     f.Label,
			MimeType:  f.MimeType,
			Sequence:  f.Sequence,
			SourceURI: f.SourceURI,
		})
	}
	if err := utils.ValidateStruct(group); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	if err := h.groups.Save(ctx, group); err != nil {
		return nil, err
	}

	if key, err := group.Key(); err == nil {
		publishEvent(ctx, h.publisher, h.logger, actionSaved, key, "")
	}
	return group, nil
}
