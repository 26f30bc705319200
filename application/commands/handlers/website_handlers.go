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

// SaveWebsiteHandler handles SaveWebsiteCommand.
type SaveWebsiteHandler struct {
	websites  ports.WebsiteRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewSaveWebsiteHandler creates a new SaveWebsiteHandler.
func NewSaveWebsiteHandler(websites ports.WebsiteRepository, publisher ports.EventPublisher, logger *zap.Logger) *SaveWebsiteHandler {
	return &SaveWebsiteHandler{websites: websites, publisher: publisher, logger: logger}
}

// Handle writes the full website record and returns it.
func (h *SaveWebsiteHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.SaveWebsiteCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected command type %T", cmd)
	}

	website, err := entities.NewWebsite(c.Name, c.Title)
	if err != nil {
		return nil, err
	}
	website.URL = c.URL
	if err := utils.ValidateStruct(website); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	if err := h.websites.Save(ctx, website); err != nil {
		return nil, err
	}

	if key, err := website.Key(); err == nil {
		publishEvent(ctx, h.publisher, h.logger, actionSaved, key, "")
	}
	return website, nil
}
