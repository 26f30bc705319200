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

// PortfolioCommandHandlers holds the shared dependencies for all portfolio
// mutations. Ownership is enforced by the repository; handlers only shape
// entities and publish events.
type PortfolioCommandHandlers struct {
	portfolios ports.PortfolioRepository
	publisher  ports.EventPublisher
	logger     *zap.Logger
}

// NewPortfolioCommandHandlers creates the portfolio mutation handlers.
func NewPortfolioCommandHandlers(portfolios ports.PortfolioRepository, publisher ports.EventPublisher, logger *zap.Logger) *PortfolioCommandHandlers {
	return &PortfolioCommandHandlers{portfolios: portfolios, publisher: publisher, logger: logger}
}

// HandleSaveUser writes the caller's profile record and returns it.
func (h *PortfolioCommandHandlers) HandleSaveUser(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.SavePortfolioUserCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected command type %T", cmd)
	}

	user, err := entities.NewPortfolioUser(c.UserID)
	if err != nil {
		return nil, err
	}
	user.FullName = c.FullName
	user.Email = c.Email
	user.Bio = c.Bio
	user.Department = c.Department
	if err := utils.ValidateStruct(user); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	if err := h.portfolios.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	if key, err := user.Key(); err == nil {
		publishEvent(ctx, h.publisher, h.logger, actionSaved, key, c.UserID)
	}
	return user, nil
}

// HandleSaveCollection creates or replaces a collection owned by the caller
// and returns it.
func (h *PortfolioCommandHandlers) HandleSaveCollection(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.SavePortfolioCollectionCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected command type %T", cmd)
	}

	collection, err := entities.NewPortfolioCollection(c.UserID, c.Title, entities.PrivacyLevel(c.Privacy))
	if err != nil {
		return nil, err
	}
	if c.CollectionID != "" {
		collection.CollectionID = c.CollectionID
	}
	collection.Description = c.Description
	collection.Featured = c.Featured
	collection.ImageURI = c.ImageURI
	if err := utils.ValidateStruct(collection); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	if err := h.portfolios.SaveCollection(ctx, collection); err != nil {
		return nil, err
	}

	if key, err := collection.Key(); err == nil {
		publishEvent(ctx, h.publisher, h.logger, actionSaved, key, c.UserID)
	}
	return collection, nil
}

// HandleRemoveCollection deletes a collection owned by the caller.
func (h *PortfolioCommandHandlers) HandleRemoveCollection(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.RemovePortfolioCollectionCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected command type %T", cmd)
	}

	if err := h.portfolios.DeleteCollection(ctx, c.UserID, c.CollectionID); err != nil {
		return nil, err
	}

	collection := entities.PortfolioCollection{CollectionID: c.CollectionID, UserID: c.UserID}
	if key, err := collection.Key(); err == nil {
		publishEvent(ctx, h.publisher, h.logger, actionRemoved, key, c.UserID)
	}
	return &RemovedRecord{ID: c.CollectionID, Removed: true}, nil
}

// HandleSaveItem creates or replaces an item in a collection the caller owns
// and returns it.
func (h *PortfolioCommandHandlers) HandleSaveItem(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.SavePortfolioItemCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected command type %T", cmd)
	}

	item, err := entities.NewPortfolioItem(c.UserID, c.CollectionID, c.Title)
	if err != nil {
		return nil, err
	}
	if c.PortfolioItemID != "" {
		item.PortfolioItemID = c.PortfolioItemID
	}
	item.InternalItemID = c.InternalItemID
	item.Annotation = c.Annotation
	item.URI = c.URI
	item.ImageURI = c.ImageURI
	item.Sequence = c.Sequence
	if err := utils.ValidateStruct(item); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	if err := h.portfolios.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	if key, err := item.Key(); err == nil {
		publishEvent(ctx, h.publisher, h.logger, actionSaved, key, c.UserID)
	}
	return item, nil
}

// HandleRemoveItem deletes an item from a collection the caller owns.
func (h *PortfolioCommandHandlers) HandleRemoveItem(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.RemovePortfolioItemCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected command type %T", cmd)
	}

	if err := h.portfolios.DeleteItem(ctx, c.UserID, c.CollectionID, c.PortfolioItemID); err != nil {
		return nil, err
	}

	item := entities.PortfolioItem{PortfolioItemID: c.PortfolioItemID, CollectionID: c.CollectionID, UserID: c.UserID}
	if key, err := item.Key(); err == nil {
		publishEvent(ctx, h.publisher, h.logger, actionRemoved, key, c.UserID)
	}
	return &RemovedRecord{ID: c.PortfolioItemID, Removed: true}, nil
}
