package handlers

import (
	"context"
	"fmt"

	"github.com/ndlib/mellon-blueprints/application/ports"
	"github.com/ndlib/mellon-blueprints/application/queries"
	"github.com/ndlib/mellon-blueprints/application/queries/bus"
	"github.com/ndlib/mellon-blueprints/domain/core/entities"
	"github.com/ndlib/mellon-blueprints/domain/core/valueobjects"
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// PortfolioQueryHandlers resolves portfolio reads. Visibility rules live
// here: non-public collections are only served to their owner.
type PortfolioQueryHandlers struct {
	portfolios ports.PortfolioRepository
}

// NewPortfolioQueryHandlers creates the portfolio query handlers.
func NewPortfolioQueryHandlers(portfolios ports.PortfolioRepository) *PortfolioQueryHandlers {
	return &PortfolioQueryHandlers{portfolios: portfolios}
}

func sameUser(a, b string) bool {
	return valueobjects.NormalizeID(a) == valueobjects.NormalizeID(b)
}

// HandleGetUser fetches a portfolio user's profile.
func (h *PortfolioQueryHandlers) HandleGetUser(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetPortfolioUserQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	return h.portfolios.GetUser(ctx, q.UserID)
}

// HandleGetCollection fetches one collection, hiding non-public collections
// from everyone but their owner.
func (h *PortfolioQueryHandlers) HandleGetCollection(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetPortfolioCollectionQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	collection, err := h.portfolios.GetCollection(ctx, q.UserID, q.CollectionID)
	if err != nil {
		return nil, err
	}
	if !collection.IsPubliclyVisible() && !sameUser(q.CallerID, collection.UserID) {
		return nil, pkgerrors.NewNotFoundError("portfolio collection")
	}
	return collection, nil
}

// HandleListCollections pages through a user's collections. Owners see
// everything; other callers only see public collections.
func (h *PortfolioQueryHandlers) HandleListCollections(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListPortfolioCollectionsQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	page, err := h.portfolios.ListCollections(ctx, q.UserID, ports.ListOptions{Limit: q.Limit, NextToken: q.NextToken})
	if err != nil {
		return nil, err
	}
	if sameUser(q.CallerID, q.UserID) {
		return page, nil
	}

	visible := make([]*entities.PortfolioCollection, 0, len(page.Items))
	for _, c := range page.Items {
		if c.IsPubliclyVisible() {
			visible = append(visible, c)
		}
	}
	page.Items = visible
	return page, nil
}

// HandleListFeaturedCollections pages through public, featured collections.
func (h *PortfolioQueryHandlers) HandleListFeaturedCollections(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListFeaturedPortfolioCollectionsQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	return h.portfolios.ListFeaturedCollections(ctx, ports.ListOptions{Limit: q.Limit, NextToken: q.NextToken})
}

// HandleGetItem fetches one portfolio item. Items inherit their collection's
// visibility: when the collection is not public, only the owner sees them.
func (h *PortfolioQueryHandlers) HandleGetItem(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetPortfolioItemQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	item, err := h.portfolios.GetItem(ctx, q.CollectionID, q.PortfolioItemID)
	if err != nil {
		return nil, err
	}
	if !sameUser(q.CallerID, item.UserID) {
		visible, err := h.collectionVisible(ctx, item.UserID, q.CollectionID)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, pkgerrors.NewNotFoundError("portfolio item")
		}
	}
	return item, nil
}

// HandleListItems pages through the items in a collection, under the same
// visibility rule as the collection itself.
func (h *PortfolioQueryHandlers) HandleListItems(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListPortfolioItemsQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	page, err := h.portfolios.ListItems(ctx, q.CollectionID, ports.ListOptions{Limit: q.Limit, NextToken: q.NextToken})
	if err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		return page, nil
	}

	// Every item in a collection partition shares one owner.
	owner := page.Items[0].UserID
	if !sameUser(q.CallerID, owner) {
		visible, err := h.collectionVisible(ctx, owner, q.CollectionID)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, pkgerrors.NewNotFoundError("portfolio collection")
		}
	}
	return page, nil
}

// collectionVisible reports whether a collection's contents are public. A
// missing collection record hides any orphaned items under it.
func (h *PortfolioQueryHandlers) collectionVisible(ctx context.Context, ownerID, collectionID string) (bool, error) {
	collection, err := h.portfolios.GetCollection(ctx, ownerID, collectionID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return collection.IsPubliclyVisible(), nil
}
