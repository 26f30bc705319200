package handlers

import (
	"context"
	"fmt"

	"github.com/ndlib/mellon-blueprints/application/ports"
	"github.com/ndlib/mellon-blueprints/application/queries"
	"github.com/ndlib/mellon-blueprints/application/queries/bus"
)

// ItemQueryHandlers resolves item reads against the repository.
type ItemQueryHandlers struct {
	items ports.ItemRepository
}

// NewItemQueryHandlers creates the item query handlers.
func NewItemQueryHandlers(items ports.ItemRepository) *ItemQueryHandlers {
	return &ItemQueryHandlers{items: items}
}

// HandleGet fetches one item by id.
func (h *ItemQueryHandlers) HandleGet(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetItemQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	return h.items.GetByID(ctx, q.ID)
}

// HandleListByParent pages through the direct children of an item.
func (h *ItemQueryHandlers) HandleListByParent(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListItemsByParentQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	return h.items.ListByParent(ctx, q.ParentID, ports.ListOptions{Limit: q.Limit, NextToken: q.NextToken})
}

// HandleListByWebsite pages through the items published to a website.
func (h *ItemQueryHandlers) HandleListByWebsite(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListItemsByWebsiteQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	return h.items.ListByWebsite(ctx, q.WebsiteName, ports.ListOptions{Limit: q.Limit, NextToken: q.NextToken})
}
