package handlers

import (
	"context"
	"fmt"

	"github.com/ndlib/mellon-blueprints/application/ports"
	"github.com/ndlib/mellon-blueprints/application/queries"
	"github.com/ndlib/mellon-blueprints/application/queries/bus"
)

// WebsiteQueryHandlers resolves website reads against the repository.
type WebsiteQueryHandlers struct {
	websites ports.WebsiteRepository
}

// NewWebsiteQueryHandlers creates the website query handlers.
func NewWebsiteQueryHandlers(websites ports.WebsiteRepository) *WebsiteQueryHandlers {
	return &WebsiteQueryHandlers{websites: websites}
}

// HandleGet fetches one website by name.
func (h *WebsiteQueryHandlers) HandleGet(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetWebsiteQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	return h.websites.GetByName(ctx, q.Name)
}

// HandleList pages through all websites.
func (h *WebsiteQueryHandlers) HandleList(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListWebsitesQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	return h.websites.List(ctx, ports.ListOptions{Limit: q.Limit, NextToken: q.NextToken})
}
