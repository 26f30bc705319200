package handlers

import (
	"context"
	"fmt"

	"github.com/ndlib/mellon-blueprints/application/ports"
	"github.com/ndlib/mellon-blueprints/application/queries"
	"github.com/ndlib/mellon-blueprints/application/queries/bus"
)

// FileGroupQueryHandlers resolves file group reads against the repository.
type FileGroupQueryHandlers struct {
	groups ports.FileGroupRepository
}

// NewFileGroupQueryHandlers creates the file group query handlers.
func NewFileGroupQueryHandlers(groups ports.FileGroupRepository) *FileGroupQueryHandlers {
	return &FileGroupQueryHandlers{groups: groups}
}

// HandleGet fetches one file group by id.
func (h *FileGroupQueryHandlers) HandleGet(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetFileGroupQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	return h.groups.GetByID(ctx, q.ID)
}

// HandleList pages through all file groups.
func (h *FileGroupQueryHandlers) HandleList(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListFileGroupsQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	return h.groups.List(ctx, ports.ListOptions{Limit: q.Limit, NextToken: q.NextToken})
}
