package handlers

import (
	"context"
	"fmt"

	"github.com/ndlib/mellon-blueprints/application/ports"
	"github.com/ndlib/mellon-blueprints/application/queries"
	"github.com/ndlib/mellon-blueprints/application/queries/bus"
)

// SupplementalDataQueryHandlers resolves supplemental data reads against the
// repository.
type SupplementalDataQueryHandlers struct {
	supplemental ports.SupplementalDataRepository
}

// NewSupplementalDataQueryHandlers creates the supplemental data query handlers.
func NewSupplementalDataQueryHandlers(supplemental ports.SupplementalDataRepository) *SupplementalDataQueryHandlers {
	return &SupplementalDataQueryHandlers{supplemental: supplemental}
}

// HandleGet fetches one supplemental data record.
func (h *SupplementalDataQueryHandlers) HandleGet(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetSupplementalDataQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	return h.supplemental.Get(ctx, q.ItemID, q.ID)
}

// HandleListForItem pages through an item's supplemental data.
func (h *SupplementalDataQueryHandlers) HandleListForItem(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListSupplementalDataForItemQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	return h.supplemental.ListByItem(ctx, q.ItemID, ports.ListOptions{Limit: q.Limit, NextToken: q.NextToken})
}
