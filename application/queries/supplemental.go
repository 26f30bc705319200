package queries

import (
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// GetSupplementalDataQuery fetches one supplemental data record.
type GetSupplementalDataQuery struct {
	ItemID string `json:"itemId"`
	ID     string `json:"id"`
}

// Validate validates the GetSupplementalDataQuery.
func (q GetSupplementalDataQuery) Validate() error {
	if q.ItemID == "" {
		return pkgerrors.NewValidationError("item id is required")
	}
	if q.ID == "" {
		return pkgerrors.NewValidationError("supplemental data id is required")
	}
	return nil
}

// ListSupplementalDataForItemQuery pages through an item's supplemental data.
type ListSupplementalDataForItemQuery struct {
	ItemID    string `json:"itemId"`
	Limit     int32  `json:"limit,omitempty"`
	NextToken string `json:"nextToken,omitempty"`
}

// Validate validates the ListSupplementalDataForItemQuery.
func (q ListSupplementalDataForItemQuery) Validate() error {
	if q.ItemID == "" {
		return pkgerrors.NewValidationError("item id is required")
	}
	return nil
}
