package queries

import (
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// GetItemQuery fetches one item by id.
type GetItemQuery struct {
	ID string `json:"id"`
}

// Validate validates the GetItemQuery.
func (q GetItemQuery) Validate() error {
	if q.ID == "" {
		return pkgerrors.NewValidationError("item id is required")
	}
	return nil
}

// ListItemsByParentQuery pages through the direct children of an item.
type ListItemsByParentQuery struct {
	ParentID  string `json:"parentId"`
	Limit     int32  `json:"limit,omitempty"`
	NextToken string `json:"nextToken,omitempty"`
}

// Validate validates the ListItemsByParentQuery.
func (q ListItemsByParentQuery) Validate() error {
	if q.ParentID == "" {
		return pkgerrors.NewValidationError("parent id is required")
	}
	return nil
}

// ListItemsByWebsiteQuery pages through the items published to a website.
type ListItemsByWebsiteQuery struct {
	WebsiteName string `json:"websiteName"`
	Limit       int32  `json:"limit,omitempty"`
	NextToken   string `json:"nextToken,omitempty"`
}

// Validate validates the ListItemsByWebsiteQuery.
func (q ListItemsByWebsiteQuery) Validate() error {
	if q.WebsiteName == "" {
		return pkgerrors.NewValidationError("website name is required")
	}
	return nil
}
