package queries

import (
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// GetWebsiteQuery fetches one website by name.
type GetWebsiteQuery struct {
	Name string `json:"name"`
}

// Validate validates the GetWebsiteQuery.
func (q GetWebsiteQuery) Validate() error {
	if q.Name == "" {
		return pkgerrors.NewValidationError("website name is required")
	}
	return nil
}

// ListWebsitesQuery pages through all websites.
type ListWebsitesQuery struct {
	Limit     int32  `json:"limit,omitempty"`
	NextToken string `json:"nextToken,omitempty"`
}

// Validate validates the ListWebsitesQuery.
func (q ListWebsitesQuery) Validate() error {
	return nil
}
