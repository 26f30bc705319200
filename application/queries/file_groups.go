package queries

import (
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// GetFileGroupQuery fetches one file group by id.
type GetFileGroupQuery struct {
	ID string `json:"objectFileGroupId"`
}

// Validate validates the GetFileGroupQuery.
func (q GetFileGroupQuery) Validate() error {
	if q.ID == "" {
		return pkgerrors.NewValidationError("file group id is required")
	}
	return nil
}

// ListFileGroupsQuery pages through all file groups.
type ListFileGroupsQuery struct {
	Limit     int32  `json:"limit,omitempty"`
	NextToken string `json:"nextToken,omitempty"`
}

// Validate validates the ListFileGroupsQuery.
func (q ListFileGroupsQuery) Validate() error {
	return nil
}
