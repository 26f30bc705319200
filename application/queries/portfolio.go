package queries

import (
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// GetPortfolioUserQuery fetches a portfolio user's profile.
type GetPortfolioUserQuery struct {
	UserID string `json:"userId"`
}

// Validate validates the GetPortfolioUserQuery.
func (q GetPortfolioUserQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user id is required")
	}
	return nil
}

// GetPortfolioCollectionQuery fetches one collection. CallerID gates access
// to non-public collections: only the owner may read them.
type GetPortfolioCollectionQuery struct {
	UserID       string `json:"userId"`
	CollectionID string `json:"portfolioCollectionId"`
	CallerID     string `json:"-"`
}

// Validate validates the GetPortfolioCollectionQuery.
func (q GetPortfolioCollectionQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user id is required")
	}
	if q.CollectionID == "" {
		return pkgerrors.NewValidationError("collection id is required")
	}
	return nil
}

// ListPortfolioCollectionsQuery pages through a user's collections. When the
// caller is not the owner, non-public collections are filtered out.
type ListPortfolioCollectionsQuery struct {
	UserID    string `json:"userId"`
	CallerID  string `json:"-"`
	Limit     int32  `json:"limit,omitempty"`
	NextToken string `json:"nextToken,omitempty"`
}

// Validate validates the ListPortfolioCollectionsQuery.
func (q ListPortfolioCollectionsQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user id is required")
	}
	return nil
}

// ListFeaturedPortfolioCollectionsQuery pages through the public, featured
// collections across all users.
type ListFeaturedPortfolioCollectionsQuery struct {
	Limit     int32  `json:"limit,omitempty"`
	NextToken string `json:"nextToken,omitempty"`
}

// Validate validates the ListFeaturedPortfolioCollectionsQuery.
func (q ListFeaturedPortfolioCollectionsQuery) Validate() error {
	return nil
}

// GetPortfolioItemQuery fetches one portfolio item. Items inherit the
// visibility of their collection, so CallerID gates them the same way.
type GetPortfolioItemQuery struct {
	CollectionID    string `json:"portfolioCollectionId"`
	PortfolioItemID string `json:"portfolioItemId"`
	CallerID        string `json:"-"`
}

// Validate validates the GetPortfolioItemQuery.
func (q GetPortfolioItemQuery) Validate() error {
	if q.CollectionID == "" {
		return pkgerrors.NewValidationError("collection id is required")
	}
	if q.PortfolioItemID == "" {
		return pkgerrors.NewValidationError("portfolio item id is required")
	}
	return nil
}

// ListPortfolioItemsQuery pages through the items in a collection. CallerID
// gates listings the same way GetPortfolioCollectionQuery gates the
// collection itself.
type ListPortfolioItemsQuery struct {
	CollectionID string `json:"portfolioCollectionId"`
	CallerID     string `json:"-"`
	Limit        int32  `json:"limit,omitempty"`
	NextToken    string `json:"nextToken,omitempty"`
}

// Validate validates the ListPortfolioItemsQuery.
func (q ListPortfolioItemsQuery) Validate() error {
	if q.CollectionID == "" {
		return pkgerrors.NewValidationError("collection id is required")
	}
	return nil
}
