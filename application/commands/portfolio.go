package commands

import (
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// Portfolio commands always carry the caller's user id; the storage layer
// conditions every write on it.

// SavePortfolioUserCommand writes the caller's profile record.
type SavePortfolioUserCommand struct {
	UserID     string `json:"userId"`
	FullName   string `json:"fullName,omitempty"`
	Email      string `json:"email,omitempty"`
	Bio        string `json:"bio,omitempty"`
	Department string `json:"department,omitempty"`
}

// Validate validates the SavePortfolioUserCommand.
func (c SavePortfolioUserCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewValidationError("user id is required")
	}
	return nil
}

// SavePortfolioCollectionCommand creates or replaces a collection. When
// CollectionID is blank a new collection is created.
type SavePortfolioCollectionCommand struct {
	UserID       string `json:"userId"`
	CollectionID string `json:"portfolioCollectionId,omitempty"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Privacy      string `json:"privacy,omitempty"`
	Featured     bool   `json:"featured,omitempty"`
	ImageURI     string `json:"imageUri,omitempty"`
}

// Validate validates the SavePortfolioCollectionCommand.
func (c SavePortfolioCollectionCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewValidationError("user id is required")
	}
	if c.Title == "" {
		return pkgerrors.NewValidationError("collection title is required")
	}
	return nil
}

// RemovePortfolioCollectionCommand deletes a collection owned by the caller.
type RemovePortfolioCollectionCommand struct {
	UserID       string `json:"userId"`
	CollectionID string `json:"portfolioCollectionId"`
}

// Validate validates the RemovePortfolioCollectionCommand.
func (c RemovePortfolioCollectionCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewValidationError("user id is required")
	}
	if c.CollectionID == "" {
		return pkgerrors.NewValidationError("collection id is required")
	}
	return nil
}

// SavePortfolioItemCommand creates or replaces an item in a collection the
// caller owns. When PortfolioItemID is blank a new item is created.
type SavePortfolioItemCommand struct {
	UserID          string `json:"userId"`
	CollectionID    string `json:"portfolioCollectionId"`
	PortfolioItemID string `json:"portfolioItemId,omitempty"`
	InternalItemID  string `json:"internalItemId,omitempty"`
	Title           string `json:"title"`
	Annotation      string `json:"annotation,omitempty"`
	URI             string `json:"uri,omitempty"`
	ImageURI        string `json:"imageUri,omitempty"`
	Sequence        int    `json:"sequence,omitempty"`
}

// Validate validates the SavePortfolioItemCommand.
func (c SavePortfolioItemCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewValidationError("user id is required")
	}
	if c.CollectionID == "" {
		return pkgerrors.NewValidationError("collection id is required")
	}
	if c.Title == "" {
		return pkgerrors.NewValidationError("portfolio item title is required")
	}
	return nil
}

// RemovePortfolioItemCommand deletes an item from a collection the caller
// owns.
type RemovePortfolioItemCommand struct {
	UserID          string `json:"userId"`
	CollectionID    string `json:"portfolioCollectionId"`
	PortfolioItemID string `json:"portfolioItemId"`
}

// Validate validates the RemovePortfolioItemCommand.
func (c RemovePortfolioItemCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewValidationError("user id is required")
	}
	if c.CollectionID == "" {
		return pkgerrors.NewValidationError("collection id is required")
	}
	if c.PortfolioItemID == "" {
		return pkgerrors.NewValidationError("portfolio item id is required")
	}
	return nil
}
