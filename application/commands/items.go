package commands

import (
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// SaveItemCommand writes a full collection item record.
type SaveItemCommand struct {
	ID              string                 `json:"id"`
	ParentID        string                 `json:"parentId,omitempty"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description,omitempty"`
	Level           string                 `json:"level"`
	WebsiteID       string                 `json:"websiteId,omitempty"`
	Creator         string                 `json:"creator,omitempty"`
	Copyright       string                 `json:"copyrightStatement,omitempty"`
	DefaultFilePath string                 `json:"defaultFilePath,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

// Validate validates the SaveItemCommand.
func (c SaveItemCommand) Validate() error {
	if c.ID == "" {
		return pkgerrors.NewValidationError("item id is required")
	}
	if c.Title == "" {
		return pkgerrors.NewValidationError("item title is required")
	}
	if c.Level == "" {
		return pkgerrors.NewValidationError("item level is required")
	}
	return nil
}

// UpdateItemCommand applies a partial update to an existing item. Attributes
// present with an empty value are removed, everything else is set.
type UpdateItemCommand struct {
	ID    string                 `json:"id"`
	Patch map[string]interface{} `json:"patch"`
}

// Validate validates the UpdateItemCommand.
func (c UpdateItemCommand) Validate() error {
	if c.ID == "" {
		return pkgerrors.NewValidationError("item id is required")
	}
	if len(c.Patch) == 0 {
		return pkgerrors.NewValidationError("update patch is empty")
	}
	return nil
}
