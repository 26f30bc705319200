package commands

import (
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// SaveWebsiteCommand writes a full website record.
type SaveWebsiteCommand struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// Validate validates the SaveWebsiteCommand.
func (c SaveWebsiteCommand) Validate() error {
	if c.Name == "" {
		return pkgerrors.NewValidationError("website name is required")
	}
	if c.Title == "" {
		return pkgerrors.NewValidationError("website title is required")
	}
	return nil
}
