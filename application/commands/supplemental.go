package commands

import (
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// SaveSupplementalDataCommand writes a supplemental data record under an
// item. A fresh id is assigned when none is supplied.
type SaveSupplementalDataCommand struct {
	ID       string `json:"id,omitempty"`
	ItemID   string `json:"itemId"`
	Title    string `json:"title,omitempty"`
	Abstract string `json:"abstract,omitempty"`
}

// Validate validates the SaveSupplementalDataCommand.
func (c SaveSupplementalDataCommand) Validate() error {
	if c.ItemID == "" {
		return pkgerrors.NewValidationError("item id is required")
	}
	return nil
}

// RemoveSupplementalDataCommand removes one supplemental data record.
type RemoveSupplementalDataCommand struct {
	ItemID string `json:"itemId"`
	ID     string `json:"id"`
}

// Validate validates the RemoveSupplementalDataCommand.
func (c RemoveSupplementalDataCommand) Validate() error {
	if c.ItemID == "" {
		return pkgerrors.NewValidationError("item id is required")
	}
	if c.ID == "" {
		return pkgerrors.NewValidationError("supplemental data id is required")
	}
	return nil
}
