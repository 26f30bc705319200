package commands

import (
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// FileInput is one file within a SaveFileGroupCommand.
type FileInput struct {
	Path      string `json:"path"`
	Label     string `json:"label,omitempty"`
	MimeType  string `json:"mimeType,omitempty"`
	Sequence  int    `json:"sequence,omitempty"`
	SourceURI string `json:"sourceUri,omitempty"`
}

// SaveFileGroupCommand writes a full file group record, files inline.
type SaveFileGroupCommand struct {
	ID            string      `json:"objectFileGroupId"`
	Label         string      `json:"label,omitempty"`
	StorageSystem string      `json:"storageSystem"`
	TypeOfData    string      `json:"typeOfData,omitempty"`
	Files         []FileInput `json:"files,omitempty"`
}

// Validate validates the SaveFileGroupCommand.
func (c SaveFileGroupCommand) Validate() error {
	if c.ID == "" {
		return pkgerrors.NewValidationError("file group id is required")
	}
	if c.StorageSystem == "" {
		return pkgerrors.NewValidationError("storage system is required")
	}
	for _, f := range c.Files {
		if f.Path == "" {
			return pkgerrors.NewValidationError("every file needs a path")
		}
	}
	return nil
}
