package entities

import (
	"time"

	"github.com/ndlib/mellon-blueprints/domain/core/valueobjects"
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// Website is a published site that surfaces a subset of the collection.
// The site name is its natural key.
type Website struct {
	Name      string    `json:"name" validate:"required,max=100"`
	Title     string    `json:"title" validate:"required,max=200"`
	URL       string    `json:"url,omitempty" validate:"omitempty,url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewWebsite validates and constructs a Website.
func NewWebsite(name, title string) (*Website, error) {
	if valueobjects.NormalizeID(name) == "" {
		return nil, pkgerrors.NewValidationError("website name cannot be empty")
	}
	if title == "" {
		return nil, pkgerrors.NewValidationError("website title cannot be empty")
	}

	now := time.Now().UTC()
	return &Website{
		Name:      name,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Key returns the website's partition key.
func (w *Website) Key() (valueobjects.RecordKey, error) {
	return valueobjects.NewRecordKey(valueobjects.RecordTypeWebsite, w.Name)
}
