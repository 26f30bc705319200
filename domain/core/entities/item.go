package entities

import (
	"time"

	"github.com/ndlib/mellon-blueprints/domain/core/valueobjects"
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// ItemLevel describes where an item sits in the collection hierarchy.
type ItemLevel string

const (
	LevelCollection ItemLevel = "collection"
	LevelManifest   ItemLevel = "manifest"
	LevelFile       ItemLevel = "file"
)

// Item is a digital-collection item. Items form a hierarchy through ParentID
// and are published to zero or more websites.
type Item struct {
	ID              string                 `json:"id" validate:"required"`
	ParentID        string                 `json:"parentId,omitempty"`
	Title           string                 `json:"title" validate:"required,max=500"`
	Description     string                 `json:"description,omitempty"`
	Level           ItemLevel              `json:"level" validate:"required,oneof=collection manifest file"`
	WebsiteID       string                 `json:"websiteId,omitempty"`
	Creator         string                 `json:"creator,omitempty"`
	Copyright       string                 `json:"copyrightStatement,omitempty"`
	DefaultFilePath string                 `json:"defaultFilePath,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// NewItem validates and constructs an Item. The id and parent id are kept in
// raw form here; key normalization happens at the persistence boundary.
func NewItem(id, title string, level ItemLevel) (*Item, error) {
	if valueobjects.NormalizeID(id) == "" {
		return nil, pkgerrors.NewValidationError("item id cannot be empty")
	}
	if title == "" {
		return nil, pkgerrors.NewValidationError("item title cannot be empty")
	}
	switch level {
	case LevelCollection, LevelManifest, LevelFile:
	default:
		return nil, pkgerrors.NewValidationError("item level must be collection, manifest or file")
	}

	now := time.Now().UTC()
	return &Item{
		ID:        id,
		Title:     title,
		Level:     level,
		Metadata:  make(map[string]interface{}),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Key returns the item's partition key.
func (i *Item) Key() (valueobjects.RecordKey, error) {
	return valueobjects.NewRecordKey(valueobjects.RecordTypeItem, i.ID)
}

// ParentKey returns the key of the item's parent, or a zero key for roots.
func (i *Item) ParentKey() (valueobjects.RecordKey, error) {
	if i.ParentID == "" {
		return valueobjects.RecordKey{}, nil
	}
	return valueobjects.NewRecordKey(valueobjects.RecordTypeItem, i.ParentID)
}

// IsRoot reports whether the item has no parent.
func (i *Item) IsRoot() bool {
	return i.ParentID == ""
}
