package entities

import (
	"time"

	"github.com/ndlib/mellon-blueprints/domain/core/valueobjects"
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// SupplementalData is curator-authored data layered over a collection item,
// stored in the item's partition so it travels with the item.
type SupplementalData struct {
	ID        string    `json:"id" validate:"required"`
	ItemID    string    `json:"itemId" validate:"required"`
	Title     string    `json:"title,omitempty" validate:"max=500"`
	Abstract  string    `json:"abstract,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSupplementalData validates and constructs a SupplementalData record.
func NewSupplementalData(id, itemID string) (*SupplementalData, error) {
	if valueobjects.NormalizeID(id) == "" {
		return nil, pkgerrors.NewValidationError("supplemental data id cannot be empty")
	}
	if valueobjects.NormalizeID(itemID) == "" {
		return nil, pkgerrors.NewValidationError("supplemental data item id cannot be empty")
	}

	now := time.Now().UTC()
	return &SupplementalData{
		ID:        id,
		ItemID:    itemID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ItemKey returns the partition key of the owning item.
func (s *SupplementalData) ItemKey() (valueobjects.RecordKey, error) {
	return valueobjects.NewRecordKey(valueobjects.RecordTypeItem, s.ItemID)
}

// Key returns the record's sort key within the item partition.
func (s *SupplementalData) Key() (valueobjects.RecordKey, error) {
	return valueobjects.NewRecordKey(valueobjects.RecordTypeSupplementalData, s.ID)
}
