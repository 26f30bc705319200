package entities

import (
	"time"

	"github.com/google/uuid"

	"github.com/ndlib/mellon-blueprints/domain/core/valueobjects"
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// PrivacyLevel controls who can read a portfolio collection.
type PrivacyLevel string

const (
	PrivacyPrivate PrivacyLevel = "private"
	PrivacyShared  PrivacyLevel = "shared"
	PrivacyPublic  PrivacyLevel = "public"
)

// PortfolioUser is the profile record for a user who curates portfolios.
type PortfolioUser struct {
	UserID         string    `json:"userId" validate:"required"`
	FullName       string    `json:"fullName,omitempty" validate:"max=200"`
	Email          string    `json:"email,omitempty" validate:"omitempty,email"`
	Bio            string    `json:"bio,omitempty" validate:"max=2000"`
	Department     string    `json:"department,omitempty"`
	PortfolioCount int       `json:"portfolioCount,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// PortfolioCollection is a user-curated set of portfolio items.
type PortfolioCollection struct {
	CollectionID string       `json:"portfolioCollectionId" validate:"required"`
	UserID       string       `json:"userId" validate:"required"`
	Title        string       `json:"title" validate:"required,max=200"`
	Description  string       `json:"description,omitempty" validate:"max=5000"`
	Privacy      PrivacyLevel `json:"privacy" validate:"required,oneof=private shared public"`
	Featured     bool         `json:"featured"`
	ImageURI     string       `json:"imageUri,omitempty"`
	ItemCount    int          `json:"itemCount,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// PortfolioItem is one entry in a portfolio collection, usually annotating a
// collection item but allowed to reference external material by URI.
type PortfolioItem struct {
	PortfolioItemID string    `json:"portfolioItemId" validate:"required"`
	CollectionID    string    `json:"portfolioCollectionId" validate:"required"`
	UserID          string    `json:"userId" validate:"required"`
	InternalItemID  string    `json:"internalItemId,omitempty"`
	Title           string    `json:"title" validate:"required,max=500"`
	Annotation      string    `json:"annotation,omitempty" validate:"max=5000"`
	URI             string    `json:"uri,omitempty" validate:"omitempty,url"`
	ImageURI        string    `json:"imageUri,omitempty"`
	Sequence        int       `json:"sequence,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewPortfolioUser validates and constructs a PortfolioUser.
func NewPortfolioUser(userID string) (*PortfolioUser, error) {
	if valueobjects.NormalizeID(userID) == "" {
		return nil, pkgerrors.NewValidationError("user id cannot be empty")
	}
	now := time.Now().UTC()
	return &PortfolioUser{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewPortfolioCollection validates and constructs a collection owned by the
// given user. A fresh id is assigned when none is supplied.
func NewPortfolioCollection(userID, title string, privacy PrivacyLevel) (*PortfolioCollection, error) {
	if valueobjects.NormalizeID(userID) == "" {
		return nil, pkgerrors.NewValidationError("user id cannot be empty")
	}
	if title == "" {
		return nil, pkgerrors.NewValidationError("collection title cannot be empty")
	}
	if privacy == "" {
		privacy = PrivacyPrivate
	}
	switch privacy {
	case PrivacyPrivate, PrivacyShared, PrivacyPublic:
	default:
		return nil, pkgerrors.NewValidationError("privacy must be private, shared or public")
	}

	now := time.Now().UTC()
	return &PortfolioCollection{
		CollectionID: uuid.New().String(),
		UserID:       userID,
		Title:        title,
		Privacy:      privacy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewPortfolioItem validates and constructs an item in a collection.
func NewPortfolioItem(userID, collectionID, title string) (*PortfolioItem, error) {
	if valueobjects.NormalizeID(userID) == "" {
		return nil, pkgerrors.NewValidationError("user id cannot be empty")
	}
	if valueobjects.NormalizeID(collectionID) == "" {
		return nil, pkgerrors.NewValidationError("collection id cannot be empty")
	}
	if title == "" {
		return nil, pkgerrors.NewValidationError("portfolio item title cannot be empty")
	}

	now := time.Now().UTC()
	return &PortfolioItem{
		PortfolioItemID: uuid.New().String(),
		CollectionID:    collectionID,
		UserID:          userID,
		Title:           title,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Key returns the user's partition key.
func (u *PortfolioUser) Key() (valueobjects.RecordKey, error) {
	return valueobjects.NewRecordKey(valueobjects.RecordTypePortfolioUser, u.UserID)
}

// OwnerKey returns the partition key of the owning user.
func (c *PortfolioCollection) OwnerKey() (valueobjects.RecordKey, error) {
	return valueobjects.NewRecordKey(valueobjects.RecordTypePortfolioUser, c.UserID)
}

// Key returns the collection's sort key within the user partition.
func (c *PortfolioCollection) Key() (valueobjects.RecordKey, error) {
	return valueobjects.NewRecordKey(valueobjects.RecordTypePortfolioCollection, c.CollectionID)
}

// IsPubliclyVisible reports whether the collection appears in public listings.
func (c *PortfolioCollection) IsPubliclyVisible() bool {
	return c.Privacy == PrivacyPublic
}

// CollectionKey returns the partition key of the owning collection.
func (p *PortfolioItem) CollectionKey() (valueobjects.RecordKey, error) {
	return valueobjects.NewRecordKey(valueobjects.RecordTypePortfolioCollection, p.CollectionID)
}

// Key returns the portfolio item's sort key within the collection partition.
func (p *PortfolioItem) Key() (valueobjects.RecordKey, error) {
	return valueobjects.NewRecordKey(valueobjects.RecordTypePortfolioItem, p.PortfolioItemID)
}
