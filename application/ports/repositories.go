package ports

import (
	"context"

	"github.com/ndlib/mellon-blueprints/domain/core/entities"
)

// Page carries one page of a listing plus the opaque continuation token.
type Page[T any] struct {
	Items     []T
	NextToken string
}

// ListOptions controls paged listings.
type ListOptions struct {
	Limit     int32
	NextToken string
}

// ItemRepository persists collection items.
type ItemRepository interface {
	// Save writes the full item record (create or replace).
	Save(ctx context.Context, item *entities.Item) error

	// Update applies a partial update and returns the updated record.
	Update(ctx context.Context, id string, patch map[string]interface{}) (*entities.Item, error)

	// GetByID retrieves an item by its raw (un-normalized) id.
	GetByID(ctx context.Context, id string) (*entities.Item, error)

	// ListByParent retrieves the direct children of an item.
	ListByParent(ctx context.Context, parentID string, opts ListOptions) (Page[*entities.Item], error)

	// ListByWebsite retrieves items published to a website.
	ListByWebsite(ctx context.Context, websiteName string, opts ListOptions) (Page[*entities.Item], error)
}

// WebsiteRepository persists website records.
type WebsiteRepository interface {
	Save(ctx context.Context, website *entities.Website) error
	GetByName(ctx context.Context, name string) (*entities.Website, error)
	List(ctx context.Context, opts ListOptions) (Page[*entities.Website], error)
}

// FileGroupRepository persists file group records.
type FileGroupRepository interface {
	Save(ctx context.Context, group *entities.FileGroup) error
	GetByID(ctx context.Context, id string) (*entities.FileGroup, error)
	List(ctx context.Context, opts ListOptions) (Page[*entities.FileGroup], error)
}

// SupplementalDataRepository persists supplemental data within item partitions.
type SupplementalDataRepository interface {
	Save(ctx context.Context, data *entities.SupplementalData) error
	Get(ctx context.Context, itemID, id string) (*entities.SupplementalData, error)
	ListByItem(ctx context.Context, itemID string, opts ListOptions) (Page[*entities.SupplementalData], error)
	Delete(ctx context.Context, itemID, id string) error
}

// PortfolioRepository persists user portfolio records. Ownership is enforced
// at the storage layer: mutations on collections and items condition on the
// owning user id.
type PortfolioRepository interface {
	SaveUser(ctx context.Context, user *entities.PortfolioUser) error
	GetUser(ctx context.Context, userID string) (*entities.PortfolioUser, error)

	SaveCollection(ctx context.Context, collection *entities.PortfolioCollection) error
	GetCollection(ctx context.Context, userID, collectionID string) (*entities.PortfolioCollection, error)
	ListCollections(ctx context.Context, userID string, opts ListOptions) (Page[*entities.PortfolioCollection], error)
	ListFeaturedCollections(ctx context.Context, opts ListOptions) (Page[*entities.PortfolioCollection], error)
	DeleteCollection(ctx context.Context, userID, collectionID string) error

	SaveItem(ctx context.Context, item *entities.PortfolioItem) error
	GetItem(ctx context.Context, collectionID, portfolioItemID string) (*entities.PortfolioItem, error)
	ListItems(ctx context.Context, collectionID string, opts ListOptions) (Page[*entities.PortfolioItem], error)
	DeleteItem(ctx context.Context, userID, collectionID, portfolioItemID string) error
}

// EventPublisher publishes content-changed notifications after mutations.
type EventPublisher interface {
	Publish(ctx context.Context, event ContentEvent) error
}

// ContentEvent describes a mutation applied to a stored record.
type ContentEvent struct {
	Action     string `json:"action"`
	RecordType string `json:"recordType"`
	RecordKey  string `json:"recordKey"`
	UserID     string `json:"userId,omitempty"`
	OccurredAt string `json:"occurredAt"`
}
