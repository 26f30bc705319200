package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndlib/mellon-blueprints/application/ports"
	"github.com/ndlib/mellon-blueprints/application/queries"
	"github.com/ndlib/mellon-blueprints/domain/core/entities"
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

type mockPortfolioRepo struct {
	getCollectionFn   func(ctx context.Context, userID, collectionID string) (*entities.PortfolioCollection, error)
	listCollectionsFn func(ctx context.Context, userID string, opts ports.ListOptions) (ports.Page[*entities.PortfolioCollection], error)
	getItemFn         func(ctx context.Context, collectionID, portfolioItemID string) (*entities.PortfolioItem, error)
	listItemsFn       func(ctx context.Context, collectionID string, opts ports.ListOptions) (ports.Page[*entities.PortfolioItem], error)
	ports.PortfolioRepository
}

func (m *mockPortfolioRepo) GetCollection(ctx context.Context, userID, collectionID string) (*entities.PortfolioCollection, error) {
	return m.getCollectionFn(ctx, userID, collectionID)
}

func (m *mockPortfolioRepo) ListCollections(ctx context.Context, userID string, opts ports.ListOptions) (ports.Page[*entities.PortfolioCollection], error) {
	return m.listCollectionsFn(ctx, userID, opts)
}

func (m *mockPortfolioRepo) GetItem(ctx context.Context, collectionID, portfolioItemID string) (*entities.PortfolioItem, error) {
	return m.getItemFn(ctx, collectionID, portfolioItemID)
}

func (m *mockPortfolioRepo) ListItems(ctx context.Context, collectionID string, opts ports.ListOptions) (ports.Page[*entities.PortfolioItem], error) {
	return m.listItemsFn(ctx, collectionID, opts)
}

func TestGetCollectionHidesPrivateFromStrangers(t *testing.T) {
	repo := &mockPortfolioRepo{
		getCollectionFn: func(context.Context, string, string) (*entities.PortfolioCollection, error) {
			return &entities.PortfolioCollection{
				CollectionID: "c1",
				UserID:       "jdoe1",
				Privacy:      entities.PrivacyPrivate,
			}, nil
		},
	}
	h := NewPortfolioQueryHandlers(repo)

	_, err := h.HandleGetCollection(context.Background(), queries.GetPortfolioCollectionQuery{
		UserID:       "jdoe1",
		CollectionID: "c1",
		CallerID:     "stranger",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestGetCollectionOwnerSeesPrivate(t *testing.T) {
	repo := &mockPortfolioRepo{
		getCollectionFn: func(context.Context, string, string) (*entities.PortfolioCollection, error) {
			return &entities.PortfolioCollection{
				CollectionID: "c1",
				UserID:       "jdoe1",
				Privacy:      entities.PrivacyPrivate,
			}, nil
		},
	}
	h := NewPortfolioQueryHandlers(repo)

	// Caller ids normalize before comparison, so casing differences
	// still match.
	result, err := h.HandleGetCollection(context.Background(), queries.GetPortfolioCollectionQuery{
		UserID:       "jdoe1",
		CollectionID: "c1",
		CallerID:     "JDoe1",
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", result.(*entities.PortfolioCollection).CollectionID)
}

func TestGetCollectionPublicVisibleToAnyone(t *testing.T) {
	repo := &mockPortfolioRepo{
		getCollectionFn: func(context.Context, string, string) (*entities.PortfolioCollection, error) {
			return &entities.PortfolioCollection{
				CollectionID: "c1",
				UserID:       "jdoe1",
				Privacy:      entities.PrivacyPublic,
			}, nil
		},
	}
	h := NewPortfolioQueryHandlers(repo)

	_, err := h.HandleGetCollection(context.Background(), queries.GetPortfolioCollectionQuery{
		UserID:       "jdoe1",
		CollectionID: "c1",
	})
	assert.NoError(t, err)
}

func TestListCollectionsFiltersForStrangers(t *testing.T) {
	page := ports.Page[*entities.PortfolioCollection]{
		Items: []*entities.PortfolioCollection{
			{CollectionID: "pub", UserID: "jdoe1", Privacy: entities.PrivacyPublic},
			{CollectionID: "priv", UserID: "jdoe1", Privacy: entities.PrivacyPrivate},
			{CollectionID: "shared", UserID: "jdoe1", Privacy: entities.PrivacyShared},
		},
		NextToken: "more",
	}
	repo := &mockPortfolioRepo{
		listCollectionsFn: func(context.Context, string, ports.ListOptions) (ports.Page[*entities.PortfolioCollection], error) {
			return page, nil
		},
	}
	h := NewPortfolioQueryHandlers(repo)

	result, err := h.HandleListCollections(context.Background(), queries.ListPortfolioCollectionsQuery{
		UserID:   "jdoe1",
		CallerID: "stranger",
	})
	require.NoError(t, err)

	got := result.(ports.Page[*entities.PortfolioCollection])
	require.Len(t, got.Items, 1)
	assert.Equal(t, "pub", got.Items[0].CollectionID)
	assert.Equal(t, "more", got.NextToken)
}

func privateCollectionRepo(items ...*entities.PortfolioItem) *mockPortfolioRepo {
	return &mockPortfolioRepo{
		getCollectionFn: func(context.Context, string, string) (*entities.PortfolioCollection, error) {
			return &entities.PortfolioCollection{
				CollectionID: "c1",
				UserID:       "jdoe1",
				Privacy:      entities.PrivacyPrivate,
			}, nil
		},
		getItemFn: func(context.Context, string, string) (*entities.PortfolioItem, error) {
			return items[0], nil
		},
		listItemsFn: func(context.Context, string, ports.ListOptions) (ports.Page[*entities.PortfolioItem], error) {
			return ports.Page[*entities.PortfolioItem]{Items: items}, nil
		},
	}
}

func TestGetItemHiddenWhenCollectionPrivate(t *testing.T) {
	repo := privateCollectionRepo(&entities.PortfolioItem{
		PortfolioItemID: "p1",
		CollectionID:    "c1",
		UserID:          "jdoe1",
		Title:           "Private annotation",
	})
	h := NewPortfolioQueryHandlers(repo)

	_, err := h.HandleGetItem(context.Background(), queries.GetPortfolioItemQuery{
		CollectionID:    "c1",
		PortfolioItemID: "p1",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestGetItemOwnerSeesPrivateCollection(t *testing.T) {
	repo := privateCollectionRepo(&entities.PortfolioItem{
		PortfolioItemID: "p1",
		CollectionID:    "c1",
		UserID:          "jdoe1",
	})
	h := NewPortfolioQueryHandlers(repo)

	result, err := h.HandleGetItem(context.Background(), queries.GetPortfolioItemQuery{
		CollectionID:    "c1",
		PortfolioItemID: "p1",
		CallerID:        "JDoe1",
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", result.(*entities.PortfolioItem).PortfolioItemID)
}

func TestListItemsHiddenWhenCollectionPrivate(t *testing.T) {
	repo := privateCollectionRepo(&entities.PortfolioItem{
		PortfolioItemID: "p1",
		CollectionID:    "c1",
		UserID:          "jdoe1",
	})
	h := NewPortfolioQueryHandlers(repo)

	_, err := h.HandleListItems(context.Background(), queries.ListPortfolioItemsQuery{
		CollectionID: "c1",
		CallerID:     "stranger",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestListItemsPublicCollectionVisibleToAnyone(t *testing.T) {
	repo := privateCollectionRepo(&entities.PortfolioItem{
		PortfolioItemID: "p1",
		CollectionID:    "c1",
		UserID:          "jdoe1",
	})
	repo.getCollectionFn = func(context.Context, string, string) (*entities.PortfolioCollection, error) {
		return &entities.PortfolioCollection{
			CollectionID: "c1",
			UserID:       "jdoe1",
			Privacy:      entities.PrivacyPublic,
		}, nil
	}
	h := NewPortfolioQueryHandlers(repo)

	result, err := h.HandleListItems(context.Background(), queries.ListPortfolioItemsQuery{
		CollectionID: "c1",
	})
	require.NoError(t, err)
	assert.Len(t, result.(ports.Page[*entities.PortfolioItem]).Items, 1)
}

func TestListItemsOrphansOfMissingCollectionHidden(t *testing.T) {
	repo := privateCollectionRepo(&entities.PortfolioItem{
		PortfolioItemID: "p1",
		CollectionID:    "c1",
		UserID:          "jdoe1",
	})
	repo.getCollectionFn = func(context.Context, string, string) (*entities.PortfolioCollection, error) {
		return nil, pkgerrors.NewNotFoundError("portfolio collection")
	}
	h := NewPortfolioQueryHandlers(repo)

	_, err := h.HandleListItems(context.Background(), queries.ListPortfolioItemsQuery{
		CollectionID: "c1",
		CallerID:     "stranger",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestListCollectionsOwnerSeesAll(t *testing.T) {
	repo := &mockPortfolioRepo{
		listCollectionsFn: func(context.Context, string, ports.ListOptions) (ports.Page[*entities.PortfolioCollection], error) {
			return ports.Page[*entities.PortfolioCollection]{
				Items: []*entities.PortfolioCollection{
					{CollectionID: "pub", UserID: "jdoe1", Privacy: entities.PrivacyPublic},
					{CollectionID: "priv", UserID: "jdoe1", Privacy: entities.PrivacyPrivate},
				},
			}, nil
		},
	}
	h := NewPortfolioQueryHandlers(repo)

	result, err := h.HandleListCollections(context.Background(), queries.ListPortfolioCollectionsQuery{
		UserID:   "jdoe1",
		CallerID: "jdoe1",
	})
	require.NoError(t, err)
	assert.Len(t, result.(ports.Page[*entities.PortfolioCollection]).Items, 2)
}
