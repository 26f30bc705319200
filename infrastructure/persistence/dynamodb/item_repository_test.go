package dynamodb

import (
	"context"
	"testing"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndlib/mellon-blueprints/application/ports"
	"github.com/ndlib/mellon-blueprints/domain/core/entities"
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

func TestItemRepositorySaveNormalizesKeys(t *testing.T) {
	var captured *awsdynamodb.PutItemInput
	mock := &mockDynamoDB{
		putItem: func(ctx context.Context, params *awsdynamodb.PutItemInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.PutItemOutput, error) {
			captured = params
			return &awsdynamodb.PutItemOutput{}, nil
		},
	}
	repo := NewItemRepository(newTestTable(mock))

	item, err := entities.NewItem("bpp 1001", "Broadside Collection", entities.LevelCollection)
	require.NoError(t, err)
	item.ParentID = "top level"
	item.WebsiteID = "marble"

	require.NoError(t, repo.Save(context.Background(), item))
	require.NotNil(t, captured)

	pk := captured.Item[AttrPK].(*types.AttributeValueMemberS).Value
	sk := captured.Item[AttrSK].(*types.AttributeValueMemberS).Value
	assert.Equal(t, "ITEM#BPP1001", pk)
	assert.Equal(t, "ITEM#BPP1001", sk)

	gsi1pk := captured.Item[AttrGSI1PK].(*types.AttributeValueMemberS).Value
	assert.Equal(t, "ITEM#TOPLEVEL", gsi1pk)

	gsi2pk := captured.Item[AttrGSI2PK].(*types.AttributeValueMemberS).Value
	assert.Equal(t, "WEBSITE#MARBLE", gsi2pk)

	recordType := captured.Item[AttrRecordType].(*types.AttributeValueMemberS).Value
	assert.Equal(t, "ITEM", recordType)
}

func TestItemRepositoryGetByIDNotFound(t *testing.T) {
	mock := &mockDynamoDB{
		getItem: func(ctx context.Context, params *awsdynamodb.GetItemInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error) {
			return &awsdynamodb.GetItemOutput{Item: nil}, nil
		},
	}
	repo := NewItemRepository(newTestTable(mock))

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestItemRepositoryGetByIDNormalizesLookupKey(t *testing.T) {
	mock := &mockDynamoDB{
		getItem: func(ctx context.Context, params *awsdynamodb.GetItemInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error) {
			pk := params.Key[AttrPK].(*types.AttributeValueMemberS).Value
			assert.Equal(t, "ITEM#ELGRECO1541", pk)
			return &awsdynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
				AttrPK:         &types.AttributeValueMemberS{Value: pk},
				AttrSK:         &types.AttributeValueMemberS{Value: pk},
				AttrRecordType: &types.AttributeValueMemberS{Value: "ITEM"},
				"id":           &types.AttributeValueMemberS{Value: "ELGRECO1541"},
				"title":        &types.AttributeValueMemberS{Value: "El Greco"},
				"level":        &types.AttributeValueMemberS{Value: "manifest"},
			}}, nil
		},
	}
	repo := NewItemRepository(newTestTable(mock))

	item, err := repo.GetByID(context.Background(), "el greco 1541")
	require.NoError(t, err)
	assert.Equal(t, "ELGRECO1541", item.ID)
	assert.Equal(t, entities.LevelManifest, item.Level)
}

func TestItemRepositoryUpdateMapsConditionFailureToNotFound(t *testing.T) {
	mock := &mockDynamoDB{
		updateItem: func(ctx context.Context, params *awsdynamodb.UpdateItemInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.UpdateItemOutput, error) {
			return nil, &types.ConditionalCheckFailedException{}
		},
	}
	repo := NewItemRepository(newTestTable(mock))

	_, err := repo.Update(context.Background(), "nope", map[string]interface{}{"title": "x"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestItemRepositoryUpdateRejectsMembershipChanges(t *testing.T) {
	called := false
	mock := &mockDynamoDB{
		updateItem: func(ctx context.Context, params *awsdynamodb.UpdateItemInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.UpdateItemOutput, error) {
			called = true
			return &awsdynamodb.UpdateItemOutput{}, nil
		},
	}
	repo := NewItemRepository(newTestTable(mock))

	for _, attr := range []string{"parentId", "websiteId"} {
		_, err := repo.Update(context.Background(), "bpp1001", map[string]interface{}{attr: "elsewhere"})
		require.Error(t, err, attr)
		assert.True(t, pkgerrors.IsValidation(err), attr)
	}
	assert.False(t, called, "membership patches must be rejected before reaching the table")
}

func TestItemRepositoryUpdateReturnsNewImage(t *testing.T) {
	mock := &mockDynamoDB{
		updateItem: func(ctx context.Context, params *awsdynamodb.UpdateItemInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.UpdateItemOutput, error) {
			assert.Equal(t, types.ReturnValueAllNew, params.ReturnValues)
			assert.NotNil(t, params.UpdateExpression)
			assert.NotNil(t, params.ConditionExpression)
			return &awsdynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{
				AttrPK:         &types.AttributeValueMemberS{Value: "ITEM#BPP1001"},
				AttrSK:         &types.AttributeValueMemberS{Value: "ITEM#BPP1001"},
				AttrRecordType: &types.AttributeValueMemberS{Value: "ITEM"},
				"id":           &types.AttributeValueMemberS{Value: "BPP1001"},
				"title":        &types.AttributeValueMemberS{Value: "Renamed"},
				"level":        &types.AttributeValueMemberS{Value: "collection"},
			}}, nil
		},
	}
	repo := NewItemRepository(newTestTable(mock))

	item, err := repo.Update(context.Background(), "bpp 1001", map[string]interface{}{"title": "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", item.Title)
}

func TestItemRepositoryListByWebsiteUsesGSI2(t *testing.T) {
	mock := &mockDynamoDB{
		query: func(ctx context.Context, params *awsdynamodb.QueryInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.QueryOutput, error) {
			require.NotNil(t, params.IndexName)
			assert.Equal(t, "GSI2", *params.IndexName)
			return &awsdynamodb.QueryOutput{
				Items: []map[string]types.AttributeValue{{
					AttrPK:         &types.AttributeValueMemberS{Value: "ITEM#A"},
					AttrSK:         &types.AttributeValueMemberS{Value: "ITEM#A"},
					AttrRecordType: &types.AttributeValueMemberS{Value: "ITEM"},
					"id":           &types.AttributeValueMemberS{Value: "A"},
					"title":        &types.AttributeValueMemberS{Value: "A"},
					"level":        &types.AttributeValueMemberS{Value: "manifest"},
				}},
				LastEvaluatedKey: map[string]types.AttributeValue{
					AttrPK: &types.AttributeValueMemberS{Value: "ITEM#A"},
					AttrSK: &types.AttributeValueMemberS{Value: "ITEM#A"},
				},
			}, nil
		},
	}
	repo := NewItemRepository(newTestTable(mock))

	page, err := repo.ListByWebsite(context.Background(), "marble", ports.ListOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.NotEmpty(t, page.NextToken)
}

func TestItemRepositoryListByParentPassesStartKey(t *testing.T) {
	lastKey := map[string]types.AttributeValue{
		AttrPK: &types.AttributeValueMemberS{Value: "ITEM#B"},
		AttrSK: &types.AttributeValueMemberS{Value: "ITEM#B"},
	}
	token, err := encodeNextToken(lastKey)
	require.NoError(t, err)

	mock := &mockDynamoDB{
		query: func(ctx context.Context, params *awsdynamodb.QueryInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.QueryOutput, error) {
			assert.Equal(t, lastKey, params.ExclusiveStartKey)
			require.NotNil(t, params.IndexName)
			assert.Equal(t, "GSI1", *params.IndexName)
			return &awsdynamodb.QueryOutput{}, nil
		},
	}
	repo := NewItemRepository(newTestTable(mock))

	page, err := repo.ListByParent(context.Background(), "parent", ports.ListOptions{NextToken: token})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Empty(t, page.NextToken)
}
