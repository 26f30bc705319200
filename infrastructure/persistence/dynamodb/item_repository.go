package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/ndlib/mellon-blueprints/application/ports"
	"github.com/ndlib/mellon-blueprints/domain/core/entities"
	"github.com/ndlib/mellon-blueprints/domain/core/valueobjects"
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// ItemRepository implements ports.ItemRepository on the single table.
type ItemRepository struct {
	table *Table
}

// NewItemRepository creates an item repository.
func NewItemRepository(table *Table) ports.ItemRepository {
	return &ItemRepository{table: table}
}

// itemRecord is the stored shape of an item. Item records live alone in
// their partition (PK == SK); GSI1 hangs them under their parent and GSI2
// under the website they are published to.
type itemRecord struct {
	PK           string                 `dynamodbav:"PK"`
	SK           string                 `dynamodbav:"SK"`
	GSI1PK       string                 `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK       string                 `dynamodbav:"GSI1SK,omitempty"`
	GSI2PK       string                 `dynamodbav:"GSI2PK,omitempty"`
	GSI2SK       string                 `dynamodbav:"GSI2SK,omitempty"`
	RecordType   string                 `dynamodbav:"recordType"`
	ID           string                 `dynamodbav:"id"`
	ParentID     string                 `dynamodbav:"parentId,omitempty"`
	Title        string                 `dynamodbav:"title"`
	Description  string                 `dynamodbav:"description,omitempty"`
	Level        string                 `dynamodbav:"level"`
	WebsiteID    string                 `dynamodbav:"websiteId,omitempty"`
	Creator      string                 `dynamodbav:"creator,omitempty"`
	Copyright    string                 `dynamodbav:"copyrightStatement,omitempty"`
	DefaultFile  string                 `dynamodbav:"defaultFilePath,omitempty"`
	Metadata     map[string]interface{} `dynamodbav:"metadata,omitempty"`
	DateAdded    string                 `dynamodbav:"dateAddedToDynamo"`
	DateModified string                 `dynamodbav:"dateModifiedInDynamo"`
}

func (r *ItemRepository) recordFromEntity(item *entities.Item) (*itemRecord, error) {
	key, err := item.Key()
	if err != nil {
		return nil, err
	}

	created, updated := timestampsRFC3339(item.CreatedAt, r.table.Now())
	rec := &itemRecord{
		PK:           key.String(),
		SK:           key.String(),
		RecordType:   string(valueobjects.RecordTypeItem),
		ID:           key.ID(),
		Title:        item.Title,
		Description:  item.Description,
		Level:        string(item.Level),
		Creator:      item.Creator,
		Copyright:    item.Copyright,
		DefaultFile:  item.DefaultFilePath,
		Metadata:     item.Metadata,
		DateAdded:    created,
		DateModified: updated,
	}

	if item.ParentID != "" {
		parentKey, err := item.ParentKey()
		if err != nil {
			return nil, err
		}
		rec.ParentID = parentKey.ID()
		rec.GSI1PK = parentKey.String()
		rec.GSI1SK = key.String()
	}
	if item.WebsiteID != "" {
		websiteKey, err := valueobjects.NewRecordKey(valueobjects.RecordTypeWebsite, item.WebsiteID)
		if err != nil {
			return nil, err
		}
		rec.WebsiteID = websiteKey.ID()
		rec.GSI2PK = websiteKey.String()
		rec.GSI2SK = key.String()
	}
	return rec, nil
}

func (rec *itemRecord) toEntity() *entities.Item {
	return &entities.Item{
		ID:              rec.ID,
		ParentID:        rec.ParentID,
		Title:           rec.Title,
		Description:     rec.Description,
		Level:           entities.ItemLevel(rec.Level),
		WebsiteID:       rec.WebsiteID,
		Creator:         rec.Creator,
		Copyright:       rec.Copyright,
		DefaultFilePath: rec.DefaultFile,
		Metadata:        rec.Metadata,
		CreatedAt:       parseStoredTime(rec.DateAdded),
		UpdatedAt:       parseStoredTime(rec.DateModified),
	}
}

// Save writes the full item record.
func (r *ItemRepository) Save(ctx context.Context, item *entities.Item) error {
	rec, err := r.recordFromEntity(item)
	if err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal item", err)
	}

	if _, err := r.table.Client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(r.table.TableName),
		Item:      av,
	}); err != nil {
		return translateError(err, "item")
	}

	r.table.Logger.Info("Saved item",
		zap.String("itemId", rec.ID),
		zap.String("level", rec.Level),
		zap.String("websiteId", rec.WebsiteID),
	)
	return nil
}

// Update applies a partial update to an existing item and returns the result.
// Parent and website membership are denormalized onto the GSI keys, which a
// partial update never touches, so moving an item goes through Save instead.
func (r *ItemRepository) Update(ctx context.Context, id string, patch map[string]interface{}) (*entities.Item, error) {
	key, err := valueobjects.NewRecordKey(valueobjects.RecordTypeItem, id)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	for _, attr := range []string{"parentId", "websiteId"} {
		if _, ok := patch[attr]; ok {
			return nil, pkgerrors.NewValidationError(attr + " cannot change through a partial update; save the full item instead")
		}
	}

	expr, err := buildUpdateExpression(patch, r.table.Now())
	if err != nil {
		return nil, err
	}

	out, err := r.table.Client.UpdateItem(ctx, &awsdynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table.TableName),
		Key:                       stringKey(key.String(), key.String()),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil, pkgerrors.NewNotFoundError("item")
		}
		return nil, translateError(err, "item")
	}

	var rec itemRecord
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal updated item", err)
	}

	r.table.Logger.Info("Updated item", zap.String("itemId", key.ID()), zap.Int("attributes", len(patch)))
	return rec.toEntity(), nil
}

// GetByID retrieves an item by raw id.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*entities.Item, error) {
	key, err := valueobjects.NewRecordKey(valueobjects.RecordTypeItem, id)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	out, err := r.table.Client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.table.TableName),
		Key:       stringKey(key.String(), key.String()),
	})
	if err != nil {
		return nil, translateError(err, "item")
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("item")
	}

	var rec itemRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal item", err)
	}
	return rec.toEntity(), nil
}

// ListByParent queries GSI1 for the direct children of an item.
func (r *ItemRepository) ListByParent(ctx context.Context, parentID string, opts ports.ListOptions) (ports.Page[*entities.Item], error) {
	parentKey, err := valueobjects.NewRecordKey(valueobjects.RecordTypeItem, parentID)
	if err != nil {
		return ports.Page[*entities.Item]{}, pkgerrors.NewValidationError(err.Error())
	}
	keyCondition := expression.Key(AttrGSI1PK).Equal(expression.Value(parentKey.String()))
	return r.queryItems(ctx, aws.String(r.table.GSI1Name), keyCondition, opts)
}

// ListByWebsite queries GSI2 for the items published to a website.
func (r *ItemRepository) ListByWebsite(ctx context.Context, websiteName string, opts ports.ListOptions) (ports.Page[*entities.Item], error) {
	websiteKey, err := valueobjects.NewRecordKey(valueobjects.RecordTypeWebsite, websiteName)
	if err != nil {
		return ports.Page[*entities.Item]{}, pkgerrors.NewValidationError(err.Error())
	}
	keyCondition := expression.Key(AttrGSI2PK).Equal(expression.Value(websiteKey.String()))
	return r.queryItems(ctx, aws.String(r.table.GSI2Name), keyCondition, opts)
}

func (r *ItemRepository) queryItems(ctx context.Context, indexName *string, keyCondition expression.KeyConditionBuilder, opts ports.ListOptions) (ports.Page[*entities.Item], error) {
	var page ports.Page[*entities.Item]

	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return page, pkgerrors.NewInternalError("failed to build query expression", err)
	}

	startKey, err := decodeNextToken(opts.NextToken)
	if err != nil {
		return page, err
	}

	input := &awsdynamodb.QueryInput{
		TableName:                 aws.String(r.table.TableName),
		IndexName:                 indexName,
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ExclusiveStartKey:         startKey,
	}
	if opts.Limit > 0 {
		input.Limit = aws.Int32(opts.Limit)
	}

	out, err := r.table.Client.Query(ctx, input)
	if err != nil {
		return page, translateError(err, "items")
	}

	page.Items = make([]*entities.Item, 0, len(out.Items))
	for _, raw := range out.Items {
		var rec itemRecord
		if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
			return ports.Page[*entities.Item]{}, pkgerrors.NewInternalError("failed to unmarshal item", err)
		}
		page.Items = append(page.Items, rec.toEntity())
	}

	page.NextToken, err = encodeNextToken(out.LastEvaluatedKey)
	if err != nil {
		return ports.Page[*entities.Item]{}, pkgerrors.NewInternalError("failed to encode pagination token", err)
	}
	return page, nil
}
