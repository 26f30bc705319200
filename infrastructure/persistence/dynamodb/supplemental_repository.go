package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"github.com/ndlib/mellon-blueprints/application/ports"
	"github.com/ndlib/mellon-blueprints/domain/core/entities"
	"github.com/ndlib/mellon-blueprints/domain/core/valueobjects"
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// SupplementalDataRepository implements ports.SupplementalDataRepository.
// Supplemental records live inside the owning item's partition, so listing
// them is a plain key query with a sort-key prefix.
type SupplementalDataRepository struct {
	table *Table
}

// NewSupplementalDataRepository creates a supplemental data repository.
func NewSupplementalDataRepository(table *Table) ports.SupplementalDataRepository {
	return &SupplementalDataRepository{table: table}
}

type supplementalRecord struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	RecordType   string `dynamodbav:"recordType"`
	ID           string `dynamodbav:"id"`
	ItemID       string `dynamodbav:"itemId"`
	Title        string `dynamodbav:"title,omitempty"`
	Abstract     string `dynamodbav:"abstract,omitempty"`
	DateAdded    string `dynamodbav:"dateAddedToDynamo"`
	DateModified string `dynamodbav:"dateModifiedInDynamo"`
}

func (rec *supplementalRecord) toEntity() *entities.SupplementalData {
	return &entities.SupplementalData{
		ID:        rec.ID,
		ItemID:    rec.ItemID,
		Title:     rec.Title,
		Abstract:  rec.Abstract,
		CreatedAt: parseStoredTime(rec.DateAdded),
		UpdatedAt: parseStoredTime(rec.DateModified),
	}
}

func supplementalKeys(itemID, id string) (itemKey, dataKey valueobjects.RecordKey, err error) {
	itemKey, err = valueobjects.NewRecordKey(valueobjects.RecordTypeItem, itemID)
	if err != nil {
		return
	}
	dataKey, err = valueobjects.NewRecordKey(valueobjects.RecordTypeSupplementalData, id)
	return
}

// Save writes the full supplemental data record.
func (r *SupplementalDataRepository) Save(ctx context.Context, data *entities.SupplementalData) error {
	itemKey, dataKey, err := supplementalKeys(data.ItemID, data.ID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	created, updated := timestampsRFC3339(data.CreatedAt, r.table.Now())
	rec := &supplementalRecord{
		PK:           itemKey.String(),
		SK:           dataKey.String(),
		RecordType:   string(valueobjects.RecordTypeSupplementalData),
		ID:           dataKey.ID(),
		ItemID:       itemKey.ID(),
		Title:        data.Title,
		Abstract:     data.Abstract,
		DateAdded:    created,
		DateModified: updated,
	}

	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal supplemental data", err)
	}

	if _, err := r.table.Client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(r.table.TableName),
		Item:      av,
	}); err != nil {
		return translateError(err, "supplemental data")
	}

	r.table.Logger.Info("Saved supplemental data",
		zap.String("itemId", rec.ItemID),
		zap.String("id", rec.ID),
	)
	return nil
}

// Get retrieves one supplemental record from an item partition.
func (r *SupplementalDataRepository) Get(ctx context.Context, itemID, id string) (*entities.SupplementalData, error) {
	itemKey, dataKey, err := supplementalKeys(itemID, id)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	out, err := r.table.Client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.table.TableName),
		Key:       stringKey(itemKey.String(), dataKey.String()),
	})
	if err != nil {
		return nil, translateError(err, "supplemental data")
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("supplemental data")
	}

	var rec supplementalRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal supplemental data", err)
	}
	return rec.toEntity(), nil
}

// ListByItem queries the item partition for its supplemental records.
func (r *SupplementalDataRepository) ListByItem(ctx context.Context, itemID string, opts ports.ListOptions) (ports.Page[*entities.SupplementalData], error) {
	var page ports.Page[*entities.SupplementalData]

	itemKey, err := valueobjects.NewRecordKey(valueobjects.RecordTypeItem, itemID)
	if err != nil {
		return page, pkgerrors.NewValidationError(err.Error())
	}

	keyCondition := expression.Key(AttrPK).Equal(expression.Value(itemKey.String())).
		And(expression.Key(AttrSK).BeginsWith(string(valueobjects.RecordTypeSupplementalData) + valueobjects.KeyDelimiter))
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
		return page, translateError(err, "supplemental data")
	}

	page.Items = make([]*entities.SupplementalData, 0, len(out.Items))
	for _, raw := range out.Items {
		var rec supplementalRecord
		if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
			return ports.Page[*entities.SupplementalData]{}, pkgerrors.NewInternalError("failed to unmarshal supplemental data", err)
		}
		page.Items = append(page.Items, rec.toEntity())
	}

	page.NextToken, err = encodeNextToken(out.LastEvaluatedKey)
	if err != nil {
		return ports.Page[*entities.SupplementalData]{}, pkgerrors.NewInternalError("failed to encode pagination token", err)
	}
	return page, nil
}

// Delete removes one supplemental record.
func (r *SupplementalDataRepository) Delete(ctx context.Context, itemID, id string) error {
	itemKey, dataKey, err := supplementalKeys(itemID, id)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	if _, err := r.table.Client.DeleteItem(ctx, &awsdynamodb.DeleteItemInput{
		TableName: aws.String(r.table.TableName),
		Key:       stringKey(itemKey.String(), dataKey.String()),
	}); err != nil {
		return translateError(err, "supplemental data")
	}

	r.table.Logger.Info("Deleted supplemental data",
		zap.String("itemId", itemKey.ID()),
		zap.String("id", dataKey.ID()),
	)
	return nil
}
