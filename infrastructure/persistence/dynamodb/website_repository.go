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

// WebsiteRepository implements ports.WebsiteRepository on the single table.
type WebsiteRepository struct {
	table *Table
}

// NewWebsiteRepository creates a website repository.
func NewWebsiteRepository(table *Table) ports.WebsiteRepository {
	return &WebsiteRepository{table: table}
}

// websiteRecord is the stored shape of a website. GSI2 groups all websites
// under one type-list partition for listWebsites.
type websiteRecord struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	GSI2PK       string `dynamodbav:"GSI2PK"`
	GSI2SK       string `dynamodbav:"GSI2SK"`
	RecordType   string `dynamodbav:"recordType"`
	Name         string `dynamodbav:"name"`
	Title        string `dynamodbav:"title"`
	URL          string `dynamodbav:"url,omitempty"`
	DateAdded    string `dynamodbav:"dateAddedToDynamo"`
	DateModified string `dynamodbav:"dateModifiedInDynamo"`
}

func (rec *websiteRecord) toEntity() *entities.Website {
	return &entities.Website{
		Name:      rec.Name,
		Title:     rec.Title,
		URL:       rec.URL,
		CreatedAt: parseStoredTime(rec.DateAdded),
		UpdatedAt: parseStoredTime(rec.DateModified),
	}
}

// Save writes the full website record.
func (r *WebsiteRepository) Save(ctx context.Context, website *entities.Website) error {
	key, err := website.Key()
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	created, updated := timestampsRFC3339(website.CreatedAt, r.table.Now())
	rec := &websiteRecord{
		PK:           key.String(),
		SK:           key.String(),
		GSI2PK:       valueobjects.TypeListKey(valueobjects.RecordTypeWebsite),
		GSI2SK:       key.String(),
		RecordType:   string(valueobjects.RecordTypeWebsite),
		Name:         key.ID(),
		Title:        website.Title,
		URL:          website.URL,
		DateAdded:    created,
		DateModified: updated,
	}

	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal website", err)
	}

	if _, err := r.table.Client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(r.table.TableName),
		Item:      av,
	}); err != nil {
		return translateError(err, "website")
	}

	r.table.Logger.Info("Saved website", zap.String("name", rec.Name))
	return nil
}

// GetByName retrieves a website by its raw name.
func (r *WebsiteRepository) GetByName(ctx context.Context, name string) (*entities.Website, error) {
	key, err := valueobjects.NewRecordKey(valueobjects.RecordTypeWebsite, name)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	out, err := r.table.Client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.table.TableName),
		Key:       stringKey(key.String(), key.String()),
	})
	if err != nil {
		return nil, translateError(err, "website")
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("website")
	}

	var rec websiteRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal website", err)
	}
	return rec.toEntity(), nil
}

// List queries the type-list partition on GSI2 for all websites.
func (r *WebsiteRepository) List(ctx context.Context, opts ports.ListOptions) (ports.Page[*entities.Website], error) {
	var page ports.Page[*entities.Website]

	keyCondition := expression.Key(AttrGSI2PK).
		Equal(expression.Value(valueobjects.TypeListKey(valueobjects.RecordTypeWebsite)))
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
		IndexName:                 aws.String(r.table.GSI2Name),
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
		return page, translateError(err, "websites")
	}

	page.Items = make([]*entities.Website, 0, len(out.Items))
	for _, raw := range out.Items {
		var rec websiteRecord
		if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
			return ports.Page[*entities.Website]{}, pkgerrors.NewInternalError("failed to unmarshal website", err)
		}
		page.Items = append(page.Items, rec.toEntity())
	}

	page.NextToken, err = encodeNextToken(out.LastEvaluatedKey)
	if err != nil {
		return ports.Page[*entities.Website]{}, pkgerrors.NewInternalError("failed to encode pagination token", err)
	}
	return page, nil
}
