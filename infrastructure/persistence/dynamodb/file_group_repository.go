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

// FileGroupRepository implements ports.FileGroupRepository on the single table.
type FileGroupRepository struct {
	table *Table
}

// NewFileGroupRepository creates a file group repository.
func NewFileGroupRepository(table *Table) ports.FileGroupRepository {
	return &FileGroupRepository{table: table}
}

type fileRecord struct {
	Path      string `dynamodbav:"path"`
	Label     string `dynamodbav:"label,omitempty"`
	MimeType  string `dynamodbav:"mimeType,omitempty"`
	Sequence  int    `dynamodbav:"sequence,omitempty"`
	SourceURI string `dynamodbav:"sourceUri,omitempty"`
}

type fileGroupRecord struct {
	PK            string       `dynamodbav:"PK"`
	SK            string       `dynamodbav:"SK"`
	GSI2PK        string       `dynamodbav:"GSI2PK"`
	GSI2SK        string       `dynamodbav:"GSI2SK"`
	RecordType    string       `dynamodbav:"recordType"`
	ID            string       `dynamodbav:"objectFileGroupId"`
	Label         string       `dynamodbav:"label,omitempty"`
	StorageSystem string       `dynamodbav:"storageSystem"`
	TypeOfData    string       `dynamodbav:"typeOfData,omitempty"`
	Files         []fileRecord `dynamodbav:"files,omitempty"`
	DateAdded     string       `dynamodbav:"dateAddedToDynamo"`
	DateModified  string       `dynamodbav:"dateModifiedInDynamo"`
}

func (rec *fileGroupRecord) toEntity() *entities.FileGroup {
	group := &entities.FileGroup{
		ID:            rec.ID,
		Label:         rec.Label,
		StorageSystem: entities.StorageSystem(rec.StorageSystem),
		TypeOfData:    rec.TypeOfData,
		CreatedAt:     parseStoredTime(rec.DateAdded),
		UpdatedAt:     parseStoredTime(rec.DateModified),
	}
	for _, f := range rec.Files {
		group.Files = append(group.Files, entities.File{
			Path:      f.Path,
			Label:     f.Label,
			MimeType:  f.MimeType,
			Sequence:  f.Sequence,
			SourceURI: f.SourceURI,
		})
	}
	return group
}

// Save writes the full file group record, files inline.
func (r *FileGroupRepository) Save(ctx context.Context, group *entities.FileGroup) error {
	key, err := group.Key()
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	created, updated := timestampsRFC3339(group.CreatedAt, r.table.Now())
	rec := &fileGroupRecord{
		PK:            key.String(),
		SK:            key.String(),
		GSI2PK:        valueobjects.TypeListKey(valueobjects.RecordTypeFileGroup),
		GSI2SK:        key.String(),
		RecordType:    string(valueobjects.RecordTypeFileGroup),
		ID:            key.ID(),
		Label:         group.Label,
		StorageSystem: string(group.StorageSystem),
		TypeOfData:    group.TypeOfData,
		DateAdded:     created,
		DateModified:  updated,
	}
	for _, f := range group.Files {
		rec.Files = append(rec.Files, fileRecord{
			Path:      f.Path,
			Label:     f.Label,
			MimeType:  f.MimeType,
			Sequence:  f.Sequence,
			SourceURI: f.SourceURI,
		})
	}

	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal file group", err)
	}

	if _, err := r.table.Client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(r.table.TableName),
		Item:      av,
	}); err != nil {
		return translateError(err, "file group")
	}

	r.table.Logger.Info("Saved file group",
		zap.String("objectFileGroupId", rec.ID),
		zap.Int("files", len(rec.Files)),
	)
	return nil
}

// GetByID retrieves a file group by raw id.
func (r *FileGroupRepository) GetByID(ctx context.Context, id string) (*entities.FileGroup, error) {
	key, err := valueobjects.NewRecordKey(valueobjects.RecordTypeFileGroup, id)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	out, err := r.table.Client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.table.TableName),
		Key:       stringKey(key.String(), key.String()),
	})
	if err != nil {
		return nil, translateError(err, "file group")
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("file group")
	}

	var rec fileGroupRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal file group", err)
	}
	return rec.toEntity(), nil
}

// List queries the type-list partition on GSI2 for all file groups.
func (r *FileGroupRepository) List(ctx context.Context, opts ports.ListOptions) (ports.Page[*entities.FileGroup], error) {
	var page ports.Page[*entities.FileGroup]

	keyCondition := expression.Key(AttrGSI2PK).
		Equal(expression.Value(valueobjects.TypeListKey(valueobjects.RecordTypeFileGroup)))
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
		return page, translateError(err, "file groups")
	}

	page.Items = make([]*entities.FileGroup, 0, len(out.Items))
	for _, raw := range out.Items {
		var rec fileGroupRecord
		if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
			return ports.Page[*entities.FileGroup]{}, pkgerrors.NewInternalError("failed to unmarshal file group", err)
		}
		page.Items = append(page.Items, rec.toEntity())
	}

	page.NextToken, err = encodeNextToken(out.LastEvaluatedKey)
	if err != nil {
		return ports.Page[*entities.FileGroup]{}, pkgerrors.NewInternalError("failed to encode pagination token", err)
	}
	return page, nil
}
