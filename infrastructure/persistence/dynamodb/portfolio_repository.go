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

// PortfolioRepository implements ports.PortfolioRepository. Collections live
// in the owning user's partition; portfolio items live in the collection's
// partition and carry the owner id so mutations can condition on it.
type PortfolioRepository struct {
	table *Table
}

// NewPortfolioRepository creates a portfolio repository.
func NewPortfolioRepository(table *Table) ports.PortfolioRepository {
	return &PortfolioRepository{table: table}
}

type portfolioUserRecord struct {
	PK             string `dynamodbav:"PK"`
	SK             string `dynamodbav:"SK"`
	RecordType     string `dynamodbav:"recordType"`
	UserID         string `dynamodbav:"userId"`
	FullName       string `dynamodbav:"fullName,omitempty"`
	Email          string `dynamodbav:"email,omitempty"`
	Bio            string `dynamodbav:"bio,omitempty"`
	Department     string `dynamodbav:"department,omitempty"`
	PortfolioCount int    `dynamodbav:"portfolioCount,omitempty"`
	DateAdded      string `dynamodbav:"dateAddedToDynamo"`
	DateModified   string `dynamodbav:"dateModifiedInDynamo"`
}

type portfolioCollectionRecord struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	GSI2PK       string `dynamodbav:"GSI2PK,omitempty"`
	GSI2SK       string `dynamodbav:"GSI2SK,omitempty"`
	RecordType   string `dynamodbav:"recordType"`
	CollectionID string `dynamodbav:"portfolioCollectionId"`
	UserID       string `dynamodbav:"userId"`
	Title        string `dynamodbav:"title"`
	Description  string `dynamodbav:"description,omitempty"`
	Privacy      string `dynamodbav:"privacy"`
	Featured     bool   `dynamodbav:"featured"`
	ImageURI     string `dynamodbav:"imageUri,omitempty"`
	ItemCount    int    `dynamodbav:"itemCount,omitempty"`
	DateAdded    string `dynamodbav:"dateAddedToDynamo"`
	DateModified string `dynamodbav:"dateModifiedInDynamo"`
}

type portfolioItemRecord struct {
	PK              string `dynamodbav:"PK"`
	SK              string `dynamodbav:"SK"`
	RecordType      string `dynamodbav:"recordType"`
	PortfolioItemID string `dynamodbav:"portfolioItemId"`
	CollectionID    string `dynamodbav:"portfolioCollectionId"`
	UserID          string `dynamodbav:"userId"`
	InternalItemID  string `dynamodbav:"internalItemId,omitempty"`
	Title           string `dynamodbav:"title"`
	Annotation      string `dynamodbav:"annotation,omitempty"`
	URI             string `dynamodbav:"uri,omitempty"`
	ImageURI        string `dynamodbav:"imageUri,omitempty"`
	Sequence        int    `dynamodbav:"sequence,omitempty"`
	DateAdded       string `dynamodbav:"dateAddedToDynamo"`
	DateModified    string `dynamodbav:"dateModifiedInDynamo"`
}

func (rec *portfolioUserRecord) toEntity() *entities.PortfolioUser {
	return &entities.PortfolioUser{
		UserID:         rec.UserID,
		FullName:       rec.FullName,
		Email:          rec.Email,
		Bio:            rec.Bio,
		Department:     rec.Department,
		PortfolioCount: rec.PortfolioCount,
		CreatedAt:      parseStoredTime(rec.DateAdded),
		UpdatedAt:      parseStoredTime(rec.DateModified),
	}
}

func (rec *portfolioCollectionRecord) toEntity() *entities.PortfolioCollection {
	return &entities.PortfolioCollection{
		CollectionID: rec.CollectionID,
		UserID:       rec.UserID,
		Title:        rec.Title,
		Description:  rec.Description,
		Privacy:      entities.PrivacyLevel(rec.Privacy),
		Featured:     rec.Featured,
		ImageURI:     rec.ImageURI,
		ItemCount:    rec.ItemCount,
		CreatedAt:    parseStoredTime(rec.DateAdded),
		UpdatedAt:    parseStoredTime(rec.DateModified),
	}
}

func (rec *portfolioItemRecord) toEntity() *entities.PortfolioItem {
	return &entities.PortfolioItem{
		PortfolioItemID: rec.PortfolioItemID,
		CollectionID:    rec.CollectionID,
		UserID:          rec.UserID,
		InternalItemID:  rec.InternalItemID,
		Title:           rec.Title,
		Annotation:      rec.Annotation,
		URI:             rec.URI,
		ImageURI:        rec.ImageURI,
		Sequence:        rec.Sequence,
		CreatedAt:       parseStoredTime(rec.DateAdded),
		UpdatedAt:       parseStoredTime(rec.DateModified),
	}
}

// ownerCondition passes when the record does not exist or is owned by the
// caller. Saves use it to stop takeovers of existing records; deletes use it
// so removing an already-gone record still succeeds. A condition failure
// therefore always means someone else owns the record.
func ownerCondition(userID string) (expression.Expression, error) {
	cond := expression.AttributeNotExists(expression.Name(AttrPK)).
		Or(expression.Name("userId").Equal(expression.Value(userID)))
	return expression.NewBuilder().WithCondition(cond).Build()
}

// SaveUser writes the user profile record.
func (r *PortfolioRepository) SaveUser(ctx context.Context, user *entities.PortfolioUser) error {
	key, err := user.Key()
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	created, updated := timestampsRFC3339(user.CreatedAt, r.table.Now())
	rec := &portfolioUserRecord{
		PK:             key.String(),
		SK:             key.String(),
		RecordType:     string(valueobjects.RecordTypePortfolioUser),
		UserID:         key.ID(),
		FullName:       user.FullName,
		Email:          user.Email,
		Bio:            user.Bio,
		Department:     user.Department,
		PortfolioCount: user.PortfolioCount,
		DateAdded:      created,
		DateModified:   updated,
	}

	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal portfolio user", err)
	}

	if _, err := r.table.Client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(r.table.TableName),
		Item:      av,
	}); err != nil {
		return translateError(err, "portfolio user")
	}

	r.table.Logger.Info("Saved portfolio user", zap.String("userId", rec.UserID))
	return nil
}

// GetUser retrieves a user profile record.
func (r *PortfolioRepository) GetUser(ctx context.Context, userID string) (*entities.PortfolioUser, error) {
	key, err := valueobjects.NewRecordKey(valueobjects.RecordTypePortfolioUser, userID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	out, err := r.table.Client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.table.TableName),
		Key:       stringKey(key.String(), key.String()),
	})
	if err != nil {
		return nil, translateError(err, "portfolio user")
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("portfolio user")
	}

	var rec portfolioUserRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal portfolio user", err)
	}
	return rec.toEntity(), nil
}

// SaveCollection writes a collection into the owner's partition. Public
// featured collections are also projected onto the featured GSI2 partition.
func (r *PortfolioRepository) SaveCollection(ctx context.Context, collection *entities.PortfolioCollection) error {
	ownerKey, err := collection.OwnerKey()
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	key, err := collection.Key()
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	created, updated := timestampsRFC3339(collection.CreatedAt, r.table.Now())
	rec := &portfolioCollectionRecord{
		PK:           ownerKey.String(),
		SK:           key.String(),
		RecordType:   string(valueobjects.RecordTypePortfolioCollection),
		CollectionID: key.ID(),
		UserID:       ownerKey.ID(),
		Title:        collection.Title,
		Description:  collection.Description,
		Privacy:      string(collection.Privacy),
		Featured:     collection.Featured,
		ImageURI:     collection.ImageURI,
		ItemCount:    collection.ItemCount,
		DateAdded:    created,
		DateModified: updated,
	}
	if collection.Featured && collection.IsPubliclyVisible() {
		rec.GSI2PK = valueobjects.FeaturedListKey
		rec.GSI2SK = key.String()
	}

	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal portfolio collection", err)
	}

	expr, err := ownerCondition(ownerKey.ID())
	if err != nil {
		return pkgerrors.NewInternalError("failed to build owner condition", err)
	}

	if _, err := r.table.Client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName:                 aws.String(r.table.TableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}); err != nil {
		return translateError(err, "portfolio collection")
	}

	r.table.Logger.Info("Saved portfolio collection",
		zap.String("userId", ownerKey.ID()),
		zap.String("portfolioCollectionId", key.ID()),
		zap.String("privacy", rec.Privacy),
		zap.Bool("featured", rec.Featured),
	)
	return nil
}

// GetCollection retrieves one collection from a user's partition.
func (r *PortfolioRepository) GetCollection(ctx context.Context, userID, collectionID string) (*entities.PortfolioCollection, error) {
	ownerKey, err := valueobjects.NewRecordKey(valueobjects.RecordTypePortfolioUser, userID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	key, err := valueobjects.NewRecordKey(valueobjects.RecordTypePortfolioCollection, collectionID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	out, err := r.table.Client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.table.TableName),
		Key:       stringKey(ownerKey.String(), key.String()),
	})
	if err != nil {
		return nil, translateError(err, "portfolio collection")
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("portfolio collection")
	}

	var rec portfolioCollectionRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal portfolio collection", err)
	}
	return rec.toEntity(), nil
}

// ListCollections queries a user's partition for their collections.
func (r *PortfolioRepository) ListCollections(ctx context.Context, userID string, opts ports.ListOptions) (ports.Page[*entities.PortfolioCollection], error) {
	ownerKey, err := valueobjects.NewRecordKey(valueobjects.RecordTypePortfolioUser, userID)
	if err != nil {
		return ports.Page[*entities.PortfolioCollection]{}, pkgerrors.NewValidationError(err.Error())
	}

	keyCondition := expression.Key(AttrPK).Equal(expression.Value(ownerKey.String())).
		And(expression.Key(AttrSK).BeginsWith(string(valueobjects.RecordTypePortfolioCollection) + valueobjects.KeyDelimiter))
	return r.queryCollections(ctx, nil, keyCondition, opts)
}

// ListFeaturedCollections queries the featured partition on GSI2.
func (r *PortfolioRepository) ListFeaturedCollections(ctx context.Context, opts ports.ListOptions) (ports.Page[*entities.PortfolioCollection], error) {
	keyCondition := expression.Key(AttrGSI2PK).Equal(expression.Value(valueobjects.FeaturedListKey))
	return r.queryCollections(ctx, aws.String(r.table.GSI2Name), keyCondition, opts)
}

func (r *PortfolioRepository) queryCollections(ctx context.Context, indexName *string, keyCondition expression.KeyConditionBuilder, opts ports.ListOptions) (ports.Page[*entities.PortfolioCollection], error) {
	var page ports.Page[*entities.PortfolioCollection]

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
		return page, translateError(err, "portfolio collections")
	}

	page.Items = make([]*entities.PortfolioCollection, 0, len(out.Items))
	for _, raw := range out.Items {
		var rec portfolioCollectionRecord
		if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
			return ports.Page[*entities.PortfolioCollection]{}, pkgerrors.NewInternalError("failed to unmarshal portfolio collection", err)
		}
		page.Items = append(page.Items, rec.toEntity())
	}

	page.NextToken, err = encodeNextToken(out.LastEvaluatedKey)
	if err != nil {
		return ports.Page[*entities.PortfolioCollection]{}, pkgerrors.NewInternalError("failed to encode pagination token", err)
	}
	return page, nil
}

// DeleteCollection removes a collection. The delete conditions on ownership
// but passes when the record is already gone, so removals stay idempotent.
func (r *PortfolioRepository) DeleteCollection(ctx context.Context, userID, collectionID string) error {
	ownerKey, err := valueobjects.NewRecordKey(valueobjects.RecordTypePortfolioUser, userID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	key, err := valueobjects.NewRecordKey(valueobjects.RecordTypePortfolioCollection, collectionID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	expr, err := ownerCondition(ownerKey.ID())
	if err != nil {
		return pkgerrors.NewInternalError("failed to build owner condition", err)
	}

	if _, err := r.table.Client.DeleteItem(ctx, &awsdynamodb.DeleteItemInput{
		TableName:                 aws.String(r.table.TableName),
		Key:                       stringKey(ownerKey.String(), key.String()),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}); err != nil {
		return translateError(err, "portfolio collection")
	}

	r.table.Logger.Info("Deleted portfolio collection",
		zap.String("userId", ownerKey.ID()),
		zap.String("portfolioCollectionId", key.ID()),
	)
	return nil
}

// SaveItem writes a portfolio item into its collection's partition.
func (r *PortfolioRepository) SaveItem(ctx context.Context, item *entities.PortfolioItem) error {
	collectionKey, err := item.CollectionKey()
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	key, err := item.Key()
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	userID := valueobjects.NormalizeID(item.UserID)
	if userID == "" {
		return pkgerrors.NewValidationError("user id cannot be empty")
	}

	created, updated := timestampsRFC3339(item.CreatedAt, r.table.Now())
	rec := &portfolioItemRecord{
		PK:              collectionKey.String(),
		SK:              key.String(),
		RecordType:      string(valueobjects.RecordTypePortfolioItem),
		PortfolioItemID: key.ID(),
		CollectionID:    collectionKey.ID(),
		UserID:          userID,
		InternalItemID:  valueobjects.NormalizeID(item.InternalItemID),
		Title:           item.Title,
		Annotation:      item.Annotation,
		URI:             item.URI,
		ImageURI:        item.ImageURI,
		Sequence:        item.Sequence,
		DateAdded:       created,
		DateModified:    updated,
	}

	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal portfolio item", err)
	}

	expr, err := ownerCondition(userID)
	if err != nil {
		return pkgerrors.NewInternalError("failed to build owner condition", err)
	}

	if _, err := r.table.Client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName:                 aws.String(r.table.TableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}); err != nil {
		return translateError(err, "portfolio item")
	}

	r.table.Logger.Info("Saved portfolio item",
		zap.String("portfolioCollectionId", collectionKey.ID()),
		zap.String("portfolioItemId", key.ID()),
	)
	return nil
}

// GetItem retrieves one portfolio item from a collection partition.
func (r *PortfolioRepository) GetItem(ctx context.Context, collectionID, portfolioItemID string) (*entities.PortfolioItem, error) {
	collectionKey, err := valueobjects.NewRecordKey(valueobjects.RecordTypePortfolioCollection, collectionID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	key, err := valueobjects.NewRecordKey(valueobjects.RecordTypePortfolioItem, portfolioItemID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	out, err := r.table.Client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.table.TableName),
		Key:       stringKey(collectionKey.String(), key.String()),
	})
	if err != nil {
		return nil, translateError(err, "portfolio item")
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("portfolio item")
	}

	var rec portfolioItemRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal portfolio item", err)
	}
	return rec.toEntity(), nil
}

// ListItems queries a collection partition for its portfolio items.
func (r *PortfolioRepository) ListItems(ctx context.Context, collectionID string, opts ports.ListOptions) (ports.Page[*entities.PortfolioItem], error) {
	var page ports.Page[*entities.PortfolioItem]

	collectionKey, err := valueobjects.NewRecordKey(valueobjects.RecordTypePortfolioCollection, collectionID)
	if err != nil {
		return page, pkgerrors.NewValidationError(err.Error())
	}

	keyCondition := expression.Key(AttrPK).Equal(expression.Value(collectionKey.String())).
		And(expression.Key(AttrSK).BeginsWith(string(valueobjects.RecordTypePortfolioItem) + valueobjects.KeyDelimiter))
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
		return page, translateError(err, "portfolio items")
	}

	page.Items = make([]*entities.PortfolioItem, 0, len(out.Items))
	for _, raw := range out.Items {
		var rec portfolioItemRecord
		if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
			return ports.Page[*entities.PortfolioItem]{}, pkgerrors.NewInternalError("failed to unmarshal portfolio item", err)
		}
		page.Items = append(page.Items, rec.toEntity())
	}

	page.NextToken, err = encodeNextToken(out.LastEvaluatedKey)
	if err != nil {
		return ports.Page[*entities.PortfolioItem]{}, pkgerrors.NewInternalError("failed to encode pagination token", err)
	}
	return page, nil
}

// DeleteItem removes a portfolio item. As with DeleteCollection, the owner
// condition tolerates an already-deleted record.
func (r *PortfolioRepository) DeleteItem(ctx context.Context, userID, collectionID, portfolioItemID string) error {
	collectionKey, err := valueobjects.NewRecordKey(valueobjects.RecordTypePortfolioCollection, collectionID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	key, err := valueobjects.NewRecordKey(valueobjects.RecordTypePortfolioItem, portfolioItemID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	owner := valueobjects.NormalizeID(userID)
	if owner == "" {
		return pkgerrors.NewValidationError("user id cannot be empty")
	}

	expr, err := ownerCondition(owner)
	if err != nil {
		return pkgerrors.NewInternalError("failed to build owner condition", err)
	}

	if _, err := r.table.Client.DeleteItem(ctx, &awsdynamodb.DeleteItemInput{
		TableName:                 aws.String(r.table.TableName),
		Key:                       stringKey(collectionKey.String(), key.String()),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}); err != nil {
		return translateError(err, "portfolio item")
	}

	r.table.Logger.Info("Deleted portfolio item",
		zap.String("portfolioCollectionId", collectionKey.ID()),
		zap.String("portfolioItemId", key.ID()),
	)
	return nil
}
