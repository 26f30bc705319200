package dynamodb

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// Attribute names shared by every record in the single table.
const (
	AttrPK           = "PK"
	AttrSK           = "SK"
	AttrGSI1PK       = "GSI1PK"
	AttrGSI1SK       = "GSI1SK"
	AttrGSI2PK       = "GSI2PK"
	AttrGSI2SK       = "GSI2SK"
	AttrRecordType   = "recordType"
	AttrDateAdded    = "dateAddedToDynamo"
	AttrDateModified = "dateModifiedInDynamo"
)

// DynamoDBAPI is the subset of the DynamoDB client the repositories use.
// Tests substitute a mock for the real client.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Clock returns the current time; injected so tests control timestamps.
type Clock func() time.Time

// Table bundles the client and table topology shared by all repositories.
type Table struct {
	Client    DynamoDBAPI
	TableName string
	GSI1Name  string // parent -> child traversal
	GSI2Name  string // type-wide listings
	Logger    *zap.Logger
	Now       Clock
}

// NewTable creates the shared table handle.
func NewTable(client DynamoDBAPI, tableName, gsi1, gsi2 string, logger *zap.Logger) *Table {
	return &Table{
		Client:    client,
		TableName: tableName,
		GSI1Name:  gsi1,
		GSI2Name:  gsi2,
		Logger:    logger,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// stringKey builds a DynamoDB key map from PK and SK strings.
func stringKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrPK: &types.AttributeValueMemberS{Value: pk},
		AttrSK: &types.AttributeValueMemberS{Value: sk},
	}
}

// translateError maps SDK failures onto application errors.
func translateError(err error, resource string) error {
	var conditionFailed *types.ConditionalCheckFailedException
	if errors.As(err, &conditionFailed) {
		return pkgerrors.NewForbiddenError("condition check failed for " + resource).WithCause(err)
	}
	var throughput *types.ProvisionedThroughputExceededException
	if errors.As(err, &throughput) {
		return pkgerrors.NewDatabaseError("throughput exceeded", err)
	}
	return pkgerrors.NewDatabaseError("dynamodb operation failed for "+resource, err)
}

// timestampsRFC3339 formats the stored create/modify timestamps.
func timestampsRFC3339(created, updated time.Time) (string, string) {
	return created.UTC().Format(time.RFC3339), updated.UTC().Format(time.RFC3339)
}

// parseStoredTime parses a stored RFC3339 timestamp, tolerating blanks left by
// older writers.
func parseStoredTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
