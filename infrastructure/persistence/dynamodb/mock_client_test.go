package dynamodb

import (
	"context"
	"time"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// mockDynamoDB satisfies DynamoDBAPI with per-operation function fields so
// each test supplies only the calls it expects.
type mockDynamoDB struct {
	getItem    func(ctx context.Context, params *awsdynamodb.GetItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error)
	putItem    func(ctx context.Context, params *awsdynamodb.PutItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.PutItemOutput, error)
	updateItem func(ctx context.Context, params *awsdynamodb.UpdateItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.UpdateItemOutput, error)
	deleteItem func(ctx context.Context, params *awsdynamodb.DeleteItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.DeleteItemOutput, error)
	query      func(ctx context.Context, params *awsdynamodb.QueryInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.QueryOutput, error)
}

func (m *mockDynamoDB) GetItem(ctx context.Context, params *awsdynamodb.GetItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error) {
	return m.getItem(ctx, params, optFns...)
}

func (m *mockDynamoDB) PutItem(ctx context.Context, params *awsdynamodb.PutItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.PutItemOutput, error) {
	return m.putItem(ctx, params, optFns...)
}

func (m *mockDynamoDB) UpdateItem(ctx context.Context, params *awsdynamodb.UpdateItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.UpdateItemOutput, error) {
	return m.updateItem(ctx, params, optFns...)
}

func (m *mockDynamoDB) DeleteItem(ctx context.Context, params *awsdynamodb.DeleteItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.DeleteItemOutput, error) {
	return m.deleteItem(ctx, params, optFns...)
}

func (m *mockDynamoDB) Query(ctx context.Context, params *awsdynamodb.QueryInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.QueryOutput, error) {
	return m.query(ctx, params, optFns...)
}

// fixedClock pins timestamps for assertions.
var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestTable(client DynamoDBAPI) *Table {
	table := NewTable(client, "mellon-test", "GSI1", "GSI2", zap.NewNop())
	table.Now = func() time.Time { return fixedTime }
	return table
}
