package rotation

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/appsync"
	appsynctypes "github.com/aws/aws-sdk-go-v2/service/appsync/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockAppSync struct {
	listFn   func(ctx context.Context, params *appsync.ListApiKeysInput, optFns ...func(*appsync.Options)) (*appsync.ListApiKeysOutput, error)
	createFn func(ctx context.Context, params *appsync.CreateApiKeyInput, optFns ...func(*appsync.Options)) (*appsync.CreateApiKeyOutput, error)
	deleteFn func(ctx context.Context, params *appsync.DeleteApiKeyInput, optFns ...func(*appsync.Options)) (*appsync.DeleteApiKeyOutput, error)
}

func (m *mockAppSync) ListApiKeys(ctx context.Context, params *appsync.ListApiKeysInput, optFns ...func(*appsync.Options)) (*appsync.ListApiKeysOutput, error) {
	return m.listFn(ctx, params, optFns...)
}

func (m *mockAppSync) CreateApiKey(ctx context.Context, params *appsync.CreateApiKeyInput, optFns ...func(*appsync.Options)) (*appsync.CreateApiKeyOutput, error) {
	return m.createFn(ctx, params, optFns...)
}

func (m *mockAppSync) DeleteApiKey(ctx context.Context, params *appsync.DeleteApiKeyInput, optFns ...func(*appsync.Options)) (*appsync.DeleteApiKeyOutput, error) {
	return m.deleteFn(ctx, params, optFns...)
}

type mockSSM struct {
	putFn func(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}

func (m *mockSSM) PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
	return m.putFn(ctx, params, optFns...)
}

var rotationNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		GraphQLAPIID:       "api123",
		ParameterName:      "/all/mellon/graphql-api-key",
		KeyLifetimeDays:    365,
		DeletionWindowDays: 30,
	}
}

func TestRotateCreatesKeyAndStoresParameter(t *testing.T) {
	var createdExpires int64
	var putInput *ssm.PutParameterInput

	appsyncMock := &mockAppSync{
		createFn: func(_ context.Context, params *appsync.CreateApiKeyInput, _ ...func(*appsync.Options)) (*appsync.CreateApiKeyOutput, error) {
			createdExpires = params.Expires
			assert.Equal(t, "api123", aws.ToString(params.ApiId))
			return &appsync.CreateApiKeyOutput{
				ApiKey: &appsynctypes.ApiKey{Id: aws.String("da2-newkey"), Expires: params.Expires},
			}, nil
		},
		listFn: func(context.Context, *appsync.ListApiKeysInput, ...func(*appsync.Options)) (*appsync.ListApiKeysOutput, error) {
			return &appsync.ListApiKeysOutput{}, nil
		},
	}
	ssmMock := &mockSSM{
		putFn: func(_ context.Context, params *ssm.PutParameterInput, _ ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
			putInput = params
			return &ssm.PutParameterOutput{}, nil
		},
	}

	rotator := NewRotator(appsyncMock, ssmMock, testConfig(), zap.NewNop())
	rotator.now = func() time.Time { return rotationNow }

	result, err := rotator.Rotate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "da2-newkey", result.NewKeyID)
	assert.Equal(t, rotationNow.AddDate(0, 0, 365), result.ExpiresAt)
	assert.Equal(t, result.ExpiresAt.Unix(), createdExpires)

	require.NotNil(t, putInput)
	assert.Equal(t, "/all/mellon/graphql-api-key", aws.ToString(putInput.Name))
	assert.Equal(t, "da2-newkey", aws.ToString(putInput.Value))
	assert.Equal(t, ssmtypes.ParameterTypeSecureString, putInput.Type)
	assert.True(t, aws.ToBool(putInput.Overwrite))
}

func TestRotateDeletesKeysInsideDeletionWindow(t *testing.T) {
	soon := rotationNow.AddDate(0, 0, 10).Unix()
	later := rotationNow.AddDate(0, 0, 200).Unix()

	var deletedIDs []string
	appsyncMock := &mockAppSync{
		createFn: func(_ context.Context, params *appsync.CreateApiKeyInput, _ ...func(*appsync.Options)) (*appsync.CreateApiKeyOutput, error) {
			return &appsync.CreateApiKeyOutput{
				ApiKey: &appsynctypes.ApiKey{Id: aws.String("da2-newkey"), Expires: params.Expires},
			}, nil
		},
		listFn: func(context.Context, *appsync.ListApiKeysInput, ...func(*appsync.Options)) (*appsync.ListApiKeysOutput, error) {
			return &appsync.ListApiKeysOutput{
				ApiKeys: []appsynctypes.ApiKey{
					{Id: aws.String("da2-dying"), Expires: soon},
					{Id: aws.String("da2-healthy"), Expires: later},
					{Id: aws.String("da2-newkey"), Expires: rotationNow.AddDate(0, 0, 365).Unix()},
				},
			}, nil
		},
		deleteFn: func(_ context.Context, params *appsync.DeleteApiKeyInput, _ ...func(*appsync.Options)) (*appsync.DeleteApiKeyOutput, error) {
			deletedIDs = append(deletedIDs, aws.ToString(params.Id))
			return &appsync.DeleteApiKeyOutput{}, nil
		},
	}
	ssmMock := &mockSSM{
		putFn: func(context.Context, *ssm.PutParameterInput, ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
			return &ssm.PutParameterOutput{}, nil
		},
	}

	rotator := NewRotator(appsyncMock, ssmMock, testConfig(), zap.NewNop())
	rotator.now = func() time.Time { return rotationNow }

	result, err := rotator.Rotate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"da2-dying"}, deletedIDs)
	assert.Equal(t, []string{"da2-dying"}, result.DeletedKeyIDs)
}

func TestRotateSSMFailureAborts(t *testing.T) {
	listed := false
	appsyncMock := &mockAppSync{
		createFn: func(_ context.Context, params *appsync.CreateApiKeyInput, _ ...func(*appsync.Options)) (*appsync.CreateApiKeyOutput, error) {
			return &appsync.CreateApiKeyOutput{
				ApiKey: &appsynctypes.ApiKey{Id: aws.String("da2-newkey"), Expires: params.Expires},
			}, nil
		},
		listFn: func(context.Context, *appsync.ListApiKeysInput, ...func(*appsync.Options)) (*appsync.ListApiKeysOutput, error) {
			listed = true
			return &appsync.ListApiKeysOutput{}, nil
		},
	}
	ssmMock := &mockSSM{
		putFn: func(context.Context, *ssm.PutParameterInput, ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
			return nil, assert.AnError
		},
	}

	rotator := NewRotator(appsyncMock, ssmMock, testConfig(), zap.NewNop())
	rotator.now = func() time.Time { return rotationNow }

	_, err := rotator.Rotate(context.Background())
	require.Error(t, err)
	assert.False(t, listed, "cleanup must not run when the new key was not stored")
}

func TestRotateCleanupFailureStillSucceeds(t *testing.T) {
	appsyncMock := &mockAppSync{
		createFn: func(_ context.Context, params *appsync.CreateApiKeyInput, _ ...func(*appsync.Options)) (*appsync.CreateApiKeyOutput, error) {
			return &appsync.CreateApiKeyOutput{
				ApiKey: &appsynctypes.ApiKey{Id: aws.String("da2-newkey"), Expires: params.Expires},
			}, nil
		},
		listFn: func(context.Context, *appsync.ListApiKeysInput, ...func(*appsync.Options)) (*appsync.ListApiKeysOutput, error) {
			return nil, assert.AnError
		},
	}
	ssmMock := &mockSSM{
		putFn: func(context.Context, *ssm.PutParameterInput, ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
			return &ssm.PutParameterOutput{}, nil
		},
	}

	rotator := NewRotator(appsyncMock, ssmMock, testConfig(), zap.NewNop())
	rotator.now = func() time.Time { return rotationNow }

	result, err := rotator.Rotate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "da2-newkey", result.NewKeyID)
	assert.Empty(t, result.DeletedKeyIDs)
}
