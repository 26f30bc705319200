package rotation

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/appsync"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"go.uber.org/zap"
)

// AppSyncAPI is the subset of the AppSync client used for key rotation.
type AppSyncAPI interface {
	ListApiKeys(ctx context.Context, params *appsync.ListApiKeysInput, optFns ...func(*appsync.Options)) (*appsync.ListApiKeysOutput, error)
	CreateApiKey(ctx context.Context, params *appsync.CreateApiKeyInput, optFns ...func(*appsync.Options)) (*appsync.CreateApiKeyOutput, error)
	DeleteApiKey(ctx context.Context, params *appsync.DeleteApiKeyInput, optFns ...func(*appsync.Options)) (*appsync.DeleteApiKeyOutput, error)
}

// SSMAPI is the subset of the SSM client used for key rotation.
type SSMAPI interface {
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}

// Config controls one rotation run.
type Config struct {
	// GraphQLAPIID is the AppSync API whose keys rotate.
	GraphQLAPIID string

	// ParameterName is the SSM parameter that receives the new key value.
	ParameterName string

	// KeyLifetimeDays is how far out the replacement key expires.
	KeyLifetimeDays int

	// DeletionWindowDays controls cleanup: keys expiring within this many
	// days are deleted after the replacement is stored.
	DeletionWindowDays int
}

// Result reports what a rotation run did.
type Result struct {
	NewKeyID      string    `json:"newKeyId"`
	ExpiresAt     time.Time `json:"expiresAt"`
	DeletedKeyIDs []string  `json:"deletedKeyIds,omitempty"`
}

// Rotator replaces an AppSync API key on a schedule. Each run creates a
// fresh key, publishes its value to SSM for consumers, then deletes keys
// close enough to expiry that nothing should still be using them.
type Rotator struct {
	appsync AppSyncAPI
	ssm     SSMAPI
	cfg     Config
	logger  *zap.Logger
	now     func() time.Time
}

// NewRotator creates a Rotator.
func NewRotator(appsyncClient AppSyncAPI, ssmClient SSMAPI, cfg Config, logger *zap.Logger) *Rotator {
	return &Rotator{
		appsync: appsyncClient,
		ssm:     ssmClient,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Rotate performs one rotation run. The new key is stored in SSM before any
// old key is deleted, so consumers reading the parameter never see a gap.
func (r *Rotator) Rotate(ctx context.Context) (*Result, error) {
	now := r.now().UTC()
	expires := now.AddDate(0, 0, r.cfg.KeyLifetimeDays)

	created, err := r.appsync.CreateApiKey(ctx, &appsync.CreateApiKeyInput{
		ApiId:       aws.String(r.cfg.GraphQLAPIID),
		Description: aws.String("rotated " + now.Format("2006-01-02")),
		Expires:     expires.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating replacement api key: %w", err)
	}
	newKeyID := aws.ToString(created.ApiKey.Id)

	_, err = r.ssm.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(r.cfg.ParameterName),
		Value:     aws.String(newKeyID),
		Type:      ssmtypes.ParameterTypeSecureString,
		Overwrite: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("storing api key in parameter store: %w", err)
	}

	r.logger.Info("replacement api key stored",
		zap.String("apiId", r.cfg.GraphQLAPIID),
		zap.String("parameter", r.cfg.ParameterName),
		zap.Time("expires", expires),
	)

	deleted, err := r.deleteExpiringKeys(ctx, now, newKeyID)
	if err != nil {
		// The replacement is already live; report the run as succeeded
		// and let the next run retry cleanup.
		r.logger.Warn("api key cleanup incomplete", zap.Error(err))
	}

	return &Result{NewKeyID: newKeyID, ExpiresAt: expires, DeletedKeyIDs: deleted}, nil
}

// deleteExpiringKeys removes keys expiring within the deletion window,
// never touching the key created by this run.
func (r *Rotator) deleteExpiringKeys(ctx context.Context, now time.Time, keepID string) ([]string, error) {
	cutoff := now.AddDate(0, 0, r.cfg.DeletionWindowDays).Unix()

	var deleted []string
	var nextToken *string
	for {
		page, err := r.appsync.ListApiKeys(ctx, &appsync.ListApiKeysInput{
			ApiId:     aws.String(r.cfg.GraphQLAPIID),
			NextToken: nextToken,
		})
		if err != nil {
			return deleted, fmt.Errorf("listing api keys: %w", err)
		}

		for _, key := range page.ApiKeys {
			id := aws.ToString(key.Id)
			if id == keepID || key.Expires > cutoff {
				continue
			}
			_, err := r.appsync.DeleteApiKey(ctx, &appsync.DeleteApiKeyInput{
				ApiId: aws.String(r.cfg.GraphQLAPIID),
				Id:    aws.String(id),
			})
			if err != nil {
				return deleted, fmt.Errorf("deleting api key %s: %w", id, err)
			}
			r.logger.Info("deleted expiring api key", zap.String("keyId", id))
			deleted = append(deleted, id)
		}

		if page.NextToken == nil {
			return deleted, nil
		}
		nextToken = page.NextToken
	}
}
