package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/ndlib/mellon-blueprints/application/services/rotation"
	"github.com/ndlib/mellon-blueprints/infrastructure/config"
	"github.com/ndlib/mellon-blueprints/infrastructure/di"
)

var container *di.Container

// init runs during cold start
func init() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.GraphQLAPIID == "" {
		log.Fatal("GRAPHQL_API_ID is required")
	}

	container, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
}

// Handler runs one rotation on a schedule.
func Handler(ctx context.Context, event events.CloudWatchEvent) (*rotation.Result, error) {
	container.Logger.Info("key rotation triggered",
		zap.String("source", event.Source),
		zap.Time("time", event.Time),
	)

	result, err := container.Rotator.Rotate(ctx)
	if err != nil {
		container.Logger.Error("key rotation failed", zap.Error(err))
		return nil, err
	}

	container.Logger.Info("key rotation complete",
		zap.String("newKeyId", result.NewKeyID),
		zap.Time("expires", result.ExpiresAt),
		zap.Int("deletedKeys", len(result.DeletedKeyIDs)),
	)
	return result, nil
}

func main() {
	lambda.Start(Handler)
}
