package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/ndlib/mellon-blueprints/infrastructure/config"
	"github.com/ndlib/mellon-blueprints/infrastructure/di"
	"github.com/ndlib/mellon-blueprints/interfaces/appsync"
)

var resolver *appsync.Resolver

// init runs during cold start
func init() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	resolver = appsync.NewResolver(
		container.CommandBus,
		container.QueryBus,
		container.Metrics,
		container.Tracer,
		container.Logger,
	)
}

// Handler resolves one GraphQL field invocation.
func Handler(ctx context.Context, inv appsync.Invocation) (appsync.Response, error) {
	return resolver.Resolve(ctx, inv), nil
}

func main() {
	lambda.Start(Handler)
}
