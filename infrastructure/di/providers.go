package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsappsync "github.com/aws/aws-sdk-go-v2/service/appsync"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"

	"github.com/ndlib/mellon-blueprints/application/commands"
	cmdbus "github.com/ndlib/mellon-blueprints/application/commands/bus"
	commandhandlers "github.com/ndlib/mellon-blueprints/application/commands/handlers"
	"github.com/ndlib/mellon-blueprints/application/ports"
	"github.com/ndlib/mellon-blueprints/application/queries"
	querybus "github.com/ndlib/mellon-blueprints/application/queries/bus"
	queryhandlers "github.com/ndlib/mellon-blueprints/application/queries/handlers"
	"github.com/ndlib/mellon-blueprints/application/services/rotation"
	"github.com/ndlib/mellon-blueprints/infrastructure/config"
	"github.com/ndlib/mellon-blueprints/infrastructure/messaging/eventbridge"
	"github.com/ndlib/mellon-blueprints/infrastructure/persistence/dynamodb"
	"github.com/ndlib/mellon-blueprints/pkg/auth"
	"github.com/ndlib/mellon-blueprints/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideAppSyncClient creates an AppSync client
func ProvideAppSyncClient(awsCfg aws.Config) *awsappsync.Client {
	return awsappsync.NewFromConfig(awsCfg)
}

// ProvideSSMClient creates an SSM client
func ProvideSSMClient(awsCfg aws.Config) *awsssm.Client {
	return awsssm.NewFromConfig(awsCfg)
}

// ProvideTable creates the single-table access layer shared by all
// repositories
func ProvideTable(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamodb.Table {
	return dynamodb.NewTable(client, cfg.DynamoDBTable, cfg.GSI1IndexName, cfg.GSI2IndexName, logger)
}

// ProvideItemRepository creates an item repository
func ProvideItemRepository(table *dynamodb.Table) ports.ItemRepository {
	return dynamodb.NewItemRepository(table)
}

// ProvideWebsiteRepository creates a website repository
func ProvideWebsiteRepository(table *dynamodb.Table) ports.WebsiteRepository {
	return dynamodb.NewWebsiteRepository(table)
}

// ProvideFileGroupRepository creates a file group repository
func ProvideFileGroupRepository(table *dynamodb.Table) ports.FileGroupRepository {
	return dynamodb.NewFileGroupRepository(table)
}

// ProvideSupplementalDataRepository creates a supplemental data repository
func ProvideSupplementalDataRepository(table *dynamodb.Table) ports.SupplementalDataRepository {
	return dynamodb.NewSupplementalDataRepository(table)
}

// ProvidePortfolioRepository creates a portfolio repository
func ProvidePortfolioRepository(table *dynamodb.Table) ports.PortfolioRepository {
	return dynamodb.NewPortfolioRepository(table)
}

// ProvideEventPublisher creates the content event publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates metrics instance
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	return observability.NewMetrics(client, cfg.MetricsNamespace, logger)
}

// ProvideJWTValidator creates the bearer token validator for the HTTP
// surface
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && !cfg.IsProduction() {
		secret = "development-secret-change-in-production"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
		Audience:  cfg.JWTAudience,
	})
}

// ProvideTracer creates an X-Ray tracer when tracing is enabled
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	if !cfg.EnableTracing {
		return nil
	}
	return observability.NewTracer("mellon-user-content")
}

// ProvideRotator creates the API key rotator
func ProvideRotator(appsyncClient *awsappsync.Client, ssmClient *awsssm.Client, cfg *config.Config, logger *zap.Logger) *rotation.Rotator {
	return rotation.NewRotator(appsyncClient, ssmClient, rotation.Config{
		GraphQLAPIID:       cfg.GraphQLAPIID,
		ParameterName:      cfg.APIKeySSMPath,
		KeyLifetimeDays:    cfg.KeyLifetimeDays,
		DeletionWindowDays: cfg.DeletionWindowDays,
	}, logger)
}

// ProvideCommandBus creates a command bus with every mutation handler
// registered
func ProvideCommandBus(
	items ports.ItemRepository,
	websites ports.WebsiteRepository,
	fileGroups ports.FileGroupRepository,
	supplemental ports.SupplementalDataRepository,
	portfolios ports.PortfolioRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) (*cmdbus.CommandBus, error) {
	commandBus := cmdbus.NewCommandBus()

	registrations := []struct {
		cmd     cmdbus.Command
		handler cmdbus.CommandHandler
	}{
		{commands.SaveItemCommand{}, commandhandlers.NewSaveItemHandler(items, publisher, logger)},
		{commands.UpdateItemCommand{}, commandhandlers.NewUpdateItemHandler(items, publisher, logger)},
		{commands.SaveWebsiteCommand{}, commandhandlers.NewSaveWebsiteHandler(websites, publisher, logger)},
		{commands.SaveFileGroupCommand{}, commandhandlers.NewSaveFileGroupHandler(fileGroups, publisher, logger)},
		{commands.SaveSupplementalDataCommand{}, commandhandlers.NewSaveSupplementalDataHandler(supplemental, publisher, logger)},
		{commands.RemoveSupplementalDataCommand{}, commandhandlers.NewRemoveSupplementalDataHandler(supplemental, publisher, logger)},
	}
	for _, reg := range registrations {
		if err := commandBus.Register(reg.cmd, reg.handler); err != nil {
			return nil, err
		}
	}

	portfolio := commandhandlers.NewPortfolioCommandHandlers(portfolios, publisher, logger)
	portfolioRegistrations := []struct {
		cmd     cmdbus.Command
		handler cmdbus.CommandHandlerFunc
	}{
		{commands.SavePortfolioUserCommand{}, portfolio.HandleSaveUser},
		{commands.SavePortfolioCollectionCommand{}, portfolio.HandleSaveCollection},
		{commands.RemovePortfolioCollectionCommand{}, portfolio.HandleRemoveCollection},
		{commands.SavePortfolioItemCommand{}, portfolio.HandleSaveItem},
		{commands.RemovePortfolioItemCommand{}, portfolio.HandleRemoveItem},
	}
	for _, reg := range portfolioRegistrations {
		if err := commandBus.Register(reg.cmd, reg.handler); err != nil {
			return nil, err
		}
	}

	return commandBus, nil
}

// ProvideQueryBus creates a query bus with every read handler registered
func ProvideQueryBus(
	items ports.ItemRepository,
	websites ports.WebsiteRepository,
	fileGroups ports.FileGroupRepository,
	supplemental ports.SupplementalDataRepository,
	portfolios ports.PortfolioRepository,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	item := queryhandlers.NewItemQueryHandlers(items)
	website := queryhandlers.NewWebsiteQueryHandlers(websites)
	fileGroup := queryhandlers.NewFileGroupQueryHandlers(fileGroups)
	supp := queryhandlers.NewSupplementalDataQueryHandlers(supplemental)
	portfolio := queryhandlers.NewPortfolioQueryHandlers(portfolios)

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandlerFunc
	}{
		{queries.GetItemQuery{}, item.HandleGet},
		{queries.ListItemsByParentQuery{}, item.HandleListByParent},
		{queries.ListItemsByWebsiteQuery{}, item.HandleListByWebsite},
		{queries.GetWebsiteQuery{}, website.HandleGet},
		{queries.ListWebsitesQuery{}, website.HandleList},
		{queries.GetFileGroupQuery{}, fileGroup.HandleGet},
		{queries.ListFileGroupsQuery{}, fileGroup.HandleList},
		{queries.GetSupplementalDataQuery{}, supp.HandleGet},
		{queries.ListSupplementalDataForItemQuery{}, supp.HandleListForItem},
		{queries.GetPortfolioUserQuery{}, portfolio.HandleGetUser},
		{queries.GetPortfolioCollectionQuery{}, portfolio.HandleGetCollection},
		{queries.ListPortfolioCollectionsQuery{}, portfolio.HandleListCollections},
		{queries.ListFeaturedPortfolioCollectionsQuery{}, portfolio.HandleListFeaturedCollections},
		{queries.GetPortfolioItemQuery{}, portfolio.HandleGetItem},
		{queries.ListPortfolioItemsQuery{}, portfolio.HandleListItems},
	}
	for _, reg := range registrations {
		if err := queryBus.Register(reg.query, reg.handler); err != nil {
			return nil, err
		}
	}

	return queryBus, nil
}
