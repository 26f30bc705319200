package appsync

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ndlib/mellon-blueprints/application/commands"
	cmdbus "github.com/ndlib/mellon-blueprints/application/commands/bus"
	"github.com/ndlib/mellon-blueprints/application/queries"
	querybus "github.com/ndlib/mellon-blueprints/application/queries/bus"
	"github.com/ndlib/mellon-blueprints/domain/core/entities"
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

func newTestResolver(t *testing.T) (*Resolver, *cmdbus.CommandBus, *querybus.QueryBus) {
	t.Helper()
	cb := cmdbus.NewCommandBus()
	qb := querybus.NewQueryBus()
	return NewResolver(cb, qb, nil, nil, zap.NewNop()), cb, qb
}

func TestResolveUnknownField(t *testing.T) {
	resolver, _, _ := newTestResolver(t)

	resp := resolver.Resolve(context.Background(), Invocation{Field: "frobnicate"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ValidationError", resp.Error.ErrorType)
	assert.Nil(t, resp.Data)
}

func TestResolveQuerySuccess(t *testing.T) {
	resolver, _, qb := newTestResolver(t)
	item := &entities.Item{ID: "BPP1001", Title: "Commencement program"}
	err := qb.Register(queries.GetItemQuery{}, querybus.QueryHandlerFunc(
		func(_ context.Context, q querybus.Query) (interface{}, error) {
			assert.Equal(t, "BPP1001", q.(queries.GetItemQuery).ID)
			return item, nil
		}))
	require.NoError(t, err)

	resp := resolver.Resolve(context.Background(), Invocation{
		Field:     "getItem",
		Arguments: json.RawMessage(`{"id":"BPP1001"}`),
	})
	require.Nil(t, resp.Error)
	assert.Same(t, item, resp.Data)
}

func TestResolveNotFoundMapsToFieldError(t *testing.T) {
	resolver, _, qb := newTestResolver(t)
	err := qb.Register(queries.GetItemQuery{}, querybus.QueryHandlerFunc(
		func(context.Context, querybus.Query) (interface{}, error) {
			return nil, pkgerrors.NewNotFoundError("item")
		}))
	require.NoError(t, err)

	resp := resolver.Resolve(context.Background(), Invocation{
		Field:     "getItem",
		Arguments: json.RawMessage(`{"id":"MISSING"}`),
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NotFoundError", resp.Error.ErrorType)
	assert.Equal(t, "item not found", resp.Error.Message)
}

func TestResolveMalformedArguments(t *testing.T) {
	resolver, _, _ := newTestResolver(t)

	resp := resolver.Resolve(context.Background(), Invocation{
		Field:     "getItem",
		Arguments: json.RawMessage(`{"id":`),
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ValidationError", resp.Error.ErrorType)
}

func TestResolveCommandValidationRuns(t *testing.T) {
	resolver, cb, _ := newTestResolver(t)
	err := cb.Register(commands.SaveItemCommand{}, cmdbus.CommandHandlerFunc(
		func(context.Context, cmdbus.Command) (interface{}, error) {
			t.Fatal("handler must not run for an invalid command")
			return nil, nil
		}))
	require.NoError(t, err)

	resp := resolver.Resolve(context.Background(), Invocation{
		Field:     "saveItem",
		Arguments: json.RawMessage(`{"id":"BPP1001"}`),
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ValidationError", resp.Error.ErrorType)
}

func TestResolvePortfolioMutationInjectsCaller(t *testing.T) {
	resolver, cb, _ := newTestResolver(t)
	var gotUser string
	err := cb.Register(commands.SavePortfolioCollectionCommand{}, cmdbus.CommandHandlerFunc(
		func(_ context.Context, cmd cmdbus.Command) (interface{}, error) {
			gotUser = cmd.(commands.SavePortfolioCollectionCommand).UserID
			return &entities.PortfolioCollection{CollectionID: "c1"}, nil
		}))
	require.NoError(t, err)

	resp := resolver.Resolve(context.Background(), Invocation{
		Field:     "savePortfolioCollection",
		Arguments: json.RawMessage(`{"title":"Senior thesis","userId":"spoofed"}`),
		Identity:  &Identity{Sub: "jdoe1"},
	})
	require.Nil(t, resp.Error)
	assert.Equal(t, "jdoe1", gotUser, "caller identity overrides any userId argument")
}

func TestResolvePortfolioItemReadCarriesCaller(t *testing.T) {
	resolver, _, qb := newTestResolver(t)
	var gotCaller string
	err := qb.Register(queries.ListPortfolioItemsQuery{}, querybus.QueryHandlerFunc(
		func(_ context.Context, q querybus.Query) (interface{}, error) {
			gotCaller = q.(queries.ListPortfolioItemsQuery).CallerID
			return nil, nil
		}))
	require.NoError(t, err)

	resp := resolver.Resolve(context.Background(), Invocation{
		Field:     "listPortfolioItems",
		Arguments: json.RawMessage(`{"portfolioCollectionId":"c1"}`),
		Identity:  &Identity{Sub: "jdoe1"},
	})
	require.Nil(t, resp.Error)
	assert.Equal(t, "jdoe1", gotCaller, "visibility checks need the caller identity")
}

func TestResolvePortfolioMutationRequiresIdentity(t *testing.T) {
	resolver, _, _ := newTestResolver(t)

	resp := resolver.Resolve(context.Background(), Invocation{
		Field:     "removePortfolioItem",
		Arguments: json.RawMessage(`{"portfolioCollectionId":"c1","portfolioItemId":"p1"}`),
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UnauthorizedError", resp.Error.ErrorType)
}

func TestResolveRecoversFromPanic(t *testing.T) {
	resolver, _, qb := newTestResolver(t)
	err := qb.Register(queries.ListWebsitesQuery{}, querybus.QueryHandlerFunc(
		func(context.Context, querybus.Query) (interface{}, error) {
			panic("boom")
		}))
	require.NoError(t, err)

	resp := resolver.Resolve(context.Background(), Invocation{Field: "listWebsites"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, "InternalError", resp.Error.ErrorType)
}
