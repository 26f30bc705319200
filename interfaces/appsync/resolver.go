package appsync

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ndlib/mellon-blueprints/application/commands"
	cmdbus "github.com/ndlib/mellon-blueprints/application/commands/bus"
	"github.com/ndlib/mellon-blueprints/application/queries"
	querybus "github.com/ndlib/mellon-blueprints/application/queries/bus"
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
	"github.com/ndlib/mellon-blueprints/pkg/observability"
)

type fieldFunc func(ctx context.Context, inv Invocation) (interface{}, error)

// Resolver dispatches GraphQL field invocations to the command and query
// buses. One Lambda serves every field; routing is by field name.
type Resolver struct {
	commandBus *cmdbus.CommandBus
	queryBus   *querybus.QueryBus
	metrics    *observability.Metrics
	tracer     *observability.Tracer
	logger     *zap.Logger
	fields     map[string]fieldFunc
}

// NewResolver creates a Resolver with every field registered. Metrics and
// tracer may be nil.
func NewResolver(commandBus *cmdbus.CommandBus, queryBus *querybus.QueryBus, metrics *observability.Metrics, tracer *observability.Tracer, logger *zap.Logger) *Resolver {
	r := &Resolver{
		commandBus: commandBus,
		queryBus:   queryBus,
		metrics:    metrics,
		tracer:     tracer,
		logger:     logger,
	}
	r.fields = map[string]fieldFunc{
		// Queries.
		"getItem":                          r.getItem,
		"listItemsByParent":                r.listItemsByParent,
		"listItemsByWebsite":               r.listItemsByWebsite,
		"getWebsite":                       r.getWebsite,
		"listWebsites":                     r.listWebsites,
		"getFileGroup":                     r.getFileGroup,
		"listFileGroups":                   r.listFileGroups,
		"getSupplementalData":              r.getSupplementalData,
		"listSupplementalDataForItem":      r.listSupplementalDataForItem,
		"getPortfolioUser":                 r.getPortfolioUser,
		"getPortfolioCollection":           r.getPortfolioCollection,
		"listPortfolioCollections":         r.listPortfolioCollections,
		"listFeaturedPortfolioCollections": r.listFeaturedPortfolioCollections,
		"getPortfolioItem":                 r.getPortfolioItem,
		"listPortfolioItems":               r.listPortfolioItems,

		// Mutations.
		"saveItem":                  r.saveItem,
		"updateItem":                r.updateItem,
		"saveWebsite":               r.saveWebsite,
		"saveFileGroup":             r.saveFileGroup,
		"saveSupplementalData":      r.saveSupplementalData,
		"removeSupplementalData":    r.removeSupplementalData,
		"savePortfolioUser":         r.savePortfolioUser,
		"savePortfolioCollection":   r.savePortfolioCollection,
		"removePortfolioCollection": r.removePortfolioCollection,
		"savePortfolioItem":         r.savePortfolioItem,
		"removePortfolioItem":       r.removePortfolioItem,
	}
	return r
}

// Resolve handles one field invocation. It never panics and never returns a
// Go error: failures come back in the response envelope so AppSync can raise
// them as field errors.
func (r *Resolver) Resolve(ctx context.Context, inv Invocation) (response Response) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("resolver panic",
				zap.String("field", inv.Field),
				zap.Any("panic", rec),
			)
			response = errorResponse(pkgerrors.NewInternalError("internal error", nil))
		}
		if r.metrics != nil {
			r.metrics.RecordOperation(ctx, inv.Field, time.Since(start), response.Error != nil)
		}
	}()

	fn, ok := r.fields[inv.Field]
	if !ok {
		return errorResponse(pkgerrors.NewValidationError("unknown field " + inv.Field))
	}

	var data interface{}
	var err error
	if r.tracer != nil {
		err = r.tracer.Trace(ctx, inv.Field, func(ctx context.Context) error {
			var fnErr error
			data, fnErr = fn(ctx, inv)
			return fnErr
		})
	} else {
		data, err = fn(ctx, inv)
	}
	if err != nil {
		r.logger.Warn("field resolution failed",
			zap.String("field", inv.Field),
			zap.Error(err),
		)
		return errorResponse(err)
	}
	return Response{Data: data}
}

func errorResponse(err error) Response {
	// AsAppError wraps unclassified errors as internal, keeping their
	// detail out of the field error.
	appErr := pkgerrors.AsAppError(err)
	return Response{Error: &GraphQLError{
		Message:   appErr.Message,
		ErrorType: appErr.GraphQLErrorType(),
	}}
}

func decodeArgs[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, pkgerrors.NewValidationError("malformed arguments: " + err.Error())
	}
	return v, nil
}

// requireUser extracts the authenticated caller for fields that mutate
// user-owned records.
func requireUser(inv Invocation) (string, error) {
	userID := inv.Identity.UserID()
	if userID == "" {
		return "", pkgerrors.NewUnauthorizedError("caller identity is required")
	}
	return userID, nil
}

func (r *Resolver) getItem(ctx context.Context, inv Invocation) (interface{}, error) {
	q, err := decodeArgs[queries.GetItemQuery](inv.Arguments)
	if err != nil {
		return nil, err
	}
	return r.queryBus.Ask(ctx, q)
}

func (r *Resolver) listItemsByParent(ctx context.Context, inv Invocation) (interface{}, error) {
	q, err := decodeArgs[queries.ListItemsByParentQuery](inv.Arguments)
	if err != nil {
		return nil, err
	}
	return r.queryBus.Ask(ctx, q)
}

func (r *Resolver) listItemsByWebsite(ctx context.Context, inv Invocation) (interface{}, error) {
	q, err := decodeArgs[queries.ListItemsByWebsiteQuery](inv.Arguments)
	if err != nil {
		return nil, err
	}
	return r.queryBus.Ask(ctx, q)
}

func (r *Resolver) getWebsite(ctx context.Context, inv Invocation) (interface{}, error) {
	q, err := decodeArgs[queries.GetWebsiteQuery](inv.Arguments)
	if err != nil {
		return nil, err
	}
	return r.queryBus.Ask(ctx, q)
}

func (r *Resolver) listWebsites(ctx context.Context, inv Invocation) (interface{}, error) {
	q, err := decodeArgs[queries.ListWebsitesQuery](inv.Arguments)
	if err != nil {
		return nil, err
	}
	return r.queryBus.Ask(ctx, q)
}

func (r *Resolver) getFileGroup(ctx context.Context, inv Invocation) (interface{}, error) {
	q, err := decodeArgs[queries.GetFileGroupQuery](inv.Arguments)
	if err != nil {
		return nil, err
	}
	return r.queryBus.Ask(ctx, q)
}

func (r *Resolver) listFileGroups(ctx context.Context, inv Invocation) (interface{}, error) {
	q, err := decodeArgs[queries.ListFileGroupsQuery](inv.Arguments)
	if err != nil {
		return nil, err
	}
	return r.queryBus.Ask(ctx, q)
}

func (r *Resolver) getSupplementalData(ctx context.Context, inv Invocation) (interface{}, error) {
	q, err := decodeArgs[queries.GetSupplementalDataQuery](inv.Arguments)
	if err != nil {
		return nil, err
	}
	return r.queryBus.Ask(ctx, q)
}

func (r *Resolver) listSupplementalDataForItem(ctx context.Context, inv Invocation) (interface{}, error) {
	q, err := decodeArgs[queries.ListSupplementalDataForItemQuery](inv.Arguments)
	if err != nil {
		return nil, err
	}
	return r.queryBus.Ask(ctx, q)
}

func (r *Resolver) getPortfolioUser(ctx context.Context, inv Invocation) (interface{}, error) {
	q, err := decodeArgs[queries.GetPortfolioUserQuery](inv.Arguments)
	if err != nil {
		return nil, err
	}
	return r.queryBus.Ask(ctx, q)
}

func (r *Resolver) getPortfolioCollection(ctx context.Context, inv Invocation) (interface{}, error) {
	q, err := decodeArgs[queries.GetPortfolioCollectionQuery](inv.Arguments)
	if err != nil {
		return nil, err
	}
	q.CallerID = inv.Identity.UserID()
	return r.queryBus.Ask(ctx, q)
}

func (r *Resolver) listPortfolioCollections(ctx context.Context, inv Invocation) (interface{}, error) {
	q, err := decodeArgs[queries.ListPortfolioCollectionsQuery](inv.Arguments)
	if err != nil {
		return nil, err
	}
	q.CallerID = inv.Identity.UserID()
	return r.queryBus.Ask(ctx, q)
}

func (r *Resolver) listFeaturedPortfolioCollections(ctx context.Context, inv Invocation) (interface{}, error) {
	q, err := decodeArgs[queries.ListFeaturedPortfolioCollectionsQuery](inv.Arguments)
	if err != nil {
		return nil, err
	}
	return r.queryBus.Ask(ctx, q)
}

func (r *Resolver) getPortfolioItem(ctx context.Context, inv Invocation) (interface{}, error) {
	q, err := decodeArgs[queries.GetPortfolioItemQuery](inv.Arguments)
	if err != nil {
		return nil, err
	}
	q.CallerID = inv.Identity.UserID()
	return r.queryBus.Ask(ctx, q)
}

func (r *Resolver) listPortfolioItems(ctx context.Context, inv Invocation) (interface{}, error) {
	q, err := decodeArgs[queries.ListPortfolioItemsQuery](inv.Arguments)
	if err != nil {
		return nil, err
	}
	q.CallerID = inv.Identity.UserID()
	return r.queryBus.Ask(ctx, q)
}

func (r *Resolver) saveItem(ctx context.Context, inv Invocation) (interface{}, error) {
	cmd, err := decodeArgs[commands.SaveItemCommand](inv.Arguments)
	if err != nil {
		return nil, err
	}
	return r.commandBus.Send(ctx, cmd)
}

func (r *Resolver) updateItem(ctx context.Context, inv Invocation) (interface{}, error) {
	cmd, err := decodeArgs[commands.UpdateItemCommand](inv.Arguments)
	if err != nil {
		return nil, err
	}
	return r.commandBus.Send(ctx, cmd)
}

func (r *Resolver) saveWebsite(ctx context.Context, inv Invocation) (interface{}, error) {
	cmd, err := decodeArgs[commands.SaveWebsiteCommand](inv.Arguments)
	if err != nil {
		return nil, err
	}
	return r.commandBus.Send(ctx, cmd)
}

func (r *Resolver) saveFileGroup(ctx context.Context, inv Invocation) (interface{}, error) {
	cmd, err := decodeArgs[commands.SaveFileGroupCommand](inv.Arguments)
	if err != nil {
		return nil, err
	}
	return r.commandBus.Send(ctx, cmd)
}

func (r *Resolver) saveSupplementalData(ctx context.Context, inv Invocation) (interface{}, error) {
	cmd, err := decodeArgs[commands.SaveSupplementalDataCommand](inv.Arguments)
	if err != nil {
		return nil, err
	}
	return r.commandBus.Send(ctx, cmd)
}

func (r *Resolver) removeSupplementalData(ctx context.Context, inv Invocation) (interface{}, error) {
	cmd, err := decodeArgs[commands.RemoveSupplementalDataCommand](inv.Arguments)
	if err != nil {
		return nil, err
	}
	return r.commandBus.Send(ctx, cmd)
}

func (r *Resolver) savePortfolioUser(ctx context.Context, inv Invocation) (interface{}, error) {
	cmd, err := decodeArgs[commands.SavePortfolioUserCommand](inv.Arguments)
	if err != nil {
		return nil, err
	}
	if cmd.UserID, err = requireUser(inv); err != nil {
		return nil, err
	}
	return r.commandBus.Send(ctx, cmd)
}

func (r *Resolver) savePortfolioCollection(ctx context.Context, inv Invocation) (interface{}, error) {
	cmd, err := decodeArgs[commands.SavePortfolioCollectionCommand](inv.Arguments)
	if err != nil {
		return nil, err
	}
	if cmd.UserID, err = requireUser(inv); err != nil {
		return nil, err
	}
	return r.commandBus.Send(ctx, cmd)
}

func (r *Resolver) removePortfolioCollection(ctx context.Context, inv Invocation) (interface{}, error) {
	cmd, err := decodeArgs[commands.RemovePortfolioCollectionCommand](inv.Arguments)
	if err != nil {
		return nil, err
	}
	if cmd.UserID, err = requireUser(inv); err != nil {
		return nil, err
	}
	return r.commandBus.Send(ctx, cmd)
}

func (r *Resolver) savePortfolioItem(ctx context.Context, inv Invocation) (interface{}, error) {
	cmd, err := decodeArgs[commands.SavePortfolioItemCommand](inv.Arguments)
	if err != nil {
		return nil, err
	}
	if cmd.UserID, err = requireUser(inv); err != nil {
		return nil, err
	}
	return r.commandBus.Send(ctx, cmd)
}

func (r *Resolver) removePortfolioItem(ctx context.Context, inv Invocation) (interface{}, error) {
	cmd, err := decodeArgs[commands.RemovePortfolioItemCommand](inv.Arguments)
	if err != nil {
		return nil, err
	}
	if cmd.UserID, err = requireUser(inv); err != nil {
		return nil, err
	}
	return r.commandBus.Send(ctx, cmd)
}
