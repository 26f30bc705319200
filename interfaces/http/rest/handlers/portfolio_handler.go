package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ndlib/mellon-blueprints/application/commands"
	cmdbus "github.com/ndlib/mellon-blueprints/application/commands/bus"
	"github.com/ndlib/mellon-blueprints/application/queries"
	querybus "github.com/ndlib/mellon-blueprints/application/queries/bus"
	"github.com/ndlib/mellon-blueprints/pkg/auth"
	"github.com/ndlib/mellon-blueprints/pkg/common"
)

// PortfolioHandler serves portfolio endpoints. Mutations act on behalf of
// the authenticated caller; reads pass the caller along for visibility
// checks.
type PortfolioHandler struct {
	commandBus *cmdbus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(commandBus *cmdbus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{commandBus: commandBus, queryBus: queryBus, logger: logger}
}

func callerID(r *http.Request) string {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		return ""
	}
	return user.UserID
}

// SaveProfile handles PUT /portfolio/profile.
func (h *PortfolioHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	var cmd commands.SavePortfolioUserCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	cmd.UserID = user.UserID

	profile, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, profile)
}

// GetUser handles GET /portfolio/users/{userID}.
func (h *PortfolioHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.queryBus.Ask(r.Context(), queries.GetPortfolioUserQuery{
		UserID: chi.URLParam(r, "userID"),
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, profile)
}

// SaveCollection handles POST /portfolio/collections.
func (h *PortfolioHandler) SaveCollection(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	var cmd commands.SavePortfolioCollectionCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	cmd.UserID = user.UserID

	collection, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, collection)
}

// GetCollection handles GET /portfolio/users/{userID}/collections/{collectionID}.
func (h *PortfolioHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	collection, err := h.queryBus.Ask(r.Context(), queries.GetPortfolioCollectionQuery{
		UserID:       chi.URLParam(r, "userID"),
		CollectionID: chi.URLParam(r, "collectionID"),
		CallerID:     callerID(r),
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, collection)
}

// ListCollections handles GET /portfolio/users/{userID}/collections.
func (h *PortfolioHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	limit, nextToken := listParams(r)
	page, err := h.queryBus.Ask(r.Context(), queries.ListPortfolioCollectionsQuery{
		UserID:    chi.URLParam(r, "userID"),
		CallerID:  callerID(r),
		Limit:     limit,
		NextToken: nextToken,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, page)
}

// ListFeatured handles GET /portfolio/featured.
func (h *PortfolioHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	limit, nextToken := listParams(r)
	page, err := h.queryBus.Ask(r.Context(), queries.ListFeaturedPortfolioCollectionsQuery{
		Limit:     limit,
		NextToken: nextToken,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, page)
}

// DeleteCollection handles DELETE /portfolio/collections/{collectionID}.
func (h *PortfolioHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.RemovePortfolioCollectionCommand{
		UserID:       user.UserID,
		CollectionID: chi.URLParam(r, "collectionID"),
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// SaveItem handles POST /portfolio/collections/{collectionID}/items.
func (h *PortfolioHandler) SaveItem(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	var cmd commands.SavePortfolioItemCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	cmd.UserID = user.UserID
	cmd.CollectionID = chi.URLParam(r, "collectionID")

	item, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, item)
}

// GetItem handles GET /portfolio/collections/{collectionID}/items/{portfolioItemID}.
func (h *PortfolioHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.queryBus.Ask(r.Context(), queries.GetPortfolioItemQuery{
		CollectionID:    chi.URLParam(r, "collectionID"),
		PortfolioItemID: chi.URLParam(r, "portfolioItemID"),
		CallerID:        callerID(r),
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, item)
}

// ListItems handles GET /portfolio/collections/{collectionID}/items.
func (h *PortfolioHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	limit, nextToken := listParams(r)
	page, err := h.queryBus.Ask(r.Context(), queries.ListPortfolioItemsQuery{
		CollectionID: chi.URLParam(r, "collectionID"),
		CallerID:     callerID(r),
		Limit:        limit,
		NextToken:    nextToken,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, page)
}

// DeleteItem handles DELETE /portfolio/collections/{collectionID}/items/{portfolioItemID}.
func (h *PortfolioHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.RemovePortfolioItemCommand{
		UserID:          user.UserID,
		CollectionID:    chi.URLParam(r, "collectionID"),
		PortfolioItemID: chi.URLParam(r, "portfolioItemID"),
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
