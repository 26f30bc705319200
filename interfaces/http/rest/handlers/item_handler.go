package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ndlib/mellon-blueprints/application/commands"
	cmdbus "github.com/ndlib/mellon-blueprints/application/commands/bus"
	"github.com/ndlib/mellon-blueprints/application/queries"
	querybus "github.com/ndlib/mellon-blueprints/application/queries/bus"
	"github.com/ndlib/mellon-blueprints/pkg/common"
)

// ItemHandler serves collection item endpoints.
type ItemHandler struct {
	commandBus *cmdbus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(commandBus *cmdbus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{commandBus: commandBus, queryBus: queryBus, logger: logger}
}

// SaveItem handles POST /items.
func (h *ItemHandler) SaveItem(w http.ResponseWriter, r *http.Request) {
	var cmd commands.SaveItemCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	item, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, item)
}

// UpdateItem handles PATCH /items/{itemID}. The body is the attribute patch;
// empty values remove the attribute.
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var patch map[string]interface{}
	if err := common.ParseJSONBody(r, &patch, maxBodyBytes); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	item, err := h.commandBus.Send(r.Context(), commands.UpdateItemCommand{
		ID:    chi.URLParam(r, "itemID"),
		Patch: patch,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, item)
}

// GetItem handles GET /items/{itemID}.
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.queryBus.Ask(r.Context(), queries.GetItemQuery{ID: chi.URLParam(r, "itemID")})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, item)
}

// ListChildren handles GET /items/{itemID}/children.
func (h *ItemHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	limit, nextToken := listParams(r)
	page, err := h.queryBus.Ask(r.Context(), queries.ListItemsByParentQuery{
		ParentID:  chi.URLParam(r, "itemID"),
		Limit:     limit,
		NextToken: nextToken,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, page)
}
