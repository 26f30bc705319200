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

// SupplementalDataHandler serves supplemental data endpoints nested under
// items.
type SupplementalDataHandler struct {
	commandBus *cmdbus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewSupplementalDataHandler creates a new SupplementalDataHandler.
func NewSupplementalDataHandler(commandBus *cmdbus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *SupplementalDataHandler {
	return &SupplementalDataHandler{commandBus: commandBus, queryBus: queryBus, logger: logger}
}

// Save handles POST /items/{itemID}/supplemental.
func (h *SupplementalDataHandler) Save(w http.ResponseWriter, r *http.Request) {
	var cmd commands.SaveSupplementalDataCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	cmd.ItemID = chi.URLParam(r, "itemID")

	data, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, data)
}

// Get handles GET /items/{itemID}/supplemental/{dataID}.
func (h *SupplementalDataHandler) Get(w http.ResponseWriter, r *http.Request) {
	data, err := h.queryBus.Ask(r.Context(), queries.GetSupplementalDataQuery{
		ItemID: chi.URLParam(r, "itemID"),
		ID:     chi.URLParam(r, "dataID"),
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, data)
}

// ListForItem handles GET /items/{itemID}/supplemental.
func (h *SupplementalDataHandler) ListForItem(w http.ResponseWriter, r *http.Request) {
	limit, nextToken := listParams(r)
	page, err := h.queryBus.Ask(r.Context(), queries.ListSupplementalDataForItemQuery{
		ItemID:    chi.URLParam(r, "itemID"),
		Limit:     limit,
		NextToken: nextToken,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, page)
}

// Delete handles DELETE /items/{itemID}/supplemental/{dataID}.
func (h *SupplementalDataHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.commandBus.Send(r.Context(), commands.RemoveSupplementalDataCommand{
		ItemID: chi.URLParam(r, "itemID"),
		ID:     chi.URLParam(r, "dataID"),
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
