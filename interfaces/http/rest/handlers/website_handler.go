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

// WebsiteHandler serves website endpoints.
type WebsiteHandler struct {
	commandBus *cmdbus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewWebsiteHandler creates a new WebsiteHandler.
func NewWebsiteHandler(commandBus *cmdbus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *WebsiteHandler {
	return &WebsiteHandler{commandBus: commandBus, queryBus: queryBus, logger: logger}
}

// SaveWebsite handles POST /websites.
func (h *WebsiteHandler) SaveWebsite(w http.ResponseWriter, r *http.Request) {
	var cmd commands.SaveWebsiteCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	website, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, website)
}

// GetWebsite handles GET /websites/{websiteName}.
func (h *WebsiteHandler) GetWebsite(w http.ResponseWriter, r *http.Request) {
	website, err := h.queryBus.Ask(r.Context(), queries.GetWebsiteQuery{Name: chi.URLParam(r, "websiteName")})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, website)
}

// ListWebsites handles GET /websites.
func (h *WebsiteHandler) ListWebsites(w http.ResponseWriter, r *http.Request) {
	limit, nextToken := listParams(r)
	page, err := h.queryBus.Ask(r.Context(), queries.ListWebsitesQuery{Limit: limit, NextToken: nextToken})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, page)
}

// ListItems handles GET /websites/{websiteName}/items.
func (h *WebsiteHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	limit, nextToken := listParams(r)
	page, err := h.queryBus.Ask(r.Context(), queries.ListItemsByWebsiteQuery{
		WebsiteName: chi.URLParam(r, "websiteName"),
		Limit:       limit,
		NextToken:   nextToken,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, page)
}
