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

// FileGroupHandler serves file group endpoints.
type FileGroupHandler struct {
	commandBus *cmdbus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewFileGroupHandler creates a new FileGroupHandler.
func NewFileGroupHandler(commandBus *cmdbus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *FileGroupHandler {
	return &FileGroupHandler{commandBus: commandBus, queryBus: queryBus, logger: logger}
}

// SaveFileGroup handles POST /file-groups.
func (h *FileGroupHandler) SaveFileGroup(w http.ResponseWriter, r *http.Request) {
	var cmd commands.SaveFileGroupCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	group, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, group)
}

// GetFileGroup handles GET /file-groups/{groupID}.
func (h *FileGroupHandler) GetFileGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.queryBus.Ask(r.Context(), queries.GetFileGroupQuery{ID: chi.URLParam(r, "groupID")})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, group)
}

// ListFileGroups handles GET /file-groups.
func (h *FileGroupHandler) ListFileGroups(w http.ResponseWriter, r *http.Request) {
	limit, nextToken := listParams(r)
	page, err := h.queryBus.Ask(r.Context(), queries.ListFileGroupsQuery{Limit: limit, NextToken: nextToken})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, page)
}
