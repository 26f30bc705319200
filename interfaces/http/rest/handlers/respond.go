package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ndlib/mellon-blueprints/pkg/common"
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

const maxBodyBytes = 1 << 20

// respondAppError maps an application error onto an HTTP response.
// AsAppError classifies anything unrecognized as internal; those get logged
// with the cause before the client sees only the generic message.
func respondAppError(w http.ResponseWriter, logger *zap.Logger, err error) {
	appErr := pkgerrors.AsAppError(err)
	if appErr.Type == pkgerrors.ErrorTypeInternal {
		logger.Error("request failed", zap.Error(err))
	}
	common.RespondError(w, appErr.HTTPStatus, string(appErr.Type), appErr.Message)
}

// listParams reads the paging query parameters shared by list endpoints.
func listParams(r *http.Request) (int32, string) {
	var limit int32
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 32); err == nil && n > 0 {
			limit = int32(n)
		}
	}
	return limit, r.URL.Query().Get("nextToken")
}
