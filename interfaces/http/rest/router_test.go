package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ndlib/mellon-blueprints/application/commands"
	cmdbus "github.com/ndlib/mellon-blueprints/application/commands/bus"
	"github.com/ndlib/mellon-blueprints/application/queries"
	querybus "github.com/ndlib/mellon-blueprints/application/queries/bus"
	"github.com/ndlib/mellon-blueprints/domain/core/entities"
	"github.com/ndlib/mellon-blueprints/pkg/auth"
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) (http.Handler, *cmdbus.CommandBus, *querybus.QueryBus) {
	t.Helper()

	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: testSecret,
		Issuer:    "mellon-user-content",
		Audience:  "mellon-api",
	})
	require.NoError(t, err)

	cb := cmdbus.NewCommandBus()
	qb := querybus.NewQueryBus()
	router := NewRouter(cb, qb, validator, zap.NewNop())
	return router.Setup(), cb, qb
}

func signToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"iss": "mellon-user-content",
		"aud": "mellon-api",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestHealthEndpoint(t *testing.T) {
	handler, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestGetItemRoute(t *testing.T) {
	handler, _, qb := newTestRouter(t)
	err := qb.Register(queries.GetItemQuery{}, querybus.QueryHandlerFunc(
		func(_ context.Context, q querybus.Query) (interface{}, error) {
			assert.Equal(t, "BPP1001", q.(queries.GetItemQuery).ID)
			return &entities.Item{ID: "BPP1001", Title: "Commencement program"}, nil
		}))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/items/BPP1001", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool          `json:"success"`
		Data    entities.Item `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "BPP1001", body.Data.ID)
}

func TestSaveItemRequiresAuth(t *testing.T) {
	handler, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(`{"id":"X","title":"T","level":"collection"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSaveItemWithToken(t *testing.T) {
	handler, cb, _ := newTestRouter(t)
	err := cb.Register(commands.SaveItemCommand{}, cmdbus.CommandHandlerFunc(
		func(_ context.Context, cmd cmdbus.Command) (interface{}, error) {
			c := cmd.(commands.SaveItemCommand)
			return &entities.Item{ID: c.ID, Title: c.Title, Level: entities.ItemLevel(c.Level)}, nil
		}))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(`{"id":"BPP1001","title":"Commencement program","level":"collection"}`))
	req.Header.Set("Authorization", "Bearer "+signToken(t, "curator1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BPP1001")
}

func TestDeletePortfolioCollectionUsesCaller(t *testing.T) {
	handler, cb, _ := newTestRouter(t)
	var gotUser string
	err := cb.Register(commands.RemovePortfolioCollectionCommand{}, cmdbus.CommandHandlerFunc(
		func(_ context.Context, cmd cmdbus.Command) (interface{}, error) {
			c := cmd.(commands.RemovePortfolioCollectionCommand)
			gotUser = c.UserID
			return map[string]bool{"removed": true}, nil
		}))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/portfolio/collections/c1", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "jdoe1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jdoe1", gotUser)
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	handler, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(`{"id":`))
	req.Header.Set("Authorization", "Bearer "+signToken(t, "curator1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnclassifiedErrorIsInternal(t *testing.T) {
	handler, _, qb := newTestRouter(t)
	err := qb.Register(queries.GetWebsiteQuery{}, querybus.QueryHandlerFunc(
		func(context.Context, querybus.Query) (interface{}, error) {
			return nil, errors.New("connection reset")
		}))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/websites/marble", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), string(pkgerrors.ErrorTypeInternal))
	assert.NotContains(t, rec.Body.String(), "connection reset",
		"raw error detail must not leak to the client")
}

func TestNotFoundPropagates(t *testing.T) {
	handler, _, qb := newTestRouter(t)
	err := qb.Register(queries.GetWebsiteQuery{}, querybus.QueryHandlerFunc(
		func(context.Context, querybus.Query) (interface{}, error) {
			return nil, pkgerrors.NewNotFoundError("website")
		}))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/websites/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
