package dynamodb

import (
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

func TestBuildUpdateExpressionClassifiesSetAndRemove(t *testing.T) {
	patch := map[string]interface{}{
		"title":       "El Greco",
		"description": "",  // cleared
		"creator":     nil, // cleared
		"sequence":    3,
	}

	expr, err := buildUpdateExpression(patch, fixedTime)
	require.NoError(t, err)

	update := *expr.Update()
	assert.Contains(t, update, "SET")
	assert.Contains(t, update, "REMOVE")

	// Resolve aliased names back to the attributes they stand for.
	resolved := update
	for alias, name := range expr.Names() {
		resolved = strings.ReplaceAll(resolved, alias, name)
	}
	setClause, removeClause := splitClauses(t, resolved)

	assert.Contains(t, setClause, "title")
	assert.Contains(t, setClause, "sequence")
	assert.Contains(t, setClause, AttrDateModified)
	assert.Contains(t, removeClause, "description")
	assert.Contains(t, removeClause, "creator")
	assert.NotContains(t, removeClause, "title")
}

func TestBuildUpdateExpressionAlwaysSetsModificationTime(t *testing.T) {
	expr, err := buildUpdateExpression(map[string]interface{}{"title": "x"}, fixedTime)
	require.NoError(t, err)

	found := false
	for _, av := range expr.Values() {
		if s, ok := av.(*types.AttributeValueMemberS); ok && s.Value == "2024-05-01T12:00:00Z" {
			found = true
		}
	}
	assert.True(t, found, "expected RFC3339 modification timestamp among expression values")
}

func TestBuildUpdateExpressionSkipsProtectedAttributes(t *testing.T) {
	patch := map[string]interface{}{
		"PK":         "ITEM#EVIL",
		"SK":         "ITEM#EVIL",
		"GSI1PK":     "X",
		"recordType": "WEBSITE",
		"title":      "legit",
	}

	expr, err := buildUpdateExpression(patch, fixedTime)
	require.NoError(t, err)

	resolved := *expr.Update()
	for alias, name := range expr.Names() {
		resolved = strings.ReplaceAll(resolved, alias, name)
	}
	assert.NotContains(t, resolved, "GSI1PK")
	assert.NotContains(t, resolved, "recordType")
	assert.Contains(t, resolved, "title")
}

func TestBuildUpdateExpressionRejectsEmptyPatch(t *testing.T) {
	for _, patch := range []map[string]interface{}{
		{},
		{"PK": "ITEM#X", "recordType": "ITEM"}, // only protected attributes
	} {
		_, err := buildUpdateExpression(patch, fixedTime)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	}
}

func TestBuildUpdateExpressionConditionsOnExistence(t *testing.T) {
	expr, err := buildUpdateExpression(map[string]interface{}{"title": "x"}, fixedTime)
	require.NoError(t, err)
	require.NotNil(t, expr.Condition())
	assert.Contains(t, *expr.Condition(), "attribute_exists")
}

// splitClauses separates a resolved update expression into its SET and REMOVE
// parts regardless of clause order.
func splitClauses(t *testing.T, update string) (setClause, removeClause string) {
	t.Helper()
	setIdx := strings.Index(update, "SET")
	removeIdx := strings.Index(update, "REMOVE")
	if setIdx < 0 || removeIdx < 0 {
		t.Fatalf("expected both SET and REMOVE in %q", update)
	}
	if setIdx < removeIdx {
		return update[setIdx:removeIdx], update[removeIdx:]
	}
	return update[setIdx:], update[removeIdx:setIdx]
}
