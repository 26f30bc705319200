package dynamodb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

func TestNextTokenRoundTrip(t *testing.T) {
	lastKey := map[string]types.AttributeValue{
		AttrPK:     &types.AttributeValueMemberS{Value: "WEBSITE#MARBLE"},
		AttrSK:     &types.AttributeValueMemberS{Value: "WEBSITE#MARBLE"},
		AttrGSI2PK: &types.AttributeValueMemberS{Value: "TYPE#WEBSITE"},
		AttrGSI2SK: &types.AttributeValueMemberS{Value: "WEBSITE#MARBLE"},
	}

	token, err := encodeNextToken(lastKey)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	decoded, err := decodeNextToken(token)
	require.NoError(t, err)
	assert.Equal(t, lastKey, decoded)
}

func TestEncodeNextTokenEmptyKeyMeansNoMorePages(t *testing.T) {
	token, err := encodeNextToken(nil)
	require.NoError(t, err)
	assert.Empty(t, token)

	token, err = encodeNextToken(map[string]types.AttributeValue{})
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestDecodeNextTokenBlankIsFirstPage(t *testing.T) {
	key, err := decodeNextToken("")
	require.NoError(t, err)
	assert.Nil(t, key)
}

func TestDecodeNextTokenRejectsGarbage(t *testing.T) {
	for _, token := range []string{"not base64!!", "AAAA", "e30"} {
		_, err := decodeNextToken(token)
		require.Error(t, err, "token %q", token)
		assert.True(t, pkgerrors.IsValidation(err), "token %q should be a validation error", token)
	}
}
