package dynamodb

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// Continuation tokens are the LastEvaluatedKey of the previous page, encoded
// as URL-safe base64 JSON so callers can treat them as opaque, in the style
// of AppSync's nextToken. All key attributes in this table are strings.

// encodeNextToken converts a LastEvaluatedKey into an opaque token.
// Returns the empty string when there are no further pages.
func encodeNextToken(lastKey map[string]types.AttributeValue) (string, error) {
	if len(lastKey) == 0 {
		return "", nil
	}
	flat := make(map[string]string, len(lastKey))
	for name, av := range lastKey {
		s, ok := av.(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("non-string key attribute %q in pagination key", name)
		}
		flat[name] = s.Value
	}
	raw, err := json.Marshal(flat)
	if err != nil {
		return "", fmt.Errorf("failed to marshal pagination key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// decodeNextToken converts an opaque token back into an ExclusiveStartKey.
// A blank token yields nil (first page). Malformed tokens are a validation
// error so callers surface them as bad input rather than a server fault.
func decodeNextToken(token string) (map[string]types.AttributeValue, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, pkgerrors.NewValidationError("malformed pagination token").WithCause(err)
	}
	var flat map[string]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, pkgerrors.NewValidationError("malformed pagination token").WithCause(err)
	}
	if len(flat) == 0 {
		return nil, pkgerrors.NewValidationError("empty pagination token")
	}
	key := make(map[string]types.AttributeValue, len(flat))
	for name, value := range flat {
		key[name] = &types.AttributeValueMemberS{Value: value}
	}
	return key, nil
}
