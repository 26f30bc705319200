package dynamodb

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"

	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// protectedAttributes may never be touched by a partial update: the table
// keys, the index keys, the record discriminator and the creation timestamp.
var protectedAttributes = map[string]struct{}{
	AttrPK:         {},
	AttrSK:         {},
	AttrGSI1PK:     {},
	AttrGSI1SK:     {},
	AttrGSI2PK:     {},
	AttrGSI2SK:     {},
	AttrRecordType: {},
	AttrDateAdded:  {},
}

// buildUpdateExpression classifies a patch into SET and REMOVE clauses:
// a nil value or empty string removes the attribute, anything else sets it.
// Protected attributes are skipped. The modification timestamp is always set.
// A patch that touches nothing is rejected.
func buildUpdateExpression(patch map[string]interface{}, now time.Time) (expression.Expression, error) {
	update := expression.UpdateBuilder{}
	touched := 0

	for name, value := range patch {
		if _, protected := protectedAttributes[name]; protected {
			continue
		}
		if name == AttrDateModified {
			continue
		}
		if isRemoval(value) {
			update = update.Remove(expression.Name(name))
			touched++
			continue
		}
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return expression.Expression{}, pkgerrors.NewValidationError("unmarshalable value for attribute " + name).WithCause(err)
		}
		update = update.Set(expression.Name(name), expression.Value(av))
		touched++
	}

	if touched == 0 {
		return expression.Expression{}, pkgerrors.NewValidationError("update patch contains no updatable attributes")
	}

	update = update.Set(expression.Name(AttrDateModified), expression.Value(now.UTC().Format(time.RFC3339)))

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name(AttrPK))).
		Build()
	if err != nil {
		return expression.Expression{}, pkgerrors.NewInternalError("failed to build update expression", err)
	}
	return expr, nil
}

// isRemoval reports whether a patch value clears its attribute.
func isRemoval(value interface{}) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}
