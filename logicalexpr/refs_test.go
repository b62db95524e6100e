package logicalexpr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReferencesAlias_AggregateArg(t *testing.T) {
	expr := AggregateFnCall{Name: "count", Args: []LogicalExpr{TableAlias{Name: "reply"}}}
	require.True(t, ReferencesAlias(expr, "reply"))
	require.False(t, ReferencesAlias(expr, "message"))
}

func TestReferencesAlias_PropertyAccess(t *testing.T) {
	expr := PropertyAccess{TableAlias: "reply", Property: "creationDate"}
	require.True(t, ReferencesAlias(expr, "reply"))
	require.False(t, ReferencesAlias(expr, "message"))
}

func TestHasOrOperator(t *testing.T) {
	or := OperatorApplication{Operator: Or, Operands: []LogicalExpr{
		PropertyAccess{TableAlias: "u", Property: "age"},
		PropertyAccess{TableAlias: "u", Property: "active"},
	}}
	require.True(t, HasOrOperator(or))

	and := OperatorApplication{Operator: And, Operands: []LogicalExpr{
		PropertyAccess{TableAlias: "u", Property: "age"},
	}}
	require.False(t, HasOrOperator(and))

	nested := OperatorApplication{Operator: And, Operands: []LogicalExpr{or}}
	require.True(t, HasOrOperator(nested))
}

func TestCollectAliases(t *testing.T) {
	expr := OperatorApplication{Operator: And, Operands: []LogicalExpr{
		PropertyAccess{TableAlias: "a", Property: "x"},
		PropertyAccess{TableAlias: "b", Property: "y"},
	}}
	aliases := CollectAliases(expr)
	require.Len(t, aliases, 2)
	require.True(t, aliases["a"])
	require.True(t, aliases["b"])
}

func TestAndAll(t *testing.T) {
	require.Equal(t, Literal{Kind: LitBool, Bool: true}, AndAll())
	single := PropertyAccess{TableAlias: "a", Property: "x"}
	require.Equal(t, single, AndAll(single))
	multi := AndAll(single, single)
	op, ok := multi.(OperatorApplication)
	require.True(t, ok)
	require.Equal(t, And, op.Operator)
	require.Len(t, op.Operands, 2)
}
