package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphersql/graphengine/logicalexpr"
)

func TestFlattenAnd_CollapsesNesting(t *testing.T) {
	a := logicalexpr.PropertyAccess{TableAlias: "n", Property: "a"}
	b := logicalexpr.PropertyAccess{TableAlias: "n", Property: "b"}
	c := logicalexpr.PropertyAccess{TableAlias: "n", Property: "c"}

	nested := logicalexpr.OperatorApplication{
		Operator: logicalexpr.And,
		Operands: []logicalexpr.LogicalExpr{
			logicalexpr.OperatorApplication{Operator: logicalexpr.And, Operands: []logicalexpr.LogicalExpr{a, b}},
			c,
		},
	}

	flat := flattenAnd(nested)
	op, ok := flat.(logicalexpr.OperatorApplication)
	require.True(t, ok)
	require.Equal(t, logicalexpr.And, op.Operator)
	require.Equal(t, []logicalexpr.LogicalExpr{a, b, c}, op.Operands)
}

func TestFlattenAnd_NoOpWhenAlreadyFlat(t *testing.T) {
	a := logicalexpr.PropertyAccess{TableAlias: "n", Property: "a"}
	b := logicalexpr.PropertyAccess{TableAlias: "n", Property: "b"}
	flat := logicalexpr.OperatorApplication{Operator: logicalexpr.And, Operands: []logicalexpr.LogicalExpr{a, b}}

	out := flattenAnd(flat)
	require.Equal(t, flat, out)
}

func TestFlattenAnd_NonAndPassesThroughUnchanged(t *testing.T) {
	expr := logicalexpr.PropertyAccess{TableAlias: "n", Property: "a"}
	require.Equal(t, expr, flattenAnd(expr))
}
