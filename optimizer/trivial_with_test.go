package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/transform"
)

func trivialWith(child logicalplan.LogicalPlan) *logicalplan.WithClause {
	return &logicalplan.WithClause{
		Input: child,
		Items: []logicalplan.ProjectionItem{
			{Expression: logicalexpr.TableAlias{Name: "n"}},
		},
	}
}

func TestTrivialWithElimination_ElidesPassThroughWith(t *testing.T) {
	child := &logicalplan.GraphNode{Alias: "n"}
	with := trivialWith(child)

	out, id, err := eliminateTrivialWith(with)
	require.NoError(t, err)
	require.Equal(t, transform.NewTree, id)
	require.Same(t, child, out)
}

func TestTrivialWithElimination_KeepsWithDistinct(t *testing.T) {
	child := &logicalplan.GraphNode{Alias: "n"}
	with := trivialWith(child)
	with.Distinct = true

	out, id, err := eliminateTrivialWith(with)
	require.NoError(t, err)
	require.Equal(t, transform.SameTree, id)
	require.Same(t, with, out)
}

func TestTrivialWithElimination_KeepsWithAggregate(t *testing.T) {
	child := &logicalplan.GraphNode{Alias: "n"}
	with := &logicalplan.WithClause{
		Input: child,
		Items: []logicalplan.ProjectionItem{
			{Expression: logicalexpr.AggregateFnCall{Name: "count", Args: []logicalexpr.LogicalExpr{logicalexpr.TableAlias{Name: "n"}}}},
		},
	}

	out, id, err := eliminateTrivialWith(with)
	require.NoError(t, err)
	require.Equal(t, transform.SameTree, id)
	require.Same(t, with, out)
}

// Idempotence: a plan that has already had trivial WITHs removed is
// unchanged by a second pass.
func TestTrivialWithElimination_Idempotent(t *testing.T) {
	child := &logicalplan.GraphNode{Alias: "n"}
	with := trivialWith(child)

	once, _, err := eliminateTrivialWith(with)
	require.NoError(t, err)

	twice, id, err := eliminateTrivialWith(once)
	require.NoError(t, err)
	require.Equal(t, transform.SameTree, id)
	require.Same(t, once, twice)
}
