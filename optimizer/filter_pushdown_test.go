package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphersql/graphengine/cypherast"
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/transform"
)

func TestFilterPushdown_SingleAliasFoldsIntoEdge(t *testing.T) {
	rel := &logicalplan.GraphRel{
		Left:           &logicalplan.GraphNode{Alias: "u"},
		Right:          &logicalplan.GraphNode{Alias: "v"},
		Alias:          "r",
		LeftConnection: "u",
		RightConnection: "v",
		Direction:      cypherast.Outgoing,
	}
	pred := logicalexpr.OperatorApplication{
		Operator: logicalexpr.Eq,
		Operands: []logicalexpr.LogicalExpr{
			logicalexpr.PropertyAccess{TableAlias: "v", Property: "age"},
			logicalexpr.Literal{Kind: logicalexpr.LitInteger, Int: 30},
		},
	}
	filter := &logicalplan.Filter{Input: rel, Predicate: pred}

	out, id, err := pushFilters(filter)
	require.NoError(t, err)
	require.Equal(t, transform.NewTree, id)

	folded, ok := out.(*logicalplan.GraphRel)
	require.True(t, ok)
	require.True(t, folded.HasWherePredicate)
	require.Equal(t, pred, folded.WherePredicate)
}

func TestFilterPushdown_MultiAliasPredicateStaysAsFilter(t *testing.T) {
	rel := &logicalplan.GraphRel{
		Left:           &logicalplan.GraphNode{Alias: "u"},
		Right:          &logicalplan.GraphNode{Alias: "v"},
		Alias:          "r",
		LeftConnection: "u",
		RightConnection: "v",
		Direction:      cypherast.Outgoing,
	}
	pred := logicalexpr.OperatorApplication{
		Operator: logicalexpr.Eq,
		Operands: []logicalexpr.LogicalExpr{
			logicalexpr.PropertyAccess{TableAlias: "u", Property: "id"},
			logicalexpr.PropertyAccess{TableAlias: "v", Property: "id"},
		},
	}
	filter := &logicalplan.Filter{Input: rel, Predicate: pred}

	out, id, err := pushFilters(filter)
	require.NoError(t, err)
	require.Equal(t, transform.SameTree, id)
	require.Same(t, filter, out)
}
