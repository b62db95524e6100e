package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/transform"
)

func TestPolymorphicFilterInjection(t *testing.T) {
	u := &logicalplan.GraphNode{Alias: "u"}
	p := &logicalplan.GraphNode{Alias: "p"}
	rel := &logicalplan.GraphRel{Left: u, Right: p, Alias: "r", LeftConnection: "u", RightConnection: "p"}

	joins := &logicalplan.GraphJoins{
		Input: rel,
		Joins: []logicalplan.ResolvedJoin{
			{
				EdgeAlias: "r",
				Strategy:  logicalplan.StrategyPolymorphic,
				Polymorphic: &logicalplan.PolymorphicInfo{
					TypeColumn:      "interaction_type",
					RelType:         "LIKES",
					FromLabelColumn: "from_type",
					FromLabel:       "User",
					HasFromLabel:    true,
					ToLabelColumn:   "to_type",
					ToLabel:         "Post",
					HasToLabel:      true,
				},
			},
		},
	}

	pass := &PolymorphicFilterInjection{}
	out, id, err := pass.Analyze(joins, nil, nil)
	require.NoError(t, err)
	require.Equal(t, transform.NewTree, id)

	rebuilt := out.(*logicalplan.GraphJoins)
	relRebuilt := rebuilt.Input.(*logicalplan.GraphRel)
	require.True(t, relRebuilt.HasWherePredicate)

	conj, ok := relRebuilt.WherePredicate.(logicalexpr.OperatorApplication)
	require.True(t, ok)
	require.Equal(t, logicalexpr.And, conj.Operator)
	require.Len(t, conj.Operands, 3)
}
