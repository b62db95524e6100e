package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphersql/graphengine/cypherast"
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
)

func TestFindAnchorNode_MostFiltersWins(t *testing.T) {
	ctx := planctx.New(0)
	ctx.TableFor("u").FilterPredicates = []logicalexpr.LogicalExpr{
		logicalexpr.PropertyAccess{TableAlias: "u", Property: "age"},
	}
	ctx.TableFor("v").FilterPredicates = []logicalexpr.LogicalExpr{
		logicalexpr.PropertyAccess{TableAlias: "v", Property: "age"},
		logicalexpr.PropertyAccess{TableAlias: "v", Property: "name"},
	}

	chain := &flatChain{nodes: []chainNode{{alias: "u"}, {alias: "v"}}}
	idx := findAnchorNode(chain, ctx)
	require.Equal(t, 1, idx)
}

func TestFindAnchorNode_TieBrokenByOr(t *testing.T) {
	ctx := planctx.New(0)
	ctx.TableFor("u").FilterPredicates = []logicalexpr.LogicalExpr{
		logicalexpr.PropertyAccess{TableAlias: "u", Property: "age"},
	}
	ctx.TableFor("v").FilterPredicates = []logicalexpr.LogicalExpr{
		logicalexpr.OperatorApplication{Operator: logicalexpr.Or, Operands: []logicalexpr.LogicalExpr{
			logicalexpr.PropertyAccess{TableAlias: "v", Property: "age"},
			logicalexpr.PropertyAccess{TableAlias: "v", Property: "name"},
		}},
	}

	chain := &flatChain{nodes: []chainNode{{alias: "u"}, {alias: "v"}}}
	idx := findAnchorNode(chain, ctx)
	require.Equal(t, 1, idx)
}

func TestFlattenAndRebuildChain(t *testing.T) {
	u := &logicalplan.GraphNode{Alias: "u"}
	v := &logicalplan.GraphNode{Alias: "v"}
	w := &logicalplan.GraphNode{Alias: "w"}

	hop1 := &logicalplan.GraphRel{Left: u, Right: v, Alias: "r1", LeftConnection: "u", RightConnection: "v", Direction: cypherast.Outgoing}
	hop2 := &logicalplan.GraphRel{Left: hop1, Right: w, Alias: "r2", LeftConnection: "v", RightConnection: "w", Direction: cypherast.Outgoing}

	chain := flattenChain(hop2)
	require.NotNil(t, chain)
	require.Len(t, chain.nodes, 3)
	require.Equal(t, "u", chain.nodes[0].alias)
	require.Equal(t, "v", chain.nodes[1].alias)
	require.Equal(t, "w", chain.nodes[2].alias)

	rebuilt := rebuildFromAnchor(chain, 1) // v becomes the anchor/FROM
	rebuiltChain := flattenChain(rebuilt)
	require.Equal(t, "v", rebuiltChain.nodes[0].alias)

	// The edge reaching back to u should now be reversed.
	reversedRel := rebuiltChain.edges[0].rel
	require.Equal(t, cypherast.Incoming, reversedRel.Direction)
	require.Equal(t, "v", reversedRel.LeftConnection)
	require.Equal(t, "u", reversedRel.RightConnection)
}
