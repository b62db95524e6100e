package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

func TestProjectionPushdown_WrapsViewScanWithCollectedColumns(t *testing.T) {
	ctx := planctx.New(0)
	ctx.TableFor("p").ProjectionItems = []logicalexpr.LogicalExpr{
		logicalexpr.PropertyAccess{TableAlias: "p", Property: "name"},
		logicalexpr.PropertyAccess{TableAlias: "p", Property: "age"},
	}

	vs := &logicalplan.ViewScan{Alias: "p", SourceTable: "people"}
	plan := &logicalplan.GraphNode{Alias: "p", Input: vs}

	out, id, err := pushProjections(plan, ctx)
	require.NoError(t, err)
	require.Equal(t, transform.NewTree, id)

	node := out.(*logicalplan.GraphNode)
	proj, ok := node.Input.(*logicalplan.Projection)
	require.True(t, ok)
	require.Same(t, vs, proj.Input)
	require.Len(t, proj.Items, 2)
	require.Equal(t, "name", proj.Items[0].Expression.(logicalexpr.PropertyAccess).Property)
	require.Equal(t, "age", proj.Items[1].Expression.(logicalexpr.PropertyAccess).Property)
}

func TestProjectionPushdown_NoOpWithoutCollectedProjections(t *testing.T) {
	ctx := planctx.New(0)
	vs := &logicalplan.ViewScan{Alias: "p", SourceTable: "people"}
	plan := &logicalplan.GraphNode{Alias: "p", Input: vs}

	out, id, err := pushProjections(plan, ctx)
	require.NoError(t, err)
	require.Equal(t, transform.SameTree, id)
	require.Same(t, plan, out)
}
