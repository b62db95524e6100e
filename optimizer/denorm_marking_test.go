package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

func TestDenormalizedEdgeMarking_MarksReferencedAlias(t *testing.T) {
	ctx := planctx.New(0)
	ctx.AddDenormAlias("knows", "knows", planctx.PositionFrom, "", false)

	plan := &logicalplan.GraphNode{Alias: "knows", Input: &logicalplan.Empty{}}
	out, id, err := markDenormalized(plan, ctx)
	require.NoError(t, err)
	require.Equal(t, transform.NewTree, id)
	require.True(t, out.(*logicalplan.GraphNode).IsDenormalized)
}

func TestDenormalizedEdgeMarking_NoOpWhenUnmarked(t *testing.T) {
	ctx := planctx.New(0)
	plan := &logicalplan.GraphNode{Alias: "p", Input: &logicalplan.Empty{}}
	out, id, err := markDenormalized(plan, ctx)
	require.NoError(t, err)
	require.Equal(t, transform.SameTree, id)
	require.Same(t, plan, out)
}

func TestDenormalizedEdgeMarking_AlreadyMarkedStaysSame(t *testing.T) {
	ctx := planctx.New(0)
	ctx.AddDenormAlias("knows", "knows", planctx.PositionFrom, "", false)
	plan := &logicalplan.GraphNode{Alias: "knows", Input: &logicalplan.Empty{}, IsDenormalized: true}
	out, id, err := markDenormalized(plan, ctx)
	require.NoError(t, err)
	require.Equal(t, transform.SameTree, id)
	require.Same(t, plan, out)
}
