package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/transform"
)

func TestViewFilterCleanup_ClearsViewFilter(t *testing.T) {
	vs := &logicalplan.ViewScan{
		Alias:         "p",
		SourceTable:   "people",
		HasViewFilter: true,
		ViewFilter:    logicalexpr.PropertyAccess{TableAlias: "p", Property: "active"},
	}
	node := &logicalplan.GraphNode{Alias: "p", Input: vs}

	out, id, err := clearViewFilters(node)
	require.NoError(t, err)
	require.Equal(t, transform.NewTree, id)

	cleaned := out.(*logicalplan.GraphNode).Input.(*logicalplan.ViewScan)
	require.False(t, cleaned.HasViewFilter)
	require.Nil(t, cleaned.ViewFilter)
}

func TestViewFilterCleanup_NoOpWithoutViewFilter(t *testing.T) {
	vs := &logicalplan.ViewScan{Alias: "p", SourceTable: "people"}
	node := &logicalplan.GraphNode{Alias: "p", Input: vs}

	out, id, err := clearViewFilters(node)
	require.NoError(t, err)
	require.Equal(t, transform.SameTree, id)
	require.Same(t, node, out)
}
