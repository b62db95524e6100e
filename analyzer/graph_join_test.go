package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/cypherast"
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
)

func denormalizedCatalog() *catalog.Catalog {
	cat := catalog.NewCatalog("flights")
	cat.Nodes["Airport"] = &catalog.NodeMapping{Label: "Airport", Table: "airports", IDColumns: []string{"code"}}
	cat.Relationships["FLIGHT"] = &catalog.RelationshipMapping{
		Type: "FLIGHT", Table: "flights",
		FromLabel: "Airport", FromIDColumns: []string{"origin_code"},
		ToLabel: "Airport", ToIDColumns: []string{"dest_code"},
		FromNodeProperties: map[string]catalog.PropertyValue{"city": catalog.NewColumn("OriginCityName")},
		ToNodeProperties:   map[string]catalog.PropertyValue{"city": catalog.NewColumn("DestCityName")},
	}
	return cat
}

func polymorphicCatalog() *catalog.Catalog {
	cat := catalog.NewCatalog("social")
	cat.Nodes["User"] = &catalog.NodeMapping{Label: "User", Table: "users", IDColumns: []string{"id"}}
	cat.Nodes["Post"] = &catalog.NodeMapping{Label: "Post", Table: "posts", IDColumns: []string{"id"}}
	cat.Relationships["LIKES"] = &catalog.RelationshipMapping{
		Type: "LIKES", Table: "interactions",
		FromLabel: "User", FromIDColumns: []string{"from_id"},
		ToLabel: "Post", ToIDColumns: []string{"to_id"},
		TypeColumn: "interaction_type", HasTypeColumn: true,
		FromLabelColumn: "from_type", HasFromLabelCol: true,
		ToLabelColumn: "to_type", HasToLabelCol: true,
	}
	return cat
}

func standardCatalog() *catalog.Catalog {
	cat := catalog.NewCatalog("social")
	cat.Nodes["User"] = &catalog.NodeMapping{Label: "User", Table: "users", IDColumns: []string{"id"}}
	cat.Relationships["FOLLOWS"] = &catalog.RelationshipMapping{
		Type: "FOLLOWS", Table: "user_follows",
		FromLabel: "User", FromIDColumns: []string{"follower_id"},
		ToLabel: "User", ToIDColumns: []string{"followee_id"},
	}
	return cat
}

func TestSelectStrategy_FullyDenormalized(t *testing.T) {
	cat := denormalizedCatalog()
	ctx := planctx.New(0)
	meta := &PatternGraphMetadata{Nodes: map[string]*PatternNodeInfo{
		"a": {Label: "Airport", HasLabel: true},
		"b": {Label: "Airport", HasLabel: true},
	}}
	edge := &PatternEdgeInfo{Alias: "f", RelTypes: []string{"FLIGHT"}, FromNode: "a", ToNode: "b", Direction: cypherast.Outgoing}

	join, err := selectStrategy(edge, meta, cat, ctx)
	require.NoError(t, err)
	require.Equal(t, logicalplan.StrategyFullyDenormalized, join.Strategy)
	require.True(t, ctx.IsDenormalized("a"))
	require.True(t, ctx.IsDenormalized("b"))
}

func TestSelectStrategy_Polymorphic(t *testing.T) {
	cat := polymorphicCatalog()
	ctx := planctx.New(0)
	meta := &PatternGraphMetadata{Nodes: map[string]*PatternNodeInfo{
		"u": {Label: "User", HasLabel: true},
		"p": {Label: "Post", HasLabel: true},
	}}
	edge := &PatternEdgeInfo{Alias: "r", RelTypes: []string{"LIKES"}, FromNode: "u", ToNode: "p", Direction: cypherast.Outgoing}

	join, err := selectStrategy(edge, meta, cat, ctx)
	require.NoError(t, err)
	require.Equal(t, logicalplan.StrategyPolymorphic, join.Strategy)
	require.Equal(t, "LIKES", join.Polymorphic.RelType)
	require.Equal(t, "User", join.Polymorphic.FromLabel)
	require.Equal(t, "Post", join.Polymorphic.ToLabel)
}

func TestSelectStrategy_Standard(t *testing.T) {
	cat := standardCatalog()
	ctx := planctx.New(0)
	meta := &PatternGraphMetadata{Nodes: map[string]*PatternNodeInfo{
		"u": {Label: "User", HasLabel: true},
		"v": {Label: "User", HasLabel: true},
	}}
	edge := &PatternEdgeInfo{Alias: "r", RelTypes: []string{"FOLLOWS"}, FromNode: "u", ToNode: "v", Direction: cypherast.Outgoing}

	join, err := selectStrategy(edge, meta, cat, ctx)
	require.NoError(t, err)
	require.Equal(t, logicalplan.StrategyStandard, join.Strategy)
	require.Equal(t, "user_follows", join.SourceTable)
}

func TestSelectStrategy_MultipleTypesUnion(t *testing.T) {
	cat := standardCatalog()
	ctx := planctx.New(0)
	meta := &PatternGraphMetadata{Nodes: map[string]*PatternNodeInfo{}}
	edge := &PatternEdgeInfo{Alias: "r", RelTypes: []string{"FOLLOWS", "FRIENDS_WITH"}, FromNode: "u1", ToNode: "u2", Direction: cypherast.Outgoing}

	join, err := selectStrategy(edge, meta, cat, ctx)
	require.NoError(t, err)
	require.Equal(t, logicalplan.StrategyMultiTypeUnion, join.Strategy)
	require.True(t, join.HasUnionCTE)
}

func TestSelectStrategy_EitherDirectionUnion(t *testing.T) {
	cat := standardCatalog()
	ctx := planctx.New(0)
	meta := &PatternGraphMetadata{Nodes: map[string]*PatternNodeInfo{}}
	edge := &PatternEdgeInfo{Alias: "r", RelTypes: []string{"FOLLOWS"}, FromNode: "u1", ToNode: "u2", Direction: cypherast.Either}

	join, err := selectStrategy(edge, meta, cat, ctx)
	require.NoError(t, err)
	require.Equal(t, logicalplan.StrategyEitherUnion, join.Strategy)
	require.True(t, join.HasUnionCTE)
}

// TestBuildPatternMetadata_EnclosingProjectionMarksReferenced exercises
// collectRefExprsAbove against a ctx populated the way logicalplan.Build
// populates it (recordProjectionItem from a RETURN item), confirming an
// alias only mentioned by the enclosing RETURN — not within the pattern
// itself — still comes out IsReferenced (spec.md §4.3).
func TestBuildPatternMetadata_EnclosingProjectionMarksReferenced(t *testing.T) {
	ctx := planctx.New(0)
	ctx.TableFor("u").ProjectionItems = []logicalexpr.LogicalExpr{
		logicalexpr.PropertyAccess{TableAlias: "u", Property: "name"},
	}

	node := &logicalplan.GraphNode{Alias: "u", Input: &logicalplan.Scan{Label: "User", Alias: "u"}}
	meta := buildPatternMetadata(node, collectRefExprsAbove(ctx))

	require.True(t, meta.Nodes["u"].IsReferenced)
}
