package renderplan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/cypherast"
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/resolver"
)

func userNode(alias string) *logicalplan.GraphNode {
	return &logicalplan.GraphNode{
		Alias: alias,
		Input: &logicalplan.ViewScan{
			Alias:       alias,
			SourceTable: "users",
			IDColumns:   []string{"user_id"},
			PropertyMapping: map[string]catalog.PropertyValue{
				"name": catalog.NewColumn("username"),
			},
		},
	}
}

func followsCatalog() *catalog.Catalog {
	cat := catalog.NewCatalog("social")
	cat.Relationships["FOLLOWS"] = &catalog.RelationshipMapping{
		Type:          "FOLLOWS",
		Table:         "follows",
		FromIDColumns: []string{"follower_id"},
		ToIDColumns:   []string{"followee_id"},
		PropertyMappings: map[string]catalog.PropertyValue{
			"since": catalog.NewColumn("created_at"),
		},
	}
	return cat
}

func TestGenerate_TwoHopStandard(t *testing.T) {
	a, b, c := userNode("a"), userNode("b"), userNode("c")

	r1 := &logicalplan.GraphRel{
		Left: a, Right: b, Alias: "r1", Labels: []string{"FOLLOWS"},
		LeftConnection: "a", RightConnection: "b", Direction: cypherast.Outgoing,
	}
	r2 := &logicalplan.GraphRel{
		Left: r1, Right: c, Alias: "r2", Labels: []string{"FOLLOWS"},
		LeftConnection: "b", RightConnection: "c", Direction: cypherast.Outgoing,
	}

	gj := &logicalplan.GraphJoins{
		Input: r2,
		Joins: []logicalplan.ResolvedJoin{
			{EdgeAlias: "r1", Strategy: logicalplan.StrategyStandard, FromAlias: "a", ToAlias: "b", SourceTable: "follows"},
			{EdgeAlias: "r2", Strategy: logicalplan.StrategyStandard, FromAlias: "b", ToAlias: "c", SourceTable: "follows"},
		},
	}

	ctx := planctx.New(100)
	res := resolver.New()
	rp, err := Generate(gj, ctx, res, followsCatalog())
	require.NoError(t, err)

	require.Equal(t, "users", rp.Root.FromTable)
	require.Equal(t, "a", rp.Root.FromAlias)
	require.Len(t, rp.Root.Joins, 4)

	require.Equal(t, "follows", rp.Root.Joins[0].TableOrCTE)
	require.Equal(t, "r1", rp.Root.Joins[0].Alias)
	require.Equal(t, []ColumnEquality{{LeftAlias: "r1", LeftColumn: "follower_id", RightAlias: "a", RightColumn: "user_id"}}, rp.Root.Joins[0].OnKeys)

	require.Equal(t, "users", rp.Root.Joins[1].TableOrCTE)
	require.Equal(t, "b", rp.Root.Joins[1].Alias)
	require.Equal(t, []ColumnEquality{{LeftAlias: "b", LeftColumn: "user_id", RightAlias: "r1", RightColumn: "followee_id"}}, rp.Root.Joins[1].OnKeys)

	require.Equal(t, "follows", rp.Root.Joins[2].TableOrCTE)
	require.Equal(t, "r2", rp.Root.Joins[2].Alias)
	require.Equal(t, []ColumnEquality{{LeftAlias: "r2", LeftColumn: "follower_id", RightAlias: "b", RightColumn: "user_id"}}, rp.Root.Joins[2].OnKeys)

	require.Equal(t, "users", rp.Root.Joins[3].TableOrCTE)
	require.Equal(t, "c", rp.Root.Joins[3].Alias)
	require.Equal(t, []ColumnEquality{{LeftAlias: "c", LeftColumn: "user_id", RightAlias: "r2", RightColumn: "followee_id"}}, rp.Root.Joins[3].OnKeys)
}

func TestGenerate_FullyDenormalizedSingleHopEmitsNoJoins(t *testing.T) {
	cat := catalog.NewCatalog("flights")
	cat.Relationships["FLIGHT"] = &catalog.RelationshipMapping{
		Type: "FLIGHT", Table: "flights",
		FromIDColumns: []string{"origin_id"}, ToIDColumns: []string{"dest_id"},
		FromNodeProperties: map[string]catalog.PropertyValue{"code": catalog.NewColumn("Origin")},
		ToNodeProperties:   map[string]catalog.PropertyValue{"code": catalog.NewColumn("Dest")},
	}

	a := &logicalplan.GraphNode{Alias: "a", Input: &logicalplan.ViewScan{Alias: "a", SourceTable: "airports", IDColumns: []string{"airport_id"}}}
	b := &logicalplan.GraphNode{Alias: "b", Input: &logicalplan.ViewScan{Alias: "b", SourceTable: "airports", IDColumns: []string{"airport_id"}}}

	rel := &logicalplan.GraphRel{
		Left: a, Right: b, Alias: "f", Labels: []string{"FLIGHT"},
		LeftConnection: "a", RightConnection: "b", Direction: cypherast.Outgoing,
	}
	gj := &logicalplan.GraphJoins{
		Input: rel,
		Joins: []logicalplan.ResolvedJoin{
			{EdgeAlias: "f", Strategy: logicalplan.StrategyFullyDenormalized, FromAlias: "a", ToAlias: "b", SourceTable: "flights"},
		},
	}

	ctx := planctx.New(100)
	ctx.AddDenormAlias("a", "f", planctx.PositionFrom, "", false)
	ctx.AddDenormAlias("b", "f", planctx.PositionTo, "", false)

	res := resolver.New()
	rp, err := Generate(gj, ctx, res, cat)
	require.NoError(t, err)

	require.Equal(t, "flights", rp.Root.FromTable)
	require.Equal(t, "f", rp.Root.FromAlias)
	require.Empty(t, rp.Root.Joins)
	require.True(t, res.IsDenormalized("a"))
	require.True(t, res.IsDenormalized("b"))
}

func TestGenerate_PolymorphicEdgeJoinsAndRegistersEdgeAlias(t *testing.T) {
	cat := catalog.NewCatalog("social")
	cat.Relationships["FOLLOWS"] = &catalog.RelationshipMapping{
		Type: "FOLLOWS", Table: "interactions",
		FromIDColumns: []string{"from_id"}, ToIDColumns: []string{"to_id"},
		TypeColumn: "interaction_type", HasTypeColumn: true,
		PropertyMappings: map[string]catalog.PropertyValue{"date": catalog.NewColumn("interaction_date")},
	}

	n1, n2 := userNode("i1"), userNode("i2")
	rel := &logicalplan.GraphRel{
		Left: n1, Right: n2, Alias: "r", Labels: []string{"FOLLOWS"},
		LeftConnection: "i1", RightConnection: "i2", Direction: cypherast.Outgoing,
		HasWherePredicate: true,
		WherePredicate: logicalexpr.OperatorApplication{
			Operator: logicalexpr.Eq,
			Operands: []logicalexpr.LogicalExpr{
				logicalexpr.PropertyAccess{TableAlias: "r", Property: "interaction_type"},
				logicalexpr.Literal{Kind: logicalexpr.LitString, Str: "FOLLOWS"},
			},
		},
	}
	gj := &logicalplan.GraphJoins{
		Input: rel,
		Joins: []logicalplan.ResolvedJoin{
			{
				EdgeAlias: "r", Strategy: logicalplan.StrategyPolymorphic, FromAlias: "i1", ToAlias: "i2",
				SourceTable: "interactions",
				Polymorphic: &logicalplan.PolymorphicInfo{TypeColumn: "interaction_type", RelType: "FOLLOWS"},
			},
		},
	}

	ctx := planctx.New(100)
	res := resolver.New()
	rp, err := Generate(gj, ctx, res, cat)
	require.NoError(t, err)

	require.Len(t, rp.Root.Joins, 2)
	require.Equal(t, "interactions", rp.Root.Joins[0].TableOrCTE)
	require.Equal(t, "r", rp.Root.Joins[0].Alias)
	require.True(t, rp.Root.HasWhere)
	require.True(t, res.IsPolymorphic("r"))

	prop, err := res.ResolveProperty("r", "date", "", false)
	require.NoError(t, err)
	require.Equal(t, "r", prop.TableAlias)
	require.Equal(t, catalog.NewColumn("interaction_date"), prop.PropertyValue)
}

func TestGenerate_EitherUnionSymmetricDedupesInsteadOfUnioningBothDirections(t *testing.T) {
	cat := catalog.NewCatalog("social")
	cat.Relationships["FRIENDS_WITH"] = &catalog.RelationshipMapping{
		Type: "FRIENDS_WITH", Table: "friendships",
		FromIDColumns: []string{"user_a"}, ToIDColumns: []string{"user_b"},
		Symmetric: true,
	}

	n1, n2 := userNode("p"), userNode("q")
	rel := &logicalplan.GraphRel{
		Left: n1, Right: n2, Alias: "r", Labels: []string{"FRIENDS_WITH"},
		LeftConnection: "p", RightConnection: "q", Direction: cypherast.Either,
	}
	gj := &logicalplan.GraphJoins{
		Input: rel,
		Joins: []logicalplan.ResolvedJoin{
			{
				EdgeAlias: "r", Strategy: logicalplan.StrategyEitherUnion, FromAlias: "p", ToAlias: "q",
				HasUnionCTE: true, UnionCTEName: "edge_either_r",
			},
		},
	}

	ctx := planctx.New(100)
	res := resolver.New()
	rp, err := Generate(gj, ctx, res, cat)
	require.NoError(t, err)

	require.Len(t, rp.Ctes, 1)
	require.Equal(t, "edge_either_r", rp.Ctes[0].Name)
	body, ok := rp.Ctes[0].Content.(RawSQL)
	require.True(t, ok)
	require.NotContains(t, body.SQL, "UNION ALL", "a symmetric relationship dedupes instead of unioning both directions")
	require.Contains(t, body.SQL, "least(user_a, user_b)")
	require.Contains(t, body.SQL, "greatest(user_a, user_b)")
	require.Contains(t, body.SQL, "DISTINCT")
}

func TestGenerate_PageRankLowersToTableFunctionCall(t *testing.T) {
	pr := &logicalplan.PageRank{
		GraphName: "social", HasGraphName: true,
		Iterations: 20, DampingFactor: 0.85,
		NodeLabels:        []string{"User"},
		RelationshipTypes: []string{"FOLLOWS"},
	}

	ctx := planctx.New(100)
	res := resolver.New()
	rp, err := Generate(pr, ctx, res, catalog.NewCatalog("social"))
	require.NoError(t, err)

	require.Empty(t, rp.Root.Joins)
	require.Equal(t, "pagerank", rp.Root.FromAlias)
	require.Equal(t,
		"pagerank_graph(graph => 'social', iterations => 20, damping_factor => 0.85, node_labels => ['User'], relationship_types => ['FOLLOWS'])",
		rp.Root.FromTable)
}
