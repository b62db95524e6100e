package sqlgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/renderplan"
	"github.com/cyphersql/graphengine/resolver"
)

func TestEmitSQL_SelectWithWhereAndLimit(t *testing.T) {
	res := resolver.New()
	res.RegisterViewScan("a", &logicalplan.ViewScan{
		SourceTable: "users",
		IDColumns:   []string{"user_id"},
		PropertyMapping: map[string]catalog.PropertyValue{
			"name": catalog.NewColumn("username"),
		},
	})
	res.RegisterAlias("a", resolver.AliasMapping{SQLAlias: "a", Position: planctx.PositionStandalone})

	sel := &renderplan.Select{
		FromTable: "users",
		FromAlias: "a",
		Projections: []logicalplan.ProjectionItem{
			{Expression: logicalexpr.PropertyAccess{TableAlias: "a", Property: "name"}, ColAlias: "name", HasAlias: true},
		},
		HasWhere: true,
		WherePredicate: logicalexpr.OperatorApplication{
			Operator: logicalexpr.Eq,
			Operands: []logicalexpr.LogicalExpr{
				logicalexpr.PropertyAccess{TableAlias: "a", Property: "name"},
				logicalexpr.Literal{Kind: logicalexpr.LitString, Str: "Alice"},
			},
		},
		HasLimit: true,
		Limit:    logicalexpr.Literal{Kind: logicalexpr.LitInteger, Int: 10},
	}
	rp := &renderplan.RenderPlan{Root: sel}
	ctx := planctx.New(100)
	cat := catalog.NewCatalog("test")

	sql, err := EmitSQL(rp, res, cat, ctx)
	require.NoError(t, err)
	require.Contains(t, sql, "SELECT a.username AS name")
	require.Contains(t, sql, "FROM users AS a")
	require.Contains(t, sql, "WHERE a.username = 'Alice'")
	require.Contains(t, sql, "LIMIT 10")
	require.NotContains(t, sql, "WITH")
}

func TestEmitSQL_ParameterizedViewCallSyntax(t *testing.T) {
	cat := catalog.NewCatalog("test")
	cat.Nodes["Airport"] = &catalog.NodeMapping{
		Label: "Airport", Table: "airports_view",
		ViewParameters: []string{"region"},
	}
	ctx := planctx.New(100)
	ctx.ViewParameterValues["region"] = "EU"

	sel := &renderplan.Select{FromTable: "airports_view", FromAlias: "p"}
	rp := &renderplan.RenderPlan{Root: sel}

	sql, err := EmitSQL(rp, resolver.New(), cat, ctx)
	require.NoError(t, err)
	require.Contains(t, sql, "airports_view(region='EU') AS p")
}

func TestEmitSQL_RecursiveCTEPrefix(t *testing.T) {
	rp := &renderplan.RenderPlan{
		Ctes: []renderplan.Cte{
			{Name: "vlp_r_1", Content: renderplan.RawSQL{SQL: "SELECT a.id AS start_id, a.id AS end_id, 1 AS depth FROM edges a\nUNION ALL\nSELECT p.start_id, e.to_id, p.depth + 1 FROM vlp_r_1 p JOIN edges e ON p.end_id = e.from_id WHERE p.depth < 5"}},
		},
		Root: &renderplan.Select{FromTable: "vlp_r_1", FromAlias: "r"},
	}
	ctx := planctx.New(100)
	cat := catalog.NewCatalog("test")

	sql, err := EmitSQL(rp, resolver.New(), cat, ctx)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(sql, "WITH RECURSIVE vlp_r_1 AS ("))
}

func TestEmitSQL_PageRankTableFunctionCall(t *testing.T) {
	sel := &renderplan.Select{
		FromTable: "pagerank_graph(graph => 'social', iterations => 20, damping_factor => 0.85)",
		FromAlias: "pagerank",
	}
	rp := &renderplan.RenderPlan{Root: sel}
	ctx := planctx.New(100)
	cat := catalog.NewCatalog("social")

	sql, err := EmitSQL(rp, resolver.New(), cat, ctx)
	require.NoError(t, err)
	require.Contains(t, sql, "SELECT *")
	require.Contains(t, sql, "FROM pagerank_graph(graph => 'social', iterations => 20, damping_factor => 0.85) AS pagerank")
}

func TestCacheKey_StableAcrossEquivalentPlansDiffersAcrossSchema(t *testing.T) {
	build := func() *renderplan.RenderPlan {
		return &renderplan.RenderPlan{
			Root: &renderplan.Select{FromTable: "users", FromAlias: "a"},
		}
	}

	k1, err := CacheKey(build(), "social")
	require.NoError(t, err)
	k2, err := CacheKey(build(), "social")
	require.NoError(t, err)
	require.Equal(t, k1, k2)

	k3, err := CacheKey(build(), "other_schema")
	require.NoError(t, err)
	require.NotEqual(t, k1, k3)
}
