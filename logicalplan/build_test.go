package logicalplan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphersql/graphengine/cypherast"
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/planctx"
)

func twoHopStatement() *cypherast.CypherStatement {
	// MATCH (u:User)-[:FOLLOWS]->(v:User)-[:FOLLOWS]->(w:User) RETURN u.name, w.name
	return &cypherast.CypherStatement{
		Query: cypherast.Query{
			Clauses: []cypherast.ReadingClause{
				{Match: &cypherast.MatchClause{
					Patterns: []cypherast.PatternPath{{
						Nodes: []cypherast.NodePattern{
							{Variable: "u", HasVar: true, Labels: []string{"User"}},
							{Variable: "v", HasVar: true, Labels: []string{"User"}},
							{Variable: "w", HasVar: true, Labels: []string{"User"}},
						},
						Rels: []cypherast.RelationshipPattern{
							{Types: []string{"FOLLOWS"}, Direction: cypherast.Outgoing},
							{Types: []string{"FOLLOWS"}, Direction: cypherast.Outgoing},
						},
					}},
				}},
			},
			Return: &cypherast.ReturnClause{
				Items: []cypherast.ProjectionItem{
					{Expression: cypherast.PropertyAccess{Variable: "u", Property: "name"}},
					{Expression: cypherast.PropertyAccess{Variable: "w", Property: "name"}},
				},
			},
		},
	}
}

func TestBuild_TwoHopStandard(t *testing.T) {
	ctx := planctx.New(100)
	plan, err := Build(twoHopStatement(), ctx)
	require.NoError(t, err)

	proj, ok := plan.(*Projection)
	require.True(t, ok)
	require.Len(t, proj.Items, 2)

	hop2, ok := proj.Input.(*GraphRel)
	require.True(t, ok)
	require.Equal(t, "v", hop2.LeftConnection)
	require.Equal(t, "w", hop2.RightConnection)
	require.Equal(t, []string{"FOLLOWS"}, hop2.Labels)

	hop1, ok := hop2.Left.(*GraphRel)
	require.True(t, ok)
	require.Equal(t, "u", hop1.LeftConnection)
	require.Equal(t, "v", hop1.RightConnection)

	leftNode, ok := hop1.Left.(*GraphNode)
	require.True(t, ok)
	require.Equal(t, "u", leftNode.Alias)
	scan, ok := leftNode.Input.(*Scan)
	require.True(t, ok)
	require.Equal(t, "User", scan.Label)

	require.Equal(t, []string{"User"}, ctx.Tables["u"].Labels)
}

func TestBuild_WhereFoldsIntoSingleEdge(t *testing.T) {
	// MATCH (a:Airport)-[f:FLIGHT]->(b:Airport) WHERE a.city = 'LAX' RETURN b.city
	stmt := &cypherast.CypherStatement{
		Query: cypherast.Query{
			Clauses: []cypherast.ReadingClause{
				{Match: &cypherast.MatchClause{
					Patterns: []cypherast.PatternPath{{
						Nodes: []cypherast.NodePattern{
							{Variable: "a", HasVar: true, Labels: []string{"Airport"}},
							{Variable: "b", HasVar: true, Labels: []string{"Airport"}},
						},
						Rels: []cypherast.RelationshipPattern{
							{Variable: "f", HasVar: true, Types: []string{"FLIGHT"}, Direction: cypherast.Outgoing},
						},
					}},
					Where: cypherast.BinaryOp{
						Op:   cypherast.OpEq,
						Left: cypherast.PropertyAccess{Variable: "a", Property: "city"},
						Right: cypherast.Literal{Kind: cypherast.LitString, Str: "LAX"},
					},
					HasWhere: true,
				}},
			},
			Return: &cypherast.ReturnClause{
				Items: []cypherast.ProjectionItem{
					{Expression: cypherast.PropertyAccess{Variable: "b", Property: "city"}},
				},
			},
		},
	}

	ctx := planctx.New(100)
	plan, err := Build(stmt, ctx)
	require.NoError(t, err)

	proj, ok := plan.(*Projection)
	require.True(t, ok)

	rel, ok := proj.Input.(*GraphRel)
	require.True(t, ok, "WHERE over a single edge's endpoints folds in, no top-level Filter")
	require.True(t, rel.HasWherePredicate)

	op, ok := rel.WherePredicate.(logicalexpr.OperatorApplication)
	require.True(t, ok)
	require.Equal(t, logicalexpr.Eq, op.Operator)

	require.Len(t, ctx.Tables["a"].FilterPredicates, 1, "WHERE a.city = 'LAX' should register against alias a")
	require.Len(t, ctx.Tables["b"].ProjectionItems, 1, "RETURN b.city should register against alias b")
	pa, ok := ctx.Tables["b"].ProjectionItems[0].(logicalexpr.PropertyAccess)
	require.True(t, ok)
	require.Equal(t, "city", pa.Property)
}

func TestBuild_IDFunctionCallPassesThroughAsScalarFnCall(t *testing.T) {
	// MATCH (n:User) WHERE id(n) = 42 RETURN n.name
	stmt := &cypherast.CypherStatement{
		Query: cypherast.Query{
			Clauses: []cypherast.ReadingClause{
				{Match: &cypherast.MatchClause{
					Patterns: []cypherast.PatternPath{{
						Nodes: []cypherast.NodePattern{{Variable: "n", HasVar: true, Labels: []string{"User"}}},
					}},
					Where: cypherast.BinaryOp{
						Op:   cypherast.OpEq,
						Left: cypherast.FunctionCall{Name: "id", Args: []cypherast.Expression{cypherast.Variable{Name: "n"}}},
						Right: cypherast.Literal{Kind: cypherast.LitInteger, Int: 42},
					},
					HasWhere: true,
				}},
			},
			Return: &cypherast.ReturnClause{
				Items: []cypherast.ProjectionItem{
					{Expression: cypherast.PropertyAccess{Variable: "n", Property: "name"}},
				},
			},
		},
	}

	ctx := planctx.New(100)
	plan, err := Build(stmt, ctx)
	require.NoError(t, err)

	proj, ok := plan.(*Projection)
	require.True(t, ok)
	filter, ok := proj.Input.(*Filter)
	require.True(t, ok, "a lone node pattern has no edge to fold the predicate into")

	op, ok := filter.Predicate.(logicalexpr.OperatorApplication)
	require.True(t, ok)
	call, ok := op.Operands[0].(logicalexpr.ScalarFnCall)
	require.True(t, ok)
	require.Equal(t, "id", call.Name)
	require.Equal(t, logicalexpr.TableAlias{Name: "n"}, call.Args[0])
}

func TestBuild_MultipleMatchClausesRejected(t *testing.T) {
	stmt := &cypherast.CypherStatement{
		Query: cypherast.Query{
			Clauses: []cypherast.ReadingClause{
				{Match: &cypherast.MatchClause{Patterns: []cypherast.PatternPath{{
					Nodes: []cypherast.NodePattern{{Variable: "a", HasVar: true}},
				}}}},
				{Match: &cypherast.MatchClause{Patterns: []cypherast.PatternPath{{
					Nodes: []cypherast.NodePattern{{Variable: "b", HasVar: true}},
				}}}},
			},
			Return: &cypherast.ReturnClause{
				Items: []cypherast.ProjectionItem{{Expression: cypherast.Variable{Name: "a"}}},
			},
		},
	}
	_, err := Build(stmt, planctx.New(100))
	require.Error(t, err)
}
