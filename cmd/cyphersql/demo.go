package main

import (
	"sort"

	"github.com/cyphersql/graphengine/cypherast"
)

// demoScenarios stands in for the out-of-scope Cypher parser (spec.md §1):
// each entry is a pre-built cypherast.CypherStatement matching one of
// spec.md §8's testable scenarios, so "plan"/"sql" can exercise the engine
// end to end without needing to parse Cypher text.
var demoScenarios = map[string]*cypherast.CypherStatement{
	"two-hop-standard": twoHopStandardDemo(),
	"polymorphic-edge": polymorphicEdgeDemo(),
	"denormalized-hop": denormalizedHopDemo(),
	"id-roundtrip":     idRoundtripDemo(),
}

func demoNames() []string {
	names := make([]string, 0, len(demoScenarios))
	for name := range demoScenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// twoHopStandardDemo: MATCH (u:User)-[:FOLLOWS]->(v:User)-[:FOLLOWS]->(w:User) RETURN u.name, w.name
func twoHopStandardDemo() *cypherast.CypherStatement {
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

// polymorphicEdgeDemo: MATCH (u:User)-[:LIKES]->(p:Post) RETURN p.title
func polymorphicEdgeDemo() *cypherast.CypherStatement {
	return &cypherast.CypherStatement{
		Query: cypherast.Query{
			Clauses: []cypherast.ReadingClause{
				{Match: &cypherast.MatchClause{
					Patterns: []cypherast.PatternPath{{
						Nodes: []cypherast.NodePattern{
							{Variable: "u", HasVar: true, Labels: []string{"User"}},
							{Variable: "p", HasVar: true, Labels: []string{"Post"}},
						},
						Rels: []cypherast.RelationshipPattern{
							{Types: []string{"LIKES"}, Direction: cypherast.Outgoing},
						},
					}},
				}},
			},
			Return: &cypherast.ReturnClause{
				Items: []cypherast.ProjectionItem{
					{Expression: cypherast.PropertyAccess{Variable: "p", Property: "title"}},
				},
			},
		},
	}
}

// denormalizedHopDemo: MATCH (a:Airport)-[f:FLIGHT]->(b:Airport) WHERE a.city = 'LAX' RETURN b.city
func denormalizedHopDemo() *cypherast.CypherStatement {
	return &cypherast.CypherStatement{
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
						Op:    cypherast.OpEq,
						Left:  cypherast.PropertyAccess{Variable: "a", Property: "city"},
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
}

// idRoundtripDemo: MATCH (n:User) WHERE id(n) = 42 RETURN n.name
func idRoundtripDemo() *cypherast.CypherStatement {
	return &cypherast.CypherStatement{
		Query: cypherast.Query{
			Clauses: []cypherast.ReadingClause{
				{Match: &cypherast.MatchClause{
					Patterns: []cypherast.PatternPath{{
						Nodes: []cypherast.NodePattern{{Variable: "n", HasVar: true, Labels: []string{"User"}}},
					}},
					Where: cypherast.BinaryOp{
						Op:    cypherast.OpEq,
						Left:  cypherast.FunctionCall{Name: "id", Args: []cypherast.Expression{cypherast.Variable{Name: "n"}}},
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
}
