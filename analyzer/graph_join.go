package analyzer

import (
	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/cypherast"
	"github.com/cyphersql/graphengine/internal/cherr"
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

// GraphJoinInference is analyzer pass 5 (spec.md §4.3), the hardest pass:
// it builds PatternGraphMetadata for each pattern subtree and converts it
// into a linear ResolvedJoin plan wrapped in a GraphJoins node.
type GraphJoinInference struct{}

func (p *GraphJoinInference) Name() string { return "graph-join-inference" }

func (p *GraphJoinInference) Analyze(plan logicalplan.LogicalPlan, cat *catalog.Catalog, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	return inferGraphJoins(plan, cat, ctx)
}

// PatternNodeInfo is one node alias's metadata within a pattern
// (spec.md §4.3 "Metadata phase").
type PatternNodeInfo struct {
	Label           string
	HasLabel        bool
	IsReferenced    bool
	AppearanceCount int
}

// PatternEdgeInfo is one edge's metadata within a pattern.
type PatternEdgeInfo struct {
	Alias          string
	RelTypes       []string
	FromNode       string
	ToNode         string
	Direction      cypherast.Direction
	IsVLP          bool
	IsShortestPath bool
	IsOptional     bool
	Rel            *logicalplan.GraphRel
}

// PatternGraphMetadata is the node/edge metadata graph-join inference
// builds before selecting per-edge strategies.
type PatternGraphMetadata struct {
	Nodes map[string]*PatternNodeInfo
	Edges []*PatternEdgeInfo
}

// buildPatternMetadata walks one pattern subtree (a tree of GraphRel/
// GraphNode rooted where a Filter/Projection/WithClause/Union boundary
// begins) and produces its PatternGraphMetadata. Four phases, mirroring
// original_source's PatternMetadataBuilder::build: collect edges, collect
// node appearance counts, collect node labels, then compute is_referenced
// against the enclosing non-pattern context (refExpr/refExprs).
func buildPatternMetadata(root logicalplan.LogicalPlan, refExprs []logicalexpr.LogicalExpr) *PatternGraphMetadata {
	meta := &PatternGraphMetadata{Nodes: map[string]*PatternNodeInfo{}}

	var collect func(plan logicalplan.LogicalPlan)
	collect = func(plan logicalplan.LogicalPlan) {
		switch n := plan.(type) {
		case *logicalplan.GraphRel:
			collect(n.Left)
			collect(n.Right)

			edge := &PatternEdgeInfo{
				Alias:          n.Alias,
				RelTypes:       n.Labels,
				FromNode:       n.LeftConnection,
				ToNode:         n.RightConnection,
				Direction:      n.Direction,
				IsVLP:          n.IsVLP(),
				IsShortestPath: n.ShortestPathMode != cypherast.NotShortestPath,
				IsOptional:     n.IsOptional,
				Rel:            n,
			}
			meta.Edges = append(meta.Edges, edge)

			for _, alias := range []string{n.LeftConnection, n.RightConnection} {
				if alias == "" {
					continue
				}
				info := nodeInfo(meta, alias)
				info.AppearanceCount++
			}

		case *logicalplan.GraphNode:
			info := nodeInfo(meta, n.Alias)
			if n.HasLabel {
				info.Label = n.Label
				info.HasLabel = true
			}
			collect(n.Input)

		default:
			// Scan/ViewScan/Empty: leaves, nothing further to collect.
		}
	}
	collect(root)

	referenced := map[string]bool{}
	for _, e := range refExprs {
		for alias := range logicalexpr.CollectAliases(e) {
			referenced[alias] = true
		}
	}
	for _, e := range meta.Edges {
		if e.Rel.HasWherePredicate {
			for alias := range logicalexpr.CollectAliases(e.Rel.WherePredicate) {
				referenced[alias] = true
			}
		}
	}
	for alias, info := range meta.Nodes {
		if referenced[alias] {
			info.IsReferenced = true
		}
	}

	return meta
}

func nodeInfo(meta *PatternGraphMetadata, alias string) *PatternNodeInfo {
	info, ok := meta.Nodes[alias]
	if !ok {
		info = &PatternNodeInfo{}
		meta.Nodes[alias] = info
	}
	return info
}

// selectStrategy picks the ResolvedJoin shape for one edge, per spec.md
// §4.3 "Strategy selection per edge".
func selectStrategy(edge *PatternEdgeInfo, meta *PatternGraphMetadata, cat *catalog.Catalog, ctx *planctx.PlanCtx) (logicalplan.ResolvedJoin, error) {
	join := logicalplan.ResolvedJoin{
		EdgeAlias:  edge.Alias,
		FromAlias:  edge.FromNode,
		ToAlias:    edge.ToNode,
		IsOptional: edge.IsOptional,
	}

	if len(edge.RelTypes) > 1 {
		join.Strategy = logicalplan.StrategyMultiTypeUnion
		join.HasUnionCTE = true
		join.UnionCTEName = "edge_union_" + edge.Alias
		return join, nil
	}
	if edge.Direction == cypherast.Either {
		join.Strategy = logicalplan.StrategyEitherUnion
		join.HasUnionCTE = true
		join.UnionCTEName = "edge_either_" + edge.Alias
		return join, nil
	}

	relType := ""
	if len(edge.RelTypes) == 1 {
		relType = edge.RelTypes[0]
	}
	rel, ok := cat.RelationshipByType(relType)
	if !ok {
		return join, cherr.ErrPlanning.New("unknown relationship type " + relType)
	}
	join.SourceTable = rel.Table

	if rel.IsPolymorphic() {
		join.Strategy = logicalplan.StrategyPolymorphic
		info := &logicalplan.PolymorphicInfo{
			TypeColumn: rel.TypeColumn,
			RelType:    relType,
		}
		if fromNode, ok := meta.Nodes[edge.FromNode]; ok && fromNode.HasLabel && rel.HasFromLabelCol {
			info.FromLabelColumn = rel.FromLabelColumn
			info.FromLabel = fromNode.Label
			info.HasFromLabel = true
		}
		if toNode, ok := meta.Nodes[edge.ToNode]; ok && toNode.HasLabel && rel.HasToLabelCol {
			info.ToLabelColumn = rel.ToLabelColumn
			info.ToLabel = toNode.Label
			info.HasToLabel = true
		}
		join.Polymorphic = info
		return join, nil
	}

	switch {
	case rel.FromNodeProperties != nil && rel.ToNodeProperties != nil:
		join.Strategy = logicalplan.StrategyFullyDenormalized
		ctx.AddDenormAlias(edge.FromNode, edge.Alias, planctx.PositionFrom, "", false)
		ctx.AddDenormAlias(edge.ToNode, edge.Alias, planctx.PositionTo, "", false)
	case rel.FromNodeProperties != nil || rel.ToNodeProperties != nil:
		join.Strategy = logicalplan.StrategyHalfDenormalized
		if rel.FromNodeProperties != nil {
			ctx.AddDenormAlias(edge.FromNode, edge.Alias, planctx.PositionFrom, "", false)
		} else {
			ctx.AddDenormAlias(edge.ToNode, edge.Alias, planctx.PositionTo, "", false)
		}
	default:
		join.Strategy = logicalplan.StrategyStandard
	}

	return join, nil
}

// inferGraphJoins locates each maximal pattern subtree (a chain of
// GraphRel/GraphNode) and wraps it in a GraphJoins node carrying the
// resolved join plan.
func inferGraphJoins(plan logicalplan.LogicalPlan, cat *catalog.Catalog, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	switch n := plan.(type) {
	case *logicalplan.Filter:
		child, childID, err := inferGraphJoins(n.Input, cat, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if childID == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	case *logicalplan.Projection:
		child, childID, err := inferGraphJoins(n.Input, cat, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if childID == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	case *logicalplan.WithClause:
		child, childID, err := inferGraphJoins(n.Input, cat, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if childID == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	case *logicalplan.Union:
		changed := false
		inputs := make([]logicalplan.LogicalPlan, len(n.Inputs))
		for i, in := range n.Inputs {
			rewritten, id, err := inferGraphJoins(in, cat, ctx)
			if err != nil {
				return nil, transform.SameTree, err
			}
			inputs[i] = rewritten
			if id == transform.NewTree {
				changed = true
			}
		}
		if !changed {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Inputs = inputs
		return &cp, transform.NewTree, nil

	case *logicalplan.CartesianProduct:
		left, leftID, err := inferGraphJoins(n.Left, cat, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		right, rightID, err := inferGraphJoins(n.Right, cat, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if transform.Combine(leftID, rightID) == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Left = left
		cp.Right = right
		return &cp, transform.NewTree, nil

	case *logicalplan.GraphRel:
		meta := buildPatternMetadata(n, collectRefExprsAbove(ctx))
		for alias, info := range meta.Nodes {
			ctx.ReferencedAliases[alias] = info.IsReferenced
		}
		joins := make([]logicalplan.ResolvedJoin, 0, len(meta.Edges))
		for _, edge := range meta.Edges {
			j, err := selectStrategy(edge, meta, cat, ctx)
			if err != nil {
				return nil, transform.SameTree, err
			}
			joins = append(joins, j)
		}
		return &logicalplan.GraphJoins{Input: n, Joins: joins}, transform.NewTree, nil

	case *logicalplan.GraphNode:
		// A bare single node pattern (no relationships) needs no joins.
		return n, transform.SameTree, nil

	default:
		return plan, transform.SameTree, nil
	}
}

// collectRefExprsAbove gathers the projection/where/order-by expressions
// collected against every alias during logical-plan construction
// (logicalplan.Build's recordFilterPredicate/recordProjectionItem calls,
// invoked from buildMatch/buildPatternPath/buildWith/buildReturn) for
// is_referenced computation. Those two TableCtx fields are the one place
// an enclosing RETURN/WHERE/ORDER BY reference reaches this pass without
// this pass having to walk back up the tree itself.
func collectRefExprsAbove(ctx *planctx.PlanCtx) []logicalexpr.LogicalExpr {
	var out []logicalexpr.LogicalExpr
	for _, t := range ctx.Tables {
		out = append(out, t.ProjectionItems...)
		out = append(out, t.FilterPredicates...)
	}
	return out
}
