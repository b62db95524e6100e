package optimizer

import (
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

// EndpointElision is a supplementary optimizer step, beyond spec.md §4.4's
// seven named passes, resolving the Standard-strategy elision note at
// spec.md §4.4 step 1 ("unless the node is unreferenced ... in which case
// elide it") that the base spec leaves as an open question (DESIGN.md Open
// Question 2). It runs immediately after AnchorNodeSelection so the
// "chain-terminal" check below sees the final rotated order, and is purely
// additive: it only ever sets GraphNode.Elided, never reorders or drops a
// join the other seven passes rely on.
//
// Only the last node of a flattened GraphRel chain is a candidate: every
// earlier "new side" node is also the "prev side" of the next edge, so
// dropping its join would strand that edge's ON-clause.
type EndpointElision struct{}

func (p *EndpointElision) Name() string { return "endpoint-elision" }

func (p *EndpointElision) Optimize(plan logicalplan.LogicalPlan, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	return elideEndpoints(plan, ctx)
}

func elideEndpoints(plan logicalplan.LogicalPlan, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	switch n := plan.(type) {
	case *logicalplan.GraphJoins:
		rel, ok := n.Input.(*logicalplan.GraphRel)
		if !ok {
			return n, transform.SameTree, nil
		}
		tailNode, ok := rel.Right.(*logicalplan.GraphNode)
		if !ok || tailNode.Elided || !canElideEndpoint(rel.RightConnection, tailNode, ctx) {
			return n, transform.SameTree, nil
		}
		nodeCp := *tailNode
		nodeCp.Elided = true
		relCp := *rel
		relCp.Right = &nodeCp
		cp := *n
		cp.Input = &relCp
		return &cp, transform.NewTree, nil

	case *logicalplan.Filter:
		child, id, err := elideEndpoints(n.Input, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if id == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	case *logicalplan.Projection:
		child, id, err := elideEndpoints(n.Input, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if id == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	case *logicalplan.WithClause:
		child, id, err := elideEndpoints(n.Input, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if id == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	default:
		return plan, transform.SameTree, nil
	}
}

// canElideEndpoint implements DESIGN.md Open Question 2's three-condition
// rule: the node must carry an explicit label (so the dropped join's label
// constraint isn't lost), must not be referenced anywhere outside the
// pattern it belongs to, and must carry no filter predicates of its own.
// A node resolved through a denormalized edge never had its own join to
// begin with, so it's excluded rather than considered elidable.
func canElideEndpoint(alias string, node *logicalplan.GraphNode, ctx *planctx.PlanCtx) bool {
	if ctx.IsDenormalized(alias) {
		return false
	}
	if !node.HasLabel {
		return false
	}
	referenced, known := ctx.ReferencedAliases[alias]
	if !known || referenced {
		return false
	}
	if t, ok := ctx.Tables[alias]; ok && len(t.FilterPredicates) > 0 {
		return false
	}
	return true
}
