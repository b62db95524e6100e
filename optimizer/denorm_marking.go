package optimizer

import (
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

// DenormalizedEdgeMarking is optimizer pass 2 (spec.md §4.4 step 2): walk
// the tree and flip is_denormalized on every GraphNode whose alias appears
// in the context's denormalized-alias map, so the renderer skips emitting
// a CTE/scan for it.
type DenormalizedEdgeMarking struct{}

func (p *DenormalizedEdgeMarking) Name() string { return "denormalized-edge-marking" }

func (p *DenormalizedEdgeMarking) Optimize(plan logicalplan.LogicalPlan, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	return markDenormalized(plan, ctx)
}

func markDenormalized(plan logicalplan.LogicalPlan, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	switch n := plan.(type) {
	case *logicalplan.GraphNode:
		child, childID, err := markDenormalized(n.Input, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		shouldMark := ctx.IsDenormalized(n.Alias) && !n.IsDenormalized
		if childID == transform.SameTree && !shouldMark {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		if shouldMark {
			cp.IsDenormalized = true
		}
		return &cp, transform.NewTree, nil

	case *logicalplan.GraphRel:
		left, leftID, err := markDenormalized(n.Left, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		right, rightID, err := markDenormalized(n.Right, ctx)
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

	case *logicalplan.GraphJoins:
		child, id, err := markDenormalized(n.Input, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if id == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	case *logicalplan.Filter:
		child, id, err := markDenormalized(n.Input, ctx)
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
		child, id, err := markDenormalized(n.Input, ctx)
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
		child, id, err := markDenormalized(n.Input, ctx)
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
