package optimizer

import (
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

// ViewFilterCleanup is optimizer pass 5 (spec.md §4.4 step 5): once
// filters are folded into GraphRel.where_predicate, clear
// ViewScan.view_filter so it isn't emitted a second time at render.
type ViewFilterCleanup struct{}

func (p *ViewFilterCleanup) Name() string { return "view-filter-cleanup" }

func (p *ViewFilterCleanup) Optimize(plan logicalplan.LogicalPlan, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	return clearViewFilters(plan)
}

func clearViewFilters(plan logicalplan.LogicalPlan) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	switch n := plan.(type) {
	case *logicalplan.ViewScan:
		if !n.HasViewFilter {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.HasViewFilter = false
		cp.ViewFilter = nil
		return &cp, transform.NewTree, nil

	case *logicalplan.GraphNode:
		child, id, err := clearViewFilters(n.Input)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if id == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	case *logicalplan.GraphRel:
		left, leftID, err := clearViewFilters(n.Left)
		if err != nil {
			return nil, transform.SameTree, err
		}
		right, rightID, err := clearViewFilters(n.Right)
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
		child, id, err := clearViewFilters(n.Input)
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
		child, id, err := clearViewFilters(n.Input)
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
		child, id, err := clearViewFilters(n.Input)
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
		child, id, err := clearViewFilters(n.Input)
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
