package optimizer

import (
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

// ProjectionPushdown is optimizer pass 3 (spec.md §4.4 step 3): replace a
// GraphNode's ViewScan input, when the node's alias has collected
// projections, with Projection(ViewScan, items), pushing only the columns
// downstream needs. A GraphNode whose input is not a ViewScan is left as
// it is.
type ProjectionPushdown struct{}

func (p *ProjectionPushdown) Name() string { return "projection-pushdown" }

func (p *ProjectionPushdown) Optimize(plan logicalplan.LogicalPlan, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	return pushProjections(plan, ctx)
}

func pushProjections(plan logicalplan.LogicalPlan, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	switch n := plan.(type) {
	case *logicalplan.GraphNode:
		child, childID, err := pushProjections(n.Input, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if vs, ok := child.(*logicalplan.ViewScan); ok {
			if t, ok := ctx.Tables[n.Alias]; ok && len(t.ProjectionItems) > 0 {
				cols := columnsFromItems(t.ProjectionItems)
				if len(cols) > 0 {
					pushed := &logicalplan.Projection{Input: vs, Items: itemsFromColumns(cols)}
					cp := *n
					cp.Input = pushed
					return &cp, transform.NewTree, nil
				}
			}
		}
		if childID == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	case *logicalplan.GraphRel:
		left, leftID, err := pushProjections(n.Left, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		right, rightID, err := pushProjections(n.Right, ctx)
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
		child, id, err := pushProjections(n.Input, ctx)
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
		child, id, err := pushProjections(n.Input, ctx)
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
		child, id, err := pushProjections(n.Input, ctx)
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
		child, id, err := pushProjections(n.Input, ctx)
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

func columnsFromItems(items []logicalexpr.LogicalExpr) []string {
	var out []string
	for _, it := range items {
		if pa, ok := it.(logicalexpr.PropertyAccess); ok {
			out = append(out, pa.Property)
		}
	}
	return out
}

func itemsFromColumns(cols []string) []logicalplan.ProjectionItem {
	out := make([]logicalplan.ProjectionItem, len(cols))
	for i, c := range cols {
		out[i] = logicalplan.ProjectionItem{Expression: logicalexpr.PropertyAccess{Property: c}}
	}
	return out
}
