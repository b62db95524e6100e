package optimizer

import (
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

// FilterPushdown is optimizer pass 4 (spec.md §4.4 step 4): fold any
// Filter whose predicate references exactly one pattern subtree into that
// subtree's GraphRel.where_predicate, merging with AND. A Filter whose
// predicate spans more than one alias is left in place.
type FilterPushdown struct{}

func (p *FilterPushdown) Name() string { return "filter-pushdown" }

func (p *FilterPushdown) Optimize(plan logicalplan.LogicalPlan, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	return pushFilters(plan)
}

func pushFilters(plan logicalplan.LogicalPlan) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	switch n := plan.(type) {
	case *logicalplan.Filter:
		child, childID, err := pushFilters(n.Input)
		if err != nil {
			return nil, transform.SameTree, err
		}
		aliases := logicalexpr.CollectAliases(n.Predicate)
		if len(aliases) == 1 {
			var single string
			for a := range aliases {
				single = a
			}
			if rewritten, ok := foldIntoEdge(child, single, n.Predicate); ok {
				return rewritten, transform.NewTree, nil
			}
		}
		if childID == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	case *logicalplan.GraphJoins:
		child, id, err := pushFilters(n.Input)
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
		child, id, err := pushFilters(n.Input)
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
		child, id, err := pushFilters(n.Input)
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

// foldIntoEdge locates the GraphNode or GraphRel identified by alias
// within plan and merges predicate into its where_predicate (GraphRel) —
// a Filter only folds into a relationship pattern's own predicate slot, per
// spec.md §4.4 step 4, not onto a bare node scan.
func foldIntoEdge(plan logicalplan.LogicalPlan, alias string, predicate logicalexpr.LogicalExpr) (logicalplan.LogicalPlan, bool) {
	switch n := plan.(type) {
	case *logicalplan.GraphRel:
		if n.Alias == alias || n.LeftConnection == alias || n.RightConnection == alias {
			cp := *n
			merged := []logicalexpr.LogicalExpr{predicate}
			if n.HasWherePredicate {
				merged = append(merged, n.WherePredicate)
			}
			cp.WherePredicate = logicalexpr.AndAll(merged...)
			cp.HasWherePredicate = true
			return &cp, true
		}
		left, leftOK := foldIntoEdge(n.Left, alias, predicate)
		right, rightOK := foldIntoEdge(n.Right, alias, predicate)
		if !leftOK && !rightOK {
			return n, false
		}
		cp := *n
		cp.Left = left
		cp.Right = right
		return &cp, true

	case *logicalplan.GraphNode:
		child, ok := foldIntoEdge(n.Input, alias, predicate)
		if !ok {
			return n, false
		}
		cp := *n
		cp.Input = child
		return &cp, true

	default:
		return plan, false
	}
}
