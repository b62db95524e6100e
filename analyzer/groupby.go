package analyzer

import (
	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

// GroupBySynthesis is analyzer pass 6 (spec.md §4.2 step 6): any
// Projection mixing aggregate and non-aggregate items gets wrapped in a
// GroupBy whose grouping expressions are exactly the non-aggregate items,
// in order. Pure-aggregate projections get no GroupBy.
type GroupBySynthesis struct{}

func (p *GroupBySynthesis) Name() string { return "group-by-synthesis" }

func (p *GroupBySynthesis) Analyze(plan logicalplan.LogicalPlan, cat *catalog.Catalog, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	return synthesizeGroupBy(plan)
}

func synthesizeGroupBy(plan logicalplan.LogicalPlan) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	switch n := plan.(type) {
	case *logicalplan.Projection:
		child, childID, err := synthesizeGroupBy(n.Input)
		if err != nil {
			return nil, transform.SameTree, err
		}

		hasAgg, hasNonAgg := false, false
		var groupExprs []logicalexpr.LogicalExpr
		for _, item := range n.Items {
			if containsAggregate(item.Expression) {
				hasAgg = true
			} else {
				hasNonAgg = true
				groupExprs = append(groupExprs, item.Expression)
			}
		}

		if childID == transform.SameTree && !(hasAgg && hasNonAgg) {
			return n, transform.SameTree, nil
		}

		cp := *n
		cp.Input = child
		if hasAgg && hasNonAgg {
			cp.Input = &logicalplan.GroupBy{Input: child, Expressions: groupExprs}
		}
		return &cp, transform.NewTree, nil

	case *logicalplan.Filter:
		child, id, err := synthesizeGroupBy(n.Input)
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
		child, id, err := synthesizeGroupBy(n.Input)
		if err != nil {
			return nil, transform.SameTree, err
		}

		hasAgg, hasNonAgg := false, false
		var groupExprs []logicalexpr.LogicalExpr
		for _, item := range n.Items {
			if containsAggregate(item.Expression) {
				hasAgg = true
			} else {
				hasNonAgg = true
				groupExprs = append(groupExprs, item.Expression)
			}
		}
		if id == transform.SameTree && !(hasAgg && hasNonAgg) {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		if hasAgg && hasNonAgg {
			cp.Input = &logicalplan.GroupBy{Input: child, Expressions: groupExprs}
		}
		return &cp, transform.NewTree, nil

	case *logicalplan.Union:
		changed := false
		inputs := make([]logicalplan.LogicalPlan, len(n.Inputs))
		for i, in := range n.Inputs {
			rewritten, id, err := synthesizeGroupBy(in)
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

	default:
		return plan, transform.SameTree, nil
	}
}

func containsAggregate(expr logicalexpr.LogicalExpr) bool {
	switch e := expr.(type) {
	case logicalexpr.AggregateFnCall:
		return true
	case logicalexpr.ScalarFnCall:
		for _, a := range e.Args {
			if containsAggregate(a) {
				return true
			}
		}
		return false
	case logicalexpr.OperatorApplication:
		for _, o := range e.Operands {
			if containsAggregate(o) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
