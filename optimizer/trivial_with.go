package optimizer

import (
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

// TrivialWithElimination is optimizer pass 6 (spec.md §4.4 step 6): a
// WithClause with no DISTINCT, no ORDER/SKIP/LIMIT, no WHERE, and no
// aggregation or non-pass-through expressions is skipped entirely — its
// input becomes the parent's input directly. Idempotent: running it twice
// yields the same plan as once (spec.md §8 "Trivial-WITH idempotence"),
// since a WithClause that survives the first pass is never trivial by
// this same test on the second pass.
type TrivialWithElimination struct{}

func (p *TrivialWithElimination) Name() string { return "trivial-with-elimination" }

func (p *TrivialWithElimination) Optimize(plan logicalplan.LogicalPlan, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	return eliminateTrivialWith(plan)
}

func eliminateTrivialWith(plan logicalplan.LogicalPlan) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	switch n := plan.(type) {
	case *logicalplan.WithClause:
		child, childID, err := eliminateTrivialWith(n.Input)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if isTrivialWith(n) {
			return child, transform.NewTree, nil
		}
		if childID == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	case *logicalplan.Filter:
		child, id, err := eliminateTrivialWith(n.Input)
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
		child, id, err := eliminateTrivialWith(n.Input)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if id == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	case *logicalplan.GraphJoins:
		child, id, err := eliminateTrivialWith(n.Input)
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

func isTrivialWith(n *logicalplan.WithClause) bool {
	if n.Distinct || n.HasSkip || n.HasLimit || n.HasWhere || len(n.OrderBy) > 0 {
		return false
	}
	for _, item := range n.Items {
		if containsAggregate(item.Expression) {
			return false
		}
		if !isPassThrough(item) {
			return false
		}
	}
	return true
}

// isPassThrough reports whether a projection item is a bare alias or
// unaliased property access — i.e. contributes no new computation — which
// is the condition under which a WITH item is "pass-through" for trivial
// elimination purposes.
func isPassThrough(item logicalplan.ProjectionItem) bool {
	if item.HasAlias {
		switch e := item.Expression.(type) {
		case logicalexpr.TableAlias:
			return e.Name == item.ColAlias
		default:
			return false
		}
	}
	switch item.Expression.(type) {
	case logicalexpr.TableAlias, logicalexpr.PropertyAccess:
		return true
	default:
		return false
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
