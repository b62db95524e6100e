package optimizer

import (
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

// ExpressionSimplification is optimizer pass 7 (spec.md §4.4 step 7):
// flatten nested AND operator applications.
type ExpressionSimplification struct{}

func (p *ExpressionSimplification) Name() string { return "expression-simplification" }

func (p *ExpressionSimplification) Optimize(plan logicalplan.LogicalPlan, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	return simplifyExpressions(plan)
}

func simplifyExpressions(plan logicalplan.LogicalPlan) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	switch n := plan.(type) {
	case *logicalplan.Filter:
		child, childID, err := simplifyExpressions(n.Input)
		if err != nil {
			return nil, transform.SameTree, err
		}
		flattened := flattenAnd(n.Predicate)
		predChanged := flattened != n.Predicate
		if childID == transform.SameTree && !predChanged {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		cp.Predicate = flattened
		return &cp, transform.NewTree, nil

	case *logicalplan.GraphRel:
		left, leftID, err := simplifyExpressions(n.Left)
		if err != nil {
			return nil, transform.SameTree, err
		}
		right, rightID, err := simplifyExpressions(n.Right)
		if err != nil {
			return nil, transform.SameTree, err
		}
		predChanged := false
		pred := n.WherePredicate
		if n.HasWherePredicate {
			flattened := flattenAnd(n.WherePredicate)
			predChanged = flattened != n.WherePredicate
			pred = flattened
		}
		if transform.Combine(leftID, rightID) == transform.SameTree && !predChanged {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Left = left
		cp.Right = right
		cp.WherePredicate = pred
		return &cp, transform.NewTree, nil

	case *logicalplan.GraphNode:
		child, id, err := simplifyExpressions(n.Input)
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
		child, id, err := simplifyExpressions(n.Input)
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
		child, id, err := simplifyExpressions(n.Input)
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
		child, id, err := simplifyExpressions(n.Input)
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

// flattenAnd collapses nested AND(AND(a,b),c) into AND(a,b,c). Returns the
// same value (by interface equality) when nothing changed so callers can
// detect a no-op without a separate bool.
func flattenAnd(expr logicalexpr.LogicalExpr) logicalexpr.LogicalExpr {
	op, ok := expr.(logicalexpr.OperatorApplication)
	if !ok || op.Operator != logicalexpr.And {
		return expr
	}
	var flat []logicalexpr.LogicalExpr
	changed := false
	for _, operand := range op.Operands {
		if inner, ok := operand.(logicalexpr.OperatorApplication); ok && inner.Operator == logicalexpr.And {
			flat = append(flat, inner.Operands...)
			changed = true
			continue
		}
		flat = append(flat, operand)
	}
	if !changed {
		return expr
	}
	return logicalexpr.OperatorApplication{Operator: logicalexpr.And, Operands: flat}
}
