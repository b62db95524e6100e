package analyzer

import (
	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

// PolymorphicFilterInjection is analyzer pass 7 (spec.md §4.2 step 7): for
// each relationship alias bound to a polymorphic table, inject up to three
// equality filters (type_column, from_label_column, to_label_column) into
// the enclosing GraphRel.where_predicate.
type PolymorphicFilterInjection struct{}

func (p *PolymorphicFilterInjection) Name() string { return "polymorphic-filter-injection" }

func (p *PolymorphicFilterInjection) Analyze(plan logicalplan.LogicalPlan, cat *catalog.Catalog, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	return injectPolymorphicFilters(plan)
}

func injectPolymorphicFilters(plan logicalplan.LogicalPlan) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	switch n := plan.(type) {
	case *logicalplan.GraphJoins:
		changed := false
		input := n.Input
		for _, j := range n.Joins {
			if j.Polymorphic == nil {
				continue
			}
			conjuncts := discriminatorConjuncts(j.EdgeAlias, j.Polymorphic)
			if len(conjuncts) == 0 {
				continue
			}
			rewritten, ok := injectIntoEdge(input, j.EdgeAlias, conjuncts)
			if ok {
				input = rewritten
				changed = true
			}
		}
		if !changed {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = input
		return &cp, transform.NewTree, nil

	case *logicalplan.Filter:
		child, id, err := injectPolymorphicFilters(n.Input)
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
		child, id, err := injectPolymorphicFilters(n.Input)
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
		child, id, err := injectPolymorphicFilters(n.Input)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if id == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	case *logicalplan.Union:
		changed := false
		inputs := make([]logicalplan.LogicalPlan, len(n.Inputs))
		for i, in := range n.Inputs {
			rewritten, id, err := injectPolymorphicFilters(in)
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

func discriminatorConjuncts(edgeAlias string, info *logicalplan.PolymorphicInfo) []logicalexpr.LogicalExpr {
	var out []logicalexpr.LogicalExpr
	if info.TypeColumn != "" {
		out = append(out, eqFilter(edgeAlias, info.TypeColumn, info.RelType))
	}
	if info.HasFromLabel {
		out = append(out, eqFilter(edgeAlias, info.FromLabelColumn, info.FromLabel))
	}
	if info.HasToLabel {
		out = append(out, eqFilter(edgeAlias, info.ToLabelColumn, info.ToLabel))
	}
	return out
}

func eqFilter(alias, column, value string) logicalexpr.LogicalExpr {
	return logicalexpr.OperatorApplication{
		Operator: logicalexpr.Eq,
		Operands: []logicalexpr.LogicalExpr{
			logicalexpr.PropertyAccess{TableAlias: alias, Property: column},
			logicalexpr.Literal{Kind: logicalexpr.LitString, Str: value},
		},
	}
}

// injectIntoEdge finds the GraphRel with the given alias inside plan and
// ANDs the given conjuncts into its where_predicate, returning a rebuilt
// subtree (true) or the original plan unchanged (false) if not found.
func injectIntoEdge(plan logicalplan.LogicalPlan, alias string, conjuncts []logicalexpr.LogicalExpr) (logicalplan.LogicalPlan, bool) {
	switch n := plan.(type) {
	case *logicalplan.GraphRel:
		if n.Alias == alias {
			cp := *n
			merged := append([]logicalexpr.LogicalExpr{}, conjuncts...)
			if n.HasWherePredicate {
				merged = append(merged, n.WherePredicate)
			}
			cp.WherePredicate = logicalexpr.AndAll(merged...)
			cp.HasWherePredicate = true
			return &cp, true
		}
		left, leftOK := injectIntoEdge(n.Left, alias, conjuncts)
		right, rightOK := injectIntoEdge(n.Right, alias, conjuncts)
		if !leftOK && !rightOK {
			return n, false
		}
		cp := *n
		cp.Left = left
		cp.Right = right
		return &cp, true

	case *logicalplan.GraphNode:
		child, ok := injectIntoEdge(n.Input, alias, conjuncts)
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
