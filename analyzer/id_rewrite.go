package analyzer

import (
	"strconv"

	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/idmapper"
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

// IDRewrite is analyzer pass 4 (spec.md §4.2 step 4): rewrite id(v) = N,
// id(v) IN [N...], NOT id(v) IN [N...] against the id-mapper collaborator,
// and rewrite ORDER BY references to id(v) into property access on the
// node's first id column.
type IDRewrite struct {
	Mapper idmapper.IDMapper
}

func (p *IDRewrite) Name() string { return "id-rewrite" }

func (p *IDRewrite) Analyze(plan logicalplan.LogicalPlan, cat *catalog.Catalog, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	return rewriteIDs(plan, cat, ctx, p.Mapper)
}

func rewriteIDs(plan logicalplan.LogicalPlan, cat *catalog.Catalog, ctx *planctx.PlanCtx, mapper idmapper.IDMapper) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	switch n := plan.(type) {
	case *logicalplan.Filter:
		child, childID, err := rewriteIDs(n.Input, cat, ctx, mapper)
		if err != nil {
			return nil, transform.SameTree, err
		}
		pred, predChanged := rewriteIDExpr(n.Predicate, cat, ctx, mapper)
		id := transform.Combine(childID, boolToIdentity(predChanged))
		if id == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		cp.Predicate = pred
		return &cp, transform.NewTree, nil

	case *logicalplan.GraphRel:
		left, leftID, err := rewriteIDs(n.Left, cat, ctx, mapper)
		if err != nil {
			return nil, transform.SameTree, err
		}
		right, rightID, err := rewriteIDs(n.Right, cat, ctx, mapper)
		if err != nil {
			return nil, transform.SameTree, err
		}
		predChanged := false
		pred := n.WherePredicate
		if n.HasWherePredicate {
			pred, predChanged = rewriteIDExpr(n.WherePredicate, cat, ctx, mapper)
		}
		id := transform.Combine(leftID, rightID, boolToIdentity(predChanged))
		if id == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Left = left
		cp.Right = right
		cp.WherePredicate = pred
		return &cp, transform.NewTree, nil

	case *logicalplan.OrderBy:
		child, childID, err := rewriteIDs(n.Input, cat, ctx, mapper)
		if err != nil {
			return nil, transform.SameTree, err
		}
		changed := false
		items := make([]logicalplan.SortItem, len(n.Items))
		for i, it := range n.Items {
			rewritten := rewriteIDOrderExpr(it.Expression)
			items[i] = logicalplan.SortItem{Expression: rewritten, Descending: it.Descending}
			if rewritten != it.Expression {
				changed = true
			}
		}
		id := transform.Combine(childID, boolToIdentity(changed))
		if id == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		cp.Items = items
		return &cp, transform.NewTree, nil

	case *logicalplan.Projection:
		child, id, err := rewriteIDs(n.Input, cat, ctx, mapper)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if id == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	case *logicalplan.GraphNode:
		child, id, err := rewriteIDs(n.Input, cat, ctx, mapper)
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
		child, id, err := rewriteIDs(n.Input, cat, ctx, mapper)
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

func boolToIdentity(changed bool) transform.TreeIdentity {
	if changed {
		return transform.NewTree
	}
	return transform.SameTree
}

// idFnArg returns the alias named by an `id(v)` call, or "" if expr isn't one.
func idFnArg(expr logicalexpr.LogicalExpr) (string, bool) {
	call, ok := expr.(logicalexpr.ScalarFnCall)
	if !ok || call.Name != "id" || len(call.Args) != 1 {
		return "", false
	}
	alias, ok := call.Args[0].(logicalexpr.TableAlias)
	if !ok {
		return "", false
	}
	return alias.Name, true
}

// rewriteIDOrderExpr rewrites a bare `id(v)` ORDER BY reference to property
// access on the node's first id column (spec.md §4.2 step 4). Composite-id
// resolution to the real column name happens later, at resolve time; here
// we only know the alias, so we emit a property-access placeholder keyed
// by the synthetic name "__id0" that the resolver treats as "first id
// column" (see resolver.ResolveIDColumns).
func rewriteIDOrderExpr(expr logicalexpr.LogicalExpr) logicalexpr.LogicalExpr {
	if alias, ok := idFnArg(expr); ok {
		return logicalexpr.PropertyAccess{TableAlias: alias, Property: IDPlaceholderProperty}
	}
	return expr
}

// IDPlaceholderProperty is the synthetic property name rewriteIDOrderExpr
// emits; the resolver recognizes it and substitutes the node's first id
// column (keeping this pass free of catalog/id-column lookups it has no
// alias-to-label binding to perform yet at rewrite time for ORDER BY).
const IDPlaceholderProperty = "__id0"

func rewriteIDExpr(expr logicalexpr.LogicalExpr, cat *catalog.Catalog, ctx *planctx.PlanCtx, mapper idmapper.IDMapper) (logicalexpr.LogicalExpr, bool) {
	switch e := expr.(type) {
	case logicalexpr.OperatorApplication:
		if e.Operator == logicalexpr.Eq && len(e.Operands) == 2 {
			if alias, ok := idFnArg(e.Operands[0]); ok {
				if lit, ok := e.Operands[1].(logicalexpr.Literal); ok && lit.Kind == logicalexpr.LitInteger {
					return resolveIDEquality(alias, lit.Int, ctx, cat, mapper), true
				}
			}
			if alias, ok := idFnArg(e.Operands[1]); ok {
				if lit, ok := e.Operands[0].(logicalexpr.Literal); ok && lit.Kind == logicalexpr.LitInteger {
					return resolveIDEquality(alias, lit.Int, ctx, cat, mapper), true
				}
			}
		}
		changed := false
		operands := make([]logicalexpr.LogicalExpr, len(e.Operands))
		for i, o := range e.Operands {
			rewritten, c := rewriteIDExpr(o, cat, ctx, mapper)
			operands[i] = rewritten
			if c {
				changed = true
			}
		}
		if !changed {
			return expr, false
		}
		return logicalexpr.OperatorApplication{Operator: e.Operator, Operands: operands}, true

	case logicalexpr.InList:
		if alias, ok := idFnArg(e.Target); ok {
			return resolveIDInList(alias, e.Items, e.Negated, ctx, cat, mapper), true
		}
		changed := false
		target, c := rewriteIDExpr(e.Target, cat, ctx, mapper)
		changed = changed || c
		items := make([]logicalexpr.LogicalExpr, len(e.Items))
		for i, it := range e.Items {
			rewritten, c := rewriteIDExpr(it, cat, ctx, mapper)
			items[i] = rewritten
			if c {
				changed = true
			}
		}
		if !changed {
			return expr, false
		}
		return logicalexpr.InList{Target: target, Items: items, Negated: e.Negated}, true

	default:
		return expr, false
	}
}

func resolveIDEquality(alias string, id int64, ctx *planctx.PlanCtx, cat *catalog.Catalog, mapper idmapper.IDMapper) logicalexpr.LogicalExpr {
	resolved, ok := mapper.Resolve(id)
	if !ok {
		return logicalexpr.BoolLiteral(false)
	}
	ctx.ExtractedLabelConstraints[alias] = resolved.Label
	idType := idTypeFor(cat, resolved.Label)
	conjuncts := make([]logicalexpr.LogicalExpr, 0, len(resolved.IDValues))
	for i, v := range resolved.IDValues {
		lit, err := idLiteral(idType, v, ctx.Dialect)
		if err != nil {
			// A value the catalog's declared id type can't render is
			// indistinguishable from an unresolved id (spec.md §4.2 step 4).
			return logicalexpr.BoolLiteral(false)
		}
		conjuncts = append(conjuncts, logicalexpr.OperatorApplication{
			Operator: logicalexpr.Eq,
			Operands: []logicalexpr.LogicalExpr{
				logicalexpr.PropertyAccess{TableAlias: alias, Property: idColumnPlaceholder(i)},
				lit,
			},
		})
	}
	return logicalexpr.AndAll(conjuncts...)
}

// idTypeFor looks up the declared id-column type for label, defaulting to
// TypeString when the label isn't in the catalog (e.g. a unit test fixture
// that exercises id-rewrite without a full catalog) so literal rendering
// degrades to the pre-SchemaType quoted-string behavior rather than erroring.
func idTypeFor(cat *catalog.Catalog, label string) catalog.SchemaType {
	if cat == nil {
		return catalog.TypeString
	}
	if n, ok := cat.NodeByLabel(label); ok {
		return n.IDType
	}
	return catalog.TypeString
}

// idLiteral renders a resolved id-column value as a dialect-correct SQL
// literal per its catalog-declared type (SPEC_FULL.md §4 "elementId/id()
// literal rendering is type-aware"), wrapped as a RawLiteral so sqlgen
// prints it verbatim instead of re-quoting it as a string.
func idLiteral(idType catalog.SchemaType, value string, dialect catalog.Dialect) (logicalexpr.LogicalExpr, error) {
	sql, err := idType.ToSQLLiteral(value, dialect)
	if err != nil {
		return nil, err
	}
	return logicalexpr.RawLiteral{SQL: sql}, nil
}

func resolveIDInList(alias string, items []logicalexpr.LogicalExpr, negated bool, ctx *planctx.PlanCtx, cat *catalog.Catalog, mapper idmapper.IDMapper) logicalexpr.LogicalExpr {
	if len(items) == 0 {
		// spec.md §4.2 step 4: empty IN -> FALSE; NOT IN empty -> TRUE.
		return logicalexpr.BoolLiteral(negated)
	}
	var resolvedExprs []logicalexpr.LogicalExpr
	for _, item := range items {
		lit, ok := item.(logicalexpr.Literal)
		if !ok || lit.Kind != logicalexpr.LitInteger {
			continue
		}
		resolved, ok := mapper.Resolve(lit.Int)
		if !ok {
			// Unresolved id inside an IN list: skip it (spec.md §4.2 step 4).
			continue
		}
		ctx.ExtractedLabelConstraints[alias] = resolved.Label
		idType := idTypeFor(cat, resolved.Label)
		conjuncts := make([]logicalexpr.LogicalExpr, 0, len(resolved.IDValues))
		skip := false
		for i, v := range resolved.IDValues {
			idLit, err := idLiteral(idType, v, ctx.Dialect)
			if err != nil {
				// Same treatment as an unresolved id: drop this item.
				skip = true
				break
			}
			conjuncts = append(conjuncts, logicalexpr.OperatorApplication{
				Operator: logicalexpr.Eq,
				Operands: []logicalexpr.LogicalExpr{
					logicalexpr.PropertyAccess{TableAlias: alias, Property: idColumnPlaceholder(i)},
					idLit,
				},
			})
		}
		if skip {
			continue
		}
		resolvedExprs = append(resolvedExprs, logicalexpr.AndAll(conjuncts...))
	}
	if len(resolvedExprs) == 0 {
		return logicalexpr.BoolLiteral(negated)
	}
	disjunction := logicalexpr.LogicalExpr(resolvedExprs[0])
	if len(resolvedExprs) > 1 {
		disjunction = logicalexpr.OperatorApplication{Operator: logicalexpr.Or, Operands: resolvedExprs}
	}
	if negated {
		return logicalexpr.OperatorApplication{Operator: logicalexpr.Not, Operands: []logicalexpr.LogicalExpr{disjunction}}
	}
	return disjunction
}

// idColumnPlaceholder names the synthetic property the resolver substitutes
// for the node's i'th id column (§4.5 resolves it against
// catalog.NodeMapping.IDColumns[i]).
func idColumnPlaceholder(i int) string {
	return "__id" + strconv.Itoa(i)
}
