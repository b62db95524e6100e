// Logical-plan construction: turns the parsed Cypher AST (cypherast) into a
// LogicalPlan tree plus the PlanCtx the analyzer/optimizer passes mutate.
// Grounded on spec.md §4.1 and original_source/src/query_planner/mod.rs's
// build_logical_plan entry point. This is the one place the two expression
// dialects (cypherast.Expression, logicalexpr.LogicalExpr) meet, per
// cypherast's own package doc.
//
// Scope note (recorded in DESIGN.md): a query body may contain any number
// of WITH/UNWIND clauses, but at most one MATCH/OPTIONAL MATCH clause, and
// that clause may hold at most one pattern path. Cross-joining disjoint
// MATCH patterns (logicalplan.CartesianProduct) is parsed as far as the
// AST but rejected here with ErrNotImpl: the three analyzer passes that
// walk the tree by hand (DuplicateScanRemoval, ViewResolution, IDRewrite)
// do not yet descend into CartesianProduct's children, and neither does
// renderplan, so building one today would silently drop everything below
// it rather than fail loudly. None of spec.md's testable scenarios need
// more than a single connected pattern per query.
package logicalplan

import (
	"fmt"

	"github.com/cyphersql/graphengine/cypherast"
	"github.com/cyphersql/graphengine/internal/cherr"
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/planctx"
)

// Build turns a parsed Cypher statement into a logical plan rooted at the
// terminal RETURN (or CALL) projection, plus the PlanCtx the analyzer and
// optimizer passes will thread through.
func Build(stmt *cypherast.CypherStatement, ctx *planctx.PlanCtx) (LogicalPlan, error) {
	if stmt == nil {
		return nil, cherr.ErrPlanning.New("nil statement")
	}

	plan, err := buildQuery(stmt.Query, ctx)
	if err != nil {
		return nil, err
	}

	if len(stmt.Union) == 0 {
		return plan, nil
	}

	inputs := []LogicalPlan{plan}
	all := false
	for i, part := range stmt.Union {
		sub, err := buildQuery(part.Query, ctx)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, sub)
		if i == 0 {
			all = part.All
		} else if part.All != all {
			return nil, cherr.ErrPlanning.New("mixed UNION and UNION ALL in the same statement")
		}
	}
	return &Union{Inputs: inputs, All: all}, nil
}

// buildQuery builds one query body: a sequence of reading clauses
// terminated by RETURN, or a bare CALL.
func buildQuery(q cypherast.Query, ctx *planctx.PlanCtx) (LogicalPlan, error) {
	if q.Call != nil {
		if len(q.Clauses) != 0 || q.Return != nil {
			return nil, cherr.ErrNotImpl.New("CALL combined with reading/RETURN clauses")
		}
		return buildCall(*q.Call)
	}

	var plan LogicalPlan
	sawMatch := false

	for _, rc := range q.Clauses {
		switch {
		case rc.Match != nil:
			if sawMatch {
				return nil, cherr.ErrNotImpl.New("multiple MATCH clauses in one query body (cross-pattern join)")
			}
			sawMatch = true
			built, err := buildMatch(*rc.Match, ctx)
			if err != nil {
				return nil, err
			}
			plan = built

		case rc.With != nil:
			next, err := buildWith(plan, *rc.With, ctx)
			if err != nil {
				return nil, err
			}
			plan = next

		case rc.Unwind != nil:
			expr, err := exprFromCypher(rc.Unwind.Expression)
			if err != nil {
				return nil, err
			}
			plan = &Unwind{Input: plan, Expression: expr, Variable: rc.Unwind.Variable}

		default:
			return nil, cherr.ErrPlanning.New("reading clause with no Match/With/Unwind set")
		}
	}

	if q.Return == nil {
		return nil, cherr.ErrPlanning.New("query body has no RETURN clause")
	}
	return buildReturn(plan, *q.Return, ctx)
}

func buildCall(call cypherast.CallClause) (LogicalPlan, error) {
	if call.ProcedureName != "pagerank" && call.ProcedureName != "pagerank.graph" {
		return nil, cherr.ErrNotImpl.New(fmt.Sprintf("unsupported procedure %q", call.ProcedureName))
	}
	pr := &PageRank{Iterations: 20, DampingFactor: 0.85}
	for _, arg := range call.Arguments {
		lit, ok := arg.Value.(cypherast.Literal)
		switch arg.Name {
		case "graphName":
			if !ok || lit.Kind != cypherast.LitString {
				return nil, cherr.ErrPlanning.New("pagerank graphName must be a string literal")
			}
			pr.GraphName = lit.Str
			pr.HasGraphName = true
		case "iterations":
			if !ok || lit.Kind != cypherast.LitInteger {
				return nil, cherr.ErrPlanning.New("pagerank iterations must be an integer literal")
			}
			pr.Iterations = int(lit.Int)
		case "dampingFactor":
			if !ok {
				return nil, cherr.ErrPlanning.New("pagerank dampingFactor must be a literal")
			}
			switch lit.Kind {
			case cypherast.LitFloat:
				pr.DampingFactor = lit.Float
			case cypherast.LitInteger:
				pr.DampingFactor = float64(lit.Int)
			default:
				return nil, cherr.ErrPlanning.New("pagerank dampingFactor must be numeric")
			}
		case "nodeLabels":
			labels, err := stringListLiteral(arg.Value)
			if err != nil {
				return nil, cherr.ErrPlanning.New("pagerank nodeLabels must be a list of strings")
			}
			pr.NodeLabels = labels
		case "relationshipTypes":
			types, err := stringListLiteral(arg.Value)
			if err != nil {
				return nil, cherr.ErrPlanning.New("pagerank relationshipTypes must be a list of strings")
			}
			pr.RelationshipTypes = types
		default:
			return nil, cherr.ErrNotImpl.New(fmt.Sprintf("unsupported pagerank argument %q", arg.Name))
		}
	}
	return pr, nil
}

func stringListLiteral(e cypherast.Expression) ([]string, error) {
	list, ok := e.(cypherast.ListExpr)
	if !ok {
		return nil, fmt.Errorf("not a list")
	}
	out := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		lit, ok := item.(cypherast.Literal)
		if !ok || lit.Kind != cypherast.LitString {
			return nil, fmt.Errorf("not a string literal")
		}
		out = append(out, lit.Str)
	}
	return out, nil
}

// buildMatch builds a single MATCH/OPTIONAL MATCH clause into a GraphNode/
// GraphRel chain (left-deep, one pattern path), attaching its WHERE clause
// per the heuristic in attachWhere.
func buildMatch(m cypherast.MatchClause, ctx *planctx.PlanCtx) (LogicalPlan, error) {
	if len(m.Patterns) == 0 {
		return nil, cherr.ErrPlanning.New("MATCH clause with no patterns")
	}
	if len(m.Patterns) > 1 {
		return nil, cherr.ErrNotImpl.New("multiple comma-separated patterns in one MATCH clause")
	}

	plan, lastAlias, err := buildPatternPath(m.Patterns[0], m.Optional, ctx)
	if err != nil {
		return nil, err
	}
	_ = lastAlias

	if !m.HasWhere {
		return plan, nil
	}
	pred, err := exprFromCypher(m.Where)
	if err != nil {
		return nil, err
	}
	recordFilterPredicate(ctx, pred)
	return attachWhere(plan, pred), nil
}

// buildPatternPath lowers one `(n1)-[r1]-(n2)-[r2]-(n3)...` chain into a
// left-deep GraphRel tree. Returns the built plan and the alias of the
// final (rightmost) node, matching spec.md §4.1 step 1's left-to-right
// fold: each relationship's Left is the accumulated chain so far.
func buildPatternPath(p cypherast.PatternPath, optional bool, ctx *planctx.PlanCtx) (LogicalPlan, string, error) {
	if len(p.Nodes) != len(p.Rels)+1 {
		return nil, "", cherr.ErrPlanning.New("pattern path node/relationship count mismatch")
	}

	firstAlias, err := buildNodePattern(p.Nodes[0], ctx)
	if err != nil {
		return nil, "", err
	}
	var plan LogicalPlan = &GraphNode{
		Alias:      firstAlias,
		Label:      soleLabel(p.Nodes[0].Labels),
		HasLabel:   len(p.Nodes[0].Labels) > 0,
		IsOptional: optional,
		Input:      &Scan{Label: soleLabel(p.Nodes[0].Labels), Alias: firstAlias},
	}

	leftAlias := firstAlias
	for i, rel := range p.Rels {
		rightNode := p.Nodes[i+1]
		rightAlias, err := buildNodePattern(rightNode, ctx)
		if err != nil {
			return nil, "", err
		}
		rightPlan := LogicalPlan(&GraphNode{
			Alias:      rightAlias,
			Label:      soleLabel(rightNode.Labels),
			HasLabel:   len(rightNode.Labels) > 0,
			IsOptional: optional,
			Input:      &Scan{Label: soleLabel(rightNode.Labels), Alias: rightAlias},
		})

		relAlias := rel.Variable
		if !rel.HasVar {
			relAlias = ctx.NextSynthAlias("r")
		}

		var predicate logicalexpr.LogicalExpr
		hasPredicate := false
		if len(rel.Properties) > 0 {
			pred, err := propertiesToPredicate(relAlias, rel.Properties)
			if err != nil {
				return nil, "", err
			}
			predicate, hasPredicate = pred, true
			recordFilterPredicate(ctx, pred)
		}

		plan = &GraphRel{
			Left:              plan,
			Right:             rightPlan,
			Alias:             relAlias,
			Labels:            rel.Types,
			LeftConnection:    leftAlias,
			RightConnection:   rightAlias,
			Direction:         rel.Direction,
			VariableLength:    rel.VarLength,
			ShortestPathMode:  rel.ShortestMode,
			IsOptional:        optional,
			WherePredicate:    predicate,
			HasWherePredicate: hasPredicate,
		}
		leftAlias = rightAlias
	}

	return plan, leftAlias, nil
}

// buildNodePattern registers a node alias's label set in ctx (intersecting
// on reuse per spec.md §4.1 step 2) and returns its alias, synthesizing one
// if the pattern left it anonymous.
func buildNodePattern(n cypherast.NodePattern, ctx *planctx.PlanCtx) (string, error) {
	alias := n.Variable
	if !n.HasVar {
		alias = ctx.NextSynthAlias("n")
	}
	if !ctx.IntersectLabels(alias, n.Labels) {
		return "", cherr.ErrPlanning.New(fmt.Sprintf("alias %q reused with disjoint label sets", alias))
	}
	return alias, nil
}

func soleLabel(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	return labels[0]
}

func propertiesToPredicate(alias string, props map[string]cypherast.Expression) (logicalexpr.LogicalExpr, error) {
	var conjuncts []logicalexpr.LogicalExpr
	for prop, valExpr := range props {
		val, err := exprFromCypher(valExpr)
		if err != nil {
			return nil, err
		}
		conjuncts = append(conjuncts, logicalexpr.OperatorApplication{
			Operator: logicalexpr.Eq,
			Operands: []logicalexpr.LogicalExpr{
				logicalexpr.PropertyAccess{TableAlias: alias, Property: prop},
				val,
			},
		})
	}
	return logicalexpr.AndAll(conjuncts...), nil
}

// attachWhere decides whether a MATCH clause's WHERE belongs on the
// pattern's outermost (last-built) edge, when that edge's own alias and its
// two endpoint aliases cover every alias the predicate references (folded
// into GraphRel.WherePredicate, avoiding a needless top-level Filter), or
// must wrap the whole pattern in a Filter. Only the outermost edge is
// checked: a predicate touching an alias outside it, or a pattern that is a
// lone node, gets a Filter.
func attachWhere(plan LogicalPlan, pred logicalexpr.LogicalExpr) LogicalPlan {
	refs := collectAliases(pred)
	if rel, ok := plan.(*GraphRel); ok {
		covered := map[string]bool{rel.Alias: true, rel.LeftConnection: true, rel.RightConnection: true}
		if isSubset(refs, covered) {
			combined := rel.WherePredicate
			if rel.HasWherePredicate {
				combined = logicalexpr.AndAll(combined, pred)
			} else {
				combined = pred
			}
			cp := *rel
			cp.WherePredicate = combined
			cp.HasWherePredicate = true
			return &cp
		}
	}
	return &Filter{Input: plan, Predicate: pred}
}

// recordFilterPredicate populates TableCtx.FilterPredicates (spec.md §3)
// for every alias pred touches, splitting a top-level AND into its
// individual conjuncts first so anchor selection's "most filters" count
// (optimizer/anchor_selection.go) reflects one entry per predicate rather
// than one entry for the whole WHERE clause.
func recordFilterPredicate(ctx *planctx.PlanCtx, pred logicalexpr.LogicalExpr) {
	for _, conjunct := range flattenConjuncts(pred) {
		for alias := range logicalexpr.CollectAliases(conjunct) {
			t := ctx.TableFor(alias)
			t.FilterPredicates = append(t.FilterPredicates, conjunct)
		}
	}
}

func flattenConjuncts(e logicalexpr.LogicalExpr) []logicalexpr.LogicalExpr {
	if op, ok := e.(logicalexpr.OperatorApplication); ok && op.Operator == logicalexpr.And {
		var out []logicalexpr.LogicalExpr
		for _, operand := range op.Operands {
			out = append(out, flattenConjuncts(operand)...)
		}
		return out
	}
	return []logicalexpr.LogicalExpr{e}
}

// recordProjectionItem populates TableCtx.ProjectionItems (spec.md §3) with
// every PropertyAccess leaf expr touches, keyed by the alias each one
// reads from. Used for both optimizer/projection_pushdown.go's column list
// and analyzer/graph_join.go's is_referenced computation (spec.md §4.3: a
// pattern alias referenced only by an enclosing RETURN/WHERE/ORDER BY, not
// within the pattern itself, still counts as referenced).
func recordProjectionItem(ctx *planctx.PlanCtx, expr logicalexpr.LogicalExpr) {
	for _, pa := range logicalexpr.CollectPropertyAccesses(expr) {
		t := ctx.TableFor(pa.TableAlias)
		t.ProjectionItems = append(t.ProjectionItems, pa)
	}
}

func isSubset(subset, of map[string]bool) bool {
	for k := range subset {
		if !of[k] {
			return false
		}
	}
	return true
}

// collectAliases walks a LogicalExpr tree and returns the set of table
// aliases it references (PropertyAccess.TableAlias and TableAlias.Name).
func collectAliases(e logicalexpr.LogicalExpr) map[string]bool {
	out := map[string]bool{}
	var walk func(logicalexpr.LogicalExpr)
	walk = func(e logicalexpr.LogicalExpr) {
		if e == nil {
			return
		}
		switch v := e.(type) {
		case logicalexpr.TableAlias:
			out[v.Name] = true
		case logicalexpr.PropertyAccess:
			out[v.TableAlias] = true
		case logicalexpr.OperatorApplication:
			for _, op := range v.Operands {
				walk(op)
			}
		case logicalexpr.ScalarFnCall:
			for _, a := range v.Args {
				walk(a)
			}
		case logicalexpr.AggregateFnCall:
			for _, a := range v.Args {
				walk(a)
			}
		case logicalexpr.List:
			for _, i := range v.Items {
				walk(i)
			}
		case logicalexpr.InList:
			walk(v.Target)
			for _, i := range v.Items {
				walk(i)
			}
		case logicalexpr.Case:
			if v.Expr != nil {
				walk(v.Expr)
			}
			for _, wt := range v.WhenThen {
				walk(wt.When)
				walk(wt.Then)
			}
			if v.Else != nil {
				walk(v.Else)
			}
		}
	}
	walk(e)
	return out
}

// buildWith lowers a WITH clause into a WithClause node over the plan built
// so far, recording its exported aliases for the CTE-entity registry
// (spec.md §3 "CTE-entity registry", populated properly once view
// resolution has run; here it only records the alias names).
func buildWith(plan LogicalPlan, w cypherast.WithClause, ctx *planctx.PlanCtx) (LogicalPlan, error) {
	items, exported, err := buildProjectionItems(w.Items)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		recordProjectionItem(ctx, it.Expression)
	}

	wc := &WithClause{
		Input:           plan,
		Items:           items,
		Distinct:        w.Distinct,
		ExportedAliases: exported,
		CTEName:         ctx.NextSynthAlias("with"),
		HasCTEName:      true,
	}

	for _, s := range w.OrderBy {
		expr, err := exprFromCypher(s.Expression)
		if err != nil {
			return nil, err
		}
		wc.OrderBy = append(wc.OrderBy, SortItem{Expression: expr, Descending: s.Descending})
		recordProjectionItem(ctx, expr)
	}
	if w.HasSkip {
		expr, err := exprFromCypher(w.Skip)
		if err != nil {
			return nil, err
		}
		wc.Skip, wc.HasSkip = expr, true
	}
	if w.HasLimit {
		expr, err := exprFromCypher(w.Limit)
		if err != nil {
			return nil, err
		}
		wc.Limit, wc.HasLimit = expr, true
	}
	if w.HasWhere {
		expr, err := exprFromCypher(w.Where)
		if err != nil {
			return nil, err
		}
		wc.Where, wc.HasWhere = expr, true
		recordFilterPredicate(ctx, expr)
	}
	return wc, nil
}

// buildReturn lowers the terminal RETURN into a Projection, wrapped in
// OrderBy/Skip/Limit as needed (innermost to outermost: Projection, then
// OrderBy, then Skip, then Limit — matching render order in spec.md §4.6).
func buildReturn(plan LogicalPlan, r cypherast.ReturnClause, ctx *planctx.PlanCtx) (LogicalPlan, error) {
	items, _, err := buildProjectionItems(r.Items)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		recordProjectionItem(ctx, it.Expression)
	}
	var out LogicalPlan = &Projection{Input: plan, Items: items, Distinct: r.Distinct}

	if len(r.OrderBy) > 0 {
		ob := &OrderBy{Input: out}
		for _, s := range r.OrderBy {
			expr, err := exprFromCypher(s.Expression)
			if err != nil {
				return nil, err
			}
			ob.Items = append(ob.Items, SortItem{Expression: expr, Descending: s.Descending})
			recordProjectionItem(ctx, expr)
		}
		out = ob
	}
	if r.HasSkip {
		expr, err := exprFromCypher(r.Skip)
		if err != nil {
			return nil, err
		}
		out = &Skip{Input: out, Count: expr}
	}
	if r.HasLimit {
		expr, err := exprFromCypher(r.Limit)
		if err != nil {
			return nil, err
		}
		out = &Limit{Input: out, Count: expr}
	}
	return out, nil
}

func buildProjectionItems(items []cypherast.ProjectionItem) ([]ProjectionItem, []string, error) {
	out := make([]ProjectionItem, 0, len(items))
	var exported []string
	for _, it := range items {
		expr, err := exprFromCypher(it.Expression)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, ProjectionItem{Expression: expr, ColAlias: it.Alias, HasAlias: it.HasAlias})
		if it.HasAlias {
			exported = append(exported, it.Alias)
		} else if v, ok := it.Expression.(cypherast.Variable); ok {
			exported = append(exported, v.Name)
		}
	}
	return out, exported, nil
}

// exprFromCypher translates one cypherast.Expression into its
// logicalexpr.LogicalExpr counterpart. `id(x)` passes through unchanged as
// a ScalarFnCall so analyzer.IDRewrite can find and rewrite it (spec.md
// §4.2 step 4).
func exprFromCypher(e cypherast.Expression) (logicalexpr.LogicalExpr, error) {
	switch v := e.(type) {
	case cypherast.Variable:
		return logicalexpr.TableAlias{Name: v.Name}, nil

	case cypherast.PropertyAccess:
		return logicalexpr.PropertyAccess{TableAlias: v.Variable, Property: v.Property}, nil

	case cypherast.Literal:
		return logicalexpr.Literal{
			Kind:  logicalexpr.LiteralKind(v.Kind),
			Int:   v.Int,
			Float: v.Float,
			Str:   v.Str,
			Bool:  v.Bool,
		}, nil

	case cypherast.Parameter:
		return logicalexpr.Parameter{Name: v.Name}, nil

	case cypherast.BinaryOp:
		left, err := exprFromCypher(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := exprFromCypher(v.Right)
		if err != nil {
			return nil, err
		}
		op, err := mapOperator(v.Op)
		if err != nil {
			return nil, err
		}
		return logicalexpr.OperatorApplication{Operator: op, Operands: []logicalexpr.LogicalExpr{left, right}}, nil

	case cypherast.UnaryOp:
		operand, err := exprFromCypher(v.Operand)
		if err != nil {
			return nil, err
		}
		op, err := mapOperator(v.Op)
		if err != nil {
			return nil, err
		}
		return logicalexpr.OperatorApplication{Operator: op, Operands: []logicalexpr.LogicalExpr{operand}}, nil

	case cypherast.FunctionCall:
		args := make([]logicalexpr.LogicalExpr, 0, len(v.Args))
		for _, a := range v.Args {
			arg, err := exprFromCypher(a)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return logicalexpr.ScalarFnCall{Name: v.Name, Args: args}, nil

	case cypherast.AggregateFunctionCall:
		args := make([]logicalexpr.LogicalExpr, 0, len(v.Args))
		for _, a := range v.Args {
			arg, err := exprFromCypher(a)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return logicalexpr.AggregateFnCall{Name: v.Name, Args: args, Distinct: v.Distinct}, nil

	case cypherast.ListExpr:
		items := make([]logicalexpr.LogicalExpr, 0, len(v.Items))
		for _, i := range v.Items {
			item, err := exprFromCypher(i)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return logicalexpr.List{Items: items}, nil

	case cypherast.CaseExpr:
		c := logicalexpr.Case{}
		if v.HasOperand {
			operand, err := exprFromCypher(v.Operand)
			if err != nil {
				return nil, err
			}
			c.Expr = operand
		}
		for _, wt := range v.WhenThen {
			when, err := exprFromCypher(wt.When)
			if err != nil {
				return nil, err
			}
			then, err := exprFromCypher(wt.Then)
			if err != nil {
				return nil, err
			}
			c.WhenThen = append(c.WhenThen, logicalexpr.WhenThen{When: when, Then: then})
		}
		if v.HasElse {
			elseExpr, err := exprFromCypher(v.Else)
			if err != nil {
				return nil, err
			}
			c.Else = elseExpr
		}
		return c, nil

	case cypherast.InList:
		target, err := exprFromCypher(v.Target)
		if err != nil {
			return nil, err
		}
		items := make([]logicalexpr.LogicalExpr, 0, len(v.Items))
		for _, i := range v.Items {
			item, err := exprFromCypher(i)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return logicalexpr.InList{Target: target, Items: items, Negated: v.Negated}, nil

	default:
		return nil, cherr.ErrPlanning.New(fmt.Sprintf("unrecognized expression type %T", e))
	}
}

func mapOperator(op cypherast.Operator) (logicalexpr.Operator, error) {
	switch op {
	case cypherast.OpAnd:
		return logicalexpr.And, nil
	case cypherast.OpOr:
		return logicalexpr.Or, nil
	case cypherast.OpNot:
		return logicalexpr.Not, nil
	case cypherast.OpEq:
		return logicalexpr.Eq, nil
	case cypherast.OpNeq:
		return logicalexpr.Neq, nil
	case cypherast.OpLt:
		return logicalexpr.Lt, nil
	case cypherast.OpLte:
		return logicalexpr.Lte, nil
	case cypherast.OpGt:
		return logicalexpr.Gt, nil
	case cypherast.OpGte:
		return logicalexpr.Gte, nil
	case cypherast.OpIn:
		return logicalexpr.In, nil
	case cypherast.OpNotIn:
		return logicalexpr.NotIn, nil
	case cypherast.OpAdd:
		return logicalexpr.Add, nil
	case cypherast.OpSub:
		return logicalexpr.Sub, nil
	case cypherast.OpMul:
		return logicalexpr.Mul, nil
	case cypherast.OpDiv:
		return logicalexpr.Div, nil
	case cypherast.OpMod:
		return logicalexpr.Mod, nil
	case cypherast.OpConcat:
		return logicalexpr.Concat, nil
	case cypherast.OpIsNull:
		return logicalexpr.IsNull, nil
	case cypherast.OpIsNotNull:
		return logicalexpr.IsNotNull, nil
	default:
		return 0, cherr.ErrPlanning.New(fmt.Sprintf("unrecognized operator %d", op))
	}
}
