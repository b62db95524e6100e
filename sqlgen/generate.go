// Package sqlgen walks a renderplan.RenderPlan and prints SQL text
// (spec.md §4.7 "SQL generation"). It is the last stage of the pipeline.
// A property access the resolver cannot resolve is printed as
// alias.property rather than rejected; the errors this package returns
// come from shapes it cannot print (an unknown CTE content kind, an
// unsupported expression or operator, a join with no on-clause conjuncts)
// and from hashing the render plan in CacheKey.
//
// Grounded on original_source's query_planner/sql_generator.rs for the
// parameterized-view call syntax and the recursive-CTE prefix rule; the
// expression printer follows the same shape as the teacher's
// sql.Expression.String() implementations (sql/expression/*.go) — one
// switch arm per node kind, each producing its own fragment and leaving
// composition to the caller.
package sqlgen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/hashstructure"

	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/internal/cherr"
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/renderplan"
	"github.com/cyphersql/graphengine/resolver"
)

// EmitSQL renders rp to a single SQL statement (spec.md §4.7). res must be
// the same resolver renderplan.Generate populated; cat and ctx supply the
// parameterized-view call syntax and recursion depth respectively.
func EmitSQL(rp *renderplan.RenderPlan, res *resolver.PropertyResolver, cat *catalog.Catalog, ctx *planctx.PlanCtx) (string, error) {
	g := &generator{res: res, cat: cat, ctx: ctx}
	return g.emit(rp)
}

// CacheKey returns a stable hash of rp suitable as the `(normalized_cypher,
// schema_name)` key the external query-template cache expects (spec.md
// §5). The render plan, not the raw Cypher text, is hashed: two
// syntactically different queries that optimize to the same plan shape
// collapse to one cache entry, which is the whole point of caching after
// planning rather than before it.
func CacheKey(rp *renderplan.RenderPlan, schemaName string) (string, error) {
	h, err := hashstructure.Hash(struct {
		Plan   *renderplan.RenderPlan
		Schema string
	}{rp, schemaName}, nil)
	if err != nil {
		return "", cherr.ErrRender.New(fmt.Sprintf("sql generation: hashing render plan: %s", err))
	}
	return strconv.FormatUint(h, 16), nil
}

type generator struct {
	res *resolver.PropertyResolver
	cat *catalog.Catalog
	ctx *planctx.PlanCtx
}

func (g *generator) emit(rp *renderplan.RenderPlan) (string, error) {
	var b strings.Builder

	if len(rp.Ctes) > 0 {
		recursive := false
		defs := make([]string, 0, len(rp.Ctes))
		for _, c := range rp.Ctes {
			def, isRecursive, err := g.renderCte(c)
			if err != nil {
				return "", err
			}
			recursive = recursive || isRecursive
			defs = append(defs, def)
		}
		if recursive {
			b.WriteString("WITH RECURSIVE ")
		} else {
			b.WriteString("WITH ")
		}
		b.WriteString(strings.Join(defs, ",\n"))
		b.WriteString("\n")
	}

	rootSQL, err := g.renderSelect(rp.Root)
	if err != nil {
		return "", err
	}
	b.WriteString(rootSQL)
	return b.String(), nil
}

// renderCte prints one named CTE. A RawSQL body is considered recursive
// (and forces WITH RECURSIVE for the whole statement) when it references
// its own name — renderplan.emitVLPEdge's recursive step always joins the
// CTE against itself this way, so a literal substring check is enough to
// detect it without re-parsing the body.
func (g *generator) renderCte(c renderplan.Cte) (string, bool, error) {
	switch body := c.Content.(type) {
	case renderplan.RawSQL:
		return fmt.Sprintf("%s AS (\n%s\n)", c.Name, body.SQL), strings.Contains(body.SQL, c.Name), nil
	case renderplan.StructuredSelect:
		sel, err := g.renderSelect(body.Select)
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("%s AS (\n%s\n)", c.Name, sel), false, nil
	default:
		return "", false, cherr.ErrRender.New(fmt.Sprintf("sql generation: unknown CTE content %T for %q", c.Content, c.Name))
	}
}

func (g *generator) renderSelect(sel *renderplan.Select) (string, error) {
	var b strings.Builder
	b.WriteString("SELECT ")
	if sel.Distinct {
		b.WriteString("DISTINCT ")
	}

	if len(sel.Projections) == 0 {
		b.WriteString("*")
	} else {
		items := make([]string, len(sel.Projections))
		for i, p := range sel.Projections {
			expr, err := g.renderExpr(p.Expression)
			if err != nil {
				return "", err
			}
			if p.HasAlias {
				expr = expr + " AS " + p.ColAlias
			}
			items[i] = expr
		}
		b.WriteString(strings.Join(items, ", "))
	}

	b.WriteString("\nFROM ")
	b.WriteString(g.renderTableRef(sel.FromTable, sel.FromAlias))

	for _, j := range sel.Joins {
		joinSQL, err := g.renderJoin(j)
		if err != nil {
			return "", err
		}
		b.WriteString("\n")
		b.WriteString(joinSQL)
	}

	if sel.HasWhere {
		where, err := g.renderExpr(sel.WherePredicate)
		if err != nil {
			return "", err
		}
		b.WriteString("\nWHERE ")
		b.WriteString(where)
	}

	if len(sel.GroupBy) > 0 {
		items := make([]string, len(sel.GroupBy))
		for i, e := range sel.GroupBy {
			expr, err := g.renderExpr(e)
			if err != nil {
				return "", err
			}
			items[i] = expr
		}
		b.WriteString("\nGROUP BY ")
		b.WriteString(strings.Join(items, ", "))
	}

	if len(sel.OrderBy) > 0 {
		items := make([]string, len(sel.OrderBy))
		for i, s := range sel.OrderBy {
			expr, err := g.renderExpr(s.Expression)
			if err != nil {
				return "", err
			}
			if s.Descending {
				expr += " DESC"
			}
			items[i] = expr
		}
		b.WriteString("\nORDER BY ")
		b.WriteString(strings.Join(items, ", "))
	}

	if sel.HasLimit {
		limit, err := g.renderExpr(sel.Limit)
		if err != nil {
			return "", err
		}
		b.WriteString("\nLIMIT ")
		b.WriteString(limit)
	}

	if sel.HasSkip {
		skip, err := g.renderExpr(sel.Skip)
		if err != nil {
			return "", err
		}
		b.WriteString("\nOFFSET ")
		b.WriteString(skip)
	}

	return b.String(), nil
}

// renderTableRef prints `table AS alias`, or `view_name(param1='v1', ...)
// AS alias` when table is a parameterized view and the caller's
// view_parameter_values option supplied values for it (spec.md §4.7,
// §6 `view_parameter_values`).
func (g *generator) renderTableRef(table, alias string) string {
	params := g.viewParamsFor(table)
	if len(params) == 0 {
		return fmt.Sprintf("%s AS %s", table, alias)
	}

	params = append([]string(nil), params...)
	sort.Strings(params)
	var args []string
	for _, p := range params {
		v, ok := g.ctx.ViewParameterValues[p]
		if !ok {
			continue
		}
		args = append(args, fmt.Sprintf("%s=%s", p, quoteSQLLiteral(v)))
	}
	if len(args) == 0 {
		return fmt.Sprintf("%s AS %s", table, alias)
	}
	return fmt.Sprintf("%s(%s) AS %s", table, strings.Join(args, ", "), alias)
}

func (g *generator) viewParamsFor(table string) []string {
	if g.cat == nil || g.ctx == nil {
		return nil
	}
	for _, n := range g.cat.Nodes {
		if n.Table == table && len(n.ViewParameters) > 0 {
			return n.ViewParameters
		}
	}
	for _, r := range g.cat.Relationships {
		if r.Table == table && len(r.ViewParameters) > 0 {
			return r.ViewParameters
		}
	}
	return nil
}

func (g *generator) renderJoin(j renderplan.Join) (string, error) {
	kind := "JOIN"
	if j.Kind == renderplan.LeftJoin {
		kind = "LEFT JOIN"
	}

	conds := make([]string, 0, len(j.OnKeys)+1)
	for _, eq := range j.OnKeys {
		conds = append(conds, fmt.Sprintf("%s.%s = %s.%s", eq.LeftAlias, eq.LeftColumn, eq.RightAlias, eq.RightColumn))
	}
	if j.HasExtraOn {
		extra, err := g.renderExpr(j.ExtraOn)
		if err != nil {
			return "", err
		}
		conds = append(conds, extra)
	}
	if len(conds) == 0 {
		return "", cherr.ErrRender.New(fmt.Sprintf("sql generation: join on alias %q has no on-clause conjuncts", j.Alias))
	}

	return fmt.Sprintf("%s %s ON %s", kind, g.renderTableRef(j.TableOrCTE, j.Alias), strings.Join(conds, " AND ")), nil
}

func (g *generator) renderExpr(e logicalexpr.LogicalExpr) (string, error) {
	switch expr := e.(type) {
	case logicalexpr.TableAlias:
		return expr.Name, nil

	case logicalexpr.PropertyAccess:
		return g.renderPropertyAccess(expr)

	case logicalexpr.Literal:
		return renderLiteral(expr), nil

	case logicalexpr.RawLiteral:
		return expr.SQL, nil

	case logicalexpr.Parameter:
		return ":" + expr.Name, nil

	case logicalexpr.OperatorApplication:
		return g.renderOperatorApplication(expr)

	case logicalexpr.ScalarFnCall:
		args, err := g.renderExprList(expr.Args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", expr.Name, strings.Join(args, ", ")), nil

	case logicalexpr.AggregateFnCall:
		args, err := g.renderExprList(expr.Args)
		if err != nil {
			return "", err
		}
		distinct := ""
		if expr.Distinct {
			distinct = "DISTINCT "
		}
		return fmt.Sprintf("%s(%s%s)", expr.Name, distinct, strings.Join(args, ", ")), nil

	case logicalexpr.List:
		items, err := g.renderExprList(expr.Items)
		if err != nil {
			return "", err
		}
		return "(" + strings.Join(items, ", ") + ")", nil

	case logicalexpr.InList:
		target, err := g.renderExpr(expr.Target)
		if err != nil {
			return "", err
		}
		items, err := g.renderExprList(expr.Items)
		if err != nil {
			return "", err
		}
		op := "IN"
		if expr.Negated {
			op = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", target, op, strings.Join(items, ", ")), nil

	case logicalexpr.Case:
		return g.renderCase(expr)

	default:
		return "", cherr.ErrRender.New(fmt.Sprintf("sql generation: unsupported expression %T", e))
	}
}

func (g *generator) renderExprList(exprs []logicalexpr.LogicalExpr) ([]string, error) {
	out := make([]string, len(exprs))
	for i, e := range exprs {
		s, err := g.renderExpr(e)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// renderPropertyAccess resolves alias.property through the shared
// resolver first. Discriminator conjuncts the polymorphic-filter analyzer
// pass injects (analyzer/polymorphic_filter.go) carry a raw SQL column
// name that was never registered as a graph property, so a resolver miss
// falls back to qualifying the access directly — the access is already at
// the SQL level, not the graph level, by construction. A synthetic id()
// placeholder ("__id0", "__id1", ..., left by analyzer.IDRewrite) is
// replaced by the alias's i'th id column from resolver.ResolveIDColumns.
func (g *generator) renderPropertyAccess(expr logicalexpr.PropertyAccess) (string, error) {
	res, err := g.res.ResolveProperty(expr.TableAlias, expr.Property, expr.EdgeContext, expr.HasEdgeCtx)
	if err == nil {
		return res.PropertyValue.SQL(res.TableAlias), nil
	}
	if strings.HasPrefix(expr.Property, "__id") {
		if i, convErr := strconv.Atoi(strings.TrimPrefix(expr.Property, "__id")); convErr == nil {
			cols, colErr := g.res.ResolveIDColumns(expr.TableAlias)
			sqlAlias, aliasErr := g.res.GetSQLAlias(expr.TableAlias, "", false)
			if colErr == nil && aliasErr == nil && i >= 0 && i < len(cols) {
				return cols[i].SQL(sqlAlias), nil
			}
		}
	}
	return expr.TableAlias + "." + expr.Property, nil
}

func (g *generator) renderOperatorApplication(expr logicalexpr.OperatorApplication) (string, error) {
	switch expr.Operator {
	case logicalexpr.Not:
		operand, err := g.renderExpr(expr.Operands[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("NOT (%s)", operand), nil

	case logicalexpr.IsNull, logicalexpr.IsNotNull:
		operand, err := g.renderExpr(expr.Operands[0])
		if err != nil {
			return "", err
		}
		suffix := "IS NULL"
		if expr.Operator == logicalexpr.IsNotNull {
			suffix = "IS NOT NULL"
		}
		return fmt.Sprintf("%s %s", operand, suffix), nil

	case logicalexpr.And, logicalexpr.Or:
		sep := " AND "
		if expr.Operator == logicalexpr.Or {
			sep = " OR "
		}
		parts, err := g.renderExprList(expr.Operands)
		if err != nil {
			return "", err
		}
		for i, p := range parts {
			parts[i] = "(" + p + ")"
		}
		return strings.Join(parts, sep), nil

	case logicalexpr.Concat:
		args, err := g.renderExprList(expr.Operands)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("CONCAT(%s)", strings.Join(args, ", ")), nil

	default:
		sym, ok := binaryOperatorSymbol(expr.Operator)
		if !ok {
			return "", cherr.ErrRender.New(fmt.Sprintf("sql generation: unsupported operator %d", expr.Operator))
		}
		if len(expr.Operands) != 2 {
			return "", cherr.ErrRender.New(fmt.Sprintf("sql generation: operator %q expects 2 operands, got %d", sym, len(expr.Operands)))
		}
		left, err := g.renderExpr(expr.Operands[0])
		if err != nil {
			return "", err
		}
		right, err := g.renderExpr(expr.Operands[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", left, sym, right), nil
	}
}

func binaryOperatorSymbol(op logicalexpr.Operator) (string, bool) {
	switch op {
	case logicalexpr.Eq:
		return "=", true
	case logicalexpr.Neq:
		return "<>", true
	case logicalexpr.Lt:
		return "<", true
	case logicalexpr.Lte:
		return "<=", true
	case logicalexpr.Gt:
		return ">", true
	case logicalexpr.Gte:
		return ">=", true
	case logicalexpr.Add:
		return "+", true
	case logicalexpr.Sub:
		return "-", true
	case logicalexpr.Mul:
		return "*", true
	case logicalexpr.Div:
		return "/", true
	case logicalexpr.Mod:
		return "%", true
	default:
		return "", false
	}
}

func (g *generator) renderCase(expr logicalexpr.Case) (string, error) {
	var b strings.Builder
	b.WriteString("CASE")
	if expr.Expr != nil {
		s, err := g.renderExpr(expr.Expr)
		if err != nil {
			return "", err
		}
		b.WriteString(" " + s)
	}
	for _, wt := range expr.WhenThen {
		when, err := g.renderExpr(wt.When)
		if err != nil {
			return "", err
		}
		then, err := g.renderExpr(wt.Then)
		if err != nil {
			return "", err
		}
		b.WriteString(fmt.Sprintf(" WHEN %s THEN %s", when, then))
	}
	if expr.Else != nil {
		s, err := g.renderExpr(expr.Else)
		if err != nil {
			return "", err
		}
		b.WriteString(" ELSE " + s)
	}
	b.WriteString(" END")
	return b.String(), nil
}

func renderLiteral(l logicalexpr.Literal) string {
	switch l.Kind {
	case logicalexpr.LitString:
		return quoteSQLLiteral(l.Str)
	case logicalexpr.LitInteger:
		return strconv.FormatInt(l.Int, 10)
	case logicalexpr.LitFloat:
		return strconv.FormatFloat(l.Float, 'g', -1, 64)
	case logicalexpr.LitBool:
		if l.Bool {
			return "TRUE"
		}
		return "FALSE"
	case logicalexpr.LitNull:
		return "NULL"
	default:
		return "NULL"
	}
}

func quoteSQLLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
