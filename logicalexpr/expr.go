// Package logicalexpr is the planner-internal expression representation,
// grounded on original_source/src/query_planner/logical_expr.rs. Unlike
// cypherast.Expression (the raw parser output), LogicalExpr nodes carry the
// alias/property shape the analyzer and resolver operate on directly, and
// gain an optional edge context used to disambiguate denormalized
// multi-hop property access (spec.md §4.5).
package logicalexpr

// Operator mirrors cypherast.Operator; kept as a separate type so this
// package has no dependency on cypherast (the planner is the only thing
// that translates between the two).
type Operator int

const (
	And Operator = iota
	Or
	Not
	Eq
	Neq
	Lt
	Lte
	Gt
	Gte
	In
	NotIn
	Add
	Sub
	Mul
	Div
	Mod
	Concat
	IsNull
	IsNotNull
)

// LogicalExpr is any resolved planner-internal expression.
type LogicalExpr interface {
	isLogicalExpr()
}

// TableAlias references a bare pattern alias (e.g. the "n" in `RETURN n`).
type TableAlias struct {
	Name string
}

func (TableAlias) isLogicalExpr() {}

// PropertyAccess is `alias.property`, optionally scoped to an edge context
// for denormalized multi-hop disambiguation (spec.md §4.5: the same node
// alias can resolve to two different columns depending which edge it is
// accessed through).
type PropertyAccess struct {
	TableAlias  string
	Property    string
	EdgeContext string
	HasEdgeCtx  bool
}

func (PropertyAccess) isLogicalExpr() {}

// LiteralKind tags the variant held by a Literal.
type LiteralKind int

const (
	LitInteger LiteralKind = iota
	LitFloat
	LitString
	LitBool
	LitNull
)

// Literal is a constant value.
type Literal struct {
	Kind  LiteralKind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

func (Literal) isLogicalExpr() {}

// RawLiteral is a SQL literal already rendered to dialect-correct text
// (e.g. by catalog.SchemaType.ToSQLLiteral) — printed verbatim by sqlgen
// rather than re-quoted. Used where the value's real catalog type, not
// just its Cypher literal kind, determines how it must render.
type RawLiteral struct {
	SQL string
}

func (RawLiteral) isLogicalExpr() {}

// Parameter is a `$name` bind parameter.
type Parameter struct {
	Name string
}

func (Parameter) isLogicalExpr() {}

// OperatorApplication applies an operator to one or more operands (binary
// operators use two operands, NOT/IS NULL/IS NOT NULL use one, AND/OR used
// after simplification may hold more than two thanks to flattening).
type OperatorApplication struct {
	Operator Operator
	Operands []LogicalExpr
}

func (OperatorApplication) isLogicalExpr() {}

// ScalarFnCall is a scalar function invocation.
type ScalarFnCall struct {
	Name string
	Args []LogicalExpr
}

func (ScalarFnCall) isLogicalExpr() {}

// AggregateFnCall is an aggregate function invocation.
type AggregateFnCall struct {
	Name     string
	Args     []LogicalExpr
	Distinct bool
}

func (AggregateFnCall) isLogicalExpr() {}

// List is a list literal/expression.
type List struct {
	Items []LogicalExpr
}

func (List) isLogicalExpr() {}

// WhenThen is one arm of a Case expression.
type WhenThen struct {
	When LogicalExpr
	Then LogicalExpr
}

// Case is a CASE expression.
type Case struct {
	Expr     LogicalExpr // nil if searched-CASE form
	WhenThen []WhenThen
	Else     LogicalExpr // nil if no ELSE
}

func (Case) isLogicalExpr() {}

// InList is `target IN (items...)`, possibly negated. Kept distinct from a
// generic OperatorApplication so the id()-rewrite pass (spec.md §4.2 step 4)
// can special-case empty-list semantics directly.
type InList struct {
	Target  LogicalExpr
	Items   []LogicalExpr
	Negated bool
}

func (InList) isLogicalExpr() {}

// BoolLiteral is a convenience constructor often produced by rewrites
// (e.g. `id(v) IN []` collapsing to FALSE).
func BoolLiteral(v bool) LogicalExpr {
	return Literal{Kind: LitBool, Bool: v}
}

// AndAll builds a conjunction of the non-nil exprs; passing zero (or only
// nil) expressions yields the TRUE literal, one expression returns it
// unchanged. Operands that are themselves ANDs are kept as they are, not
// flattened.
func AndAll(exprs ...LogicalExpr) LogicalExpr {
	filtered := make([]LogicalExpr, 0, len(exprs))
	for _, e := range exprs {
		if e == nil {
			continue
		}
		filtered = append(filtered, e)
	}
	switch len(filtered) {
	case 0:
		return Literal{Kind: LitBool, Bool: true}
	case 1:
		return filtered[0]
	default:
		return OperatorApplication{Operator: And, Operands: filtered}
	}
}
