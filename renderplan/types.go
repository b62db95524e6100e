// Package renderplan is the lowered, SQL-shaped plan that render-plan
// generation (spec.md §4.6) produces from an optimized logical plan: a
// small tree of CTEs feeding one terminal Select, structurally close
// enough to SQL that sqlgen only has to walk it and print text.
package renderplan

import (
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
)

// JoinKind is the SQL join kind a render-plan Join carries; OPTIONAL MATCH
// propagates Left onto every join it introduces (spec.md §4.3 "OPTIONAL
// MATCH").
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
)

// ColumnEquality is one `left_alias.left_column = right_alias.right_column`
// conjunct of a join's on-clause, already resolved to concrete SQL aliases
// and columns (composite ids contribute one ColumnEquality per column,
// spec.md §4.3 "Join key derivation").
type ColumnEquality struct {
	LeftAlias    string
	LeftColumn   string
	RightAlias   string
	RightColumn  string
}

// Join is one `JOIN table_or_cte AS alias ON on_predicate` in a Select's
// join list (spec.md §3 "Render-plan entities").
type Join struct {
	Kind       JoinKind
	TableOrCTE string
	Alias      string

	// OnKeys is the element-wise composite-id equality (spec.md §4.3 "Join
	// key derivation"). Empty for a denormalized join: the endpoint
	// materializes from the edge row itself, needing no on-clause.
	OnKeys []ColumnEquality

	// ExtraOn is an additional predicate folded into the on-clause verbatim
	// (e.g. a type-union CTE's direction/type tag guard).
	ExtraOn    logicalexpr.LogicalExpr
	HasExtraOn bool
}

// CteContent is either a structured Select or a raw SQL string (spec.md
// §3: "content is either a structured Select or a raw SQL string").
type CteContent interface{ isCteContent() }

// StructuredSelect is a Cte whose body is itself a Select.
type StructuredSelect struct{ Select *Select }

func (StructuredSelect) isCteContent() {}

// RawSQL is a Cte body emitted verbatim — used for recursive
// variable-length-path CTEs and UNION-ALL edge-union CTEs (spec.md §4.6
// step 2, §4.3 "Multiple relationship types"/"Either direction"), both of
// which are closer to fixed data-plumbing boilerplate than to
// expression-tree-driven output.
type RawSQL struct{ SQL string }

func (RawSQL) isCteContent() {}

// Cte is one named entry of a RenderPlan's WITH list.
type Cte struct {
	Name    string
	Content CteContent
}

// Select is the structured-query entity (spec.md §3 "Render-plan
// entities"): `{ projections, from_table_with_alias, joins,
// where_predicate, group_by, order_by, skip, limit, distinct }`.
type Select struct {
	Projections []logicalplan.ProjectionItem

	FromTable string
	FromAlias string

	Joins []Join

	WherePredicate logicalexpr.LogicalExpr
	HasWhere       bool

	GroupBy []logicalexpr.LogicalExpr

	OrderBy []logicalplan.SortItem

	HasSkip bool
	Skip    logicalexpr.LogicalExpr

	HasLimit bool
	Limit    logicalexpr.LogicalExpr

	Distinct bool
}

// RenderPlan is the terminal output of render-plan generation (spec.md §3
// "A RenderPlan is { ctes: Vec<Cte>, root: Select }").
type RenderPlan struct {
	Ctes []Cte
	Root *Select
}
