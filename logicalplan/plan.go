// Package logicalplan is the immutable algebra tree the planner builds,
// rewrites, and eventually lowers to a RenderPlan. Grounded on spec.md §3
// "Logical-plan variants" and original_source's
// query_planner/logical_plan/logical_plan.rs.
//
// Nodes are plain Go structs behind pointers; a LogicalPlan value is an
// interface holding one such pointer. Because Go pointers are
// garbage-collected and comparable, two parents can hold the very same
// child pointer with no extra bookkeeping — that is this package's
// equivalent of the Rust original's Arc<LogicalPlan> structural sharing
// (spec.md §9 "Reference-counted plan nodes"). A pass that makes no change
// simply returns the LogicalPlan value it was given; the caller compares
// old == new (pointer identity) to decide whether an ancestor must rebuild.
package logicalplan

import (
	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/cypherast"
	"github.com/cyphersql/graphengine/logicalexpr"
)

// LogicalPlan is the tagged-sum marker interface implemented by every plan
// node variant.
type LogicalPlan interface {
	isLogicalPlan()
	// planKind returns the variant's name ("Scan", "GraphNode", ...).
	planKind() string
}

// ProjectionItem is one `expr [AS alias]` entry in a Projection/WithClause.
type ProjectionItem struct {
	Expression logicalexpr.LogicalExpr
	ColAlias   string
	HasAlias   bool
}

// SortItem is one ORDER BY entry.
type SortItem struct {
	Expression logicalexpr.LogicalExpr
	Descending bool
}

// --- Scan / GraphNode / GraphRel ---------------------------------------

// Scan is a bare label/table reference prior to view resolution
// (spec.md §4.2 step 3 replaces this with a ViewScan).
type Scan struct {
	Label string
	Alias string
}

func (*Scan) isLogicalPlan()   {}
func (*Scan) planKind() string { return "Scan" }

// GraphNode wraps a node pattern occurrence in the tree: its own scan plus
// whatever sits beneath it once resolved.
type GraphNode struct {
	Input            LogicalPlan
	Alias            string
	Label            string
	HasLabel         bool
	IsDenormalized   bool
	IsOptional       bool
	ProjectedColumns []string
	NodeTypes        []string

	// Elided marks an unreferenced chain-terminal endpoint whose own join
	// optimizer.EndpointElision decided to drop (spec.md §4.4 step 1's
	// Standard-strategy elision note). renderplan's emitEdge consults this
	// to skip the endpoint's join while still using its id columns to build
	// the edge-side join condition.
	Elided bool
}

func (*GraphNode) isLogicalPlan()   {}
func (*GraphNode) planKind() string { return "GraphNode" }

// GraphRel is a single relationship pattern edge: `(left)-[alias]-(right)`.
// Canonically it has left/right endpoint subtrees and its own alias/types;
// see spec.md §3's "left-center-right" invariant — GraphRel itself is the
// center, Left/Right are the two endpoint node subtrees.
type GraphRel struct {
	Left  LogicalPlan
	Right LogicalPlan

	Alias          string
	Labels         []string
	LeftConnection string
	RightConnection string
	Direction      cypherast.Direction

	VariableLength   *cypherast.VarLength
	ShortestPathMode cypherast.ShortestPathMode

	IsOptional bool

	WherePredicate    logicalexpr.LogicalExpr
	HasWherePredicate bool

	IsDenormalized bool
}

func (*GraphRel) isLogicalPlan()   {}
func (*GraphRel) planKind() string { return "GraphRel" }

// IsVLP reports whether this edge is a variable-length path.
func (g *GraphRel) IsVLP() bool { return g.VariableLength != nil }

// --- Single-input relational operators ----------------------------------

// Filter applies a predicate over its input.
type Filter struct {
	Input     LogicalPlan
	Predicate logicalexpr.LogicalExpr
}

func (*Filter) isLogicalPlan()   {}
func (*Filter) planKind() string { return "Filter" }

// Projection is the terminal RETURN (or a pushed-down column projection).
type Projection struct {
	Input    LogicalPlan
	Items    []ProjectionItem
	Distinct bool
}

func (*Projection) isLogicalPlan()   {}
func (*Projection) planKind() string { return "Projection" }

// GroupBy synthesizes grouping for mixed aggregate/non-aggregate
// projections (spec.md §4.2 step 6).
type GroupBy struct {
	Input       LogicalPlan
	Expressions []logicalexpr.LogicalExpr
}

func (*GroupBy) isLogicalPlan()   {}
func (*GroupBy) planKind() string { return "GroupBy" }

// OrderBy is an ORDER BY clause.
type OrderBy struct {
	Input LogicalPlan
	Items []SortItem
}

func (*OrderBy) isLogicalPlan()   {}
func (*OrderBy) planKind() string { return "OrderBy" }

// Skip is an OFFSET/SKIP clause.
type Skip struct {
	Input LogicalPlan
	Count logicalexpr.LogicalExpr
}

func (*Skip) isLogicalPlan()   {}
func (*Skip) planKind() string { return "Skip" }

// Limit is a LIMIT clause.
type Limit struct {
	Input LogicalPlan
	Count logicalexpr.LogicalExpr
}

func (*Limit) isLogicalPlan()   {}
func (*Limit) planKind() string { return "Limit" }

// Cte marks a subtree that should render as a named CTE.
type Cte struct {
	Input LogicalPlan
	Name  string
}

func (*Cte) isLogicalPlan()   {}
func (*Cte) planKind() string { return "Cte" }

// GraphJoins wraps a pattern subtree once graph-join inference (spec.md
// §4.3) has resolved it into a join-ready shape; downstream passes treat it
// as an opaque pass-through over Input except where they specifically look
// inside (e.g. render-plan generation).
type GraphJoins struct {
	Input LogicalPlan
	Joins []ResolvedJoin

	// AnchorAlias is the node alias anchor-node selection (optimizer §4.4
	// step 1) picked as the FROM table; Joins is ordered anchor-outward.
	AnchorAlias string
	HasAnchor   bool
}

func (*GraphJoins) isLogicalPlan()   {}
func (*GraphJoins) planKind() string { return "GraphJoins" }

// JoinStrategy is the per-edge strategy graph-join inference selected.
type JoinStrategy int

const (
	StrategyStandard JoinStrategy = iota
	StrategyHalfDenormalized
	StrategyFullyDenormalized
	StrategyPolymorphic
	StrategyEitherUnion
	StrategyMultiTypeUnion
)

// ResolvedJoin is one edge's resolved join shape, the output of §4.3's
// per-edge strategy selection, consumed by render-plan generation (§4.6).
type ResolvedJoin struct {
	EdgeAlias      string
	Strategy       JoinStrategy
	FromAlias      string
	ToAlias        string
	FromIsAnchor   bool
	IsOptional     bool
	SourceTable    string
	UnionCTEName   string
	HasUnionCTE    bool
	Polymorphic    *PolymorphicInfo
}

// PolymorphicInfo carries the discriminator equality filters §4.2 step 7
// injects for a polymorphic relationship.
type PolymorphicInfo struct {
	TypeColumn      string
	RelType         string
	FromLabelColumn string
	FromLabel       string
	HasFromLabel    bool
	ToLabelColumn   string
	ToLabel         string
	HasToLabel      bool
}

// Union is `UNION [ALL]` of several reading-clause pipelines.
type Union struct {
	Inputs []LogicalPlan
	All    bool
}

func (*Union) isLogicalPlan()   {}
func (*Union) planKind() string { return "Union" }

// CartesianProduct is an implicit cross join between disjoint patterns
// sharing no alias (e.g. two separate MATCH clauses without a WHERE join).
type CartesianProduct struct {
	Left  LogicalPlan
	Right LogicalPlan
}

func (*CartesianProduct) isLogicalPlan()   {}
func (*CartesianProduct) planKind() string { return "CartesianProduct" }

// Unwind is an UNWIND clause.
type Unwind struct {
	Input      LogicalPlan
	Expression logicalexpr.LogicalExpr
	Variable   string
}

func (*Unwind) isLogicalPlan()   {}
func (*Unwind) planKind() string { return "Unwind" }

// CTEEntityInfo records, for one alias exported from a CTE, whether it is a
// relation and what labels it carries — consumed by the resolver when a
// downstream reference needs to know what it is looking at.
type CTEEntityInfo struct {
	IsRelation bool
	Labels     []string
}

// WithClause is a WITH clause: a scope boundary (spec.md §4.2 step 2) that
// becomes its own named CTE at render time (§4.6 step 4).
type WithClause struct {
	Input    LogicalPlan
	Items    []ProjectionItem
	Distinct bool
	OrderBy  []SortItem
	HasSkip  bool
	Skip     logicalexpr.LogicalExpr
	HasLimit bool
	Limit    logicalexpr.LogicalExpr
	HasWhere bool
	Where    logicalexpr.LogicalExpr

	ExportedAliases []string
	CTEName         string
	HasCTEName      bool
	CTEReferences   map[string]CTEEntityInfo
}

func (*WithClause) isLogicalPlan()   {}
func (*WithClause) planKind() string { return "WithClause" }

// ViewScan replaces a Scan once view resolution (spec.md §4.2 step 3) has
// bound it to a catalog table.
type ViewScan struct {
	Alias               string
	SourceTable         string
	PropertyMapping     map[string]catalog.PropertyValue
	IDColumns           []string
	ViewParameterNames  []string
	ViewParameterValues map[string]string
	IsDenormalized      bool
	FromNodeProperties  map[string]catalog.PropertyValue
	ToNodeProperties    map[string]catalog.PropertyValue
	ViewFilter          logicalexpr.LogicalExpr
	HasViewFilter       bool
	IsRelation          bool
}

func (*ViewScan) isLogicalPlan()   {}
func (*ViewScan) planKind() string { return "ViewScan" }

// PageRank is the logical plan for `CALL pagerank.graph(...)`
// (spec.md §4 component table; supplemented end-to-end per SPEC_FULL.md §4).
type PageRank struct {
	GraphName         string
	HasGraphName      bool
	Iterations        int
	DampingFactor     float64
	NodeLabels        []string
	RelationshipTypes []string
}

func (*PageRank) isLogicalPlan()   {}
func (*PageRank) planKind() string { return "PageRank" }

// Empty is the plan pruned to nothing; only ever introduced by passes
// (spec.md §3: "Empty is only introduced by passes that prune subtrees").
type Empty struct{}

func (*Empty) isLogicalPlan()   {}
func (*Empty) planKind() string { return "Empty" }
