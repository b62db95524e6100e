// Package planctx is the single mutable store threaded through the
// analyzer and optimizer pipelines: per-alias metadata, the typed-variable
// registry, and the cross-cutting registries graph-join inference and the
// resolver depend on. Grounded on spec.md §3 "Plan context entities" and
// §9 Design Notes ("Mutable registries vs passes").
package planctx

import (
	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/logicalexpr"
)

// VariableKind tags what an alias denotes for the result-shaping
// collaborator (out of scope; the registry is handed to it unchanged).
type VariableKind int

const (
	VarNode VariableKind = iota
	VarRelationship
	VarPath
	VarScalar
)

// Variable is one entry of the VariableRegistry.
type Variable struct {
	Kind             VariableKind
	Labels           []string
	RelTypes         []string
	FromLabel        string
	HasFromLabel     bool
	ToLabel          string
	HasToLabel       bool
}

// NodePosition disambiguates which endpoint of a denormalized edge an
// alias currently refers to (spec.md §4.5 AliasMapping.position).
type NodePosition int

const (
	PositionStandalone NodePosition = iota
	PositionFrom
	PositionTo
)

// TableCtx is the per-alias accumulator built up during logical-plan
// construction and consumed by the analyzer/optimizer passes (spec.md §3
// "Plan context entities" / TableCtx).
type TableCtx struct {
	Alias string

	Labels    []string
	HasLabels bool

	IsRelation bool

	FilterPredicates []logicalexpr.LogicalExpr
	ProjectionItems  []logicalexpr.LogicalExpr

	CTEReference   string
	HasCTEReference bool

	FromNodeLabel    string
	HasFromNodeLabel bool
	ToNodeLabel      string
	HasToNodeLabel   bool

	ExplicitAlias bool
}

// DenormAliasEntry is one entry of the denormalized-alias map
// (spec.md §3: node_alias -> (edge_alias, role, inferred_label)).
type DenormAliasEntry struct {
	EdgeAlias     string
	Position      NodePosition
	InferredLabel string
	HasLabel      bool
}

// CTEEntity records, per exported alias of a named CTE, whether it is a
// relation and what labels it carries (spec.md §3 "CTE-entity registry").
type CTEEntity struct {
	IsRelation bool
	Labels     []string
}

// PlanCtx is the single mutable store passed by pointer through every
// analyzer and optimizer pass. It is owned by the planner pipeline for the
// lifetime of one query and dropped once the render plan is emitted.
type PlanCtx struct {
	Tables map[string]*TableCtx

	VariableRegistry map[string]Variable

	// DenormAliases maps a node alias to every edge context in which it is
	// currently resolved through a denormalized edge table. Multi-entry for
	// multi-hop role-dependent resolution (spec.md §4.5).
	DenormAliases map[string][]DenormAliasEntry

	// CTERegistry maps cte_name -> alias -> CTEEntity.
	CTERegistry map[string]map[string]CTEEntity

	// NextSyntheticID is a monotonically increasing counter used to name
	// synthesized relationship aliases and CTEs (spec.md §4.1 step 1:
	// "The relationship's own alias is synthesized if absent").
	NextSyntheticID int

	// ExtractedLabelConstraints records label constraints recovered by
	// id()-rewriting (spec.md §4.2 step 4) for consumption by graph-join
	// inference.
	ExtractedLabelConstraints map[string]string

	MaxInferredTypes int
	MaxCTEDepth      int

	// ViewParameterValues is the caller-supplied `view_parameter_values`
	// option (spec.md §6): parameter name -> value, consulted by sqlgen
	// when a FROM/JOIN target is a parameterized view.
	ViewParameterValues map[string]string

	TenantID    string
	HasTenantID bool

	// Dialect is the target SQL backend (spec.md §6 `dialect`), consulted
	// when rendering dialect-sensitive literals (id()-rewrite's resolved
	// id values, catalog.SchemaType.ToSQLLiteral). Defaults to
	// DialectClickHouse, this engine's primary target.
	Dialect catalog.Dialect

	// ReferencedAliases carries each pattern node alias's is_referenced bit
	// (analyzer/graph_join.go's PatternNodeInfo.IsReferenced, computed
	// against the enclosing RETURN/WHERE/ORDER BY context) forward from the
	// analyzer into the optimizer, for optimizer.EndpointElision's
	// unreferenced-endpoint check (spec.md §4.4 step 1's Standard-strategy
	// elision note). Absent entries are treated as referenced.
	ReferencedAliases map[string]bool
}

// New returns an empty PlanCtx ready for logical-plan construction.
func New(maxCTEDepth int) *PlanCtx {
	if maxCTEDepth <= 0 {
		maxCTEDepth = 100
	}
	return &PlanCtx{
		Tables:                    map[string]*TableCtx{},
		VariableRegistry:          map[string]Variable{},
		DenormAliases:             map[string][]DenormAliasEntry{},
		CTERegistry:               map[string]map[string]CTEEntity{},
		ExtractedLabelConstraints: map[string]string{},
		ViewParameterValues:       map[string]string{},
		ReferencedAliases:         map[string]bool{},
		MaxCTEDepth:               maxCTEDepth,
	}
}

// TableFor returns the TableCtx for alias, creating one if absent.
func (c *PlanCtx) TableFor(alias string) *TableCtx {
	if t, ok := c.Tables[alias]; ok {
		return t
	}
	t := &TableCtx{Alias: alias}
	c.Tables[alias] = t
	return t
}

// IntersectLabels merges newly declared labels into an alias's label set,
// per spec.md §4.1 step 2 ("on subsequent reuse of the alias, intersect
// label sets and reject if empty"). Returns false if the intersection is
// empty (caller raises a PlanningError).
func (c *PlanCtx) IntersectLabels(alias string, labels []string) bool {
	t := c.TableFor(alias)
	if !t.HasLabels {
		t.Labels = append([]string(nil), labels...)
		t.HasLabels = true
		return true
	}
	if len(labels) == 0 {
		return true
	}
	want := map[string]bool{}
	for _, l := range labels {
		want[l] = true
	}
	kept := t.Labels[:0]
	for _, l := range t.Labels {
		if want[l] {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return false
	}
	t.Labels = kept
	return true
}

// NextSynthAlias returns a fresh synthesized alias with the given prefix
// (e.g. "r" for an anonymous relationship pattern).
func (c *PlanCtx) NextSynthAlias(prefix string) string {
	c.NextSyntheticID++
	return synthName(prefix, c.NextSyntheticID)
}

func synthName(prefix string, n int) string {
	const digits = "0123456789"
	if n == 0 {
		return prefix + "0"
	}
	buf := make([]byte, 0, 8)
	for n > 0 {
		buf = append(buf, digits[n%10])
		n /= 10
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return prefix + string(buf)
}

// AddDenormAlias registers that alias currently resolves through edgeAlias
// at the given position.
func (c *PlanCtx) AddDenormAlias(alias, edgeAlias string, pos NodePosition, label string, hasLabel bool) {
	c.DenormAliases[alias] = append(c.DenormAliases[alias], DenormAliasEntry{
		EdgeAlias:     edgeAlias,
		Position:      pos,
		InferredLabel: label,
		HasLabel:      hasLabel,
	})
}

// IsDenormalized reports whether alias has any denormalized-edge binding.
func (c *PlanCtx) IsDenormalized(alias string) bool {
	return len(c.DenormAliases[alias]) > 0
}
