// Package resolver is the single unified component that turns a graph
// alias/property pair into a concrete SQL alias and column/expression,
// across all three schema idioms (spec.md §4.5). Grounded on
// original_source's query_planner/translator/property_resolver.rs,
// carried over near-verbatim in method shape (resolve/get_sql_alias/
// is_denormalized/is_polymorphic) since the Go port needs no structural
// change — the resolver is inert data lookup, not tree rewriting.
package resolver

import (
	"fmt"

	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/internal/cherr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
)

// AliasMapping records one graph-alias-to-SQL-alias binding. For
// denormalized multi-hop patterns the same node alias accumulates one
// AliasMapping per edge it participates in, since the role (and therefore
// the resolved column) differs per edge (spec.md §4.5).
type AliasMapping struct {
	SQLAlias      string
	Position      planctx.NodePosition
	IsDenormalized bool
	IsPolymorphic bool
	EdgeAlias     string
	HasEdgeAlias  bool
	TypeFilters   []string
}

// PropertyResolution is the result of resolving one graph alias/property
// pair: which SQL alias to qualify it with, the column or expression to
// emit, and any extra discriminator filters the caller must fold in.
type PropertyResolution struct {
	TableAlias    string
	PropertyValue catalog.PropertyValue
	TypeFilters   []string
	GraphAlias    string
	PropertyName  string
}

// PropertyResolver is the single unified component all property/alias
// resolution during render-plan generation flows through (spec.md §4.5).
type PropertyResolver struct {
	viewScans     map[string]*logicalplan.ViewScan
	aliasMappings map[string][]AliasMapping
}

// New returns an empty PropertyResolver.
func New() *PropertyResolver {
	return &PropertyResolver{
		viewScans:     map[string]*logicalplan.ViewScan{},
		aliasMappings: map[string][]AliasMapping{},
	}
}

// RegisterViewScan associates a graph alias with the ViewScan metadata
// (table name, property mappings, denormalized/polymorphic flags) the
// analyzer's view-resolution pass bound it to.
func (r *PropertyResolver) RegisterViewScan(graphAlias string, vs *logicalplan.ViewScan) {
	r.viewScans[graphAlias] = vs
}

// RegisterAlias adds one AliasMapping for graphAlias. Call this more than
// once for the same alias when it is a denormalized node appearing in
// multiple edges with different roles.
func (r *PropertyResolver) RegisterAlias(graphAlias string, mapping AliasMapping) {
	r.aliasMappings[graphAlias] = append(r.aliasMappings[graphAlias], mapping)
}

// ResolveProperty resolves graphAlias.property to a concrete SQL alias and
// column/expression. edgeContext disambiguates which role a denormalized
// multi-hop node is being accessed through; pass "" (hasEdgeContext=false)
// when the caller has no edge in scope.
func (r *PropertyResolver) ResolveProperty(graphAlias, property, edgeContext string, hasEdgeContext bool) (PropertyResolution, error) {
	vs, ok := r.viewScans[graphAlias]
	if !ok {
		return PropertyResolution{}, cherr.ErrResolver.New(fmt.Sprintf("no ViewScan registered for graph alias %q", graphAlias))
	}

	mappings, ok := r.aliasMappings[graphAlias]
	if !ok || len(mappings) == 0 {
		return PropertyResolution{}, cherr.ErrResolver.New(fmt.Sprintf("no alias mapping found for graph alias %q", graphAlias))
	}

	var mapping AliasMapping
	if vs.IsDenormalized && hasEdgeContext {
		found := false
		for _, m := range mappings {
			if m.HasEdgeAlias && m.EdgeAlias == edgeContext {
				mapping = m
				found = true
				break
			}
		}
		if !found {
			return PropertyResolution{}, cherr.ErrResolver.New(fmt.Sprintf("no alias mapping found for node %q in edge context %q", graphAlias, edgeContext))
		}
	} else {
		mapping = mappings[0]
	}

	var value catalog.PropertyValue
	var err error
	if vs.IsDenormalized {
		value, err = resolveDenormalizedProperty(vs, property, mapping.Position)
	} else {
		value, err = resolveStandardProperty(vs, property)
	}
	if err != nil {
		return PropertyResolution{}, err
	}

	return PropertyResolution{
		TableAlias:    mapping.SQLAlias,
		PropertyValue: value,
		TypeFilters:   mapping.TypeFilters,
		GraphAlias:    graphAlias,
		PropertyName:  property,
	}, nil
}

func resolveStandardProperty(vs *logicalplan.ViewScan, property string) (catalog.PropertyValue, error) {
	v, ok := vs.PropertyMapping[property]
	if !ok {
		return catalog.PropertyValue{}, cherr.ErrResolver.New(fmt.Sprintf("property %q not found in property_mapping for table %q", property, vs.SourceTable))
	}
	return v, nil
}

func resolveDenormalizedProperty(vs *logicalplan.ViewScan, property string, pos planctx.NodePosition) (catalog.PropertyValue, error) {
	switch pos {
	case planctx.PositionFrom:
		v, ok := vs.FromNodeProperties[property]
		if !ok {
			return catalog.PropertyValue{}, cherr.ErrResolver.New(fmt.Sprintf("property %q not found in from_node_properties for denormalized table %q", property, vs.SourceTable))
		}
		return v, nil
	case planctx.PositionTo:
		v, ok := vs.ToNodeProperties[property]
		if !ok {
			return catalog.PropertyValue{}, cherr.ErrResolver.New(fmt.Sprintf("property %q not found in to_node_properties for denormalized table %q", property, vs.SourceTable))
		}
		return v, nil
	default:
		return catalog.PropertyValue{}, cherr.ErrResolver.New(fmt.Sprintf("denormalized node %q cannot have standalone position", vs.SourceTable))
	}
}

// GetSQLAlias is a convenience lookup for code that only needs the SQL
// alias, not a full property resolution.
func (r *PropertyResolver) GetSQLAlias(graphAlias, edgeContext string, hasEdgeContext bool) (string, error) {
	mappings, ok := r.aliasMappings[graphAlias]
	if !ok || len(mappings) == 0 {
		return "", cherr.ErrResolver.New(fmt.Sprintf("no alias mapping found for graph alias %q", graphAlias))
	}
	if hasEdgeContext {
		for _, m := range mappings {
			if m.HasEdgeAlias && m.EdgeAlias == edgeContext {
				return m.SQLAlias, nil
			}
		}
		return "", cherr.ErrResolver.New(fmt.Sprintf("no alias mapping found for %q in edge context %q", graphAlias, edgeContext))
	}
	return mappings[0].SQLAlias, nil
}

// GetViewScan returns the ViewScan registered for graphAlias, if any.
func (r *PropertyResolver) GetViewScan(graphAlias string) (*logicalplan.ViewScan, bool) {
	vs, ok := r.viewScans[graphAlias]
	return vs, ok
}

// IsDenormalized reports whether graphAlias's registered ViewScan is
// denormalized.
func (r *PropertyResolver) IsDenormalized(graphAlias string) bool {
	vs, ok := r.viewScans[graphAlias]
	return ok && vs.IsDenormalized
}

// IsPolymorphic reports whether graphAlias's first alias mapping is
// polymorphic.
func (r *PropertyResolver) IsPolymorphic(graphAlias string) bool {
	mappings, ok := r.aliasMappings[graphAlias]
	if !ok || len(mappings) == 0 {
		return false
	}
	return mappings[0].IsPolymorphic
}

// Rebind replaces graphAlias's alias mappings with a single mapping bound
// to sqlAlias, carrying over the denormalized/polymorphic flags of its
// first existing mapping (if any) but dropping edge-context
// disambiguation. Used when a WITH clause re-exposes an alias through a
// new CTE: the alias's SQL identity changes, what it denotes does not, and
// the CTE's single output column collapses any multi-hop role-dependent
// distinction the alias previously carried.
func (r *PropertyResolver) Rebind(graphAlias, sqlAlias string) {
	var carry AliasMapping
	if existing := r.aliasMappings[graphAlias]; len(existing) > 0 {
		carry = existing[0]
	}
	carry.SQLAlias = sqlAlias
	carry.EdgeAlias = ""
	carry.HasEdgeAlias = false
	r.aliasMappings[graphAlias] = []AliasMapping{carry}
}

// ResolveIDColumns resolves the synthetic id() placeholders
// analyzer.IDRewrite left behind (analyzer.IDPlaceholderProperty /
// idColumnPlaceholder "__id0", "__id1", ...) into the real composite
// id-column PropertyValues for a node's backing table, in catalog column
// order. The analyzer only has the alias at rewrite time; by render time
// the ViewScan's IDColumns are known, so this step belongs here.
func (r *PropertyResolver) ResolveIDColumns(graphAlias string) ([]catalog.PropertyValue, error) {
	vs, ok := r.viewScans[graphAlias]
	if !ok {
		return nil, cherr.ErrResolver.New(fmt.Sprintf("no ViewScan registered for graph alias %q", graphAlias))
	}
	out := make([]catalog.PropertyValue, len(vs.IDColumns))
	for i, col := range vs.IDColumns {
		out[i] = catalog.NewColumn(col)
	}
	return out, nil
}
