// Package catalog is the in-memory representation of the YAML graph
// mapping: for each label/type, the backing table, id column(s), property
// mapping, and (for the denormalized/polymorphic idioms) the extra
// metadata the planner needs. Loading is an external collaborator's job in
// production (spec.md §1 Out of scope), but the shape is specified here
// because the core reads it, grounded on
// original_source/src/server/graph_catalog.rs.
package catalog

// NodeMapping describes how a node label maps onto a physical table.
type NodeMapping struct {
	Label             string
	Table             string
	IDColumns         []string
	IDType            SchemaType
	PropertyMappings  map[string]PropertyValue
	ViewParameters    []string
	Filter            string
	HasFilter         bool
	Denormalized      bool
}

// RelationshipMapping describes how a relationship type maps onto a
// physical table, covering all three schema idioms (standard,
// denormalized, polymorphic).
type RelationshipMapping struct {
	Type             string
	Table            string
	FromLabel        string
	FromIDColumns    []string
	ToLabel          string
	ToIDColumns      []string
	PropertyMappings map[string]PropertyValue
	ViewParameters   []string

	// Polymorphic discriminators. Present only on polymorphic edge tables.
	TypeColumn      string
	HasTypeColumn   bool
	FromLabelColumn string
	HasFromLabelCol bool
	ToLabelColumn   string
	HasToLabelCol   bool

	// Denormalized endpoint property maps. Present only on denormalized
	// edge tables, where the edge row also carries endpoint-node columns.
	FromNodeProperties map[string]PropertyValue
	ToNodeProperties   map[string]PropertyValue

	// Symmetric, when true, tells Either-direction rendering to dedupe the
	// UNION ALL CTE to one row per undirected edge (DESIGN.md Open Question
	// 1). When false (the default), both directions are kept verbatim.
	Symmetric bool
}

// IsPolymorphic reports whether this relationship's backing table is
// shared by multiple relationship types (discriminated by TypeColumn).
func (r *RelationshipMapping) IsPolymorphic() bool {
	return r.HasTypeColumn
}

// IsDenormalized reports whether this relationship's backing table also
// stores endpoint-node properties directly on the edge row.
func (r *RelationshipMapping) IsDenormalized() bool {
	return r.FromNodeProperties != nil || r.ToNodeProperties != nil
}

// Catalog is the fully-resolved graph-to-SQL mapping for one schema.
type Catalog struct {
	Name          string
	Nodes         map[string]*NodeMapping
	Relationships map[string]*RelationshipMapping
}

// NewCatalog builds an empty catalog with the given schema name.
func NewCatalog(name string) *Catalog {
	return &Catalog{
		Name:          name,
		Nodes:         make(map[string]*NodeMapping),
		Relationships: make(map[string]*RelationshipMapping),
	}
}

// NodeByLabel looks up a node mapping by label.
func (c *Catalog) NodeByLabel(label string) (*NodeMapping, bool) {
	n, ok := c.Nodes[label]
	return n, ok
}

// RelationshipByType looks up a relationship mapping by type.
func (c *Catalog) RelationshipByType(relType string) (*RelationshipMapping, bool) {
	r, ok := c.Relationships[relType]
	return r, ok
}

// PolymorphicRelationshipsOnTable returns every relationship type mapped
// onto the given table, used when a single polymorphic table backs several
// relationship types discriminated by TypeColumn.
func (c *Catalog) PolymorphicRelationshipsOnTable(table string) []*RelationshipMapping {
	var out []*RelationshipMapping
	for _, r := range c.Relationships {
		if r.Table == table {
			out = append(out, r)
		}
	}
	return out
}
