package catalog

import (
	"fmt"

	"github.com/cyphersql/graphengine/internal/cherr"
)

// Validate checks the catalog invariants from spec.md §3: every
// relationship's endpoint labels resolve to node mappings; no node and
// relationship share a mapping name unless the relationship is
// denormalized onto the node's table; id-column arity matches across join
// endpoints.
func (c *Catalog) Validate() error {
	for relType, rel := range c.Relationships {
		fromNode, ok := c.Nodes[rel.FromLabel]
		if !ok {
			return cherr.ErrCatalog.New(fmt.Sprintf("relationship %q: unknown from_label %q", relType, rel.FromLabel))
		}
		toNode, ok := c.Nodes[rel.ToLabel]
		if !ok {
			return cherr.ErrCatalog.New(fmt.Sprintf("relationship %q: unknown to_label %q", relType, rel.ToLabel))
		}

		if rel.IsDenormalized() {
			if len(rel.FromIDColumns) != 0 && fromNode.Table == rel.Table && fromNode.Label != relType {
				// endpoint node shares the edge's own table: fine, that is what
				// "denormalized onto the node's table" means.
			}
		} else {
			if len(rel.FromIDColumns) != len(fromNode.IDColumns) {
				return cherr.ErrCatalog.New(fmt.Sprintf(
					"relationship %q: from_id arity %d does not match node %q id arity %d",
					relType, len(rel.FromIDColumns), rel.FromLabel, len(fromNode.IDColumns)))
			}
			if len(rel.ToIDColumns) != len(toNode.IDColumns) {
				return cherr.ErrCatalog.New(fmt.Sprintf(
					"relationship %q: to_id arity %d does not match node %q id arity %d",
					relType, len(rel.ToIDColumns), rel.ToLabel, len(toNode.IDColumns)))
			}
		}

		if name, ok := c.Nodes[relType]; ok && !(rel.IsDenormalized() && name.Table == rel.Table) {
			return cherr.ErrCatalog.New(fmt.Sprintf(
				"name %q is used for both a node and a relationship not denormalized onto that node's table", relType))
		}
	}

	for label, node := range c.Nodes {
		if len(node.IDColumns) == 0 {
			return cherr.ErrCatalog.New(fmt.Sprintf("node %q: missing id columns", label))
		}
	}

	return nil
}
