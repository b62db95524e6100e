// Package idmapper defines the id()-resolution collaborator interface.
// spec.md lists "the id-mapper session cache" as an external collaborator,
// out of the core's scope — only this interface, plus an in-memory test
// double for exercising the id()-rewriting analyzer pass, belong here.
package idmapper

import (
	"encoding/binary"

	uuid "github.com/satori/go.uuid"

	"github.com/cyphersql/graphengine/catalog"
)

// Resolved is what the id-mapper returns for a single resolved integer id:
// the node label the id belongs to and the composite id-column values
// (ordered to match catalog.NodeMapping.IDColumns).
type Resolved struct {
	Label      string
	IDValues   []string
}

// IDMapper resolves opaque integer ids (as produced by `id(v)` in a prior
// query result) back to a label and composite id-column values. Analyzer
// step 4 (spec.md §4.2) consults it while rewriting `id(v) = N` predicates.
type IDMapper interface {
	// Resolve looks up a single id. ok is false if the id is unknown to the
	// mapper (spec.md §4.2: "Unresolved IDs: ... emit FALSE / skip").
	Resolve(id int64) (resolved Resolved, ok bool)
}

// MemMapper is an in-memory IDMapper test double, standing in for the
// out-of-scope session cache. Grounded on the teacher's own transitive use
// of satori/go.uuid for synthetic identifiers in test fixtures.
type MemMapper struct {
	entries map[int64]Resolved
}

// NewMemMapper builds a MemMapper pre-seeded with entries.
func NewMemMapper(entries map[int64]Resolved) *MemMapper {
	if entries == nil {
		entries = map[int64]Resolved{}
	}
	return &MemMapper{entries: entries}
}

// Resolve implements IDMapper.
func (m *MemMapper) Resolve(id int64) (Resolved, bool) {
	r, ok := m.entries[id]
	return r, ok
}

// Put registers id -> (label, idValues) for a node mapping's composite id
// columns, validating arity against the catalog so test fixtures can't
// silently drift from the schema they're meant to model.
func (m *MemMapper) Put(id int64, label string, idValues []string, node *catalog.NodeMapping) {
	if node != nil && len(node.IDColumns) != len(idValues) {
		panic("idmapper: id value arity does not match node id columns")
	}
	m.entries[id] = Resolved{Label: label, IDValues: idValues}
}

// PutSynthetic registers a fresh entry under a synthetic id derived from a
// random UUID, for fixtures that don't care about the id's concrete value.
// Returns the id so the caller can embed it in an id() literal under test.
func (m *MemMapper) PutSynthetic(label string, idValues []string, node *catalog.NodeMapping) int64 {
	id := syntheticID()
	m.Put(id, label, idValues, node)
	return id
}

// syntheticID derives a positive int64 from a fresh UUIDv4's leading bytes.
func syntheticID() int64 {
	u := uuid.NewV4()
	n := int64(binary.BigEndian.Uint64(u.Bytes()[:8]))
	if n < 0 {
		n = -n
	}
	return n
}
