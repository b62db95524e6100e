package idmapper

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphersql/graphengine/catalog"
)

func TestMemMapper_PutAndResolve(t *testing.T) {
	m := NewMemMapper(nil)
	m.Put(42, "Person", []string{"p-1"}, nil)

	got, ok := m.Resolve(42)
	require.True(t, ok)
	require.Equal(t, "Person", got.Label)
	require.Equal(t, []string{"p-1"}, got.IDValues)
}

func TestMemMapper_ResolveUnknownID(t *testing.T) {
	m := NewMemMapper(nil)
	_, ok := m.Resolve(999)
	require.False(t, ok)
}

func TestMemMapper_PutArityMismatchPanics(t *testing.T) {
	m := NewMemMapper(nil)
	node := &catalog.NodeMapping{IDColumns: []string{"a", "b"}}
	require.Panics(t, func() {
		m.Put(1, "Person", []string{"only-one"}, node)
	})
}

func TestMemMapper_PutSyntheticIsResolvable(t *testing.T) {
	m := NewMemMapper(nil)
	id := m.PutSynthetic("Person", []string{"p-1"}, nil)
	require.GreaterOrEqual(t, id, int64(0))

	got, ok := m.Resolve(id)
	require.True(t, ok)
	require.Equal(t, "Person", got.Label)
}
