package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
)

func standardViewScan(table string) *logicalplan.ViewScan {
	return &logicalplan.ViewScan{
		SourceTable: table,
		IDColumns:   []string{"user_id"},
		PropertyMapping: map[string]catalog.PropertyValue{
			"name":  catalog.NewColumn("username"),
			"email": catalog.NewColumn("email_address"),
		},
	}
}

func denormalizedViewScan(table string) *logicalplan.ViewScan {
	return &logicalplan.ViewScan{
		SourceTable:    table,
		IDColumns:      []string{"flight_id"},
		IsDenormalized: true,
		PropertyMapping: map[string]catalog.PropertyValue{
			"distance": catalog.NewColumn("Distance"),
		},
		FromNodeProperties: map[string]catalog.PropertyValue{
			"code": catalog.NewColumn("Origin"),
			"city": catalog.NewColumn("OriginCityName"),
		},
		ToNodeProperties: map[string]catalog.PropertyValue{
			"code": catalog.NewColumn("Dest"),
			"city": catalog.NewColumn("DestCityName"),
		},
	}
}

func TestResolveProperty_Standard(t *testing.T) {
	r := New()
	r.RegisterViewScan("u", standardViewScan("users"))
	r.RegisterAlias("u", AliasMapping{SQLAlias: "u1", Position: planctx.PositionStandalone})

	res, err := r.ResolveProperty("u", "name", "", false)
	require.NoError(t, err)
	require.Equal(t, "u1", res.TableAlias)
	require.Equal(t, catalog.NewColumn("username"), res.PropertyValue)
	require.Empty(t, res.TypeFilters)
}

func TestGetSQLAlias_WithoutEdgeContext(t *testing.T) {
	r := New()
	r.RegisterViewScan("u", standardViewScan("users"))
	r.RegisterAlias("u", AliasMapping{SQLAlias: "u1", Position: planctx.PositionStandalone})

	alias, err := r.GetSQLAlias("u", "", false)
	require.NoError(t, err)
	require.Equal(t, "u1", alias)
}

func TestGetSQLAlias_DenormalizedMultiHopDisambiguation(t *testing.T) {
	r := New()
	r.RegisterViewScan("b", denormalizedViewScan("flights"))
	r.RegisterAlias("b", AliasMapping{SQLAlias: "f", Position: planctx.PositionTo, IsDenormalized: true, EdgeAlias: "f", HasEdgeAlias: true})
	r.RegisterAlias("b", AliasMapping{SQLAlias: "g", Position: planctx.PositionFrom, IsDenormalized: true, EdgeAlias: "g", HasEdgeAlias: true})

	aliasF, err := r.GetSQLAlias("b", "f", true)
	require.NoError(t, err)
	require.Equal(t, "f", aliasF)

	aliasG, err := r.GetSQLAlias("b", "g", true)
	require.NoError(t, err)
	require.Equal(t, "g", aliasG)
}

func TestResolveProperty_PolymorphicWithTypeFilters(t *testing.T) {
	r := New()
	vs := &logicalplan.ViewScan{
		SourceTable: "interactions",
		IDColumns:   []string{"interaction_id"},
		PropertyMapping: map[string]catalog.PropertyValue{
			"date": catalog.NewColumn("interaction_date"),
		},
	}
	r.RegisterViewScan("i", vs)
	r.RegisterAlias("i", AliasMapping{SQLAlias: "i", Position: planctx.PositionStandalone, IsPolymorphic: true, TypeFilters: []string{"interaction_type = 'FOLLOWS'"}})

	res, err := r.ResolveProperty("i", "date", "", false)
	require.NoError(t, err)
	require.Equal(t, "i", res.TableAlias)
	require.Equal(t, catalog.NewColumn("interaction_date"), res.PropertyValue)
	require.Equal(t, []string{"interaction_type = 'FOLLOWS'"}, res.TypeFilters)
}

func TestResolveProperty_MissingPropertyReturnsError(t *testing.T) {
	r := New()
	r.RegisterViewScan("u", standardViewScan("users"))
	r.RegisterAlias("u", AliasMapping{SQLAlias: "u1", Position: planctx.PositionStandalone})

	_, err := r.ResolveProperty("u", "nonexistent", "", false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found in property_mapping")
}

func TestResolveProperty_DenormalizedFromPosition(t *testing.T) {
	r := New()
	r.RegisterViewScan("a", denormalizedViewScan("flights"))
	r.RegisterAlias("a", AliasMapping{SQLAlias: "f", Position: planctx.PositionFrom, IsDenormalized: true, EdgeAlias: "f", HasEdgeAlias: true})

	res, err := r.ResolveProperty("a", "city", "f", true)
	require.NoError(t, err)
	require.Equal(t, "f", res.TableAlias)
	require.Equal(t, catalog.NewColumn("OriginCityName"), res.PropertyValue)
}

func TestResolveProperty_DenormalizedToPosition(t *testing.T) {
	r := New()
	r.RegisterViewScan("b", denormalizedViewScan("flights"))
	r.RegisterAlias("b", AliasMapping{SQLAlias: "f", Position: planctx.PositionTo, IsDenormalized: true, EdgeAlias: "f", HasEdgeAlias: true})

	res, err := r.ResolveProperty("b", "city", "f", true)
	require.NoError(t, err)
	require.Equal(t, "f", res.TableAlias)
	require.Equal(t, catalog.NewColumn("DestCityName"), res.PropertyValue)
}

func TestResolveProperty_DenormalizedMultiHopDifferentProperties(t *testing.T) {
	r := New()
	r.RegisterViewScan("b", denormalizedViewScan("flights"))
	r.RegisterAlias("b", AliasMapping{SQLAlias: "f", Position: planctx.PositionTo, IsDenormalized: true, EdgeAlias: "f", HasEdgeAlias: true})
	r.RegisterAlias("b", AliasMapping{SQLAlias: "g", Position: planctx.PositionFrom, IsDenormalized: true, EdgeAlias: "g", HasEdgeAlias: true})

	resF, err := r.ResolveProperty("b", "city", "f", true)
	require.NoError(t, err)
	require.Equal(t, "f", resF.TableAlias)
	require.Equal(t, catalog.NewColumn("DestCityName"), resF.PropertyValue)

	resG, err := r.ResolveProperty("b", "city", "g", true)
	require.NoError(t, err)
	require.Equal(t, "g", resG.TableAlias)
	require.Equal(t, catalog.NewColumn("OriginCityName"), resG.PropertyValue)
}

func TestResolveIDColumns(t *testing.T) {
	r := New()
	r.RegisterViewScan("u", standardViewScan("users"))

	cols, err := r.ResolveIDColumns("u")
	require.NoError(t, err)
	require.Equal(t, []catalog.PropertyValue{catalog.NewColumn("user_id")}, cols)
}

func TestIsDenormalizedAndIsPolymorphic(t *testing.T) {
	r := New()
	r.RegisterViewScan("b", denormalizedViewScan("flights"))
	r.RegisterAlias("b", AliasMapping{SQLAlias: "f", Position: planctx.PositionTo, IsDenormalized: true})
	require.True(t, r.IsDenormalized("b"))
	require.False(t, r.IsPolymorphic("b"))

	r.RegisterViewScan("i", standardViewScan("interactions"))
	r.RegisterAlias("i", AliasMapping{SQLAlias: "i", IsPolymorphic: true})
	require.False(t, r.IsDenormalized("i"))
	require.True(t, r.IsPolymorphic("i"))
}
