package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSchemaType_Aliases(t *testing.T) {
	cases := map[string]SchemaType{
		"integer": TypeInteger, "int": TypeInteger, "long": TypeInteger,
		"float": TypeFloat, "double": TypeFloat, "decimal": TypeFloat,
		"string": TypeString, "text": TypeString,
		"boolean": TypeBoolean, "bool": TypeBoolean,
		"datetime": TypeDateTime, "timestamp": TypeDateTime,
		"date": TypeDate,
		"uuid": TypeUUID,
		"INTEGER": TypeInteger, " int ": TypeInteger,
	}
	for in, want := range cases {
		got, err := ParseSchemaType(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
}

func TestParseSchemaType_Invalid(t *testing.T) {
	_, err := ParseSchemaType("varchar")
	require.Error(t, err)
}

func TestToSQLLiteral(t *testing.T) {
	lit, err := TypeInteger.ToSQLLiteral("42", DialectClickHouse)
	require.NoError(t, err)
	require.Equal(t, "42", lit)

	lit, err = TypeString.ToSQLLiteral("O'Reilly", DialectClickHouse)
	require.NoError(t, err)
	require.Equal(t, "'O''Reilly'", lit)

	lit, err = TypeBoolean.ToSQLLiteral("true", DialectClickHouse)
	require.NoError(t, err)
	require.Equal(t, "1", lit)

	lit, err = TypeBoolean.ToSQLLiteral("true", DialectPostgreSQL)
	require.NoError(t, err)
	require.Equal(t, "TRUE", lit)

	_, err = TypeInteger.ToSQLLiteral("abc", DialectClickHouse)
	require.Error(t, err)
}

func TestMapClickHouseType(t *testing.T) {
	require.Equal(t, TypeInteger, MapClickHouseType("UInt64"))
	require.Equal(t, TypeString, MapClickHouseType("Nullable(String)"))
	require.Equal(t, TypeDateTime, MapClickHouseType("DateTime64"))
	require.Equal(t, TypeString, MapClickHouseType("LowCardinality(FixedString(10))"))
	require.Equal(t, TypeString, MapClickHouseType("IPv4"))
}
