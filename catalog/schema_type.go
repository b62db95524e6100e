package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect is the target SQL backend. The core never talks to the backend
// directly (it is an external collaborator, see spec.md §1), but SchemaType
// literal rendering needs to know which dialect it is rendering for.
type Dialect int

const (
	DialectClickHouse Dialect = iota
	DialectPostgreSQL
	DialectGeneric
)

// SchemaType is the database-agnostic column type used in the catalog YAML,
// grounded on original_source/src/graph_catalog/schema_types.rs. It is
// deliberately minimal: it exists to render id()-literal SQL correctly and
// to validate catalog YAML, not to model a full SQL type system.
type SchemaType int

const (
	TypeInteger SchemaType = iota
	TypeFloat
	TypeString
	TypeBoolean
	TypeDateTime
	TypeDate
	TypeUUID
)

func (t SchemaType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeBoolean:
		return "boolean"
	case TypeDateTime:
		return "datetime"
	case TypeDate:
		return "date"
	case TypeUUID:
		return "uuid"
	default:
		return "unknown"
	}
}

// ParseSchemaType parses a type string from catalog YAML. Case-insensitive,
// and accepts the same aliases as the Rust original.
func ParseSchemaType(s string) (SchemaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "integer", "int", "long":
		return TypeInteger, nil
	case "float", "double", "decimal":
		return TypeFloat, nil
	case "string", "text":
		return TypeString, nil
	case "boolean", "bool":
		return TypeBoolean, nil
	case "datetime", "timestamp":
		return TypeDateTime, nil
	case "date":
		return TypeDate, nil
	case "uuid":
		return TypeUUID, nil
	default:
		return 0, fmt.Errorf("unknown type: %q. Supported: integer, float, string, boolean, datetime, date, uuid", s)
	}
}

// ToSQLLiteral converts a string value (e.g. from an id-mapper lookup) into
// a dialect-correct SQL literal, per schema_types.rs::to_sql_literal. Used
// when rendering id()-function rewrites so resolved ids use native types
// instead of toString() casts.
func (t SchemaType) ToSQLLiteral(value string, dialect Dialect) (string, error) {
	switch t {
	case TypeInteger:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid integer: %q", value)
		}
		return strconv.FormatInt(i, 10), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", fmt.Errorf("invalid float: %q", value)
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case TypeString, TypeUUID, TypeDateTime, TypeDate:
		return "'" + strings.ReplaceAll(value, "'", "''") + "'", nil
	case TypeBoolean:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1":
			if dialect == DialectPostgreSQL {
				return "TRUE", nil
			}
			return "1", nil
		case "false", "0":
			if dialect == DialectPostgreSQL {
				return "FALSE", nil
			}
			return "0", nil
		default:
			return "", fmt.Errorf("invalid boolean: %q (expected: true, false, 1, or 0)", value)
		}
	default:
		return "", fmt.Errorf("unsupported schema type %v", t)
	}
}

// ParseDialect parses the `dialect` config setting into a Dialect,
// defaulting unrecognized/empty input to DialectClickHouse (this engine's
// primary target backend, and config's own default).
func ParseDialect(s string) Dialect {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql":
		return DialectPostgreSQL
	case "generic":
		return DialectGeneric
	default:
		return DialectClickHouse
	}
}

// MapClickHouseType maps a raw ClickHouse column type (as reported by
// system.columns) to a SchemaType, stripping Nullable()/LowCardinality()
// wrappers. Used by the (external) catalog auto-detection path; kept here
// because it operates purely on SchemaType values.
func MapClickHouseType(chType string) SchemaType {
	n := strings.ToLower(chType)
	n = strings.ReplaceAll(n, "nullable(", "")
	n = strings.ReplaceAll(n, "lowcardinality(", "")
	n = strings.ReplaceAll(n, ")", "")
	n = strings.TrimSpace(n)

	switch {
	case strings.HasPrefix(n, "int"), strings.HasPrefix(n, "uint"):
		return TypeInteger
	case strings.HasPrefix(n, "float"), strings.HasPrefix(n, "decimal"):
		return TypeFloat
	case n == "string", strings.HasPrefix(n, "fixedstring"):
		return TypeString
	case n == "uuid":
		return TypeUUID
	case strings.HasPrefix(n, "datetime"):
		return TypeDateTime
	case strings.HasPrefix(n, "date"):
		return TypeDate
	case n == "bool":
		return TypeBoolean
	default:
		return TypeString
	}
}
