package catalog

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cyphersql/graphengine/internal/cherr"
)

// The types below mirror the catalog YAML shape from spec.md §6 verbatim,
// decoded with gopkg.in/yaml.v3 (the teacher's own YAML dependency) and
// struct-tag validated with go-playground/validator, following
// LederWorks-gorepos's catalog-manifest decode-then-validate pattern.

type yamlDocument struct {
	Name        string          `yaml:"name" validate:"required"`
	GraphSchema yamlGraphSchema `yaml:"graph_schema" validate:"required"`
}

type yamlGraphSchema struct {
	Nodes         []yamlNode         `yaml:"nodes"`
	Relationships []yamlRelationship `yaml:"relationships"`
}

type yamlNodeID struct {
	Column  string   `yaml:"column"`
	Columns []string `yaml:"columns"`
	Type    string   `yaml:"type" validate:"required"`
}

type yamlNode struct {
	Label            string            `yaml:"label" validate:"required"`
	Table            string            `yaml:"table" validate:"required"`
	NodeID           yamlNodeID        `yaml:"node_id" validate:"required"`
	PropertyMappings map[string]string `yaml:"property_mappings"`
	ViewParameters   []string          `yaml:"view_parameters"`
	Filter           string            `yaml:"filter"`
}

type yamlRelationship struct {
	Type               string            `yaml:"type" validate:"required"`
	Table              string            `yaml:"table" validate:"required"`
	FromNode           string            `yaml:"from_node" validate:"required"`
	ToNode             string            `yaml:"to_node" validate:"required"`
	FromID             []string          `yaml:"from_id" validate:"required"`
	ToID               []string          `yaml:"to_id" validate:"required"`
	PropertyMappings   map[string]string `yaml:"property_mappings"`
	TypeColumn         string            `yaml:"type_column"`
	FromLabelColumn    string            `yaml:"from_label_column"`
	ToLabelColumn      string            `yaml:"to_label_column"`
	FromNodeProperties map[string]string `yaml:"from_node_properties"`
	ToNodeProperties   map[string]string `yaml:"to_node_properties"`
	ViewParameters     []string          `yaml:"view_parameters"`
	Symmetric          bool              `yaml:"symmetric"`
}

var validate = validator.New()

// LoadYAML parses catalog YAML bytes into a Catalog and validates both the
// document shape and the resulting catalog's structural invariants.
func LoadYAML(data []byte) (*Catalog, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, cherr.ErrCatalog.New(fmt.Sprintf("invalid catalog YAML: %s", err))
	}
	if err := validate.Struct(doc); err != nil {
		return nil, cherr.ErrCatalog.New(fmt.Sprintf("invalid catalog document: %s", err))
	}

	cat := NewCatalog(doc.Name)

	for _, n := range doc.GraphSchema.Nodes {
		idType, err := ParseSchemaType(n.NodeID.Type)
		if err != nil {
			return nil, cherr.ErrCatalog.New(fmt.Sprintf("node %q: %s", n.Label, err))
		}
		idColumns := n.NodeID.Columns
		if len(idColumns) == 0 && n.NodeID.Column != "" {
			idColumns = []string{n.NodeID.Column}
		}
		if len(idColumns) == 0 {
			return nil, cherr.ErrCatalog.New(fmt.Sprintf("node %q: node_id needs column or columns", n.Label))
		}

		cat.Nodes[n.Label] = &NodeMapping{
			Label:            n.Label,
			Table:            n.Table,
			IDColumns:        idColumns,
			IDType:           idType,
			PropertyMappings: decodePropertyMappings(n.PropertyMappings),
			ViewParameters:   n.ViewParameters,
			Filter:           n.Filter,
			HasFilter:        n.Filter != "",
		}
	}

	for _, r := range doc.GraphSchema.Relationships {
		rel := &RelationshipMapping{
			Type:             r.Type,
			Table:            r.Table,
			FromLabel:        r.FromNode,
			FromIDColumns:    r.FromID,
			ToLabel:          r.ToNode,
			ToIDColumns:      r.ToID,
			PropertyMappings: decodePropertyMappings(r.PropertyMappings),
			ViewParameters:   r.ViewParameters,
			TypeColumn:       r.TypeColumn,
			HasTypeColumn:    r.TypeColumn != "",
			FromLabelColumn:  r.FromLabelColumn,
			HasFromLabelCol:  r.FromLabelColumn != "",
			ToLabelColumn:    r.ToLabelColumn,
			HasToLabelCol:    r.ToLabelColumn != "",
			Symmetric:        r.Symmetric,
		}
		if r.FromNodeProperties != nil {
			rel.FromNodeProperties = decodePropertyMappings(r.FromNodeProperties)
		}
		if r.ToNodeProperties != nil {
			rel.ToNodeProperties = decodePropertyMappings(r.ToNodeProperties)
		}
		cat.Relationships[r.Type] = rel
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// decodePropertyMappings turns a raw YAML string map into PropertyValues,
// treating anything that looks like a function call or operator expression
// as a computed expression rather than a bare column reference.
func decodePropertyMappings(raw map[string]string) map[string]PropertyValue {
	if raw == nil {
		return nil
	}
	out := make(map[string]PropertyValue, len(raw))
	for k, v := range raw {
		if looksLikeExpression(v) {
			out[k] = NewExpression(v)
		} else {
			out[k] = NewColumn(v)
		}
	}
	return out
}

func looksLikeExpression(s string) bool {
	return strings.ContainsAny(s, "()+-*/| ") || strings.Contains(s, "::")
}
