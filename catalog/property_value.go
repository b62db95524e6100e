package catalog

// PropertyValue is how a graph property maps onto the physical table: a
// plain column reference, or a computed SQL expression (e.g. a concat of
// two columns). Mirrors graph_catalog::expression_parser::PropertyValue in
// the original source.
type PropertyValue struct {
	Column     string
	Expression string
	isExpr     bool
}

// NewColumn builds a column-backed PropertyValue.
func NewColumn(column string) PropertyValue {
	return PropertyValue{Column: column}
}

// NewExpression builds an expression-backed PropertyValue.
func NewExpression(expr string) PropertyValue {
	return PropertyValue{Expression: expr, isExpr: true}
}

// IsExpression reports whether this value is a raw SQL expression rather
// than a plain column reference.
func (p PropertyValue) IsExpression() bool {
	return p.isExpr
}

// SQL returns the fragment to splice into generated SQL for this value,
// given the table alias it is being resolved against.
func (p PropertyValue) SQL(tableAlias string) string {
	if p.isExpr {
		return p.Expression
	}
	return tableAlias + "." + p.Column
}
