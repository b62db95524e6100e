package logicalexpr

// ReferencesAlias reports whether expr mentions the given pattern alias
// anywhere in its tree, grounded on
// original_source/.../graph_join/metadata.rs::expr_references_alias.
func ReferencesAlias(expr LogicalExpr, alias string) bool {
	switch e := expr.(type) {
	case TableAlias:
		return e.Name == alias
	case PropertyAccess:
		return e.TableAlias == alias
	case AggregateFnCall:
		for _, a := range e.Args {
			if ReferencesAlias(a, alias) {
				return true
			}
		}
		return false
	case ScalarFnCall:
		for _, a := range e.Args {
			if ReferencesAlias(a, alias) {
				return true
			}
		}
		return false
	case OperatorApplication:
		for _, o := range e.Operands {
			if ReferencesAlias(o, alias) {
				return true
			}
		}
		return false
	case List:
		for _, i := range e.Items {
			if ReferencesAlias(i, alias) {
				return true
			}
		}
		return false
	case InList:
		if ReferencesAlias(e.Target, alias) {
			return true
		}
		for _, i := range e.Items {
			if ReferencesAlias(i, alias) {
				return true
			}
		}
		return false
	case Case:
		if e.Expr != nil && ReferencesAlias(e.Expr, alias) {
			return true
		}
		for _, wt := range e.WhenThen {
			if ReferencesAlias(wt.When, alias) || ReferencesAlias(wt.Then, alias) {
				return true
			}
		}
		if e.Else != nil && ReferencesAlias(e.Else, alias) {
			return true
		}
		return false
	default:
		return false
	}
}

// CollectAliases returns the set of pattern aliases referenced anywhere in
// expr, used by filter push-down (spec.md §4.4 step 4) to decide which
// subtree a Filter predicate belongs to.
func CollectAliases(expr LogicalExpr) map[string]bool {
	out := map[string]bool{}
	var walk func(LogicalExpr)
	walk = func(e LogicalExpr) {
		switch v := e.(type) {
		case TableAlias:
			out[v.Name] = true
		case PropertyAccess:
			out[v.TableAlias] = true
		case AggregateFnCall:
			for _, a := range v.Args {
				walk(a)
			}
		case ScalarFnCall:
			for _, a := range v.Args {
				walk(a)
			}
		case OperatorApplication:
			for _, o := range v.Operands {
				walk(o)
			}
		case List:
			for _, i := range v.Items {
				walk(i)
			}
		case InList:
			walk(v.Target)
			for _, i := range v.Items {
				walk(i)
			}
		case Case:
			if v.Expr != nil {
				walk(v.Expr)
			}
			for _, wt := range v.WhenThen {
				walk(wt.When)
				walk(wt.Then)
			}
			if v.Else != nil {
				walk(v.Else)
			}
		}
	}
	walk(expr)
	return out
}

// CollectPropertyAccesses returns every PropertyAccess leaf anywhere in
// expr's tree (e.g. the `n.name` inside `count(n.name)`), used to record
// which concrete columns a projection/order-by/filter expression actually
// needs from each alias it touches (spec.md §4.3/§4.4: TableCtx's
// per-alias projection/filter registries).
func CollectPropertyAccesses(expr LogicalExpr) []PropertyAccess {
	var out []PropertyAccess
	var walk func(LogicalExpr)
	walk = func(e LogicalExpr) {
		switch v := e.(type) {
		case PropertyAccess:
			out = append(out, v)
		case AggregateFnCall:
			for _, a := range v.Args {
				walk(a)
			}
		case ScalarFnCall:
			for _, a := range v.Args {
				walk(a)
			}
		case OperatorApplication:
			for _, o := range v.Operands {
				walk(o)
			}
		case List:
			for _, i := range v.Items {
				walk(i)
			}
		case InList:
			walk(v.Target)
			for _, i := range v.Items {
				walk(i)
			}
		case Case:
			if v.Expr != nil {
				walk(v.Expr)
			}
			for _, wt := range v.WhenThen {
				walk(wt.When)
				walk(wt.Then)
			}
			if v.Else != nil {
				walk(v.Else)
			}
		}
	}
	walk(expr)
	return out
}

// HasOrOperator reports whether expr contains an OR anywhere in its tree,
// used as the anchor-selection tiebreak proxy for selectivity (spec.md §4.4
// step 1 / Design Notes: "ties...broken by presence of an OR").
func HasOrOperator(expr LogicalExpr) bool {
	switch e := expr.(type) {
	case OperatorApplication:
		if e.Operator == Or {
			return true
		}
		for _, o := range e.Operands {
			if HasOrOperator(o) {
				return true
			}
		}
		return false
	case ScalarFnCall:
		for _, a := range e.Args {
			if HasOrOperator(a) {
				return true
			}
		}
		return false
	case AggregateFnCall:
		for _, a := range e.Args {
			if HasOrOperator(a) {
				return true
			}
		}
		return false
	case List:
		for _, i := range e.Items {
			if HasOrOperator(i) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
