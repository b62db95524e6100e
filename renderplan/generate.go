// Generate lowers an optimized logical plan into a RenderPlan (spec.md
// §4.6 "Render-plan generation"). It walks the tree outside-in, peeling
// off the relational wrapper nodes (Projection/Filter/OrderBy/...) onto a
// single accumulating Select, and handles the one node that actually
// builds FROM/JOIN structure — GraphJoins — by flattening the (already
// anchor-rotated, spec.md §4.4 step 1) GraphRel chain under it and
// dispatching each edge to its resolved join strategy (spec.md §4.3).
//
// Grounded on original_source's query_planner/render_plan.rs
// (RenderPlanGenerator::generate / generate_joins_for_strategy).
package renderplan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/cypherast"
	"github.com/cyphersql/graphengine/internal/cherr"
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/resolver"
)

// Generate lowers plan into a RenderPlan, registering every alias it
// encounters with res along the way so that a later expression-to-SQL pass
// (sqlgen) can resolve property accesses against the same resolver.
func Generate(plan logicalplan.LogicalPlan, ctx *planctx.PlanCtx, res *resolver.PropertyResolver, cat *catalog.Catalog) (*RenderPlan, error) {
	g := &generator{ctx: ctx, res: res, cat: cat, inScope: map[string]bool{}, unionCTEs: map[string]bool{}}
	sel, err := g.lower(plan)
	if err != nil {
		return nil, err
	}
	return &RenderPlan{Ctes: g.ctes, Root: sel}, nil
}

type generator struct {
	ctx       *planctx.PlanCtx
	res       *resolver.PropertyResolver
	cat       *catalog.Catalog
	ctes      []Cte
	inScope   map[string]bool
	unionCTEs map[string]bool
	cteSeq    int
}

func (g *generator) nextCTEName(prefix string) string {
	g.cteSeq++
	return fmt.Sprintf("%s_%d", prefix, g.cteSeq)
}

func addWhere(sel *Select, pred logicalexpr.LogicalExpr) {
	if sel.HasWhere {
		sel.WherePredicate = logicalexpr.AndAll(sel.WherePredicate, pred)
	} else {
		sel.WherePredicate = pred
		sel.HasWhere = true
	}
}

func (g *generator) lower(plan logicalplan.LogicalPlan) (*Select, error) {
	switch p := plan.(type) {
	case *logicalplan.Projection:
		sel, err := g.lower(p.Input)
		if err != nil {
			return nil, err
		}
		sel.Projections = p.Items
		sel.Distinct = p.Distinct
		return sel, nil

	case *logicalplan.OrderBy:
		sel, err := g.lower(p.Input)
		if err != nil {
			return nil, err
		}
		sel.OrderBy = p.Items
		return sel, nil

	case *logicalplan.Skip:
		sel, err := g.lower(p.Input)
		if err != nil {
			return nil, err
		}
		sel.HasSkip = true
		sel.Skip = p.Count
		return sel, nil

	case *logicalplan.Limit:
		sel, err := g.lower(p.Input)
		if err != nil {
			return nil, err
		}
		sel.HasLimit = true
		sel.Limit = p.Count
		return sel, nil

	case *logicalplan.GroupBy:
		sel, err := g.lower(p.Input)
		if err != nil {
			return nil, err
		}
		sel.GroupBy = p.Expressions
		return sel, nil

	case *logicalplan.Filter:
		sel, err := g.lower(p.Input)
		if err != nil {
			return nil, err
		}
		addWhere(sel, p.Predicate)
		return sel, nil

	case *logicalplan.WithClause:
		return g.lowerWithClause(p)

	case *logicalplan.GraphJoins:
		return g.lowerGraphJoins(p)

	case *logicalplan.GraphNode:
		alias, err := g.registerStandardNode(p.Alias, p)
		if err != nil {
			return nil, err
		}
		return g.baseSelectFor(alias)

	case *logicalplan.ViewScan:
		if _, err := g.registerStandardNode(p.Alias, p); err != nil {
			return nil, err
		}
		return g.baseSelectFor(p.Alias)

	case *logicalplan.Unwind:
		// UNWIND has no structured Select shape of its own (it expands a
		// list expression into rows, closer to a lateral cross-join than
		// anything Select models); fold through to its source pattern and
		// let sqlgen splice the unwind in textually.
		return g.lower(p.Input)

	case *logicalplan.Empty:
		return &Select{}, nil

	case *logicalplan.PageRank:
		return g.lowerPageRank(p)

	default:
		return nil, cherr.ErrRender.New(fmt.Sprintf("render-plan generation: unsupported logical-plan node %T", plan))
	}
}

// lowerPageRank renders a `CALL pagerank.graph(...)` as a call to a
// backend table function rather than expanding it in SQL (SPEC_FULL.md §4
// "CALL pagerank.graph(...)"): `FROM pagerank_graph(args...) AS pagerank`.
// The function itself is the backend's problem; this only has to hand it
// the arguments `buildCall` already validated.
func (g *generator) lowerPageRank(p *logicalplan.PageRank) (*Select, error) {
	args := make([]string, 0, 5)
	if p.HasGraphName {
		args = append(args, fmt.Sprintf("graph => %s", quoteSQLString(p.GraphName)))
	}
	args = append(args, fmt.Sprintf("iterations => %d", p.Iterations))
	args = append(args, fmt.Sprintf("damping_factor => %s", strconv.FormatFloat(p.DampingFactor, 'g', -1, 64)))
	if len(p.NodeLabels) > 0 {
		args = append(args, fmt.Sprintf("node_labels => %s", quoteSQLStringList(p.NodeLabels)))
	}
	if len(p.RelationshipTypes) > 0 {
		args = append(args, fmt.Sprintf("relationship_types => %s", quoteSQLStringList(p.RelationshipTypes)))
	}

	const alias = "pagerank"
	sel := &Select{
		FromTable: fmt.Sprintf("pagerank_graph(%s)", strings.Join(args, ", ")),
		FromAlias: alias,
	}
	g.inScope[alias] = true
	return sel, nil
}

func (g *generator) baseSelectFor(alias string) (*Select, error) {
	vs, ok := g.res.GetViewScan(alias)
	if !ok {
		return nil, cherr.ErrRender.New(fmt.Sprintf("render-plan generation: no ViewScan registered for alias %q", alias))
	}
	sel := &Select{FromTable: vs.SourceTable, FromAlias: alias}
	if vs.HasViewFilter {
		addWhere(sel, vs.ViewFilter)
	}
	g.inScope[alias] = true
	return sel, nil
}

// lowerWithClause renders a WITH boundary as its own named CTE and exposes
// it to the rest of the tree as a fresh FROM source (spec.md §4.6 step 4).
func (g *generator) lowerWithClause(w *logicalplan.WithClause) (*Select, error) {
	inner, err := g.lower(w.Input)
	if err != nil {
		return nil, err
	}
	inner.Projections = w.Items
	inner.Distinct = w.Distinct
	if len(w.OrderBy) > 0 {
		inner.OrderBy = w.OrderBy
	}
	if w.HasSkip {
		inner.HasSkip = true
		inner.Skip = w.Skip
	}
	if w.HasLimit {
		inner.HasLimit = true
		inner.Limit = w.Limit
	}
	if w.HasWhere {
		addWhere(inner, w.Where)
	}

	name := w.CTEName
	if !w.HasCTEName || name == "" {
		name = g.nextCTEName("with")
	}
	g.ctes = append(g.ctes, Cte{Name: name, Content: StructuredSelect{Select: inner}})

	// Exported aliases now resolve through the CTE's own output columns:
	// their SQL identity changes, what they denote does not.
	for _, alias := range w.ExportedAliases {
		g.res.Rebind(alias, name)
		g.inScope[alias] = true
	}

	return &Select{FromTable: name, FromAlias: name}, nil
}

// chainStep is one edge of a flattened GraphRel chain, paired with the
// node plan it newly introduces.
type chainStep struct {
	edge      *logicalplan.GraphRel
	rightPlan logicalplan.LogicalPlan
}

// flattenGraphRelTree walks a left-deep GraphRel tree into its anchor node
// plan plus an ordered (anchor-outward, since anchor-node selection already
// rotated the tree this way) sequence of edge steps.
func flattenGraphRelTree(plan logicalplan.LogicalPlan) (logicalplan.LogicalPlan, []chainStep) {
	rel, ok := plan.(*logicalplan.GraphRel)
	if !ok {
		return plan, nil
	}
	anchor, steps := flattenGraphRelTree(rel.Left)
	steps = append(steps, chainStep{edge: rel, rightPlan: rel.Right})
	return anchor, steps
}

func (g *generator) lowerGraphJoins(gj *logicalplan.GraphJoins) (*Select, error) {
	anchorPlan, steps := flattenGraphRelTree(gj.Input)

	joinsByAlias := map[string]logicalplan.ResolvedJoin{}
	for _, j := range gj.Joins {
		joinsByAlias[j.EdgeAlias] = j
	}
	edgeRelByAlias := map[string]*logicalplan.GraphRel{}
	for _, st := range steps {
		edgeRelByAlias[st.edge.Alias] = st.edge
	}

	anchorAlias, anchorPlanVal, err := nodePlanAlias(anchorPlan)
	if err != nil {
		return nil, err
	}

	if err := g.resolveAlias(anchorAlias, anchorPlanVal, edgeRelByAlias); err != nil {
		return nil, err
	}
	for _, st := range steps {
		newAlias := st.edge.RightConnection
		if err := g.resolveAlias(newAlias, st.rightPlan, edgeRelByAlias); err != nil {
			return nil, err
		}
	}

	sel := &Select{}
	if g.res.IsDenormalized(anchorAlias) {
		vs, ok := g.res.GetViewScan(anchorAlias)
		if !ok {
			return nil, cherr.ErrRender.New(fmt.Sprintf("render-plan generation: no ViewScan for denormalized anchor %q", anchorAlias))
		}
		sqlAlias, err := g.res.GetSQLAlias(anchorAlias, "", false)
		if err != nil {
			return nil, err
		}
		sel.FromTable = vs.SourceTable
		sel.FromAlias = sqlAlias
		if entries := g.ctx.DenormAliases[anchorAlias]; len(entries) > 0 {
			g.inScope[entries[0].EdgeAlias] = true
		}
	} else {
		vs, ok := g.res.GetViewScan(anchorAlias)
		if !ok {
			return nil, cherr.ErrRender.New(fmt.Sprintf("render-plan generation: no ViewScan for anchor %q", anchorAlias))
		}
		sel.FromTable = vs.SourceTable
		sel.FromAlias = anchorAlias
		if vs.HasViewFilter {
			addWhere(sel, vs.ViewFilter)
		}
	}
	g.inScope[anchorAlias] = true

	for _, st := range steps {
		j, ok := joinsByAlias[st.edge.Alias]
		if !ok {
			return nil, cherr.ErrRender.New(fmt.Sprintf("render-plan generation: no resolved join for edge alias %q", st.edge.Alias))
		}
		if err := g.emitEdge(sel, st, j); err != nil {
			return nil, err
		}
		if st.edge.HasWherePredicate {
			addWhere(sel, st.edge.WherePredicate)
		}
	}
	return sel, nil
}

func nodePlanAlias(plan logicalplan.LogicalPlan) (string, logicalplan.LogicalPlan, error) {
	switch n := plan.(type) {
	case *logicalplan.GraphNode:
		return n.Alias, n, nil
	case *logicalplan.ViewScan:
		return n.Alias, n, nil
	default:
		return "", nil, cherr.ErrRender.New(fmt.Sprintf("render-plan generation: unexpected anchor plan %T", plan))
	}
}

// resolveAlias registers alias with the resolver, dispatching to a
// denormalized binding (reading endpoint columns off the relationship
// table) when planctx recorded it as such, or a plain node binding
// otherwise.
func (g *generator) resolveAlias(alias string, nodePlan logicalplan.LogicalPlan, edgeRelByAlias map[string]*logicalplan.GraphRel) error {
	entries := g.ctx.DenormAliases[alias]
	if len(entries) == 0 {
		_, err := g.registerStandardNode(alias, nodePlan)
		return err
	}
	for _, entry := range entries {
		rel, ok := edgeRelByAlias[entry.EdgeAlias]
		if !ok {
			continue
		}
		relType := ""
		if len(rel.Labels) == 1 {
			relType = rel.Labels[0]
		}
		relMapping, ok := g.cat.RelationshipByType(relType)
		if !ok {
			return cherr.ErrRender.New(fmt.Sprintf("render-plan generation: unknown relationship type %q", relType))
		}
		g.bindDenormAlias(alias, entry, relMapping)
	}
	return nil
}

func (g *generator) registerStandardNode(alias string, nodePlan logicalplan.LogicalPlan) (string, error) {
	var vs *logicalplan.ViewScan
	switch n := nodePlan.(type) {
	case *logicalplan.GraphNode:
		v, ok := n.Input.(*logicalplan.ViewScan)
		if !ok {
			return "", cherr.ErrRender.New(fmt.Sprintf("render-plan generation: GraphNode %q has unresolved input %T", n.Alias, n.Input))
		}
		vs = v
	case *logicalplan.ViewScan:
		vs = n
	default:
		return "", cherr.ErrRender.New(fmt.Sprintf("render-plan generation: unexpected node plan %T for alias %q", nodePlan, alias))
	}
	g.res.RegisterViewScan(alias, vs)
	g.res.RegisterAlias(alias, resolver.AliasMapping{SQLAlias: alias, Position: planctx.PositionStandalone})
	return alias, nil
}

// bindDenormAlias registers a denormalized node's resolution: its
// SourceTable is the relationship table itself, and its properties come
// from whichever endpoint property map matches its position.
func (g *generator) bindDenormAlias(alias string, entry planctx.DenormAliasEntry, rel *catalog.RelationshipMapping) {
	idCols := rel.FromIDColumns
	if entry.Position == planctx.PositionTo {
		idCols = rel.ToIDColumns
	}
	vs := &logicalplan.ViewScan{
		SourceTable:        rel.Table,
		IDColumns:          idCols,
		IsDenormalized:     true,
		FromNodeProperties: rel.FromNodeProperties,
		ToNodeProperties:   rel.ToNodeProperties,
	}
	g.res.RegisterViewScan(alias, vs)
	g.res.RegisterAlias(alias, resolver.AliasMapping{
		SQLAlias:       entry.EdgeAlias,
		Position:       entry.Position,
		IsDenormalized: true,
		EdgeAlias:      entry.EdgeAlias,
		HasEdgeAlias:   true,
	})
}

// registerEdgeAlias makes the relationship's own alias resolvable for
// property access (`r.since`) the same way a node alias is.
func (g *generator) registerEdgeAlias(edgeAlias string, rel *catalog.RelationshipMapping, j logicalplan.ResolvedJoin) {
	if _, ok := g.res.GetViewScan(edgeAlias); ok {
		return
	}
	idCols := append(append([]string{}, rel.FromIDColumns...), rel.ToIDColumns...)
	vs := &logicalplan.ViewScan{
		SourceTable:     rel.Table,
		PropertyMapping: rel.PropertyMappings,
		IDColumns:       idCols,
		IsRelation:      true,
	}
	g.res.RegisterViewScan(edgeAlias, vs)
	mapping := resolver.AliasMapping{SQLAlias: edgeAlias, Position: planctx.PositionStandalone}
	if j.Polymorphic != nil {
		mapping.IsPolymorphic = true
		mapping.TypeFilters = polymorphicTypeFilters(j.Polymorphic)
	}
	g.res.RegisterAlias(edgeAlias, mapping)
}

func polymorphicTypeFilters(info *logicalplan.PolymorphicInfo) []string {
	var out []string
	if info.TypeColumn != "" {
		out = append(out, fmt.Sprintf("%s = %s", info.TypeColumn, quoteSQLString(info.RelType)))
	}
	if info.HasFromLabel {
		out = append(out, fmt.Sprintf("%s = %s", info.FromLabelColumn, quoteSQLString(info.FromLabel)))
	}
	if info.HasToLabel {
		out = append(out, fmt.Sprintf("%s = %s", info.ToLabelColumn, quoteSQLString(info.ToLabel)))
	}
	return out
}

func (g *generator) aliasOf(alias, edgeAlias string) (string, error) {
	if a, err := g.res.GetSQLAlias(alias, edgeAlias, true); err == nil {
		return a, nil
	}
	return g.res.GetSQLAlias(alias, "", false)
}

func (g *generator) hasJoinAlias(sel *Select, alias string) bool {
	if sel.FromAlias == alias {
		return true
	}
	for _, j := range sel.Joins {
		if j.Alias == alias {
			return true
		}
	}
	return false
}

func columnEqualities(leftAlias string, leftCols []string, rightAlias string, rightCols []string) []ColumnEquality {
	n := len(leftCols)
	if len(rightCols) < n {
		n = len(rightCols)
	}
	out := make([]ColumnEquality, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ColumnEquality{LeftAlias: leftAlias, LeftColumn: leftCols[i], RightAlias: rightAlias, RightColumn: rightCols[i]})
	}
	return out
}

func quoteSQLString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteSQLStringList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = quoteSQLString(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// emitEdge appends whatever joins one edge's resolved strategy requires to
// sel (spec.md §4.3 "Join key derivation"), in anchor-outward order.
func (g *generator) emitEdge(sel *Select, step chainStep, j logicalplan.ResolvedJoin) error {
	edge := step.edge

	if edge.IsVLP() {
		return g.emitVLPEdge(sel, step, j)
	}
	if j.Strategy == logicalplan.StrategyEitherUnion || j.Strategy == logicalplan.StrategyMultiTypeUnion {
		return g.emitUnionEdge(sel, step, j)
	}

	prevAlias := edge.LeftConnection
	newAlias := edge.RightConnection

	relType := ""
	if len(edge.Labels) == 1 {
		relType = edge.Labels[0]
	}
	relMapping, ok := g.cat.RelationshipByType(relType)
	if !ok {
		return cherr.ErrRender.New(fmt.Sprintf("render-plan generation: unknown relationship type %q", relType))
	}
	g.registerEdgeAlias(edge.Alias, relMapping, j)

	prevIsFrom := prevAlias == j.FromAlias
	var prevIDCols, newIDCols []string
	if prevIsFrom {
		prevIDCols, newIDCols = relMapping.FromIDColumns, relMapping.ToIDColumns
	} else {
		prevIDCols, newIDCols = relMapping.ToIDColumns, relMapping.FromIDColumns
	}

	prevSQLAlias, err := g.aliasOf(prevAlias, edge.Alias)
	if err != nil {
		return err
	}
	prevVS, ok := g.res.GetViewScan(prevAlias)
	if !ok {
		return cherr.ErrRender.New(fmt.Sprintf("render-plan generation: no ViewScan for alias %q", prevAlias))
	}

	kind := InnerJoin
	if edge.IsOptional {
		kind = LeftJoin
	}

	// The edge row itself is already the FROM table when the anchor is
	// denormalized onto this very edge (bindDenormAlias pointed the anchor's
	// SQL alias at the edge's own alias and FROM at its table).
	alreadyFromRow := sel.FromAlias == prevSQLAlias && sel.FromTable == relMapping.Table
	if !g.hasJoinAlias(sel, edge.Alias) && !alreadyFromRow {
		sel.Joins = append(sel.Joins, Join{
			Kind:       kind,
			TableOrCTE: relMapping.Table,
			Alias:      edge.Alias,
			OnKeys:     columnEqualities(edge.Alias, prevIDCols, prevSQLAlias, prevVS.IDColumns),
		})
	}
	g.inScope[edge.Alias] = true

	newSideIsFrom := !prevIsFrom
	newSideDenormalized := (newSideIsFrom && relMapping.FromNodeProperties != nil) ||
		(!newSideIsFrom && relMapping.ToNodeProperties != nil)

	newSideElided := false
	if newNode, ok := step.rightPlan.(*logicalplan.GraphNode); ok {
		newSideElided = newNode.Elided
	}

	if !newSideDenormalized && !newSideElided && !g.inScope[newAlias] {
		newVS, ok := g.res.GetViewScan(newAlias)
		if !ok {
			return cherr.ErrRender.New(fmt.Sprintf("render-plan generation: no ViewScan for alias %q", newAlias))
		}
		sel.Joins = append(sel.Joins, Join{
			Kind:       kind,
			TableOrCTE: newVS.SourceTable,
			Alias:      newAlias,
			OnKeys:     columnEqualities(newAlias, newVS.IDColumns, edge.Alias, newIDCols),
		})
	}
	g.inScope[newAlias] = true
	return nil
}

// emitUnionEdge handles StrategyEitherUnion/StrategyMultiTypeUnion: a
// UNION ALL CTE of every contributing relationship table, synthesized with
// a common (from_id, to_id, rel_type) shape, joined once per edge alias
// regardless of how many times the same union CTE is reused elsewhere in
// the pattern (spec.md §4.3 "Multiple relationship types"/"Either
// direction").
func (g *generator) emitUnionEdge(sel *Select, step chainStep, j logicalplan.ResolvedJoin) error {
	edge := step.edge
	prevAlias := edge.LeftConnection
	newAlias := edge.RightConnection

	cteName := j.UnionCTEName
	if !g.unionCTEs[cteName] {
		body, err := g.buildUnionCTEBody(edge, j)
		if err != nil {
			return err
		}
		g.ctes = append(g.ctes, Cte{Name: cteName, Content: RawSQL{SQL: body}})
		g.unionCTEs[cteName] = true
	}

	if _, err := g.registerStandardNode(newAlias, step.rightPlan); err != nil {
		return err
	}

	prevVS, ok := g.res.GetViewScan(prevAlias)
	if !ok {
		return cherr.ErrRender.New(fmt.Sprintf("render-plan generation: no ViewScan for alias %q", prevAlias))
	}
	newVS, ok := g.res.GetViewScan(newAlias)
	if !ok {
		return cherr.ErrRender.New(fmt.Sprintf("render-plan generation: no ViewScan for alias %q", newAlias))
	}
	if len(prevVS.IDColumns) == 0 || len(newVS.IDColumns) == 0 {
		return cherr.ErrRender.New(fmt.Sprintf("render-plan generation: edge %q endpoints have no id columns", edge.Alias))
	}

	kind := InnerJoin
	if edge.IsOptional {
		kind = LeftJoin
	}

	if !g.hasJoinAlias(sel, edge.Alias) {
		sel.Joins = append(sel.Joins, Join{
			Kind: kind, TableOrCTE: cteName, Alias: edge.Alias,
			OnKeys: columnEqualities(edge.Alias, []string{"from_id"}, prevAlias, prevVS.IDColumns[:1]),
		})
	}
	g.inScope[edge.Alias] = true
	if !g.inScope[newAlias] {
		sel.Joins = append(sel.Joins, Join{
			Kind: kind, TableOrCTE: newVS.SourceTable, Alias: newAlias,
			OnKeys: columnEqualities(newAlias, newVS.IDColumns[:1], edge.Alias, []string{"to_id"}),
		})
	}
	g.inScope[newAlias] = true
	return nil
}

func (g *generator) buildUnionCTEBody(edge *logicalplan.GraphRel, j logicalplan.ResolvedJoin) (string, error) {
	var parts []string
	addPart := func(relType string, swapped bool) error {
		rel, ok := g.cat.RelationshipByType(relType)
		if !ok {
			return cherr.ErrRender.New(fmt.Sprintf("render-plan generation: unknown relationship type %q", relType))
		}
		from, to := rel.FromIDColumns, rel.ToIDColumns
		if swapped {
			from, to = to, from
		}
		fromCol, toCol := "NULL", "NULL"
		if len(from) > 0 {
			fromCol = from[0]
		}
		if len(to) > 0 {
			toCol = to[0]
		}
		parts = append(parts, fmt.Sprintf("SELECT %s AS from_id, %s AS to_id, %s AS rel_type FROM %s", fromCol, toCol, quoteSQLString(relType), rel.Table))
		return nil
	}

	switch j.Strategy {
	case logicalplan.StrategyEitherUnion:
		relType := ""
		if len(edge.Labels) == 1 {
			relType = edge.Labels[0]
		}
		rel, ok := g.cat.RelationshipByType(relType)
		if !ok {
			return "", cherr.ErrRender.New(fmt.Sprintf("render-plan generation: unknown relationship type %q", relType))
		}
		if rel.Symmetric {
			return g.buildSymmetricUnionBody(relType, rel), nil
		}
		if err := addPart(relType, false); err != nil {
			return "", err
		}
		if err := addPart(relType, true); err != nil {
			return "", err
		}
	case logicalplan.StrategyMultiTypeUnion:
		for _, relType := range edge.Labels {
			if err := addPart(relType, false); err != nil {
				return "", err
			}
			if edge.Direction == cypherast.Either {
				if err := addPart(relType, true); err != nil {
					return "", err
				}
			}
		}
	}
	return strings.Join(parts, "\nUNION ALL\n"), nil
}

// buildSymmetricUnionBody renders the Either-direction CTE body for a
// catalog-marked `symmetric: true` relationship (DESIGN.md Open Question
// 1): one row per undirected edge, normalizing each endpoint pair with
// least/greatest instead of unioning both directions verbatim.
func (g *generator) buildSymmetricUnionBody(relType string, rel *catalog.RelationshipMapping) string {
	fromCol, toCol := "NULL", "NULL"
	if len(rel.FromIDColumns) > 0 {
		fromCol = rel.FromIDColumns[0]
	}
	if len(rel.ToIDColumns) > 0 {
		toCol = rel.ToIDColumns[0]
	}
	return fmt.Sprintf(
		"SELECT DISTINCT least(%s, %s) AS from_id, greatest(%s, %s) AS to_id, %s AS rel_type FROM %s",
		fromCol, toCol, fromCol, toCol, quoteSQLString(relType), rel.Table,
	)
}

// emitVLPEdge materializes a variable-length-path edge as a recursive CTE
// (spec.md §4.7: "recursive CTEs are emitted as raw-SQL CTE bodies"),
// bounded by MaxCTEDepth or the pattern's own upper bound, whichever is
// tighter. shortestPath/allShortestPaths wrap the recursive result with a
// MIN(depth) aggregation (spec.md §4.3).
func (g *generator) emitVLPEdge(sel *Select, step chainStep, j logicalplan.ResolvedJoin) error {
	edge := step.edge
	prevAlias := edge.LeftConnection
	newAlias := edge.RightConnection

	relType := ""
	if len(edge.Labels) == 1 {
		relType = edge.Labels[0]
	}
	relMapping, ok := g.cat.RelationshipByType(relType)
	if !ok {
		return cherr.ErrRender.New(fmt.Sprintf("render-plan generation: unknown relationship type %q for variable-length path", relType))
	}

	if _, err := g.registerStandardNode(newAlias, step.rightPlan); err != nil {
		return err
	}
	prevVS, ok := g.res.GetViewScan(prevAlias)
	if !ok {
		return cherr.ErrRender.New(fmt.Sprintf("render-plan generation: no ViewScan for alias %q", prevAlias))
	}
	newVS, ok := g.res.GetViewScan(newAlias)
	if !ok {
		return cherr.ErrRender.New(fmt.Sprintf("render-plan generation: no ViewScan for alias %q", newAlias))
	}
	if len(prevVS.IDColumns) == 0 || len(newVS.IDColumns) == 0 {
		return cherr.ErrRender.New(fmt.Sprintf("render-plan generation: edge %q endpoints have no id columns", edge.Alias))
	}

	maxDepth := g.ctx.MaxCTEDepth
	if edge.VariableLength.Max != nil && *edge.VariableLength.Max < maxDepth {
		maxDepth = *edge.VariableLength.Max
	}

	fromCol, toCol := "", ""
	if len(relMapping.FromIDColumns) > 0 {
		fromCol = relMapping.FromIDColumns[0]
	}
	if len(relMapping.ToIDColumns) > 0 {
		toCol = relMapping.ToIDColumns[0]
	}
	startCol, endCol := fromCol, toCol
	if edge.Direction == cypherast.Incoming {
		startCol, endCol = toCol, fromCol
	}

	cteName := g.nextCTEName("vlp_" + edge.Alias)
	base := fmt.Sprintf(
		"SELECT %[1]s AS start_id, %[2]s AS end_id, 1 AS depth FROM %[3]s\n"+
			"UNION ALL\n"+
			"SELECT p.start_id, e.%[2]s AS end_id, p.depth + 1 FROM %[4]s p JOIN %[3]s e ON p.end_id = e.%[1]s WHERE p.depth < %[5]d",
		startCol, endCol, relMapping.Table, cteName, maxDepth,
	)

	body := base
	switch edge.ShortestPathMode {
	case cypherast.ShortestPath:
		body = fmt.Sprintf("SELECT start_id, end_id, MIN(depth) AS depth FROM (\n%s\n) paths GROUP BY start_id, end_id", base)
	case cypherast.AllShortestPaths:
		body = fmt.Sprintf(
			"SELECT paths.* FROM (\n%s\n) paths JOIN (\n"+
				"  SELECT start_id, end_id, MIN(depth) AS min_depth FROM (\n%s\n) inner_paths GROUP BY start_id, end_id\n"+
				") shortest ON paths.start_id = shortest.start_id AND paths.end_id = shortest.end_id AND paths.depth = shortest.min_depth",
			base, base,
		)
	}

	g.ctes = append(g.ctes, Cte{Name: cteName, Content: RawSQL{SQL: body}})

	kind := InnerJoin
	if edge.IsOptional {
		kind = LeftJoin
	}
	if !g.hasJoinAlias(sel, edge.Alias) {
		sel.Joins = append(sel.Joins, Join{
			Kind: kind, TableOrCTE: cteName, Alias: edge.Alias,
			OnKeys: columnEqualities(edge.Alias, []string{"start_id"}, prevAlias, prevVS.IDColumns[:1]),
		})
	}
	g.inScope[edge.Alias] = true
	if !g.inScope[newAlias] {
		sel.Joins = append(sel.Joins, Join{
			Kind: kind, TableOrCTE: newVS.SourceTable, Alias: newAlias,
			OnKeys: columnEqualities(newAlias, newVS.IDColumns[:1], edge.Alias, []string{"end_id"}),
		})
	}
	g.inScope[newAlias] = true
	return nil
}
