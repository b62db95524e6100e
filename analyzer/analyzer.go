// Package analyzer runs the fixed-order analyzer pipeline over a freshly
// built logical plan (spec.md §4.2). Unlike the teacher's
// sql/analyzer.Rule/Batch machinery — which iterates rule batches to a
// fixed point — passes here run exactly once, in the order spec.md §4.2
// specifies; spec.md is explicit that there is no fixed-point loop.
package analyzer

import (
	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/idmapper"
	"github.com/cyphersql/graphengine/internal/slogx"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

// Pass is one analyzer step. It receives the plan, the catalog snapshot,
// and the shared plan context, and returns either the same plan (SameTree)
// or a rebuilt one (NewTree), per the structural-sharing convention in
// package transform.
type Pass interface {
	Name() string
	Analyze(plan logicalplan.LogicalPlan, cat *catalog.Catalog, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error)
}

// Pipeline is the fixed, ordered sequence of analyzer passes (spec.md
// §4.2: duplicate-scan removal, WITH-scope splitting, view resolution,
// id() rewriting, graph-join inference, group-by synthesis, polymorphic
// filter injection).
func Pipeline(mapper idmapper.IDMapper) []Pass {
	return []Pass{
		&DuplicateScanRemoval{},
		&WithScopeSplitting{},
		&ViewResolution{},
		&IDRewrite{Mapper: mapper},
		&GraphJoinInference{},
		&GroupBySynthesis{},
		&PolymorphicFilterInjection{},
	}
}

// Run executes every pass in order, short-circuiting on the first error.
func Run(passes []Pass, plan logicalplan.LogicalPlan, cat *catalog.Catalog, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, error) {
	log := slogx.ForPass("analyzer")
	for _, p := range passes {
		var id transform.TreeIdentity
		var err error
		plan, id, err = p.Analyze(plan, cat, ctx)
		if err != nil {
			return nil, err
		}
		log.WithField("pass", p.Name()).WithField("changed", id).Debug("analyzer pass complete")
	}
	return plan, nil
}
