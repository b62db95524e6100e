// Package optimizer runs the fixed-order optimizer pipeline over an
// analyzed logical plan (spec.md §4.4). Like package analyzer, passes run
// exactly once in the given order — no cost model, no fixed-point loop
// (spec.md §9 "Anchor selection is heuristic").
package optimizer

import (
	"github.com/cyphersql/graphengine/internal/slogx"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

// Pass is one optimizer step.
type Pass interface {
	Name() string
	Optimize(plan logicalplan.LogicalPlan, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error)
}

// Pipeline is the fixed, ordered sequence of optimizer passes (spec.md
// §4.4: anchor-node selection, denormalized-edge marking, projection
// push-down, filter push-down, view-filter cleanup, trivial-WITH
// elimination, expression simplification), plus one supplementary step,
// EndpointElision, inserted right after anchor-node selection. It resolves
// an open question spec.md §4.4 step 1 leaves unresolved (DESIGN.md Open
// Question 2) rather than reordering any of the seven named steps, and
// must run there so its chain-terminal check sees the post-rotation order.
func Pipeline() []Pass {
	return []Pass{
		&AnchorNodeSelection{},
		&EndpointElision{},
		&DenormalizedEdgeMarking{},
		&ProjectionPushdown{},
		&FilterPushdown{},
		&ViewFilterCleanup{},
		&TrivialWithElimination{},
		&ExpressionSimplification{},
	}
}

// Run executes every pass in order, short-circuiting on the first error.
func Run(passes []Pass, plan logicalplan.LogicalPlan, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, error) {
	log := slogx.ForPass("optimizer")
	for _, p := range passes {
		var id transform.TreeIdentity
		var err error
		plan, id, err = p.Optimize(plan, ctx)
		if err != nil {
			return nil, err
		}
		log.WithField("pass", p.Name()).WithField("changed", id).Debug("optimizer pass complete")
	}
	return plan, nil
}
