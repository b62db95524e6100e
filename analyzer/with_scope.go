package analyzer

import (
	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

// WithScopeSplitting is analyzer pass 2 (spec.md §4.2 step 2). It does not
// rewrite the tree itself — it establishes the scope-boundary convention
// every later pass follows: a WithClause is opaque to anything walking the
// tree from above it. Every pass in this package that descends through a
// WithClause resets its traversal state at that point (duplicate-scan's
// visited set, graph-join's pattern metadata) instead of threading parent
// state through. This pass exists as an explicit pipeline step so the
// ordering in spec.md §4.2 is visible in the pipeline itself, and so a
// future pass added here has an obvious place to enforce the boundary
// rather than rediscovering the convention independently.
type WithScopeSplitting struct{}

func (p *WithScopeSplitting) Name() string { return "with-scope-splitting" }

func (p *WithScopeSplitting) Analyze(plan logicalplan.LogicalPlan, cat *catalog.Catalog, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	return plan, transform.SameTree, nil
}
