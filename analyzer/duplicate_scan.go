package analyzer

import (
	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

// DuplicateScanRemoval is analyzer pass 1 (spec.md §4.2 step 1): if the
// same node alias appears in two branches of a GraphRel, the second
// occurrence becomes Empty so the join emerges from the earlier scan.
type DuplicateScanRemoval struct{}

func (p *DuplicateScanRemoval) Name() string { return "duplicate-scan-removal" }

func (p *DuplicateScanRemoval) Analyze(plan logicalplan.LogicalPlan, cat *catalog.Catalog, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	visited := map[string]bool{}
	out, id := removeDuplicates(plan, visited)
	return out, id, nil
}

// removeDuplicates descends right, then center, then (only if
// left_connection is unvisited) left, per spec.md §4.2 step 1.
func removeDuplicates(plan logicalplan.LogicalPlan, visited map[string]bool) (logicalplan.LogicalPlan, transform.TreeIdentity) {
	switch n := plan.(type) {
	case *logicalplan.GraphRel:
		right, rightID := removeDuplicates(n.Right, visited)

		if n.RightConnection != "" {
			visited[n.RightConnection] = true
		}

		var left logicalplan.LogicalPlan
		var leftID transform.TreeIdentity
		if n.LeftConnection != "" && visited[n.LeftConnection] {
			left, leftID = &logicalplan.Empty{}, transform.NewTree
		} else {
			if n.LeftConnection != "" {
				visited[n.LeftConnection] = true
			}
			left, leftID = removeDuplicates(n.Left, visited)
		}

		id := transform.Combine(rightID, leftID)
		if id == transform.SameTree {
			return n, transform.SameTree
		}
		cp := *n
		cp.Left = left
		cp.Right = right
		return &cp, transform.NewTree

	case *logicalplan.GraphNode:
		child, id := removeDuplicates(n.Input, visited)
		if id == transform.SameTree {
			return n, transform.SameTree
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree

	case *logicalplan.Filter:
		child, id := removeDuplicates(n.Input, visited)
		if id == transform.SameTree {
			return n, transform.SameTree
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree

	case *logicalplan.WithClause:
		// Scope boundary (spec.md §4.2 step 2): descend into Input only.
		child, id := removeDuplicates(n.Input, map[string]bool{})
		if id == transform.SameTree {
			return n, transform.SameTree
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree

	case *logicalplan.Projection:
		child, id := removeDuplicates(n.Input, visited)
		if id == transform.SameTree {
			return n, transform.SameTree
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree

	case *logicalplan.Union:
		changed := false
		inputs := make([]logicalplan.LogicalPlan, len(n.Inputs))
		for i, in := range n.Inputs {
			rewritten, id := removeDuplicates(in, map[string]bool{})
			inputs[i] = rewritten
			if id == transform.NewTree {
				changed = true
			}
		}
		if !changed {
			return n, transform.SameTree
		}
		cp := *n
		cp.Inputs = inputs
		return &cp, transform.NewTree

	default:
		return plan, transform.SameTree
	}
}
