package analyzer

import (
	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/internal/cherr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

// ViewResolution is analyzer pass 3 (spec.md §4.2 step 3): replace each
// Scan{label} with a ViewScan built from the catalog. Denormalized
// ViewScans additionally carry from/to_node_properties.
type ViewResolution struct{}

func (p *ViewResolution) Name() string { return "view-resolution" }

func (p *ViewResolution) Analyze(plan logicalplan.LogicalPlan, cat *catalog.Catalog, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	return resolveViews(plan, cat, ctx)
}

func resolveViews(plan logicalplan.LogicalPlan, cat *catalog.Catalog, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	switch n := plan.(type) {
	case *logicalplan.GraphNode:
		child, id, err := resolveViews(n.Input, cat, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if scan, ok := child.(*logicalplan.Scan); ok {
			node, ok := cat.NodeByLabel(scan.Label)
			if !ok {
				return nil, transform.SameTree, cherr.ErrCatalog.New("unknown node label " + scan.Label)
			}
			vs := &logicalplan.ViewScan{
				Alias:           scan.Alias,
				SourceTable:     node.Table,
				PropertyMapping: node.PropertyMappings,
				IDColumns:       node.IDColumns,
				IsDenormalized:  node.Denormalized,
			}
			if len(node.ViewParameters) > 0 {
				vs.ViewParameterNames = node.ViewParameters
			}
			if node.HasFilter {
				vs.HasViewFilter = true
			}
			cp := *n
			cp.Input = vs
			cp.IsDenormalized = node.Denormalized
			return &cp, transform.NewTree, nil
		}
		if id == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	case *logicalplan.GraphRel:
		left, leftID, err := resolveViews(n.Left, cat, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		right, rightID, err := resolveViews(n.Right, cat, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		id := transform.Combine(leftID, rightID)
		if id == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Left = left
		cp.Right = right
		return &cp, transform.NewTree, nil

	case *logicalplan.Filter:
		child, id, err := resolveViews(n.Input, cat, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if id == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	case *logicalplan.Projection:
		child, id, err := resolveViews(n.Input, cat, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if id == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	case *logicalplan.WithClause:
		child, id, err := resolveViews(n.Input, cat, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if id == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	case *logicalplan.Union:
		changed := false
		inputs := make([]logicalplan.LogicalPlan, len(n.Inputs))
		for i, in := range n.Inputs {
			rewritten, id, err := resolveViews(in, cat, ctx)
			if err != nil {
				return nil, transform.SameTree, err
			}
			inputs[i] = rewritten
			if id == transform.NewTree {
				changed = true
			}
		}
		if !changed {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Inputs = inputs
		return &cp, transform.NewTree, nil

	default:
		return plan, transform.SameTree, nil
	}
}
