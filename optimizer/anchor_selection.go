package optimizer

import (
	"github.com/cyphersql/graphengine/cypherast"
	"github.com/cyphersql/graphengine/logicalexpr"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/transform"
)

// AnchorNodeSelection is optimizer pass 1 (spec.md §4.4 step 1). It picks
// the node alias with the most collected filter predicates (ties broken
// by presence of an OR, then by first-seen order) and rotates the
// GraphRel chain so that alias becomes the leftmost/FROM table. Grounded
// on original_source's optimizer/anchor_node_selection.rs
// (find_anchor_node / has_or_operator / anchor_traversal).
type AnchorNodeSelection struct{}

func (p *AnchorNodeSelection) Name() string { return "anchor-node-selection" }

func (p *AnchorNodeSelection) Optimize(plan logicalplan.LogicalPlan, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	return rotateAnchors(plan, ctx)
}

func rotateAnchors(plan logicalplan.LogicalPlan, ctx *planctx.PlanCtx) (logicalplan.LogicalPlan, transform.TreeIdentity, error) {
	switch n := plan.(type) {
	case *logicalplan.GraphJoins:
		chain := flattenChain(n.Input)
		if chain == nil || len(chain.nodes) < 2 {
			return n, transform.SameTree, nil
		}
		anchorIdx := findAnchorNode(chain, ctx)
		if anchorIdx == 0 {
			return n, transform.SameTree, nil
		}
		rebuilt := rebuildFromAnchor(chain, anchorIdx)
		cp := *n
		cp.Input = rebuilt
		return &cp, transform.NewTree, nil

	case *logicalplan.Filter:
		child, id, err := rotateAnchors(n.Input, ctx)
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
		child, id, err := rotateAnchors(n.Input, ctx)
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
		child, id, err := rotateAnchors(n.Input, ctx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		if id == transform.SameTree {
			return n, transform.SameTree, nil
		}
		cp := *n
		cp.Input = child
		return &cp, transform.NewTree, nil

	default:
		return plan, transform.SameTree, nil
	}
}

// chainNode is one node position in a flattened left-deep GraphRel chain.
type chainNode struct {
	alias string
	plan  logicalplan.LogicalPlan
}

// chainEdge is the edge connecting chainNode[i] to chainNode[i+1] in
// original (pre-rotation) order.
type chainEdge struct {
	rel *logicalplan.GraphRel
}

type flatChain struct {
	nodes []chainNode
	edges []chainEdge // len(edges) == len(nodes)-1
}

// flattenChain walks a left-deep GraphRel tree (GraphRel.Left is either the
// prior chain or the first GraphNode; GraphRel.Right is always the newly
// added node) into an ordered node/edge sequence.
func flattenChain(root logicalplan.LogicalPlan) *flatChain {
	var edges []chainEdge
	var tailNodes []chainNode

	cur := root
	for {
		rel, ok := cur.(*logicalplan.GraphRel)
		if !ok {
			break
		}
		tailNodes = append(tailNodes, chainNode{alias: rel.RightConnection, plan: rel.Right})
		edges = append(edges, chainEdge{rel: rel})
		cur = rel.Left
	}
	base, ok := cur.(*logicalplan.GraphNode)
	if !ok {
		return nil
	}

	nodes := make([]chainNode, 0, len(tailNodes)+1)
	nodes = append(nodes, chainNode{alias: base.Alias, plan: base})
	for i := len(tailNodes) - 1; i >= 0; i-- {
		nodes = append(nodes, tailNodes[i])
	}
	reversedEdges := make([]chainEdge, 0, len(edges))
	for i := len(edges) - 1; i >= 0; i-- {
		reversedEdges = append(reversedEdges, edges[i])
	}
	return &flatChain{nodes: nodes, edges: reversedEdges}
}

// findAnchorNode implements spec.md §4.4 step 1's tie-break ladder: most
// filter predicates, then presence of an OR, then first-seen.
func findAnchorNode(chain *flatChain, ctx *planctx.PlanCtx) int {
	best := 0
	bestCount := -1
	bestHasOr := false
	for i, n := range chain.nodes {
		var preds []logicalexpr.LogicalExpr
		if ctx != nil {
			if t, ok := ctx.Tables[n.alias]; ok {
				preds = t.FilterPredicates
			}
		}
		count := len(preds)
		hasOr := false
		for _, pr := range preds {
			if logicalexpr.HasOrOperator(pr) {
				hasOr = true
				break
			}
		}
		if count > bestCount || (count == bestCount && hasOr && !bestHasOr) {
			best = i
			bestCount = count
			bestHasOr = hasOr
		}
	}
	return best
}

// rebuildFromAnchor re-derives the left-deep chain with chain.nodes[anchorIdx]
// as the new leftmost node. Edges on the "before anchor" side have their
// direction flipped and endpoints swapped since the chain now runs the
// opposite way through them; edges on the "after anchor" side are
// unchanged.
func rebuildFromAnchor(chain *flatChain, anchorIdx int) logicalplan.LogicalPlan {
	// Edges on the "before anchor" side chain sequentially through the
	// reversed nodes (each flipped edge's own LeftConnection/RightConnection,
	// set by flipEdge, already names the correct pair). Edges on the "after
	// anchor" side are untouched originals that all fork directly off the
	// anchor's own alias — their LeftConnection/RightConnection must be left
	// exactly as recorded, not reassigned from chain position, since the
	// plan's Left subtree for these edges is the whole rotated chain built so
	// far, not just its nearest node.
	type rebuiltEdge struct {
		rel       *logicalplan.GraphRel
		rightPlan logicalplan.LogicalPlan
	}
	var newOrderEdges []rebuiltEdge

	for i := anchorIdx - 1; i >= 0; i-- {
		newOrderEdges = append(newOrderEdges, rebuiltEdge{rel: flipEdge(chain.edges[i].rel), rightPlan: chain.nodes[i].plan})
	}
	for i := anchorIdx; i < len(chain.edges); i++ {
		newOrderEdges = append(newOrderEdges, rebuiltEdge{rel: chain.edges[i].rel, rightPlan: chain.nodes[i+1].plan})
	}

	var built logicalplan.LogicalPlan = chain.nodes[anchorIdx].plan
	for _, e := range newOrderEdges {
		cp := *e.rel
		cp.Left = built
		cp.Right = e.rightPlan
		built = &cp
	}
	return built
}

func flipEdge(rel *logicalplan.GraphRel) *logicalplan.GraphRel {
	cp := *rel
	cp.LeftConnection, cp.RightConnection = rel.RightConnection, rel.LeftConnection
	switch rel.Direction {
	case cypherast.Outgoing:
		cp.Direction = cypherast.Incoming
	case cypherast.Incoming:
		cp.Direction = cypherast.Outgoing
	default:
		cp.Direction = rel.Direction
	}
	return &cp
}
