package network

import (
	"context"
	"fmt"
	"math"
	"sort"
)

const (
	// Water sources must sit above this elevation; anything deeper is
	// already at the phreatic zone and does not feed surface flow.
	sourceMinElevation = -50.0
	// Sinks are nodes within this margin of the network's lowest point.
	sinkMargin = 5.0
	// Downhill drop discounts traversal cost; a floor keeps every edge
	// cost positive so Dijkstra stays sound on steep passages.
	dropDiscount = 2.0
	minEdgeCost  = 0.1
)

// FlowAnalyzer traces water drainage through a cave network: each
// water-bearing node above the phreatic zone is routed to the lowest
// reachable point along the cheapest downhill path.
type FlowAnalyzer struct{}

// NewFlowAnalyzer returns a FlowAnalyzer.
func NewFlowAnalyzer() *FlowAnalyzer {
	return &FlowAnalyzer{}
}

// Analyze computes flow paths for every source/sink pair that is
// connected. Pairs with no route are skipped; results are ordered by
// source then sink node ID so repeated runs agree. The context is
// checked once per source; paths traced before expiry are returned
// with truncated set.
func (fa *FlowAnalyzer) Analyze(ctx context.Context, net *CaveNetwork) (paths []FlowPath, truncated bool) {
	sources := flowSources(net)
	sinks := flowSinks(net)
	if len(sources) == 0 || len(sinks) == 0 {
		return nil, false
	}

	paths = make([]FlowPath, 0, len(sources))
	for _, sourceID := range sources {
		select {
		case <-ctx.Done():
			return paths, true
		default:
		}
		for _, sinkID := range sinks {
			if sourceID == sinkID {
				continue
			}
			route, _ := dijkstra(net, sourceID, sinkID)
			if route == nil {
				continue
			}
			paths = append(paths, buildFlowPath(net, route))
		}
	}
	return paths, false
}

// flowSources returns water-access nodes above the source elevation
// cutoff, in ID order.
func flowSources(net *CaveNetwork) []int {
	ids := make([]int, 0)
	for _, node := range net.Nodes {
		if node.WaterAccess && node.Position.Y > sourceMinElevation {
			ids = append(ids, node.ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// flowSinks returns nodes within sinkMargin of the network's lowest
// elevation, in ID order.
func flowSinks(net *CaveNetwork) []int {
	if len(net.Nodes) == 0 {
		return nil
	}
	minY := math.Inf(1)
	for _, node := range net.Nodes {
		if node.Position.Y < minY {
			minY = node.Position.Y
		}
	}
	ids := make([]int, 0)
	for _, node := range net.Nodes {
		if node.Position.Y <= minY+sinkMargin {
			ids = append(ids, node.ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// edgeCost favors downhill travel: horizontal distance minus a drop
// discount, floored so costs never go non-positive.
func edgeCost(from, to *CaveNode, conn CaveConnection) float64 {
	drop := from.Position.Y - to.Position.Y
	return math.Max(minEdgeCost, conn.Distance-dropDiscount*drop)
}

// dijkstra finds the cheapest route between two nodes. The priority
// queue is a plain slice with linear extract-min; networks are small
// enough that a heap buys nothing.
func dijkstra(net *CaveNetwork, startID, endID int) ([]int, float64) {
	type pqItem struct {
		nodeID int
		cost   float64
	}

	costs := make(map[int]float64)
	parent := make(map[int]int)
	costs[startID] = 0
	parent[startID] = startID

	pq := []pqItem{{startID, 0}}

	for len(pq) > 0 {
		minIdx := 0
		for i := 1; i < len(pq); i++ {
			if pq[i].cost < pq[minIdx].cost {
				minIdx = i
			}
		}
		current := pq[minIdx]
		pq = append(pq[:minIdx], pq[minIdx+1:]...)

		if current.nodeID == endID {
			path := make([]int, 0)
			id := endID
			for id != startID {
				path = append(path, id)
				id = parent[id]
			}
			path = append(path, startID)
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, costs[endID]
		}

		node := net.Node(current.nodeID)
		if node == nil {
			continue
		}
		for _, conn := range node.Connections {
			neighbor := net.Node(conn.TargetNodeID)
			if neighbor == nil {
				continue
			}
			newCost := current.cost + edgeCost(node, neighbor, conn)
			if oldCost, seen := costs[conn.TargetNodeID]; !seen || newCost < oldCost {
				costs[conn.TargetNodeID] = newCost
				parent[conn.TargetNodeID] = current.nodeID
				pq = append(pq, pqItem{conn.TargetNodeID, newCost})
			}
		}
	}

	return nil, 0
}

// buildFlowPath derives rate and gradient from the route geometry.
func buildFlowPath(net *CaveNetwork, route []int) FlowPath {
	source := net.Node(route[0])
	last := net.Node(route[len(route)-1])

	distance := 0.0
	for i := 1; i < len(route); i++ {
		a := net.Node(route[i-1])
		b := net.Node(route[i])
		distance += a.Position.Dist(b.Position)
	}

	drop := source.Position.Y - last.Position.Y
	gradient := 0.0
	if distance > 0 {
		gradient = drop / distance
	}

	return FlowPath{
		ID:              fmt.Sprintf("flow-%d-%d", route[0], route[len(route)-1]),
		SourceNode:      route[0],
		Nodes:           route,
		FlowRate:        math.Max(0, gradient*10.0),
		TotalDrop:       drop,
		AverageGradient: gradient,
	}
}
