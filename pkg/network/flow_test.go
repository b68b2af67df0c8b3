package network

import (
	"context"
	"math"
	"testing"

	"github.com/aryawin/karstgen/pkg/geology"
)

// linkedNetwork wires nodes with symmetric edges at the given index
// pairs and returns the assembled network.
func linkedNetwork(nodes []*CaveNode, pairs [][2]int) *CaveNetwork {
	for _, p := range pairs {
		a, b := nodes[p[0]], nodes[p[1]]
		dist := a.Position.Dist(b.Position)
		a.Connections = append(a.Connections, CaveConnection{TargetNodeID: b.ID, Type: ConnTunnel, Distance: dist, Stability: 0.8})
		b.Connections = append(b.Connections, CaveConnection{TargetNodeID: a.ID, Type: ConnTunnel, Distance: dist, Stability: 0.8})
	}
	return &CaveNetwork{ID: "net-0", Nodes: nodes}
}

func flowNode(id int, pos geology.Vec3, water bool) *CaveNode {
	return &CaveNode{
		ID:                  id,
		Position:            pos,
		Depth:               -pos.Y,
		WaterAccess:         water,
		StructuralStability: 0.8,
		AirQuality:          0.9,
	}
}

func TestFlowTracesDownhill(t *testing.T) {
	nodes := []*CaveNode{
		flowNode(0, geology.Vec3{X: 0, Y: -10, Z: 0}, true),
		flowNode(1, geology.Vec3{X: 20, Y: -25, Z: 0}, false),
		flowNode(2, geology.Vec3{X: 40, Y: -40, Z: 0}, false),
	}
	net := linkedNetwork(nodes, [][2]int{{0, 1}, {1, 2}})

	paths, _ := NewFlowAnalyzer().Analyze(context.Background(), net)
	if len(paths) != 1 {
		t.Fatalf("expected 1 flow path, got %d", len(paths))
	}

	p := paths[0]
	if p.SourceNode != 0 {
		t.Errorf("expected source node 0, got %d", p.SourceNode)
	}
	if len(p.Nodes) != 3 || p.Nodes[2] != 2 {
		t.Errorf("expected route 0-1-2, got %v", p.Nodes)
	}
	if p.TotalDrop != 30 {
		t.Errorf("expected drop 30, got %.2f", p.TotalDrop)
	}
	if p.AverageGradient <= 0 {
		t.Errorf("downhill path should have positive gradient, got %.3f", p.AverageGradient)
	}
	wantRate := p.AverageGradient * 10
	if math.Abs(p.FlowRate-wantRate) > 1e-9 {
		t.Errorf("flow rate should be gradient x 10: got %.3f want %.3f", p.FlowRate, wantRate)
	}
}

func TestFlowDeterministicID(t *testing.T) {
	nodes := []*CaveNode{
		flowNode(0, geology.Vec3{X: 0, Y: -10, Z: 0}, true),
		flowNode(1, geology.Vec3{X: 10, Y: -40, Z: 0}, false),
	}
	net := linkedNetwork(nodes, [][2]int{{0, 1}})

	first, _ := NewFlowAnalyzer().Analyze(context.Background(), net)
	second, _ := NewFlowAnalyzer().Analyze(context.Background(), net)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected 1 path per run, got %d and %d", len(first), len(second))
	}
	if first[0].ID != second[0].ID {
		t.Errorf("flow IDs differ across runs: %s vs %s", first[0].ID, second[0].ID)
	}
	if first[0].ID != "flow-0-1" {
		t.Errorf("unexpected flow ID %s", first[0].ID)
	}
}

func TestFlowNoWaterSources(t *testing.T) {
	nodes := []*CaveNode{
		flowNode(0, geology.Vec3{X: 0, Y: -10, Z: 0}, false),
		flowNode(1, geology.Vec3{X: 10, Y: -40, Z: 0}, false),
	}
	net := linkedNetwork(nodes, [][2]int{{0, 1}})

	if paths, _ := NewFlowAnalyzer().Analyze(context.Background(), net); len(paths) != 0 {
		t.Errorf("no water access should yield no paths, got %d", len(paths))
	}
}

func TestFlowDeepWaterExcluded(t *testing.T) {
	// Water below the phreatic cutoff does not seed surface flow.
	nodes := []*CaveNode{
		flowNode(0, geology.Vec3{X: 0, Y: -60, Z: 0}, true),
		flowNode(1, geology.Vec3{X: 10, Y: -80, Z: 0}, false),
	}
	net := linkedNetwork(nodes, [][2]int{{0, 1}})

	if paths, _ := NewFlowAnalyzer().Analyze(context.Background(), net); len(paths) != 0 {
		t.Errorf("deep water should be excluded as a source, got %d paths", len(paths))
	}
}

func TestFlowSkipsUnreachableSink(t *testing.T) {
	// Source and sink share a network struct but no route.
	nodes := []*CaveNode{
		flowNode(0, geology.Vec3{X: 0, Y: -10, Z: 0}, true),
		flowNode(1, geology.Vec3{X: 10, Y: -40, Z: 0}, false),
	}
	net := &CaveNetwork{ID: "net-0", Nodes: nodes}

	if paths, _ := NewFlowAnalyzer().Analyze(context.Background(), net); len(paths) != 0 {
		t.Errorf("unreachable sink should be skipped, got %d paths", len(paths))
	}
}

func TestEdgeCostFloored(t *testing.T) {
	// A steep drop would push distance - 2*drop negative; the floor
	// keeps the cost usable for shortest-path search.
	from := flowNode(0, geology.Vec3{X: 0, Y: 0, Z: 0}, false)
	to := flowNode(1, geology.Vec3{X: 0, Y: -30, Z: 0}, false)
	conn := CaveConnection{TargetNodeID: 1, Distance: 30}

	if cost := edgeCost(from, to, conn); cost != minEdgeCost {
		t.Errorf("expected floored cost %.1f, got %.3f", minEdgeCost, cost)
	}
}

func TestFlowExpiredContextTruncates(t *testing.T) {
	nodes := []*CaveNode{
		flowNode(0, geology.Vec3{X: 0, Y: -10, Z: 0}, true),
		flowNode(1, geology.Vec3{X: 30, Y: -25, Z: 0}, false),
		flowNode(2, geology.Vec3{X: 60, Y: -40, Z: 0}, false),
	}
	net := linkedNetwork(nodes, [][2]int{{0, 1}, {1, 2}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths, truncated := NewFlowAnalyzer().Analyze(ctx, net)
	if !truncated {
		t.Error("expected truncated flow analysis under an expired context")
	}
	if len(paths) != 0 {
		t.Errorf("no paths expected after expiry, got %d", len(paths))
	}
}
