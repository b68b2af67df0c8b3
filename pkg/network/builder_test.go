package network

import (
	"context"
	"math"
	"testing"

	"github.com/aryawin/karstgen/pkg/formation"
	"github.com/aryawin/karstgen/pkg/geology"
)

// openCorridor fills the box between two centers with open points so
// passage sampling sees a traversable route.
func openCorridor(from, to geology.Vec3, density float64) *geology.PointGrid {
	minX, maxX := math.Min(from.X, to.X)-4, math.Max(from.X, to.X)+4
	minY, maxY := math.Min(from.Y, to.Y)-4, math.Max(from.Y, to.Y)+4
	minZ, maxZ := math.Min(from.Z, to.Z)-4, math.Max(from.Z, to.Z)+4

	points := make([]geology.CavePoint, 0)
	for x := minX; x <= maxX; x += 2 {
		for y := minY; y <= maxY; y += 2 {
			for z := minZ; z <= maxZ; z += 2 {
				points = append(points, geology.CavePoint{
					Position: geology.Vec3{X: x, Y: y, Z: z},
					Density:  density,
					Material: geology.MaterialAir,
				})
			}
		}
	}
	return geology.NewPointGrid(points, 15)
}

func caveFormation(id int, center geology.Vec3, radius float64) *formation.Formation {
	return &formation.Formation{
		ID:        id,
		Type:      formation.TypeTunnel,
		Center:    center,
		Radius:    radius,
		Height:    radius,
		Stability: 0.8,
		Points: []geology.CavePoint{
			{Position: center, Density: 0.8, Material: geology.MaterialAir},
		},
	}
}

func TestBuildLinksNearbyFormations(t *testing.T) {
	a := caveFormation(0, geology.Vec3{X: 0, Y: -30, Z: 0}, 10)
	b := caveFormation(1, geology.Vec3{X: 5, Y: -30, Z: 0}, 10)
	grid := openCorridor(a.Center, b.Center, 0.8)

	networks, _ := NewBuilder().Build(context.Background(), []*formation.Formation{a, b}, grid)
	if len(networks) != 1 {
		t.Fatalf("expected one network, got %d", len(networks))
	}
	net := networks[0]
	if len(net.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(net.Nodes))
	}
	for _, node := range net.Nodes {
		if len(node.Connections) != 1 {
			t.Errorf("node %d: expected 1 connection, got %d", node.ID, len(node.Connections))
		}
	}

	conn := net.Nodes[0].Connections[0]
	if conn.Type != ConnTunnel {
		t.Errorf("expected tunnel connection, got %s", conn.Type)
	}
	// Width and height scale with the interpolated passage density.
	if conn.Width <= 0 || conn.Height <= 0 {
		t.Errorf("expected positive passage dimensions, got %.2f x %.2f", conn.Width, conn.Height)
	}
	if conn.Distance != 5 {
		t.Errorf("expected distance 5, got %.2f", conn.Distance)
	}
}

func TestIsolatedFormationScores(t *testing.T) {
	// Deep and narrow: never classified as an entrance.
	f := caveFormation(0, geology.Vec3{X: 0, Y: -100, Z: 0}, 2)
	grid := geology.NewPointGrid(nil, 15)

	networks, _ := NewBuilder().Build(context.Background(), []*formation.Formation{f}, grid)
	if len(networks) != 1 {
		t.Fatalf("expected one network, got %d", len(networks))
	}
	net := networks[0]
	if len(net.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(net.Nodes))
	}
	if len(net.Nodes[0].Connections) != 0 {
		t.Errorf("isolated node should have no connections, got %d", len(net.Nodes[0].Connections))
	}
	if net.ConnectivityScore != 1.0 {
		t.Errorf("single node connectivity should be 1.0, got %.2f", net.ConnectivityScore)
	}
	if net.AccessibilityScore != 0 {
		t.Errorf("sealed network accessibility should be 0, got %.2f", net.AccessibilityScore)
	}
}

func TestNoLinkBeyondMaxDistance(t *testing.T) {
	a := caveFormation(0, geology.Vec3{X: 0, Y: -30, Z: 0}, 5)
	b := caveFormation(1, geology.Vec3{X: 60, Y: -30, Z: 0}, 5)
	grid := openCorridor(a.Center, b.Center, 0.8)

	networks, _ := NewBuilder().Build(context.Background(), []*formation.Formation{a, b}, grid)
	if len(networks) != 2 {
		t.Fatalf("expected 2 separate networks, got %d", len(networks))
	}
}

func TestNoLinkThroughSolidRock(t *testing.T) {
	a := caveFormation(0, geology.Vec3{X: 0, Y: -30, Z: 0}, 5)
	b := caveFormation(1, geology.Vec3{X: 20, Y: -30, Z: 0}, 5)
	// Empty grid: every passage sample interpolates to zero density.
	grid := geology.NewPointGrid(nil, 15)

	networks, _ := NewBuilder().Build(context.Background(), []*formation.Formation{a, b}, grid)
	if len(networks) != 2 {
		t.Fatalf("expected 2 separate networks, got %d", len(networks))
	}
}

func TestEntranceClassification(t *testing.T) {
	// Shallow and wide: qualifies as an entrance.
	f := caveFormation(0, geology.Vec3{X: 0, Y: -10, Z: 0}, 6)
	grid := geology.NewPointGrid(nil, 15)

	networks, _ := NewBuilder().Build(context.Background(), []*formation.Formation{f}, grid)
	node := networks[0].Nodes[0]
	if node.Type != NodeEntrance {
		t.Fatalf("expected entrance node, got %s", node.Type)
	}
	if len(networks[0].Entrances) != 1 || len(networks[0].Exits) != 1 {
		t.Errorf("entrance should appear in both entrance and exit lists")
	}
	if networks[0].AccessibilityScore <= 0 {
		t.Errorf("network with entrance should have positive accessibility")
	}
}

func TestChamberNodePriority(t *testing.T) {
	// Chamber type wins over entrance criteria.
	f := caveFormation(0, geology.Vec3{X: 0, Y: -10, Z: 0}, 8)
	f.Type = formation.TypeChamber

	networks, _ := NewBuilder().Build(context.Background(), []*formation.Formation{f}, geology.NewPointGrid(nil, 15))
	node := networks[0].Nodes[0]
	if node.Type != NodeChamber {
		t.Fatalf("expected chamber node, got %s", node.Type)
	}
	if len(networks[0].MainChambers) != 1 {
		t.Errorf("chamber should be listed in MainChambers")
	}
}

func TestPartitionIsExact(t *testing.T) {
	// Two pairs far apart: each pair links internally only.
	formations := []*formation.Formation{
		caveFormation(0, geology.Vec3{X: 0, Y: -30, Z: 0}, 5),
		caveFormation(1, geology.Vec3{X: 8, Y: -30, Z: 0}, 5),
		caveFormation(2, geology.Vec3{X: 200, Y: -30, Z: 0}, 5),
		caveFormation(3, geology.Vec3{X: 208, Y: -30, Z: 0}, 5),
	}
	near := openCorridor(formations[0].Center, formations[1].Center, 0.8)
	far := openCorridor(formations[2].Center, formations[3].Center, 0.8)
	merged := make([]geology.CavePoint, 0, near.Len()+far.Len())
	for i := 0; i < near.Len(); i++ {
		merged = append(merged, near.Point(i))
	}
	for i := 0; i < far.Len(); i++ {
		merged = append(merged, far.Point(i))
	}
	grid := geology.NewPointGrid(merged, 15)

	networks, _ := NewBuilder().Build(context.Background(), formations, grid)
	if len(networks) != 2 {
		t.Fatalf("expected 2 networks, got %d", len(networks))
	}

	seen := make(map[int]string)
	for _, net := range networks {
		members := make(map[int]bool)
		for _, node := range net.Nodes {
			if prev, dup := seen[node.ID]; dup {
				t.Fatalf("node %d appears in both %s and %s", node.ID, prev, net.ID)
			}
			seen[node.ID] = net.ID
			members[node.ID] = true
		}
		// Every connection target must resolve inside its own network.
		for _, node := range net.Nodes {
			for _, conn := range node.Connections {
				if !members[conn.TargetNodeID] {
					t.Errorf("connection from %d escapes network %s", node.ID, net.ID)
				}
			}
		}
	}
	if len(seen) != len(formations) {
		t.Errorf("expected every formation assigned, got %d of %d", len(seen), len(formations))
	}
}

func TestScoresWithinBounds(t *testing.T) {
	a := caveFormation(0, geology.Vec3{X: 0, Y: -10, Z: 0}, 8)
	a.Type = formation.TypeChamber
	b := caveFormation(1, geology.Vec3{X: 10, Y: -15, Z: 0}, 6)
	c := caveFormation(2, geology.Vec3{X: 20, Y: -40, Z: 0}, 4)
	c.Features = []string{formation.FeatureUndergroundStream}
	grid := openCorridor(a.Center, c.Center, 0.8)

	networks, _ := NewBuilder().Build(context.Background(), []*formation.Formation{a, b, c}, grid)
	for _, net := range networks {
		for name, score := range map[string]float64{
			"accessibility": net.AccessibilityScore,
			"connectivity":  net.ConnectivityScore,
			"exploration":   net.ExplorationScore,
			"safety":        net.SafetyScore,
		} {
			if score < 0 || score > 1 {
				t.Errorf("%s score out of range: %.3f", name, score)
			}
		}
	}
}

func TestBuildExpiredContextSkipsLinking(t *testing.T) {
	a := caveFormation(0, geology.Vec3{X: 0, Y: -30, Z: 0}, 10)
	b := caveFormation(1, geology.Vec3{X: 5, Y: -30, Z: 0}, 10)
	grid := openCorridor(a.Center, b.Center, 0.8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	networks, truncated := NewBuilder().Build(ctx, []*formation.Formation{a, b}, grid)
	if !truncated {
		t.Error("expected a truncated build under an expired context")
	}

	// Unlinked nodes still come back, each as its own scored network.
	if len(networks) != 2 {
		t.Fatalf("expected 2 singleton networks, got %d", len(networks))
	}
	for _, net := range networks {
		if net.EdgeCount() != 0 {
			t.Errorf("network %s has %d edges, expected none", net.ID, net.EdgeCount())
		}
	}
}
