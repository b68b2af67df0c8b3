package network

import (
	"context"
	"fmt"
	"math"

	"github.com/aryawin/karstgen/pkg/formation"
	"github.com/aryawin/karstgen/pkg/geology"
)

// Builder converts formations into scored, connected cave networks.
type Builder struct{}

// NewBuilder creates a network builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build creates one node per formation, links viable pairs, and
// partitions the result into one CaveNetwork per connected component.
// Zero formations yield zero networks. Pair linking dominates the
// cost, so the context is checked there; on expiry the links made so
// far are still partitioned and scored, with truncated set.
func (b *Builder) Build(ctx context.Context, formations []*formation.Formation, grid *geology.PointGrid) (networks []*CaveNetwork, truncated bool) {
	nodes := make([]*CaveNode, 0, len(formations))
	for i, f := range formations {
		nodes = append(nodes, b.buildNode(i, f))
	}

	truncated = b.linkNodes(ctx, nodes, grid)

	networks = partition(nodes)
	for i, net := range networks {
		net.ID = fmt.Sprintf("net-%d", i)
		b.analyze(net)
	}
	return networks, truncated
}

// buildNode derives node attributes from a formation.
func (b *Builder) buildNode(id int, f *formation.Formation) *CaveNode {
	depth := -f.Center.Y

	node := &CaveNode{
		ID:                  id,
		Position:            f.Center,
		Formation:           f,
		Depth:               depth,
		WaterAccess:         f.HasFeature(formation.FeatureUndergroundStream),
		StructuralStability: f.Stability,
		Features:            f.Features,
	}

	node.Type = nodeTypeFor(f, depth)
	node.Accessibility = clamp01(f.Radius/10*0.5 + (1-depth/300)*0.5)
	node.AirQuality = airQualityFor(f, depth)
	return node
}

// nodeTypeFor classifies the node in strict priority order.
func nodeTypeFor(f *formation.Formation, depth float64) NodeType {
	switch {
	case f.Type == formation.TypeChamber:
		return NodeChamber
	case depth < entranceDepth && f.Radius > entranceRadius:
		return NodeEntrance
	case len(f.Connections) < 2:
		return NodeDeadend
	default:
		return NodeJunction
	}
}

// airQualityFor degrades with depth and gas pockets.
func airQualityFor(f *formation.Formation, depth float64) float64 {
	quality := 1 - depth/400
	if f.HasFeature(formation.FeatureGasPocket) {
		quality -= 0.4
	}
	return clamp01(quality)
}

// linkNodes creates connections for every viable node pair within
// reach. Both directions get an edge record. The context is checked
// once per anchor node; pairs linked before expiry are kept.
func (b *Builder) linkNodes(ctx context.Context, nodes []*CaveNode, grid *geology.PointGrid) bool {
	for i := 0; i < len(nodes); i++ {
		select {
		case <-ctx.Done():
			return true
		default:
		}
		for j := i + 1; j < len(nodes); j++ {
			a, c := nodes[i], nodes[j]
			dist := a.Position.Dist(c.Position)
			if dist > maxLinkDistance {
				continue
			}

			avgDensity, obstructions, ok := samplePassage(grid, a.Position, c.Position)
			if !ok {
				continue
			}

			conn := b.buildConnection(a, c, dist, avgDensity, obstructions)
			reverse := conn
			reverse.TargetNodeID = a.ID
			conn.TargetNodeID = c.ID

			a.Connections = append(a.Connections, conn)
			c.Connections = append(c.Connections, reverse)
		}
	}
	return false
}

// samplePassage walks the segment every 2 units, interpolating the
// density field from the 3 nearest points. The passage is viable when
// at least 70% of the samples are open.
func samplePassage(grid *geology.PointGrid, from, to geology.Vec3) (avgDensity, obstructions float64, ok bool) {
	dist := from.Dist(to)
	steps := int(dist/sampleStep) + 1

	open := 0
	blocked := 0
	var densitySum float64
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		d := grid.InterpolateDensity(from.Lerp(to, t), interpolateReach)
		densitySum += d
		if d >= openDensity {
			open++
		} else {
			blocked++
		}
	}

	total := steps + 1
	if float64(open)/float64(total) < viableFraction {
		return 0, 0, false
	}
	return densitySum / float64(total), float64(blocked) / float64(total), true
}

// buildConnection derives the edge record shared by both directions.
func (b *Builder) buildConnection(a, c *CaveNode, dist, avgDensity, obstructions float64) CaveConnection {
	width := avgDensity * 4
	height := avgDensity * 3

	vertical := math.Abs(a.Position.Y - c.Position.Y)
	horizontal := math.Hypot(a.Position.X-c.Position.X, a.Position.Z-c.Position.Z)

	var connType ConnectionType
	switch {
	case vertical > horizontal:
		connType = ConnShaft
	case width < squeezeWidth:
		connType = ConnSqueeze
	case a.WaterAccess && c.WaterAccess:
		connType = ConnBridge
	default:
		connType = ConnTunnel
	}

	stability := (a.StructuralStability + c.StructuralStability) / 2
	difficulty := clamp01(0.4*(1-width/4) + 0.3*obstructions + 0.3*(1-stability))

	return CaveConnection{
		Type:         connType,
		Distance:     dist,
		Difficulty:   difficulty,
		Width:        width,
		Height:       height,
		WaterFlow:    (a.Formation.WaterFraction() + c.Formation.WaterFraction()) / 2,
		AirFlow:      clamp01(width / 4 * (a.AirQuality + c.AirQuality) / 2),
		Obstructions: obstructions,
		Stability:    stability,
	}
}

// analyze fills the network's derived lists, volume, and scores.
func (b *Builder) analyze(net *CaveNetwork) {
	if len(net.Nodes) == 0 {
		return
	}

	deepest := net.Nodes[0].Position
	for _, node := range net.Nodes {
		switch node.Type {
		case NodeEntrance:
			net.Entrances = append(net.Entrances, node.ID)
			net.Exits = append(net.Exits, node.ID)
		case NodeChamber:
			net.MainChambers = append(net.MainChambers, node.ID)
		}
		if node.WaterAccess {
			net.WaterSources = append(net.WaterSources, node.ID)
		}
		if node.Position.Y < deepest.Y {
			deepest = node.Position
		}

		if f := node.Formation; f != nil {
			// Cylinder approximation of the open volume.
			net.TotalVolume += math.Pi * f.Radius * f.Radius * math.Max(f.Height, 1)
		}
	}
	net.DeepestPoint = deepest

	net.AccessibilityScore = accessibilityScore(net)
	net.ConnectivityScore = connectivityScore(net)
	net.ExplorationScore = explorationScore(net)
	net.SafetyScore = safetyScore(net)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
