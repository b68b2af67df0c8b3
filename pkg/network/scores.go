package network

import (
	"math"
	"sort"
)

// accessibilityScore rates how reachable a network is from the
// surface. Zero entrances means the system is sealed and scores 0.
func accessibilityScore(net *CaveNetwork) float64 {
	if len(net.Entrances) == 0 {
		return 0
	}

	total := len(net.Nodes)
	bestFraction := 0.0
	bestQuality := 0.0
	for _, entranceID := range net.Entrances {
		reached := reachableFrom(net, entranceID)
		fraction := float64(reached) / float64(total)
		if fraction > bestFraction {
			bestFraction = fraction
		}

		entrance := net.Node(entranceID)
		if entrance == nil {
			continue
		}
		size := clamp01(entrance.Formation.Radius / 10.0)
		quality := (size + entrance.StructuralStability + entrance.Accessibility) / 3.0
		if quality > bestQuality {
			bestQuality = quality
		}
	}

	return clamp01(0.7*bestFraction + 0.3*bestQuality)
}

// connectivityScore blends edge density against the complete graph,
// chamber-to-entrance route redundancy and mean edge quality. A
// single isolated node is trivially fully connected.
func connectivityScore(net *CaveNetwork) float64 {
	n := len(net.Nodes)
	if n <= 1 {
		return 1.0
	}

	edges := net.EdgeCount()
	maxEdges := n * (n - 1) / 2
	density := float64(edges) / float64(maxEdges)

	redundancy := routeRedundancy(net)
	quality := meanEdgeQuality(net)

	return clamp01(0.5*density + 0.3*redundancy + 0.2*quality)
}

// routeRedundancy samples chamber-entrance pairs and measures how
// many short alternate routes join them. Pair enumeration is capped
// so large networks stay cheap; pairs are taken in node-ID order for
// determinism.
func routeRedundancy(net *CaveNetwork) float64 {
	if len(net.MainChambers) == 0 || len(net.Entrances) == 0 {
		return 0
	}

	chambers := append([]int(nil), net.MainChambers...)
	entrances := append([]int(nil), net.Entrances...)
	sort.Ints(chambers)
	sort.Ints(entrances)

	pairs := 0
	sum := 0.0
	for _, c := range chambers {
		for _, e := range entrances {
			if c == e {
				continue
			}
			paths := countBoundedPaths(net, c, e, redundancyHops, 3)
			if paths > 1 {
				sum += 1.0
			} else if paths == 1 {
				sum += 0.5
			}
			pairs++
			if pairs >= redundancyCap {
				return sum / float64(pairs)
			}
		}
	}
	if pairs == 0 {
		return 0
	}
	return sum / float64(pairs)
}

// meanEdgeQuality averages per-connection quality over every edge
// record: wide, unobstructed, stable passages score high.
func meanEdgeQuality(net *CaveNetwork) float64 {
	count := 0
	sum := 0.0
	for _, node := range net.Nodes {
		for _, conn := range node.Connections {
			width := clamp01(conn.Width / 4.0)
			q := 0.4*width + 0.3*(1.0-conn.Obstructions) + 0.3*conn.Stability
			sum += q
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// explorationScore rewards large, deep, varied systems: node count,
// maximum depth, node-type variety and feature density each
// contribute a capped share.
func explorationScore(net *CaveNetwork) float64 {
	if len(net.Nodes) == 0 {
		return 0
	}

	size := math.Min(float64(len(net.Nodes))/20.0, 1.0)

	maxDepth := 0.0
	types := make(map[NodeType]bool)
	features := 0
	for _, node := range net.Nodes {
		if node.Depth > maxDepth {
			maxDepth = node.Depth
		}
		types[node.Type] = true
		features += len(node.Features)
	}

	depth := math.Min(maxDepth/200.0, 1.0)
	variety := float64(len(types)) / 4.0
	featureDensity := math.Min(float64(features)/float64(len(net.Nodes)), 1.0)

	return clamp01(0.3*size + 0.3*depth + 0.2*variety + 0.2*featureDensity)
}

// safetyScore blends structural stability of nodes and passages with
// air quality and escape options. Two or more entrances earn the full
// escape bonus.
func safetyScore(net *CaveNetwork) float64 {
	if len(net.Nodes) == 0 {
		return 0
	}

	stabilitySum := 0.0
	airSum := 0.0
	for _, node := range net.Nodes {
		stabilitySum += node.StructuralStability
		airSum += node.AirQuality
	}
	nodeStability := stabilitySum / float64(len(net.Nodes))
	airQuality := airSum / float64(len(net.Nodes))

	edgeSafety := 0.0
	edgeCount := 0
	for _, node := range net.Nodes {
		for _, conn := range node.Connections {
			edgeSafety += 0.5*conn.Stability + 0.5*(1.0-conn.Difficulty)
			edgeCount++
		}
	}
	if edgeCount > 0 {
		edgeSafety /= float64(edgeCount)
	} else {
		edgeSafety = nodeStability
	}

	entranceBonus := math.Min(float64(len(net.Entrances)), 2.0) / 2.0

	return clamp01(0.4*nodeStability + 0.3*edgeSafety + 0.2*airQuality + 0.1*entranceBonus)
}
