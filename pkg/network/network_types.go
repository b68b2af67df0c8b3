package network

import (
	"github.com/aryawin/karstgen/pkg/formation"
	"github.com/aryawin/karstgen/pkg/geology"
)

// NodeType classifies a node's role in the network.
type NodeType uint8

const (
	// NodeJunction is the default multi-way meeting point
	NodeJunction NodeType = iota
	// NodeChamber is a large chamber-type formation
	NodeChamber
	// NodeEntrance is a near-surface formation wide enough to enter
	NodeEntrance
	// NodeDeadend has fewer than two formation-level links
	NodeDeadend
)

// String returns the string representation of a node type
func (t NodeType) String() string {
	switch t {
	case NodeJunction:
		return "junction"
	case NodeChamber:
		return "chamber"
	case NodeEntrance:
		return "entrance"
	case NodeDeadend:
		return "deadend"
	default:
		return "unknown"
	}
}

// ConnectionType classifies a passage between nodes.
type ConnectionType uint8

const (
	// ConnTunnel is the default walkable passage
	ConnTunnel ConnectionType = iota
	// ConnShaft is a predominantly vertical drop
	ConnShaft
	// ConnSqueeze is a passage under two units wide
	ConnSqueeze
	// ConnBridge crosses an underground stream between wet chambers
	ConnBridge
)

// String returns the string representation of a connection type
func (t ConnectionType) String() string {
	switch t {
	case ConnTunnel:
		return "tunnel"
	case ConnShaft:
		return "shaft"
	case ConnSqueeze:
		return "squeeze"
	case ConnBridge:
		return "bridge"
	default:
		return "unknown"
	}
}

// CaveConnection is a directed edge record. TargetNodeID always
// resolves inside the same network as its owner node.
type CaveConnection struct {
	TargetNodeID int            `json:"targetNodeId"`
	Type         ConnectionType `json:"type"`
	Distance     float64        `json:"distance"`
	Difficulty   float64        `json:"difficulty"`
	Width        float64        `json:"width"`
	Height       float64        `json:"height"`
	WaterFlow    float64        `json:"waterFlow"`
	AirFlow      float64        `json:"airFlow"`
	Obstructions float64        `json:"obstructions"`
	Stability    float64        `json:"stability"`
}

// CaveNode is one formation's place in the traversal graph.
type CaveNode struct {
	ID                  int                  `json:"id"`
	Position            geology.Vec3         `json:"position"`
	Formation           *formation.Formation `json:"-"`
	Type                NodeType             `json:"nodeType"`
	Connections         []CaveConnection     `json:"connections"`
	Depth               float64              `json:"depth"`
	Accessibility       float64              `json:"accessibility"`
	WaterAccess         bool                 `json:"waterAccess"`
	AirQuality          float64              `json:"airQuality"`
	StructuralStability float64              `json:"structuralStability"`
	Features            []string             `json:"features"`
}

// CaveNetwork is exactly one connected component of the node graph.
// It is immutable after analysis.
type CaveNetwork struct {
	ID           string       `json:"id"`
	Nodes        []*CaveNode  `json:"nodes"`
	Entrances    []int        `json:"entrances"`
	Exits        []int        `json:"exits"`
	MainChambers []int        `json:"mainChambers"`
	WaterSources []int        `json:"waterSources"`
	DeepestPoint geology.Vec3 `json:"deepestPoint"`
	TotalVolume  float64      `json:"totalVolume"`

	AccessibilityScore float64 `json:"accessibilityScore"`
	ConnectivityScore  float64 `json:"connectivityScore"`
	ExplorationScore   float64 `json:"explorationScore"`
	SafetyScore        float64 `json:"safetyScore"`
}

// Node returns the node with the given ID, or nil.
func (n *CaveNetwork) Node(id int) *CaveNode {
	for _, node := range n.Nodes {
		if node.ID == id {
			return node
		}
	}
	return nil
}

// EdgeCount returns the number of undirected links in the network.
func (n *CaveNetwork) EdgeCount() int {
	total := 0
	for _, node := range n.Nodes {
		total += len(node.Connections)
	}
	return total / 2
}

// FlowPath is a derived, transient water route through one network.
type FlowPath struct {
	ID              string  `json:"id"`
	SourceNode      int     `json:"sourceNode"`
	Nodes           []int   `json:"nodes"`
	FlowRate        float64 `json:"flowRate"`
	TotalDrop       float64 `json:"totalDrop"`
	AverageGradient float64 `json:"averageGradient"`
}

// Builder constants.
const (
	maxLinkDistance  = 50.0 // node pairs beyond this are never linked
	sampleStep       = 2.0
	viableFraction   = 0.7 // share of open samples required
	openDensity      = 0.3
	interpolateReach = 5.0
	entranceDepth    = 20.0 // nodes shallower than this can be entrances
	entranceRadius   = 3.0
	squeezeWidth     = 2.0
	redundancyCap    = 12 // chamber-entrance pairs walked per network
	redundancyHops   = 3
)
