package network

import (
	"container/list"
)

// partition groups nodes into connected components with an iterative
// BFS over the edge relation. Every node lands in exactly one
// network, and no connection crosses a network boundary; explicit
// visited tracking bounds stack depth on cyclic graphs.
func partition(nodes []*CaveNode) []*CaveNetwork {
	byID := make(map[int]*CaveNode, len(nodes))
	for _, node := range nodes {
		byID[node.ID] = node
	}

	visited := make(map[int]bool, len(nodes))
	networks := make([]*CaveNetwork, 0)

	for _, start := range nodes {
		if visited[start.ID] {
			continue
		}

		component := &CaveNetwork{
			Nodes: make([]*CaveNode, 0, 4),
		}

		queue := list.New()
		queue.PushBack(start.ID)
		visited[start.ID] = true

		for queue.Len() > 0 {
			id, ok := queue.Remove(queue.Front()).(int)
			if !ok {
				continue
			}
			node := byID[id]
			component.Nodes = append(component.Nodes, node)

			for _, conn := range node.Connections {
				if !visited[conn.TargetNodeID] {
					visited[conn.TargetNodeID] = true
					queue.PushBack(conn.TargetNodeID)
				}
			}
		}

		networks = append(networks, component)
	}

	return networks
}

// reachableFrom returns how many network nodes a BFS from the given
// node can reach, counting the start itself.
func reachableFrom(net *CaveNetwork, startID int) int {
	visited := make(map[int]bool)
	queue := list.New()
	queue.PushBack(startID)
	visited[startID] = true

	for queue.Len() > 0 {
		id := queue.Remove(queue.Front()).(int)
		node := net.Node(id)
		if node == nil {
			continue
		}
		for _, conn := range node.Connections {
			if !visited[conn.TargetNodeID] {
				visited[conn.TargetNodeID] = true
				queue.PushBack(conn.TargetNodeID)
			}
		}
	}
	return len(visited)
}

// countBoundedPaths counts distinct simple paths between two nodes
// using at most maxHops edges, stopping early at the cap. This is the
// hop-capped redundancy walk; the cap keeps it cheap on dense
// networks.
func countBoundedPaths(net *CaveNetwork, fromID, toID, maxHops, limit int) int {
	found := 0
	onPath := make(map[int]bool)

	var walk func(id, hops int)
	walk = func(id, hops int) {
		if found >= limit {
			return
		}
		if id == toID {
			found++
			return
		}
		if hops == 0 {
			return
		}
		onPath[id] = true
		node := net.Node(id)
		if node != nil {
			for _, conn := range node.Connections {
				if !onPath[conn.TargetNodeID] {
					walk(conn.TargetNodeID, hops-1)
				}
			}
		}
		delete(onPath, id)
	}

	walk(fromID, maxHops)
	return found
}
