package partition

import (
	"math/rand/v2"
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// communitySeed fixes the shuffle source of the modularity optimizer so
// identical projections partition identically across runs.
const communitySeed = 1

// projection is an in-memory snapshot of one stored graph: node ids in
// ascending order plus an undirected simple graph (self-loops dropped,
// parallel edges collapsed).
type projection struct {
	nodeIDs []int64
	graph   *simple.UndirectedGraph
}

// componentLabels labels every node with its weakly connected component.
func (p *projection) componentLabels() map[int64]string {
	labels := make(map[int64]string, len(p.nodeIDs))
	for _, component := range topo.ConnectedComponents(p.graph) {
		key := groupKey(component)
		for _, node := range component {
			labels[node.ID()] = key
		}
	}
	return labels
}

// communityLabels labels every node with its modularity community. With
// refine, communities are additionally split into their connected
// parts; guaranteed internally connected communities are what set
// leiden apart from louvain.
func (p *projection) communityLabels(refine bool) map[int64]string {
	labels := make(map[int64]string, len(p.nodeIDs))
	if len(p.nodeIDs) == 0 {
		return labels
	}

	reduced := community.Modularize(p.graph, 1, rand.NewPCG(communitySeed, communitySeed))
	for _, nodes := range reduced.Communities() {
		if refine {
			for _, part := range p.splitDisconnected(nodes) {
				key := groupKey(part)
				for _, node := range part {
					labels[node.ID()] = key
				}
			}
			continue
		}
		key := groupKey(nodes)
		for _, node := range nodes {
			labels[node.ID()] = key
		}
	}
	return labels
}

// propagationLabels runs label propagation until stable or the
// iteration cap. Nodes are visited in ascending id order and label ties
// go to the smaller label, so repeated runs agree.
func (p *projection) propagationLabels() map[int64]string {
	labels := make(map[int64]int64, len(p.nodeIDs))
	for _, id := range p.nodeIDs {
		labels[id] = id
	}

	const maxIterations = 10
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for _, id := range p.nodeIDs {
			counts := make(map[int64]int)
			neighbors := p.graph.From(id)
			for neighbors.Next() {
				counts[labels[neighbors.Node().ID()]]++
			}
			if len(counts) == 0 {
				continue
			}

			best := labels[id]
			bestCount := counts[best]
			for label, count := range counts {
				if count > bestCount || (count == bestCount && label < best) {
					best = label
					bestCount = count
				}
			}

			if labels[id] != best {
				labels[id] = best
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	result := make(map[int64]string, len(labels))
	for id, label := range labels {
		result[id] = strconv.FormatInt(label, 10)
	}
	return result
}

// coreLabels assigns every node its core number by min-degree peeling:
// at level k, nodes whose residual degree drops to k or below are
// removed until none remain, then the level rises.
func (p *projection) coreLabels() map[int64]string {
	degree := make(map[int64]int, len(p.nodeIDs))
	for _, id := range p.nodeIDs {
		degree[id] = p.graph.From(id).Len()
	}

	labels := make(map[int64]string, len(p.nodeIDs))
	removed := make(map[int64]bool, len(p.nodeIDs))
	remaining := len(p.nodeIDs)

	for level := 0; remaining > 0; level++ {
		peeled := true
		for peeled {
			peeled = false
			for _, id := range p.nodeIDs {
				if removed[id] || degree[id] > level {
					continue
				}
				labels[id] = strconv.Itoa(level)
				removed[id] = true
				remaining--
				peeled = true

				neighbors := p.graph.From(id)
				for neighbors.Next() {
					neighborID := neighbors.Node().ID()
					if !removed[neighborID] {
						degree[neighborID]--
					}
				}
			}
		}
	}
	return labels
}

// splitDisconnected partitions one community into its connected parts
// within the projection.
func (p *projection) splitDisconnected(nodes []graph.Node) [][]graph.Node {
	inCommunity := make(map[int64]bool, len(nodes))
	for _, node := range nodes {
		inCommunity[node.ID()] = true
	}

	visited := make(map[int64]bool, len(nodes))
	parts := make([][]graph.Node, 0, 1)
	for _, node := range nodes {
		if visited[node.ID()] {
			continue
		}
		visited[node.ID()] = true
		part := []graph.Node{}
		queue := []graph.Node{node}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			part = append(part, current)

			neighbors := p.graph.From(current.ID())
			for neighbors.Next() {
				neighbor := neighbors.Node()
				if inCommunity[neighbor.ID()] && !visited[neighbor.ID()] {
					visited[neighbor.ID()] = true
					queue = append(queue, neighbor)
				}
			}
		}
		parts = append(parts, part)
	}
	return parts
}

// groupKey names a node set by its smallest member, keeping keys stable
// across reruns.
func groupKey(nodes []graph.Node) string {
	smallest := nodes[0].ID()
	for _, node := range nodes {
		if node.ID() < smallest {
			smallest = node.ID()
		}
	}
	return strconv.FormatInt(smallest, 10)
}
