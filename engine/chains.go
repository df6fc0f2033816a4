package engine

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/lyon1/condense/store"
)

// chainPartitioner groups runs of degree-2 nodes. Connectivity is
// computed over the whole graph and restricted to degree-2 nodes
// afterwards. Chains of a single node are dropped.
type chainPartitioner struct{}

func (*chainPartitioner) name() string {
	return CandidateChains
}

func (*chainPartitioner) partition(ctx context.Context, b *build) (map[string][]int64, error) {
	degrees, err := b.store.ListNodeDegrees(ctx, b.graph.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list node degrees")
	}
	edges, err := b.store.ListEdges(ctx, &store.FindEdge{GraphID: b.graph.ID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list edges")
	}

	g := simple.NewUndirectedGraph()
	for _, degree := range degrees {
		g.AddNode(simple.Node(degree.NodeID))
	}
	for _, edge := range edges {
		// Self-loops carry no connectivity information and simple graphs
		// reject them.
		if edge.SourceID == edge.TargetID {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(edge.SourceID), T: simple.Node(edge.TargetID)})
	}

	// Component labels keyed by the smallest member id stay stable
	// across reruns.
	component := make(map[int64]int64)
	for _, nodes := range topo.ConnectedComponents(g) {
		smallest := nodes[0].ID()
		for _, node := range nodes {
			if node.ID() < smallest {
				smallest = node.ID()
			}
		}
		for _, node := range nodes {
			component[node.ID()] = smallest
		}
	}

	chains := make(map[int64][]int64)
	for _, degree := range degrees {
		if degree.Degree != 2 {
			continue
		}
		label := component[degree.NodeID]
		chains[label] = append(chains[label], degree.NodeID)
	}

	groups := make(map[string][]int64, len(chains))
	for label, members := range chains {
		if len(members) <= 1 {
			continue
		}
		groups[strconv.FormatInt(label, 10)] = members
	}
	return groups, nil
}
