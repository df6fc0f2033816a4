package engine

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/lyon1/condense/store"
)

// starPartitioner groups every hub (undirected degree above the
// threshold) together with its direct neighbors, keyed by the hub's
// identity.
type starPartitioner struct {
	threshold int64
}

func (*starPartitioner) name() string {
	return CandidateStars
}

// partition visits hubs in ascending node id order and merges with
// first-assignment-sticks semantics: a node claimed by an earlier hub
// (or an earlier-processed hub itself) is never reassigned.
func (p *starPartitioner) partition(ctx context.Context, b *build) (map[string][]int64, error) {
	degrees, err := b.store.ListNodeDegrees(ctx, b.graph.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list node degrees")
	}

	hubs := make(map[int64]bool)
	for _, degree := range degrees {
		if degree.Degree > p.threshold {
			hubs[degree.NodeID] = true
		}
	}
	if len(hubs) == 0 {
		return map[string][]int64{}, nil
	}

	edges, err := b.store.ListEdges(ctx, &store.FindEdge{GraphID: b.graph.ID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list edges")
	}

	neighbors := make(map[int64][]int64)
	for _, edge := range edges {
		if hubs[edge.SourceID] && edge.SourceID != edge.TargetID {
			neighbors[edge.SourceID] = append(neighbors[edge.SourceID], edge.TargetID)
		}
		if hubs[edge.TargetID] && edge.SourceID != edge.TargetID {
			neighbors[edge.TargetID] = append(neighbors[edge.TargetID], edge.SourceID)
		}
	}

	hubIDs := make([]int64, 0, len(hubs))
	for hubID := range hubs {
		hubIDs = append(hubIDs, hubID)
	}
	sort.Slice(hubIDs, func(i, j int) bool { return hubIDs[i] < hubIDs[j] })

	assigned := make(map[int64]string)
	for _, hubID := range hubIDs {
		key := store.NodeGroupKey(hubID)
		if _, taken := assigned[hubID]; !taken {
			assigned[hubID] = key
		}
		for _, neighborID := range neighbors[hubID] {
			if _, taken := assigned[neighborID]; !taken {
				assigned[neighborID] = key
			}
		}
	}

	return groupByAssignment(assigned), nil
}
