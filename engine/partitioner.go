package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/lyon1/condense/store"
)

// partitioner computes a node→group assignment for one strategy. The
// returned map holds group key → member node ids; nodes absent from
// every group are picked up later by the coverage fallback.
type partitioner interface {
	name() string
	partition(ctx context.Context, b *build) (map[string][]int64, error)
}

// build carries the per-run collaborators a partitioner may use.
type build struct {
	store  GraphStore
	oracle PartitionOracle
	graph  *store.Graph
	runID  string
	arena  *scratchArena
}

// resolvePartitioner maps a candidate name to its strategy, matching
// case-insensitively. Stars and chains run natively; everything else
// known is delegated to the partition oracle. Unknown names report
// false.
func resolvePartitioner(candidate string, opts *Options) (partitioner, bool) {
	switch name := strings.ToLower(candidate); name {
	case CandidateStars:
		return &starPartitioner{threshold: opts.DegreeThreshold}, true
	case CandidateChains:
		return &chainPartitioner{}, true
	case CandidateWCC, CandidateLouvain, CandidateLeiden, CandidateLPA:
		return &oraclePartitioner{algorithm: name}, true
	case CandidateKCore:
		return &oraclePartitioner{algorithm: name, k: opts.KValue}, true
	default:
		return nil, false
	}
}

// oraclePartitioner delegates to the partition oracle: labels are
// staged on the store under a scratch key, read back, and grouped.
type oraclePartitioner struct {
	algorithm string
	k         int
}

func (p *oraclePartitioner) name() string {
	return p.algorithm
}

func (p *oraclePartitioner) partition(ctx context.Context, b *build) (map[string][]int64, error) {
	key := b.arena.acquire(p.algorithm)
	defer b.arena.release(ctx, key)

	if err := b.oracle.ComputeLabels(ctx, b.graph.ID, p.algorithm, p.k, key); err != nil {
		return nil, errors.Wrapf(err, "oracle %s failed", p.algorithm)
	}

	labels, err := b.store.ListNodeLabels(ctx, b.graph.ID, key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read scratch labels")
	}

	return groupByAssignment(labels), nil
}

// groupByAssignment inverts a node→key assignment into groups with
// members in ascending node id order.
func groupByAssignment(assigned map[int64]string) map[string][]int64 {
	nodeIDs := make([]int64, 0, len(assigned))
	for nodeID := range assigned {
		nodeIDs = append(nodeIDs, nodeID)
	}
	sort.Slice(nodeIDs, func(i, j int) bool { return nodeIDs[i] < nodeIDs[j] })

	groups := make(map[string][]int64)
	for _, nodeID := range nodeIDs {
		key := assigned[nodeID]
		groups[key] = append(groups[key], nodeID)
	}
	return groups
}
