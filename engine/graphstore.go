// Package engine condenses a property graph into a supergraph. Every
// requested candidate strategy is materialized in isolation, scored
// under a description-length-inspired cost model, and only the cheapest
// one survives the run.
package engine

import (
	"context"

	"github.com/lyon1/condense/store"
)

// GraphStore is the slice of the storage API the engine depends on.
// *store.Store satisfies it.
type GraphStore interface {
	GetGraph(ctx context.Context, find *store.FindGraph) (*store.Graph, error)
	CountNodes(ctx context.Context, graphID int32) (int64, error)
	CountEdges(ctx context.Context, graphID int32) (int64, error)
	ListNodeDegrees(ctx context.Context, graphID int32) ([]*store.NodeDegree, error)
	ListEdges(ctx context.Context, find *store.FindEdge) ([]*store.Edge, error)

	ListNodeLabels(ctx context.Context, graphID int32, key string) (map[int64]string, error)
	DeleteNodeLabels(ctx context.Context, graphID int32, key string) error

	CreateSuperGroups(ctx context.Context, graphID int32, runID, candidate string, groups map[string][]int64) (int64, error)
	CreateSingletonFallback(ctx context.Context, graphID int32, runID, candidate string) (int64, error)
	BuildSuperEdges(ctx context.Context, graphID int32, runID, candidate string) (int64, error)
	CountCoveredEdges(ctx context.Context, graphID int32, runID, candidate string) (int64, error)
	CountInternalEdges(ctx context.Context, graphID int32, runID, candidate string) (int64, error)
	DeleteSuperNodes(ctx context.Context, delete *store.DeleteSuperNodes) error
}

// PartitionOracle computes node partition labels for the algorithms the
// engine does not implement natively. Labels are staged on the store
// under the given scratch key rather than returned, so the engine reads
// them back the same way it would from any other label writer.
// partition.LocalService satisfies it.
type PartitionOracle interface {
	ComputeLabels(ctx context.Context, graphID int32, algorithm string, k int, labelKey string) error
	DropProjection(graphID int32)
}
