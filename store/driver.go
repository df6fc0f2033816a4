package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that the database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Graph model.
	CreateGraph(ctx context.Context, create *Graph) (*Graph, error)
	ListGraphs(ctx context.Context, find *FindGraph) ([]*Graph, error)
	DeleteGraph(ctx context.Context, delete *DeleteGraph) error

	// Node model.
	UpsertNodes(ctx context.Context, graphID int32, upserts []*Node) error
	ListNodes(ctx context.Context, find *FindNode) ([]*Node, error)
	CountNodes(ctx context.Context, graphID int32) (int64, error)
	ListNodeDegrees(ctx context.Context, graphID int32) ([]*NodeDegree, error)

	// Edge model.
	CreateEdges(ctx context.Context, graphID int32, creates []*Edge) error
	ListEdges(ctx context.Context, find *FindEdge) ([]*Edge, error)
	CountEdges(ctx context.Context, graphID int32) (int64, error)

	// Scratch node labels. Each label set is scoped by key and removed
	// once the computation that staged it has been consumed.
	WriteNodeLabels(ctx context.Context, graphID int32, key string, labels map[int64]string) error
	ListNodeLabels(ctx context.Context, graphID int32, key string) (map[int64]string, error)
	DeleteNodeLabels(ctx context.Context, graphID int32, key string) error

	// Supergraph model. The composite operations below each run in a
	// single transaction so a failed candidate never leaves partial rows.
	CreateSuperGroups(ctx context.Context, graphID int32, runID, candidate string, groups map[string][]int64) (int64, error)
	CreateSingletonFallback(ctx context.Context, graphID int32, runID, candidate string) (int64, error)
	BuildSuperEdges(ctx context.Context, graphID int32, runID, candidate string) (int64, error)
	ListSuperNodes(ctx context.Context, find *FindSuperNode) ([]*SuperNode, error)
	CountSuperNodes(ctx context.Context, find *FindSuperNode) (int64, error)
	ListSuperEdges(ctx context.Context, find *FindSuperEdge) ([]*SuperEdge, error)
	CountSuperEdges(ctx context.Context, find *FindSuperEdge) (int64, error)
	ListMemberships(ctx context.Context, find *FindMembership) ([]*Membership, error)
	CountCoveredEdges(ctx context.Context, graphID int32, runID, candidate string) (int64, error)
	CountInternalEdges(ctx context.Context, graphID int32, runID, candidate string) (int64, error)
	DeleteSuperNodes(ctx context.Context, delete *DeleteSuperNodes) error
}
