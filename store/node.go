package store

import (
	"context"
	"fmt"
)

// Node is an original graph node. IDs are caller supplied and unique
// within a graph, matching the identifiers used by edge endpoints.
type Node struct {
	GraphID int32
	ID      int64
	Name    string
}

// NodeDegree pairs a node with its undirected degree. Parallel edges
// count individually and a self-loop contributes two.
type NodeDegree struct {
	NodeID int64
	Degree int64
}

type FindNode struct {
	GraphID int32
	IDs     []int64
}

// NodeGroupKey renders the group key of a single-node group. Hub and
// fallback groups use it so the key space never collides with the
// numeric component keys produced by partitioners.
func NodeGroupKey(nodeID int64) string {
	return fmt.Sprintf("n:%d", nodeID)
}

func (s *Store) UpsertNodes(ctx context.Context, graphID int32, upserts []*Node) error {
	return s.driver.UpsertNodes(ctx, graphID, upserts)
}

func (s *Store) ListNodes(ctx context.Context, find *FindNode) ([]*Node, error) {
	return s.driver.ListNodes(ctx, find)
}

func (s *Store) CountNodes(ctx context.Context, graphID int32) (int64, error) {
	return s.driver.CountNodes(ctx, graphID)
}

func (s *Store) ListNodeDegrees(ctx context.Context, graphID int32) ([]*NodeDegree, error) {
	return s.driver.ListNodeDegrees(ctx, graphID)
}
