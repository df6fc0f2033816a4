package store

import (
	"context"
)

// Edge is an original directed edge. Direction is kept as imported but
// every read in the condensation pipeline treats edges as undirected.
type Edge struct {
	ID       int64
	GraphID  int32
	SourceID int64
	TargetID int64
}

type FindEdge struct {
	GraphID int32
}

func (s *Store) CreateEdges(ctx context.Context, graphID int32, creates []*Edge) error {
	return s.driver.CreateEdges(ctx, graphID, creates)
}

func (s *Store) ListEdges(ctx context.Context, find *FindEdge) ([]*Edge, error) {
	return s.driver.ListEdges(ctx, find)
}

func (s *Store) CountEdges(ctx context.Context, graphID int32) (int64, error) {
	return s.driver.CountEdges(ctx, graphID)
}
