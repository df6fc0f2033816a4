package store

import (
	"context"
)

// SuperEdge aggregates all original edges that cross from one
// super-node to another within a (run, candidate) scope. Weight is the
// number of original edges collapsed into it. Groups never link to
// themselves; edges inside a group are counted, not materialized.
type SuperEdge struct {
	GraphID   int32
	RunID     string
	Candidate string
	SourceID  int32
	TargetID  int32
	Weight    int64
}

type FindSuperEdge struct {
	GraphID   *int32
	RunID     *string
	Candidate *string
}

// BuildSuperEdges derives super-edges from the memberships of the given
// (run, candidate) scope and returns how many it created.
func (s *Store) BuildSuperEdges(ctx context.Context, graphID int32, runID, candidate string) (int64, error) {
	return s.driver.BuildSuperEdges(ctx, graphID, runID, candidate)
}

func (s *Store) ListSuperEdges(ctx context.Context, find *FindSuperEdge) ([]*SuperEdge, error) {
	return s.driver.ListSuperEdges(ctx, find)
}

func (s *Store) CountSuperEdges(ctx context.Context, find *FindSuperEdge) (int64, error) {
	return s.driver.CountSuperEdges(ctx, find)
}

// CountCoveredEdges counts original edges whose two endpoints both hold
// a membership in the given (run, candidate) scope.
func (s *Store) CountCoveredEdges(ctx context.Context, graphID int32, runID, candidate string) (int64, error) {
	return s.driver.CountCoveredEdges(ctx, graphID, runID, candidate)
}

// CountInternalEdges counts original edges whose two endpoints share a
// super-node in the given (run, candidate) scope.
func (s *Store) CountInternalEdges(ctx context.Context, graphID int32, runID, candidate string) (int64, error) {
	return s.driver.CountInternalEdges(ctx, graphID, runID, candidate)
}
