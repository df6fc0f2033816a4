package store

import (
	"context"
)

// SuperNode is a condensed group of original nodes produced by one
// candidate strategy within one run. GroupKey identifies the group
// within its (run, candidate) scope.
type SuperNode struct {
	ID int32

	GraphID     int32
	RunID       string
	Candidate   string
	GroupKey    string
	MemberCount int64
}

type FindSuperNode struct {
	GraphID   *int32
	RunID     *string
	Candidate *string
	GroupKey  *string
}

// DeleteSuperNodes removes super-nodes together with their memberships
// and super-edges. Candidate narrows the scope to one strategy;
// ExceptCandidate keeps one strategy and removes the rest.
type DeleteSuperNodes struct {
	GraphID         int32
	RunID           string
	Candidate       *string
	ExceptCandidate *string
}

// CreateSuperGroups materializes the given groups as super-nodes with
// one membership row per member. It returns the number of groups
// created. Nodes absent from every group stay uncovered until
// CreateSingletonFallback runs.
func (s *Store) CreateSuperGroups(ctx context.Context, graphID int32, runID, candidate string, groups map[string][]int64) (int64, error) {
	return s.driver.CreateSuperGroups(ctx, graphID, runID, candidate, groups)
}

// CreateSingletonFallback wraps every node without a membership in the
// given (run, candidate) scope into its own single-member super-node
// and returns how many it created.
func (s *Store) CreateSingletonFallback(ctx context.Context, graphID int32, runID, candidate string) (int64, error) {
	return s.driver.CreateSingletonFallback(ctx, graphID, runID, candidate)
}

func (s *Store) ListSuperNodes(ctx context.Context, find *FindSuperNode) ([]*SuperNode, error) {
	return s.driver.ListSuperNodes(ctx, find)
}

func (s *Store) CountSuperNodes(ctx context.Context, find *FindSuperNode) (int64, error) {
	return s.driver.CountSuperNodes(ctx, find)
}

func (s *Store) DeleteSuperNodes(ctx context.Context, delete *DeleteSuperNodes) error {
	return s.driver.DeleteSuperNodes(ctx, delete)
}
