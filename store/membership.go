package store

import (
	"context"
)

// Membership assigns one original node to one super-node. A node holds
// exactly one membership per (run, candidate) scope.
type Membership struct {
	GraphID     int32
	NodeID      int64
	SuperNodeID int32
	RunID       string
	Candidate   string
}

type FindMembership struct {
	GraphID   int32
	RunID     string
	Candidate string
	NodeID    *int64
}

func (s *Store) ListMemberships(ctx context.Context, find *FindMembership) ([]*Membership, error) {
	return s.driver.ListMemberships(ctx, find)
}
