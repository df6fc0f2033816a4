package store

import (
	"context"
)

// NodeLabel is a scratch partition label attached to a node under a
// run-scoped key. Labels are staging data only and never outlive the
// run that wrote them.
type NodeLabel struct {
	GraphID int32
	NodeID  int64
	Key     string
	Value   string
}

func (s *Store) WriteNodeLabels(ctx context.Context, graphID int32, key string, labels map[int64]string) error {
	return s.driver.WriteNodeLabels(ctx, graphID, key, labels)
}

func (s *Store) ListNodeLabels(ctx context.Context, graphID int32, key string) (map[int64]string, error) {
	return s.driver.ListNodeLabels(ctx, graphID, key)
}

func (s *Store) DeleteNodeLabels(ctx context.Context, graphID int32, key string) error {
	return s.driver.DeleteNodeLabels(ctx, graphID, key)
}
