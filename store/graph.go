package store

import (
	"context"

	"github.com/pkg/errors"
)

// Graph is a named projection of nodes and edges. All condensation
// artifacts hang off a graph and are removed together with it.
type Graph struct {
	ID int32

	// Standard fields
	UID       string
	CreatedTs int64

	// Domain specific fields
	Name string
}

type FindGraph struct {
	ID   *int32
	UID  *string
	Name *string
}

type DeleteGraph struct {
	ID int32
}

func (s *Store) CreateGraph(ctx context.Context, create *Graph) (*Graph, error) {
	graph, err := s.driver.CreateGraph(ctx, create)
	if err != nil {
		return nil, err
	}
	s.graphCache.Store(graph.Name, graph)
	return graph, nil
}

func (s *Store) ListGraphs(ctx context.Context, find *FindGraph) ([]*Graph, error) {
	return s.driver.ListGraphs(ctx, find)
}

func (s *Store) GetGraph(ctx context.Context, find *FindGraph) (*Graph, error) {
	if find.Name != nil && find.ID == nil && find.UID == nil {
		if cache, ok := s.graphCache.Load(*find.Name); ok {
			if graph, ok := cache.(*Graph); ok {
				return graph, nil
			}
		}
	}

	list, err := s.ListGraphs(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	graph := list[0]
	s.graphCache.Store(graph.Name, graph)
	return graph, nil
}

func (s *Store) DeleteGraph(ctx context.Context, delete *DeleteGraph) error {
	graph, err := s.GetGraph(ctx, &FindGraph{ID: &delete.ID})
	if err != nil {
		return errors.Wrap(err, "find graph to delete")
	}
	if err := s.driver.DeleteGraph(ctx, delete); err != nil {
		return err
	}
	if graph != nil {
		s.graphCache.Delete(graph.Name)
	}
	return nil
}
