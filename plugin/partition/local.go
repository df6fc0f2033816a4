package partition

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/lyon1/condense/store"
)

// LocalService runs every partition algorithm in process against a
// cached point-in-time projection of the stored graph. The projection
// is loaded on first use and reused until DropProjection, so repeated
// candidate builds within one run all see the same snapshot.
type LocalService struct {
	store GraphStore

	mu          sync.Mutex
	projections map[int32]*projection
}

func NewLocalService(store GraphStore) *LocalService {
	return &LocalService{
		store:       store,
		projections: make(map[int32]*projection),
	}
}

func (s *LocalService) ComputeLabels(ctx context.Context, graphID int32, algorithm string, k int, labelKey string) error {
	proj, err := s.project(ctx, graphID)
	if err != nil {
		return err
	}

	var labels map[int64]string
	switch algorithm {
	case AlgorithmWCC:
		labels = proj.componentLabels()
	case AlgorithmLouvain:
		labels = proj.communityLabels(false)
	case AlgorithmLeiden:
		labels = proj.communityLabels(true)
	case AlgorithmLPA:
		labels = proj.propagationLabels()
	case AlgorithmKCore:
		// The decomposition is always full: every node is labeled with
		// its core number, whatever k was requested.
		labels = proj.coreLabels()
	default:
		return errors.Wrap(ErrUnknownAlgorithm, algorithm)
	}

	if err := s.store.WriteNodeLabels(ctx, graphID, labelKey, labels); err != nil {
		return errors.Wrapf(err, "failed to stage %s labels", algorithm)
	}
	return nil
}

// DropProjection evicts the cached snapshot of the graph. The next
// ComputeLabels call reloads from the store.
func (s *LocalService) DropProjection(graphID int32) {
	s.mu.Lock()
	delete(s.projections, graphID)
	s.mu.Unlock()
	slog.Info("graph projection dropped", "graph", graphID)
}

func (s *LocalService) project(ctx context.Context, graphID int32) (*projection, error) {
	s.mu.Lock()
	proj, ok := s.projections[graphID]
	s.mu.Unlock()
	if ok {
		return proj, nil
	}

	nodes, err := s.store.ListNodes(ctx, &store.FindNode{GraphID: graphID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list nodes")
	}
	edges, err := s.store.ListEdges(ctx, &store.FindEdge{GraphID: graphID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list edges")
	}

	g := simple.NewUndirectedGraph()
	nodeIDs := make([]int64, 0, len(nodes))
	for _, node := range nodes {
		nodeIDs = append(nodeIDs, node.ID)
		g.AddNode(simple.Node(node.ID))
	}
	for _, edge := range edges {
		// Simple graphs reject self-loops; they carry no grouping signal.
		if edge.SourceID == edge.TargetID {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(edge.SourceID), T: simple.Node(edge.TargetID)})
	}

	proj = &projection{nodeIDs: nodeIDs, graph: g}
	s.mu.Lock()
	s.projections[graphID] = proj
	s.mu.Unlock()

	slog.Info("graph projection loaded", "graph", graphID, "nodes", len(nodes), "edges", len(edges))
	return proj, nil
}
