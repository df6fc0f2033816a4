package partition

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph"

	"github.com/lyon1/condense/store"
)

// mockGraphStore serves a fixed node and edge set and records staged
// labels and load traffic.
type mockGraphStore struct {
	graphID int32
	nodes   []int64
	edges   [][2]int64

	staged    map[string]map[int64]string
	nodeLists int
	failWrite bool
}

func newMockGraphStore(nodes []int64, edges [][2]int64) *mockGraphStore {
	return &mockGraphStore{
		graphID: 1,
		nodes:   nodes,
		edges:   edges,
		staged:  make(map[string]map[int64]string),
	}
}

func (m *mockGraphStore) ListNodes(_ context.Context, _ *store.FindNode) ([]*store.Node, error) {
	m.nodeLists++
	list := make([]*store.Node, 0, len(m.nodes))
	for _, id := range m.nodes {
		list = append(list, &store.Node{GraphID: m.graphID, ID: id})
	}
	return list, nil
}

func (m *mockGraphStore) ListEdges(_ context.Context, _ *store.FindEdge) ([]*store.Edge, error) {
	list := make([]*store.Edge, 0, len(m.edges))
	for i, edge := range m.edges {
		list = append(list, &store.Edge{ID: int64(i + 1), GraphID: m.graphID, SourceID: edge[0], TargetID: edge[1]})
	}
	return list, nil
}

func (m *mockGraphStore) WriteNodeLabels(_ context.Context, _ int32, key string, labels map[int64]string) error {
	if m.failWrite {
		return errors.New("label store unavailable")
	}
	m.staged[key] = labels
	return nil
}

// bridgedTriangles is two triangles joined by a single edge between
// nodes 3 and 4.
func bridgedTriangles() ([]int64, [][2]int64) {
	nodes := []int64{1, 2, 3, 4, 5, 6}
	edges := [][2]int64{{1, 2}, {2, 3}, {1, 3}, {4, 5}, {5, 6}, {4, 6}, {3, 4}}
	return nodes, edges
}

func TestComputeLabelsWCC(t *testing.T) {
	ctx := context.Background()
	ms := newMockGraphStore([]int64{1, 2, 3, 4, 5, 7}, [][2]int64{{1, 2}, {2, 3}, {4, 5}})
	svc := NewLocalService(ms)

	require.NoError(t, svc.ComputeLabels(ctx, 1, AlgorithmWCC, 0, "c_wcc_test"))

	labels := ms.staged["c_wcc_test"]
	require.Len(t, labels, 6)
	assert.Equal(t, "1", labels[1])
	assert.Equal(t, "1", labels[2])
	assert.Equal(t, "1", labels[3])
	assert.Equal(t, "4", labels[4])
	assert.Equal(t, "4", labels[5])
	assert.Equal(t, "7", labels[7], "an isolated node forms its own component")
}

func TestComputeLabelsCommunity(t *testing.T) {
	ctx := context.Background()
	nodes, edges := bridgedTriangles()

	for _, algorithm := range []string{AlgorithmLouvain, AlgorithmLeiden} {
		t.Run(algorithm, func(t *testing.T) {
			ms := newMockGraphStore(nodes, edges)
			svc := NewLocalService(ms)

			require.NoError(t, svc.ComputeLabels(ctx, 1, algorithm, 0, "c_test"))

			labels := ms.staged["c_test"]
			require.Len(t, labels, 6)
			assert.Equal(t, labels[1], labels[2])
			assert.Equal(t, labels[1], labels[3])
			assert.Equal(t, labels[4], labels[5])
			assert.Equal(t, labels[4], labels[6])
			assert.NotEqual(t, labels[1], labels[4], "the bridge must not merge the triangles")
		})
	}
}

func TestComputeLabelsCommunityDeterministic(t *testing.T) {
	ctx := context.Background()
	nodes, edges := bridgedTriangles()

	ms := newMockGraphStore(nodes, edges)
	svc := NewLocalService(ms)
	require.NoError(t, svc.ComputeLabels(ctx, 1, AlgorithmLouvain, 0, "first"))

	other := newMockGraphStore(nodes, edges)
	otherSvc := NewLocalService(other)
	require.NoError(t, otherSvc.ComputeLabels(ctx, 1, AlgorithmLouvain, 0, "second"))

	assert.Equal(t, ms.staged["first"], other.staged["second"])
}

func TestComputeLabelsLPA(t *testing.T) {
	ctx := context.Background()
	// Two disjoint triangles and one isolated node: propagation floods
	// one label per triangle and leaves the loner alone.
	ms := newMockGraphStore(
		[]int64{1, 2, 3, 4, 5, 6, 9},
		[][2]int64{{1, 2}, {2, 3}, {1, 3}, {4, 5}, {5, 6}, {4, 6}},
	)
	svc := NewLocalService(ms)

	require.NoError(t, svc.ComputeLabels(ctx, 1, AlgorithmLPA, 0, "c_lpa_test"))

	labels := ms.staged["c_lpa_test"]
	require.Len(t, labels, 7)
	assert.Equal(t, labels[1], labels[2])
	assert.Equal(t, labels[1], labels[3])
	assert.Equal(t, labels[4], labels[5])
	assert.Equal(t, labels[4], labels[6])
	assert.NotEqual(t, labels[1], labels[4])
	assert.Equal(t, "9", labels[9])

	require.NoError(t, svc.ComputeLabels(ctx, 1, AlgorithmLPA, 0, "again"))
	assert.Equal(t, labels, ms.staged["again"], "propagation must be stable across runs")
}

func TestComputeLabelsKCore(t *testing.T) {
	ctx := context.Background()
	// Triangle (core 2), a pendant hanging off it (core 1) and an
	// isolated node (core 0). K is accepted but the decomposition is
	// always full.
	ms := newMockGraphStore(
		[]int64{1, 2, 3, 4, 5},
		[][2]int64{{1, 2}, {2, 3}, {1, 3}, {3, 4}},
	)
	svc := NewLocalService(ms)

	require.NoError(t, svc.ComputeLabels(ctx, 1, AlgorithmKCore, 3, "c_kc_test"))

	labels := ms.staged["c_kc_test"]
	require.Len(t, labels, 5)
	assert.Equal(t, "2", labels[1])
	assert.Equal(t, "2", labels[2])
	assert.Equal(t, "2", labels[3])
	assert.Equal(t, "1", labels[4])
	assert.Equal(t, "0", labels[5])
}

func TestComputeLabelsUnknownAlgorithm(t *testing.T) {
	ctx := context.Background()
	ms := newMockGraphStore([]int64{1}, nil)
	svc := NewLocalService(ms)

	err := svc.ComputeLabels(ctx, 1, "cliques", 0, "c_x_test")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAlgorithm))
	assert.Empty(t, ms.staged)
}

func TestComputeLabelsEmptyGraph(t *testing.T) {
	ctx := context.Background()
	ms := newMockGraphStore(nil, nil)
	svc := NewLocalService(ms)

	require.NoError(t, svc.ComputeLabels(ctx, 1, AlgorithmLouvain, 0, "c_lv_test"))
	assert.Empty(t, ms.staged["c_lv_test"])
}

func TestComputeLabelsStagingFailure(t *testing.T) {
	ctx := context.Background()
	ms := newMockGraphStore([]int64{1, 2}, [][2]int64{{1, 2}})
	ms.failWrite = true
	svc := NewLocalService(ms)

	err := svc.ComputeLabels(ctx, 1, AlgorithmWCC, 0, "c_wcc_test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stage")
}

func TestProjectionCachedUntilDropped(t *testing.T) {
	ctx := context.Background()
	ms := newMockGraphStore([]int64{1, 2, 3}, [][2]int64{{1, 2}})
	svc := NewLocalService(ms)

	require.NoError(t, svc.ComputeLabels(ctx, 1, AlgorithmWCC, 0, "a"))
	require.NoError(t, svc.ComputeLabels(ctx, 1, AlgorithmLPA, 0, "b"))
	assert.Equal(t, 1, ms.nodeLists, "the projection must be loaded once per graph")

	svc.DropProjection(1)
	require.NoError(t, svc.ComputeLabels(ctx, 1, AlgorithmWCC, 0, "c"))
	assert.Equal(t, 2, ms.nodeLists, "dropping the projection forces a reload")
}

func TestSplitDisconnected(t *testing.T) {
	ctx := context.Background()
	// Nodes 1-2 and 5-6 are joined only through node 3, which is
	// outside the community; the split must not travel through it.
	ms := newMockGraphStore(
		[]int64{1, 2, 3, 5, 6},
		[][2]int64{{1, 2}, {2, 3}, {3, 5}, {5, 6}},
	)
	svc := NewLocalService(ms)
	proj, err := svc.project(ctx, 1)
	require.NoError(t, err)

	community := nodeSet(proj, 1, 2, 5, 6)
	parts := proj.splitDisconnected(community)
	require.Len(t, parts, 2)
	assert.ElementsMatch(t, []int64{1, 2}, nodeIDsOf(parts[0]))
	assert.ElementsMatch(t, []int64{5, 6}, nodeIDsOf(parts[1]))
}

func nodeSet(proj *projection, ids ...int64) []graph.Node {
	nodes := make([]graph.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, proj.graph.Node(id))
	}
	return nodes
}

func nodeIDsOf(nodes []graph.Node) []int64 {
	ids := make([]int64, 0, len(nodes))
	for _, node := range nodes {
		ids = append(ids, node.ID())
	}
	return ids
}
