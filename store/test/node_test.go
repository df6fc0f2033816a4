package test

import (
	"context"
	"testing"

	"github.com/lithammer/shortuuid/v4"
	"github.com/stretchr/testify/require"

	"github.com/lyon1/condense/store"
)

func TestUpsertNodes(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	graph, err := ts.CreateGraph(ctx, &store.Graph{UID: shortuuid.New(), Name: "nodes"})
	require.NoError(t, err)

	err = ts.UpsertNodes(ctx, graph.ID, []*store.Node{
		{ID: 1, Name: "alpha"},
		{ID: 2, Name: "beta"},
		{ID: 3, Name: "gamma"},
	})
	require.NoError(t, err)

	count, err := ts.CountNodes(ctx, graph.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	// Upserting an existing id updates the name instead of duplicating.
	err = ts.UpsertNodes(ctx, graph.ID, []*store.Node{{ID: 2, Name: "renamed"}})
	require.NoError(t, err)

	count, err = ts.CountNodes(ctx, graph.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	nodes, err := ts.ListNodes(ctx, &store.FindNode{GraphID: graph.ID})
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	require.EqualValues(t, 1, nodes[0].ID)
	require.Equal(t, "renamed", nodes[1].Name)
	require.Equal(t, graph.ID, nodes[2].GraphID)

	filtered, err := ts.ListNodes(ctx, &store.FindNode{GraphID: graph.ID, IDs: []int64{1, 3}})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	require.EqualValues(t, 1, filtered[0].ID)
	require.EqualValues(t, 3, filtered[1].ID)
}

func TestEdgeStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	graph := createTestingGraph(ctx, t, ts, "edges", [][2]int64{{1, 2}, {2, 3}, {3, 1}})

	count, err := ts.CountEdges(ctx, graph.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	edges, err := ts.ListEdges(ctx, &store.FindEdge{GraphID: graph.ID})
	require.NoError(t, err)
	require.Len(t, edges, 3)
	require.EqualValues(t, 1, edges[0].SourceID)
	require.EqualValues(t, 2, edges[0].TargetID)
	require.EqualValues(t, 3, edges[2].SourceID)
	require.Equal(t, graph.ID, edges[1].GraphID)
}

func TestNodeDegrees(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	// Parallel edges count individually, a self-loop contributes two and
	// an isolated node reports zero.
	graph := createTestingGraph(ctx, t, ts, "degrees",
		[][2]int64{{1, 2}, {1, 2}, {2, 3}, {4, 4}}, 5)

	degrees, err := ts.ListNodeDegrees(ctx, graph.ID)
	require.NoError(t, err)
	require.Len(t, degrees, 5)

	byNode := make(map[int64]int64, len(degrees))
	for _, degree := range degrees {
		byNode[degree.NodeID] = degree.Degree
	}
	require.EqualValues(t, 2, byNode[1])
	require.EqualValues(t, 3, byNode[2])
	require.EqualValues(t, 1, byNode[3])
	require.EqualValues(t, 2, byNode[4])
	require.EqualValues(t, 0, byNode[5])

	// Ascending node id order.
	require.EqualValues(t, 1, degrees[0].NodeID)
	require.EqualValues(t, 5, degrees[4].NodeID)
}
