package test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/lithammer/shortuuid/v4"
	"github.com/stretchr/testify/require"

	"github.com/lyon1/condense/internal/profile"
	"github.com/lyon1/condense/internal/version"
	"github.com/lyon1/condense/store"
	"github.com/lyon1/condense/store/db"
)

// NewTestingStore opens a migrated store against a throwaway database.
// The driver defaults to sqlite in a per-test temp directory; set
// CONDENSE_DRIVER=postgres and CONDENSE_TEST_DSN to run the same tests
// against a real PostgreSQL instance.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	testingProfile := getTestingProfile(t)
	dbDriver, err := db.NewDBDriver(testingProfile)
	require.NoError(t, err)

	ts := store.New(dbDriver, testingProfile)
	require.NoError(t, ts.Migrate(ctx))

	t.Cleanup(func() {
		if err := ts.Close(); err != nil {
			t.Logf("failed to close testing store: %v", err)
		}
	})
	return ts
}

func getTestingProfile(t *testing.T) *profile.Profile {
	mode := "dev"
	driver := getDriverFromEnv()
	dsn := os.Getenv("CONDENSE_TEST_DSN")
	if driver == "sqlite" {
		dsn = fmt.Sprintf("%s/condense_%s.db", t.TempDir(), mode)
	}

	return &profile.Profile{
		Mode:    mode,
		Driver:  driver,
		DSN:     dsn,
		Version: version.GetCurrentVersion(mode),
	}
}

func getDriverFromEnv() string {
	driver := os.Getenv("CONDENSE_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	return driver
}

// createTestingGraph stores a graph built from undirected edge pairs
// plus optional isolated nodes. Nodes are created for every id an edge
// references, named n<id>.
func createTestingGraph(ctx context.Context, t *testing.T, ts *store.Store, name string, edges [][2]int64, isolated ...int64) *store.Graph {
	graph, err := ts.CreateGraph(ctx, &store.Graph{
		UID:  shortuuid.New(),
		Name: name,
	})
	require.NoError(t, err)

	seen := make(map[int64]bool)
	nodes := make([]*store.Node, 0)
	addNode := func(id int64) {
		if seen[id] {
			return
		}
		seen[id] = true
		nodes = append(nodes, &store.Node{ID: id, Name: fmt.Sprintf("n%d", id)})
	}

	creates := make([]*store.Edge, 0, len(edges))
	for _, pair := range edges {
		addNode(pair[0])
		addNode(pair[1])
		creates = append(creates, &store.Edge{SourceID: pair[0], TargetID: pair[1]})
	}
	for _, id := range isolated {
		addNode(id)
	}

	require.NoError(t, ts.UpsertNodes(ctx, graph.ID, nodes))
	require.NoError(t, ts.CreateEdges(ctx, graph.ID, creates))
	return graph
}
