package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyon1/condense/store"
)

// memStore implements GraphStore in memory, mirroring the relational
// drivers closely enough to exercise the engine end to end: group-key
// uniqueness per scope, one membership per node per scope, and
// set-based super-edge aggregation.
type memStore struct {
	graph  *store.Graph
	nodes  []int64
	edges  [][2]int64
	labels map[string]map[int64]string

	supers     map[candidateScope]map[string]*memSuper
	superEdges map[candidateScope]map[[2]int32]int64

	failOn map[string]bool
	nextID int32
}

type candidateScope struct {
	runID     string
	candidate string
}

type memSuper struct {
	id      int32
	members []int64
}

func newMemStore(name string, nodes []int64, edges [][2]int64) *memStore {
	return &memStore{
		graph:      &store.Graph{ID: 1, UID: "g-" + name, Name: name},
		nodes:      nodes,
		edges:      edges,
		labels:     make(map[string]map[int64]string),
		supers:     make(map[candidateScope]map[string]*memSuper),
		superEdges: make(map[candidateScope]map[[2]int32]int64),
		failOn:     make(map[string]bool),
	}
}

func (m *memStore) fail(method string) error {
	if m.failOn[method] {
		return errors.Errorf("%s: injected failure", method)
	}
	return nil
}

func (m *memStore) GetGraph(_ context.Context, find *store.FindGraph) (*store.Graph, error) {
	if err := m.fail("GetGraph"); err != nil {
		return nil, err
	}
	if find.Name != nil && *find.Name == m.graph.Name {
		return m.graph, nil
	}
	return nil, nil
}

func (m *memStore) CountNodes(_ context.Context, _ int32) (int64, error) {
	if err := m.fail("CountNodes"); err != nil {
		return 0, err
	}
	return int64(len(m.nodes)), nil
}

func (m *memStore) CountEdges(_ context.Context, _ int32) (int64, error) {
	if err := m.fail("CountEdges"); err != nil {
		return 0, err
	}
	return int64(len(m.edges)), nil
}

func (m *memStore) ListNodeDegrees(_ context.Context, _ int32) ([]*store.NodeDegree, error) {
	if err := m.fail("ListNodeDegrees"); err != nil {
		return nil, err
	}
	degree := make(map[int64]int64, len(m.nodes))
	for _, edge := range m.edges {
		degree[edge[0]]++
		degree[edge[1]]++
	}
	list := make([]*store.NodeDegree, 0, len(m.nodes))
	for _, nodeID := range m.sortedNodes() {
		list = append(list, &store.NodeDegree{NodeID: nodeID, Degree: degree[nodeID]})
	}
	return list, nil
}

func (m *memStore) ListEdges(_ context.Context, _ *store.FindEdge) ([]*store.Edge, error) {
	if err := m.fail("ListEdges"); err != nil {
		return nil, err
	}
	list := make([]*store.Edge, 0, len(m.edges))
	for i, edge := range m.edges {
		list = append(list, &store.Edge{ID: int64(i + 1), GraphID: m.graph.ID, SourceID: edge[0], TargetID: edge[1]})
	}
	return list, nil
}

func (m *memStore) ListNodeLabels(_ context.Context, _ int32, key string) (map[int64]string, error) {
	if err := m.fail("ListNodeLabels"); err != nil {
		return nil, err
	}
	labels := make(map[int64]string, len(m.labels[key]))
	for nodeID, value := range m.labels[key] {
		labels[nodeID] = value
	}
	return labels, nil
}

func (m *memStore) DeleteNodeLabels(_ context.Context, _ int32, key string) error {
	if err := m.fail("DeleteNodeLabels"); err != nil {
		return err
	}
	delete(m.labels, key)
	return nil
}

func (m *memStore) CreateSuperGroups(_ context.Context, _ int32, runID, candidate string, groups map[string][]int64) (int64, error) {
	if err := m.fail("CreateSuperGroups"); err != nil {
		return 0, err
	}
	scope := candidateScope{runID, candidate}
	if m.supers[scope] == nil {
		m.supers[scope] = make(map[string]*memSuper)
	}
	var created int64
	for key, members := range groups {
		if len(members) == 0 {
			continue
		}
		if _, exists := m.supers[scope][key]; exists {
			return 0, errors.Errorf("duplicate group key %q", key)
		}
		m.nextID++
		m.supers[scope][key] = &memSuper{id: m.nextID, members: append([]int64(nil), members...)}
		created++
	}
	return created, nil
}

func (m *memStore) CreateSingletonFallback(_ context.Context, _ int32, runID, candidate string) (int64, error) {
	if err := m.fail("CreateSingletonFallback"); err != nil {
		return 0, err
	}
	scope := candidateScope{runID, candidate}
	if m.supers[scope] == nil {
		m.supers[scope] = make(map[string]*memSuper)
	}
	covered := m.membershipIndex(scope)
	var created int64
	for _, nodeID := range m.sortedNodes() {
		if _, ok := covered[nodeID]; ok {
			continue
		}
		key := store.NodeGroupKey(nodeID)
		if _, exists := m.supers[scope][key]; exists {
			return 0, errors.Errorf("duplicate group key %q", key)
		}
		m.nextID++
		m.supers[scope][key] = &memSuper{id: m.nextID, members: []int64{nodeID}}
		created++
	}
	return created, nil
}

func (m *memStore) BuildSuperEdges(_ context.Context, _ int32, runID, candidate string) (int64, error) {
	if err := m.fail("BuildSuperEdges"); err != nil {
		return 0, err
	}
	scope := candidateScope{runID, candidate}
	index := m.membershipIndex(scope)
	weights := make(map[[2]int32]int64)
	for _, edge := range m.edges {
		source, okSource := index[edge[0]]
		target, okTarget := index[edge[1]]
		if !okSource || !okTarget || source == target {
			continue
		}
		weights[[2]int32{source, target}]++
	}
	m.superEdges[scope] = weights
	return int64(len(weights)), nil
}

func (m *memStore) CountCoveredEdges(_ context.Context, _ int32, runID, candidate string) (int64, error) {
	if err := m.fail("CountCoveredEdges"); err != nil {
		return 0, err
	}
	index := m.membershipIndex(candidateScope{runID, candidate})
	var covered int64
	for _, edge := range m.edges {
		if _, ok := index[edge[0]]; !ok {
			continue
		}
		if _, ok := index[edge[1]]; !ok {
			continue
		}
		covered++
	}
	return covered, nil
}

func (m *memStore) CountInternalEdges(_ context.Context, _ int32, runID, candidate string) (int64, error) {
	if err := m.fail("CountInternalEdges"); err != nil {
		return 0, err
	}
	index := m.membershipIndex(candidateScope{runID, candidate})
	var internal int64
	for _, edge := range m.edges {
		source, okSource := index[edge[0]]
		target, okTarget := index[edge[1]]
		if okSource && okTarget && source == target {
			internal++
		}
	}
	return internal, nil
}

func (m *memStore) DeleteSuperNodes(_ context.Context, del *store.DeleteSuperNodes) error {
	if err := m.fail("DeleteSuperNodes"); err != nil {
		return err
	}
	for scope := range m.supers {
		if scope.runID != del.RunID {
			continue
		}
		if del.Candidate != nil && scope.candidate != *del.Candidate {
			continue
		}
		if del.ExceptCandidate != nil && scope.candidate == *del.ExceptCandidate {
			continue
		}
		delete(m.supers, scope)
		delete(m.superEdges, scope)
	}
	return nil
}

func (m *memStore) sortedNodes() []int64 {
	nodes := append([]int64(nil), m.nodes...)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// membershipIndex maps node → super-node id for one scope.
func (m *memStore) membershipIndex(scope candidateScope) map[int64]int32 {
	index := make(map[int64]int32)
	for _, super := range m.supers[scope] {
		for _, member := range super.members {
			index[member] = super.id
		}
	}
	return index
}

// scopes returns every (run, candidate) scope still holding artifacts.
func (m *memStore) scopes() []candidateScope {
	list := make([]candidateScope, 0, len(m.supers))
	for scope := range m.supers {
		list = append(list, scope)
	}
	return list
}

func (m *memStore) superFor(candidate, key string) *memSuper {
	for scope, supers := range m.supers {
		if scope.candidate != candidate {
			continue
		}
		if super, ok := supers[key]; ok {
			return super
		}
	}
	return nil
}

// membershipsPerNode counts memberships per node across one candidate's
// surviving artifacts.
func (m *memStore) membershipsPerNode(candidate string) map[int64]int {
	counts := make(map[int64]int)
	for scope, supers := range m.supers {
		if scope.candidate != candidate {
			continue
		}
		for _, super := range supers {
			for _, member := range super.members {
				counts[member]++
			}
		}
	}
	return counts
}

// fakeOracle stages configured label maps through the store, exactly
// like the real service writes scratch labels.
type fakeOracle struct {
	store       *memStore
	assignments map[string]map[int64]string
	failOn      map[string]bool
	failLate    map[string]bool
	calls       []string
	keys        []string
	dropped     []int32
}

func newFakeOracle(st *memStore) *fakeOracle {
	return &fakeOracle{
		store:       st,
		assignments: make(map[string]map[int64]string),
		failOn:      make(map[string]bool),
		failLate:    make(map[string]bool),
	}
}

func (o *fakeOracle) ComputeLabels(_ context.Context, _ int32, algorithm string, _ int, labelKey string) error {
	o.calls = append(o.calls, algorithm)
	o.keys = append(o.keys, labelKey)
	if o.failOn[algorithm] {
		return errors.Errorf("oracle %s unavailable", algorithm)
	}
	labels, ok := o.assignments[algorithm]
	if !ok {
		return errors.Errorf("no assignment configured for %s", algorithm)
	}
	staged := make(map[int64]string, len(labels))
	for nodeID, value := range labels {
		staged[nodeID] = value
	}
	o.store.labels[labelKey] = staged
	if o.failLate[algorithm] {
		return errors.Errorf("oracle %s died after staging", algorithm)
	}
	return nil
}

func (o *fakeOracle) DropProjection(graphID int32) {
	o.dropped = append(o.dropped, graphID)
}

// starGraph returns a hub with the given number of leaves. Node 1 is
// the hub, leaves count up from 2.
func starGraph(leaves int) ([]int64, [][2]int64) {
	nodes := []int64{1}
	edges := make([][2]int64, 0, leaves)
	for i := 0; i < leaves; i++ {
		leaf := int64(i + 2)
		nodes = append(nodes, leaf)
		edges = append(edges, [2]int64{1, leaf})
	}
	return nodes, edges
}

func pathGraph(length int) ([]int64, [][2]int64) {
	nodes := make([]int64, 0, length)
	edges := make([][2]int64, 0, length-1)
	for i := 1; i <= length; i++ {
		nodes = append(nodes, int64(i))
		if i > 1 {
			edges = append(edges, [2]int64{int64(i - 1), int64(i)})
		}
	}
	return nodes, edges
}

func TestCondenseStarGraph(t *testing.T) {
	ctx := context.Background()
	nodes, edges := starGraph(12)
	ms := newMemStore("social", nodes, edges)
	e := New(ms, newFakeOracle(ms))

	opts := DefaultOptions()
	opts.Candidates = []string{CandidateStars}
	opts.DegreeThreshold = 3

	results, err := e.Condense(ctx, "social", opts)
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, CandidateStars, result.Candidate)
	assert.Equal(t, StatusScored, result.Status)
	assert.True(t, result.Winner)
	assert.Equal(t, int64(1), result.SuperNodes)
	assert.Equal(t, int64(0), result.SuperEdges)
	assert.Equal(t, int64(12), result.InternalEdges)
	assert.Equal(t, int64(12), result.CoveredEdges)
	// 1 super node + 0 super edges + 12 internal edges.
	assert.Equal(t, float64(13), result.Score)
	assert.InDelta(t, 1.0/25.0, result.CompressionRatio, 1e-9)

	hub := ms.superFor(CandidateStars, store.NodeGroupKey(1))
	require.NotNil(t, hub)
	assert.Len(t, hub.members, 13)

	counts := ms.membershipsPerNode(CandidateStars)
	for _, nodeID := range nodes {
		assert.Equal(t, 1, counts[nodeID], "node %d must hold exactly one membership", nodeID)
	}
}

func TestCondensePathGraphChains(t *testing.T) {
	ctx := context.Background()
	nodes, edges := pathGraph(5)
	ms := newMemStore("pipeline", nodes, edges)
	e := New(ms, newFakeOracle(ms))

	opts := DefaultOptions()
	opts.Candidates = []string{CandidateChains}

	results, err := e.Condense(ctx, "pipeline", opts)
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, StatusScored, result.Status)
	// One chain of the three middle nodes plus two fallback singletons.
	assert.Equal(t, int64(3), result.SuperNodes)
	assert.Equal(t, int64(2), result.SuperEdges)
	assert.Equal(t, int64(2), result.InternalEdges)
	assert.Equal(t, int64(4), result.CoveredEdges)
	assert.Equal(t, float64(7), result.Score)

	chain := ms.superFor(CandidateChains, "1")
	require.NotNil(t, chain)
	assert.ElementsMatch(t, []int64{2, 3, 4}, chain.members)
	require.NotNil(t, ms.superFor(CandidateChains, store.NodeGroupKey(1)))
	require.NotNil(t, ms.superFor(CandidateChains, store.NodeGroupKey(5)))
}

func TestCondenseUnknownCandidateYieldsNoRow(t *testing.T) {
	ctx := context.Background()
	nodes, edges := pathGraph(3)
	ms := newMemStore("plain", nodes, edges)
	e := New(ms, newFakeOracle(ms))

	opts := DefaultOptions()
	opts.Candidates = []string{"bogus"}

	results, err := e.Condense(ctx, "plain", opts)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, ms.scopes(), "no artifacts may survive a run without candidates")
}

func TestCondenseAllCandidatesFailing(t *testing.T) {
	ctx := context.Background()
	nodes, edges := pathGraph(4)
	ms := newMemStore("flaky", nodes, edges)
	oracle := newFakeOracle(ms)
	oracle.failOn[CandidateWCC] = true
	oracle.failOn[CandidateLouvain] = true
	e := New(ms, oracle)

	opts := DefaultOptions()
	opts.Candidates = []string{CandidateWCC, CandidateLouvain}

	results, err := e.Condense(ctx, "flaky", opts)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, result := range results {
		assert.Equal(t, StatusFailed, result.Status)
		assert.True(t, math.IsInf(result.Score, 1))
		assert.False(t, result.Winner)
	}
	assert.Empty(t, ms.scopes(), "failed runs persist nothing even with write enabled")
}

func TestCondenseFailureContainment(t *testing.T) {
	ctx := context.Background()
	nodes, edges := starGraph(6)
	ms := newMemStore("mixed", nodes, edges)
	oracle := newFakeOracle(ms)
	oracle.failOn[CandidateWCC] = true
	e := New(ms, oracle)

	opts := DefaultOptions()
	opts.Candidates = []string{CandidateWCC, CandidateStars}
	opts.DegreeThreshold = 3

	results, err := e.Condense(ctx, "mixed", opts)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, CandidateWCC, results[0].Candidate)
	assert.Equal(t, StatusFailed, results[0].Status)
	assert.True(t, math.IsInf(results[0].Score, 1))

	assert.Equal(t, CandidateStars, results[1].Candidate)
	assert.Equal(t, StatusScored, results[1].Status)
	assert.True(t, results[1].Winner)

	scopes := ms.scopes()
	require.Len(t, scopes, 1)
	assert.Equal(t, CandidateStars, scopes[0].candidate)
}

func TestCondenseRetiresLosers(t *testing.T) {
	ctx := context.Background()
	// A 12-leaf star: the hub strategy collapses it to one super node
	// while the oracle's per-node split pays for 13 supers and 12 super
	// edges.
	nodes, edges := starGraph(12)
	ms := newMemStore("social", nodes, edges)
	oracle := newFakeOracle(ms)
	split := make(map[int64]string, len(nodes))
	for _, nodeID := range nodes {
		split[nodeID] = fmt.Sprintf("s%d", nodeID)
	}
	oracle.assignments[CandidateLPA] = split
	e := New(ms, oracle)

	opts := DefaultOptions()
	opts.Candidates = []string{CandidateLPA, CandidateStars}
	opts.DegreeThreshold = 3

	results, err := e.Condense(ctx, "social", opts)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, CandidateLPA, results[0].Candidate)
	assert.False(t, results[0].Winner)
	assert.Equal(t, CandidateStars, results[1].Candidate)
	assert.True(t, results[1].Winner)
	assert.Less(t, results[1].Score, results[0].Score)

	scopes := ms.scopes()
	require.Len(t, scopes, 1, "only the winner's artifacts survive")
	assert.Equal(t, CandidateStars, scopes[0].candidate)
}

func TestCondenseTieBreakPrefersFirstListed(t *testing.T) {
	ctx := context.Background()
	nodes := []int64{1, 2, 3, 4}
	edges := [][2]int64{{1, 2}, {3, 4}}
	ms := newMemStore("pair", nodes, edges)
	oracle := newFakeOracle(ms)
	assignment := map[int64]string{1: "a", 2: "a", 3: "b", 4: "b"}
	oracle.assignments[CandidateWCC] = assignment
	oracle.assignments[CandidateLPA] = assignment
	e := New(ms, oracle)

	opts := DefaultOptions()
	opts.Candidates = []string{CandidateWCC, CandidateLPA}

	results, err := e.Condense(ctx, "pair", opts)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, results[0].Score, results[1].Score)
	assert.True(t, results[0].Winner)
	assert.False(t, results[1].Winner)

	scopes := ms.scopes()
	require.Len(t, scopes, 1)
	assert.Equal(t, CandidateWCC, scopes[0].candidate)
}

func TestCondenseWriteFalseDiscardsWinner(t *testing.T) {
	ctx := context.Background()
	nodes, edges := starGraph(8)
	ms := newMemStore("scratchpad", nodes, edges)
	e := New(ms, newFakeOracle(ms))

	opts := DefaultOptions()
	opts.Candidates = []string{CandidateStars}
	opts.DegreeThreshold = 3
	opts.Write = false

	results, err := e.Condense(ctx, "scratchpad", opts)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, StatusScored, results[0].Status)
	assert.True(t, results[0].Winner)
	assert.Empty(t, ms.scopes(), "write=false discards every artifact of the run")
}

func TestCondenseCoverageIsTotal(t *testing.T) {
	ctx := context.Background()
	// Hub star plus two isolated nodes plus one detached pair: stars
	// leave everything but the hub group unassigned.
	nodes, edges := starGraph(5)
	nodes = append(nodes, 100, 101, 200, 201)
	edges = append(edges, [2]int64{200, 201})
	ms := newMemStore("sparse", nodes, edges)
	e := New(ms, newFakeOracle(ms))

	opts := DefaultOptions()
	opts.Candidates = []string{CandidateStars}
	opts.DegreeThreshold = 3

	results, err := e.Condense(ctx, "sparse", opts)
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	// Hub group of six plus four fallback singletons.
	assert.Equal(t, int64(5), result.SuperNodes)
	assert.Equal(t, int64(1), result.SuperEdges)
	assert.Equal(t, int64(5), result.InternalEdges)
	assert.Equal(t, int64(6), result.CoveredEdges)

	counts := ms.membershipsPerNode(CandidateStars)
	for _, nodeID := range nodes {
		assert.Equal(t, 1, counts[nodeID], "node %d must hold exactly one membership", nodeID)
	}
}

func TestCondenseWeightConservation(t *testing.T) {
	ctx := context.Background()
	// Parallel edges, one self-loop and one crossing edge.
	nodes := []int64{1, 2, 3}
	edges := [][2]int64{{1, 2}, {1, 2}, {2, 2}, {2, 3}}
	ms := newMemStore("weighted", nodes, edges)
	oracle := newFakeOracle(ms)
	oracle.assignments[CandidateWCC] = map[int64]string{1: "a", 2: "a", 3: "b"}
	e := New(ms, oracle)

	opts := DefaultOptions()
	opts.Candidates = []string{CandidateWCC}

	results, err := e.Condense(ctx, "weighted", opts)
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, int64(3), result.InternalEdges)
	assert.Equal(t, int64(4), result.CoveredEdges)
	assert.Equal(t, int64(1), result.SuperEdges)

	var weightSum int64
	for _, weights := range ms.superEdges {
		for pair, weight := range weights {
			assert.NotEqual(t, pair[0], pair[1], "no super edge may loop onto its own super node")
			weightSum += weight
		}
	}
	assert.Equal(t, result.CoveredEdges, weightSum+result.InternalEdges)
}

func TestCondenseScratchLabelsReleased(t *testing.T) {
	ctx := context.Background()
	nodes := []int64{1, 2, 3, 4}
	edges := [][2]int64{{1, 2}, {3, 4}}

	t.Run("on success", func(t *testing.T) {
		ms := newMemStore("tidy", nodes, edges)
		oracle := newFakeOracle(ms)
		oracle.assignments[CandidateWCC] = map[int64]string{1: "a", 2: "a", 3: "b", 4: "b"}
		e := New(ms, oracle)

		opts := DefaultOptions()
		opts.Candidates = []string{CandidateWCC}

		_, err := e.Condense(ctx, "tidy", opts)
		require.NoError(t, err)
		assert.Empty(t, ms.labels, "scratch labels must not outlive the run")
		require.Len(t, oracle.keys, 1)
		assert.Regexp(t, `^c_wcc_[0-9a-f]{6}$`, oracle.keys[0])
	})

	t.Run("on failure after staging", func(t *testing.T) {
		ms := newMemStore("tidy", nodes, edges)
		oracle := newFakeOracle(ms)
		oracle.assignments[CandidateWCC] = map[int64]string{1: "a", 2: "a", 3: "b", 4: "b"}
		oracle.failLate[CandidateWCC] = true
		e := New(ms, oracle)

		opts := DefaultOptions()
		opts.Candidates = []string{CandidateWCC}

		results, err := e.Condense(ctx, "tidy", opts)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, StatusFailed, results[0].Status)
		assert.Empty(t, ms.labels, "scratch labels must be released on the failure path too")
	})
}

func TestCondenseDropGraph(t *testing.T) {
	ctx := context.Background()
	nodes, edges := pathGraph(3)
	ms := newMemStore("transient", nodes, edges)
	oracle := newFakeOracle(ms)
	e := New(ms, oracle)

	opts := DefaultOptions()
	opts.Candidates = []string{CandidateChains}
	opts.DropGraph = true

	_, err := e.Condense(ctx, "transient", opts)
	require.NoError(t, err)
	assert.Equal(t, []int32{1}, oracle.dropped)
}

func TestCondenseDeterministicAcrossRuns(t *testing.T) {
	ctx := context.Background()
	build := func() (*memStore, *fakeOracle) {
		nodes, edges := starGraph(10)
		nodes = append(nodes, 50, 51, 52)
		edges = append(edges, [2]int64{50, 51}, [2]int64{51, 52})
		ms := newMemStore("steady", nodes, edges)
		oracle := newFakeOracle(ms)
		assignment := make(map[int64]string, len(nodes))
		for _, nodeID := range nodes {
			if nodeID < 50 {
				assignment[nodeID] = "core"
			} else {
				assignment[nodeID] = "tail"
			}
		}
		oracle.assignments[CandidateWCC] = assignment
		oracle.assignments[CandidateLPA] = assignment
		return ms, oracle
	}

	opts := func() *Options {
		o := DefaultOptions()
		o.Candidates = []string{CandidateStars, CandidateWCC, CandidateLPA, CandidateChains}
		o.DegreeThreshold = 3
		return o
	}

	msA, oracleA := build()
	resultsA, err := New(msA, oracleA).Condense(ctx, "steady", opts())
	require.NoError(t, err)

	msB, oracleB := build()
	resultsB, err := New(msB, oracleB).Condense(ctx, "steady", opts())
	require.NoError(t, err)

	require.Equal(t, len(resultsA), len(resultsB))
	for i := range resultsA {
		assert.Equal(t, resultsA[i].Candidate, resultsB[i].Candidate)
		assert.Equal(t, resultsA[i].Score, resultsB[i].Score)
		assert.Equal(t, resultsA[i].SuperNodes, resultsB[i].SuperNodes)
		assert.Equal(t, resultsA[i].SuperEdges, resultsB[i].SuperEdges)
		assert.Equal(t, resultsA[i].Winner, resultsB[i].Winner)
	}
}

func TestCondenseCandidateSpellingPreserved(t *testing.T) {
	ctx := context.Background()
	nodes, edges := starGraph(6)
	ms := newMemStore("loud", nodes, edges)
	e := New(ms, newFakeOracle(ms))

	opts := DefaultOptions()
	opts.Candidates = []string{"Stars"}
	opts.DegreeThreshold = 3

	results, err := e.Condense(ctx, "loud", opts)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Stars", results[0].Candidate, "dispatch is case-insensitive but the row echoes the caller")
	assert.Equal(t, StatusScored, results[0].Status)

	scopes := ms.scopes()
	require.Len(t, scopes, 1)
	assert.Equal(t, "Stars", scopes[0].candidate)
}

func TestCondenseGraphNotFound(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore("known", []int64{1}, nil)
	e := New(ms, newFakeOracle(ms))

	_, err := e.Condense(ctx, "unknown", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCondenseStoreFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore("down", []int64{1, 2}, [][2]int64{{1, 2}})
	ms.failOn["CountNodes"] = true
	e := New(ms, newFakeOracle(ms))

	_, err := e.Condense(ctx, "down", nil)
	require.Error(t, err)
}

func TestBuildCandidateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	nodes, edges := starGraph(6)
	ms := newMemStore("retry", nodes, edges)
	e := New(ms, newFakeOracle(ms))
	b := &build{
		store: ms,
		graph: ms.graph,
		runID: "11111111-2222-3333-4444-555555555555",
		arena: newScratchArena(ms, ms.graph.ID, "11111111-2222-3333-4444-555555555555"),
	}
	p := &starPartitioner{threshold: 3}

	first, err := e.buildCandidate(ctx, b, CandidateStars, p)
	require.NoError(t, err)
	second, err := e.buildCandidate(ctx, b, CandidateStars, p)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, ms.scopes(), 1, "rebuilding the same scope must not duplicate artifacts")

	counts := ms.membershipsPerNode(CandidateStars)
	for _, nodeID := range nodes {
		assert.Equal(t, 1, counts[nodeID], fmt.Sprintf("node %d harvested twice", nodeID))
	}
}
