package engine

import (
	"context"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lyon1/condense/store"
)

// Engine orchestrates condensation runs against one graph store and one
// partition oracle. Runs are sequential over their candidates; distinct
// runs are isolated from each other by run id alone.
type Engine struct {
	store  GraphStore
	oracle PartitionOracle
}

func New(store GraphStore, oracle PartitionOracle) *Engine {
	return &Engine{
		store:  store,
		oracle: oracle,
	}
}

// Condense evaluates the requested candidates against the named graph,
// retires everything but the cheapest one, and reports one result per
// recognized candidate in request order. Unknown candidate names are
// skipped and contribute no result. Failures inside a candidate are
// contained and scored +Inf; only store failures around the run itself
// are returned as errors.
func (e *Engine) Condense(ctx context.Context, graphName string, options *Options) ([]*CandidateResult, error) {
	opts := options
	if opts == nil {
		opts = DefaultOptions()
	}
	opts.normalize()

	graph, err := e.store.GetGraph(ctx, &store.FindGraph{Name: &graphName})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find graph")
	}
	if graph == nil {
		return nil, errors.Errorf("graph %q not found", graphName)
	}

	nodeCount, err := e.store.CountNodes(ctx, graph.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count nodes")
	}
	edgeCount, err := e.store.CountEdges(ctx, graph.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count edges")
	}

	runID := uuid.NewString()
	b := &build{
		store:  e.store,
		oracle: e.oracle,
		graph:  graph,
		runID:  runID,
		arena:  newScratchArena(e.store, graph.ID, runID),
	}

	slog.Info("condensation run started",
		"run", runID,
		"graph", graphName,
		"nodes", nodeCount,
		"edges", edgeCount,
		"candidates", opts.Candidates)

	results := make([]*CandidateResult, 0, len(opts.Candidates))
	for _, candidate := range opts.Candidates {
		p, ok := resolvePartitioner(candidate, opts)
		if !ok {
			slog.Warn("unknown candidate, skipping", "run", runID, "candidate", candidate)
			continue
		}
		results = append(results, e.evaluate(ctx, b, candidate, p, nodeCount, edgeCount))
	}

	winner := pickWinner(results)
	if winner != nil {
		winner.Winner = true
	}

	if err := e.retire(ctx, graph.ID, runID, winner, opts.Write); err != nil {
		return nil, errors.Wrap(err, "failed to retire candidates")
	}

	if opts.DropGraph {
		e.oracle.DropProjection(graph.ID)
	}

	if winner != nil {
		slog.Info("condensation run finished",
			"run", runID,
			"winner", winner.Candidate,
			"score", winner.Score,
			"persisted", opts.Write)
	} else {
		slog.Warn("condensation run finished without a viable candidate", "run", runID)
	}

	return results, nil
}

// evaluate runs one candidate through its lifecycle. Artifacts and the
// result row both carry the candidate name as the caller spelled it.
func (e *Engine) evaluate(ctx context.Context, b *build, candidate string, p partitioner, nodeCount, edgeCount int64) *CandidateResult {
	result := &CandidateResult{
		Candidate: candidate,
		Status:    StatusPending,
		Score:     math.Inf(1),
	}

	result.Status = StatusBuilding
	slog.Info("building candidate", "run", b.runID, "candidate", candidate)

	counts, err := e.buildCandidate(ctx, b, candidate, p)
	if err != nil {
		slog.Warn("candidate failed", "run", b.runID, "candidate", candidate, "error", err)
		result.Status = StatusFailed
		result.CompressionRatio = compressionRatio(0, 0, nodeCount, edgeCount)
		return result
	}

	result.SuperNodes = counts.superNodes
	result.SuperEdges = counts.superEdges
	result.InternalEdges = counts.internalEdges
	result.CoveredEdges = counts.coveredEdges
	result.Score = score(counts.superNodes, counts.superEdges, counts.internalEdges, edgeCount, counts.coveredEdges)
	result.CompressionRatio = compressionRatio(counts.superNodes, counts.superEdges, nodeCount, edgeCount)
	result.Status = StatusScored

	slog.Info("candidate scored",
		"run", b.runID,
		"candidate", candidate,
		"score", result.Score,
		"superNodes", result.SuperNodes,
		"superEdges", result.SuperEdges,
		"internalEdges", result.InternalEdges)
	return result
}

func (e *Engine) buildCandidate(ctx context.Context, b *build, candidate string, p partitioner) (*materializeCounts, error) {
	// Idempotent retry safety: a rerun of the same (run, candidate)
	// starts from a clean scope.
	if err := e.store.DeleteSuperNodes(ctx, &store.DeleteSuperNodes{
		GraphID:   b.graph.ID,
		RunID:     b.runID,
		Candidate: &candidate,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to clean stale artifacts")
	}

	groups, err := p.partition(ctx, b)
	if err != nil {
		return nil, err
	}

	return e.materialize(ctx, b.graph.ID, b.runID, candidate, groups)
}

// pickWinner returns the first candidate holding the minimum finite
// score, or nil when every candidate failed.
func pickWinner(results []*CandidateResult) *CandidateResult {
	var winner *CandidateResult
	for _, result := range results {
		if math.IsInf(result.Score, 1) {
			continue
		}
		if winner == nil || result.Score < winner.Score {
			winner = result
		}
	}
	return winner
}

// retire deletes losing artifacts. Without a persisted winner the whole
// run's artifacts go.
func (e *Engine) retire(ctx context.Context, graphID int32, runID string, winner *CandidateResult, write bool) error {
	if !write || winner == nil {
		return e.store.DeleteSuperNodes(ctx, &store.DeleteSuperNodes{GraphID: graphID, RunID: runID})
	}
	return e.store.DeleteSuperNodes(ctx, &store.DeleteSuperNodes{
		GraphID:         graphID,
		RunID:           runID,
		ExceptCandidate: &winner.Candidate,
	})
}
