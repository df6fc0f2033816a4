package engine

import (
	"context"

	"github.com/pkg/errors"
)

// materializeCounts are the store-side tallies of one built candidate.
type materializeCounts struct {
	superNodes    int64
	superEdges    int64
	internalEdges int64
	coveredEdges  int64
}

// materialize turns a group assignment into persisted super-nodes,
// memberships and super-edges for the (run, candidate) scope. The
// singleton fallback makes coverage total before super-edges are
// derived. Each store call is one transaction; a failure leaves at most
// fully applied steps behind, removed by end-of-run retirement.
func (e *Engine) materialize(ctx context.Context, graphID int32, runID, candidate string, groups map[string][]int64) (*materializeCounts, error) {
	grouped, err := e.store.CreateSuperGroups(ctx, graphID, runID, candidate, groups)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create super groups")
	}

	fallback, err := e.store.CreateSingletonFallback(ctx, graphID, runID, candidate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create singleton fallback")
	}

	superEdges, err := e.store.BuildSuperEdges(ctx, graphID, runID, candidate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build super edges")
	}

	covered, err := e.store.CountCoveredEdges(ctx, graphID, runID, candidate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count covered edges")
	}
	internal, err := e.store.CountInternalEdges(ctx, graphID, runID, candidate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count internal edges")
	}

	return &materializeCounts{
		superNodes:    grouped + fallback,
		superEdges:    superEdges,
		internalEdges: internal,
		coveredEdges:  covered,
	}, nil
}
