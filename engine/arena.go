package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// scratchArena hands out run-scoped scratch label keys and releases
// them. Keys carry a short hash of the run id so concurrent runs
// against the same store do not trample each other's staging labels.
type scratchArena struct {
	store   GraphStore
	graphID int32
	suffix  string
}

func newScratchArena(store GraphStore, graphID int32, runID string) *scratchArena {
	return &scratchArena{
		store:   store,
		graphID: graphID,
		suffix:  shortRunHash(runID),
	}
}

func shortRunHash(runID string) string {
	cleaned := strings.ReplaceAll(runID, "-", "")
	if len(cleaned) > 6 {
		cleaned = cleaned[:6]
	}
	return cleaned
}

func (a *scratchArena) acquire(purpose string) string {
	return fmt.Sprintf("c_%s_%s", purpose, a.suffix)
}

// release drops the staged labels. It runs on success and failure
// paths alike; a failed delete is reported, not escalated.
func (a *scratchArena) release(ctx context.Context, key string) {
	if err := a.store.DeleteNodeLabels(ctx, a.graphID, key); err != nil {
		slog.Warn("failed to release scratch labels", "key", key, "error", err)
	}
}
