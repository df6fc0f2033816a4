package engine

// score approximates the description length of a condensed graph:
// super-nodes and super-edges encode the summary structure, internal
// edges the residual needed to reconstruct what a group hides, and
// uncovered edges are penalized twice. Coverage fallback keeps the
// error term at zero in healthy runs; it only bites when a candidate's
// counts are taken from a partially built state.
func score(superNodes, superEdges, internalEdges, originalEdges, coveredEdges int64) float64 {
	errorTerm := originalEdges - coveredEdges
	if errorTerm < 0 {
		errorTerm = 0
	}
	return float64(superNodes + superEdges + internalEdges + 2*errorTerm)
}

// compressionRatio relates the summary size to the original size. An
// empty graph cannot be compressed, so it reports 1.
func compressionRatio(superNodes, superEdges, originalNodes, originalEdges int64) float64 {
	total := originalNodes + originalEdges
	if total == 0 {
		return 1
	}
	return float64(superNodes+superEdges) / float64(total)
}
