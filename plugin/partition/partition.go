// Package partition supplies node→group labels for the condensation
// strategies that are not computed natively by the engine: connectivity,
// community detection and k-core decomposition. Implementations stage
// their labels as scratch node labels on the store; callers read them
// back under the key they passed in.
package partition

import (
	"context"

	"github.com/pkg/errors"

	"github.com/lyon1/condense/store"
)

// Algorithm names understood by ComputeLabels.
const (
	AlgorithmWCC     = "wcc"
	AlgorithmLouvain = "louvain"
	AlgorithmLeiden  = "leiden"
	AlgorithmLPA     = "lpa"
	AlgorithmKCore   = "kcore"
)

// ErrUnknownAlgorithm reports an algorithm name outside the set above.
var ErrUnknownAlgorithm = errors.New("unknown partition algorithm")

// Service computes partition labels for a stored graph and stages them
// under the given scratch label key. K is forwarded to the k-core call.
type Service interface {
	ComputeLabels(ctx context.Context, graphID int32, algorithm string, k int, labelKey string) error
	DropProjection(graphID int32)
}

// GraphStore is the slice of the storage API projections are loaded and
// labels are staged through. *store.Store satisfies it.
type GraphStore interface {
	ListNodes(ctx context.Context, find *store.FindNode) ([]*store.Node, error)
	ListEdges(ctx context.Context, find *store.FindEdge) ([]*store.Edge, error)
	WriteNodeLabels(ctx context.Context, graphID int32, key string, labels map[int64]string) error
}
