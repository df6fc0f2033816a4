package engine

// Status tracks a candidate through its lifecycle. A candidate either
// ends SCORED with a finite score or FAILED at +Inf; failures never
// spill over to other candidates.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusBuilding Status = "BUILDING"
	StatusScored   Status = "SCORED"
	StatusFailed   Status = "FAILED"
)

// CandidateResult reports one evaluated strategy. Results come back in
// the order the candidates were requested.
type CandidateResult struct {
	Candidate        string
	Status           Status
	Score            float64
	SuperNodes       int64
	SuperEdges       int64
	InternalEdges    int64
	CoveredEdges     int64
	CompressionRatio float64
	Winner           bool
}
