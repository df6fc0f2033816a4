package engine

// Candidate strategy names accepted in Options.Candidates.
const (
	CandidateStars   = "stars"
	CandidateWCC     = "wcc"
	CandidateLouvain = "louvain"
	CandidateLeiden  = "leiden"
	CandidateLPA     = "lpa"
	CandidateChains  = "chains"
	CandidateKCore   = "kcore"
)

// DefaultCandidates returns every known strategy in evaluation order.
func DefaultCandidates() []string {
	return []string{
		CandidateStars,
		CandidateWCC,
		CandidateLouvain,
		CandidateLeiden,
		CandidateLPA,
		CandidateChains,
		CandidateKCore,
	}
}

// Options configures one condensation run. Start from DefaultOptions
// and override; the zero value of Write means "discard everything".
type Options struct {
	// Candidates are evaluated in the given order. The order also breaks
	// score ties: the earliest minimum wins.
	Candidates []string

	// DegreeThreshold is the undirected degree above which a node
	// qualifies as a hub for the star strategy.
	DegreeThreshold int64

	// KValue is forwarded to the k-core oracle call.
	KValue int

	// Write persists the winning candidate's artifacts. When false, all
	// artifacts of the run are discarded after scoring.
	Write bool

	// DropGraph asks the oracle to discard its cached projection of the
	// graph once the run completes.
	DropGraph bool
}

func DefaultOptions() *Options {
	return &Options{
		Candidates:      DefaultCandidates(),
		DegreeThreshold: 15,
		KValue:          3,
		Write:           true,
		DropGraph:       false,
	}
}

func (o *Options) normalize() {
	if len(o.Candidates) == 0 {
		o.Candidates = DefaultCandidates()
	}
	if o.DegreeThreshold <= 0 {
		o.DegreeThreshold = 15
	}
	if o.KValue <= 0 {
		o.KValue = 3
	}
}
