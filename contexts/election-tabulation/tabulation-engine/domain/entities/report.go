package entities

// CandidateVotes is the per-candidate summary of spec.md §3.
type CandidateVotes struct {
	Candidate       int
	FirstRoundVotes float64
	TransferVotes   float64
	RoundElected    *int
	RoundEliminated *int
	Winner          bool
}

// CandidatePairEntry is one cell of a pairwise table: a numerator,
// denominator, and the fraction derived from them (0 when the
// denominator is 0, per spec.md §4.4 "no smoothing").
type CandidatePairEntry struct {
	Numerator   float64
	Denominator float64
}

func (e CandidatePairEntry) Fraction() float64 {
	if e.Denominator <= 0 {
		return 0
	}
	return e.Numerator / e.Denominator
}

// CandidatePairTable is one of the three matrices of spec.md §4.4: Rows
// and Cols name the allocatees on each axis, Entries[r][c] is nil where
// the teacher's convention (borrowed from report.rs, which returns
// Option<CandidatePairEntry>) would have counted zero observations —
// kept as a pointer here for the same reason, so "never observed" is
// distinguishable from "observed with fraction 0".
type CandidatePairTable struct {
	Rows    []Allocatee
	Cols    []Allocatee
	Entries [][]*CandidatePairEntry
}

// RankingDistribution is the ranking-depth analytic of spec.md §4.5.
type RankingDistribution struct {
	Overall           map[int]int
	PerCandidate      map[int]map[int]int
	TotalPerCandidate map[int]int
	TotalBallots      int
}

// ContestReport is the bundle produced for downstream reporting
// (spec.md §6.2), plus the supplemented Smith-set/Condorcet fields
// (SPEC_FULL.md §5).
type ContestReport struct {
	Quota              int
	Rounds             []Round
	Winners            []int
	CandidateSummaries []CandidateVotes

	PairwisePreferences CandidatePairTable
	FirstAlternate      CandidatePairTable
	FirstToFinal        CandidatePairTable
	RankingDistribution RankingDistribution

	SmithSet        []int
	CondorcetWinner *int
}
