package entities

import "strconv"

// Allocatee is the tagged value every vote belongs to at every round:
// either a candidate index or the distinguished Exhausted sentinel.
// The zero value is Exhausted, which keeps an uninitialized Allocatee
// safe rather than silently pointing at candidate 0.
type Allocatee struct {
	candidateIndex int
	isCandidate    bool
}

// Exhausted is the sentinel allocatee for ballots whose preferences
// have all been applied without transferring further.
var Exhausted = Allocatee{}

// AllocateeFor returns the allocatee for a candidate index.
func AllocateeFor(candidateIndex int) Allocatee {
	return Allocatee{candidateIndex: candidateIndex, isCandidate: true}
}

func (a Allocatee) IsExhausted() bool {
	return !a.isCandidate
}

// CandidateIndex returns the candidate index and true, or (0, false)
// if a is Exhausted.
func (a Allocatee) CandidateIndex() (int, bool) {
	return a.candidateIndex, a.isCandidate
}

func (a Allocatee) String() string {
	if a.isCandidate {
		return strconv.Itoa(a.candidateIndex)
	}
	return "Exhausted"
}
