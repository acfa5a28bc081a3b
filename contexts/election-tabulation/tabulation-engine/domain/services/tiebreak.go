package services

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var tieBreakCollator = collate.New(language.English)

// NameLess reports whether a sorts strictly before b under the
// deterministic tie-break collation (spec.md §9: "tie-break
// deterministically by candidate-name lexicographic order"). Using a
// collator instead of raw byte comparison means accented candidate
// names sort the way a human reader expects while remaining fully
// deterministic for a fixed pair of names.
func NameLess(a, b string) bool {
	return tieBreakCollator.CompareString(a, b) < 0
}

// LowestByVotes returns the candidate index (an element of
// candidateIndices) with the fewest votes, breaking ties by NameLess on the
// candidate names. tolerance is the absolute difference below which
// two vote totals are considered tied (used by the fractional engine;
// the whole-ballot engine passes 0 since its votes are exact integers).
func LowestByVotes(candidateIndices []int, votes map[int]float64, names map[int]string, tolerance float64) int {
	best := candidateIndices[0]
	for _, c := range candidateIndices[1:] {
		diff := votes[c] - votes[best]
		switch {
		case diff < -tolerance:
			best = c
		case diff > tolerance:
			// c is strictly higher, keep best
		default:
			// tied within tolerance: break by name
			if NameLess(names[c], names[best]) {
				best = c
			}
		}
	}
	return best
}
