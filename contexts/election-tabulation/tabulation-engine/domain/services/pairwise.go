package services

import (
	"sort"

	"github.com/samber/lo"

	"rcvtab/contexts/election-tabulation/tabulation-engine/domain/entities"
)

type orderedPair struct {
	from int
	to   int
}

// PairwiseCounts implements the numerator half of component D's pairwise
// table (spec.md §4.4): for every ordered pair (A,B), the multiplicity-
// weighted count of ballots where A is preferred over B — either both
// rank A and B with A's rank index lower, or the ballot ranks A and
// not B at all. Ballots ranking neither contribute to no pair.
func PairwiseCounts(candidates []entities.Candidate, ballots []entities.CanonicalBallot) map[orderedPair]float64 {
	all := make(map[int]struct{}, len(candidates))
	for _, c := range candidates {
		all[c.Index] = struct{}{}
	}

	counts := make(map[orderedPair]float64)
	for _, b := range ballots {
		weight := float64(b.Multiplicity)
		aboveRanked := make(map[int]struct{}, len(b.Sequence))
		for _, vote := range b.Sequence {
			for arc := range aboveRanked {
				counts[orderedPair{arc, vote}] += weight
			}
			aboveRanked[vote] = struct{}{}
		}
		for candidate := range all {
			if _, ranked := aboveRanked[candidate]; ranked {
				continue
			}
			for arc := range aboveRanked {
				counts[orderedPair{arc, candidate}] += weight
			}
		}
	}
	return counts
}

// PairwisePreferences builds component D's first table, P, from the
// counts PairwiseCounts produces: denom[A][B] = num[A][B] + num[B][A],
// a cell is nil (never observed) when that sum is zero.
func PairwisePreferences(candidates []entities.Candidate, counts map[orderedPair]float64) entities.CandidatePairTable {
	axis := lo.Map(candidates, func(c entities.Candidate, _ int) entities.Allocatee {
		return entities.AllocateeFor(c.Index)
	})

	entriesRows := make([][]*entities.CandidatePairEntry, len(candidates))
	for i, c1 := range candidates {
		row := make([]*entities.CandidatePairEntry, len(candidates))
		for j, c2 := range candidates {
			if c1.Index == c2.Index {
				continue
			}
			m1 := counts[orderedPair{c1.Index, c2.Index}]
			m2 := counts[orderedPair{c2.Index, c1.Index}]
			denom := m1 + m2
			if denom == 0 {
				continue
			}
			row[j] = &entities.CandidatePairEntry{Numerator: m1, Denominator: denom}
		}
		entriesRows[i] = row
	}

	return entities.CandidatePairTable{Rows: axis, Cols: axis, Entries: entriesRows}
}

// FirstAlternate builds component D's second table, F: rows are first
// choices, columns are second choices plus Exhausted, denom[A][·] is
// uniform across the row (the first-choice count for A), per spec.md
// §4.4 / Q9.
func FirstAlternate(candidates []entities.Candidate, ballots []entities.CanonicalBallot) entities.CandidatePairTable {
	firstChoiceCount := make(map[int]float64)
	alternate := make(map[int]map[entities.Allocatee]float64)

	for _, b := range ballots {
		if len(b.Sequence) == 0 {
			continue
		}
		weight := float64(b.Multiplicity)
		first := b.Sequence[0]
		second := entities.Exhausted
		if len(b.Sequence) > 1 {
			second = entities.AllocateeFor(b.Sequence[1])
		}
		firstChoiceCount[first] += weight
		if alternate[first] == nil {
			alternate[first] = make(map[entities.Allocatee]float64)
		}
		alternate[first][second] += weight
	}

	rows := lo.Map(candidates, func(c entities.Candidate, _ int) entities.Allocatee {
		return entities.AllocateeFor(c.Index)
	})
	cols := append(append([]entities.Allocatee{}, rows...), entities.Exhausted)

	entriesRows := make([][]*entities.CandidatePairEntry, len(candidates))
	for i, c1 := range candidates {
		denom := firstChoiceCount[c1.Index]
		row := make([]*entities.CandidatePairEntry, len(cols))
		for j, c2 := range cols {
			if idx, ok := c2.CandidateIndex(); ok && idx == c1.Index {
				continue
			}
			count := alternate[c1.Index][c2]
			if count == 0 {
				continue
			}
			row[j] = &entities.CandidatePairEntry{Numerator: count, Denominator: denom}
		}
		entriesRows[i] = row
	}

	return entities.CandidatePairTable{Rows: rows, Cols: cols, Entries: entriesRows}
}

// FirstToFinal builds component D's third table, T: for first-choice
// candidate A, a ballot's "final" candidate is the earliest ranked
// candidate still present in the final round's allocations, or
// Exhausted when no such candidate appears on the ballot at all, per
// spec.md §4.4.
func FirstToFinal(candidates []entities.Candidate, ballots []entities.CanonicalBallot, finalRoundCandidates []int) entities.CandidatePairTable {
	finalSet := make(map[int]struct{}, len(finalRoundCandidates))
	for _, idx := range finalRoundCandidates {
		finalSet[idx] = struct{}{}
	}

	firstTotal := make(map[int]float64)
	firstFinal := make(map[int]map[entities.Allocatee]float64)

	for _, b := range ballots {
		if len(b.Sequence) == 0 {
			continue
		}
		weight := float64(b.Multiplicity)
		first := b.Sequence[0]

		final := entities.Exhausted
		for _, candidateIdx := range b.Sequence {
			if _, ok := finalSet[candidateIdx]; ok {
				final = entities.AllocateeFor(candidateIdx)
				break
			}
		}

		firstTotal[first] += weight
		if firstFinal[first] == nil {
			firstFinal[first] = make(map[entities.Allocatee]float64)
		}
		firstFinal[first][final] += weight
	}

	rows := lo.Map(candidates, func(c entities.Candidate, _ int) entities.Allocatee {
		return entities.AllocateeFor(c.Index)
	})
	cols := append(append([]entities.Allocatee{}, rows...), entities.Exhausted)

	entriesRows := make([][]*entities.CandidatePairEntry, len(candidates))
	for i, c1 := range candidates {
		denom := firstTotal[c1.Index]
		row := make([]*entities.CandidatePairEntry, len(cols))
		for j, c2 := range cols {
			count := firstFinal[c1.Index][c2]
			if count == 0 {
				continue
			}
			row[j] = &entities.CandidatePairEntry{Numerator: count, Denominator: denom}
		}
		entriesRows[i] = row
	}

	return entities.CandidatePairTable{Rows: rows, Cols: cols, Entries: entriesRows}
}

// FinalRoundCandidates extracts the candidates still on the board in
// the last round's allocations, the "final round" set T is measured
// against.
func FinalRoundCandidates(rounds []entities.Round) []int {
	if len(rounds) == 0 {
		return nil
	}
	last := rounds[len(rounds)-1]
	var result []int
	for _, a := range last.Allocations {
		if idx, ok := a.Allocatee.CandidateIndex(); ok {
			result = append(result, idx)
		}
	}
	return result
}

// PreferenceGraph and SmithSet are the supplemented features of
// SPEC_FULL.md §5: graph[B] lists every candidate who pairwise-beats B
// on the same counts PairwiseCounts produces.
func PreferenceGraph(candidates []entities.Candidate, counts map[orderedPair]float64) map[int][]int {
	graph := make(map[int][]int)
	for _, c1 := range candidates {
		for _, c2 := range candidates {
			if c1.Index == c2.Index {
				continue
			}
			if counts[orderedPair{c1.Index, c2.Index}] > counts[orderedPair{c2.Index, c1.Index}] {
				graph[c2.Index] = append(graph[c2.Index], c1.Index)
			}
		}
	}
	return graph
}

// SmithSet replicates the original tabulator's iterative closure: start
// with every candidate, then repeatedly take the set of candidates that
// beat someone currently in the set, until it stabilizes or empties.
func SmithSet(candidates []entities.Candidate, graph map[int][]int) []int {
	last := make(map[int]struct{}, len(candidates))
	for _, c := range candidates {
		last[c.Index] = struct{}{}
	}

	for {
		this := make(map[int]struct{})
		for d := range last {
			for _, beater := range graph[d] {
				this[beater] = struct{}{}
			}
		}
		if len(this) == 0 || setsEqual(this, last) {
			break
		}
		last = this
	}

	result := make([]int, 0, len(last))
	for idx := range last {
		result = append(result, idx)
	}
	sort.Ints(result)
	return result
}

// CondorcetWinner returns the sole Smith-set member when the set has
// exactly one, else nil.
func CondorcetWinner(smithSet []int) *int {
	if len(smithSet) != 1 {
		return nil
	}
	winner := smithSet[0]
	return &winner
}

func setsEqual(a, b map[int]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
