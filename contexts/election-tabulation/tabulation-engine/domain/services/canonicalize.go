package services

import (
	"strconv"
	"strings"

	"rcvtab/contexts/election-tabulation/tabulation-engine/domain/entities"
)

// Canonicalize implements component A: it deduplicates identical rank
// sequences and attaches multiplicities. Ballots with an empty valid
// sequence are dropped, per spec.md §4.1 contract (c). The multiset of
// sequences is preserved exactly — only identical sequences collapse.
func Canonicalize(raw []entities.RawBallot) []entities.CanonicalBallot {
	order := make([]string, 0, len(raw))
	bySequence := make(map[string]*entities.CanonicalBallot, len(raw))

	for _, b := range raw {
		if len(b.Rankings) == 0 {
			continue
		}
		key := sequenceKey(b.Rankings)
		if existing, ok := bySequence[key]; ok {
			existing.Multiplicity++
			continue
		}
		canonical := &entities.CanonicalBallot{
			Sequence:     append([]int(nil), b.Rankings...),
			Multiplicity: 1,
		}
		bySequence[key] = canonical
		order = append(order, key)
	}

	result := make([]entities.CanonicalBallot, 0, len(order))
	for _, key := range order {
		result = append(result, *bySequence[key])
	}
	return result
}

func sequenceKey(rankings []int) string {
	parts := make([]string, len(rankings))
	for i, r := range rankings {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ",")
}
