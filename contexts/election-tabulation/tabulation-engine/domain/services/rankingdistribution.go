package services

import (
	"github.com/samber/lo"

	"rcvtab/contexts/election-tabulation/tabulation-engine/domain/entities"
)

// RankingDistribution implements component E (spec.md §4.5): for each
// canonical ballot, k is the number of distinct candidates it ranks.
// overall[k] and perCandidate[firstChoice][k] accumulate multiplicity,
// matching report.rs's generate_ranking_distribution.
func RankingDistribution(ballots []entities.CanonicalBallot) entities.RankingDistribution {
	nonEmpty := lo.Filter(ballots, func(b entities.CanonicalBallot, _ int) bool {
		return len(b.Sequence) > 0
	})

	sumMultiplicity := func(group []entities.CanonicalBallot) int {
		return lo.SumBy(group, func(b entities.CanonicalBallot) int { return b.Multiplicity })
	}
	depthOf := func(b entities.CanonicalBallot) int { return len(b.Sequence) }

	byDepth := lo.GroupBy(nonEmpty, depthOf)
	overall := make(map[int]int, len(byDepth))
	for k, group := range byDepth {
		overall[k] = sumMultiplicity(group)
	}

	byFirstChoice := lo.GroupBy(nonEmpty, func(b entities.CanonicalBallot) int { return b.Sequence[0] })
	perCandidate := make(map[int]map[int]int, len(byFirstChoice))
	totalPerCandidate := make(map[int]int, len(byFirstChoice))
	for first, group := range byFirstChoice {
		totalPerCandidate[first] = sumMultiplicity(group)

		byDepthForCandidate := lo.GroupBy(group, depthOf)
		depths := make(map[int]int, len(byDepthForCandidate))
		for k, g := range byDepthForCandidate {
			depths[k] = sumMultiplicity(g)
		}
		perCandidate[first] = depths
	}

	return entities.RankingDistribution{
		Overall:           overall,
		PerCandidate:      perCandidate,
		TotalPerCandidate: totalPerCandidate,
		TotalBallots:      sumMultiplicity(nonEmpty),
	}
}
