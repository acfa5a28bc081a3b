package queries

import (
	"rcvtab/contexts/election-tabulation/tabulation-engine/domain/entities"
	"rcvtab/contexts/election-tabulation/tabulation-engine/domain/services"
)

// AnalyticsUseCase recomputes components D and E independently from a
// contest's canonical ballots and round trace, mirroring the read-only
// separation between the teacher's write-model VoteUseCase and its
// read-model LeaderboardUseCase. It exists so property R2 (recomputing
// analytics from the same ballots and trace yields identical tables) is
// exercised through a real collaborator boundary, not just a helper
// function called from the write path.
type AnalyticsUseCase struct{}

// ComputeAnalytics rebuilds the pairwise tables, Smith set, Condorcet
// winner, and ranking distribution from scratch.
func (AnalyticsUseCase) ComputeAnalytics(
	candidates []entities.Candidate,
	ballots []entities.CanonicalBallot,
	rounds []entities.Round,
) (pairwise, firstAlternate, firstToFinal entities.CandidatePairTable, ranking entities.RankingDistribution, smithSet []int, condorcet *int) {
	counts := services.PairwiseCounts(candidates, ballots)
	graph := services.PreferenceGraph(candidates, counts)
	smithSet = services.SmithSet(candidates, graph)

	pairwise = services.PairwisePreferences(candidates, counts)
	firstAlternate = services.FirstAlternate(candidates, ballots)
	firstToFinal = services.FirstToFinal(candidates, ballots, services.FinalRoundCandidates(rounds))
	ranking = services.RankingDistribution(ballots)
	condorcet = services.CondorcetWinner(smithSet)
	return
}
