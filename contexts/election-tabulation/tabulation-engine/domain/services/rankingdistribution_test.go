package services

import (
	"testing"

	"rcvtab/contexts/election-tabulation/tabulation-engine/domain/entities"
)

func TestRankingDistribution(t *testing.T) {
	alice, bob, carol := 0, 1, 2
	ballots := []entities.CanonicalBallot{
		canonical([]int{alice, bob}, 40),
		canonical([]int{bob, alice}, 35),
		canonical([]int{carol, alice, bob}, 25),
		canonical([]int{carol}, 5),
	}

	dist := RankingDistribution(ballots)

	if dist.TotalBallots != 105 {
		t.Fatalf("TotalBallots = %d, want 105", dist.TotalBallots)
	}
	if dist.Overall[1] != 5 {
		t.Errorf("Overall[1] = %d, want 5", dist.Overall[1])
	}
	if dist.Overall[2] != 75 {
		t.Errorf("Overall[2] = %d, want 75", dist.Overall[2])
	}
	if dist.Overall[3] != 25 {
		t.Errorf("Overall[3] = %d, want 25", dist.Overall[3])
	}

	if dist.PerCandidate[carol][1] != 5 || dist.PerCandidate[carol][3] != 25 {
		t.Errorf("PerCandidate[Carol] = %v, want {1:5, 3:25}", dist.PerCandidate[carol])
	}
	if dist.TotalPerCandidate[carol] != 30 {
		t.Errorf("TotalPerCandidate[Carol] = %d, want 30", dist.TotalPerCandidate[carol])
	}

	// Q10: the overall distribution's total across every depth equals
	// the total ballot count.
	sum := 0
	for _, count := range dist.Overall {
		sum += count
	}
	if sum != dist.TotalBallots {
		t.Fatalf("sum of Overall = %d, want TotalBallots = %d", sum, dist.TotalBallots)
	}

	// Each candidate's per-depth distribution must also total correctly.
	for candidate, byDepth := range dist.PerCandidate {
		candidateSum := 0
		for _, count := range byDepth {
			candidateSum += count
		}
		if candidateSum != dist.TotalPerCandidate[candidate] {
			t.Errorf("candidate %d: sum of PerCandidate = %d, want TotalPerCandidate = %d", candidate, candidateSum, dist.TotalPerCandidate[candidate])
		}
	}
}

func TestRankingDistributionSkipsEmptyBallots(t *testing.T) {
	ballots := []entities.CanonicalBallot{
		{Sequence: nil, Multiplicity: 3},
		canonical([]int{0}, 2),
	}
	dist := RankingDistribution(ballots)
	if dist.TotalBallots != 2 {
		t.Fatalf("TotalBallots = %d, want 2 (empty-sequence ballots excluded)", dist.TotalBallots)
	}
}
