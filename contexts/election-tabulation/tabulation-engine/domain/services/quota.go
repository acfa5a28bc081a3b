package services

// DroopQuota computes Q = floor(N/(seats+1)) + 1, the smallest vote
// total guaranteed to elect exactly `seats` candidates.
func DroopQuota(ballotCount int, seats int) int {
	return ballotCount/(seats+1) + 1
}
