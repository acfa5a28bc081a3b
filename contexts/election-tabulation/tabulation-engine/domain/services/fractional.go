package services

import (
	"sort"

	"rcvtab/contexts/election-tabulation/tabulation-engine/config"
	"rcvtab/contexts/election-tabulation/tabulation-engine/domain/entities"
	domainerrors "rcvtab/contexts/election-tabulation/tabulation-engine/domain/errors"
)

type fractionalState struct {
	status          candStatus
	votes           float64
	firstRoundVotes float64
	transferVotes   float64
	pile            []*entities.RuntimeBallot
	roundElected    *int
	roundEliminated *int
}

// RunFractional implements component C: weighted inclusive Gregory
// multi-winner STV. Elected candidates are skipped (not removed) during
// cursor advancement so residual surplus keeps flowing through them to
// still-active candidates over multiple hops, per spec.md §4.3/§9.
func RunFractional(
	cfg config.Config,
	candidates []entities.Candidate,
	ballots []entities.CanonicalBallot,
	seats int,
	quota int,
	quotaBallotCount int,
) ([]entities.Round, []int, error) {
	names := make(map[int]string, len(candidates))
	for _, c := range candidates {
		names[c.Index] = c.Name
	}

	states := make(map[int]*fractionalState, len(candidates))
	order := make([]int, 0, len(candidates))
	for _, c := range candidates {
		states[c.Index] = &fractionalState{status: statusActive}
		order = append(order, c.Index)
	}
	sort.Ints(order)

	runtime := entities.ExpandBallots(ballots)
	exhausted := 0.0

	for _, rb := range runtime {
		placed := false
		for rb.Cursor < len(rb.SourceSequence) {
			candIdx := rb.SourceSequence[rb.Cursor]
			st, ok := states[candIdx]
			if !ok {
				return nil, nil, domainerrors.ErrInconsistentBallot
			}
			if st.status != statusEliminated {
				st.pile = append(st.pile, rb)
				st.votes += rb.Weight
				placed = true
				break
			}
			rb.Cursor++
		}
		if !placed {
			exhausted += rb.Weight
		}
	}
	for _, idx := range order {
		states[idx].firstRoundVotes = states[idx].votes
	}

	var rounds []entities.Round
	electedCount := 0
	roundCap := cfg.RoundCapMultiplier * len(candidates)

	for roundIdx := 0; ; roundIdx++ {
		if roundIdx >= roundCap {
			return rounds, winnersInElectionOrderFractional(rounds), &domainerrors.RoundCapError{Trace: rounds}
		}

		active := activeFractional(order, states)
		if len(active) == 0 {
			break
		}

		round := entities.Round{}
		round.Allocations = snapshotFractionalAllocations(order, states, exhausted)
		round.ContinuingBallots = continuingTotal(round.Allocations)

		remainingSeats := seats - electedCount
		if len(active) <= remainingSeats {
			elected := sortDescendingByVotesFloat(active, states, names)
			for _, idx := range elected {
				r := roundIdx
				states[idx].roundElected = &r
				states[idx].status = statusElected
			}
			electedCount += len(elected)
			round.Elected = elected
			rounds = append(rounds, round)
			break
		}

		idx := highestOverQuota(active, states, quota)
		if idx != -1 {
			st := states[idx]
			surplus := st.votes - float64(quota)
			transferFraction := 0.0
			if st.votes > 0 {
				transferFraction = surplus / st.votes
			}

			var transfers []entities.Transfer
			for _, rb := range st.pile {
				transferred := rb.Weight * transferFraction
				// The untransferred residual (weight - transferred) stays
				// spent at idx permanently; idx's own vote total is pinned
				// to quota below rather than resummed from its pile, so
				// only the transferred fraction needs to keep moving.
				rb.Weight = transferred
				to := advanceFractional(rb, idx, states, &exhausted)
				if transferred > 0 {
					transfers = append(transfers, entities.Transfer{From: idx, To: to, Count: transferred, Kind: entities.TransferSurplus})
				}
			}
			st.votes = float64(quota)
			r := roundIdx
			st.roundElected = &r
			st.status = statusElected
			electedCount++

			round.Elected = []int{idx}
			round.Transfers = aggregateTransfers(transfers)
			rounds = append(rounds, round)

			if electedCount >= seats {
				break
			}
			continue
		}

		votes := make(map[int]float64, len(active))
		for _, idx := range active {
			votes[idx] = states[idx].votes
		}
		loser := LowestByVotes(active, votes, names, cfg.TieBreakTolerance)
		st := states[loser]
		r := roundIdx
		st.roundEliminated = &r
		st.status = statusEliminated

		var transfers []entities.Transfer
		for _, rb := range st.pile {
			to := advanceFractional(rb, loser, states, &exhausted)
			transfers = append(transfers, entities.Transfer{From: loser, To: to, Count: rb.Weight, Kind: entities.TransferElimination})
		}
		st.pile = nil
		st.votes = 0

		round.Eliminated = []int{loser}
		round.Transfers = aggregateTransfers(transfers)
		rounds = append(rounds, round)
	}

	winners := winnersInElectionOrderFractional(rounds)
	if err := checkConservation(rounds, quotaBallotCount, cfg.ConservationEpsilonFactor); err != nil {
		return rounds, winners, err
	}
	return rounds, winners, nil
}

func highestOverQuota(active []int, states map[int]*fractionalState, quota int) int {
	best := -1
	for _, idx := range active {
		if states[idx].votes < float64(quota) {
			continue
		}
		if best == -1 || states[idx].votes > states[best].votes {
			best = idx
		}
	}
	return best
}

func activeFractional(order []int, states map[int]*fractionalState) []int {
	var active []int
	for _, idx := range order {
		if states[idx].status == statusActive {
			active = append(active, idx)
		}
	}
	return active
}

func snapshotFractionalAllocations(order []int, states map[int]*fractionalState, exhausted float64) []entities.Allocation {
	allocations := make([]entities.Allocation, 0, len(order)+1)
	for _, idx := range order {
		st := states[idx]
		if st.status == statusEliminated {
			continue
		}
		allocations = append(allocations, entities.Allocation{
			Allocatee: entities.AllocateeFor(idx),
			Votes:     st.votes,
		})
	}
	allocations = append(allocations, entities.Allocation{Allocatee: entities.Exhausted, Votes: exhausted})
	return allocations
}

func sortDescendingByVotesFloat(indices []int, states map[int]*fractionalState, names map[int]string) []int {
	result := append([]int(nil), indices...)
	sort.Slice(result, func(i, j int) bool {
		vi, vj := states[result[i]].votes, states[result[j]].votes
		if vi == vj {
			return NameLess(names[result[i]], names[result[j]])
		}
		return vi > vj
	})
	return result
}

// advanceFractional advances rb's cursor past `from`, skipping both
// elected and eliminated candidates (as advanceWholeBallot does), and
// appends rb to the next candidate's pile while crediting the current
// weight (or `transferred`, set by the caller before calling) to the
// next still-active allocatee.
func advanceFractional(
	rb *entities.RuntimeBallot,
	from int,
	states map[int]*fractionalState,
	exhausted *float64,
) entities.Allocatee {
	rb.Cursor++
	for rb.Cursor < len(rb.SourceSequence) {
		candIdx := rb.SourceSequence[rb.Cursor]
		st := states[candIdx]
		if st != nil && st.status == statusActive {
			st.pile = append(st.pile, rb)
			st.votes += rb.Weight
			return entities.AllocateeFor(candIdx)
		}
		rb.Cursor++
	}
	*exhausted += rb.Weight
	return entities.Exhausted
}

func winnersInElectionOrderFractional(rounds []entities.Round) []int {
	var winners []int
	for _, r := range rounds {
		winners = append(winners, r.Elected...)
	}
	return winners
}

func checkConservation(rounds []entities.Round, n int, epsilonFactor float64) error {
	if len(rounds) == 0 {
		return nil
	}
	last := rounds[len(rounds)-1]
	total := 0.0
	for _, a := range last.Allocations {
		total += a.Votes
	}
	diff := total - float64(n)
	if diff < 0 {
		diff = -diff
	}
	if diff >= epsilonFactor*float64(n) {
		return domainerrors.ErrNumericInconsistency
	}
	return nil
}
