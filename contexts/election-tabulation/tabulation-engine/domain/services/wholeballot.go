package services

import (
	"sort"

	"rcvtab/contexts/election-tabulation/tabulation-engine/config"
	"rcvtab/contexts/election-tabulation/tabulation-engine/domain/entities"
	domainerrors "rcvtab/contexts/election-tabulation/tabulation-engine/domain/errors"
)

type candStatus int

const (
	statusActive candStatus = iota
	statusElected
	statusEliminated
)

type wholeBallotState struct {
	status          candStatus
	votes           int
	firstRoundVotes int
	transferVotes   int
	pile            []*entities.RuntimeBallot
	roundElected    *int
	roundEliminated *int
}

// RunWholeBallot implements component B: IRV when variant is
// VariantIRV, Cambridge-style whole-ballot STV otherwise; seats does
// not select the rule. quota is ignored for
// IRV (majority of continuing ballots is used instead, per spec.md §4.2).
func RunWholeBallot(
	cfg config.Config,
	candidates []entities.Candidate,
	ballots []entities.CanonicalBallot,
	seats int,
	quota int,
	variant entities.Variant,
) ([]entities.Round, []int, error) {
	names := make(map[int]string, len(candidates))
	for _, c := range candidates {
		names[c.Index] = c.Name
	}

	states := make(map[int]*wholeBallotState, len(candidates))
	order := make([]int, 0, len(candidates))
	for _, c := range candidates {
		states[c.Index] = &wholeBallotState{status: statusActive}
		order = append(order, c.Index)
	}
	sort.Ints(order)

	runtime := entities.ExpandBallots(ballots)
	exhausted := 0.0

	// Initial allocation: each ballot's pile is its first still-active rank.
	for _, rb := range runtime {
		placed := false
		for rb.Cursor < len(rb.SourceSequence) {
			candIdx := rb.SourceSequence[rb.Cursor]
			st, ok := states[candIdx]
			if !ok {
				return nil, nil, domainerrors.ErrInconsistentBallot
			}
			if st.status == statusActive {
				st.pile = append(st.pile, rb)
				placed = true
				break
			}
			rb.Cursor++
		}
		if !placed {
			exhausted++
		}
	}
	for _, idx := range order {
		st := states[idx]
		st.votes = len(st.pile)
		st.firstRoundVotes = st.votes
	}

	var rounds []entities.Round
	var winners []int
	electedCount := 0
	roundCap := cfg.RoundCapMultiplier * len(candidates)

	isIRV := variant == entities.VariantIRV

	for roundIdx := 0; ; roundIdx++ {
		if roundIdx >= roundCap {
			return rounds, winners, &domainerrors.RoundCapError{Trace: rounds}
		}

		active := activeCandidates(order, states)
		if len(active) == 0 {
			break
		}

		round := entities.Round{}
		round.Allocations = snapshotAllocations(order, states, exhausted)
		continuingBallots := continuingTotal(round.Allocations)
		round.ContinuingBallots = continuingBallots

		remainingSeats := seats - electedCount

		// Fill-by-default: remaining active candidates <= remaining seats.
		if len(active) <= remainingSeats && len(active) > 0 {
			elected := electDescending(active, states, names)
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

		var overQuota []int
		if isIRV {
			for _, idx := range active {
				if float64(states[idx].votes) > continuingBallots/2 {
					overQuota = append(overQuota, idx)
					break // IRV: sole winner, stop at first found
				}
			}
		} else {
			for _, idx := range active {
				if states[idx].votes >= quota {
					overQuota = append(overQuota, idx)
				}
			}
		}

		if len(overQuota) > 0 {
			elected := sortDescendingByVotesInt(overQuota, states, names)
			var transfers []entities.Transfer
			for _, idx := range elected {
				r := roundIdx
				st := states[idx]
				st.roundElected = &r
				st.status = statusElected
				winners = append(winners, idx)
				electedCount++

				if isIRV {
					// IRV stops at the sole winner; no surplus transfer needed.
					continue
				}

				surplus := st.votes - quota
				if surplus > 0 {
					t := transferSurplus(idx, st, surplus, states, &exhausted)
					transfers = append(transfers, t...)
				}
				st.votes = quota
			}
			round.Elected = elected
			round.Transfers = aggregateTransfers(transfers)
			rounds = append(rounds, round)

			if isIRV {
				break
			}
			if electedCount >= seats {
				break
			}
			continue
		}

		// Eliminate the active candidate with fewest votes.
		votesF := make(map[int]float64, len(active))
		for _, idx := range active {
			votesF[idx] = float64(states[idx].votes)
		}
		loser := LowestByVotes(active, votesF, names, 0)
		st := states[loser]
		r := roundIdx
		st.roundEliminated = &r
		st.status = statusEliminated

		transfers := transferEliminated(loser, st, states, &exhausted)
		st.pile = nil
		st.votes = 0

		round.Eliminated = []int{loser}
		round.Transfers = aggregateTransfers(transfers)
		rounds = append(rounds, round)
	}

	return rounds, winnersInElectionOrder(rounds), nil
}

func activeCandidates(order []int, states map[int]*wholeBallotState) []int {
	var active []int
	for _, idx := range order {
		if states[idx].status == statusActive {
			active = append(active, idx)
		}
	}
	return active
}

func continuingTotal(allocations []entities.Allocation) float64 {
	total := 0.0
	for _, a := range allocations {
		if _, ok := a.Allocatee.CandidateIndex(); ok {
			total += a.Votes
		}
	}
	return total
}

func snapshotAllocations(order []int, states map[int]*wholeBallotState, exhausted float64) []entities.Allocation {
	allocations := make([]entities.Allocation, 0, len(order)+1)
	for _, idx := range order {
		st := states[idx]
		if st.status == statusEliminated {
			continue
		}
		allocations = append(allocations, entities.Allocation{
			Allocatee: entities.AllocateeFor(idx),
			Votes:     float64(st.votes),
		})
	}
	allocations = append(allocations, entities.Allocation{Allocatee: entities.Exhausted, Votes: exhausted})
	return allocations
}

func electDescending(active []int, states map[int]*wholeBallotState, names map[int]string) []int {
	return sortDescendingByVotesInt(active, states, names)
}

func sortDescendingByVotesInt(indices []int, states map[int]*wholeBallotState, names map[int]string) []int {
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

// transferSurplus takes the top `surplus` ballots (most recently
// received, i.e. the end of the pile under Cambridge convention) off
// the elected candidate's pile and redistributes each to its next
// still-active preference, skipping already-elected and
// already-eliminated candidates.
func transferSurplus(
	from int,
	st *wholeBallotState,
	surplus int,
	states map[int]*wholeBallotState,
	exhausted *float64,
) []entities.Transfer {
	n := len(st.pile)
	take := st.pile[n-surplus:]
	st.pile = st.pile[:n-surplus]

	var transfers []entities.Transfer
	for _, rb := range take {
		to := advanceWholeBallot(rb, from, states, exhausted)
		transfers = append(transfers, entities.Transfer{From: from, To: to, Count: 1, Kind: entities.TransferSurplus})
	}
	return transfers
}

func transferEliminated(
	from int,
	st *wholeBallotState,
	states map[int]*wholeBallotState,
	exhausted *float64,
) []entities.Transfer {
	var transfers []entities.Transfer
	for _, rb := range st.pile {
		to := advanceWholeBallot(rb, from, states, exhausted)
		transfers = append(transfers, entities.Transfer{From: from, To: to, Count: 1, Kind: entities.TransferElimination})
	}
	return transfers
}

// advanceWholeBallot moves a ballot past `from` to its next still-active
// preference, skipping elected and eliminated candidates, and places it
// on that candidate's pile (or counts it Exhausted).
func advanceWholeBallot(
	rb *entities.RuntimeBallot,
	from int,
	states map[int]*wholeBallotState,
	exhausted *float64,
) entities.Allocatee {
	rb.Cursor++
	for rb.Cursor < len(rb.SourceSequence) {
		candIdx := rb.SourceSequence[rb.Cursor]
		st := states[candIdx]
		if st != nil && st.status == statusActive {
			st.pile = append(st.pile, rb)
			st.votes++
			st.transferVotes++
			return entities.AllocateeFor(candIdx)
		}
		rb.Cursor++
	}
	*exhausted++
	return entities.Exhausted
}

func aggregateTransfers(transfers []entities.Transfer) []entities.Transfer {
	type key struct {
		from int
		to   entities.Allocatee
		kind entities.TransferKind
	}
	totals := make(map[key]float64)
	var keys []key
	for _, t := range transfers {
		k := key{from: t.From, to: t.To, kind: t.Kind}
		if _, ok := totals[k]; !ok {
			keys = append(keys, k)
		}
		totals[k] += t.Count
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].from != keys[j].from {
			return keys[i].from < keys[j].from
		}
		return allocateeLess(keys[i].to, keys[j].to)
	})
	result := make([]entities.Transfer, 0, len(keys))
	for _, k := range keys {
		result = append(result, entities.Transfer{From: k.from, To: k.to, Count: totals[k], Kind: k.kind})
	}
	return result
}

func allocateeLess(a, b entities.Allocatee) bool {
	ai, aok := a.CandidateIndex()
	bi, bok := b.CandidateIndex()
	if aok && bok {
		return ai < bi
	}
	return aok && !bok
}

// winnersInElectionOrder derives the winner list from the round trace
// in election order (the order spec.md Scenario S3 expects: [A, B], not
// a numeric sort that happens to coincide here but would differ for
// e.g. a round electing [B, A]).
func winnersInElectionOrder(rounds []entities.Round) []int {
	var winners []int
	for _, r := range rounds {
		winners = append(winners, r.Elected...)
	}
	return winners
}
