package entities

// RawBallot is a single physical ballot's rank sequence as produced by
// an upstream loader: candidate indices in preference order, duplicates
// and invalid indices already dropped.
type RawBallot struct {
	Rankings []int
}

// CanonicalBallot is the deduplicated form of component A: one record
// per distinct rank sequence, with the count of physically identical
// ballots collapsed into it.
type CanonicalBallot struct {
	Sequence     []int
	Multiplicity int
}

// RuntimeBallot is the mutable, per-physical-ballot state the engines
// operate on. The whole-ballot engine only ever sets Weight to 1 and
// advances Cursor by moving the ballot between piles; the fractional
// engine mutates Weight in place and advances Cursor independently per
// ballot. SourceSequence is shared (read-only) across every runtime
// ballot expanded from the same canonical ballot.
type RuntimeBallot struct {
	SourceSequence []int
	Weight         float64
	Cursor         int
}

// CurrentChoice returns the candidate index at Cursor, or (0, false)
// if the cursor has run past the end of the sequence.
func (b *RuntimeBallot) CurrentChoice() (int, bool) {
	if b.Cursor < 0 || b.Cursor >= len(b.SourceSequence) {
		return 0, false
	}
	return b.SourceSequence[b.Cursor], true
}

// ExpandBallots performs the one-time expansion described in §4.1: each
// (sequence, multiplicity=m) canonical ballot becomes m runtime ballots
// sharing the same backing sequence slice but holding independent
// mutable state.
func ExpandBallots(ballots []CanonicalBallot) []*RuntimeBallot {
	total := 0
	for _, b := range ballots {
		total += b.Multiplicity
	}
	expanded := make([]*RuntimeBallot, 0, total)
	for _, b := range ballots {
		for i := 0; i < b.Multiplicity; i++ {
			expanded = append(expanded, &RuntimeBallot{
				SourceSequence: b.Sequence,
				Weight:         1.0,
				Cursor:         0,
			})
		}
	}
	return expanded
}
