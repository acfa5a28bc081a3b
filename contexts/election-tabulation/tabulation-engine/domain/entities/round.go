package entities

// TransferKind tags why votes moved between allocatees in a round.
type TransferKind string

const (
	TransferElimination TransferKind = "elimination"
	TransferSurplus     TransferKind = "surplus"
)

// Allocation is one allocatee's vote count at the start of a round's
// action. Votes is always an integer value for the whole-ballot engine
// and a float64 for the fractional engine; whole-ballot tabulation
// stores it pre-truncated into Votes so both engines share one type.
type Allocation struct {
	Allocatee Allocatee
	Votes     float64
}

// Transfer is one (from, to) vote movement produced during a round.
// From is always a candidate index (Exhausted never originates a
// transfer); To may be Exhausted.
type Transfer struct {
	From  int
	To    Allocatee
	Count float64
	Kind  TransferKind
}

// Round is one entry in the round trace (spec.md §3). Allocations holds
// every still-active or already-elected candidate plus Exhausted, as of
// the start of this round's action.
type Round struct {
	Allocations       []Allocation
	Transfers         []Transfer
	Elected           []int
	Eliminated        []int
	ContinuingBallots float64
}
