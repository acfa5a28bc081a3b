package entities

// Variant is the tabulation rule a contest is run under. It is always
// supplied by the caller — the engine never infers it from seat count
// (spec.md §9: Cambridge/Scotland and Portland are both STV with seats
// > 1, but use different surplus-transfer rules).
type Variant string

const (
	VariantIRV            Variant = "irv"
	VariantWholeBallotSTV Variant = "whole_ballot_stv"
	VariantFractionalSTV  Variant = "fractional_stv"
)

// ContestConfig is the per-contest tabulation configuration.
type ContestConfig struct {
	Seats      int
	Variant    Variant
	Candidates []Candidate
}

// ContestInput is the bundle consumed from upstream loaders (spec.md §6.1).
type ContestInput struct {
	Candidates []Candidate
	Ballots    []CanonicalBallot
	Seats      int
	Variant    Variant

	// QuotaBallotCount overrides the default quota basis (the canonical
	// ballot count) for CVRs like Portland's that bundle ballots from
	// other contests in the same file.
	QuotaBallotCount *int
}
