package config

// Config carries the tunable constants the round engines need. Unlike
// the platform-level config this repo's teacher loads from the
// environment, Config reads nothing from the process environment: the
// core exposes no environment variables (spec.md §6.3). Callers build
// one directly, typically starting from Default().
type Config struct {
	// TieBreakTolerance is the absolute floating-point tolerance used by
	// the fractional engine's "lowest votes" tie-break (spec.md §9).
	TieBreakTolerance float64

	// ConservationEpsilonFactor bounds the fractional engine's
	// end-of-tabulation conservation check: |sum(allocations) - N| must
	// stay under ConservationEpsilonFactor * N (spec.md §8 Q3).
	ConservationEpsilonFactor float64

	// RoundCapMultiplier bounds the maximum number of rounds as
	// RoundCapMultiplier * len(candidates) (spec.md §4.2 safety limit).
	RoundCapMultiplier int
}

func Default() Config {
	return Config{
		TieBreakTolerance:         1e-4,
		ConservationEpsilonFactor: 1e-6,
		RoundCapMultiplier:        2,
	}
}
