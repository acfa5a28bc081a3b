// Package tabulationengine implements the ranked-choice election
// tabulation and analytics core.
//
// Given canonicalized ballots and a contest configuration it elects
// winners under Instant-Runoff, Cambridge-style whole-ballot STV, or
// weighted inclusive Gregory fractional STV, emits a round-by-round
// trace suitable for Sankey visualization, and computes pairwise,
// first-alternate, first-to-final, and ranking-depth analytics. The
// core is synchronous and single-threaded per contest; it owns no I/O,
// storage, or transport — those are the surrounding driver's concern.
package tabulationengine
