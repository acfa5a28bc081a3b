package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"rcvtab/contexts/election-tabulation/tabulation-engine/config"
	"rcvtab/contexts/election-tabulation/tabulation-engine/domain/entities"
	domainerrors "rcvtab/contexts/election-tabulation/tabulation-engine/domain/errors"
)

func rawBallots(sequence []int, count int) []entities.RawBallot {
	out := make([]entities.RawBallot, count)
	for i := range out {
		out[i] = entities.RawBallot{Rankings: sequence}
	}
	return out
}

func scenarioS1Command() TabulateCommand {
	alice, bob, carol := 0, 1, 2
	var raw []entities.RawBallot
	raw = append(raw, rawBallots([]int{alice, bob}, 40)...)
	raw = append(raw, rawBallots([]int{bob, alice}, 35)...)
	raw = append(raw, rawBallots([]int{carol, alice, bob}, 25)...)

	return TabulateCommand{
		Candidates: []entities.Candidate{
			{Index: alice, Name: "Alice"},
			{Index: bob, Name: "Bob"},
			{Index: carol, Name: "Carol"},
		},
		RawBallots: raw,
		Seats:      1,
		Variant:    entities.VariantIRV,
	}
}

func TestTabulateScenarioS1EndToEnd(t *testing.T) {
	uc := TabulateUseCase{}
	result, err := uc.Tabulate(context.Background(), scenarioS1Command())
	require.NoError(t, err)
	require.NotEmpty(t, result.RunID)
	require.Len(t, result.Report.Rounds, 2)
	require.Equal(t, []int{0}, result.Report.Winners)
	require.NotNil(t, result.Report.CondorcetWinner)
	require.Equal(t, 0, *result.Report.CondorcetWinner)
}

func TestTabulateInvalidContest(t *testing.T) {
	uc := TabulateUseCase{}

	_, err := uc.Tabulate(context.Background(), TabulateCommand{Seats: 0, Candidates: []entities.Candidate{{Index: 0}}})
	require.ErrorIs(t, err, domainerrors.ErrInvalidContest)

	_, err = uc.Tabulate(context.Background(), TabulateCommand{Seats: 1, Candidates: nil})
	require.ErrorIs(t, err, domainerrors.ErrInvalidContest)
}

func TestTabulateUnknownVariant(t *testing.T) {
	uc := TabulateUseCase{}
	cmd := scenarioS1Command()
	cmd.Variant = "not-a-real-variant"
	_, err := uc.Tabulate(context.Background(), cmd)
	require.ErrorIs(t, err, domainerrors.ErrInvalidContest)
}

// TestTabulateRoundTripReorderingR1 is property R1: reordering the raw
// ballots (order only, same multiset) yields an identical report.
func TestTabulateRoundTripReorderingR1(t *testing.T) {
	uc := TabulateUseCase{}

	forward := scenarioS1Command()
	reversed := scenarioS1Command()
	reversed.RawBallots = make([]entities.RawBallot, len(forward.RawBallots))
	for i, b := range forward.RawBallots {
		reversed.RawBallots[len(forward.RawBallots)-1-i] = b
	}

	first, err := uc.Tabulate(context.Background(), forward)
	require.NoError(t, err)
	second, err := uc.Tabulate(context.Background(), reversed)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Report, second.Report, cmpopts.EquateComparable(entities.Allocatee{})); diff != "" {
		t.Fatalf("reordering raw ballots changed the report (-want +got):\n%s", diff)
	}
}

// TestTabulateDeterminismQ6 is Q6: running the same input twice yields
// byte-identical reports (RunID is expected to differ; it is excluded).
func TestTabulateDeterminismQ6(t *testing.T) {
	uc := TabulateUseCase{}
	cmd := scenarioS1Command()

	first, err := uc.Tabulate(context.Background(), cmd)
	require.NoError(t, err)
	second, err := uc.Tabulate(context.Background(), cmd)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Report, second.Report, cmpopts.EquateComparable(entities.Allocatee{})); diff != "" {
		t.Fatalf("repeated tabulation of the same input diverged (-want +got):\n%s", diff)
	}
}

// TestTabulateMultiplicityScalingQ7 checks part of Q7 with k=2: every
// round's allocations double, and each round's elected and eliminated
// candidates stay the same. Transfer counts are not compared here.
func TestTabulateMultiplicityScalingQ7(t *testing.T) {
	uc := TabulateUseCase{}

	base, err := uc.Tabulate(context.Background(), scenarioS1Command())
	require.NoError(t, err)

	scaled := scenarioS1Command()
	doubled := make([]entities.RawBallot, 0, len(scaled.RawBallots)*2)
	for _, b := range scaled.RawBallots {
		doubled = append(doubled, b, b)
	}
	scaled.RawBallots = doubled

	scaledResult, err := uc.Tabulate(context.Background(), scaled)
	require.NoError(t, err)

	require.Equal(t, len(base.Report.Rounds), len(scaledResult.Report.Rounds))
	for i := range base.Report.Rounds {
		baseRound := base.Report.Rounds[i]
		scaledRound := scaledResult.Report.Rounds[i]
		require.Equal(t, baseRound.Elected, scaledRound.Elected)
		require.Equal(t, baseRound.Eliminated, scaledRound.Eliminated)

		for _, a := range baseRound.Allocations {
			var scaledVotes float64
			for _, sa := range scaledRound.Allocations {
				if sa.Allocatee == a.Allocatee {
					scaledVotes = sa.Votes
				}
			}
			require.Equal(t, a.Votes*2, scaledVotes)
		}
	}
}

func TestTabulateRoundCapTripsWithTypedError(t *testing.T) {
	uc := TabulateUseCase{}
	cmd := scenarioS1Command()

	// A multiplier of zero caps the contest at zero rounds, which S1's
	// electorate (needing two) cannot finish within, so the cap trips
	// on the very first iteration with an empty partial trace.
	def := config.Default()
	uc.Config = config.Config{
		TieBreakTolerance:         def.TieBreakTolerance,
		ConservationEpsilonFactor: def.ConservationEpsilonFactor,
		RoundCapMultiplier:        0,
	}

	result, err := uc.Tabulate(context.Background(), cmd)
	var capErr *domainerrors.RoundCapError
	require.True(t, errors.As(err, &capErr))
	require.ErrorIs(t, err, domainerrors.ErrRoundCapExceeded)
	require.Empty(t, result.Report.Rounds)
}
