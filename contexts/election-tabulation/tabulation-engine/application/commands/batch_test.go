package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"rcvtab/contexts/election-tabulation/tabulation-engine/domain/entities"
	domainerrors "rcvtab/contexts/election-tabulation/tabulation-engine/domain/errors"
)

func TestBatchTabulateRunsContestsIndependently(t *testing.T) {
	uc := BatchTabulateUseCase{}

	valid := scenarioS1Command()
	invalid := TabulateCommand{Seats: 0, Candidates: []entities.Candidate{{Index: 0}}}

	result, err := uc.TabulateAll(context.Background(), []TabulateCommand{valid, invalid})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	require.Len(t, result.Errors, 2)

	require.NoError(t, result.Errors[0])
	require.Equal(t, []int{0}, result.Results[0].Report.Winners)

	require.ErrorIs(t, result.Errors[1], domainerrors.ErrInvalidContest)
}

func TestBatchTabulateEmptyInput(t *testing.T) {
	uc := BatchTabulateUseCase{}
	result, err := uc.TabulateAll(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, result.Results)
	require.Empty(t, result.Errors)
}
