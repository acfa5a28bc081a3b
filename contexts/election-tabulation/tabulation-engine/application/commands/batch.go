package commands

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	application "rcvtab/contexts/election-tabulation/tabulation-engine/application"
	"rcvtab/contexts/election-tabulation/tabulation-engine/config"
)

// BatchTabulateUseCase tabulates many independent contests concurrently.
// Contests share no mutable state (spec.md §5), so each one runs on its
// own goroutine; a single contest's error does not cancel the others —
// it is recorded in BatchResult.Errors at the same index.
type BatchTabulateUseCase struct {
	Config config.Config
	Logger *slog.Logger
}

// BatchResult pairs each input command's outcome by index; Results[i]
// is the zero TabulateResult when Errors[i] is non-nil, except for a
// round-cap error, where it holds the report built from the partial trace.
type BatchResult struct {
	Results []TabulateResult
	Errors  []error
}

func (uc BatchTabulateUseCase) TabulateAll(ctx context.Context, cmds []TabulateCommand) (BatchResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("batch tabulation started",
		"event", "tabulation_batch_started",
		"module", "election-tabulation/tabulation-engine",
		"layer", "application",
		"contest_count", len(cmds),
	)

	result := BatchResult{
		Results: make([]TabulateResult, len(cmds)),
		Errors:  make([]error, len(cmds)),
	}

	group, groupCtx := errgroup.WithContext(ctx)
	tabulator := TabulateUseCase{Config: uc.Config, Logger: uc.Logger}

	for i, cmd := range cmds {
		i, cmd := i, cmd
		group.Go(func() error {
			res, err := tabulator.Tabulate(groupCtx, cmd)
			result.Results[i] = res
			result.Errors[i] = err
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return result, err
	}

	logger.Info("batch tabulation completed",
		"event", "tabulation_batch_completed",
		"module", "election-tabulation/tabulation-engine",
		"layer", "application",
		"contest_count", len(cmds),
	)
	return result, nil
}
