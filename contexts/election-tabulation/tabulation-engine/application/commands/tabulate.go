package commands

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	application "rcvtab/contexts/election-tabulation/tabulation-engine/application"
	"rcvtab/contexts/election-tabulation/tabulation-engine/config"
	"rcvtab/contexts/election-tabulation/tabulation-engine/domain/entities"
	domainerrors "rcvtab/contexts/election-tabulation/tabulation-engine/domain/errors"
	"rcvtab/contexts/election-tabulation/tabulation-engine/domain/services"
)

// TabulateCommand is the write-model input for a single contest run.
// RawBallots are canonicalized internally (component A); callers never
// canonicalize ahead of time.
type TabulateCommand struct {
	Candidates       []entities.Candidate
	RawBallots       []entities.RawBallot
	Seats            int
	Variant          entities.Variant
	QuotaBallotCount *int
}

// TabulateResult is the assembled report plus the run's correlation ID.
type TabulateResult struct {
	Report entities.ContestReport
	RunID  string
}

// TabulateUseCase orchestrates a single contest: canonicalize, run the
// selected round engine, compute analytics, assemble ContestReport.
type TabulateUseCase struct {
	Config config.Config
	Logger *slog.Logger
}

func (uc TabulateUseCase) Tabulate(_ context.Context, cmd TabulateCommand) (TabulateResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	runID := uuid.NewString()

	logger.Info("contest tabulation started",
		"event", "tabulation_contest_started",
		"module", "election-tabulation/tabulation-engine",
		"layer", "application",
		"run_id", runID,
		"seats", cmd.Seats,
		"variant", string(cmd.Variant),
		"candidate_count", len(cmd.Candidates),
	)

	if cmd.Seats <= 0 || len(cmd.Candidates) == 0 {
		logger.Warn("contest tabulation validation failed",
			"event", "tabulation_contest_validation_failed",
			"module", "election-tabulation/tabulation-engine",
			"layer", "application",
			"run_id", runID,
		)
		return TabulateResult{}, domainerrors.ErrInvalidContest
	}

	cfg := uc.Config
	if cfg == (config.Config{}) {
		cfg = config.Default()
	}

	ballots := services.Canonicalize(cmd.RawBallots)

	quotaBasis := canonicalBallotCount(ballots)
	if cmd.QuotaBallotCount != nil {
		quotaBasis = *cmd.QuotaBallotCount
	}
	quota := services.DroopQuota(quotaBasis, cmd.Seats)

	rounds, winners, err := runEngine(cfg, cmd, ballots, quota, quotaBasis)
	var capErr *domainerrors.RoundCapError
	isRoundCapErr := errors.As(err, &capErr)
	if err != nil && !isRoundCapErr {
		logger.Error("contest tabulation failed",
			"event", "tabulation_contest_failed",
			"module", "election-tabulation/tabulation-engine",
			"layer", "application",
			"run_id", runID,
			"error", err.Error(),
		)
		return TabulateResult{}, err
	}

	report := assembleReport(cmd.Candidates, ballots, rounds, winners, quota)

	if err != nil {
		logger.Error("contest tabulation aborted at round cap",
			"event", "tabulation_contest_round_cap_exceeded",
			"module", "election-tabulation/tabulation-engine",
			"layer", "application",
			"run_id", runID,
			"rounds_so_far", len(rounds),
		)
		return TabulateResult{Report: report, RunID: runID}, err
	}

	logger.Info("contest tabulation completed",
		"event", "tabulation_contest_completed",
		"module", "election-tabulation/tabulation-engine",
		"layer", "application",
		"run_id", runID,
		"rounds", len(rounds),
		"winners", winners,
	)
	return TabulateResult{Report: report, RunID: runID}, nil
}

func runEngine(
	cfg config.Config,
	cmd TabulateCommand,
	ballots []entities.CanonicalBallot,
	quota int,
	quotaBasis int,
) ([]entities.Round, []int, error) {
	switch cmd.Variant {
	case entities.VariantIRV, entities.VariantWholeBallotSTV:
		return services.RunWholeBallot(cfg, cmd.Candidates, ballots, cmd.Seats, quota, cmd.Variant)
	case entities.VariantFractionalSTV:
		return services.RunFractional(cfg, cmd.Candidates, ballots, cmd.Seats, quota, quotaBasis)
	default:
		return nil, nil, domainerrors.ErrInvalidContest
	}
}

func canonicalBallotCount(ballots []entities.CanonicalBallot) int {
	total := 0
	for _, b := range ballots {
		total += b.Multiplicity
	}
	return total
}

func assembleReport(
	candidates []entities.Candidate,
	ballots []entities.CanonicalBallot,
	rounds []entities.Round,
	winners []int,
	quota int,
) entities.ContestReport {
	counts := services.PairwiseCounts(candidates, ballots)
	graph := services.PreferenceGraph(candidates, counts)
	smithSet := services.SmithSet(candidates, graph)

	finalRound := services.FinalRoundCandidates(rounds)

	return entities.ContestReport{
		Quota:               quota,
		Rounds:              rounds,
		Winners:             winners,
		CandidateSummaries:  candidateSummaries(candidates, rounds, winners),
		PairwisePreferences: services.PairwisePreferences(candidates, counts),
		FirstAlternate:      services.FirstAlternate(candidates, ballots),
		FirstToFinal:        services.FirstToFinal(candidates, ballots, finalRound),
		RankingDistribution: services.RankingDistribution(ballots),
		SmithSet:            smithSet,
		CondorcetWinner:     services.CondorcetWinner(smithSet),
	}
}

func candidateSummaries(candidates []entities.Candidate, rounds []entities.Round, winners []int) []entities.CandidateVotes {
	if len(rounds) == 0 {
		return nil
	}

	isWinner := make(map[int]bool, len(winners))
	for _, w := range winners {
		isWinner[w] = true
	}

	first := make(map[int]float64, len(candidates))
	for _, a := range rounds[0].Allocations {
		if idx, ok := a.Allocatee.CandidateIndex(); ok {
			first[idx] = a.Votes
		}
	}

	final := make(map[int]float64, len(candidates))
	roundElected := make(map[int]int)
	roundEliminated := make(map[int]int)
	for i, r := range rounds {
		for _, a := range r.Allocations {
			if idx, ok := a.Allocatee.CandidateIndex(); ok {
				final[idx] = a.Votes
			}
		}
		for _, idx := range r.Elected {
			roundElected[idx] = i
		}
		for _, idx := range r.Eliminated {
			roundEliminated[idx] = i
		}
	}

	summaries := make([]entities.CandidateVotes, 0, len(candidates))
	for _, c := range candidates {
		cv := entities.CandidateVotes{
			Candidate:       c.Index,
			FirstRoundVotes: first[c.Index],
			TransferVotes:   final[c.Index] - first[c.Index],
			Winner:          isWinner[c.Index],
		}
		if r, ok := roundElected[c.Index]; ok {
			cv.RoundElected = &r
		}
		if r, ok := roundEliminated[c.Index]; ok {
			cv.RoundEliminated = &r
		}
		summaries = append(summaries, cv)
	}

	sortCandidateSummaries(summaries)
	return summaries
}

// sortCandidateSummaries orders by total votes descending, the order a
// reporting UI wants without re-sorting (report.rs's total_votes sort).
func sortCandidateSummaries(summaries []entities.CandidateVotes) {
	sort.SliceStable(summaries, func(i, j int) bool {
		ti := summaries[i].FirstRoundVotes + summaries[i].TransferVotes
		tj := summaries[j].FirstRoundVotes + summaries[j].TransferVotes
		return ti > tj
	})
}
