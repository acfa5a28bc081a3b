package tabulationengine

import (
	"log/slog"

	"rcvtab/contexts/election-tabulation/tabulation-engine/application/commands"
	"rcvtab/contexts/election-tabulation/tabulation-engine/application/queries"
	"rcvtab/contexts/election-tabulation/tabulation-engine/config"
)

// Module bundles the use cases a driver needs to run contests. Unlike
// the teacher's Module, there is no Handler/Store: this core has no
// HTTP surface and no repository, so wiring reduces to configuration.
type Module struct {
	Tabulate  commands.TabulateUseCase
	Batch     commands.BatchTabulateUseCase
	Analytics queries.AnalyticsUseCase
}

type Dependencies struct {
	Config config.Config
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	cfg := deps.Config
	if cfg == (config.Config{}) {
		cfg = config.Default()
	}
	return Module{
		Tabulate:  commands.TabulateUseCase{Config: cfg, Logger: deps.Logger},
		Batch:     commands.BatchTabulateUseCase{Config: cfg, Logger: deps.Logger},
		Analytics: queries.AnalyticsUseCase{},
	}
}
