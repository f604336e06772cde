// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/clearance/internal/contract"
	"github.com/huangsam/clearance/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteDecisions prints the current decisions of an item using the configured output format.
func (ow *OutWriter) WriteDecisions(report schema.DecisionReport, cfg *contract.Config, duration time.Duration) error {
	return PrintDecisionReport(report, cfg, duration)
}

// WriteOutcome prints the result of a decide run using the configured output format.
func (ow *OutWriter) WriteOutcome(outcome schema.DecisionOutcome, cfg *contract.Config, duration time.Duration) error {
	return PrintDecisionOutcome(outcome, cfg, duration)
}

// WriteHistory prints the decision history of an item using the configured output format.
func (ow *OutWriter) WriteHistory(history schema.DecisionHistory, cfg *contract.Config) error {
	return PrintDecisionHistory(history, cfg)
}

// WriteImport prints the summary of an import using the configured output format.
func (ow *OutWriter) WriteImport(summary schema.ImportSummary, cfg *contract.Config, duration time.Duration) error {
	return PrintImportSummary(summary, cfg, duration)
}
