// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAnalysis prints a scored analysis using the configured output format.
func (ow *OutWriter) WriteAnalysis(a *schema.Analysis, cfg *contract.Config) error {
	return WriteAnalysisResult(a, cfg)
}

// WriteAnalyses prints analysis listing rows using the configured output format.
func (ow *OutWriter) WriteAnalyses(rows []schema.AnalysisSummary, cfg *contract.Config) error {
	return WriteAnalysisList(rows, cfg)
}

// WriteWeights prints an owner's effective weights using the configured output format.
func (ow *OutWriter) WriteWeights(owner string, weights schema.WeightVector, saved bool, cfg *contract.Config) error {
	return WriteWeights(owner, weights, saved, cfg)
}

// WriteDecision prints a rejected pipeline outcome using the configured output format.
func (ow *OutWriter) WriteDecision(code schema.DecisionCode, reason string, cfg *contract.Config) error {
	return WriteDecision(code, reason, cfg)
}
