// Package core wires detection, versioning, adapters, scoring, normalization
// and persistence into the analysis pipeline.
package core

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/huangsam/qualityscore/core/normalize"
	"github.com/huangsam/qualityscore/core/scoring"
	"github.com/huangsam/qualityscore/internal/adapters"
	"github.com/huangsam/qualityscore/schema"
)

// ReportOrder is the canonical tool order for loaded and collected reports.
var ReportOrder = []schema.Tool{
	schema.ESLintTool, schema.ClocTool, schema.JSCPDTool, schema.RuffTool, schema.RadonTool, schema.PMDTool,
}

// AggregateInput is one report set plus the scoring context.
type AggregateInput struct {
	Reports     schema.Reports
	ProjectName string
	Root        string // issue and duplication paths are made relative to it
	Weights     schema.WeightOverrides
	UserWeights bool
	Now         time.Time
}

// Aggregation is the scored and normalized view of one report set.
type Aggregation struct {
	Scores            *schema.Scores            `json:"scores"`
	Explanation       []schema.QualityReason    `json:"explanation"`
	QualityDetail     schema.QualityDetail      `json:"qualityDetail"`
	Issues            []schema.Issue            `json:"issues"`
	DuplicationBlocks []schema.DuplicationBlock `json:"duplicationBlocks"`
}

// AggregateReports scores a report set and normalizes its findings.
// A nil catalog uses the built-in rule tables.
func AggregateReports(in AggregateInput, catalog *normalize.Catalog, logger *slog.Logger) *Aggregation {
	scores := scoring.NewEngine(logger).Compute(scoring.Input{
		Reports:     in.Reports,
		ProjectName: in.ProjectName,
		Weights:     in.Weights,
		UserWeights: in.UserWeights,
		Overrides:   scoring.OverridesFromReports(in.Reports),
		Now:         in.Now,
	})
	n := normalize.New(catalog, in.Root)
	return &Aggregation{
		Scores:            scores,
		Explanation:       scoring.Explain(scores.Meta),
		QualityDetail:     scoring.Detail(scores.Meta),
		Issues:            n.Issues(in.Reports),
		DuplicationBlocks: n.DuplicationBlocks(in.Reports),
	}
}

// LoadReports reads saved tool reports from disk in ReportOrder.
func LoadReports(files map[schema.Tool]string) (schema.Reports, error) {
	var reports schema.Reports
	for _, tool := range ReportOrder {
		path, ok := files[tool]
		if !ok {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s report: %w", tool, err)
		}
		report, err := adapters.ParseReport(tool, data)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
