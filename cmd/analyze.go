package cmd

import (
	"errors"
	"time"

	"github.com/huangsam/qualityscore/core"
	"github.com/huangsam/qualityscore/internal/adapters"
	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/internal/outwriter"
	"github.com/huangsam/qualityscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// analyzeCmd runs every applicable tool over a tree and saves the scored analysis.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a source tree and save a scored version",
	Long: `Run the linters, duplication detector and line counter that match the
languages of a source tree, score the results and save them as a new version
of the project.

A tree with a src/ directory is analyzed from there. Uploading the same source
with the same weights twice, or reusing a version label, is rejected without
running any tool.

Examples:
  # Analyze the current directory
  qualityscore analyze

  # Analyze a checkout as a labelled release with custom weights
  qualityscore analyze ./webapp --label 2.1.0 --weights-override style:0.4,comment:0.1`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: pathSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		runner := contract.NewLocalCommandRunner()
		orch := adapters.NewOrchestrator(adapters.DefaultAdapters(runner, cfg.Excludes), cfg.Workers, cfg.ToolTimeout, logger)
		analyzer := core.NewAnalyzer(store, orch, logger)

		start := time.Now()
		result, err := analyzer.Run(cmd.Context(), core.Request{
			Owner:       cfg.Owner,
			Dir:         cfg.Path,
			ProjectName: cfg.ProjectName,
			ProjectID:   cfg.ProjectID,
			Label:       cfg.Label,
			Weights:     cfg.Weights,
			Excludes:    cfg.Excludes,
			DailyQuota:  viper.GetInt("daily-quota"),
			TotalQuota:  viper.GetInt("total-quota"),
		})
		switch {
		case errors.Is(err, core.ErrLanguageUndetected):
			contract.LogFatal("No supported language found", err)
		case errors.Is(err, core.ErrSourceMismatch):
			contract.LogFatal("Project language does not match the upload", err)
		case err != nil:
			contract.LogFatal("Analysis failed", err)
		}

		ow := outwriter.NewOutWriter()
		if !result.Decision.Accepted() {
			if err := ow.WriteDecision(result.Decision.Code, result.Decision.Reason, cfg); err != nil {
				contract.LogFatal("Error writing decision", err)
			}
			return
		}
		for _, failure := range result.Failures {
			contract.LogWarn("Tool "+string(failure.Tool)+" did not produce a report", failure.Err)
		}
		if err := ow.WriteAnalysis(result.Analysis, cfg); err != nil {
			contract.LogFatal("Error writing analysis", err)
		}
		logger.Info("analysis saved", "analysis_id", result.Analysis.ID, "duration", time.Since(start), "backend", cfg.Backend)
	},
}

// scoreCmd aggregates saved reports offline.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score saved tool reports without running tools or saving anything",
	Long: `Compute scores, the quality explanation and normalized issues from tool
reports saved earlier. Nothing is executed and nothing is stored.

Examples:
  qualityscore score --eslint eslint.json --cloc cloc.json --jscpd jscpd-report.json
  qualityscore score --ruff ruff.json --radon radon.json --output json`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if len(cfg.ReportFiles) == 0 {
			contract.LogFatal("Nothing to score", errors.New("pass at least one of --eslint, --cloc, --jscpd, --ruff, --radon, --pmd"))
		}
		reports, err := core.LoadReports(cfg.ReportFiles)
		if err != nil {
			contract.LogFatal("Failed to load reports", err)
		}

		now := time.Now().UTC()
		agg := core.AggregateReports(core.AggregateInput{
			Reports:     reports,
			ProjectName: cfg.ProjectName,
			Weights:     cfg.Weights,
			UserWeights: cfg.UserWeights,
			Now:         now,
		}, nil, logger)

		analysis := &schema.Analysis{
			ProjectName:       cfg.ProjectName,
			CreatedAt:         now,
			Tools:             reports.Tools(),
			Scores:            agg.Scores,
			Explanation:       agg.Explanation,
			QualityDetail:     &agg.QualityDetail,
			Issues:            agg.Issues,
			DuplicationBlocks: agg.DuplicationBlocks,
		}
		if err := outwriter.NewOutWriter().WriteAnalysis(analysis, cfg); err != nil {
			contract.LogFatal("Error writing scores", err)
		}
	},
}
