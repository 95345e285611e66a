package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/internal/datastore"
	"github.com/huangsam/qualityscore/internal/outwriter"
	"github.com/huangsam/qualityscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// analysisCmd focused on saved analysis data management.
//
// Note: clear and migrate validate config without opening the store, so they
// work on a missing or outdated schema.
var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Manage saved analyses, issues and the store schema",
	Long: `Manage the analyses saved by analyze.

Every accepted analysis stores its scores, explanation, duplication blocks and
one row per normalized issue, scoped to an owner.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status        - Show store statistics
  list          - List analyses, newest first
  show          - Print one analysis
  delete        - Delete one analysis and its issues
  clear         - Remove all stored data
  export        - Export analyses and issues to Parquet
  migrate       - Run database schema migrations
  dedupe-issues - Remove duplicate issue rows

Examples:
  # Check store status
  qualityscore analysis status

  # Export for analysis in pandas/DuckDB
  qualityscore analysis export --output-file quality`,
}

// analysisStatusCmd shows store status.
var analysisStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display store statistics and connection details",
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		datastore.PrintStatus(os.Stdout, status)
	},
}

// analysisListCmd lists analyses of the owner.
var analysisListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List saved analyses, newest first",
	PreRunE: storeSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		rows, err := store.ListAnalyses(cmd.Context(), cfg.Owner, cfg.ProjectID, viper.GetInt("limit"))
		if err != nil {
			contract.LogFatal("Failed to list analyses", err)
		}
		if err := outwriter.NewOutWriter().WriteAnalyses(rows, cfg); err != nil {
			contract.LogFatal("Error writing analyses", err)
		}
	},
}

// analysisShowCmd prints one analysis.
var analysisShowCmd = &cobra.Command{
	Use:     "show <analysis-id>",
	Short:   "Print a saved analysis with its scores and issues",
	Args:    cobra.ExactArgs(1),
	PreRunE: storeSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := store.GetAnalysis(cmd.Context(), cfg.Owner, args[0])
		if err != nil {
			contract.LogFatal("Failed to load analysis", err)
		}
		if err := outwriter.NewOutWriter().WriteAnalysis(a, cfg); err != nil {
			contract.LogFatal("Error writing analysis", err)
		}
	},
}

// analysisDeleteCmd deletes one analysis.
var analysisDeleteCmd = &cobra.Command{
	Use:     "delete <analysis-id>",
	Short:   "Delete a saved analysis and its issue rows",
	Args:    cobra.ExactArgs(1),
	PreRunE: storeSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		err := store.DeleteAnalysis(cmd.Context(), cfg.Owner, args[0])
		if errors.Is(err, schema.ErrAnalysisNotFound) {
			contract.LogFatal("Nothing to delete", fmt.Errorf("analysis %s: %w", args[0], err))
		}
		if err != nil {
			contract.LogFatal("Failed to delete analysis", err)
		}
		fmt.Printf("Analysis %s deleted.\n", args[0])
	},
}

// analysisClearCmd clears all stored data.
var analysisClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all saved projects, versions, analyses and settings",
	Long: `Delete all stored data for the configured backend.

For SQLite the database file is removed. For MySQL and PostgreSQL every
qualityscore table and the migration record are dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  qualityscore analysis export --output-file backup
  qualityscore analysis clear`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := datastore.ClearStore(cfg.Backend, sqliteFilePath(), cfg.DBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// analysisExportCmd exports analyses and issues to Parquet files.
var analysisExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved analyses and issues to Parquet",
	Long: `Export the owner's analyses and issues as two Parquet files:
<output-file>.analyses.parquet and <output-file>.issues.parquet.

Requires: --output-file parameter

Examples:
  qualityscore analysis export --output-file quality
  duckdb -c "SELECT grade, count(*) FROM read_parquet('quality.analyses.parquet') GROUP BY grade"`,
	PreRunE: storeSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := datastore.ExportStore(cmd.Context(), store, cfg.Owner, cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export analysis data", err)
		}
	},
}

// analysisMigrateCmd runs database migrations for the store.
var analysisMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions of the store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  qualityscore analysis migrate

  # Rollback to the initial state
  qualityscore analysis migrate --target-version 0`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		connStr := cfg.DBConnect
		if cfg.Backend == schema.SQLiteBackend {
			connStr = sqliteFilePath()
		}
		if err := datastore.MigrateStore(cfg.Backend, connStr, viper.GetInt("target-version"), os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// analysisDedupeCmd removes duplicate issue rows.
var analysisDedupeCmd = &cobra.Command{
	Use:   "dedupe-issues [analysis-id]",
	Short: "Remove duplicate issue rows, keeping the oldest of each",
	Long: `Delete issue rows that repeat the same analysis, tool, file, line, column,
rule and message. The row with the lowest id survives. Without an analysis id
every analysis is processed.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: storeSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		var analysisID string
		if len(args) == 1 {
			analysisID = args[0]
		}
		removed, err := store.DedupeIssues(cmd.Context(), analysisID)
		if err != nil {
			contract.LogFatal("Failed to dedupe issues", err)
		}
		fmt.Printf("Removed %d duplicate issue rows.\n", removed)
	},
}
