// Package cmd defines the command-line interface for qualityscore.
package cmd

import (
	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(weightsCmd)
	rootCmd.AddCommand(analysisCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the weights subcommands to the parent weights command
	weightsCmd.AddCommand(weightsShowCmd)
	weightsCmd.AddCommand(weightsSetCmd)

	// Add the analysis subcommands to the parent analysis command
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisListCmd)
	analysisCmd.AddCommand(analysisShowCmd)
	analysisCmd.AddCommand(analysisDeleteCmd)
	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)
	analysisCmd.AddCommand(analysisDedupeCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("owner", contract.DefaultOwner, "Owner that analyses, projects and weights belong to")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored grades in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level for advisories: debug or info or warn or error")
	rootCmd.PersistentFlags().String("backend", string(schema.SQLiteBackend), "Storage backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string (SQLite file path, or e.g. user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Int("issue-limit", contract.DefaultIssueLimit, "Number of issues to display in text output")
	rootCmd.PersistentFlags().String("project", "", "Project name (defaults to the directory name)")
	rootCmd.PersistentFlags().String("project-id", "", "Existing project identifier")
	rootCmd.PersistentFlags().String("weights-override", "", "Criterion weights (format: 'style:0.4,complexity:0.2,duplication:0.2,comment:0.2')")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of analyzeCmd to Viper
	analyzeCmd.Flags().String("label", "", "Version label (defaults to the project name)")
	analyzeCmd.Flags().Int("workers", contract.DefaultWorkers, "Number of adapters run concurrently")
	analyzeCmd.Flags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	analyzeCmd.Flags().String("timeout", "", "Per-tool timeout such as 90s or 5m")
	analyzeCmd.Flags().Int("daily-quota", 0, "Maximum analyses per owner in a rolling 24h window (0 = unlimited)")
	analyzeCmd.Flags().Int("total-quota", 0, "Maximum analyses per owner overall (0 = unlimited)")
	if err := viper.BindPFlags(analyzeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analyze flags", err)
	}

	// Bind all flags of scoreCmd to Viper
	scoreCmd.Flags().String("eslint", "", "Saved ESLint JSON report")
	scoreCmd.Flags().String("cloc", "", "Saved line count report")
	scoreCmd.Flags().String("jscpd", "", "Saved JSCPD JSON report")
	scoreCmd.Flags().String("ruff", "", "Saved Ruff JSON report")
	scoreCmd.Flags().String("radon", "", "Saved Radon cc JSON report")
	scoreCmd.Flags().String("pmd", "", "Saved PMD JSON report")
	if err := viper.BindPFlags(scoreCmd.Flags()); err != nil {
		contract.LogFatal("Error binding score flags", err)
	}

	// Bind all flags of analysisListCmd to Viper
	analysisListCmd.Flags().Int("limit", 20, "Number of analyses to list (0 = all)")
	if err := viper.BindPFlags(analysisListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis list flags", err)
	}

	// Bind all flags of analysisMigrateCmd to Viper
	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}

	// initCmd flags stay local; they are not configuration.
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	initCmd.Flags().String("file", ".qualityscore.yaml", "Path of the config file to write")
}
