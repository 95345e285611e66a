package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/internal/datastore"
	"github.com/huangsam/qualityscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// store is the opened data store, nil until a store-backed command has run its setup.
var store contract.DataStore

// logger carries engine advisories to stderr at the configured level.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "qualityscore",
	Short:              "Score source trees for style, complexity, duplication and comments.",
	Long:               `QualityScore runs linters, duplication detectors and line counters over a source tree and turns their reports into one weighted quality score.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".qualityscore") // Name of config file (without extension)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("QUALITYSCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("owner", contract.DefaultOwner)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("issue-limit", contract.DefaultIssueLimit)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("backend", schema.SQLiteBackend)
	viper.SetDefault("db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", "warn")
}

// configSetup unmarshals config and runs validation. A non-empty path selects
// the analyzed directory.
func configSetup(path string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	input.PathStr = path

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	color.NoColor = !cfg.UseColors
	return nil
}

// storeSetup validates config and opens the configured data store.
func storeSetup(path string) error {
	if err := configSetup(path); err != nil {
		return err
	}
	s, err := datastore.NewDataStore(cfg.Backend, cfg.DBConnect)
	if err != nil {
		return fmt.Errorf("failed to initialize %s store: %w", cfg.Backend, err)
	}
	store = s
	return nil
}

// pathSetupWrapper treats the optional positional argument as the analyzed directory.
func pathSetupWrapper(_ *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	return storeSetup(path)
}

// storeSetupWrapper opens the store without resolving a directory.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup("")
}

// configSetupWrapper validates config without touching the store.
func configSetupWrapper(_ *cobra.Command, _ []string) error {
	return configSetup("")
}

// sqliteFilePath is the SQLite file the configured store points at.
func sqliteFilePath() string {
	if cfg.DBConnect != "" {
		return cfg.DBConnect
	}
	return contract.GetDBFilePath()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(rootCtx)
}

// Cleanup closes the data store if a command opened one.
func Cleanup() error {
	if store == nil {
		return nil
	}
	return store.Close()
}
