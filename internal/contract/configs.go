package contract

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/qualityscore/schema"
)

// Default values for configuration.
const (
	DefaultOwner       = "local"
	DefaultIssueLimit  = 25
	MaxIssueLimit      = 1000
	DefaultToolTimeout = 5 * time.Minute
)

// DefaultWorkers is the default number of adapters run concurrently.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	Path        string // absolute path of the analyzed tree
	Owner       string
	ProjectName string
	ProjectID   string
	Label       string
	Workers     int
	IssueLimit  int
	ToolTimeout time.Duration
	Excludes    []string

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	LogLevel   slog.Level

	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	// Weights are the caller's overrides. UserWeights is true when any were given.
	Weights     schema.WeightOverrides
	UserWeights bool

	// ReportFiles maps a tool to a saved report for offline scoring.
	ReportFiles map[schema.Tool]string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	PathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Owner      string `mapstructure:"owner"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`
	LogLevel   string `mapstructure:"log-level"`
	Backend    string `mapstructure:"backend"`
	DBConnect  string `mapstructure:"db-connect"`
	IssueLimit int    `mapstructure:"issue-limit"`

	// --- Fields from analyzeCmd.Flags() ---
	Project   string `mapstructure:"project"`
	ProjectID string `mapstructure:"project-id"`
	Label     string `mapstructure:"label"`
	Workers   int    `mapstructure:"workers"`
	Exclude   string `mapstructure:"exclude"`
	Timeout   string `mapstructure:"timeout"`

	// --- Fields from scoreCmd.Flags() ---
	ESLintFile string `mapstructure:"eslint"`
	ClocFile   string `mapstructure:"cloc"`
	JSCPDFile  string `mapstructure:"jscpd"`
	RuffFile   string `mapstructure:"ruff"`
	RadonFile  string `mapstructure:"radon"`
	PMDFile    string `mapstructure:"pmd"`

	// --- Weights from flag (style:0.5,comment:0.1) and config file ---
	WeightsStr string                 `mapstructure:"weights-override"`
	Weights    schema.WeightOverrides `mapstructure:"weights"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processWeights(cfg, input); err != nil {
		return err
	}
	if err := processReportFiles(cfg, input); err != nil {
		return err
	}
	return resolveTargetPath(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseLogLevel maps debug, info, warn or error to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", s)
	}
	return level, nil
}

// ParseWeightsString parses a string like "style:0.4,comment:0.1" into weight overrides.
func ParseWeightsString(s string) (schema.WeightOverrides, error) {
	var out schema.WeightOverrides
	if strings.TrimSpace(s) == "" {
		return out, nil
	}

	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			return out, fmt.Errorf("invalid weight entry '%s'. expected criterion:value", part)
		}
		criterion := schema.Criterion(strings.ToLower(strings.TrimSpace(key)))
		if !isCriterion(criterion) {
			return out, fmt.Errorf("unknown criterion '%s'. must be style, complexity, duplication, comment", key)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return out, fmt.Errorf("invalid weight for %s: %w", criterion, err)
		}
		out.Set(criterion, w)
	}
	return out, nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Label = strings.TrimSpace(input.Label)
	cfg.ProjectName = strings.TrimSpace(input.Project)
	cfg.ProjectID = strings.TrimSpace(input.ProjectID)

	cfg.Owner = strings.TrimSpace(input.Owner)
	if cfg.Owner == "" {
		cfg.Owner = DefaultOwner
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	level, err := ParseLogLevel(input.LogLevel)
	if err != nil {
		return err
	}
	cfg.LogLevel = level

	if input.IssueLimit <= 0 || input.IssueLimit > MaxIssueLimit {
		return fmt.Errorf("issue-limit must be greater than 0 and cannot exceed %d (received %d)", MaxIssueLimit, input.IssueLimit)
	}
	cfg.IssueLimit = input.IssueLimit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	cfg.ToolTimeout = DefaultToolTimeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid timeout '%s'. must be a positive duration like 90s or 5m", input.Timeout)
		}
		cfg.ToolTimeout = d
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	cfg.Excludes = append([]string{}, DefaultIgnores...)
	for p := range strings.SplitSeq(input.Exclude, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			cfg.Excludes = append(cfg.Excludes, trimmed)
		}
	}
	return nil
}

// validateBackendConfigs validates the storage backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.Backend = schema.DatabaseBackend(strings.ToLower(input.Backend))
	if cfg.Backend == "" {
		cfg.Backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.Backend]; !ok {
		return fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", input.Backend)
	}
	cfg.DBConnect = input.DBConnect
	return ValidateDatabaseConnectionString(cfg.Backend, cfg.DBConnect)
}

// processWeights merges config-file weights with the flag string. Flag entries win.
// Values are kept as given; negative or non-finite entries fall back to their
// default when the weights are resolved.
func processWeights(cfg *Config, input *ConfigRawInput) error {
	cfg.Weights = input.Weights
	fromFlag, err := ParseWeightsString(input.WeightsStr)
	if err != nil {
		return err
	}
	for _, c := range schema.AllCriteria {
		if v := fromFlag.Get(c); v != nil {
			cfg.Weights.Set(c, *v)
		}
	}
	cfg.UserWeights = !cfg.Weights.IsEmpty()
	return nil
}

// processReportFiles collects saved report paths and checks they exist.
func processReportFiles(cfg *Config, input *ConfigRawInput) error {
	candidates := map[schema.Tool]string{
		schema.ESLintTool: input.ESLintFile,
		schema.ClocTool:   input.ClocFile,
		schema.JSCPDTool:  input.JSCPDFile,
		schema.RuffTool:   input.RuffFile,
		schema.RadonTool:  input.RadonFile,
		schema.PMDTool:    input.PMDFile,
	}
	cfg.ReportFiles = make(map[schema.Tool]string)
	for tool, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%s report %q is not readable: %w", tool, path, err)
		}
		cfg.ReportFiles[tool] = path
	}
	return nil
}

// resolveTargetPath resolves the analyzed directory and a default project name.
func resolveTargetPath(cfg *Config, input *ConfigRawInput) error {
	if input.PathStr == "" {
		return nil
	}
	abs, err := filepath.Abs(input.PathStr)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", input.PathStr, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", input.PathStr)
	}
	cfg.Path = filepath.Clean(abs)
	if cfg.ProjectName == "" {
		cfg.ProjectName = filepath.Base(cfg.Path)
	}
	return nil
}

func isCriterion(c schema.Criterion) bool {
	for _, known := range schema.AllCriteria {
		if c == known {
			return true
		}
	}
	return false
}
