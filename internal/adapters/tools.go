package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/schema"
)

// PMDRuleset is the ruleset PMD runs with; it includes CyclomaticComplexity.
const PMDRuleset = "category/java/quickstart.xml"

// jscpdReportName is the file jscpd's json reporter writes.
const jscpdReportName = "jscpd-report.json"

// ESLintAdapter lints JavaScript and TypeScript sources.
type ESLintAdapter struct {
	runner contract.CommandRunner
}

// Tool implements the Adapter interface.
func (a *ESLintAdapter) Tool() schema.Tool { return schema.ESLintTool }

// Applies implements the Adapter interface.
func (a *ESLintAdapter) Applies(langs []schema.Language) bool {
	return slices.Contains(langs, schema.JavaScript)
}

// Run implements the Adapter interface.
func (a *ESLintAdapter) Run(ctx context.Context, dir string) (schema.Report, error) {
	return runTool(ctx, a.runner, schema.ESLintTool, dir,
		"npx", "--no-install", "eslint", ".", "--format", "json", "--no-error-on-unmatched-pattern")
}

// JSCPDAdapter detects copy-paste across all sources.
type JSCPDAdapter struct {
	runner contract.CommandRunner
}

// Tool implements the Adapter interface.
func (a *JSCPDAdapter) Tool() schema.Tool { return schema.JSCPDTool }

// Applies implements the Adapter interface.
func (a *JSCPDAdapter) Applies([]schema.Language) bool { return true }

// Run implements the Adapter interface.
// The report file is written to a private temp dir so the analyzed tree stays
// untouched. The file wins over stdout; when neither parses the run fails only
// if the tool also exited non-zero.
func (a *JSCPDAdapter) Run(ctx context.Context, dir string) (schema.Report, error) {
	outDir, err := os.MkdirTemp("", "qualityscore-jscpd-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create jscpd output dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(outDir) }()

	stdout, runErr := a.runner.Run(ctx, dir, "npx", "--no-install", "jscpd", dir,
		"--reporters", "json",
		"--output", outDir,
		"--silent",
		"--min-lines", "2",
		"--min-tokens", "20",
		"--threshold", "0",
	)

	if data, err := os.ReadFile(filepath.Join(outDir, jscpdReportName)); err == nil {
		if report, err := ParseReport(schema.JSCPDTool, data); err == nil {
			return report, nil
		}
	}
	if report, err := ParseReport(schema.JSCPDTool, stdout); err == nil {
		return report, nil
	}
	if runErr != nil {
		return nil, runErr
	}
	return EmptyReport(schema.JSCPDTool)
}

// RuffAdapter lints Python sources.
type RuffAdapter struct {
	runner contract.CommandRunner
}

// Tool implements the Adapter interface.
func (a *RuffAdapter) Tool() schema.Tool { return schema.RuffTool }

// Applies implements the Adapter interface.
func (a *RuffAdapter) Applies(langs []schema.Language) bool {
	return slices.Contains(langs, schema.Python)
}

// Run implements the Adapter interface.
func (a *RuffAdapter) Run(ctx context.Context, dir string) (schema.Report, error) {
	return runTool(ctx, a.runner, schema.RuffTool, dir,
		"python", "-m", "ruff", "check", dir, "--output-format", "json")
}

// RadonAdapter measures Python cyclomatic complexity.
type RadonAdapter struct {
	runner contract.CommandRunner
}

// Tool implements the Adapter interface.
func (a *RadonAdapter) Tool() schema.Tool { return schema.RadonTool }

// Applies implements the Adapter interface.
func (a *RadonAdapter) Applies(langs []schema.Language) bool {
	return slices.Contains(langs, schema.Python)
}

// Run implements the Adapter interface.
func (a *RadonAdapter) Run(ctx context.Context, dir string) (schema.Report, error) {
	return runTool(ctx, a.runner, schema.RadonTool, dir, "python", "-m", "radon", "cc", dir, "-j")
}

// PMDAdapter checks Java sources for style and complexity violations.
type PMDAdapter struct {
	runner contract.CommandRunner
}

// Tool implements the Adapter interface.
func (a *PMDAdapter) Tool() schema.Tool { return schema.PMDTool }

// Applies implements the Adapter interface.
func (a *PMDAdapter) Applies(langs []schema.Language) bool {
	return slices.Contains(langs, schema.Java)
}

// Run implements the Adapter interface.
func (a *PMDAdapter) Run(ctx context.Context, dir string) (schema.Report, error) {
	return runTool(ctx, a.runner, schema.PMDTool, dir, "pmd", "check", "-d", dir, "-R", PMDRuleset, "-f", "json")
}
