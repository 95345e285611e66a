// Package adapters runs external analysis tools and turns their output into typed reports.
package adapters

import (
	"bytes"
	"context"
	"fmt"

	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/schema"
)

// Adapter produces one raw report for a source tree.
type Adapter interface {
	Tool() schema.Tool
	// Applies reports whether the adapter is relevant for the detected languages.
	Applies(langs []schema.Language) bool
	Run(ctx context.Context, dir string) (schema.Report, error)
}

// AdapterError records a single adapter failure.
type AdapterError struct {
	Tool schema.Tool
	Err  error
}

// Error implements the error interface
func (e *AdapterError) Error() string {
	return fmt.Sprintf("[%s] %v", e.Tool, e.Err)
}

// Unwrap returns the underlying error
func (e *AdapterError) Unwrap() error {
	return e.Err
}

// DefaultAdapters returns every built-in adapter in report order.
func DefaultAdapters(runner contract.CommandRunner, excludes []string) []Adapter {
	return []Adapter{
		&ESLintAdapter{runner: runner},
		&LineCounter{excludes: excludes},
		&JSCPDAdapter{runner: runner},
		&RuffAdapter{runner: runner},
		&RadonAdapter{runner: runner},
		&PMDAdapter{runner: runner},
	}
}

// runTool executes a tool and parses what it printed. A non-zero exit with
// parsable output counts as success since linters exit 1 on findings; a
// non-zero exit with nothing on stdout is a failure.
func runTool(ctx context.Context, runner contract.CommandRunner, tool schema.Tool, dir, name string, args ...string) (schema.Report, error) {
	out, runErr := runner.Run(ctx, dir, name, args...)
	if len(bytes.TrimSpace(out)) == 0 {
		if runErr != nil {
			return nil, runErr
		}
		return EmptyReport(tool)
	}
	report, err := ParseReport(tool, out)
	if err != nil {
		if runErr != nil {
			return nil, fmt.Errorf("%w (%w)", runErr, err)
		}
		return nil, err
	}
	return report, nil
}

// EmptyReport is the report of a clean run that printed nothing.
func EmptyReport(tool schema.Tool) (schema.Report, error) {
	switch tool {
	case schema.ESLintTool, schema.RuffTool:
		return ParseReport(tool, []byte("[]"))
	default:
		return ParseReport(tool, []byte("{}"))
	}
}
