package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/schema"
)

// writeWithFile opens the configured destination, runs the writer against it
// and reports where non-stdout output went.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON encodes data with two-space indentation.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes a header row followed by whatever writeRows emits.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	return writeRows(csvWriter)
}

// fmtWeight renders a weight with two decimals.
func fmtWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// gradeLabel colors a grade unless colors are disabled.
func gradeLabel(cfg *contract.Config, grade schema.Grade) string {
	if cfg.UseColors {
		return contract.GetColorGrade(grade)
	}
	return string(grade)
}

// scoreLabel colors an overall score unless colors are disabled.
func scoreLabel(cfg *contract.Config, overall int, grade schema.Grade) string {
	if cfg.UseColors {
		return contract.GetColorScore(overall, grade)
	}
	return strconv.Itoa(overall)
}
