package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// weightsView is the JSON shape of a weights listing.
type weightsView struct {
	Owner   string              `json:"owner"`
	Saved   bool                `json:"saved"`
	Weights schema.WeightVector `json:"weights"`
}

// WriteWeights outputs the effective weights of an owner. Saved reports whether
// they came from stored settings rather than the defaults.
func WriteWeights(owner string, weights schema.WeightVector, saved bool, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, weightsView{Owner: owner, Saved: saved, Weights: weights})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"criterion", "weight", "default"}, func(cw *csv.Writer) error {
				defaults := schema.DefaultWeights()
				for _, c := range schema.AllCriteria {
					if err := cw.Write([]string{string(c), fmtWeight(weights.Get(c)), fmtWeight(defaults.Get(c))}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWeightsTable(w, owner, weights, saved)
		}, "Wrote table")
	}
}

func writeWeightsTable(w io.Writer, owner string, weights schema.WeightVector, saved bool) error {
	source := "defaults"
	if saved {
		source = "saved settings"
	}
	if _, err := fmt.Fprintf(w, "⚖️  Weights for %s (%s)\n", owner, source); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Criterion", "Weight", "Default"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	defaults := schema.DefaultWeights()
	var data [][]string
	for _, c := range schema.AllCriteria {
		data = append(data, []string{string(c), fmtWeight(weights.Get(c)), fmtWeight(defaults.Get(c))})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Sum: %s\n", fmtWeight(weights.Sum()))
	return err
}

// decisionView is the JSON shape of a rejected or failed run.
type decisionView struct {
	Code   schema.DecisionCode `json:"code"`
	Reason string              `json:"reason"`
}

// WriteDecision outputs a non-accepted pipeline outcome.
func WriteDecision(code schema.DecisionCode, reason string, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, decisionView{Code: code, Reason: reason})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"code", "reason"}, func(cw *csv.Writer) error {
				return cw.Write([]string{string(code), reason})
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "⏭️  %s: %s\n", code, reason)
			return err
		}, "Wrote text")
	}
}
