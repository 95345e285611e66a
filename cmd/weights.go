package cmd

import (
	"errors"

	"github.com/huangsam/qualityscore/core/scoring"
	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/internal/outwriter"
	"github.com/huangsam/qualityscore/schema"
	"github.com/spf13/cobra"
)

// weightsCmd manages the saved criterion weights of an owner.
var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Show or save the criterion weights used for scoring",
	Long: `Manage the per-owner weights that style, complexity, duplication and
comment scores are combined with. Saved weights apply to every later analysis
of the owner; --weights-override on analyze still wins per run.`,
}

// weightsShowCmd prints the effective weights.
var weightsShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Print the saved weights, or the defaults when none are saved",
	PreRunE: storeSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		weights, saved, err := store.GetWeights(cmd.Context(), cfg.Owner)
		if err != nil {
			contract.LogWarn("Failed to load saved weights, using defaults", err)
			weights, saved = schema.DefaultWeights(), false
		}
		if !saved {
			weights = schema.DefaultWeights()
		}
		if err := outwriter.NewOutWriter().WriteWeights(cfg.Owner, weights, saved, cfg); err != nil {
			contract.LogFatal("Error writing weights", err)
		}
	},
}

// weightsSetCmd resolves and saves weights.
var weightsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Resolve and save weights for the owner",
	Long: `Resolve the given weights against the defaults so that they sum to 1.0 and
save the result.

Examples:
  qualityscore weights set --weights-override style:2,complexity:1,duplication:1,comment:0`,
	PreRunE: storeSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		if !cfg.UserWeights {
			contract.LogFatal("Nothing to save", errors.New("--weights-override or a weights block in the config file is required"))
		}
		resolved := scoring.ResolveWeights(cfg.Weights, logger)
		if err := store.SaveWeights(cmd.Context(), cfg.Owner, resolved); err != nil {
			contract.LogFatal("Failed to save weights", err)
		}
		if err := outwriter.NewOutWriter().WriteWeights(cfg.Owner, resolved, true, cfg); err != nil {
			contract.LogFatal("Error writing weights", err)
		}
	},
}
