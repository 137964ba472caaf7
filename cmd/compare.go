package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hartanah/propcompare/internal/model"
)

var (
	comparePrefs     string
	comparePurpose   string
	compareBudgetMin float64
	compareBudgetMax float64
	compareTenure    string
	compareNoSave    bool
)

var compareCmd = &cobra.Command{
	Use:   "compare <listing-url>",
	Short: "Run a full comparison for a listing URL",
	Long:  "Extracts the reference property, searches for comparable listings matching the given preferences, and prints the result with an expert recommendation.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		listingURL := args[0]

		prefs, err := loadComparePrefs()
		if err != nil {
			return err
		}

		engine, err := initEngine()
		if err != nil {
			return err
		}

		if compareNoSave {
			result := engine.Run(ctx, listingURL, prefs)
			return printJSON(result)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.CreateRun(ctx, listingURL)
		if err != nil {
			return eris.Wrap(err, "create run")
		}

		engine.OnStatus = func(status model.RunStatus) {
			if err := st.UpdateRunStatus(ctx, run.ID, status); err != nil {
				zap.L().Warn("update run status failed",
					zap.String("run_id", run.ID),
					zap.Error(err),
				)
			}
		}

		result := engine.Run(ctx, listingURL, prefs)

		if err := st.CompleteRun(ctx, run.ID, &result); err != nil {
			zap.L().Warn("persist run result failed",
				zap.String("run_id", run.ID),
				zap.Error(err),
			)
		}

		zap.L().Info("comparison complete",
			zap.String("run_id", run.ID),
			zap.String("url", listingURL),
			zap.Int("comparables", len(result.Comparables)),
			zap.Bool("reference_degraded", result.Reference.Degraded()),
		)

		return printJSON(result)
	},
}

// loadComparePrefs merges the optional YAML profile with flag overrides.
// Flags win.
func loadComparePrefs() (model.UserPreferences, error) {
	var prefs model.UserPreferences
	if comparePrefs != "" {
		loaded, err := model.LoadPreferences(comparePrefs)
		if err != nil {
			return prefs, err
		}
		prefs = loaded
	}
	if comparePurpose != "" {
		prefs.Purpose = comparePurpose
	}
	if compareBudgetMin > 0 {
		prefs.BudgetRange.Min = compareBudgetMin
	}
	if compareBudgetMax > 0 {
		prefs.BudgetRange.Max = compareBudgetMax
	}
	if compareTenure != "" {
		prefs.Tenure = compareTenure
	}
	return prefs, nil
}

func init() {
	compareCmd.Flags().StringVar(&comparePrefs, "prefs", "", "path to a YAML preferences profile")
	compareCmd.Flags().StringVar(&comparePurpose, "purpose", "", "buying purpose (own stay, investment)")
	compareCmd.Flags().Float64Var(&compareBudgetMin, "budget-min", 0, "minimum budget in MYR")
	compareCmd.Flags().Float64Var(&compareBudgetMax, "budget-max", 0, "maximum budget in MYR")
	compareCmd.Flags().StringVar(&compareTenure, "tenure", "", "preferred tenure (Freehold, Leasehold)")
	compareCmd.Flags().BoolVar(&compareNoSave, "no-save", false, "skip persisting the run to history")
	rootCmd.AddCommand(compareCmd)
}
