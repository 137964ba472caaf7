package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract <listing-url>",
	Short: "Extract a property record from a listing URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		engine, err := initEngine()
		if err != nil {
			return err
		}

		record := engine.ExtractProperty(ctx, args[0])
		if record.Degraded() {
			zap.L().Warn("extraction degraded",
				zap.String("url", args[0]),
				zap.String("error", record.Error),
			)
		} else {
			zap.L().Info("extraction complete",
				zap.String("url", args[0]),
				zap.String("title", record.Title),
			)
		}

		return printJSON(record)
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
