package cli

import (
	"github.com/spf13/cobra"

	"quyca-monitor/internal/app"
)

var showSeed int64

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display a generated 24-hour OHLC series",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Show(cmd.Context(), app.ShowOptions{Seed: showSeed})
	},
}

func init() {
	showCmd.Flags().Int64Var(&showSeed, "seed", 0, "Random seed (defaults to simulation.seed)")
}
