package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"quyca-monitor/internal/app"
)

var (
	simulateTicks int
	simulateSeed  int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run refresh ticks on a fake clock and print the readings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulateTicks <= 0 {
			return errors.New("--ticks must be greater than zero")
		}
		return getApp().Simulate(cmd.Context(), app.SimulateOptions{Ticks: simulateTicks, Seed: simulateSeed})
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simulateTicks, "ticks", 20, "Number of ticks to run")
	simulateCmd.Flags().Int64Var(&simulateSeed, "seed", 0, "Random seed (defaults to simulation.seed)")
}
