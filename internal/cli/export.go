package cli

import (
	"github.com/spf13/cobra"

	"quyca-monitor/internal/app"
)

var (
	exportPNGPath string
	exportCSVPath string
	exportSeed    int64
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a generated 24-hour series as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Export(cmd.Context(), app.ExportOptions{
			PNGPath: exportPNGPath,
			CSVPath: exportCSVPath,
			Seed:    exportSeed,
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart (falls back to export.png in config or QUYCA_EXPORT_PNG)")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data (falls back to export.csv in config or QUYCA_EXPORT_CSV)")
	exportCmd.Flags().Int64Var(&exportSeed, "seed", 0, "Random seed (defaults to simulation.seed)")
}
