package cli

import (
	"github.com/spf13/cobra"

	"quyca-monitor/internal/app"
)

var dashboardServe bool

var dashboardCmd = &cobra.Command{
	Use:         "dashboard",
	Short:       "Open the live terminal dashboard",
	Annotations: map[string]string{tuiAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Dashboard(cmd.Context(), app.DashboardOptions{Serve: dashboardServe})
	},
}

func init() {
	dashboardCmd.Flags().BoolVar(&dashboardServe, "serve", false, "Also serve the HTTP API while the dashboard is open")
}
