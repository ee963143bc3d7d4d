package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var alertsLimit int

var classifyCmd = &cobra.Command{
	Use:   "classify TEMP...",
	Short: "Classify temperatures under the reading and chart tables",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		temps := make([]float64, len(args))
		for i, arg := range args {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return fmt.Errorf("invalid temperature %q: %w", arg, err)
			}
			temps[i] = v
		}
		return getApp().Classify(temps)
	},
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Display the alert history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if alertsLimit <= 0 {
			return fmt.Errorf("--limit must be greater than zero")
		}
		return getApp().Alerts(cmd.Context(), alertsLimit)
	},
}

var manualCmd = &cobra.Command{
	Use:   "manual",
	Short: "Print the safety manual",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Manual()
	},
}

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Print emergency contacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Contacts()
	},
}

func init() {
	alertsCmd.Flags().IntVar(&alertsLimit, "limit", 20, "Number of alerts to display")
}
