package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"quyca-monitor/internal/app"
	"quyca-monitor/internal/config"
	"quyca-monitor/internal/logging"
)

// tuiAnnotation marks commands that own the terminal.
const tuiAnnotation = "tui"

var (
	cfgFile   string
	logLevel  string
	appHandle *app.App
	closeLog  func() error
)

var rootCmd = &cobra.Command{
	Use:           "quyca",
	Short:         "QUYCA fire-risk temperature monitor",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if appHandle != nil {
			return nil
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if _, ok := cmd.Annotations[tuiAnnotation]; ok && writesToTerminal(cfg.Logging.Output) {
			cfg.Logging.Output = "discard"
		}

		logger, closer, err := logging.NewLogger(cfg.Logging)
		if err != nil {
			return err
		}
		closeLog = closer
		appHandle = app.NewApp(cfg, logger)
		appHandle.Out = cmd.OutOrStdout()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeLog == nil {
			return nil
		}
		return closeLog()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level defined in config")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(manualCmd)
	rootCmd.AddCommand(contactsCmd)
	rootCmd.AddCommand(versionCmd)
}

func writesToTerminal(output string) bool {
	switch strings.ToLower(output) {
	case "", "stdout", "stderr":
		return true
	}
	return false
}

func getApp() *app.App {
	if appHandle == nil {
		panic("application not initialized; PersistentPreRunE not executed")
	}
	return appHandle
}
