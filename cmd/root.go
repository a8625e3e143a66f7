package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kagai-portal/hanamachi/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "hanamachi",
	Short: "Build tooling for the national geisha-district portal",
	Long: `hanamachi builds the portal site: it injects the shared header and
footer into every page, pre-renders the district map and the event
calendar, converts the district and event spreadsheets into the JSON
caches the pages read, and serves the result for local preview.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
