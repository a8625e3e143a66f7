package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kagai-portal/hanamachi/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize hanamachi configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the portal build and writes hanamachi.yml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
