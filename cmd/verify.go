package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kagai-portal/hanamachi/internal/site"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [dir]",
	Short: "Check built pages for the shared header and footer",
	Long: `Checks every HTML page under the output directory for exactly one site
header and footer, and reports legacy navigation labels, legacy logo
paths and leftover client-side template loaders.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dir string
		if len(args) == 1 {
			dir = args[0]
		} else {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir = cfg.OutputDir
		}
		return verifyOutput(dir)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func verifyOutput(dir string) error {
	report, err := site.Verify(dir)
	if err != nil {
		return err
	}

	fmt.Printf("\nVerifying %d pages in %s\n\n", len(report.Pages), dir)
	for _, p := range report.Pages {
		if p.OK() {
			fmt.Printf("✅ %s\n", p.Path)
			continue
		}
		fmt.Printf("❌ %s\n", p.Path)
		for _, issue := range p.Issues {
			fmt.Printf("   - %s\n", issue)
		}
	}
	fmt.Printf("\n%d/%d pages passed\n", report.Passed(), len(report.Pages))

	if !report.OK() {
		return fmt.Errorf("%d pages failed verification", len(report.Pages)-report.Passed())
	}
	return nil
}
