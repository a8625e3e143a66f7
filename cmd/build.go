package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kagai-portal/hanamachi/internal/config"
	"github.com/kagai-portal/hanamachi/internal/progress"
	"github.com/kagai-portal/hanamachi/internal/site"
)

var (
	buildOutput   string
	buildMonth    string
	buildBasePath string
	buildQuiet    bool
	buildVerify   bool
	buildRemote   string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the portal site into the output directory",
	Long: `Injects the shared header and footer into every page, pre-renders the
district map and event calendar, converts markdown columns, copies
assets and writes the JSON data caches and sitemap.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output directory (overrides config)")
	buildCmd.Flags().StringVar(&buildMonth, "month", "", "calendar month to pre-render (YYYY-MM)")
	buildCmd.Flags().StringVar(&buildBasePath, "base-path", "", "URL base path (overrides config and environment)")
	buildCmd.Flags().BoolVarP(&buildQuiet, "quiet", "q", false, "suppress the progress bar")
	buildCmd.Flags().BoolVar(&buildVerify, "verify", false, "verify the built pages afterwards")
	buildCmd.Flags().StringVar(&buildRemote, "remote", "", "base URL to fetch data documents from")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyBuildFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := buildSite(ctx, cfg, buildRemote, buildQuiet, logger)
	printBuildResult(cfg, res)
	if err != nil {
		return err
	}

	if buildVerify {
		return verifyOutput(cfg.OutputDir)
	}
	return nil
}

func applyBuildFlags(cfg *config.Config) {
	if buildOutput != "" {
		cfg.OutputDir = buildOutput
	}
	if buildMonth != "" {
		cfg.Calendar.Month = buildMonth
	}
	if buildBasePath != "" {
		cfg.Site.BasePath = buildBasePath
	}
}

// buildSite runs one generator pass with the registries behind the chosen
// data source.
func buildSite(ctx context.Context, cfg *config.Config, remote string, quiet bool, logger *zap.Logger) (site.Result, error) {
	src, err := newSource(cfg, remote)
	if err != nil {
		return site.Result{}, err
	}
	gen, err := site.NewGenerator(cfg, logger,
		site.WithReporter(progress.NewReporter(quiet || verbose)),
		site.WithRegistries(site.NewRegistries(cfg, src, logger)),
	)
	if err != nil {
		return site.Result{}, err
	}
	return gen.Generate(ctx)
}

func printBuildResult(cfg *config.Config, res site.Result) {
	if len(res.Pages) == 0 && len(res.Failed) == 0 {
		return
	}
	fmt.Printf("\nBuild summary:\n")
	fmt.Printf("  Pages built:    %d\n", len(res.Pages))
	fmt.Printf("  Assets copied:  %d\n", res.Assets)
	for _, d := range res.Data {
		fmt.Printf("  Data written:   %s\n", d)
	}
	fmt.Printf("  Output:         %s\n", cfg.OutputDir)
	if len(res.Failed) > 0 {
		fmt.Printf("\nFailed pages (%d):\n", len(res.Failed))
		for _, f := range res.Failed {
			fmt.Printf("  %s: %v\n", f.Path, f.Err)
		}
	}
}
