package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kagai-portal/hanamachi/internal/mapview"
	"github.com/kagai-portal/hanamachi/internal/records"
	"github.com/kagai-portal/hanamachi/internal/site"
	"github.com/kagai-portal/hanamachi/internal/tabular"
)

var (
	inspectRegion string
	inspectDate   string
	inspectRemote string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List the districts or events the build would render",
	Long: `Loads the registry data the same way the build does and prints it.
Use --region to list the districts of one map region, or --date
(YYYY-M-D, zero padding optional) to list the events on a day. Without flags a per-region
and per-date summary is printed.`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectRegion, "region", "", "region key (tokyo, kyoto, ...)")
	inspectCmd.Flags().StringVar(&inspectDate, "date", "", "date key (YYYY-MM-DD)")
	inspectCmd.Flags().StringVar(&inspectRemote, "remote", "", "base URL to fetch data documents from")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	defer logger.Sync() //nolint:errcheck

	src, err := newSource(cfg, inspectRemote)
	if err != nil {
		return err
	}
	reg := site.NewRegistries(cfg, src, logger).Root

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	switch {
	case inspectRegion != "":
		region, err := records.ParseRegion(inspectRegion)
		if err != nil {
			return err
		}
		places := reg.Places(ctx, region)
		fmt.Printf("%s (%d)\n", mapview.RegionLabel(region), len(places))
		for _, p := range places {
			fmt.Printf("  %-24s %s  %s\n", p.ID, p.Name, p.Area)
		}
		return nil

	case inspectDate != "":
		y, m, d, ok := tabular.ParseDateKey(inspectDate)
		if !ok {
			return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", inspectDate)
		}
		key := tabular.DateKey(time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local))
		events := reg.EventsForDate(ctx, key)
		fmt.Printf("%d年%d月%d日 (%d)\n", y, m, d, len(events))
		for _, ev := range events {
			fmt.Printf("  [%s] %s  %s  %s\n", ev.Type, ev.Title, ev.Time, ev.Location)
		}
		return nil
	}

	places := reg.AllPlaces(ctx)
	fmt.Printf("Districts: %d\n", len(places))
	counts := make(map[records.Region]int)
	for _, p := range places {
		counts[p.RegionKey]++
	}
	for _, region := range allRegions() {
		if counts[region] > 0 {
			fmt.Printf("  %-10s %d\n", region, counts[region])
		}
	}

	idx := reg.Events(ctx)
	fmt.Printf("\nEvents: %d\n", idx.Len())
	for _, key := range idx.Keys() {
		fmt.Printf("  %s  %d\n", key, len(idx.ForDate(key)))
	}
	return nil
}
