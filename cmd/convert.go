package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kagai-portal/hanamachi/internal/registry"
	"github.com/kagai-portal/hanamachi/internal/tabular"
)

var (
	convertOutput string
	convertEvents bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [spreadsheet]",
	Short: "Convert a district or event spreadsheet into its JSON cache",
	Long: `Reads an .xlsx or .csv sheet, normalizes its rows and writes the JSON
document the pages load. Without arguments the configured district
spreadsheet is converted; --events converts the event schedule instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "JSON file to write (defaults to the configured cache)")
	convertCmd.Flags().BoolVar(&convertEvents, "events", false, "convert the event schedule instead of districts")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	input, output := cfg.Data.PlacesTabular, cfg.Data.PlacesJSON
	if convertEvents {
		input, output = cfg.Data.EventsTabular, cfg.Data.EventsJSON
	}
	if len(args) == 1 {
		input = args[0]
	} else {
		input = filepath.Join(cfg.SourceDir, input)
	}
	if convertOutput != "" {
		output = convertOutput
	} else {
		output = filepath.Join(cfg.SourceDir, output)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}
	rows, err := tabular.ReadFile(input, data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", input, err)
	}

	var buf bytes.Buffer
	if convertEvents {
		n, dropped, err := writeEvents(&buf, rows)
		if err != nil {
			return err
		}
		if err := writeConverted(output, buf.Bytes()); err != nil {
			return err
		}
		fmt.Printf("変換完了: %d件のイベント\n", n)
		if dropped > 0 {
			fmt.Printf("重複IDのためスキップ: %d件\n", dropped)
		}
		fmt.Printf("JSONファイルを生成しました: %s\n", output)
		return nil
	}

	places := tabular.Normalizer{}.Places(rows)
	if err := registry.WritePlacesJSON(&buf, places); err != nil {
		return err
	}
	if err := writeConverted(output, buf.Bytes()); err != nil {
		return err
	}

	fmt.Printf("変換完了: %d件のデータ\n", len(places))
	fmt.Printf("JSONファイルを生成しました: %s\n", output)
	fmt.Printf("\n地域別データ数:\n")
	grouped := registry.GroupPlaces(places)
	for _, region := range allRegions() {
		if n := len(grouped[region]); n > 0 {
			fmt.Printf("  %s: %d件\n", region, n)
		}
	}
	return nil
}

// writeEvents indexes the rows the way the calendar page reads them: links
// and images are relative to pages/.
func writeEvents(buf *bytes.Buffer, rows []tabular.Row) (added, dropped int, err error) {
	idx := registry.NewEventIndex()
	for _, ev := range (tabular.Normalizer{IsSubpage: true}).Events(rows) {
		if idx.Add(ev) {
			added++
		} else {
			dropped++
		}
	}
	return added, dropped, idx.WriteJSON(buf)
}

func writeConverted(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
