package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// ErrUnsupportedFormat is returned for file types with no reader.
var ErrUnsupportedFormat = errors.New("unsupported tabular format")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile parses the first sheet of a spreadsheet into header-keyed rows,
// choosing the reader from the file extension.
func ReadFile(name string, data []byte) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(bytes.NewReader(data))
	case ".csv":
		return ReadCSV(data)
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
}

// ReadXLSX reads the first worksheet. Cells keep their raw values so date
// cells surface as serial numbers.
func ReadXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	grid, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	return rowsFromGrid(grid), nil
}

// ReadCSV reads comma-separated data. Shift_JIS input, common for files
// exported from Japanese spreadsheet software, is detected and decoded.
func ReadCSV(data []byte) ([]Row, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("decoding shift_jis: %w", err)
		}
		data = decoded
	}
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	grid, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	return rowsFromGrid(grid), nil
}

// rowsFromGrid keys every row by the header row. Missing cells default to
// the empty string and blank rows are dropped.
func rowsFromGrid(grid [][]string) []Row {
	if len(grid) == 0 {
		return nil
	}
	header := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		row := make(Row, len(header))
		blank := true
		for i, key := range header {
			if key == "" {
				continue
			}
			v := ""
			if i < len(cells) {
				v = cells[i]
			}
			if strings.TrimSpace(v) != "" {
				blank = false
			} else if _, seen := row[key]; seen {
				continue
			}
			row[key] = v
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows
}
