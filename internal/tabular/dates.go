package tabular

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// maxSerial is the spreadsheet serial for 9999-12-31.
const maxSerial = 2958465

var dateLayouts = []string{
	"2006/1/2",
	"2006-1-2",
	"2006.1.2",
	"2006年1月2日",
	"2006/1/2 15:04",
	"2006/1/2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// weekdaySuffix matches annotations like (金) or （土・祝）.
var weekdaySuffix = regexp.MustCompile(`\s*[(（][^)）]*[)）]\s*`)

// ParseDate interprets a date cell: a native time, a spreadsheet serial
// number, or a human-readable string (full-width digits allowed).
func ParseDate(cell any) (time.Time, bool) {
	switch v := cell.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, !v.IsZero()
	case float64:
		return fromSerial(v)
	case int:
		return fromSerial(float64(v))
	}

	s := strings.TrimSpace(cellString(cell))
	if s == "" {
		return time.Time{}, false
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if t, ok := fromSerial(n); ok {
			return t, true
		}
	}

	s = norm.NFKC.String(s)
	s = strings.TrimSpace(weekdaySuffix.ReplaceAllString(s, " "))
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func fromSerial(serial float64) (time.Time, bool) {
	if serial <= 0 || serial > maxSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DateKey formats the unpadded YYYY-M-D grouping key.
func DateKey(t time.Time) string {
	return strconv.Itoa(t.Year()) + "-" + strconv.Itoa(int(t.Month())) + "-" + strconv.Itoa(t.Day())
}

// ParseDateKey splits an unpadded YYYY-M-D key.
func ParseDateKey(key string) (year, month, day int, ok bool) {
	parts := strings.Split(key, "-")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	var err error
	if year, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if month, err = strconv.Atoi(parts[1]); err != nil || month < 1 || month > 12 {
		return 0, 0, 0, false
	}
	if day, err = strconv.Atoi(parts[2]); err != nil || day < 1 || day > 31 {
		return 0, 0, 0, false
	}
	return year, month, day, true
}
