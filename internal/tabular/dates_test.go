package tabular

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		cell any
		want string
		ok   bool
	}{
		{"native", time.Date(2025, 4, 18, 0, 0, 0, 0, time.Local), "2025-4-18", true},
		{"serial float", 45765.0, "2025-4-18", true},
		{"serial string", "45765", "2025-4-18", true},
		{"serial with time fraction", "45765.75", "2025-4-18", true},
		{"slashes", "2025/4/18", "2025-4-18", true},
		{"padded dashes", "2025-04-18", "2025-4-18", true},
		{"kanji", "2025年4月18日", "2025-4-18", true},
		{"full width", "２０２５／４／１８", "2025-4-18", true},
		{"weekday suffix", "2025/4/18(金)", "2025-4-18", true},
		{"weekday and time", "2025/4/18（金） 19:00", "2025-4-18", true},
		{"rfc3339", "2025-04-18T10:00:00+09:00", "2025-4-18", true},
		{"english", "April 18, 2025", "2025-4-18", true},
		{"empty", "", "", false},
		{"nil", nil, "", false},
		{"garbage", "未定", "", false},
		{"serial out of range", "20250418", "", false},
		{"negative serial", -5.0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.cell)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, DateKey(got))
			}
		})
	}
}

func TestParseDateKey(t *testing.T) {
	y, m, d, ok := ParseDateKey("2025-7-6")
	require.True(t, ok)
	assert.Equal(t, []int{2025, 7, 6}, []int{y, m, d})

	for _, bad := range []string{"", "2025-07", "2025-13-1", "2025-1-0", "a-b-c"} {
		_, _, _, ok := ParseDateKey(bad)
		assert.False(t, ok, bad)
	}
}
