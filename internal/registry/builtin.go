package registry

import (
	_ "embed"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kagai-portal/hanamachi/internal/assetpath"
	"github.com/kagai-portal/hanamachi/internal/records"
	"github.com/kagai-portal/hanamachi/internal/tabular"
)

//go:embed builtin_events.yaml
var builtinEventsYAML []byte

type scheduleEntry struct {
	Date   string                `yaml:"date"`
	Events []records.EventRecord `yaml:"events"`
}

// BuiltinEvents loads the embedded schedule. Image paths are resolved for
// the page depth and missing ids are derived from date and title. A date
// listed more than once is merged and reported.
func BuiltinEvents(isSubpage bool, logger *zap.Logger) (*EventIndex, error) {
	return parseSchedule(builtinEventsYAML, isSubpage, logger)
}

func parseSchedule(data []byte, isSubpage bool, logger *zap.Logger) (*EventIndex, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var entries []scheduleEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding schedule: %w", err)
	}

	idx := NewEventIndex()
	for _, entry := range entries {
		y, m, d, ok := tabular.ParseDateKey(entry.Date)
		if !ok {
			logger.Warn("skipping schedule entry with invalid date", zap.String("date", entry.Date))
			continue
		}
		events := make([]records.EventRecord, 0, len(entry.Events))
		for _, ev := range entry.Events {
			if ev.ID == "" {
				ev.ID = tabular.EventID("", ev.Title, y, m, d)
			}
			if ev.Image != nil {
				resolved := assetpath.Resolve(*ev.Image, isSubpage)
				ev.Image = &resolved
			}
			events = append(events, ev)
		}
		merged, dropped := idx.Assign(entry.Date, events)
		if merged {
			logger.Warn("duplicate schedule date merged", zap.String("date", entry.Date))
		}
		for _, id := range dropped {
			logger.Warn("duplicate event id dropped", zap.String("date", entry.Date), zap.String("id", id))
		}
	}
	return idx, nil
}
