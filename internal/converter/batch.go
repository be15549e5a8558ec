package converter

import (
	"toonconv/internal/config"
)

// BatchItem is the outcome of converting one file in a batch run.
type BatchItem struct {
	Path   string
	Result *Result
	Err    error
}

// ConvertFiles converts each path in order, continuing past failures so one
// bad file does not sink the rest of the batch. The returned statistics
// cover the whole run.
func ConvertFiles(paths []string, cfg *config.Config) ([]BatchItem, *Statistics) {
	items := make([]BatchItem, 0, len(paths))
	stats := NewStatistics()

	for _, path := range paths {
		res, err := ConvertFile(path, cfg)
		items = append(items, BatchItem{Path: path, Result: res, Err: err})
		if err != nil {
			stats.RecordFailure()
			continue
		}
		stats.Record(res)
	}

	return items, stats
}
