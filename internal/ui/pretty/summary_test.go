package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/plainedit/internal/ui/pretty"
	"github.com/yaklabco/plainedit/pkg/batch"
)

func TestFormatSummary_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := batch.Stats{
		FilesDiscovered: 10,
		FilesProcessed:  9,
		FilesChanged:    3,
		FilesWritten:    3,
		FilesSkipped:    1,
		EditsTotal:      15,
		RowsAdded:       4,
		RowsRemoved:     2,
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Summary")
	assert.Contains(t, result, "Files discovered:  10")
	assert.Contains(t, result, "Files processed:   9")
	assert.Contains(t, result, "Files changed:     3")
	assert.Contains(t, result, "Files written:     3")
	assert.Contains(t, result, "Files skipped:     1")
	assert.Contains(t, result, "Edits applied:     15")
	assert.Contains(t, result, "Rows added:      4")
	assert.Contains(t, result, "Rows removed:    2")
	assert.Contains(t, result, "Replay completed")
	assert.NotContains(t, result, "Files failed:")
}

func TestFormatSummary_Status(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name     string
		stats    batch.Stats
		expected string
	}{
		{"failed", batch.Stats{FilesErrored: 1}, "Replay failed"},
		{"dry run", batch.Stats{FilesProcessed: 2, FilesChanged: 2}, "Replay completed, changes not written"},
		{"written", batch.Stats{FilesProcessed: 2, FilesChanged: 2, FilesWritten: 2}, "Replay completed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, styles.FormatSummary(tt.stats), tt.expected)
		})
	}
}

func TestFormatSummaryOneLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name     string
		stats    batch.Stats
		expected string
	}{
		{
			name:     "no changes",
			stats:    batch.Stats{FilesProcessed: 5},
			expected: "No changes (5 files processed)\n",
		},
		{
			name:     "no changes single file with skip",
			stats:    batch.Stats{FilesProcessed: 1, FilesSkipped: 2},
			expected: "No changes (1 file processed), 2 skipped\n",
		},
		{
			name: "changes written",
			stats: batch.Stats{
				FilesProcessed: 3, FilesChanged: 1, FilesWritten: 1,
				EditsTotal: 1, RowsAdded: 2, RowsRemoved: 1,
			},
			expected: "1 file changed (+2 -1 rows, 1 edit), 1 written\n",
		},
		{
			name:     "failures",
			stats:    batch.Stats{FilesProcessed: 2, FilesChanged: 2, EditsTotal: 4, FilesErrored: 1},
			expected: "2 files changed (+0 -0 rows, 4 edits), 1 failed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}
