package batch

import "github.com/yaklabco/plainedit/pkg/splice"

// FileOutcome is what happened to one task.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Edits are the row/column splices the script produced.
	Edits []splice.Edit

	// Changed is true when the script changed the file's content.
	Changed bool

	// Diff is the row-level diff. It is nil when only row terminators
	// changed.
	Diff *splice.Unified

	// Written is true when the changed content was persisted.
	Written bool

	// Skipped is true for files that cannot be edited as plain text.
	Skipped bool

	// Reason explains a skip.
	Reason string

	// Error is set if the task failed. Nothing is written for failed tasks.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesChanged    int
	FilesWritten    int
	FilesSkipped    int
	FilesErrored    int
	EditsTotal      int
	RowsAdded       int
	RowsRemoved     int
}

// Result is the overall batch result.
type Result struct {
	// Files are ordered like the input tasks.
	Files []FileOutcome

	Stats Stats
}

// HasFailures reports whether any task failed.
func (r *Result) HasFailures() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
		return
	case outcome.Skipped:
		r.Stats.FilesSkipped++
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.EditsTotal += len(outcome.Edits)
	if outcome.Changed {
		r.Stats.FilesChanged++
	}
	if outcome.Diff != nil {
		r.Stats.RowsAdded += outcome.Diff.Additions
		r.Stats.RowsRemoved += outcome.Diff.Deletions
	}
	if outcome.Written {
		r.Stats.FilesWritten++
	}
}
