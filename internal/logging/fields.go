package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldPaths  = "paths"
	FieldFiles  = "files"
	FieldConfig = "config"

	// Editing fields.
	FieldKey        = "key"
	FieldRow        = "row"
	FieldColumn     = "column"
	FieldRows       = "rows"
	FieldLongestRow = "longest_row"
	FieldEdits      = "edits"
	FieldNewline    = "newline"
	FieldLanguage   = "language"

	// Save fields.
	FieldBytes  = "bytes"
	FieldWrites = "writes"
	FieldJobs   = "jobs"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
