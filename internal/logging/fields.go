package logging

// Structured logging keys. Keep them snake_case so JSON log sinks agree.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Run settings.
	FieldRunID   = "run_id"
	FieldDialect = "dialect"
	FieldIndent  = "indent"
	FieldWrite   = "write"
	FieldCheck   = "check"
	FieldDryRun  = "dry_run"
	FieldJobs    = "jobs"

	// Per-file outcome.
	FieldChanged = "changed"
	FieldCached  = "cached"
	FieldBackup  = "backup"
	FieldReason  = "reason"
	FieldBlocks  = "blocks"

	// Run totals.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesChanged    = "files_changed"
	FieldFilesWritten    = "files_written"
	FieldFilesFailed     = "files_failed"
	FieldDuration        = "duration"

	// Build metadata.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
