// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldConfig    = "config"
	FieldFlavor    = "flavor"
	FieldFormat    = "format"
	FieldJobs      = "jobs"
	FieldSeparator = "separator"

	// Decoration fields.
	FieldKey      = "key"
	FieldLanguage = "language"
	FieldTokens   = "tokens"
	FieldRanges   = "ranges"
	FieldBlocks   = "blocks"
	FieldGrammars = "grammars"
	FieldSource   = "source"
	FieldAliases  = "aliases"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesFailed     = "files_failed"
	FieldRangesTotal     = "ranges_total"

	// Watch fields.
	FieldEvent = "event"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
