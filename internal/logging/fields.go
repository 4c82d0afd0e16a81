package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"
	FieldFiles      = "files"
	FieldJobs       = "jobs"

	// Language fields.
	FieldLanguage = "language"
	FieldDetected = "detected_by"

	// Parse fields.
	FieldTokens      = "tokens"
	FieldNodes       = "nodes"
	FieldDiagnostics = "diagnostics"
	FieldEdits       = "edits"
	FieldDirty       = "dirty"

	// Reuse statistics.
	FieldTokensReused  = "tokens_reused"
	FieldTokensRelexed = "tokens_relexed"
	FieldNodesReused   = "nodes_reused"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
