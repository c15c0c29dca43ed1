// Package errors provides error code constants for classreport.
// Error codes are organized by category for consistent handling and lookup.
package errors

// -----------------------------------------------------------------------------
// Configuration Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = "CONFIG_NOT_FOUND"

	// ErrConfigParseFailed indicates the configuration file could not be parsed.
	// Usually a YAML syntax error or invalid structure.
	ErrConfigParseFailed = "CONFIG_PARSE_FAILED"

	// ErrConfigInvalid indicates configuration values are invalid.
	ErrConfigInvalid = "CONFIG_INVALID"

	// ErrConfigReadFailed indicates the config file could not be read.
	ErrConfigReadFailed = "CONFIG_READ_FAILED"

	// ErrConfigWriteFailed indicates the config file could not be written.
	ErrConfigWriteFailed = "CONFIG_WRITE_FAILED"
)

// -----------------------------------------------------------------------------
// Job Input Error Codes
// -----------------------------------------------------------------------------
// Use these codes when the job directory does not hold what a report needs.

const (
	// ErrJobDirNotFound indicates the job directory does not exist.
	ErrJobDirNotFound = "JOB_DIR_NOT_FOUND"

	// ErrJobManifestNotFound indicates run.job is missing from the job directory.
	ErrJobManifestNotFound = "JOB_MANIFEST_NOT_FOUND"

	// ErrJobClassesMissing indicates run.job has no "Number of classes" line.
	ErrJobClassesMissing = "JOB_CLASSES_MISSING"

	// ErrJobClassesInvalid indicates the class count is not a positive integer.
	ErrJobClassesInvalid = "JOB_CLASSES_INVALID"

	// ErrIterationNoFiles indicates no per-iteration model files matched.
	ErrIterationNoFiles = "ITERATION_NO_FILES"
)

// -----------------------------------------------------------------------------
// STAR Parse Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrStarRowMismatch indicates a data row whose field count differs from
	// the number of declared columns.
	ErrStarRowMismatch = "STAR_ROW_MISMATCH"

	// ErrStarNoColumns indicates a table was found but declared no columns.
	ErrStarNoColumns = "STAR_NO_COLUMNS"
)

// -----------------------------------------------------------------------------
// Validation Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrClassCountMismatch indicates an iteration reported more classes than
	// the job declares.
	ErrClassCountMismatch = "CLASS_COUNT_MISMATCH"

	// ErrValidationInvalidValue indicates a value is invalid.
	ErrValidationInvalidValue = "VALIDATION_INVALID_VALUE"
)

// -----------------------------------------------------------------------------
// I/O Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrIOReadFailed indicates a file read operation failed.
	ErrIOReadFailed = "IO_READ_FAILED"

	// ErrIOWriteFailed indicates a file write operation failed.
	ErrIOWriteFailed = "IO_WRITE_FAILED"

	// ErrIOFileNotFound indicates a file was not found.
	ErrIOFileNotFound = "IO_FILE_NOT_FOUND"
)

// -----------------------------------------------------------------------------
// Internal Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrInternalError indicates an unexpected internal error.
	ErrInternalError = "INTERNAL_ERROR"

	// ErrInternalDisplay indicates the interactive viewer could not run.
	ErrInternalDisplay = "INTERNAL_DISPLAY"
)
