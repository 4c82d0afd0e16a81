package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/oak/internal/configloader"
	"github.com/yaklabco/oak/pkg/fsutil"
	"github.com/yaklabco/oak/pkg/text"
)

// Exit codes for oak.
const (
	// ExitSuccess indicates successful execution with no diagnostics.
	ExitSuccess = 0

	// ExitDiagnostics indicates the input was processed but produced diagnostics.
	ExitDiagnostics = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrDiagnosticsFound is returned when a command reports diagnostics.
var ErrDiagnosticsFound = errors.New("diagnostics found")

// UsageError marks an error caused by invalid arguments or flags.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &UsageError{Err: err}
}

// ConfigError marks an error raised while loading configuration.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "load configuration: " + e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		usageErr    *UsageError
		configErr   *ConfigError
		validation  *configloader.ValidationError
		editInvalid *text.ValidationError
		editClash   *text.ConflictError
		pathErr     *fs.PathError
	)

	switch {
	case errors.Is(err, ErrDiagnosticsFound):
		return ExitDiagnostics
	case errors.As(err, &usageErr), errors.As(err, &editInvalid), errors.As(err, &editClash):
		return ExitInvalidUsage
	case errors.As(err, &configErr), errors.As(err, &validation):
		return ExitConfigError
	case errors.As(err, &pathErr), errors.Is(err, fsutil.ErrIsDirectory), errors.Is(err, fsutil.ErrModified):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// ExitCodeFromDiagnostics returns ExitDiagnostics when count is positive.
func ExitCodeFromDiagnostics(count int) int {
	if count > 0 {
		return ExitDiagnostics
	}
	return ExitSuccess
}
