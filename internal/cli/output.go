package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/microresearch/svgo/internal/asset"
	"github.com/microresearch/svgo/internal/catalog"
	"github.com/microresearch/svgo/internal/config"
	"github.com/microresearch/svgo/internal/custom"
	"github.com/microresearch/svgo/internal/preset"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Icon not loaded or scenarios failed
	ExitCommandError = 2 // Catalog unavailable, invalid input, bad paths
)

// Error codes carried in CLIError.Code.
const (
	ErrCodeGeneric     = "E001" // Unclassified failure
	ErrCodeCatalog     = "E002" // Catalog could not be loaded
	ErrCodeConfig      = "E003" // Invalid settings, preset or customization
	ErrCodeNotFound    = "E004" // Icon not in catalog or not fetchable
	ErrCodeMalformed   = "E005" // Icon source is not well-formed SVG
	ErrCodeTestFailed  = "E006" // One or more scenarios failed
	ErrCodeWriteFailed = "E007" // Output file could not be written
)

// errorCode classifies a pipeline error by the sentinel it wraps.
func errorCode(err error) string {
	switch {
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		return ErrCodeCatalog
	case errors.Is(err, asset.ErrAssetNotFound):
		return ErrCodeNotFound
	case errors.Is(err, asset.ErrAssetMalformed):
		return ErrCodeMalformed
	case errors.Is(err, custom.ErrConfigInvalid), errors.Is(err, preset.ErrInvalidPreset), errors.Is(err, config.ErrInvalid):
		return ErrCodeConfig
	default:
		return ErrCodeGeneric
	}
}

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int    // ExitFailure or ExitCommandError
	Message string // error code or human-readable message
	Err     error  // optional cause
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error, defaulting to
// ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the JSON envelope written by every command.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // command result
	Error  *CLIError `json:"error,omitempty"` // failure details
}

// CLIError describes a failed command.
type CLIError struct {
	Code    string `json:"code"`              // one of the ErrCode constants
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// OutputFormatter writes command results as JSON envelopes or text.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; defaults to Writer
	Verbose   bool
}

// newFormatter builds the formatter for cmd from the global flags.
func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// JSON reports whether results are written as envelopes.
func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

// Emit writes a successful result. JSON output wraps data in an "ok"
// envelope; text output calls text, or prints data when text is nil.
func (f *OutputFormatter) Emit(data any, text func(w io.Writer)) error {
	if f.JSON() {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	if text == nil {
		_, err := fmt.Fprintln(f.Writer, data)
		return err
	}
	text(f.Writer)
	return nil
}

// Error writes a failure in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.JSON() {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err under the code its sentinel maps to and returns it as
// an ExitError with exitCode.
func (f *OutputFormatter) Fail(exitCode int, err error) error {
	return f.FailAs(errorCode(err), exitCode, err)
}

// FailAs is Fail with an explicit error code.
func (f *OutputFormatter) FailAs(code string, exitCode int, err error) error {
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(exitCode, code, err)
}

// Partial writes a result that also failed, such as a scenario run with
// failures. JSON output carries both data and the error; text output
// calls text. The returned ExitError has ExitFailure.
func (f *OutputFormatter) Partial(data any, code, message string, text func(w io.Writer)) error {
	if f.JSON() {
		if err := f.encode(CLIResponse{
			Status: "error",
			Data:   data,
			Error:  &CLIError{Code: code, Message: message},
		}); err != nil {
			return err
		}
	} else if text != nil {
		text(f.Writer)
	}
	return NewExitError(ExitFailure, message)
}

// VerboseLog writes a diagnostic line when verbose mode is enabled. It
// goes to ErrWriter so JSON output stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
