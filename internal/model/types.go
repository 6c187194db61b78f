// Package model defines the domain types for the advent-new CLI.
//
// The types here are transient: a single invocation resolves a Target,
// scaffolds it, registers it in the workspace manifest and fetches its
// puzzle input. Nothing is persisted besides the files that run produces.
package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Target is the resolved output of the argument resolver: the package
// to create and the puzzle day whose input should be downloaded.
type Target struct {
	// Name is used as the directory name, the workspace member identifier,
	// and the value substituted for <name> in the manifest template.
	Name string `json:"name"`

	// Day is the puzzle day. Conceptually 1-25, but the range is not enforced.
	Day int `json:"day"`
}

// String returns "name (day N)" for log and CLI output.
func (t Target) String() string {
	return fmt.Sprintf("%s (day %d)", t.Name, t.Day)
}

// ValidatePackageName checks that name can be used as a single directory
// entry inside the workspace root.
//
// The check is intentionally loose: anything that names exactly one path
// element is accepted, so "twelve", "day-12" and "day_12" are all valid.
func ValidatePackageName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("package name must not be empty")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("invalid package name %q", name)
	}
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return fmt.Errorf("invalid package name %q: must not contain path separators", name)
	}
	return nil
}

// Sentinel errors for the failure classes of a run. Components wrap these
// with fmt.Errorf("...: %w", ...) so callers can classify with errors.Is.
var (
	// ErrAlreadyExists means the target directory is already present.
	// It is the only failure that aborts before any mutation.
	ErrAlreadyExists = errors.New("already exists")

	// ErrParse means the day could not be derived from the package name.
	ErrParse = errors.New("not a number word")

	// ErrCredential means the session token file is missing or unreadable.
	ErrCredential = errors.New("credential unavailable")

	// ErrNetwork means the input request failed at the transport level.
	ErrNetwork = errors.New("network failure")

	// ErrSchema means the workspace manifest lacks workspace.members or it
	// has an unexpected shape.
	ErrSchema = errors.New("unexpected manifest schema")
)

// ExitCode defines the process exit codes of the CLI.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitAlreadyExists indicates the target directory already exists.
	// Shares its value with ExitGeneralError; scripts rely on it being 1.
	ExitAlreadyExists ExitCode = 1

	// ExitParseError indicates the day could not be derived from the name.
	ExitParseError ExitCode = 2

	// ExitSchemaError indicates the workspace manifest has no workspace.members.
	ExitSchemaError ExitCode = 3

	// ExitCredentialError indicates the session token could not be read.
	ExitCredentialError ExitCode = 4

	// ExitNetworkError indicates the puzzle input request failed.
	ExitNetworkError ExitCode = 5
)

// ExitCodeFor maps an error to the exit code of its failure class.
// Errors that match no sentinel map to ExitGeneralError.
func ExitCodeFor(err error) ExitCode {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrAlreadyExists):
		return ExitAlreadyExists
	case errors.Is(err, ErrParse):
		return ExitParseError
	case errors.Is(err, ErrSchema):
		return ExitSchemaError
	case errors.Is(err, ErrCredential):
		return ExitCredentialError
	case errors.Is(err, ErrNetwork):
		return ExitNetworkError
	default:
		return ExitGeneralError
	}
}

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error returns the message, followed by the underlying error if present.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ClassifyCLIError wraps err in a CLIError whose code is derived from
// the sentinel it wraps.
func ClassifyCLIError(message string, err error) *CLIError {
	return WrapCLIError(ExitCodeFor(err), message, err)
}
