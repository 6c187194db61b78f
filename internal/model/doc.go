// Package model defines the domain types and error classes for the
// advent-new CLI.
//
// This package contains pure data structures with no external dependencies.
// Target is the resolved (name, day) pair that flows through the pipeline;
// the sentinel errors classify every failure a run can end in.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
