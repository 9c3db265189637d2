// Package errors provides error handling for pocotype providers and tools.
//
// It re-exports github.com/cockroachdb/errors, which records stack traces
// and carries user-facing hints alongside the error chain:
//
//	if err := load(); err != nil {
//	    return errors.Wrap(err, "loading packages")
//	}
//	return errors.WithHint(err, "run go mod tidy")
//
// Type system diagnostics are *typesystem.Error values and are not wrapped
// by this package.
package errors

import (
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
var (
	New   = crdb.New
	Newf  = crdb.Newf
	Wrap  = crdb.Wrap
	Wrapf = crdb.Wrapf
	Mark  = crdb.Mark
)

// User-facing hints
var (
	WithHint  = crdb.WithHint
	WithHintf = crdb.WithHintf
)

// Inspection
var (
	Is = crdb.Is
	As = crdb.As
)

// Sentinel errors shared by providers and the CLI.
var (
	// ErrLoad indicates Go packages could not be loaded or type-checked.
	ErrLoad = New("package load failed")

	// ErrNotFound indicates a requested root type does not exist.
	ErrNotFound = New("type not found")

	// ErrInvalidConfig indicates a malformed configuration file or flag.
	ErrInvalidConfig = New("invalid configuration")

	// ErrInvalidTag indicates a malformed poco struct tag or directive.
	ErrInvalidTag = New("invalid poco tag")
)

// HintText returns the user-facing hints of err joined by newlines, or "".
func HintText(err error) string {
	if err == nil {
		return ""
	}
	return strings.Join(crdb.GetAllHints(err), "\n")
}
