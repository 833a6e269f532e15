// Package errors defines the error kinds the import pipeline reports.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Wrap wraps an error by prepending additional text.
// The text can contain formatting parameters.
func Wrap(err error, msg string, v ...interface{}) error {
	msg = fmt.Sprintf(msg, v...)
	return fmt.Errorf("%v: %w", msg, err)
}

type notFound struct {
	message string
}

// NewNotFound creates a new "not found" error.
func NewNotFound(s string, v ...interface{}) error {
	return asNotFound(fmt.Errorf(s, v...))
}

func (n notFound) Error() string {
	return n.message
}

func asNotFound(e error) error {
	return notFound{fmt.Sprintf("Not found: %v", e)}
}

// IsNotFound checks if the given error is a "not found" error.
func IsNotFound(err error) bool {
	var nf notFound
	return errors.As(err, &nf)
}

// ConfigError reports an invalid import setup, detected before any tool runs.
type ConfigError struct {
	message string
}

func (c ConfigError) Error() string {
	return c.message
}

// NewConfigError creates a configuration error from the given format string.
func NewConfigError(msg string, v ...interface{}) error {
	return ConfigError{fmt.Sprintf(msg, v...)}
}

// IsConfigError checks if the given error is a configuration error.
func IsConfigError(err error) bool {
	var ce ConfigError
	return errors.As(err, &ce)
}

// EnvironmentError lists external tools that could not be found.
type EnvironmentError struct {
	Missing  []string
	Guidance string
}

func (e EnvironmentError) Error() string {
	msg := "missing external tools: " + strings.Join(e.Missing, ", ")
	if e.Guidance != "" {
		msg += " (" + e.Guidance + ")"
	}
	return msg
}

// IsEnvironmentError checks if the given error reports missing tools.
func IsEnvironmentError(err error) bool {
	var ee EnvironmentError
	return errors.As(err, &ee)
}

// ToolError is a failed or unusable external tool invocation.
type ToolError struct {
	Tool   string
	Args   []string
	Stderr string
	Err    error
}

func (t *ToolError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", t.Tool, strings.Join(t.Args, " "), t.Err)
	if s := strings.TrimSpace(t.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (t *ToolError) Unwrap() error {
	return t.Err
}

// NewToolError creates a tool error with a formatted cause.
func NewToolError(tool string, args []string, msg string, v ...interface{}) error {
	return &ToolError{Tool: tool, Args: args, Err: fmt.Errorf(msg, v...)}
}

// IsToolError checks if the given error came from an external tool.
func IsToolError(err error) bool {
	var te *ToolError
	return errors.As(err, &te)
}

// MismatchError reports that text extraction and rendering disagree on the
// number of pages.
type MismatchError struct {
	Path         string
	TextPages    int
	ContentPages int
}

func (m MismatchError) Error() string {
	return fmt.Sprintf("page count mismatch for %q: %d text pages, %d content pages",
		m.Path, m.TextPages, m.ContentPages)
}

// IsMismatch checks if the given error is a page count mismatch.
func IsMismatch(err error) bool {
	var me MismatchError
	return errors.As(err, &me)
}
