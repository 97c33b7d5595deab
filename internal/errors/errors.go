// Package errors classifies the failures that end a build run.
//
// Every category is fatal: the orchestrator surfaces the first one and the
// caller exits non-zero. The category only decides how the failure is
// reported.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Category identifies where in the pipeline an error happened.
type Category string

const (
	CategoryConfig  Category = "config"  // malformed or duplicate registry/site data
	CategoryContent Category = "content" // markdown source missing or unreadable
	CategoryRender  Category = "render"  // template or markdown failure
	CategoryWrite   Category = "write"   // output path not writable
)

// Error is a categorized build error.
type Error struct {
	Category Category
	Path     string // offending file, when there is one
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Category, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" %q", e.Path)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Config returns a configuration error.
func Config(path, message string, cause error) *Error {
	return &Error{Category: CategoryConfig, Path: path, Message: message, Cause: cause}
}

// ContentRead returns an error for a markdown source that could not be read.
func ContentRead(path string, cause error) *Error {
	return &Error{Category: CategoryContent, Path: path, Message: "cannot read content", Cause: cause}
}

// Render returns a template or markdown rendering error.
func Render(path, message string, cause error) *Error {
	return &Error{Category: CategoryRender, Path: path, Message: message, Cause: cause}
}

// Write returns an error for an output file that could not be written.
func Write(path string, cause error) *Error {
	return &Error{Category: CategoryWrite, Path: path, Message: "cannot write output", Cause: cause}
}

// CategoryOf returns the category of err, or "" if err is not a categorized error.
func CategoryOf(err error) Category {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Category
	}
	return ""
}

// IsCategory reports whether err, or any error it wraps, has the given category.
func IsCategory(err error, c Category) bool {
	return CategoryOf(err) == c
}
