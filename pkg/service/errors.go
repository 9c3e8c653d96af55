package service

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Supervision failures. They abort startup and are never retried.
var (
	ErrExecutableNotFound = errors.New("executable needs to be in PATH")
	ErrPermissionDenied   = errors.New("executable may have wrong permissions")
	ErrUnexpectedExit     = errors.New("unexpectedly exited")
	ErrCannotConnect      = errors.New("cannot connect to the service")
	ErrAlreadyRunning     = errors.New("service already running")
)

// Error describes a failed start of a driver executable.
type Error struct {
	Path     string
	Err      error // One of the sentinels above
	ExitCode int   // Set with ErrUnexpectedExit
	Hint     string
	Cause    error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%q %v", filepath.Base(e.Path), e.Err)
	if errors.Is(e.Err, ErrUnexpectedExit) {
		msg += fmt.Sprintf(". Status code was: %d", e.ExitCode)
	}
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}
