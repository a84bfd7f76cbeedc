// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the service layer. Handlers translate
// these into flash messages and HTTP status codes.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when an operation is not permitted,
	// such as renaming the default category or commenting on a post
	// with comments disabled.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is returned for a failed login attempt.
	// It is deliberately identical for a wrong username and a wrong
	// password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNoAdminAccount is returned when a login is attempted before
	// any admin account exists.
	ErrNoAdminAccount = errors.New("no admin account configured")
)

// ValidationError carries per-field validation messages.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates an empty ValidationError.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a validation message for a field.
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

// HasErrors reports whether any field failed validation.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ErrIfAny returns the error if it holds any messages, nil otherwise.
func (e *ValidationError) ErrIfAny() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// IsValidationError reports whether err is a ValidationError, returning it.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
