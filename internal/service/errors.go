// Copyright 2025 CRE Studio Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"errors"
	"fmt"
)

// ValidationError marks a structurally invalid request: wrong role/scope
// combination, missing field, mismatched passwords. The caller can retry
// after correcting input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// PermissionError marks a structurally valid request the actor is not
// allowed to make. It is a denial, not a retryable condition.
type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string {
	return e.Reason
}

func NewPermissionError(reason string) *PermissionError {
	return &PermissionError{Reason: reason}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPermissionError reports whether err is (or wraps) a PermissionError.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// Invitation lifecycle errors. Each is terminal for the presented token;
// resend issues a fresh token instead.
var (
	ErrInvitationInvalid  = errors.New("Invalid invitation token.")
	ErrInvitationExpired  = errors.New("Invitation has expired. Please request a new invitation.")
	ErrInvitationAccepted = errors.New("Invitation has already been accepted.")
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("a user with this email already exists")
	ErrAppNotFound       = errors.New("app not found or inactive")
	ErrAppAccessDenied   = errors.New("user does not have access to this app")
	ErrSelfDeactivation  = errors.New("Cannot deactivate yourself")
)
