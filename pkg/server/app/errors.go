/* Copyright 2026 Roster Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package app

import "github.com/pkg/errors"

var (
	// ErrNotFound is an error for a nonexistent record
	ErrNotFound = errors.New("not found")
	// ErrLoginInvalid is an error for invalid credentials
	ErrLoginInvalid = errors.New("Wrong email and password combination")
	// ErrDuplicateEmail is an error for an email that is already registered
	ErrDuplicateEmail = errors.New("Duplicate email")
	// ErrEmailRequired is an error for missing email
	ErrEmailRequired = errors.New("Email is required")
	// ErrNameRequired is an error for missing name
	ErrNameRequired = errors.New("Name is required")
	// ErrPasswordRequired is an error for missing password
	ErrPasswordRequired = errors.New("Password is required")
	// ErrPasswordTooShort is an error for a password that is too short
	ErrPasswordTooShort = errors.New("Password should be longer than 8 characters")
	// ErrRoleInvalid is an error for an unknown role
	ErrRoleInvalid = errors.New("Invalid role")
	// ErrWriteConflict is an error for a versioned write whose precondition
	// version no longer matched at persist time
	ErrWriteConflict = errors.New("record version changed concurrently")
	// ErrRegistrationDisabled is an error for signing up while registration is disabled
	ErrRegistrationDisabled = errors.New("Registration is disabled")
)
