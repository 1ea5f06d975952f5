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

// Package app provides the application core: accounts, the versioned
// worker record store, and the sync engine.
package app

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/rosterhq/roster/pkg/clock"
	"github.com/rosterhq/roster/pkg/server/images"
	"github.com/rosterhq/roster/pkg/server/lease"
	"github.com/rosterhq/roster/pkg/server/mailer"
)

var (
	// ErrEmptyDB is an error for missing database connection in the app configuration
	ErrEmptyDB = errors.New("No database connection was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
	// ErrEmptyWebURL is an error for missing WebURL in the app configuration
	ErrEmptyWebURL = errors.New("No WebURL was provided")
	// ErrEmptyImageStore is an error for missing image store in the app configuration
	ErrEmptyImageStore = errors.New("No image store was provided")
	// ErrEmptyTokenSecret is an error for missing token secret in the app configuration
	ErrEmptyTokenSecret = errors.New("No token secret was provided")
	// ErrEmptyEmailBackend is an error for missing email backend in the app configuration
	ErrEmptyEmailBackend = errors.New("No email backend was provided")
	// ErrEmptyLeases is an error for missing lease set in the app configuration
	ErrEmptyLeases = errors.New("No lease set was provided")
)

// App is an application context
type App struct {
	DB                  *gorm.DB
	Clock               clock.Clock
	Images              images.Store
	EmailBackend        mailer.Backend
	CreateLeases        *lease.Set
	TokenSecret         []byte
	WebURL              string
	AppEnv              string
	Port                string
	DBPath              string
	DisableRegistration bool
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.DB == nil {
		return ErrEmptyDB
	}
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.Images == nil {
		return ErrEmptyImageStore
	}
	if a.EmailBackend == nil {
		return ErrEmptyEmailBackend
	}
	if a.CreateLeases == nil {
		return ErrEmptyLeases
	}
	if len(a.TokenSecret) == 0 {
		return ErrEmptyTokenSecret
	}
	if a.WebURL == "" {
		return ErrEmptyWebURL
	}

	return nil
}

// now returns the current time as epoch milliseconds, the resolution
// used for last_modified cursors
func (a *App) now() int64 {
	return a.Clock.Now().UnixMilli()
}
