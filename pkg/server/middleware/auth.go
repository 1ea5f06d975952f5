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

package middleware

import (
	"errors"
	"net/http"

	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/rosterhq/roster/pkg/server/context"
	"github.com/rosterhq/roster/pkg/server/database"
	"github.com/rosterhq/roster/pkg/server/permissions"
	"github.com/rosterhq/roster/pkg/server/token"
)

// AuthWithToken authenticates the request with a bearer token. It
// returns the authenticated worker, or ok=false when the request
// carries no valid credential.
func AuthWithToken(db *gorm.DB, secret []byte, r *http.Request) (database.Worker, bool, error) {
	var worker database.Worker

	credential, err := GetCredential(r)
	if err != nil {
		// A malformed header is a guest, not a server error
		return worker, false, nil
	}
	if credential == "" {
		return worker, false, nil
	}

	subject, err := token.Verify(credential, secret)
	if errors.Is(err, token.ErrInvalid) {
		return worker, false, nil
	}
	if err != nil {
		return worker, false, pkgErrors.Wrap(err, "verifying token")
	}

	err = db.Where("uuid = ? AND deleted = ?", subject, false).First(&worker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return worker, false, nil
	}
	if err != nil {
		return worker, false, pkgErrors.Wrap(err, "finding worker")
	}

	return worker, true, nil
}

// Auth is an authentication middleware. Handlers behind it can read
// the worker from the request context.
func Auth(db *gorm.DB, secret []byte, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		worker, ok, err := AuthWithToken(db, secret, r)
		if err != nil {
			DoError(w, "authenticating", err, http.StatusInternalServerError)
			return
		}
		if !ok {
			RespondUnauthorized(w)
			return
		}

		ctx := context.WithUser(r.Context(), &worker)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly wraps a handler so that only admins reach it. It must run
// behind Auth.
func AdminOnly(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		worker := context.User(r.Context())
		if worker == nil {
			RespondUnauthorized(w)
			return
		}
		if !permissions.ManageWorkers(worker) {
			RespondForbidden(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}
