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

package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/schema"
	pkgErrors "github.com/pkg/errors"

	"github.com/rosterhq/roster/pkg/server/app"
	"github.com/rosterhq/roster/pkg/server/log"
)

// queryParamError is an error for an invalid query parameter value
type queryParamError struct {
	key     string
	value   string
	message string
}

func (e *queryParamError) Error() string {
	return fmt.Sprintf("invalid query parameter '%s' with value '%s': %s", e.key, e.value, e.message)
}

func parseJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return pkgErrors.Wrap(err, "decoding json")
	}

	return nil
}

func parseForm(r *http.Request, dst interface{}) error {
	if err := r.ParseForm(); err != nil {
		return pkgErrors.Wrap(err, "parsing form")
	}

	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	if err := dec.Decode(dst, r.PostForm); err != nil {
		return pkgErrors.Wrap(err, "decoding form")
	}

	return nil
}

// parseRequestData decodes the request payload into dst based on the
// request's content type
func parseRequestData(r *http.Request, dst interface{}) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return parseJSON(r, dst)
	}

	return parseForm(r, dst)
}

// respondJSON responds with the JSON-encoding of the given value
func respondJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusCodeForError(err error) int {
	switch pkgErrors.Cause(err) {
	case app.ErrNotFound:
		return http.StatusNotFound
	case app.ErrLoginInvalid:
		return http.StatusUnauthorized
	case app.ErrDuplicateEmail, app.ErrWriteConflict:
		return http.StatusConflict
	case app.ErrRegistrationDisabled:
		return http.StatusForbidden
	case app.ErrEmailRequired,
		app.ErrNameRequired,
		app.ErrPasswordRequired,
		app.ErrPasswordTooShort,
		app.ErrRoleInvalid:
		return http.StatusBadRequest
	}

	if _, ok := pkgErrors.Cause(err).(*queryParamError); ok {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// handleJSONError logs the error and responds with an error message
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	statusCode := statusCodeForError(err)

	if statusCode == http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"statusCode": statusCode,
		}).ErrorWrap(err, msg)
		respondJSON(w, statusCode, errorResponse{Error: msg})
		return
	}

	respondJSON(w, statusCode, errorResponse{Error: pkgErrors.Cause(err).Error()})
}
