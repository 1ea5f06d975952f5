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
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	pkgErrors "github.com/pkg/errors"

	"github.com/rosterhq/roster/pkg/server/app"
	"github.com/rosterhq/roster/pkg/server/context"
	"github.com/rosterhq/roster/pkg/server/database"
	"github.com/rosterhq/roster/pkg/server/log"
	"github.com/rosterhq/roster/pkg/server/permissions"
	"github.com/rosterhq/roster/pkg/server/presenters"
	"github.com/rosterhq/roster/pkg/server/token"
)

// maxImageBytes is the upload size cap for profile images
const maxImageBytes = 5 << 20

// NewUsers creates a new Users controller
func NewUsers(app *app.App) *Users {
	return &Users{app: app}
}

// Users is a user controller
type Users struct {
	app *app.App
}

func (u *Users) newSession(worker *database.Worker) (presenters.Session, error) {
	tok, err := token.Issue(worker.UUID, u.app.TokenSecret, token.DefaultValidity)
	if err != nil {
		return presenters.Session{}, pkgErrors.Wrap(err, "issuing token")
	}

	return presenters.Session{
		Token:     tok,
		ExpiresAt: u.app.Clock.Now().Add(token.DefaultValidity).Unix(),
		Worker:    presenters.PresentWorker(*worker),
	}, nil
}

// RegistrationForm is the form data for registering
type RegistrationForm struct {
	Name     string `schema:"name" json:"name"`
	Email    string `schema:"email" json:"email"`
	Password string `schema:"password" json:"password"`
}

// Register handles POST /api/auth/signup
func (u *Users) Register(w http.ResponseWriter, r *http.Request) {
	var form RegistrationForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	worker, err := u.app.SignUp(app.SignUpParams{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		handleJSONError(w, err, "registering")
		return
	}

	session, err := u.newSession(&worker)
	if err != nil {
		handleJSONError(w, err, "signing in")
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

// LoginForm is the form data for logging in
type LoginForm struct {
	Email    string `schema:"email" json:"email"`
	Password string `schema:"password" json:"password"`
}

// Login handles POST /api/auth/signin
func (u *Users) Login(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	worker, err := u.app.Authenticate(form.Email, form.Password)
	if err != nil {
		handleJSONError(w, err, "logging in")
		return
	}

	session, err := u.newSession(worker)
	if err != nil {
		handleJSONError(w, err, "signing in")
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// Me handles GET /api/users/me
func (u *Users) Me(w http.ResponseWriter, r *http.Request) {
	worker := context.User(r.Context())
	if worker == nil {
		handleJSONError(w, app.ErrLoginInvalid, "no authenticated worker found")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentWorker(*worker))
}

// Index handles GET /api/users
func (u *Users) Index(w http.ResponseWriter, r *http.Request) {
	workers, err := u.app.ListActiveWorkers()
	if err != nil {
		handleJSONError(w, err, "listing workers")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentWorkers(workers))
}

// UpdateForm is the form data for updating a worker
type UpdateForm struct {
	Name     *string `schema:"name" json:"name"`
	Email    *string `schema:"email" json:"email"`
	Phone    *string `schema:"phone" json:"phone"`
	Address  *string `schema:"address" json:"address"`
	Age      *int    `schema:"age" json:"age"`
	Notes    *string `schema:"notes" json:"notes"`
	Role     *string `schema:"role" json:"role"`
	Password *string `schema:"password" json:"password"`
}

// Update handles PATCH /api/users/{workerUUID}
func (u *Users) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	workerUUID := vars["workerUUID"]

	var form UpdateForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	worker, err := u.app.GetWorkerByUUID(workerUUID)
	if err != nil {
		handleJSONError(w, err, "finding worker")
		return
	}
	if worker == nil || worker.Deleted {
		handleJSONError(w, app.ErrNotFound, "finding worker")
		return
	}

	updated, err := u.app.UpdateWorker(*worker, app.UpdateWorkerParams{
		Name:     form.Name,
		Email:    form.Email,
		Phone:    form.Phone,
		Address:  form.Address,
		Age:      form.Age,
		Notes:    form.Notes,
		Role:     form.Role,
		Password: form.Password,
	})
	if err != nil {
		handleJSONError(w, err, "updating worker")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentWorker(*updated))
}

// Delete handles DELETE /api/users/{workerUUID}
func (u *Users) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	workerUUID := vars["workerUUID"]

	worker, err := u.app.GetWorkerByUUID(workerUUID)
	if err != nil {
		handleJSONError(w, err, "finding worker")
		return
	}
	if worker == nil {
		handleJSONError(w, app.ErrNotFound, "finding worker")
		return
	}

	deleted, err := u.app.DeleteWorker(r.Context(), *worker)
	if err != nil {
		handleJSONError(w, err, "deleting worker")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		UUID        string `json:"uuid"`
		Deleted     bool   `json:"deleted"`
		SyncVersion int    `json:"sync_version"`
	}{
		UUID:        deleted.UUID,
		Deleted:     deleted.Deleted,
		SyncVersion: deleted.SyncVersion,
	})
}

// UploadImage handles PUT /api/users/{workerUUID}/image
func (u *Users) UploadImage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	workerUUID := vars["workerUUID"]

	actor := context.User(r.Context())

	worker, err := u.app.GetWorkerByUUID(workerUUID)
	if err != nil {
		handleJSONError(w, err, "finding worker")
		return
	}
	if worker == nil || worker.Deleted {
		handleJSONError(w, app.ErrNotFound, "finding worker")
		return
	}

	if !permissions.EditWorker(actor, *worker) {
		respondJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart payload"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "missing image file"})
		return
	}
	defer file.Close()

	// The image store uploads from a path, so spool the part to a
	// temporary file first.
	tmp, err := os.CreateTemp("", "roster-image-*"+filepath.Ext(header.Filename))
	if err != nil {
		handleJSONError(w, err, "spooling image")
		return
	}
	defer func() {
		tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil {
			log.ErrorWrap(err, "removing spooled image")
		}
	}()

	if _, err := io.Copy(tmp, file); err != nil {
		handleJSONError(w, err, "spooling image")
		return
	}
	if err := tmp.Close(); err != nil {
		handleJSONError(w, err, "spooling image")
		return
	}

	updated, err := u.app.SetWorkerImage(r.Context(), *worker, tmp.Name())
	if err != nil {
		handleJSONError(w, err, "setting image")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentWorker(*updated))
}
