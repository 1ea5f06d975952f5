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

import (
	"context"
	"errors"

	pkgErrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rosterhq/roster/pkg/server/database"
	"github.com/rosterhq/roster/pkg/server/log"
	"github.com/rosterhq/roster/pkg/server/mailer"
)

const minPasswordLength = 8

// SignUpParams are the inputs to SignUp
type SignUpParams struct {
	Name     string
	Email    string
	Password string
}

func validateSignUpParams(p SignUpParams) error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.Email == "" {
		return ErrEmailRequired
	}
	if p.Password == "" {
		return ErrPasswordRequired
	}
	if len(p.Password) < minPasswordLength {
		return ErrPasswordTooShort
	}

	return nil
}

// SignUp registers a new worker account
func (a *App) SignUp(p SignUpParams) (database.Worker, error) {
	if a.DisableRegistration {
		return database.Worker{}, ErrRegistrationDisabled
	}
	if err := validateSignUpParams(p); err != nil {
		return database.Worker{}, err
	}

	email := NormalizeEmail(p.Email)

	existing, err := a.GetWorkerByEmail(email)
	if err != nil {
		return database.Worker{}, pkgErrors.Wrap(err, "checking duplicate email")
	}
	if existing != nil {
		return database.Worker{}, ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return database.Worker{}, pkgErrors.Wrap(err, "hashing password")
	}

	worker := database.Worker{
		Name:     p.Name,
		Email:    database.ToNullString(email),
		Password: database.ToNullString(string(hashed)),
	}

	created, err := a.CreateWorkerRecord(worker)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return database.Worker{}, ErrDuplicateEmail
	}
	if err != nil {
		return database.Worker{}, pkgErrors.Wrap(err, "creating worker")
	}

	if err := a.SendWelcomeEmail(created); err != nil {
		// The account exists either way. Log and move on.
		log.WithFields(log.Fields{
			"uuid": created.UUID,
		}).ErrorWrap(err, "sending welcome email")
	}

	return created, nil
}

// SendWelcomeEmail sends the onboarding email for a new account
func (a *App) SendWelcomeEmail(worker database.Worker) error {
	if !worker.Email.Valid || worker.Email.String == "" {
		return nil
	}

	data := mailer.WelcomeData{
		Name:   worker.Name,
		Email:  worker.Email.String,
		WebURL: a.WebURL,
	}
	err := a.EmailBackend.SendEmail(mailer.EmailTypeWelcome, "noreply@getroster.app", []string{worker.Email.String}, data)
	if errors.Is(err, mailer.ErrSMTPNotConfigured) {
		return nil
	}

	return err
}

// Authenticate verifies the given credentials and returns the matching
// worker. Invalid email and invalid password are indistinguishable to
// the caller.
func (a *App) Authenticate(email, password string) (*database.Worker, error) {
	if email == "" || password == "" {
		return nil, ErrLoginInvalid
	}

	worker, err := a.GetWorkerByEmail(email)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding worker")
	}
	if worker == nil || worker.Deleted || !worker.Password.Valid {
		return nil, ErrLoginInvalid
	}

	if err := bcrypt.CompareHashAndPassword([]byte(worker.Password.String), []byte(password)); err != nil {
		return nil, ErrLoginInvalid
	}

	now := a.Clock.Now()
	if err := a.DB.Model(worker).Update("last_login_at", &now).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "updating last login")
	}

	return worker, nil
}

// UpdateWorkerParams are the admin-editable fields of a worker. Nil
// means leave the field unchanged.
type UpdateWorkerParams struct {
	Name     *string
	Email    *string
	Phone    *string
	Address  *string
	Age      *int
	Notes    *string
	Role     *string
	Password *string
}

// UpdateWorker applies the given field changes to a worker through the
// versioned write path, so edits made here are ordered against sync
// operations and flow out through the change feed.
func (a *App) UpdateWorker(worker database.Worker, p UpdateWorkerParams) (*database.Worker, error) {
	updates := map[string]interface{}{}
	if p.Name != nil {
		if *p.Name == "" {
			return nil, ErrNameRequired
		}
		updates["name"] = *p.Name
	}
	if p.Email != nil {
		if *p.Email == "" {
			return nil, ErrEmailRequired
		}
		updates["email"] = NormalizeEmail(*p.Email)
	}
	if p.Phone != nil {
		updates["phone"] = *p.Phone
	}
	if p.Address != nil {
		updates["address"] = *p.Address
	}
	if p.Age != nil {
		updates["age"] = *p.Age
	}
	if p.Notes != nil {
		updates["notes"] = *p.Notes
	}
	if p.Role != nil {
		if *p.Role != database.RoleAdmin && *p.Role != database.RoleWorker {
			return nil, ErrRoleInvalid
		}
		updates["role"] = *p.Role
	}
	if p.Password != nil {
		if len(*p.Password) < minPasswordLength {
			return nil, ErrPasswordTooShort
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(*p.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, pkgErrors.Wrap(err, "hashing password")
		}
		updates["password"] = string(hashed)
	}

	if _, err := a.saveWorkerVersioned(worker, updates); err != nil {
		return nil, err
	}

	updated, err := a.GetWorkerByUUID(worker.UUID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	return updated, nil
}

// DeleteWorker tombstones the worker and cleans up its profile image.
// The row survives as a tombstone with its credential hash cleared.
func (a *App) DeleteWorker(ctx context.Context, worker database.Worker) (*database.Worker, error) {
	if worker.Deleted {
		return &worker, nil
	}

	updates := map[string]interface{}{
		"deleted":  true,
		"password": "",
	}
	if _, err := a.saveWorkerVersioned(worker, updates); err != nil {
		return nil, err
	}

	if worker.ImageID != "" {
		if err := a.Images.Delete(ctx, worker.ImageID); err != nil {
			log.WithFields(log.Fields{
				"uuid":     worker.UUID,
				"image_id": worker.ImageID,
			}).ErrorWrap(err, "deleting worker image")
		}
	}

	deleted, err := a.GetWorkerByUUID(worker.UUID)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, ErrNotFound
	}

	return deleted, nil
}

// SetWorkerImage uploads the image at filePath to the image host and
// records the resulting id and url on the worker, replacing any
// previous image.
func (a *App) SetWorkerImage(ctx context.Context, worker database.Worker, filePath string) (*database.Worker, error) {
	upload, err := a.Images.Upload(ctx, filePath, worker.UUID)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "uploading image")
	}

	previousID := worker.ImageID

	updates := map[string]interface{}{
		"image_id":  upload.ID,
		"image_url": upload.URL,
	}
	if _, err := a.saveWorkerVersioned(worker, updates); err != nil {
		// The upload is orphaned if we cannot record it
		if derr := a.Images.Delete(ctx, upload.ID); derr != nil {
			log.ErrorWrap(derr, "cleaning up unrecorded image")
		}

		return nil, err
	}

	if previousID != "" && previousID != upload.ID {
		if err := a.Images.Delete(ctx, previousID); err != nil {
			log.WithFields(log.Fields{
				"uuid":     worker.UUID,
				"image_id": previousID,
			}).ErrorWrap(err, "deleting replaced image")
		}
	}

	updated, err := a.GetWorkerByUUID(worker.UUID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	return updated, nil
}
