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
	"errors"
	"strings"

	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/rosterhq/roster/pkg/server/database"
	"github.com/rosterhq/roster/pkg/server/helpers"
)

// NormalizeEmail lower-cases and trims an email so that it can serve as
// the record's natural key
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetWorkerByUUID retrieves a worker by uuid. It returns nil without an
// error if no worker matches.
func (a *App) GetWorkerByUUID(uuid string) (*database.Worker, error) {
	var ret database.Worker
	err := a.DB.Where("uuid = ?", uuid).First(&ret).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding worker by uuid")
	}

	return &ret, nil
}

// GetWorkerByEmail retrieves a worker by its normalized email. It
// returns nil without an error if no worker matches.
func (a *App) GetWorkerByEmail(email string) (*database.Worker, error) {
	var ret database.Worker
	err := a.DB.Where("email = ?", NormalizeEmail(email)).First(&ret).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding worker by email")
	}

	return &ret, nil
}

// GetWorkerByClientID retrieves a worker by the client-supplied
// correlation token recorded at create time. It returns nil without an
// error if no worker matches.
func (a *App) GetWorkerByClientID(clientID string) (*database.Worker, error) {
	if clientID == "" {
		return nil, nil
	}

	var ret database.Worker
	err := a.DB.Where("client_id = ?", clientID).First(&ret).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding worker by client id")
	}

	return &ret, nil
}

// CreateWorkerRecord persists a new worker record at version 1. The
// caller provides the domain fields; uuid, version, timestamps and the
// tombstone flag are assigned here. A unique constraint violation
// surfaces as gorm.ErrDuplicatedKey.
func (a *App) CreateWorkerRecord(w database.Worker) (database.Worker, error) {
	uuid, err := helpers.GenUUID()
	if err != nil {
		return database.Worker{}, err
	}

	w.UUID = uuid
	w.SyncVersion = 1
	w.LastModified = a.now()
	w.Deleted = false
	if w.Role == "" {
		w.Role = database.RoleWorker
	}

	if err := a.DB.Create(&w).Error; err != nil {
		return database.Worker{}, err
	}

	return w, nil
}

// saveWorkerVersioned applies the given column updates to the worker,
// bumping sync_version by exactly one and stamping last_modified. The
// write carries the worker's current version as a precondition: if a
// concurrent writer got there first the update matches no row and
// ErrWriteConflict is returned, so at most one writer wins each version
// transition.
func (a *App) saveWorkerVersioned(w database.Worker, updates map[string]interface{}) (int, error) {
	next := w.SyncVersion + 1
	updates["sync_version"] = next
	updates["last_modified"] = a.now()

	res := a.DB.Model(&database.Worker{}).
		Where("uuid = ? AND sync_version = ?", w.UUID, w.SyncVersion).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrWriteConflict
	}

	return next, nil
}

// ListActiveWorkers returns all workers that are not tombstones
func (a *App) ListActiveWorkers() ([]database.Worker, error) {
	workers := []database.Worker{}
	if err := a.DB.Where("deleted = ?", false).Order("created_at ASC").Find(&workers).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding workers")
	}

	return workers, nil
}
