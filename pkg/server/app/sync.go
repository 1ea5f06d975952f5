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
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rosterhq/roster/pkg/server/database"
	"github.com/rosterhq/roster/pkg/server/log"
)

// Operation types accepted by ApplyOperation
const (
	OpCreate = "CREATE"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// defaultSyncedPassword is assigned to records created through the sync
// endpoint, which carries no credentials. The worker signs in after an
// admin issues a real password.
const defaultSyncedPassword = "changeme123"

// OperationData carries the record fields of a sync operation. Fields
// are pointers so that an update can distinguish an absent field from a
// zero value.
type OperationData struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Age     *int    `json:"age"`
	Notes   *string `json:"notes"`
}

// Operation is a single record mutation submitted by a client
type Operation struct {
	OperationID string         `json:"operationId"`
	Type        string         `json:"type"`
	UUID        string         `json:"id"`
	ClientID    string         `json:"clientId"`
	SyncVersion *int           `json:"syncVersion"`
	Data        *OperationData `json:"data"`
}

// ConflictVersions reports both sides of a version conflict so the
// client can decide how to reconcile
type ConflictVersions struct {
	ServerVersion int              `json:"serverVersion"`
	ClientVersion int              `json:"clientVersion"`
	ServerRecord  *database.Worker `json:"serverRecord,omitempty"`
}

// OperationResult is the per-operation outcome of a batch
type OperationResult struct {
	OperationID string            `json:"operationId"`
	Type        string            `json:"type"`
	Success     bool              `json:"success"`
	UUID        string            `json:"id,omitempty"`
	Worker      *database.Worker  `json:"data,omitempty"`
	SyncVersion int               `json:"syncVersion,omitempty"`
	Deleted     bool              `json:"deleted,omitempty"`
	Error       string            `json:"error,omitempty"`
	Conflict    *ConflictVersions `json:"conflict,omitempty"`
}

// BatchSummary counts the outcomes of a batch
type BatchSummary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// ProcessBatch applies the given operations in order and returns a
// result for each. A failing operation never aborts the batch; its
// failure is recorded and the remaining operations proceed.
func (a *App) ProcessBatch(ctx context.Context, operations []Operation) ([]OperationResult, BatchSummary) {
	results := make([]OperationResult, 0, len(operations))
	summary := BatchSummary{Total: len(operations)}

	for _, op := range operations {
		result := a.applyOperationSafe(ctx, op)
		if result.Success {
			summary.Success++
		} else {
			summary.Failed++
		}

		results = append(results, result)
	}

	return results, summary
}

// applyOperationSafe shields the batch from a panicking operation by
// converting the panic into a failed result.
func (a *App) applyOperationSafe(ctx context.Context, op Operation) (result OperationResult) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"operationId": op.OperationID,
				"type":        op.Type,
				"recovered":   fmt.Sprintf("%v", r),
			}).Error("recovered from panic while applying operation")

			result = OperationResult{
				OperationID: op.OperationID,
				Type:        op.Type,
				Success:     false,
				Error:       "internal error while applying operation",
			}
		}
	}()

	return a.ApplyOperation(ctx, op)
}

// ApplyOperation dispatches a single operation to its handler
func (a *App) ApplyOperation(ctx context.Context, op Operation) OperationResult {
	switch op.Type {
	case OpCreate:
		return a.applyCreate(op)
	case OpUpdate:
		return a.applyUpdate(op)
	case OpDelete:
		return a.applyDelete(ctx, op)
	default:
		return OperationResult{
			OperationID: op.OperationID,
			Type:        op.Type,
			Success:     false,
			Error:       fmt.Sprintf("invalid operation type '%s'", op.Type),
		}
	}
}

func failure(op Operation, message string) OperationResult {
	return OperationResult{
		OperationID: op.OperationID,
		Type:        op.Type,
		Success:     false,
		Error:       message,
	}
}

// applyCreate creates a worker record. Creation is idempotent on the
// normalized email: replaying a create of an existing record reports
// success with the record's current state instead of an error, so a
// client that lost the first response can safely retry.
func (a *App) applyCreate(op Operation) OperationResult {
	if op.Data == nil {
		return failure(op, "missing operation data")
	}
	if op.Data.Name == nil || *op.Data.Name == "" {
		return failure(op, ErrNameRequired.Error())
	}
	if op.Data.Email == nil || *op.Data.Email == "" {
		return failure(op, ErrEmailRequired.Error())
	}

	// A create that already committed is recognizable by its client
	// correlation token even if the record's email changed since.
	if op.ClientID != "" {
		existing, err := a.GetWorkerByClientID(op.ClientID)
		if err != nil {
			return failure(op, "looking up existing record")
		}
		if existing != nil {
			return OperationResult{
				OperationID: op.OperationID,
				Type:        op.Type,
				Success:     true,
				Worker:      existing,
				SyncVersion: existing.SyncVersion,
				Deleted:     existing.Deleted,
			}
		}
	}

	email := NormalizeEmail(*op.Data.Email)

	// Serialize concurrent creates of the same email within this
	// process. A loser of the lease waits out the winner by refetching.
	acquired := a.CreateLeases.Acquire(email)
	if acquired {
		defer a.CreateLeases.Release(email)
	}

	existing, err := a.GetWorkerByEmail(email)
	if err != nil {
		return failure(op, "looking up existing record")
	}
	if existing != nil {
		// The record may be a tombstone; the result says so instead of
		// pretending a fresh create happened.
		return OperationResult{
			OperationID: op.OperationID,
			Type:        op.Type,
			Success:     true,
			Worker:      existing,
			SyncVersion: existing.SyncVersion,
			Deleted:     existing.Deleted,
		}
	}
	if !acquired {
		// Another create for this email is in flight and has not
		// committed yet. Report a retryable failure rather than racing
		// it to the unique index.
		return failure(op, "record creation already in progress")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultSyncedPassword), bcrypt.DefaultCost)
	if err != nil {
		return failure(op, "hashing password")
	}

	worker := database.Worker{
		Name:     *op.Data.Name,
		Email:    database.ToNullString(email),
		Password: database.ToNullString(string(hashed)),
		ClientID: op.ClientID,
	}
	if op.Data.Phone != nil {
		worker.Phone = *op.Data.Phone
	}
	if op.Data.Address != nil {
		worker.Address = *op.Data.Address
	}
	if op.Data.Age != nil {
		worker.Age = *op.Data.Age
	}
	if op.Data.Notes != nil {
		worker.Notes = *op.Data.Notes
	}

	created, err := a.CreateWorkerRecord(worker)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race to another process. The record exists, which is
		// what this operation wanted.
		existing, ferr := a.GetWorkerByEmail(email)
		if ferr != nil || existing == nil {
			return failure(op, "looking up existing record")
		}

		return OperationResult{
			OperationID: op.OperationID,
			Type:        op.Type,
			Success:     true,
			Worker:      existing,
			SyncVersion: existing.SyncVersion,
			Deleted:     existing.Deleted,
		}
	}
	if err != nil {
		log.ErrorWrap(err, "creating worker record")
		return failure(op, "creating record")
	}

	return OperationResult{
		OperationID: op.OperationID,
		Type:        op.Type,
		Success:     true,
		Worker:      &created,
		SyncVersion: created.SyncVersion,
	}
}

// applyUpdate applies field changes to an existing record if the
// client's version is current. A client behind the server's version is
// rejected with both versions so it can reconcile and resubmit.
func (a *App) applyUpdate(op Operation) OperationResult {
	if op.UUID == "" {
		return failure(op, "missing record id")
	}
	if op.Data == nil {
		return failure(op, "missing operation data")
	}

	worker, err := a.GetWorkerByUUID(op.UUID)
	if err != nil {
		return failure(op, "looking up record")
	}
	if worker == nil || worker.Deleted {
		return failure(op, ErrNotFound.Error())
	}

	clientVersion := 0
	if op.SyncVersion != nil {
		clientVersion = *op.SyncVersion
	}

	if worker.SyncVersion > clientVersion {
		return OperationResult{
			OperationID: op.OperationID,
			Type:        op.Type,
			Success:     false,
			Error:       "version conflict",
			Conflict: &ConflictVersions{
				ServerVersion: worker.SyncVersion,
				ClientVersion: clientVersion,
				ServerRecord:  worker,
			},
		}
	}

	updates := map[string]interface{}{}
	if op.Data.Name != nil {
		updates["name"] = *op.Data.Name
	}
	if op.Data.Email != nil {
		updates["email"] = NormalizeEmail(*op.Data.Email)
	}
	if op.Data.Phone != nil {
		updates["phone"] = *op.Data.Phone
	}
	if op.Data.Address != nil {
		updates["address"] = *op.Data.Address
	}
	if op.Data.Age != nil {
		updates["age"] = *op.Data.Age
	}
	if op.Data.Notes != nil {
		updates["notes"] = *op.Data.Notes
	}

	next, err := a.saveWorkerVersioned(*worker, updates)
	if errors.Is(err, ErrWriteConflict) {
		// A concurrent writer bumped the version between our read and
		// write. Refetch so the conflict report carries the winner.
		current, ferr := a.GetWorkerByUUID(op.UUID)
		if ferr != nil || current == nil {
			return failure(op, "looking up record")
		}

		return OperationResult{
			OperationID: op.OperationID,
			Type:        op.Type,
			Success:     false,
			Error:       "version conflict",
			Conflict: &ConflictVersions{
				ServerVersion: current.SyncVersion,
				ClientVersion: clientVersion,
				ServerRecord:  current,
			},
		}
	}
	if err != nil {
		log.ErrorWrap(err, "updating worker record")
		return failure(op, "updating record")
	}

	updated, err := a.GetWorkerByUUID(op.UUID)
	if err != nil || updated == nil {
		return failure(op, "looking up record")
	}

	return OperationResult{
		OperationID: op.OperationID,
		Type:        op.Type,
		Success:     true,
		Worker:      updated,
		SyncVersion: next,
	}
}

// applyDelete tombstones a record. The row is kept with its version
// history so the change feed can propagate the deletion to other
// devices. Deleting an already-deleted record succeeds without bumping
// the version, so a replayed delete converges instead of erroring.
func (a *App) applyDelete(ctx context.Context, op Operation) OperationResult {
	if op.UUID == "" {
		return failure(op, "missing record id")
	}

	worker, err := a.GetWorkerByUUID(op.UUID)
	if err != nil {
		return failure(op, "looking up record")
	}
	if worker == nil {
		return failure(op, ErrNotFound.Error())
	}
	if worker.Deleted {
		return OperationResult{
			OperationID: op.OperationID,
			Type:        op.Type,
			Success:     true,
			UUID:        worker.UUID,
			Deleted:     true,
			SyncVersion: worker.SyncVersion,
		}
	}

	updates := map[string]interface{}{
		"deleted":  true,
		"password": "",
	}
	next, err := a.saveWorkerVersioned(*worker, updates)
	if errors.Is(err, ErrWriteConflict) {
		current, ferr := a.GetWorkerByUUID(op.UUID)
		if ferr != nil || current == nil {
			return failure(op, "looking up record")
		}
		if current.Deleted {
			return OperationResult{
				OperationID: op.OperationID,
				Type:        op.Type,
				Success:     true,
				UUID:        current.UUID,
				Deleted:     true,
				SyncVersion: current.SyncVersion,
			}
		}

		return failure(op, "version conflict")
	}
	if err != nil {
		log.ErrorWrap(err, "deleting worker record")
		return failure(op, "deleting record")
	}

	// The image cleanup is best-effort. A failure leaves an orphaned
	// image at the host but never fails the delete.
	if worker.ImageID != "" {
		if err := a.Images.Delete(ctx, worker.ImageID); err != nil {
			log.WithFields(log.Fields{
				"uuid":     worker.UUID,
				"image_id": worker.ImageID,
			}).ErrorWrap(err, "deleting worker image")
		}
	}

	return OperationResult{
		OperationID: op.OperationID,
		Type:        op.Type,
		Success:     true,
		UUID:        worker.UUID,
		Deleted:     true,
		SyncVersion: next,
	}
}
