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

package app_test

import (
	"context"
	"testing"

	"github.com/rosterhq/roster/pkg/assert"
	"github.com/rosterhq/roster/pkg/server/app"
	"github.com/rosterhq/roster/pkg/server/database"
	"github.com/rosterhq/roster/pkg/server/testutils"
)

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func createOp(operationID, name, email string) app.Operation {
	return app.Operation{
		OperationID: operationID,
		Type:        app.OpCreate,
		ClientID:    "client-" + operationID,
		Data: &app.OperationData{
			Name:  strPtr(name),
			Email: strPtr(email),
		},
	}
}

func TestApplyCreate(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a, _, _, _ := testutils.InitTestApp(t, db)

	result := a.ApplyOperation(context.Background(), createOp("op1", "Alice", "Alice@Example.com "))

	assert.Equal(t, result.Success, true, "create should succeed")
	assert.Equal(t, result.SyncVersion, 1, "new record should be at version 1")
	if result.Worker == nil {
		t.Fatal("result should carry the created record")
	}
	assert.Equal(t, result.Worker.Email.String, "alice@example.com", "email should be normalized")
	assert.Equal(t, result.Worker.Deleted, false, "new record should not be a tombstone")
	assert.NotEqual(t, result.Worker.UUID, "", "record should be assigned a uuid")

	var count int64
	testutils.MustExec(t, db.Model(&database.Worker{}).Count(&count), "counting workers")
	assert.Equal(t, count, int64(1), "worker count mismatch")
}

func TestApplyCreate_Replay(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a, _, _, _ := testutils.InitTestApp(t, db)
	ctx := context.Background()

	first := a.ApplyOperation(ctx, createOp("op1", "Alice", "alice@example.com"))
	assert.Equal(t, first.Success, true, "first create should succeed")

	// A replayed create of the same record reports success with the
	// existing record instead of failing.
	second := a.ApplyOperation(ctx, createOp("op2", "Alice", "ALICE@example.com"))

	assert.Equal(t, second.Success, true, "replayed create should succeed")
	assert.Equal(t, second.Worker.UUID, first.Worker.UUID, "replay should return the existing record")
	assert.Equal(t, second.SyncVersion, 1, "replay should not bump the version")

	var count int64
	testutils.MustExec(t, db.Model(&database.Worker{}).Count(&count), "counting workers")
	assert.Equal(t, count, int64(1), "replay should not create a second record")
}

func TestApplyCreate_ReplayByClientID(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a, _, _, _ := testutils.InitTestApp(t, db)
	ctx := context.Background()

	op := createOp("op1", "Alice", "alice@example.com")
	first := a.ApplyOperation(ctx, op)
	assert.Equal(t, first.Success, true, "first create should succeed")

	// The record's email changes on the server
	update := a.ApplyOperation(ctx, app.Operation{
		OperationID: "op2",
		Type:        app.OpUpdate,
		UUID:        first.Worker.UUID,
		SyncVersion: intPtr(1),
		Data:        &app.OperationData{Email: strPtr("alice.new@example.com")},
	})
	assert.Equal(t, update.Success, true, "update should succeed")

	// A replay of the original create still resolves to the record via
	// its correlation token, not to a second create
	op.OperationID = "op3"
	replay := a.ApplyOperation(ctx, op)

	assert.Equal(t, replay.Success, true, "replayed create should succeed")
	assert.Equal(t, replay.Worker.UUID, first.Worker.UUID, "replay should return the existing record")
	assert.Equal(t, replay.Worker.Email.String, "alice.new@example.com", "replay should return the current state")

	var count int64
	testutils.MustExec(t, db.Model(&database.Worker{}).Count(&count), "counting workers")
	assert.Equal(t, count, int64(1), "replay should not create a second record")
}

func TestApplyCreate_Validation(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a, _, _, _ := testutils.InitTestApp(t, db)
	ctx := context.Background()

	testCases := []struct {
		name string
		op   app.Operation
	}{
		{
			name: "missing data",
			op:   app.Operation{OperationID: "op1", Type: app.OpCreate},
		},
		{
			name: "missing name",
			op: app.Operation{
				OperationID: "op2",
				Type:        app.OpCreate,
				Data:        &app.OperationData{Email: strPtr("a@example.com")},
			},
		},
		{
			name: "missing email",
			op: app.Operation{
				OperationID: "op3",
				Type:        app.OpCreate,
				Data:        &app.OperationData{Name: strPtr("Alice")},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := a.ApplyOperation(ctx, tc.op)

			assert.Equal(t, result.Success, false, "operation should fail")
			assert.NotEqual(t, result.Error, "", "failure should carry a message")
		})
	}
}

func TestApplyUpdate(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a, _, _, _ := testutils.InitTestApp(t, db)
	ctx := context.Background()

	created := a.ApplyOperation(ctx, createOp("op1", "Alice", "alice@example.com"))

	result := a.ApplyOperation(ctx, app.Operation{
		OperationID: "op2",
		Type:        app.OpUpdate,
		UUID:        created.Worker.UUID,
		SyncVersion: intPtr(1),
		Data: &app.OperationData{
			Phone: strPtr("555-0101"),
			Age:   intPtr(34),
		},
	})

	assert.Equal(t, result.Success, true, "update should succeed")
	assert.Equal(t, result.SyncVersion, 2, "update should bump the version by exactly one")
	assert.Equal(t, result.Worker.Phone, "555-0101", "phone should be updated")
	assert.Equal(t, result.Worker.Age, 34, "age should be updated")
	assert.Equal(t, result.Worker.Name, "Alice", "unspecified fields should be unchanged")
}

func TestApplyUpdate_VersionMonotonic(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a, _, _, _ := testutils.InitTestApp(t, db)
	ctx := context.Background()

	created := a.ApplyOperation(ctx, createOp("op1", "Alice", "alice@example.com"))
	uuid := created.Worker.UUID

	for i := 1; i <= 5; i++ {
		result := a.ApplyOperation(ctx, app.Operation{
			OperationID: "op",
			Type:        app.OpUpdate,
			UUID:        uuid,
			SyncVersion: intPtr(i),
			Data:        &app.OperationData{Notes: strPtr("rev")},
		})

		assert.Equal(t, result.Success, true, "update should succeed")
		assert.Equal(t, result.SyncVersion, i+1, "version should increase by exactly one per write")
	}
}

func TestApplyUpdate_Conflict(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a, _, _, _ := testutils.InitTestApp(t, db)
	ctx := context.Background()

	created := a.ApplyOperation(ctx, createOp("op1", "Alice", "alice@example.com"))
	uuid := created.Worker.UUID

	// Another device advances the record to version 2
	winner := a.ApplyOperation(ctx, app.Operation{
		OperationID: "op2",
		Type:        app.OpUpdate,
		UUID:        uuid,
		SyncVersion: intPtr(1),
		Data:        &app.OperationData{Phone: strPtr("555-0101")},
	})
	assert.Equal(t, winner.Success, true, "first update should succeed")

	// A stale device still at version 1 loses
	stale := a.ApplyOperation(ctx, app.Operation{
		OperationID: "op3",
		Type:        app.OpUpdate,
		UUID:        uuid,
		SyncVersion: intPtr(1),
		Data:        &app.OperationData{Phone: strPtr("555-0202")},
	})

	assert.Equal(t, stale.Success, false, "stale update should be rejected")
	if stale.Conflict == nil {
		t.Fatal("rejection should carry the conflict versions")
	}
	assert.Equal(t, stale.Conflict.ServerVersion, 2, "server version mismatch")
	assert.Equal(t, stale.Conflict.ClientVersion, 1, "client version mismatch")
	if stale.Conflict.ServerRecord == nil {
		t.Fatal("conflict should carry the server's record")
	}
	assert.Equal(t, stale.Conflict.ServerRecord.Phone, "555-0101", "conflict should report the winning state")

	// The stale write must not have touched the record
	var worker database.Worker
	testutils.MustExec(t, db.Where("uuid = ?", uuid).First(&worker), "finding worker")
	assert.Equal(t, worker.Phone, "555-0101", "record should hold the winner's write")
	assert.Equal(t, worker.SyncVersion, 2, "version should be unchanged by the rejected write")
}

func TestApplyUpdate_MissingRecord(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a, _, _, _ := testutils.InitTestApp(t, db)

	result := a.ApplyOperation(context.Background(), app.Operation{
		OperationID: "op1",
		Type:        app.OpUpdate,
		UUID:        testutils.MustUUID(t),
		SyncVersion: intPtr(1),
		Data:        &app.OperationData{Name: strPtr("nobody")},
	})

	assert.Equal(t, result.Success, false, "update of a missing record should fail")
	assert.Equal(t, result.Error, "not found", "error message mismatch")
}

func TestApplyDelete(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a, _, imageStore, _ := testutils.InitTestApp(t, db)
	ctx := context.Background()

	created := a.ApplyOperation(ctx, createOp("op1", "Alice", "alice@example.com"))
	uuid := created.Worker.UUID

	testutils.MustExec(t, db.Model(&database.Worker{}).Where("uuid = ?", uuid).
		Update("image_id", "worker_images/alice"), "preparing image id")

	result := a.ApplyOperation(ctx, app.Operation{
		OperationID: "op2",
		Type:        app.OpDelete,
		UUID:        uuid,
	})

	assert.Equal(t, result.Success, true, "delete should succeed")
	assert.Equal(t, result.UUID, uuid, "result should carry the record id")
	assert.Equal(t, result.Deleted, true, "result should be marked deleted")
	assert.Equal(t, result.SyncVersion, 2, "delete should bump the version")

	// The row survives as a tombstone with credentials cleared
	var worker database.Worker
	testutils.MustExec(t, db.Where("uuid = ?", uuid).First(&worker), "finding tombstone")
	assert.Equal(t, worker.Deleted, true, "record should be a tombstone")
	assert.Equal(t, worker.SyncVersion, 2, "tombstone version mismatch")
	assert.Equal(t, worker.Password.String, "", "tombstone should not retain the credential hash")

	assert.DeepEqual(t, imageStore.Deleted, []string{"worker_images/alice"}, "image should be cleaned up")
}

func TestApplyDelete_Replay(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a, _, _, _ := testutils.InitTestApp(t, db)
	ctx := context.Background()

	created := a.ApplyOperation(ctx, createOp("op1", "Alice", "alice@example.com"))
	uuid := created.Worker.UUID

	first := a.ApplyOperation(ctx, app.Operation{OperationID: "op2", Type: app.OpDelete, UUID: uuid})
	assert.Equal(t, first.Success, true, "first delete should succeed")

	second := a.ApplyOperation(ctx, app.Operation{OperationID: "op3", Type: app.OpDelete, UUID: uuid})

	assert.Equal(t, second.Success, true, "replayed delete should succeed")
	assert.Equal(t, second.UUID, uuid, "replayed delete should carry the record id")
	assert.Equal(t, second.SyncVersion, first.SyncVersion, "replayed delete should not bump the version")
}

func TestApplyOperation_InvalidType(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a, _, _, _ := testutils.InitTestApp(t, db)

	result := a.ApplyOperation(context.Background(), app.Operation{
		OperationID: "op1",
		Type:        "UPSERT",
	})

	assert.Equal(t, result.Success, false, "unknown operation type should fail")
	assert.Equal(t, result.Error, "invalid operation type 'UPSERT'", "error message mismatch")
}

func TestProcessBatch_PartialFailure(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a, _, _, _ := testutils.InitTestApp(t, db)

	operations := []app.Operation{
		createOp("op1", "Alice", "alice@example.com"),
		{OperationID: "op2", Type: "UPSERT"},
		createOp("op3", "Bob", "bob@example.com"),
	}

	results, summary := a.ProcessBatch(context.Background(), operations)

	assert.Equal(t, len(results), 3, "result count mismatch")
	assert.Equal(t, summary.Total, 3, "total mismatch")
	assert.Equal(t, summary.Success, 2, "success count mismatch")
	assert.Equal(t, summary.Failed, 1, "failed count mismatch")

	// Results come back in submission order
	assert.Equal(t, results[0].OperationID, "op1", "result order mismatch")
	assert.Equal(t, results[0].Success, true, "op1 should succeed")
	assert.Equal(t, results[1].OperationID, "op2", "result order mismatch")
	assert.Equal(t, results[1].Success, false, "op2 should fail")
	assert.Equal(t, results[2].OperationID, "op3", "result order mismatch")
	assert.Equal(t, results[2].Success, true, "op3 should proceed after a failure")

	var count int64
	testutils.MustExec(t, db.Model(&database.Worker{}).Count(&count), "counting workers")
	assert.Equal(t, count, int64(2), "worker count mismatch")
}
