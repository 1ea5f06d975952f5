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

package permissions

import (
	"testing"

	"github.com/rosterhq/roster/pkg/assert"
	"github.com/rosterhq/roster/pkg/server/database"
)

func TestManageWorkers(t *testing.T) {
	admin := database.Worker{UUID: "admin-uuid", Role: database.RoleAdmin}
	worker := database.Worker{UUID: "worker-uuid", Role: database.RoleWorker}

	assert.Equal(t, ManageWorkers(&admin), true, "admin should manage workers")
	assert.Equal(t, ManageWorkers(&worker), false, "worker should not manage workers")
	assert.Equal(t, ManageWorkers(nil), false, "guest should not manage workers")
}

func TestEditWorker(t *testing.T) {
	admin := database.Worker{UUID: "admin-uuid", Role: database.RoleAdmin}
	alice := database.Worker{UUID: "alice-uuid", Role: database.RoleWorker}
	bob := database.Worker{UUID: "bob-uuid", Role: database.RoleWorker}

	assert.Equal(t, EditWorker(&admin, alice), true, "admin should edit anyone")
	assert.Equal(t, EditWorker(&alice, alice), true, "worker should edit self")
	assert.Equal(t, EditWorker(&alice, bob), false, "worker should not edit others")
	assert.Equal(t, EditWorker(nil, alice), false, "guest should not edit anyone")
}
