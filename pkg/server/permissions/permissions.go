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

// Package permissions provides role checks for protected operations
package permissions

import (
	"github.com/rosterhq/roster/pkg/server/database"
)

// ManageWorkers checks if the given worker may administer other workers
func ManageWorkers(w *database.Worker) bool {
	if w == nil {
		return false
	}

	return w.Role == database.RoleAdmin
}

// EditWorker checks if actor may edit the given target record. Admins
// may edit anyone; everyone may edit their own record.
func EditWorker(actor *database.Worker, target database.Worker) bool {
	if actor == nil {
		return false
	}
	if actor.Role == database.RoleAdmin {
		return true
	}

	return actor.UUID == target.UUID
}
