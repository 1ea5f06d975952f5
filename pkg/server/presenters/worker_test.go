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

package presenters

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rosterhq/roster/pkg/assert"
	"github.com/rosterhq/roster/pkg/server/database"
)

func TestPresentWorker(t *testing.T) {
	w := database.Worker{
		UUID:         "worker-uuid",
		Name:         "Alice",
		Email:        database.ToNullString("alice@example.com"),
		Password:     database.ToNullString("hashed-secret"),
		Role:         database.RoleWorker,
		SyncVersion:  3,
		LastModified: 1678752000000,
	}

	got := PresentWorker(w)

	assert.Equal(t, got.UUID, "worker-uuid", "uuid mismatch")
	assert.Equal(t, got.Email, "alice@example.com", "email mismatch")
	assert.Equal(t, got.SyncVersion, 3, "sync_version mismatch")

	b, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshalling: %v", err)
	}
	if strings.Contains(string(b), "hashed-secret") {
		t.Errorf("presented worker leaked the password hash: %s", string(b))
	}
}
