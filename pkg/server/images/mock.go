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

package images

import (
	"context"
	"sync"
)

// Mock is an in-memory Store for tests. It records calls and can be
// configured to fail.
type Mock struct {
	mu        sync.Mutex
	Uploads   []Upload
	Deleted   []string
	UploadErr error
	DeleteErr error
}

// Upload implements Store
func (m *Mock) Upload(ctx context.Context, filePath, name string) (Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UploadErr != nil {
		return Upload{}, m.UploadErr
	}

	u := Upload{
		ID:  "mock/" + name,
		URL: "https://images.test/mock/" + name,
	}
	m.Uploads = append(m.Uploads, u)

	return u, nil
}

// Delete implements Store
func (m *Mock) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.Deleted = append(m.Deleted, id)
	return nil
}

var _ Store = (*Mock)(nil)
