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

// Package lease provides short-lived in-process leases keyed by an
// arbitrary string. The sync applier holds a lease on a record's natural
// key for the duration of one create attempt so that concurrent duplicate
// creates for the same key do not race past the existence check.
package lease

import "sync"

// Set is a set of currently held leases
type Set struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewSet returns an empty lease set
func NewSet() *Set {
	return &Set{
		held: make(map[string]struct{}),
	}
}

// Acquire takes the lease for the given key. It returns false if the
// lease is already held.
func (s *Set) Acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.held[key]; ok {
		return false
	}

	s.held[key] = struct{}{}
	return true
}

// Release gives up the lease for the given key. Releasing a key that is
// not held is a no-op, so callers can release unconditionally on every
// exit path.
func (s *Set) Release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.held, key)
}

// Len returns the number of held leases
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.held)
}
