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

package lease

import (
	"sync"
	"testing"

	"github.com/rosterhq/roster/pkg/assert"
)

func TestAcquireRelease(t *testing.T) {
	s := NewSet()

	assert.Equal(t, s.Acquire("alice@example.com"), true, "first acquire should succeed")
	assert.Equal(t, s.Acquire("alice@example.com"), false, "second acquire should fail while held")
	assert.Equal(t, s.Acquire("bob@example.com"), true, "unrelated key should be acquirable")

	s.Release("alice@example.com")
	assert.Equal(t, s.Acquire("alice@example.com"), true, "acquire after release should succeed")
}

func TestReleaseUnheld(t *testing.T) {
	s := NewSet()

	// must not panic or affect other keys
	s.Release("never-acquired")
	assert.Equal(t, s.Len(), 0, "unexpected held lease")
}

func TestConcurrentAcquire(t *testing.T) {
	s := NewSet()

	var wg sync.WaitGroup
	var mu sync.Mutex
	acquired := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Acquire("contended") {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, acquired, 1, "exactly one goroutine should win the lease")
}
