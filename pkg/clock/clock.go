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

// Package clock abstracts the standard time package so that tests can
// control the current time.
package clock

import (
	"sync"
	"time"
)

// Clock tells the current time. Production code uses the real clock and
// tests use a mock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (c *systemClock) Now() time.Time {
	return time.Now()
}

// New returns a clock backed by the system time
func New() Clock {
	return &systemClock{}
}

// Mock is a clock whose current time is set manually
type Mock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewMock returns a mock clock initialized to a fixed instant
func NewMock() *Mock {
	return &Mock{
		now: time.Date(2023, time.March, 14, 9, 26, 53, 0, time.UTC),
	}
}

// Now returns the time the mock is set to
func (c *Mock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// SetNow sets the time the mock reports
func (c *Mock) SetNow(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the mock clock forward by d
func (c *Mock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
