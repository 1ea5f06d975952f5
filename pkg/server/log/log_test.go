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

package log

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rosterhq/roster/pkg/assert"
)

func TestShouldLog(t *testing.T) {
	testCases := []struct {
		configured string
		level      string
		expected   bool
	}{
		{LevelInfo, LevelDebug, false},
		{LevelInfo, LevelInfo, true},
		{LevelInfo, LevelWarn, true},
		{LevelInfo, LevelError, true},
		{LevelError, LevelWarn, false},
		{LevelDebug, LevelDebug, true},
	}

	defer SetLevel(LevelInfo)

	for _, tc := range testCases {
		SetLevel(tc.configured)
		assert.Equal(t, shouldLog(tc.level), tc.expected, "shouldLog mismatch")
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	WithFields(Fields{
		"foo": "bar",
		"n":   3,
	}).Info("hello")

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshalling log output: %v", err)
	}

	assert.Equal(t, got["level"], "info", "level mismatch")
	assert.Equal(t, got["msg"], "hello", "msg mismatch")
	assert.Equal(t, got["foo"], "bar", "field mismatch")
	assert.Equal(t, got["n"], float64(3), "numeric field mismatch")
}

func TestErrorField(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	WithFields(Fields{
		"err": errTest{},
	}).Error("failed")

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshalling log output: %v", err)
	}

	assert.Equal(t, got["err"], "test error", "error field should be serialized as its message")
}

type errTest struct{}

func (e errTest) Error() string {
	return "test error"
}
