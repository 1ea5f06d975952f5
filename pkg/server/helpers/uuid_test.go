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

package helpers

import (
	"testing"

	"github.com/rosterhq/roster/pkg/assert"
)

func TestGenUUID(t *testing.T) {
	u1, err := GenUUID()
	if err != nil {
		t.Fatalf("generating uuid: %v", err)
	}
	u2, err := GenUUID()
	if err != nil {
		t.Fatalf("generating uuid: %v", err)
	}

	assert.Equal(t, ValidateUUID(u1), true, "generated uuid should be valid")
	assert.NotEqual(t, u1, u2, "uuids should be unique")
}

func TestValidateUUID(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
	}{
		{input: "3ca9a67c-9cbf-4bf3-8b02-9d26d43a6bdf", expected: true},
		{input: "", expected: false},
		{input: "not-a-uuid", expected: false},
		{input: "3ca9a67c9cbf4bf38b029d26d43a6bdf", expected: true},
	}

	for _, tc := range testCases {
		assert.Equal(t, ValidateUUID(tc.input), tc.expected, "validation mismatch for "+tc.input)
	}
}
