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

package token

import (
	"testing"
	"time"

	"github.com/rosterhq/roster/pkg/assert"
)

var testSecret = []byte("test-signing-secret")

func TestIssueVerify(t *testing.T) {
	tok, err := Issue("worker-uuid-1", testSecret, DefaultValidity)
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	assert.NotEqual(t, tok, "", "token should not be empty")

	subject, err := Verify(tok, testSecret)
	if err != nil {
		t.Fatalf("verifying token: %v", err)
	}
	assert.Equal(t, subject, "worker-uuid-1", "subject mismatch")
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, err := Issue("worker-uuid-1", testSecret, DefaultValidity)
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}

	_, err = Verify(tok, []byte("some other secret"))
	assert.Equal(t, err, ErrInvalid, "error mismatch")
}

func TestVerify_Expired(t *testing.T) {
	tok, err := Issue("worker-uuid-1", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}

	_, err = Verify(tok, testSecret)
	assert.Equal(t, err, ErrInvalid, "error mismatch")
}

func TestVerify_Garbage(t *testing.T) {
	_, err := Verify("not-a-token", testSecret)
	assert.Equal(t, err, ErrInvalid, "error mismatch")
}
