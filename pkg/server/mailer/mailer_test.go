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

package mailer

import (
	"strings"
	"testing"

	"gopkg.in/gomail.v2"

	"github.com/rosterhq/roster/pkg/assert"
)

type mockDialer struct {
	sentMessages []*gomail.Message
}

func (d *mockDialer) DialAndSend(m ...*gomail.Message) error {
	d.sentMessages = append(d.sentMessages, m...)
	return nil
}

func TestExecuteWelcome(t *testing.T) {
	subject, body, err := NewTemplates().Execute(EmailTypeWelcome, WelcomeData{
		Name:   "Alice",
		Email:  "alice@example.com",
		WebURL: "http://localhost:4000",
	})
	if err != nil {
		t.Fatalf("executing template: %v", err)
	}

	assert.Equal(t, subject, "Welcome to Roster", "subject mismatch")
	assert.Equal(t, strings.Contains(body, "Hello Alice"), true, "body should greet by name")
	assert.Equal(t, strings.Contains(body, "alice@example.com"), true, "body should contain the email")
}

func TestExecuteUnsupported(t *testing.T) {
	_, _, err := NewTemplates().Execute("nonexistent", nil)
	assert.NotEqual(t, err, nil, "expected an error")
}

func TestSendEmail(t *testing.T) {
	dialer := &mockDialer{}
	b := DefaultBackend{Dialer: dialer, Templates: NewTemplates()}

	err := b.SendEmail(EmailTypeWelcome, "noreply@roster.test", []string{"alice@example.com"}, WelcomeData{
		Name:   "Alice",
		Email:  "alice@example.com",
		WebURL: "http://localhost:4000",
	})
	if err != nil {
		t.Fatalf("sending email: %v", err)
	}

	assert.Equal(t, len(dialer.sentMessages), 1, "message count mismatch")
	assert.DeepEqual(t, dialer.sentMessages[0].GetHeader("To"), []string{"alice@example.com"}, "recipient mismatch")
}
