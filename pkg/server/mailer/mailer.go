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

// Package mailer provides a functionality to send emails
package mailer

import (
	"bytes"
	"text/template"

	"github.com/pkg/errors"
)

// EmailTypeWelcome represents a welcome email
const EmailTypeWelcome = "welcome"

// EmailKindText is the content type of text email
const EmailKindText = "text/plain"

var welcomeTmpl = template.Must(template.New(EmailTypeWelcome).Parse(`Hello {{.Name}},

Welcome to Roster. Your account is ready: sign in with {{.Email}} at
{{.WebURL}} on any of your devices and they will stay in sync.

The Roster team
`))

var subjects = map[string]string{
	EmailTypeWelcome: "Welcome to Roster",
}

// Templates renders email bodies by template type
type Templates struct{}

// NewTemplates initializes templates
func NewTemplates() Templates {
	return Templates{}
}

// Execute renders the subject and body for the given template type
func (Templates) Execute(templateType string, data interface{}) (subject, body string, err error) {
	subject, ok := subjects[templateType]
	if !ok {
		return "", "", errors.Errorf("unsupported template '%s'", templateType)
	}

	var tmpl *template.Template
	switch templateType {
	case EmailTypeWelcome:
		tmpl = welcomeTmpl
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", errors.Wrap(err, "executing template")
	}

	return subject, buf.String(), nil
}

// WelcomeData is the template data for a welcome email
type WelcomeData struct {
	Name   string
	Email  string
	WebURL string
}
