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

// Package testutils provides utilities used in tests
package testutils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rosterhq/roster/pkg/clock"
	"github.com/rosterhq/roster/pkg/server/app"
	"github.com/rosterhq/roster/pkg/server/database"
	"github.com/rosterhq/roster/pkg/server/helpers"
	"github.com/rosterhq/roster/pkg/server/images"
	"github.com/rosterhq/roster/pkg/server/lease"
	"github.com/rosterhq/roster/pkg/server/token"
)

// TokenSecret is the token signing secret used in tests
var TokenSecret = []byte("test-token-secret-0000000000000000")

// InitMemoryDB creates an in-memory SQLite database with the schema initialized
func InitMemoryDB(t *testing.T) *gorm.DB {
	// Use file-based in-memory database with unique UUID per test to avoid sharing
	uuid, err := helpers.GenUUID()
	if err != nil {
		t.Fatalf("failed to generate UUID for test database: %v", err)
	}
	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid)
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	database.InitSchema(db)
	database.Migrate(db)

	return db
}

// InitTestApp builds an app over the given database with test doubles
// for the external collaborators
func InitTestApp(t *testing.T, db *gorm.DB) (*app.App, *clock.Mock, *images.Mock, *MockEmailbackendImplementation) {
	c := clock.NewMock()
	imageStore := &images.Mock{}
	emailBackend := &MockEmailbackendImplementation{}

	a := &app.App{
		DB:           db,
		Clock:        c,
		Images:       imageStore,
		EmailBackend: emailBackend,
		CreateLeases: lease.NewSet(),
		TokenSecret:  TokenSecret,
		WebURL:       "http://localhost:4000",
		AppEnv:       "TEST",
	}

	return a, c, imageStore, emailBackend
}

// MustUUID generates a UUID and fails the test on error
func MustUUID(t *testing.T) string {
	uuid, err := helpers.GenUUID()
	if err != nil {
		t.Fatal(errors.Wrap(err, "Failed to generate UUID"))
	}
	return uuid
}

// SetupWorkerData creates and returns a new worker with email and password for testing purposes
func SetupWorkerData(db *gorm.DB, name, email, password string) database.Worker {
	uuid, err := helpers.GenUUID()
	if err != nil {
		panic(errors.Wrap(err, "Failed to generate UUID"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(errors.Wrap(err, "Failed to hash password"))
	}

	worker := database.Worker{
		UUID:        uuid,
		Name:        name,
		Email:       database.ToNullString(email),
		Password:    database.ToNullString(string(hashedPassword)),
		Role:        database.RoleWorker,
		SyncVersion: 1,
	}

	if err := db.Save(&worker).Error; err != nil {
		panic(errors.Wrap(err, "Failed to prepare worker"))
	}

	return worker
}

// SetupAdminData creates and returns a new admin worker for testing purposes
func SetupAdminData(db *gorm.DB, name, email, password string) database.Worker {
	worker := SetupWorkerData(db, name, email, password)

	if err := db.Model(&worker).Update("role", database.RoleAdmin).Error; err != nil {
		panic(errors.Wrap(err, "Failed to promote worker"))
	}
	worker.Role = database.RoleAdmin

	return worker
}

// HTTPDo makes an HTTP request and returns a response
func HTTPDo(t *testing.T, req *http.Request) *http.Response {
	hc := http.Client{
		// Do not follow redirects.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	res, err := hc.Do(req)
	if err != nil {
		t.Fatal(errors.Wrap(err, "performing http request"))
	}

	return res
}

// SetReqAuthHeader sets the authorization header in the given request for the given worker
func SetReqAuthHeader(t *testing.T, req *http.Request, worker database.Worker) {
	tok, err := token.Issue(worker.UUID, TokenSecret, token.DefaultValidity)
	if err != nil {
		t.Fatal(errors.Wrap(err, "issuing token"))
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", tok))
}

// HTTPAuthDo makes an HTTP request with an appropriate authorization header for a worker
func HTTPAuthDo(t *testing.T, req *http.Request, worker database.Worker) *http.Response {
	SetReqAuthHeader(t, req, worker)

	return HTTPDo(t, req)
}

// MakeReq makes an HTTP request and returns a response
func MakeReq(endpoint string, method, path, data string) *http.Request {
	u := fmt.Sprintf("%s%s", endpoint, path)

	req, err := http.NewRequest(method, u, strings.NewReader(data))

	if err != nil {
		panic(errors.Wrap(err, "constructing http request"))
	}

	return req
}

// MustExec fails the test if the given database query has error
func MustExec(t *testing.T, db *gorm.DB, message string) {
	if err := db.Error; err != nil {
		t.Fatalf("%s: %s", message, err.Error())
	}
}

// MustUnmarshalJSON decodes the response body into the given value and
// fails the test on error
func MustUnmarshalJSON(t *testing.T, res *http.Response, dest interface{}) {
	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		t.Fatal(errors.Wrap(err, "decoding response body"))
	}
}

// MockEmail is a mock email data
type MockEmail struct {
	TemplateType string
	From         string
	To           []string
	Data         interface{}
}

// MockEmailbackendImplementation is an email backend that records the emails
type MockEmailbackendImplementation struct {
	mu     sync.RWMutex
	Emails []MockEmail
}

// Clear clears the mock email queue
func (b *MockEmailbackendImplementation) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Emails = []MockEmail{}
}

// SendEmail records the email without sending anything
func (b *MockEmailbackendImplementation) SendEmail(templateType, from string, to []string, data interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Emails = append(b.Emails, MockEmail{
		TemplateType: templateType,
		From:         from,
		To:           to,
		Data:         data,
	})

	return nil
}
