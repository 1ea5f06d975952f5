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

package controllers_test

import (
	"net/http"
	"os"
	"testing"

	"github.com/rosterhq/roster/pkg/assert"
	"github.com/rosterhq/roster/pkg/server/controllers"
	"github.com/rosterhq/roster/pkg/server/testutils"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "TEST")
	os.Exit(m.Run())
}

func TestHealth(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a, _, _, _ := testutils.InitTestApp(t, db)
	server := controllers.MustNewServer(t, a)
	defer server.Close()

	req := testutils.MakeReq(server.URL, "GET", "/health", "")
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusOK, "status mismatch")

	var got struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	testutils.MustUnmarshalJSON(t, res, &got)

	assert.Equal(t, got.Status, "ok", "status field mismatch")
	assert.NotEqual(t, got.Version, "", "version should be set")
}

func TestNotFound(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a, _, _, _ := testutils.InitTestApp(t, db)
	server := controllers.MustNewServer(t, a)
	defer server.Close()

	req := testutils.MakeReq(server.URL, "GET", "/no/such/route", "")
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusNotFound, "status mismatch")

	var got struct {
		Error string `json:"error"`
	}
	testutils.MustUnmarshalJSON(t, res, &got)
	assert.Equal(t, got.Error, "not found", "error message mismatch")
}
