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

package controllers

import (
	"fmt"
	"net/url"
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"github.com/rosterhq/roster/pkg/assert"
)

func TestParseGetChangesQuery(t *testing.T) {
	testCases := []struct {
		input string
		since int64
		limit int
		err   error
	}{
		{
			input: `since=1678752000000&limit=50`,
			since: 1678752000000,
			limit: 50,
			err:   nil,
		},
		{
			input: `limit=50`,
			since: 0,
			limit: 50,
			err:   nil,
		},
		{
			input: `since=1678752000000`,
			since: 1678752000000,
			limit: 100,
			err:   nil,
		},
		{
			input: "",
			since: 0,
			limit: 100,
			err:   nil,
		},
		{
			input: "limit=500",
			since: 0,
			limit: 500,
			err:   nil,
		},
		{
			input: "limit=501",
			since: 0,
			limit: 0,
			err: &queryParamError{
				key:     "limit",
				value:   "501",
				message: "maximum value is 500",
			},
		},
		{
			input: "limit=0",
			since: 0,
			limit: 0,
			err: &queryParamError{
				key:     "limit",
				value:   "0",
				message: "must be a positive integer",
			},
		},
		{
			input: "since=-1",
			since: 0,
			limit: 0,
			err: &queryParamError{
				key:     "since",
				value:   "-1",
				message: "must be a non-negative integer",
			},
		},
		{
			input: "since=yesterday",
			since: 0,
			limit: 0,
			err: &queryParamError{
				key:     "since",
				value:   "yesterday",
				message: "must be a non-negative integer",
			},
		},
	}

	for idx, tc := range testCases {
		q, err := url.ParseQuery(tc.input)
		if err != nil {
			t.Fatal(errors.Wrap(err, "parsing test input"))
		}

		since, limit, err := parseGetChangesQuery(q)
		ok := reflect.DeepEqual(err, tc.err)
		assert.Equal(t, ok, true, fmt.Sprintf("err mismatch for test case %d. Expected: %+v. Got: %+v", idx, tc.err, err))

		assert.Equal(t, since, tc.since, fmt.Sprintf("since mismatch for test case %d", idx))
		assert.Equal(t, limit, tc.limit, fmt.Sprintf("limit mismatch for test case %d", idx))
	}
}
