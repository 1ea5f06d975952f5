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
	"net/http"
	"net/url"
	"strconv"

	"github.com/rosterhq/roster/pkg/server/app"
)

const (
	defaultChangesLimit = 100
	maxChangesLimit     = 500
)

// NewSync creates a new Sync controller
func NewSync(app *app.App) *Sync {
	return &Sync{app: app}
}

// Sync is a sync controller
type Sync struct {
	app *app.App
}

type bulkSyncPayload struct {
	Operations *[]app.Operation `json:"operations"`
}

type bulkSyncResponse struct {
	Results    []app.OperationResult `json:"results"`
	Summary    app.BatchSummary      `json:"summary"`
	ServerTime int64                 `json:"serverTime"`
}

// Bulk handles POST /api/sync/bulk. Invalid individual operations are
// reported in the per-operation results; the request itself fails only
// if the payload has no operations array.
func (s *Sync) Bulk(w http.ResponseWriter, r *http.Request) {
	var payload bulkSyncPayload
	if err := parseJSON(r, &payload); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	if payload.Operations == nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "operations must be an array"})
		return
	}

	results, summary := s.app.ProcessBatch(r.Context(), *payload.Operations)

	respondJSON(w, http.StatusOK, bulkSyncResponse{
		Results:    results,
		Summary:    summary,
		ServerTime: s.app.Clock.Now().UnixMilli(),
	})
}

func parseGetChangesQuery(q url.Values) (int64, int, error) {
	var since int64
	limit := defaultChangesLimit

	sinceStr := q.Get("since")
	limitStr := q.Get("limit")

	if sinceStr != "" {
		parsed, err := strconv.ParseInt(sinceStr, 10, 64)
		if err != nil || parsed < 0 {
			return 0, 0, &queryParamError{
				key:     "since",
				value:   sinceStr,
				message: "must be a non-negative integer",
			}
		}

		since = parsed
	}

	if limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			return 0, 0, &queryParamError{
				key:     "limit",
				value:   limitStr,
				message: "must be a positive integer",
			}
		}
		if parsed > maxChangesLimit {
			return 0, 0, &queryParamError{
				key:     "limit",
				value:   limitStr,
				message: "maximum value is 500",
			}
		}

		limit = parsed
	}

	return since, limit, nil
}

// Changes handles GET /api/sync/changes
func (s *Sync) Changes(w http.ResponseWriter, r *http.Request) {
	since, limit, err := parseGetChangesQuery(r.URL.Query())
	if err != nil {
		handleJSONError(w, err, "parsing query")
		return
	}

	feed, err := s.app.GetChangesSince(since, limit)
	if err != nil {
		handleJSONError(w, err, "getting changes")
		return
	}

	respondJSON(w, http.StatusOK, feed)
}

// Stats handles GET /api/sync/stats
func (s *Sync) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.app.GetSyncStats()
	if err != nil {
		handleJSONError(w, err, "getting stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
