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

// Package presenters defines how domain records are presented over
// the API
package presenters

import (
	"time"

	"github.com/rosterhq/roster/pkg/server/database"
)

// Worker is a worker record presented over the API. Credentials and
// internal identifiers never appear here.
type Worker struct {
	UUID         string    `json:"uuid"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Age          int       `json:"age"`
	Notes        string    `json:"notes"`
	Role         string    `json:"role"`
	ImageURL     string    `json:"image_url"`
	SyncVersion  int       `json:"sync_version"`
	LastModified int64     `json:"last_modified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PresentWorker presents a worker record
func PresentWorker(w database.Worker) Worker {
	return Worker{
		UUID:         w.UUID,
		Name:         w.Name,
		Email:        w.Email.String,
		Phone:        w.Phone,
		Address:      w.Address,
		Age:          w.Age,
		Notes:        w.Notes,
		Role:         w.Role,
		ImageURL:     w.ImageURL,
		SyncVersion:  w.SyncVersion,
		LastModified: w.LastModified,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

// PresentWorkers presents a list of worker records
func PresentWorkers(workers []database.Worker) []Worker {
	ret := make([]Worker, 0, len(workers))
	for _, w := range workers {
		ret = append(ret, PresentWorker(w))
	}

	return ret
}

// Session is an authenticated session presented after signup or signin
type Session struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	Worker    Worker `json:"user"`
}
