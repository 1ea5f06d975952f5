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

// Package context provides access to the values in the request context
package context

import (
	"context"

	"github.com/rosterhq/roster/pkg/server/database"
)

type contextKey string

const userKey contextKey = "user"

// WithUser returns a context with the given authenticated worker
func WithUser(ctx context.Context, w *database.Worker) context.Context {
	return context.WithValue(ctx, userKey, w)
}

// User retrieves the authenticated worker from the context. It returns
// nil if the context has none.
func User(ctx context.Context) *database.Worker {
	if w, ok := ctx.Value(userKey).(*database.Worker); ok {
		return w
	}

	return nil
}
