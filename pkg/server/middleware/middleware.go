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

// Package middleware provides middleware for the server
package middleware

import (
	"net/http"
	"time"

	"github.com/rosterhq/roster/pkg/server/app"
	"github.com/rosterhq/roster/pkg/server/log"
)

// Middleware wraps a handler with the middleware appropriate for a
// route group
type Middleware func(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler

// APIMw is the middleware for API routes
func APIMw(h http.HandlerFunc, a *app.App, rateLimit bool) http.Handler {
	return ApplyLimit(h, rateLimit)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func logging(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sw := statusWriter{ResponseWriter: w, status: http.StatusOK}
		inner.ServeHTTP(&sw, r)

		log.WithFields(log.Fields{
			"remoteAddr": lookupIP(r),
			"method":     r.Method,
			"uri":        r.RequestURI,
			"statusCode": sw.status,
			"duration":   time.Since(start).String(),
		}).Info("incoming request")
	})
}

func recoverPanic(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithFields(log.Fields{
					"uri":       r.RequestURI,
					"recovered": rec,
				}).Error("recovered from panic while serving request")
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		inner.ServeHTTP(w, r)
	})
}

// Global applies the middleware for all routes
func Global(inner http.Handler) http.Handler {
	return recoverPanic(logging(inner))
}

// NotSupported is the handler for unsupported API versions
var NotSupported = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "API version not supported", http.StatusGone)
})
