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

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"

	"github.com/rosterhq/roster/pkg/server/app"
	mw "github.com/rosterhq/roster/pkg/server/middleware"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	APIRoutes   []Route
}

// NewAPIRoutes returns a new api routes
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	auth := func(h http.HandlerFunc) http.HandlerFunc {
		return mw.Auth(a.DB, a.TokenSecret, h)
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return auth(mw.AdminOnly(h))
	}

	ret := []Route{
		{"POST", "/auth/signin", c.Users.Login, true},

		{"GET", "/users", admin(c.Users.Index), true},
		{"GET", "/users/me", auth(c.Users.Me), true},
		{"PATCH", "/users/{workerUUID}", admin(c.Users.Update), true},
		{"DELETE", "/users/{workerUUID}", admin(c.Users.Delete), true},
		{"PUT", "/users/{workerUUID}/image", auth(c.Users.UploadImage), true},

		{"POST", "/sync/bulk", auth(c.Sync.Bulk), false},
		{"GET", "/sync/changes", auth(c.Sync.Changes), false},
		{"GET", "/sync/stats", admin(c.Sync.Stats), true},
	}

	if !a.DisableRegistration {
		ret = append(ret, Route{"POST", "/auth/signup", c.Users.Register, true})
	}

	return ret
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	apiRouter := router.PathPrefix("/api").Subrouter()
	registerRoutes(apiRouter, mw.APIMw, app, rc.APIRoutes)

	router.HandleFunc("/health", rc.Controllers.Health.Index).Methods("GET")

	router.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nAllow: /"))
	})

	// catch-all
	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})

	corsWrapper := cors.New(cors.Options{
		AllowedOrigins: []string{app.WebURL},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	return mw.Global(corsWrapper.Handler(router)), nil
}
