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

package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/rosterhq/roster/pkg/server/log"
)

// getTokenFromAuth extracts a bearer token from the Authorization
// header. It returns an empty string if the header is absent and an
// error if the header is malformed.
func getTokenFromAuth(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", nil
	}

	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("malformed authorization header")
	}

	return parts[1], nil
}

// GetCredential extracts the client's credential from the request. The
// Authorization header takes precedence over the token query
// parameter.
func GetCredential(r *http.Request) (string, error) {
	ret, err := getTokenFromAuth(r)
	if err != nil {
		return "", errors.Wrap(err, "getting token from auth header")
	}

	if ret == "" {
		ret = r.URL.Query().Get("token")
	}

	return ret, nil
}

// DoError logs the error and responds with the given status
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	var message string
	if err == nil {
		message = msg
	} else {
		message = fmt.Sprintf("%s: %s", msg, err.Error())
	}

	log.WithFields(log.Fields{
		"statusCode": statusCode,
	}).Error(message)

	http.Error(w, msg, statusCode)
}

// RespondUnauthorized responds with a 401
func RespondUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// RespondForbidden responds with a 403
func RespondForbidden(w http.ResponseWriter) {
	http.Error(w, "forbidden", http.StatusForbidden)
}
