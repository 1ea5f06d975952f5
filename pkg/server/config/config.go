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

// Package config loads and validates the server configuration
package config

import (
	"net/url"
	"os"

	"github.com/pkg/errors"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// DefaultDBPath is the default path to the database file
	DefaultDBPath = "roster.db"
)

var (
	// ErrDBMissingPath is an error for a configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrWebURLInvalid is an error for a configuration with an invalid web url
	ErrWebURLInvalid = errors.New("Invalid WebURL")
	// ErrPortInvalid is an error for a configuration with an invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrTokenSecretMissing is an error for a configuration missing the token signing secret
	ErrTokenSecretMissing = errors.New("Token secret is empty")
)

func readBoolEnv(name string) bool {
	return os.Getenv(name) == "true"
}

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

// Config is an application configuration
type Config struct {
	AppEnv              string
	WebURL              string
	Port                string
	DBPath              string
	LogLevel            string
	TokenSecret         string
	DisableRegistration bool
	ImageHostURL        string
	ImageHostKey        string
	ImageHostSecret     string
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	AppEnv              string
	Port                string
	WebURL              string
	DBPath              string
	LogLevel            string
	DisableRegistration bool
}

// New constructs and returns a new validated config. Empty string params
// fall back to environment variables and defaults. Secrets are read from
// the environment only.
func New(p Params) (Config, error) {
	c := Config{
		AppEnv:              getOrEnv(p.AppEnv, "APP_ENV", AppEnvProduction),
		Port:                getOrEnv(p.Port, "PORT", "4000"),
		WebURL:              getOrEnv(p.WebURL, "WebURL", "http://localhost:4000"),
		DBPath:              getOrEnv(p.DBPath, "DBPath", DefaultDBPath),
		LogLevel:            getOrEnv(p.LogLevel, "LOG_LEVEL", "info"),
		TokenSecret:         os.Getenv("TOKEN_SECRET"),
		DisableRegistration: p.DisableRegistration || readBoolEnv("DisableRegistration"),
		ImageHostURL:        os.Getenv("IMAGE_HOST_URL"),
		ImageHostKey:        os.Getenv("IMAGE_HOST_KEY"),
		ImageHostSecret:     os.Getenv("IMAGE_HOST_SECRET"),
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

func validate(c Config) error {
	if _, err := url.ParseRequestURI(c.WebURL); err != nil {
		return errors.Wrapf(ErrWebURLInvalid, "'%s'", c.WebURL)
	}
	if c.Port == "" {
		return ErrPortInvalid
	}
	if c.DBPath == "" {
		return ErrDBMissingPath
	}
	if c.TokenSecret == "" {
		return ErrTokenSecretMissing
	}

	return nil
}
