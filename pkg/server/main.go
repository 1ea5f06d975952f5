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

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/rosterhq/roster/pkg/clock"
	"github.com/rosterhq/roster/pkg/server/app"
	"github.com/rosterhq/roster/pkg/server/buildinfo"
	"github.com/rosterhq/roster/pkg/server/config"
	"github.com/rosterhq/roster/pkg/server/controllers"
	"github.com/rosterhq/roster/pkg/server/database"
	"github.com/rosterhq/roster/pkg/server/images"
	"github.com/rosterhq/roster/pkg/server/job"
	"github.com/rosterhq/roster/pkg/server/lease"
	"github.com/rosterhq/roster/pkg/server/log"
	"github.com/rosterhq/roster/pkg/server/mailer"
)

func initDB(dbPath string) *gorm.DB {
	db := database.Open(dbPath)
	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		panic(errors.Wrap(err, "running migrations"))
	}

	database.StartWALCheckpointing(db, 5*time.Minute)
	database.StartPeriodicVacuum(db, 24*time.Hour)

	return db
}

func initImageStore(cfg config.Config) images.Store {
	if cfg.ImageHostURL == "" {
		log.Info("Image host not configured, profile images disabled")
		return images.NoopStore{}
	}

	log.Info("Image host configured")
	return images.NewClient(cfg.ImageHostURL, cfg.ImageHostKey, cfg.ImageHostSecret)
}

func initApp(cfg config.Config) app.App {
	db := initDB(cfg.DBPath)

	var emailBackend mailer.Backend
	emailBackend, err := mailer.NewDefaultBackend()
	if err != nil {
		emailBackend = mailer.NewStdoutBackend()
	} else {
		log.Info("Email backend configured")
	}

	return app.App{
		DB:                  db,
		Clock:               clock.New(),
		Images:              initImageStore(cfg),
		EmailBackend:        emailBackend,
		CreateLeases:        lease.NewSet(),
		TokenSecret:         []byte(cfg.TokenSecret),
		AppEnv:              cfg.AppEnv,
		WebURL:              cfg.WebURL,
		DisableRegistration: cfg.DisableRegistration,
		Port:                cfg.Port,
		DBPath:              cfg.DBPath,
	}
}

func startCmd(args []string) {
	startFlags := flag.NewFlagSet("start", flag.ExitOnError)
	startFlags.Usage = func() {
		fmt.Printf(`Usage:
  roster-server start [flags]

Flags:
`)
		startFlags.PrintDefaults()
	}

	appEnv := startFlags.String("appEnv", "", "Application environment (env: APP_ENV, default: PRODUCTION)")
	port := startFlags.String("port", "", "Server port (env: PORT, default: 4000)")
	webURL := startFlags.String("webUrl", "", "Full URL to server without trailing slash (env: WebURL, example: https://example.com)")
	dbPath := startFlags.String("dbPath", "", "Path to SQLite database file (env: DBPath, default: roster.db)")
	disableRegistration := startFlags.Bool("disableRegistration", false, "Disable account registration (env: DisableRegistration, default: false)")
	logLevel := startFlags.String("logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")

	startFlags.Parse(args)

	cfg, err := config.New(config.Params{
		AppEnv:              *appEnv,
		Port:                *port,
		WebURL:              *webURL,
		DBPath:              *dbPath,
		DisableRegistration: *disableRegistration,
		LogLevel:            *logLevel,
	})
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		startFlags.Usage()
		os.Exit(1)
	}

	log.SetLevel(cfg.LogLevel)

	app := initApp(cfg)
	defer func() {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}()

	if _, err := job.Run(&app); err != nil {
		panic(errors.Wrap(err, "starting jobs"))
	}

	ctl := controllers.New(&app)
	rc := controllers.RouteConfig{
		APIRoutes:   controllers.NewAPIRoutes(&app, ctl),
		Controllers: ctl,
	}

	r, err := controllers.NewRouter(&app, rc)
	if err != nil {
		panic(errors.Wrap(err, "initializing router"))
	}

	log.WithFields(log.Fields{
		"version": buildinfo.Version,
		"port":    cfg.Port,
	}).Info("Roster server starting")

	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.ErrorWrap(err, "server failed")
		os.Exit(1)
	}
}

// adminCmd promotes an existing account to the admin role
func adminCmd(args []string) {
	adminFlags := flag.NewFlagSet("admin", flag.ExitOnError)
	adminFlags.Usage = func() {
		fmt.Printf(`Usage:
  roster-server admin --email EMAIL [flags]

Flags:
`)
		adminFlags.PrintDefaults()
	}

	email := adminFlags.String("email", "", "Email of the account to promote")
	dbPath := adminFlags.String("dbPath", "", "Path to SQLite database file (env: DBPath, default: roster.db)")

	adminFlags.Parse(args)

	if *email == "" {
		adminFlags.Usage()
		os.Exit(1)
	}

	cfg, err := config.New(config.Params{DBPath: *dbPath})
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		os.Exit(1)
	}

	db := initDB(cfg.DBPath)

	res := db.Model(&database.Worker{}).
		Where("email = ? AND deleted = ?", *email, false).
		Update("role", database.RoleAdmin)
	if res.Error != nil {
		fmt.Printf("Error: %s\n", res.Error)
		os.Exit(1)
	}
	if res.RowsAffected == 0 {
		fmt.Printf("No account found with email %s\n", *email)
		os.Exit(1)
	}

	fmt.Printf("Promoted %s to admin\n", *email)
}

func versionCmd() {
	fmt.Printf("roster-server-%s\n", buildinfo.Version)
}

func rootCmd() {
	fmt.Printf(`Roster server - worker roster backend with multi-device sync

Usage:
  roster-server [command] [flags]

Available commands:
  start: Start the server (use 'roster-server start --help' for flags)
  admin: Promote an account to the admin role
  version: Print the version
`)
}

func main() {
	if err := godotenv.Load(); err == nil {
		log.Info("Loaded environment from .env")
	}

	if len(os.Args) < 2 {
		rootCmd()
		return
	}

	cmd := os.Args[1]

	switch cmd {
	case "start":
		startCmd(os.Args[2:])
	case "admin":
		adminCmd(os.Args[2:])
	case "version":
		versionCmd()
	default:
		fmt.Printf("Unknown command %s\n", cmd)
		rootCmd()
		os.Exit(1)
	}
}
