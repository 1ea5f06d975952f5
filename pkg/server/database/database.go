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

// Package database provides the database connection and schema
package database

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rosterhq/roster/pkg/server/log"
)

// InitSchema migrates the database schema to reflect the latest model
// definition
func InitSchema(db *gorm.DB) {
	if err := db.AutoMigrate(
		&Worker{},
	); err != nil {
		panic(err)
	}
}

// Open initializes the database connection
func Open(dbPath string) *gorm.DB {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		panic(errors.Wrapf(err, "creating database directory at %s", dir))
	}

	// TranslateError surfaces unique constraint violations as
	// gorm.ErrDuplicatedKey, which the sync applier relies on.
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{TranslateError: true})
	if err != nil {
		panic(errors.Wrap(err, "opening database connection"))
	}

	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		panic(errors.Wrap(err, "enabling WAL mode"))
	}
	if err := db.Exec("PRAGMA busy_timeout=5000").Error; err != nil {
		panic(errors.Wrap(err, "setting busy timeout"))
	}

	return db
}

// StartWALCheckpointing periodically checkpoints the WAL file so that it
// does not grow unbounded
func StartWALCheckpointing(db *gorm.DB, interval time.Duration) {
	go func() {
		for {
			time.Sleep(interval)

			if err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
				log.ErrorWrap(err, "checkpointing WAL")
			}
		}
	}()
}

// StartPeriodicVacuum periodically vacuums the database to reclaim space
func StartPeriodicVacuum(db *gorm.DB, interval time.Duration) {
	go func() {
		for {
			time.Sleep(interval)

			if err := db.Exec("VACUUM").Error; err != nil {
				log.ErrorWrap(err, "vacuuming database")
			}
		}
	}()
}
