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

package database

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"time"
)

const (
	// RoleAdmin is the role for administrators
	RoleAdmin = "admin"
	// RoleWorker is the default role
	RoleWorker = "worker"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Worker is the synchronized worker record. SyncVersion increases by
// exactly one on every accepted mutation, including administrative
// writes. Deleted rows are tombstones and are never removed.
type Worker struct {
	Model
	UUID         string     `json:"uuid" gorm:"uniqueIndex;type:text"`
	Name         string     `json:"name"`
	Email        NullString `json:"email" gorm:"uniqueIndex"`
	Password     NullString `json:"-"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
	Age          int        `json:"age"`
	Notes        string     `json:"notes"`
	Role         string     `json:"role" gorm:"default:worker"`
	ImageID      string     `json:"-"`
	ImageURL     string     `json:"image_url"`
	ClientID     string     `json:"client_id" gorm:"index"`
	SyncVersion  int        `json:"sync_version" gorm:"default:1"`
	LastModified int64      `json:"last_modified" gorm:"index"`
	Deleted      bool       `json:"-" gorm:"default:false;index"`
	LastLoginAt  *time.Time `json:"-"`
}

// NullString is an alias for sql.NullString
type NullString sql.NullString

// ToNullString converts a string into a valid NullString
func ToNullString(s string) NullString {
	return NullString{String: s, Valid: true}
}

// Scan implements the Scanner interface for NullString
func (s *NullString) Scan(value interface{}) error {
	ns := sql.NullString(*s)
	if err := ns.Scan(value); err != nil {
		return err
	}

	*s = NullString(ns)
	return nil
}

// Value implements the driver Valuer interface for NullString
func (s NullString) Value() (driver.Value, error) {
	if !s.Valid {
		return nil, nil
	}

	return s.String, nil
}

// MarshalJSON implements json.Marshaler for NullString
func (s NullString) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(s.String)
}

// UnmarshalJSON implements json.Unmarshaler for NullString
func (s *NullString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = NullString{}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	*s = NullString{String: str, Valid: true}
	return nil
}
