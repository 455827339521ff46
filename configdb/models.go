// Copyright (C) 2025-2026 Ultraconf Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package configdb

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction enumerates the recorded mutation kinds.
type AuditAction string

const (
	ActionCreated AuditAction = "created"
	ActionUpdated AuditAction = "updated"
	ActionDeleted AuditAction = "deleted"
)

// Valid reports whether the action is one of the three recorded kinds.
func (a AuditAction) Valid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionDeleted:
		return true
	}
	return false
}

// Categories accepted for configuration entries. The empty string means
// uncategorized.
var Categories = []string{"system", "application", "security", "performance"}

// ValidCategory reports whether category is empty or one of Categories.
func ValidCategory(category string) bool {
	if category == "" {
		return true
	}
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Config is a configuration entry with its value decoded. The database is
// the source of truth for these; cached copies are a read optimization.
type Config struct {
	ID        int64
	Key       string
	Value     any
	Category  string
	Note      string
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Deleted reports whether the entry is soft-deleted.
func (c *Config) Deleted() bool {
	return c.DeletedAt != nil
}

// ConfigVersion is an immutable snapshot of an entry at the moment of a
// mutation. Version numbers are monotonic per config and never reused.
type ConfigVersion struct {
	ID            string
	ConfigID      int64
	VersionNumber int64
	Key           string
	Category      string
	Note          string
	Value         any
	CreatedAt     time.Time
}

// ConfigAudit is an immutable log record of a mutation. UserID zero means
// the change was not attributable to any authenticated user.
type ConfigAudit struct {
	ID        uuid.UUID
	ConfigID  int64
	Action    AuditAction
	OldValue  any
	NewValue  any
	UserID    int64
	CreatedAt time.Time
}

// raw rows as stored, value still sealed

type configRow struct {
	ID             int64
	Key            string
	EncryptedValue *string
	Category       string
	Note           string
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type versionRow struct {
	ID             string
	ConfigID       int64
	VersionNumber  int64
	Key            string
	Category       string
	Note           string
	EncryptedValue *string
	CreatedAt      time.Time
}

type auditRow struct {
	ID                uuid.UUID
	ConfigID          int64
	Action            string
	EncryptedOldValue *string
	EncryptedNewValue *string
	UserID            int64
	CreatedAt         time.Time
}
