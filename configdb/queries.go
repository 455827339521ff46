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
	"context"

	"github.com/google/uuid"
)

const listActiveConfigsSQL = `
SELECT id, key, value, category, note, deleted_at, created_at, updated_at
FROM config_entries
WHERE deleted_at IS NULL
ORDER BY key`

func (q *Queries) listActiveConfigs(ctx context.Context) ([]configRow, error) {
	rows, err := q.db.Query(ctx, listActiveConfigsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []configRow
	for rows.Next() {
		var r configRow
		if err := rows.Scan(&r.ID, &r.Key, &r.EncryptedValue, &r.Category, &r.Note, &r.DeletedAt, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const getConfigByIDSQL = `
SELECT id, key, value, category, note, deleted_at, created_at, updated_at
FROM config_entries
WHERE id = $1`

func (q *Queries) getConfigByID(ctx context.Context, id int64) (configRow, error) {
	var r configRow
	err := q.db.QueryRow(ctx, getConfigByIDSQL, id).
		Scan(&r.ID, &r.Key, &r.EncryptedValue, &r.Category, &r.Note, &r.DeletedAt, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// getConfigByKey matches soft-deleted rows too, so a Set on a previously
// deleted key can find and restore the original row instead of colliding
// with the unique index.
const getConfigByKeySQL = `
SELECT id, key, value, category, note, deleted_at, created_at, updated_at
FROM config_entries
WHERE key = $1`

func (q *Queries) getConfigByKey(ctx context.Context, key string) (configRow, error) {
	var r configRow
	err := q.db.QueryRow(ctx, getConfigByKeySQL, key).
		Scan(&r.ID, &r.Key, &r.EncryptedValue, &r.Category, &r.Note, &r.DeletedAt, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

const insertConfigSQL = `
INSERT INTO config_entries (key, value, category, note)
VALUES ($1, $2, $3, $4)
RETURNING id, key, value, category, note, deleted_at, created_at, updated_at`

type insertConfigParams struct {
	Key            string
	EncryptedValue *string
	Category       string
	Note           string
}

func (q *Queries) insertConfig(ctx context.Context, arg insertConfigParams) (configRow, error) {
	var r configRow
	err := q.db.QueryRow(ctx, insertConfigSQL, arg.Key, arg.EncryptedValue, arg.Category, arg.Note).
		Scan(&r.ID, &r.Key, &r.EncryptedValue, &r.Category, &r.Note, &r.DeletedAt, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// updateConfigRow never touches key: keys are immutable after creation and
// the update statement simply has no way to change one.
const updateConfigSQL = `
UPDATE config_entries
SET value = $2, category = $3, note = $4, updated_at = now()
WHERE id = $1
RETURNING id, key, value, category, note, deleted_at, created_at, updated_at`

type updateConfigParams struct {
	ID             int64
	EncryptedValue *string
	Category       string
	Note           string
}

func (q *Queries) updateConfigRow(ctx context.Context, arg updateConfigParams) (configRow, error) {
	var r configRow
	err := q.db.QueryRow(ctx, updateConfigSQL, arg.ID, arg.EncryptedValue, arg.Category, arg.Note).
		Scan(&r.ID, &r.Key, &r.EncryptedValue, &r.Category, &r.Note, &r.DeletedAt, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

const restoreConfigSQL = `
UPDATE config_entries
SET deleted_at = NULL, updated_at = now()
WHERE id = $1
RETURNING id, key, value, category, note, deleted_at, created_at, updated_at`

func (q *Queries) restoreConfigRow(ctx context.Context, id int64) (configRow, error) {
	var r configRow
	err := q.db.QueryRow(ctx, restoreConfigSQL, id).
		Scan(&r.ID, &r.Key, &r.EncryptedValue, &r.Category, &r.Note, &r.DeletedAt, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

const softDeleteConfigSQL = `
UPDATE config_entries
SET deleted_at = now(), updated_at = now()
WHERE id = $1 AND deleted_at IS NULL`

func (q *Queries) softDeleteConfigRow(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, softDeleteConfigSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const insertVersionSQL = `
INSERT INTO config_versions (id, config_id, version_number, key, category, note, value)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

type insertVersionParams struct {
	ID             string
	ConfigID       int64
	VersionNumber  int64
	Key            string
	Category       string
	Note           string
	EncryptedValue *string
}

func (q *Queries) insertVersion(ctx context.Context, arg insertVersionParams) error {
	_, err := q.db.Exec(ctx, insertVersionSQL,
		arg.ID, arg.ConfigID, arg.VersionNumber, arg.Key, arg.Category, arg.Note, arg.EncryptedValue)
	return err
}

const latestVersionNumberSQL = `
SELECT COALESCE(MAX(version_number), 0)
FROM config_versions
WHERE config_id = $1`

func (q *Queries) latestVersionNumber(ctx context.Context, configID int64) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, latestVersionNumberSQL, configID).Scan(&n)
	return n, err
}

const listVersionsSQL = `
SELECT id, config_id, version_number, key, category, note, value, created_at
FROM config_versions
WHERE config_id = $1
ORDER BY version_number`

func (q *Queries) listVersions(ctx context.Context, configID int64) ([]versionRow, error) {
	rows, err := q.db.Query(ctx, listVersionsSQL, configID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []versionRow
	for rows.Next() {
		var r versionRow
		if err := rows.Scan(&r.ID, &r.ConfigID, &r.VersionNumber, &r.Key, &r.Category, &r.Note, &r.EncryptedValue, &r.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const insertAuditSQL = `
INSERT INTO config_audits (id, config_id, action, old_value, new_value, user_id)
VALUES ($1, $2, $3, $4, $5, $6)`

type insertAuditParams struct {
	ID                uuid.UUID
	ConfigID          int64
	Action            string
	EncryptedOldValue *string
	EncryptedNewValue *string
	UserID            int64
}

func (q *Queries) insertAudit(ctx context.Context, arg insertAuditParams) error {
	_, err := q.db.Exec(ctx, insertAuditSQL,
		arg.ID, arg.ConfigID, arg.Action, arg.EncryptedOldValue, arg.EncryptedNewValue, arg.UserID)
	return err
}

const listAuditsSQL = `
SELECT id, config_id, action, old_value, new_value, user_id, created_at
FROM config_audits
WHERE config_id = $1
ORDER BY created_at, id`

func (q *Queries) listAuditsByConfigID(ctx context.Context, configID int64) ([]auditRow, error) {
	rows, err := q.db.Query(ctx, listAuditsSQL, configID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []auditRow
	for rows.Next() {
		var r auditRow
		if err := rows.Scan(&r.ID, &r.ConfigID, &r.Action, &r.EncryptedOldValue, &r.EncryptedNewValue, &r.UserID, &r.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
