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
	"fmt"

	"github.com/google/uuid"
)

// CreateConfigParams carries the fields for a new configuration entry.
// Key is set once here and is immutable afterwards.
type CreateConfigParams struct {
	Key      string
	Value    any
	Category string
	Note     string
}

// GetAllConfigs returns every entry that is not soft-deleted.
func (store *Store) GetAllConfigs(ctx context.Context) ([]Config, error) {
	rows, err := store.listActiveConfigs(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	configs := make([]Config, 0, len(rows))
	for _, r := range rows {
		c, err := store.decodeConfig(r)
		if err != nil {
			return nil, fmt.Errorf("decode entry %q: %w", r.Key, err)
		}
		configs = append(configs, c)
	}
	return configs, nil
}

// GetConfigByID returns a single entry, soft-deleted or not.
func (store *Store) GetConfigByID(ctx context.Context, id int64) (Config, error) {
	r, err := store.getConfigByID(ctx, id)
	if err != nil {
		return Config{}, mapError(err)
	}
	return store.decodeConfig(r)
}

// GetConfigByKey returns the entry for key, including soft-deleted rows so
// callers can restore them.
func (store *Store) GetConfigByKey(ctx context.Context, key string) (Config, error) {
	r, err := store.getConfigByKey(ctx, key)
	if err != nil {
		return Config{}, mapError(err)
	}
	return store.decodeConfig(r)
}

// CreateConfig inserts a new entry. A collision on the unique key index is
// reported as ErrDuplicateKey.
func (store *Store) CreateConfig(ctx context.Context, arg CreateConfigParams) (Config, error) {
	sealed, err := store.encodeValue(arg.Value)
	if err != nil {
		return Config{}, err
	}

	var row configRow
	err = store.execTx(ctx, func(s *Store) error {
		var txErr error
		row, txErr = s.insertConfig(ctx, insertConfigParams{
			Key:            arg.Key,
			EncryptedValue: sealed,
			Category:       arg.Category,
			Note:           arg.Note,
		})
		return txErr
	})
	if err != nil {
		return Config{}, mapError(err)
	}
	return store.decodeConfig(row)
}

// UpdateConfigParams carries the mutable fields of an entry.
type UpdateConfigParams struct {
	Value    any
	Category string
	Note     string
}

// UpdateConfig mutates an existing entry's value, category, and note. The
// key cannot change.
func (store *Store) UpdateConfig(ctx context.Context, id int64, arg UpdateConfigParams) (Config, error) {
	sealed, err := store.encodeValue(arg.Value)
	if err != nil {
		return Config{}, err
	}

	var row configRow
	err = store.execTx(ctx, func(s *Store) error {
		var txErr error
		row, txErr = s.updateConfigRow(ctx, updateConfigParams{
			ID:             id,
			EncryptedValue: sealed,
			Category:       arg.Category,
			Note:           arg.Note,
		})
		return txErr
	})
	if err != nil {
		return Config{}, mapError(err)
	}
	return store.decodeConfig(row)
}

// RestoreConfig clears the soft-delete marker on an entry.
func (store *Store) RestoreConfig(ctx context.Context, id int64) (Config, error) {
	var row configRow
	err := store.execTx(ctx, func(s *Store) error {
		var txErr error
		row, txErr = s.restoreConfigRow(ctx, id)
		return txErr
	})
	if err != nil {
		return Config{}, mapError(err)
	}
	return store.decodeConfig(row)
}

// DeleteConfig soft-deletes an entry and records the deletion audit in the
// same transaction. Deletion is never un-audited, even when this is called
// directly rather than through the manager.
func (store *Store) DeleteConfig(ctx context.Context, entry Config, userID int64) error {
	oldSealed, err := store.encodeValue(entry.Value)
	if err != nil {
		return err
	}

	err = store.execTx(ctx, func(s *Store) error {
		if err := s.softDeleteConfigRow(ctx, entry.ID); err != nil {
			return err
		}
		return s.insertAudit(ctx, insertAuditParams{
			ID:                uuid.New(),
			ConfigID:          entry.ID,
			Action:            string(ActionDeleted),
			EncryptedOldValue: oldSealed,
			EncryptedNewValue: nil,
			UserID:            userID,
		})
	})
	return mapError(err)
}
