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

	"github.com/oklog/ulid/v2"
)

// CreateVersion writes an immutable snapshot of entry at versionNumber.
// The snapshot denormalizes key, category, and note so history survives
// later edits to the entry itself.
func (store *Store) CreateVersion(ctx context.Context, entry Config, versionNumber int64) (ConfigVersion, error) {
	if entry.ID <= 0 {
		return ConfigVersion{}, ErrInvalidConfigID
	}
	if versionNumber < 1 {
		return ConfigVersion{}, fmt.Errorf("version number must be >= 1, got %d", versionNumber)
	}

	sealed, err := store.encodeValue(entry.Value)
	if err != nil {
		return ConfigVersion{}, err
	}

	id := ulid.Make().String()
	err = store.execTx(ctx, func(s *Store) error {
		return s.insertVersion(ctx, insertVersionParams{
			ID:             id,
			ConfigID:       entry.ID,
			VersionNumber:  versionNumber,
			Key:            entry.Key,
			Category:       entry.Category,
			Note:           entry.Note,
			EncryptedValue: sealed,
		})
	})
	if err != nil {
		return ConfigVersion{}, mapError(err)
	}

	return ConfigVersion{
		ID:            id,
		ConfigID:      entry.ID,
		VersionNumber: versionNumber,
		Key:           entry.Key,
		Category:      entry.Category,
		Note:          entry.Note,
		Value:         entry.Value,
	}, nil
}

// GetLatestVersion returns the highest version number recorded for
// configID, or zero when no versions exist yet.
func (store *Store) GetLatestVersion(ctx context.Context, configID int64) (int64, error) {
	if configID <= 0 {
		return 0, ErrInvalidConfigID
	}
	n, err := store.latestVersionNumber(ctx, configID)
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// NextVersion allocates the next monotonic version number for configID:
// one past the latest, or 1 when no versions exist.
func (store *Store) NextVersion(ctx context.Context, configID int64) (int64, error) {
	latest, err := store.GetLatestVersion(ctx, configID)
	if err != nil {
		return 0, err
	}
	return latest + 1, nil
}

// GetVersions returns all snapshots for configID in version order.
func (store *Store) GetVersions(ctx context.Context, configID int64) ([]ConfigVersion, error) {
	if configID <= 0 {
		return nil, ErrInvalidConfigID
	}
	rows, err := store.listVersions(ctx, configID)
	if err != nil {
		return nil, mapError(err)
	}
	versions := make([]ConfigVersion, 0, len(rows))
	for _, r := range rows {
		v, err := store.decodeVersion(r)
		if err != nil {
			return nil, fmt.Errorf("decode version %d of config %d: %w", r.VersionNumber, configID, err)
		}
		versions = append(versions, v)
	}
	return versions, nil
}
