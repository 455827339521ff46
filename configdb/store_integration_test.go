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

//go:build integration
// +build integration

package configdb

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ultraconf/ultraconf/internal/sealbox"
	"github.com/ultraconf/ultraconf/testhelpers"
)

func TestEntryLifecycle(t *testing.T) {
	ctx := context.Background()
	pool := testhelpers.SetupTestDB(t)

	store := NewStore(pool, sealbox.New("integration-test-passphrase"))
	key := "it." + uuid.New().String()

	entry, err := store.CreateConfig(ctx, CreateConfigParams{
		Key:      key,
		Value:    "smtp",
		Category: "system",
	})
	require.NoError(t, err)
	assert.Positive(t, entry.ID)
	assert.Equal(t, "smtp", entry.Value)

	t.Run("duplicate key is distinct", func(t *testing.T) {
		_, err := store.CreateConfig(ctx, CreateConfigParams{Key: key, Value: "other"})
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("value sealed at rest", func(t *testing.T) {
		var stored *string
		err := pool.QueryRow(ctx, "SELECT value FROM config_entries WHERE id = $1", entry.ID).Scan(&stored)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.NotContains(t, *stored, "smtp")
	})

	t.Run("version allocation and snapshots", func(t *testing.T) {
		n, err := store.NextVersion(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = store.CreateVersion(ctx, entry, n)
		require.NoError(t, err)

		updated, err := store.UpdateConfig(ctx, entry.ID, UpdateConfigParams{Value: "ses", Category: "system"})
		require.NoError(t, err)
		n2, err := store.NextVersion(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n2)
		_, err = store.CreateVersion(ctx, updated, n2)
		require.NoError(t, err)

		versions, err := store.GetVersions(ctx, entry.ID)
		require.NoError(t, err)
		require.Len(t, versions, 2)
		assert.Equal(t, "smtp", versions[0].Value)
		assert.Equal(t, "ses", versions[1].Value)
	})

	t.Run("soft delete records audit and is restorable", func(t *testing.T) {
		current, err := store.GetConfigByID(ctx, entry.ID)
		require.NoError(t, err)

		require.NoError(t, store.DeleteConfig(ctx, current, 42))

		deleted, err := store.GetConfigByKey(ctx, key)
		require.NoError(t, err)
		assert.True(t, deleted.Deleted())

		audits, err := store.GetAuditsByConfigID(ctx, entry.ID)
		require.NoError(t, err)
		require.NotEmpty(t, audits)
		last := audits[len(audits)-1]
		assert.Equal(t, ActionDeleted, last.Action)
		assert.Nil(t, last.NewValue)
		assert.Equal(t, int64(42), last.UserID)

		restored, err := store.RestoreConfig(ctx, entry.ID)
		require.NoError(t, err)
		assert.False(t, restored.Deleted())
	})
}
