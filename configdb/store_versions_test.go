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
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ultraconf/ultraconf/internal/sealbox"
)

// fakeRow satisfies pgx.Row with canned scan results.
type fakeRow struct {
	val int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) == 1 {
		if p, ok := dest[0].(*int64); ok {
			*p = r.val
		}
	}
	return nil
}

// fakeDBTX serves a single QueryRow result and counts invocations.
type fakeDBTX struct {
	row    fakeRow
	called int
}

func (f *fakeDBTX) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("unexpected Exec")
}

func (f *fakeDBTX) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected Query")
}

func (f *fakeDBTX) QueryRow(context.Context, string, ...any) pgx.Row {
	f.called++
	return f.row
}

func storeOver(db DBTX) *Store {
	return &Store{Queries: New(db), codec: sealbox.New("")}
}

func TestGetLatestVersion(t *testing.T) {
	ctx := context.Background()

	t.Run("no versions yet yields zero", func(t *testing.T) {
		store := storeOver(&fakeDBTX{row: fakeRow{val: 0}})
		n, err := store.GetLatestVersion(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})

	t.Run("existing versions", func(t *testing.T) {
		store := storeOver(&fakeDBTX{row: fakeRow{val: 41}})
		n, err := store.GetLatestVersion(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(41), n)
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		boom := errors.New("connection reset")
		store := storeOver(&fakeDBTX{row: fakeRow{err: boom}})
		_, err := store.GetLatestVersion(ctx, 7)
		assert.ErrorIs(t, err, boom)
	})
}

func TestNextVersion(t *testing.T) {
	ctx := context.Background()

	t.Run("first version is 1", func(t *testing.T) {
		store := storeOver(&fakeDBTX{row: fakeRow{val: 0}})
		n, err := store.NextVersion(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("allocates one past the latest", func(t *testing.T) {
		store := storeOver(&fakeDBTX{row: fakeRow{val: 41}})
		n, err := store.NextVersion(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(42), n)
	})

	t.Run("non-positive config id rejected before any query", func(t *testing.T) {
		db := &fakeDBTX{row: fakeRow{val: 41}}
		store := storeOver(db)

		_, err := store.NextVersion(ctx, 0)
		assert.ErrorIs(t, err, ErrInvalidConfigID)
		_, err = store.NextVersion(ctx, -3)
		assert.ErrorIs(t, err, ErrInvalidConfigID)
		assert.Equal(t, 0, db.called)
	})
}

func TestCreateVersion_Validation(t *testing.T) {
	ctx := context.Background()
	store := storeOver(&fakeDBTX{})

	_, err := store.CreateVersion(ctx, Config{ID: 0, Key: "k"}, 1)
	assert.ErrorIs(t, err, ErrInvalidConfigID)

	_, err = store.CreateVersion(ctx, Config{ID: 7, Key: "k"}, 0)
	assert.Error(t, err)
}

func TestCreateAudit_Validation(t *testing.T) {
	ctx := context.Background()
	store := storeOver(&fakeDBTX{})

	_, err := store.CreateAudit(ctx, 0, ActionUpdated, nil, "v", 1)
	assert.ErrorIs(t, err, ErrInvalidConfigID)

	_, err = store.CreateAudit(ctx, 7, AuditAction("renamed"), nil, "v", 1)
	assert.Error(t, err)
}

func TestGetVersionsAndAudits_Validation(t *testing.T) {
	ctx := context.Background()
	store := storeOver(&fakeDBTX{})

	_, err := store.GetVersions(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidConfigID)

	_, err = store.GetAuditsByConfigID(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidConfigID)
}
