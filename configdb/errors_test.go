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
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, mapError(nil))
	})

	t.Run("no rows", func(t *testing.T) {
		assert.ErrorIs(t, mapError(pgx.ErrNoRows), ErrNotFound)
		assert.ErrorIs(t, mapError(fmt.Errorf("query: %w", pgx.ErrNoRows)), ErrNotFound)
	})

	t.Run("unique violation", func(t *testing.T) {
		err := mapError(&pgconn.PgError{Code: "23505", ConstraintName: "config_entries_key_unique"})
		assert.ErrorIs(t, err, ErrDuplicateKey)
		assert.Contains(t, err.Error(), "config_entries_key_unique")
	})

	t.Run("undefined table", func(t *testing.T) {
		err := mapError(&pgconn.PgError{Code: "42P01", Message: `relation "config_entries" does not exist`})
		assert.ErrorIs(t, err, ErrSchemaAbsent)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		assert.ErrorIs(t, mapError(boom), boom)

		pgBoom := &pgconn.PgError{Code: "53300", Message: "too many connections"}
		mapped := mapError(pgBoom)
		assert.NotErrorIs(t, mapped, ErrDuplicateKey)
		assert.NotErrorIs(t, mapped, ErrSchemaAbsent)
	})
}

func TestAuditActionValid(t *testing.T) {
	assert.True(t, ActionCreated.Valid())
	assert.True(t, ActionUpdated.Valid())
	assert.True(t, ActionDeleted.Valid())
	assert.False(t, AuditAction("renamed").Valid())
	assert.False(t, AuditAction("").Valid())
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory(""))
	assert.True(t, ValidCategory("security"))
	assert.False(t, ValidCategory("Security"))
	assert.False(t, ValidCategory("misc"))
}
