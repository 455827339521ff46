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

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("configdb: not found")

	// ErrDuplicateKey is returned when an insert collides with an existing
	// configuration key. Distinct from generic failure so callers can
	// surface "already exists" instead of a raw database error.
	ErrDuplicateKey = errors.New("configdb: duplicate key")

	// ErrSchemaAbsent is returned when the backing tables do not exist yet,
	// e.g. before the first migration has run. Readers treat this as "no
	// configuration available".
	ErrSchemaAbsent = errors.New("configdb: schema absent")

	// ErrInvalidConfigID is returned for non-positive config identifiers.
	ErrInvalidConfigID = errors.New("configdb: config id must be positive")
)

const (
	pgUniqueViolation = "23505"
	pgUndefinedTable  = "42P01"
)

// mapError translates driver-level failures into the package's sentinel
// errors so callers can match with errors.Is instead of inspecting
// SQLSTATE codes.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicateKey, pgErr.ConstraintName)
		case pgUndefinedTable:
			return fmt.Errorf("%w: %s", ErrSchemaAbsent, pgErr.Message)
		}
	}
	return err
}
