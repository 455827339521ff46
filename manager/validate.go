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

package manager

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"

	"github.com/ultraconf/ultraconf/configdb"
)

var (
	// ErrInvalidKey rejects keys outside [a-zA-Z0-9_.-]+.
	ErrInvalidKey = errors.New("manager: invalid configuration key")

	// ErrInvalidValue rejects values that are not scalar, slice, or nil.
	ErrInvalidValue = errors.New("manager: invalid configuration value")

	// ErrPersistenceFailed wraps failures of the primary entry write.
	ErrPersistenceFailed = errors.New("manager: failed to persist configuration")
)

var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ValidateKey checks the key against the allowed pattern. Runs before any
// store call so a bad key never reaches the database.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q must match %s", ErrInvalidKey, key, keyPattern.String())
	}
	return nil
}

// ValidateValue accepts nil, scalars, and slices/arrays. Maps, structs,
// channels, and funcs are rejected: stored values must stay serializable
// as flat settings.
func ValidateValue(value any) error {
	if value == nil {
		return nil
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Slice, reflect.Array:
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, value)
	}
}

// ValidateCategory checks the optional category tag.
func ValidateCategory(category string) error {
	if !configdb.ValidCategory(category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidValue, category)
	}
	return nil
}
