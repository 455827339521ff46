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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateKey(t *testing.T) {
	valid := []string{"a", "a.b", "a.b-1", "APP_ENV", "mail.driver", "x-y_z.9"}
	for _, k := range valid {
		assert.NoError(t, ValidateKey(k), k)
	}

	invalid := []string{"", "has space", "semi;colon", "sla/sh", "unié", "a\tb", "q*"}
	for _, k := range invalid {
		assert.ErrorIs(t, ValidateKey(k), ErrInvalidKey, k)
	}
}

func TestValidateValue(t *testing.T) {
	valid := []any{nil, "s", true, 42, int64(42), uint8(1), 3.14, []string{"a"}, []any{1, "x"}, [2]int{1, 2}}
	for _, v := range valid {
		assert.NoError(t, ValidateValue(v))
	}

	invalid := []any{map[string]int{"a": 1}, struct{ X int }{1}, make(chan int), func() {}}
	for _, v := range invalid {
		assert.ErrorIs(t, ValidateValue(v), ErrInvalidValue)
	}
}

func TestValidateCategory(t *testing.T) {
	for _, c := range []string{"", "system", "application", "security", "performance"} {
		assert.NoError(t, ValidateCategory(c), c)
	}
	for _, c := range []string{"System", "misc", "sys tem"} {
		assert.ErrorIs(t, ValidateCategory(c), ErrInvalidValue, c)
	}
}
