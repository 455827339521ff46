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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ultraconf/ultraconf/internal/sealbox"
)

func newCodecStore() *Store {
	return &Store{codec: sealbox.New("a-passphrase-well-over-16-bytes")}
}

func TestValueCodec_RoundTrip(t *testing.T) {
	store := newCodecStore()

	cases := []any{"smtp", true, float64(42), []any{"a", "b"}, ""}
	for _, v := range cases {
		stored, err := store.encodeValue(v)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.True(t, strings.HasPrefix(*stored, "sb1:"), "value must be sealed at rest")

		got, err := store.decodeValue(stored)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestValueCodec_NilPassesThrough(t *testing.T) {
	store := newCodecStore()

	stored, err := store.encodeValue(nil)
	require.NoError(t, err)
	assert.Nil(t, stored)

	got, err := store.decodeValue(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestValueCodec_LegacyPlaintextRows(t *testing.T) {
	store := newCodecStore()

	t.Run("legacy JSON row", func(t *testing.T) {
		raw := `["a","b"]`
		got, err := store.decodeValue(&raw)
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b"}, got)
	})

	t.Run("legacy bare text row", func(t *testing.T) {
		raw := "just-a-string"
		got, err := store.decodeValue(&raw)
		require.NoError(t, err)
		assert.Equal(t, "just-a-string", got)
	})
}

func TestValueCodec_DisabledCodecStoresJSON(t *testing.T) {
	store := &Store{codec: sealbox.New("")}

	stored, err := store.encodeValue("smtp")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, `"smtp"`, *stored)

	got, err := store.decodeValue(stored)
	require.NoError(t, err)
	assert.Equal(t, "smtp", got)
}

func TestValueCodec_UnserializableValue(t *testing.T) {
	store := newCodecStore()
	_, err := store.encodeValue(make(chan int))
	assert.Error(t, err)
}
