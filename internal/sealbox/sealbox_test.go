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

package sealbox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	box := New("a-passphrase-well-over-16-bytes")

	for _, plaintext := range []string{"", "smtp", `{"nested":"json"}`, strings.Repeat("x", 4096)} {
		sealed, err := box.Seal(plaintext)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(sealed, "sb1:"))
		assert.NotContains(t, sealed[4:], plaintext)

		opened, err := box.Open(sealed)
		require.NoError(t, err)
		assert.Equal(t, plaintext, opened)
	}
}

func TestOpen_LegacyPlaintextPassesThrough(t *testing.T) {
	box := New("a-passphrase-well-over-16-bytes")

	opened, err := box.Open("never-was-encrypted")
	require.NoError(t, err)
	assert.Equal(t, "never-was-encrypted", opened)
}

func TestSealIsNondeterministic(t *testing.T) {
	box := New("a-passphrase-well-over-16-bytes")

	a, err := box.Seal("same")
	require.NoError(t, err)
	b, err := box.Seal("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "random nonce must vary ciphertexts")
}

func TestPassthroughBox(t *testing.T) {
	box := New("")
	assert.False(t, box.Enabled())

	sealed, err := box.Seal("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", sealed)

	opened, err := box.Open("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", opened)
}

func TestOpen_SealedValueWithoutKey(t *testing.T) {
	box := New("a-passphrase-well-over-16-bytes")
	sealed, err := box.Seal("secret")
	require.NoError(t, err)

	_, err = New("").Open(sealed)
	assert.ErrorIs(t, err, ErrNoKey)
}

func TestOpen_WrongKeyFails(t *testing.T) {
	sealed, err := New("a-passphrase-well-over-16-bytes").Seal("secret")
	require.NoError(t, err)

	_, err = New("a-different-passphrase-entirely").Open(sealed)
	assert.Error(t, err)
}

func TestOpen_TruncatedCiphertext(t *testing.T) {
	box := New("a-passphrase-well-over-16-bytes")
	_, err := box.Open("sb1:AAAA")
	assert.Error(t, err)
}
