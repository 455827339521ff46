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

// Package sealbox provides reversible AES-256-GCM encryption for
// configuration values stored at rest. Encrypted values carry a version
// prefix so that legacy plaintext rows can be read back unchanged.
package sealbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/crypto/argon2"
)

// prefix marks a value as sealed by this package. Anything without it is
// treated as legacy plaintext and passed through on decode.
const prefix = "sb1:"

var ErrNoKey = errors.New("sealbox: encryption key is not configured")

// Box seals and opens configuration values with a key derived from a
// passphrase. A nil Box (or one built from an empty passphrase) passes
// values through unchanged, which keeps encryption opt-in.
type Box struct {
	key []byte
}

// New derives a 32-byte key from the passphrase using argon2id and returns
// a Box using it. An empty passphrase yields a passthrough Box.
//
// The salt is fixed: this is a system-wide storage key, not a per-user
// password, and the derivation only needs to stretch short passphrases.
func New(passphrase string) *Box {
	if passphrase == "" {
		return &Box{}
	}
	if len(passphrase) < 16 {
		slog.Warn("encryption passphrase is shorter than 16 bytes, consider using a longer passphrase")
	}
	salt := []byte("ultraconf-sealbox-v1")
	return &Box{key: argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, 32)}
}

// Enabled reports whether the box holds a key.
func (b *Box) Enabled() bool {
	return b != nil && b.key != nil
}

// Seal encrypts plaintext and returns a prefixed base64 ciphertext. With no
// key configured the plaintext is returned unchanged.
func (b *Box) Seal(plaintext string) (string, error) {
	if !b.Enabled() {
		return plaintext, nil
	}

	block, err := aes.NewCipher(b.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to read nonce: %w", err)
	}

	ciphertext := aesGCM.Seal(nonce, nonce, []byte(plaintext), nil)
	return prefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Open decrypts a value produced by Seal. Values without the seal prefix
// are returned as-is: rows written before encryption was enabled must stay
// readable. A prefixed value that fails to decrypt is a real error.
func (b *Box) Open(stored string) (string, error) {
	if !strings.HasPrefix(stored, prefix) {
		return stored, nil
	}
	if !b.Enabled() {
		return "", ErrNoKey
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, prefix))
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	block, err := aes.NewCipher(b.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := aesGCM.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}
