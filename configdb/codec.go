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
	"encoding/json"
	"fmt"
)

// encodeValue turns a decoded value into its stored form: JSON, then
// sealed. Nil stays nil so absence survives the round trip.
func (store *Store) encodeValue(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	sealed, err := store.codec.Seal(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to seal value: %w", err)
	}
	return &sealed, nil
}

// decodeValue reverses encodeValue. A stored value that opens but does not
// parse as JSON is returned as the raw string: rows written by earlier
// schema generations held bare text.
func (store *Store) decodeValue(stored *string) (any, error) {
	if stored == nil {
		return nil, nil
	}
	opened, err := store.codec.Open(*stored)
	if err != nil {
		return nil, fmt.Errorf("failed to open value: %w", err)
	}
	var v any
	if err := json.Unmarshal([]byte(opened), &v); err != nil {
		return opened, nil
	}
	return v, nil
}

func (store *Store) decodeConfig(r configRow) (Config, error) {
	v, err := store.decodeValue(r.EncryptedValue)
	if err != nil {
		return Config{}, err
	}
	return Config{
		ID:        r.ID,
		Key:       r.Key,
		Value:     v,
		Category:  r.Category,
		Note:      r.Note,
		DeletedAt: r.DeletedAt,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func (store *Store) decodeVersion(r versionRow) (ConfigVersion, error) {
	v, err := store.decodeValue(r.EncryptedValue)
	if err != nil {
		return ConfigVersion{}, err
	}
	return ConfigVersion{
		ID:            r.ID,
		ConfigID:      r.ConfigID,
		VersionNumber: r.VersionNumber,
		Key:           r.Key,
		Category:      r.Category,
		Note:          r.Note,
		Value:         v,
		CreatedAt:     r.CreatedAt,
	}, nil
}

func (store *Store) decodeAudit(r auditRow) (ConfigAudit, error) {
	oldV, err := store.decodeValue(r.EncryptedOldValue)
	if err != nil {
		return ConfigAudit{}, err
	}
	newV, err := store.decodeValue(r.EncryptedNewValue)
	if err != nil {
		return ConfigAudit{}, err
	}
	return ConfigAudit{
		ID:        r.ID,
		ConfigID:  r.ConfigID,
		Action:    AuditAction(r.Action),
		OldValue:  oldV,
		NewValue:  newV,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
	}, nil
}
