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
	"fmt"

	"github.com/google/uuid"
)

// CreateAudit records a mutation event for configID. Old and new values are
// sealed like entry values; either may be nil.
func (store *Store) CreateAudit(ctx context.Context, configID int64, action AuditAction, oldValue, newValue any, userID int64) (ConfigAudit, error) {
	if configID <= 0 {
		return ConfigAudit{}, ErrInvalidConfigID
	}
	if !action.Valid() {
		return ConfigAudit{}, fmt.Errorf("invalid audit action %q", action)
	}

	oldSealed, err := store.encodeValue(oldValue)
	if err != nil {
		return ConfigAudit{}, err
	}
	newSealed, err := store.encodeValue(newValue)
	if err != nil {
		return ConfigAudit{}, err
	}

	id := uuid.New()
	err = store.execTx(ctx, func(s *Store) error {
		return s.insertAudit(ctx, insertAuditParams{
			ID:                id,
			ConfigID:          configID,
			Action:            string(action),
			EncryptedOldValue: oldSealed,
			EncryptedNewValue: newSealed,
			UserID:            userID,
		})
	})
	if err != nil {
		return ConfigAudit{}, mapError(err)
	}

	return ConfigAudit{
		ID:       id,
		ConfigID: configID,
		Action:   action,
		OldValue: oldValue,
		NewValue: newValue,
		UserID:   userID,
	}, nil
}

// GetAuditsByConfigID returns the audit trail for an entry in insertion
// order.
func (store *Store) GetAuditsByConfigID(ctx context.Context, configID int64) ([]ConfigAudit, error) {
	if configID <= 0 {
		return nil, ErrInvalidConfigID
	}
	rows, err := store.listAuditsByConfigID(ctx, configID)
	if err != nil {
		return nil, mapError(err)
	}
	audits := make([]ConfigAudit, 0, len(rows))
	for _, r := range rows {
		a, err := store.decodeAudit(r)
		if err != nil {
			return nil, fmt.Errorf("decode audit %s: %w", r.ID, err)
		}
		audits = append(audits, a)
	}
	return audits, nil
}
