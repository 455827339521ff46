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

// Package cachestore defines the cache contract the configuration manager
// reads and refreshes through, plus a ttlcache-backed implementation.
package cachestore

import (
	"context"
	"time"
)

// Entry is one cached configuration value with its category tag.
type Entry struct {
	Value    any
	Category string
}

// Snapshot is a full cached configuration map, key to entry. Snapshots are
// treated as immutable once stored; writers build a fresh one and swap it.
type Snapshot map[string]Entry

// Clone returns a shallow copy safe for the caller to mutate.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Store is the cache the manager shares with other processes/requests.
// The database stays authoritative; everything here is rebuildable.
type Store interface {
	// Get returns the snapshot stored under key, if present and unexpired.
	Get(ctx context.Context, key string) (Snapshot, bool)

	// Remember returns the snapshot under key, producing and storing it
	// with the given TTL on a miss.
	Remember(ctx context.Context, key string, ttl time.Duration, produce func(context.Context) (Snapshot, error)) (Snapshot, error)

	// Forever stores the snapshot with no expiry.
	Forever(ctx context.Context, key string, snap Snapshot)

	// Lock returns the named advisory lock guarding read-modify-write
	// cycles on this store.
	Lock(name string) NamedLock
}

// NamedLock is a cooperative mutual-exclusion primitive with a bounded
// acquire. Acquire reports false when the lock could not be taken within
// the timeout; callers are expected to skip their refresh rather than
// block.
type NamedLock interface {
	Acquire(ctx context.Context, timeout time.Duration) bool
	Release()
}
