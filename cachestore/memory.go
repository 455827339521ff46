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

package cachestore

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryStore is an in-process Store over ttlcache. Good for single-node
// deployments and tests; a shared deployment would put a networked store
// behind the same interface.
type MemoryStore struct {
	cache *ttlcache.Cache[string, Snapshot]
	locks sync.Map // name -> chan struct{} (capacity 1)
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a MemoryStore whose entries default to the given
// TTL. Forever overrides the default per key.
func NewMemoryStore(defaultTTL time.Duration) *MemoryStore {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, Snapshot](defaultTTL),
	)
	go cache.Start()
	return &MemoryStore{cache: cache}
}

// Close stops the cache background goroutine.
func (m *MemoryStore) Close() {
	m.cache.Stop()
}

func (m *MemoryStore) Get(_ context.Context, key string) (Snapshot, bool) {
	item := m.cache.Get(key)
	if item == nil {
		return nil, false
	}
	return item.Value().Clone(), true
}

func (m *MemoryStore) Remember(ctx context.Context, key string, ttl time.Duration, produce func(context.Context) (Snapshot, error)) (Snapshot, error) {
	if item := m.cache.Get(key); item != nil {
		return item.Value().Clone(), nil
	}
	snap, err := produce(ctx)
	if err != nil {
		return nil, err
	}
	m.cache.Set(key, snap.Clone(), ttl)
	return snap, nil
}

func (m *MemoryStore) Forever(_ context.Context, key string, snap Snapshot) {
	m.cache.Set(key, snap.Clone(), ttlcache.NoTTL)
}

func (m *MemoryStore) Lock(name string) NamedLock {
	ch, _ := m.locks.LoadOrStore(name, make(chan struct{}, 1))
	return &chanLock{ch: ch.(chan struct{})}
}

// chanLock implements NamedLock over a buffered channel: holding the token
// in the channel slot is holding the lock.
type chanLock struct {
	ch   chan struct{}
	held bool
}

func (l *chanLock) Acquire(ctx context.Context, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case l.ch <- struct{}{}:
		l.held = true
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

func (l *chanLock) Release() {
	if !l.held {
		return
	}
	l.held = false
	<-l.ch
}
