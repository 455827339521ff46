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
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetMiss(t *testing.T) {
	m := NewMemoryStore(time.Minute)
	t.Cleanup(m.Close)

	_, ok := m.Get(context.Background(), "nope")
	assert.False(t, ok)
}

func TestMemoryStore_RememberProducesOnce(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(time.Minute)
	t.Cleanup(m.Close)

	var produced atomic.Int32
	produce := func(context.Context) (Snapshot, error) {
		produced.Add(1)
		return Snapshot{"k": {Value: "v"}}, nil
	}

	snap, err := m.Remember(ctx, "key", time.Minute, produce)
	require.NoError(t, err)
	assert.Equal(t, "v", snap["k"].Value)

	snap, err = m.Remember(ctx, "key", time.Minute, produce)
	require.NoError(t, err)
	assert.Equal(t, "v", snap["k"].Value)
	assert.Equal(t, int32(1), produced.Load())
}

func TestMemoryStore_RememberPropagatesProducerError(t *testing.T) {
	m := NewMemoryStore(time.Minute)
	t.Cleanup(m.Close)

	wantErr := errors.New("no database")
	_, err := m.Remember(context.Background(), "key", time.Minute, func(context.Context) (Snapshot, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	// nothing cached after a failed produce
	_, ok := m.Get(context.Background(), "key")
	assert.False(t, ok)
}

func TestMemoryStore_ForeverAndClone(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(time.Minute)
	t.Cleanup(m.Close)

	orig := Snapshot{"k": {Value: "v", Category: "system"}}
	m.Forever(ctx, "key", orig)

	// mutating the caller's map must not leak into the store
	orig["k"] = Entry{Value: "tampered"}

	got, ok := m.Get(ctx, "key")
	require.True(t, ok)
	assert.Equal(t, "v", got["k"].Value)

	// mutating the returned copy must not leak either
	got["k"] = Entry{Value: "also tampered"}
	again, ok := m.Get(ctx, "key")
	require.True(t, ok)
	assert.Equal(t, "v", again["k"].Value)
}

func TestNamedLock_MutualExclusionAndTimeout(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(time.Minute)
	t.Cleanup(m.Close)

	first := m.Lock("refresh")
	require.True(t, first.Acquire(ctx, time.Second))

	second := m.Lock("refresh")
	start := time.Now()
	assert.False(t, second.Acquire(ctx, 30*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	// independent names do not contend
	other := m.Lock("other")
	require.True(t, other.Acquire(ctx, time.Second))
	other.Release()

	first.Release()
	assert.True(t, second.Acquire(ctx, time.Second))
	second.Release()
}

func TestNamedLock_ReleaseWithoutAcquireIsSafe(t *testing.T) {
	m := NewMemoryStore(time.Minute)
	t.Cleanup(m.Close)

	l := m.Lock("refresh")
	l.Release()
	l.Release()
	assert.True(t, l.Acquire(context.Background(), time.Second))
	l.Release()
}

func TestNamedLock_CancelledContext(t *testing.T) {
	m := NewMemoryStore(time.Minute)
	t.Cleanup(m.Close)

	holder := m.Lock("refresh")
	require.True(t, holder.Acquire(context.Background(), time.Second))
	defer holder.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, m.Lock("refresh").Acquire(ctx, time.Minute))
}

func TestNamedLock_ConcurrentHoldersNeverOverlap(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(time.Minute)
	t.Cleanup(m.Close)

	var inside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l := m.Lock("refresh")
			if !l.Acquire(ctx, 5*time.Second) {
				t.Error("acquire timed out")
				return
			}
			defer l.Release()
			assert.Equal(t, int32(1), inside.Add(1))
			inside.Add(-1)
		}()
	}
	wg.Wait()
}
