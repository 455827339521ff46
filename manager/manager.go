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

// Package manager orchestrates cached reads and versioned, audited writes
// of configuration entries. The database is the source of truth; the
// in-memory map and the shared cache snapshot are read optimizations that
// can be rebuilt at any time.
package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ultraconf/ultraconf/cachestore"
	"github.com/ultraconf/ultraconf/configdb"
	"github.com/ultraconf/ultraconf/internal/constants"
	"github.com/ultraconf/ultraconf/internal/logctx"
)

// ConfigStore is the minimal persistence contract the manager requires.
type ConfigStore interface {
	GetAllConfigs(ctx context.Context) ([]configdb.Config, error)
	GetConfigByKey(ctx context.Context, key string) (configdb.Config, error)
	CreateConfig(ctx context.Context, arg configdb.CreateConfigParams) (configdb.Config, error)
	UpdateConfig(ctx context.Context, id int64, arg configdb.UpdateConfigParams) (configdb.Config, error)
	RestoreConfig(ctx context.Context, id int64) (configdb.Config, error)
	DeleteConfig(ctx context.Context, entry configdb.Config, userID int64) error
	NextVersion(ctx context.Context, configID int64) (int64, error)
	CreateVersion(ctx context.Context, entry configdb.Config, versionNumber int64) (configdb.ConfigVersion, error)
	CreateAudit(ctx context.Context, configID int64, action configdb.AuditAction, oldValue, newValue any, userID int64) (configdb.ConfigAudit, error)
}

// Ensure the real store satisfies the contract.
var _ ConfigStore = (*configdb.Store)(nil)

// Options tune cache behavior and env-default sourcing.
type Options struct {
	// CacheEnabled routes LoadConfig through the shared cache. Disabled,
	// every LoadConfig rebuilds from the database.
	CacheEnabled bool

	// CacheTTL bounds how long a cached snapshot stays valid.
	CacheTTL time.Duration

	// LockTimeout bounds the wait for the cache refresh lock. On timeout
	// the refresh is skipped and the stale snapshot stays in place.
	LockTimeout time.Duration

	// EnvDefaultsPrefix selects environment variables merged in as
	// defaults. Empty disables env sourcing.
	EnvDefaultsPrefix string

	// Environ supplies the environment; defaults to os.Environ.
	Environ func() []string
}

// DefaultOptions returns the options used when a zero value is supplied.
func DefaultOptions() Options {
	return Options{
		CacheEnabled:      true,
		CacheTTL:          time.Hour,
		LockTimeout:       5 * time.Second,
		EnvDefaultsPrefix: "ULTRACONF_DEFAULT_",
	}
}

// Manager is the configuration read/write core. All access to the
// in-memory map goes through it, and all writes to the shared cache
// snapshot happen under its named lock.
type Manager struct {
	store ConfigStore
	cache cachestore.Store
	opts  Options

	mu      sync.RWMutex
	entries cachestore.Snapshot
}

// New builds a Manager. Call LoadConfig to populate it; New itself does
// not touch the database.
func New(store ConfigStore, cache cachestore.Store, opts Options) *Manager {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultOptions().CacheTTL
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = DefaultOptions().LockTimeout
	}
	return &Manager{
		store:   store,
		cache:   cache,
		opts:    opts,
		entries: make(cachestore.Snapshot),
	}
}

// LoadConfig populates the in-memory map. With caching enabled it serves a
// previously cached snapshot within its TTL and only rebuilds from the
// database on a miss; with caching disabled it rebuilds every call.
// Idempotent and safe to call repeatedly.
func (m *Manager) LoadConfig(ctx context.Context) error {
	if !m.opts.CacheEnabled {
		snap, err := m.rebuild(ctx)
		if err != nil {
			return err
		}
		m.setEntries(snap)
		return nil
	}

	snap, err := m.cache.Remember(ctx, constants.CacheKey, m.opts.CacheTTL, m.rebuild)
	if err != nil {
		return err
	}
	m.setEntries(snap)
	return nil
}

// rebuild combines all non-deleted database entries with env-derived
// defaults. Env entries never shadow a database-sourced key. Entries whose
// value is null are skipped rather than cached as nil.
func (m *Manager) rebuild(ctx context.Context) (cachestore.Snapshot, error) {
	logger := logctx.FromContext(ctx)
	snap := make(cachestore.Snapshot)

	configs, err := m.store.GetAllConfigs(ctx)
	switch {
	case errors.Is(err, configdb.ErrSchemaAbsent):
		logger.Warn("configuration tables absent, serving env defaults only")
	case err != nil:
		return nil, fmt.Errorf("failed to load configuration entries: %w", err)
	default:
		for _, c := range configs {
			if c.Value == nil {
				logger.Warn("skipping configuration entry with null value", "key", c.Key)
				continue
			}
			snap[c.Key] = cachestore.Entry{Value: c.Value, Category: c.Category}
		}
	}

	for k, v := range m.envDefaults() {
		if _, exists := snap[k]; !exists {
			snap[k] = v
		}
	}
	return snap, nil
}

// Get returns the value for key, or fallback when the key is unknown.
// With an empty in-memory map it makes one attempt to rehydrate from the
// shared cache; it never reaches for the database here. silent suppresses
// diagnostics only and never changes the returned value.
func (m *Manager) Get(ctx context.Context, key string, fallback any, silent bool) any {
	logger := logctx.FromContext(ctx)
	if silent {
		logger = logctx.Discard()
	}

	m.mu.RLock()
	empty := len(m.entries) == 0
	m.mu.RUnlock()

	if empty {
		if snap, ok := m.cache.Get(ctx, constants.CacheKey); ok {
			m.setEntries(snap)
		} else {
			logger.Debug("in-memory configuration empty and cache cold", "key", key)
		}
	}

	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		logger.Debug("configuration key not found, returning fallback", "key", key)
		return fallback
	}
	return e.Value
}

// Has reports whether key resolves to a non-nil value.
func (m *Manager) Has(ctx context.Context, key string) bool {
	return m.Get(ctx, key, nil, true) != nil
}

// All returns a copy of the in-memory configuration map.
func (m *Manager) All(ctx context.Context) cachestore.Snapshot {
	m.mu.RLock()
	empty := len(m.entries) == 0
	m.mu.RUnlock()
	if empty {
		if snap, ok := m.cache.Get(ctx, constants.CacheKey); ok {
			m.setEntries(snap)
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries.Clone()
}

// Set validates and persists a configuration value, then best-effort
// records a version snapshot and an audit row, then refreshes the cache
// for the key.
//
// The in-memory map is updated before the durable write and is not rolled
// back if that write fails; readers in this process see the new value
// immediately. The old value for the audit row is captured before that
// update.
func (m *Manager) Set(ctx context.Context, key string, value any, category string, userID int64, recordVersion, recordAudit bool) error {
	logger := logctx.FromContext(ctx)

	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ValidateValue(value); err != nil {
		return err
	}
	if err := ValidateCategory(category); err != nil {
		return err
	}

	oldValue := m.Get(ctx, key, nil, true)

	m.mu.Lock()
	m.entries[key] = cachestore.Entry{Value: value, Category: category}
	m.mu.Unlock()

	entry, err := m.persist(ctx, key, value, category)
	if err != nil {
		logger.Error("failed to persist configuration entry", "key", key, "error", err)
		return fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	if recordVersion {
		if n, vErr := m.store.NextVersion(ctx, entry.ID); vErr != nil {
			logger.Warn("failed to allocate version number", "key", key, "error", vErr)
		} else if _, vErr := m.store.CreateVersion(ctx, entry, n); vErr != nil {
			logger.Warn("failed to record configuration version", "key", key, "version", n, "error", vErr)
		}
	}

	if recordAudit {
		if _, aErr := m.store.CreateAudit(ctx, entry.ID, configdb.ActionUpdated, oldValue, value, userID); aErr != nil {
			logger.Warn("failed to record configuration audit", "key", key, "error", aErr)
		}
	}

	m.RefreshCache(ctx, key)
	return nil
}

// persist writes the entry through the store: update when the key exists,
// restore-then-update when it was soft-deleted, create otherwise.
func (m *Manager) persist(ctx context.Context, key string, value any, category string) (configdb.Config, error) {
	existing, err := m.store.GetConfigByKey(ctx, key)
	switch {
	case errors.Is(err, configdb.ErrNotFound):
		return m.store.CreateConfig(ctx, configdb.CreateConfigParams{
			Key:      key,
			Value:    value,
			Category: category,
		})
	case err != nil:
		return configdb.Config{}, err
	}

	if existing.Deleted() {
		if existing, err = m.store.RestoreConfig(ctx, existing.ID); err != nil {
			return configdb.Config{}, err
		}
	}

	return m.store.UpdateConfig(ctx, existing.ID, configdb.UpdateConfigParams{
		Value:    value,
		Category: category,
		Note:     existing.Note,
	})
}

// Delete soft-deletes the entry for key. The deletion audit is written by
// the store inside the soft-delete transaction and cannot be suppressed;
// recordAudit=false only logs that it was ignored. recordVersion snapshots
// the final value before deletion.
func (m *Manager) Delete(ctx context.Context, key string, userID int64, recordVersion, recordAudit bool) error {
	logger := logctx.FromContext(ctx)

	if err := ValidateKey(key); err != nil {
		return err
	}

	entry, err := m.store.GetConfigByKey(ctx, key)
	if err != nil {
		return err
	}
	if entry.Deleted() {
		return configdb.ErrNotFound
	}

	if recordVersion {
		if n, vErr := m.store.NextVersion(ctx, entry.ID); vErr != nil {
			logger.Warn("failed to allocate version number", "key", key, "error", vErr)
		} else if _, vErr := m.store.CreateVersion(ctx, entry, n); vErr != nil {
			logger.Warn("failed to record configuration version", "key", key, "version", n, "error", vErr)
		}
	}

	if !recordAudit {
		logger.Warn("deletion audits cannot be suppressed, recording anyway", "key", key)
	}

	if err := m.store.DeleteConfig(ctx, entry, userID); err != nil {
		logger.Error("failed to delete configuration entry", "key", key, "error", err)
		return fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()

	m.RefreshCache(ctx, key)
	return nil
}

// RefreshCache writes the current state of the given keys (or, with no
// keys, the whole in-memory map) into the shared cache snapshot. All
// read-modify-write of the shared snapshot happens under the named lock;
// if the lock cannot be acquired within the timeout the refresh is skipped
// and readers keep seeing the stale snapshot.
func (m *Manager) RefreshCache(ctx context.Context, keys ...string) {
	logger := logctx.FromContext(ctx)

	lock := m.cache.Lock(constants.CacheLockName)
	if !lock.Acquire(ctx, m.opts.LockTimeout) {
		logger.Warn("cache refresh lock not acquired, keeping stale cache", "timeout", m.opts.LockTimeout)
		return
	}
	defer lock.Release()

	if len(keys) == 0 {
		m.cache.Forever(ctx, constants.CacheKey, m.snapshot())
		return
	}

	cur, ok := m.cache.Get(ctx, constants.CacheKey)
	if !ok {
		// Cold cache: seed it with the full in-memory state.
		m.cache.Forever(ctx, constants.CacheKey, m.snapshot())
		return
	}

	cur = cur.Clone()
	m.mu.RLock()
	for _, k := range keys {
		if e, present := m.entries[k]; present {
			cur[k] = e
		} else {
			delete(cur, k)
		}
	}
	m.mu.RUnlock()
	m.cache.Forever(ctx, constants.CacheKey, cur)
}

// Reload rebuilds the in-memory map from the database and env defaults,
// bypassing any cached snapshot, then refreshes the cache.
func (m *Manager) Reload(ctx context.Context) error {
	snap, err := m.rebuild(ctx)
	if err != nil {
		return err
	}
	m.setEntries(snap)
	m.RefreshCache(ctx)
	return nil
}

func (m *Manager) setEntries(snap cachestore.Snapshot) {
	m.mu.Lock()
	m.entries = snap.Clone()
	m.mu.Unlock()
}

func (m *Manager) snapshot() cachestore.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries.Clone()
}
