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

package cmd

import (
	"context"
	"fmt"

	"github.com/ultraconf/ultraconf/cachestore"
	appconfig "github.com/ultraconf/ultraconf/config"
	"github.com/ultraconf/ultraconf/configdb"
	"github.com/ultraconf/ultraconf/internal/sealbox"
	"github.com/ultraconf/ultraconf/manager"
)

// openStore connects to the configuration database with the codec derived
// from the application config.
func openStore(ctx context.Context) (*configdb.Store, *appconfig.Config, error) {
	cfg, err := appconfig.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load application config: %w", err)
	}
	store, err := configdb.ConfigDBStore(ctx, sealbox.New(cfg.Encryption.Passphrase))
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

// newManager wires the full stack: store, cache, manager, loaded and ready.
// The returned cleanup closes the cache and the pool.
func newManager(ctx context.Context) (*manager.Manager, *configdb.Store, func(), error) {
	store, cfg, err := openStore(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	cache := cachestore.NewMemoryStore(cfg.Cache.TTL)
	mgr := manager.New(store, cache, manager.Options{
		CacheEnabled:      cfg.Cache.Enabled,
		CacheTTL:          cfg.Cache.TTL,
		LockTimeout:       cfg.Cache.LockTimeout,
		EnvDefaultsPrefix: cfg.Env.DefaultsPrefix,
	})

	cleanup := func() {
		cache.Close()
		store.Close()
	}

	if err := mgr.LoadConfig(ctx); err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return mgr, store, cleanup, nil
}
