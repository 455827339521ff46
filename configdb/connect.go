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

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ultraconf/ultraconf/internal/dbopen"
	"github.com/ultraconf/ultraconf/internal/sealbox"
)

// EnvPrefix names the environment variables the store connects with,
// e.g. ULTRACONF_DB_HOST or a full ULTRACONF_DB_URL.
const EnvPrefix = "ULTRACONF_DB"

// ConnectToConfigDB opens the configuration database pool from the
// environment.
func ConnectToConfigDB(ctx context.Context) (*pgxpool.Pool, error) {
	return dbopen.OpenPool(ctx, EnvPrefix)
}

// ConfigDBStore connects to the configuration database and wraps the pool
// in a Store using the given codec.
func ConfigDBStore(ctx context.Context, codec *sealbox.Box) (*Store, error) {
	pool, err := ConnectToConfigDB(ctx)
	if err != nil {
		return nil, err
	}
	return NewStore(pool, codec), nil
}
