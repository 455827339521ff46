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

package manager

import (
	"os"
	"strings"

	"github.com/ultraconf/ultraconf/cachestore"
	"github.com/ultraconf/ultraconf/internal/constants"
)

// envDefaults maps environment variables carrying the defaults prefix into
// configuration entries. Names are lowercased and underscores become dots,
// mirroring the usual env spelling of dotted keys: ULTRACONF_DEFAULT_MAIL_DRIVER
// becomes mail.driver. Env values are always strings.
func (m *Manager) envDefaults() cachestore.Snapshot {
	prefix := m.opts.EnvDefaultsPrefix
	if prefix == "" {
		return nil
	}
	environ := m.opts.Environ
	if environ == nil {
		environ = os.Environ
	}

	snap := make(cachestore.Snapshot)
	for _, kv := range environ() {
		name, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		key := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(name, prefix), "_", "."))
		if key == "" {
			continue
		}
		snap[key] = cachestore.Entry{Value: val, Category: constants.DefaultCategory}
	}
	return snap
}
