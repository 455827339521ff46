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

// Package constants supplies named fallback sentinels used across the
// configuration store. Lookup is by name over a frozen map so callers that
// hold only a constant name (CLI flags, audit attribution) resolve it
// without reflection.
package constants

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

const (
	// NoUserID attributes mutations made outside any authenticated session.
	NoUserID = int64(0)

	// DefaultCategory tags entries created without an explicit category.
	DefaultCategory = ""

	// CacheKey is the fixed cache identifier for the full configuration map.
	CacheKey = "ultraconf.config"

	// CacheLockName guards read-modify-write cycles on the cached map.
	CacheLockName = "ultraconf.config.lock"
)

var byName = map[string]any{
	"NoUserID":        NoUserID,
	"DefaultCategory": DefaultCategory,
	"CacheKey":        CacheKey,
	"CacheLockName":   CacheLockName,
}

// Lookup returns the constant registered under name, or fallback with a
// logged warning when the name is unknown.
func Lookup(name string, fallback any) any {
	if v, ok := byName[name]; ok {
		return v
	}
	slog.Warn("unknown constant requested, using fallback", "name", name)
	return fallback
}

// MustLookup returns the constant registered under name, or an error
// listing the valid names.
func MustLookup(name string) (any, error) {
	if v, ok := byName[name]; ok {
		return v, nil
	}
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("unknown constant %q, valid names: %s", name, strings.Join(names, ", "))
}
