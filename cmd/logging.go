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
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"

	appconfig "github.com/ultraconf/ultraconf/config"
)

const servicename = "ultraconf"

// setupLogging wires the process default logger. Text goes to stdout;
// with logging.json enabled a JSON stream is fanned out to stderr for
// collectors.
func setupLogging() error {
	cfg, err := appconfig.Load()
	if err != nil {
		return err
	}

	var opts *slog.HandlerOptions
	if cfg.Logging.Debug {
		opts = &slog.HandlerOptions{Level: slog.LevelDebug}
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stdout, opts),
	}
	if cfg.Logging.JSON {
		handlers = append(handlers, slog.NewJSONHandler(os.Stderr, opts))
	}

	slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)).With(
		slog.String("service", servicename),
	))
	return nil
}
